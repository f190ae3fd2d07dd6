package aprov

// DefaultUserAgent is the user agent sent when a 'Static' provider isn't given one.
const DefaultUserAgent = "cloudant-fixture"

// Static implements the 'Provider' interface and always returns the same credentials, regardless of host. A fixture
// only ever talks to a single account so this is the only provider required.
type Static struct {
	UserAgent, Username, Password string
}

var _ Provider = (*Static)(nil)

func (s *Static) GetCredentials(_ string) (string, string) {
	return s.Username, s.Password
}

func (s *Static) GetUserAgent() string {
	if s.UserAgent == "" {
		return DefaultUserAgent
	}

	return s.UserAgent
}
