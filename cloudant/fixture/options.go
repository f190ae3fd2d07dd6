package fixture

import (
	"crypto/tls"
	"time"

	"github.com/couchbase/tools-fixture/cloudant/docclient"
	"github.com/couchbase/tools-fixture/envvar"
	"github.com/couchbase/tools-fixture/httptools"
	"github.com/couchbase/tools-fixture/log"
	"github.com/couchbase/tools-fixture/netutil"
	"github.com/couchbase/tools-fixture/retry"
)

// Environment variables which override the matching 'ManagerOptions'.
const (
	// EnvHTTPTimeouts is a JSON encoded 'netutil.HTTPTimeouts' e.g. '{"dialer":"5s"}'.
	EnvHTTPTimeouts = "CLOUDANT_FIXTURE_HTTP_TIMEOUTS"

	// EnvSetUpAttempts is the number of times 'SetUp' attempts to create the database.
	EnvSetUpAttempts = "CLOUDANT_FIXTURE_SETUP_ATTEMPTS"

	// EnvSetUpDelay is the pause (as a Go duration) after an attempt which failed due to a transport fault.
	EnvSetUpDelay = "CLOUDANT_FIXTURE_SETUP_DELAY"

	// EnvRequestsPerSecond limits the rate at which requests are sent.
	EnvRequestsPerSecond = "CLOUDANT_FIXTURE_REQUESTS_PER_SECOND"
)

const (
	// DefaultPort is the port of the account, Cloudant is only available over HTTPS.
	DefaultPort = 443

	// DefaultSetUpAttempts is the number of times 'SetUp' will attempt to create the database.
	DefaultSetUpAttempts = 5

	// DefaultSetUpDelay is the pause after a create attempt which failed due to a transport fault.
	DefaultSetUpDelay = time.Second
)

// SetUpPolicy controls how 'SetUp' retries creating the database.
type SetUpPolicy struct {
	// MaxAttempts is the total number of create attempts.
	//
	// Default: 5
	MaxAttempts int

	// Delay is the pause after an attempt which failed due to a transport fault; attempts which were rejected by the
	// service are retried immediately.
	//
	// Default: 1s
	Delay time.Duration

	// Sleep is used to pause between attempts, tests may replace it to avoid waiting.
	//
	// Default: 'retry.Sleep'
	Sleep retry.SleepFunc
}

// ManagerOptions encapsulates the options for creating a 'Manager'.
type ManagerOptions struct {
	// BaseURL overrides the URL of the account, which is otherwise derived from the credential as
	// 'https://<user>.cloudant.com:<port>'. Useful when testing against a local CouchDB.
	BaseURL string

	// Port is used when deriving the account URL.
	//
	// Default: 443
	Port int

	// TLSConfig is used for all connections to the account, a <nil> config uses the system root CAs.
	TLSConfig *tls.Config

	// HTTPTimeouts are the timeouts of the shared transport, overridden by 'CLOUDANT_FIXTURE_HTTP_TIMEOUTS'.
	HTTPTimeouts netutil.HTTPTimeouts

	// ClientTimeout is the timeout of a single request.
	//
	// Default: 1m
	ClientTimeout time.Duration

	// RequestRetries is the number of times read requests are attempted when they fail with a temporary error.
	//
	// Default: 3
	RequestRetries int

	// RequestsPerSecond limits the rate at which requests are sent; zero means unlimited. Overridden by
	// 'CLOUDANT_FIXTURE_REQUESTS_PER_SECOND'.
	RequestsPerSecond int

	// UserAgent is sent with every request.
	//
	// Default: 'cloudant-fixture'
	UserAgent string

	// Logger receives the log output of the manager, by default nothing is logged.
	Logger log.Logger

	// Connector creates the document client connections, by default the kivik CouchDB driver is used.
	Connector docclient.Connector

	// SetUpPolicy controls how 'SetUp' retries, 'CLOUDANT_FIXTURE_SETUP_ATTEMPTS' and 'CLOUDANT_FIXTURE_SETUP_DELAY'
	// override the attempts/delay.
	SetUpPolicy SetUpPolicy
}

// defaults applies the environment overrides, then fills in any unset options.
func (m *ManagerOptions) defaults() error {
	timeouts, err := envvar.GetHTTPTimeouts(EnvHTTPTimeouts, m.HTTPTimeouts)
	if err != nil {
		return err
	}

	m.HTTPTimeouts = timeouts

	if attempts, ok := envvar.GetInt(EnvSetUpAttempts); ok {
		m.SetUpPolicy.MaxAttempts = attempts
	}

	if delay, ok := envvar.GetDuration(EnvSetUpDelay); ok {
		m.SetUpPolicy.Delay = delay
	}

	if rps, ok := envvar.GetInt(EnvRequestsPerSecond); ok {
		m.RequestsPerSecond = rps
	}

	if m.Port == 0 {
		m.Port = DefaultPort
	}

	if m.ClientTimeout == 0 {
		m.ClientTimeout = httptools.DefaultClientTimeout
	}

	if m.RequestRetries == 0 {
		m.RequestRetries = httptools.DefaultRequestRetries
	}

	if m.SetUpPolicy.MaxAttempts <= 0 {
		m.SetUpPolicy.MaxAttempts = DefaultSetUpAttempts
	}

	if m.SetUpPolicy.Delay <= 0 {
		m.SetUpPolicy.Delay = DefaultSetUpDelay
	}

	if m.SetUpPolicy.Sleep == nil {
		m.SetUpPolicy.Sleep = retry.Sleep
	}

	return nil
}
