// Package aprov provides authentication providers which supply the basic auth credentials attached to each request.
package aprov

// Provider is the interface used by the REST client to fetch the credentials (and user agent) for a given host.
type Provider interface {
	GetCredentials(host string) (string, string)
	GetUserAgent() string
}
