package httptools

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Method is a readability wrapper around the HTTP method strings.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodHead   Method = http.MethodHead
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// Idempotent returns a boolean indicating whether repeating a request using this method has the same effect as
// sending it once. 'POST' isn't, e.g. it creates a new document each time.
func (m Method) Idempotent() bool {
	return m == MethodGet || m == MethodHead || m == MethodPut || m == MethodDelete
}

// Endpoint is a path relative to the account URL e.g. '/%s/_bulk_docs'; query parameters are given separately using
// 'Request.QueryParameters'.
type Endpoint string

// Format fills in the verbs of the endpoint, each argument is path escaped first so that a document id such as
// '_design/filters' is sent as a single path segment.
func (e Endpoint) Format(args ...string) Endpoint {
	escaped := make([]any, 0, len(args))
	for _, arg := range args {
		escaped = append(escaped, url.PathEscape(arg))
	}

	return Endpoint(fmt.Sprintf(string(e), escaped...))
}

// ContentType is the value sent in the 'Content-Type' header of a request.
type ContentType string

const (
	ContentTypeNone       ContentType = ""
	ContentTypeJSON       ContentType = "application/json"
	ContentTypeURLEncoded ContentType = "application/x-www-form-urlencoded"
	ContentTypeText       ContentType = "text/plain"
)

// Request encapsulates the parameters/options which are required when sending a REST request.
type Request struct {
	// Host is the scheme, host and port the request is sent to e.g. 'https://account.cloudant.com:443'.
	Host string

	// Method is the HTTP method to use.
	Method Method

	// Endpoint is the path, see 'Endpoint.Format' for building endpoints containing database names/document ids.
	Endpoint Endpoint

	// QueryParameters are encoded and appended to the request URL.
	QueryParameters url.Values

	// Header contains additional headers, these are overridden by the auth/content-type headers.
	Header map[string]string

	// ContentType is sent in the 'Content-Type' header, there is no default.
	ContentType ContentType

	// Body is the request body, may be <nil>.
	Body []byte

	// ExpectedStatusCode is the status code which indicates success; 'AnyStatusCode' leaves interpreting the response
	// to the caller.
	ExpectedStatusCode int

	// Idempotent indicates whether a non-idempotent method (e.g. POST) may be retried.
	Idempotent bool

	// RetryOnStatusCodes are additional status codes which should be retried.
	RetryOnStatusCodes []int

	// NoRetryOnStatusCodes are status codes which should never be retried, even if they're usually temporary.
	NoRetryOnStatusCodes []int

	// Timeout overrides the client timeout for this request, only when it's longer; -1 means no timeout.
	Timeout time.Duration
}

// IsIdempotent returns a boolean indicating whether this request is idempotent and may be retried.
func (r *Request) IsIdempotent() bool {
	return r.Idempotent || r.Method.Idempotent()
}

// isExpected returns a boolean indicating whether the given status code is a successful response for this request.
func (r *Request) isExpected(status int) bool {
	return r.ExpectedStatusCode == AnyStatusCode || r.ExpectedStatusCode == status
}

// Response represents a fully read REST response.
type Response struct {
	StatusCode int
	Body       []byte
}
