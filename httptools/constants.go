package httptools

import (
	"time"
)

const (
	// DefaultClientTimeout is the timeout for client connection/single operations i.e. this doesn't include retries.
	DefaultClientTimeout = time.Minute

	// DefaultRequestRetries is the number of times to attempt a REST request for known failure scenarios. When sending
	// a new request the overall request timeout is not reset, however, the connection/client level timeout is.
	DefaultRequestRetries = 3

	// AnyStatusCode may be used as a requests 'ExpectedStatusCode' to indicate that the caller will inspect the
	// response itself; temporary failures are still retried by 'Execute'.
	AnyStatusCode = 0

	// maxRetryAfter is the longest we'll honor a 'Retry-After' header for.
	maxRetryAfter = time.Minute
)
