package netutil

import (
	"net/http"
)

// TemporaryFailureStatusCodes is the set of status codes which indicate the service may succeed if asked again.
var TemporaryFailureStatusCodes = map[int]struct{}{
	// The service acted as a gateway and received an invalid response.
	http.StatusBadGateway: {},
	// The service acted as a gateway and did not receive a response in time.
	http.StatusGatewayTimeout: {},
	// The service is down for maintenance or overloaded.
	http.StatusServiceUnavailable: {},
	// Too many requests have been sent in a given amount of time, returned when exceeding a plans throughput.
	http.StatusTooManyRequests: {},
}

// IsTemporaryFailure returns a boolean indicating whether the provided status code represents a temporary error and
// should be retried.
func IsTemporaryFailure(status int) bool {
	_, ok := TemporaryFailureStatusCodes[status]
	return ok
}
