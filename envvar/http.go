package envvar

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/couchbase/tools-fixture/netutil"
)

// GetHTTPTimeouts returns the timeouts that should be used for a HTTP client from the environment, any timeout which
// isn't provided by the environment is taken from the given defaults.
//
// NOTE: This function does not guarantee that every field of the returned 'netutil.HTTPTimeouts' is going to be
// non-nil, instead this is ensured by 'netutil.NewHTTPTransport'.
func GetHTTPTimeouts(envVar string, defaults netutil.HTTPTimeouts) (netutil.HTTPTimeouts, error) {
	timeouts, err := getHTTPTimeoutsFromEnv(envVar)
	if err != nil {
		return netutil.HTTPTimeouts{}, fmt.Errorf("failed to get timeouts from environment: %w", err)
	}

	setIfNil(&timeouts.Dialer, defaults.Dialer)
	setIfNil(&timeouts.KeepAlive, defaults.KeepAlive)
	setIfNil(&timeouts.TransportIdleConn, defaults.TransportIdleConn)
	setIfNil(&timeouts.TransportContinue, defaults.TransportContinue)
	setIfNil(&timeouts.TransportResponseHeader, defaults.TransportResponseHeader)
	setIfNil(&timeouts.TransportTLSHandshake, defaults.TransportTLSHandshake)

	return timeouts, nil
}

// getHTTPTimeoutsFromEnv returns the timeouts that should be used for a HTTP client from the environment.
func getHTTPTimeoutsFromEnv(envVar string) (netutil.HTTPTimeouts, error) {
	var timeouts netutil.HTTPTimeouts

	env, ok := os.LookupEnv(envVar)
	if !ok {
		return timeouts, nil
	}

	err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(env), &timeouts)

	return timeouts, err
}

func setIfNil(p **time.Duration, other *time.Duration) {
	if *p == nil {
		*p = other
	}
}
