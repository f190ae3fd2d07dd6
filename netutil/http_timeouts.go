package netutil

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// HTTPTimeouts encapsulates the timeouts for a HTTP client into an object which can be parsed from an environment
// variable e.g. '{"dialer":"5s","transport_tls_handshake":"20s"}'.
type HTTPTimeouts struct {
	Dialer                  *time.Duration
	KeepAlive               *time.Duration
	TransportIdleConn       *time.Duration
	TransportContinue       *time.Duration
	TransportResponseHeader *time.Duration
	TransportTLSHandshake   *time.Duration
}

func (ct *HTTPTimeouts) UnmarshalJSON(data []byte) error {
	type overlay struct {
		Dialer                  string `json:"dialer,omitempty"`
		KeepAlive               string `json:"keep_alive,omitempty"`
		TransportIdleConn       string `json:"transport_idle_conn,omitempty"`
		TransportContinue       string `json:"transport_continue,omitempty"`
		TransportResponseHeader string `json:"transport_response_header,omitempty"`
		TransportTLSHandshake   string `json:"transport_tls_handshake,omitempty"`
	}

	var decoded overlay

	err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &decoded)
	if err != nil {
		return err
	}

	fields := []struct {
		name  string
		value string
		dst   **time.Duration
	}{
		{name: "dialer", value: decoded.Dialer, dst: &ct.Dialer},
		{name: "keep_alive", value: decoded.KeepAlive, dst: &ct.KeepAlive},
		{name: "transport_idle_conn", value: decoded.TransportIdleConn, dst: &ct.TransportIdleConn},
		{name: "transport_continue", value: decoded.TransportContinue, dst: &ct.TransportContinue},
		{name: "transport_response_header", value: decoded.TransportResponseHeader, dst: &ct.TransportResponseHeader},
		{name: "transport_tls_handshake", value: decoded.TransportTLSHandshake, dst: &ct.TransportTLSHandshake},
	}

	for _, field := range fields {
		if field.value == "" {
			*field.dst = nil
			continue
		}

		parsed, err := time.ParseDuration(field.value)
		if err != nil {
			return fmt.Errorf("invalid '%s' timeout: %w", field.name, err)
		}

		*field.dst = &parsed
	}

	return nil
}
