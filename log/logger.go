// Package log provides the logging interface used throughout the fixture packages; applications (or tests) supply
// their own implementation, by default nothing is logged.
package log

// Logger interface which allows applications to provide custom logger implementations.
type Logger interface {
	Log(level Level, format string, args ...any)
}

// nopLogger is the no operations logger i.e. a logger that doesn't log anything.
type nopLogger struct{}

func (n nopLogger) Log(_ Level, _ string, _ ...any) {}
