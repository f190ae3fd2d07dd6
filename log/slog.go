package log

import (
	"context"
	"fmt"
	"log/slog"
)

// UserDataValue is a string that should be treated as user data, and therefore tagged as such in the logs.
type UserDataValue string

func (u UserDataValue) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("<ud>%s</ud>", string(u)))
}

// String allows using the value with the printf style 'Logger' interface.
func (u UserDataValue) String() string {
	return fmt.Sprintf("<ud>%s</ud>", string(u))
}

// UserData returns an Attr for a string value that should be treated as user data.
func UserData(key, value string) slog.Attr {
	return slog.Attr{Key: key, Value: UserDataValue(value).LogValue()}
}

// SlogLogger adapts a '*slog.Logger' to the 'Logger' interface.
type SlogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger returns a 'Logger' which formats messages and forwards them to the given 'slog' logger; a <nil> logger
// uses 'slog.Default()'.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogLogger{logger: logger}
}

func (s *SlogLogger) Log(level Level, format string, args ...any) {
	s.logger.Log(context.Background(), level.slogLevel(), fmt.Sprintf(format, args...))
}
