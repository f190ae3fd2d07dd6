package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

// StdoutLogger writes each log line to standard output (or 'Writer' when set) prefixed with a timestamp and the level.
type StdoutLogger struct {
	// MinLevel is the lowest level which will be written, the zero value writes everything.
	MinLevel Level

	// Writer overrides the destination, mainly useful in tests.
	Writer io.Writer
}

// Log writes the formatted message if the level is at least 'MinLevel'.
func (s StdoutLogger) Log(level Level, format string, args ...any) {
	if level < s.MinLevel {
		return
	}

	writer := s.Writer
	if writer == nil {
		writer = os.Stdout
	}

	fmt.Fprintf(writer, "%s %s: %s\n", time.Now().Format(time.RFC3339Nano), level, fmt.Sprintf(format, args...))
}
