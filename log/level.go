package log

import "log/slog"

// Level is a type alias which is used to indicate the verbosity of an log statement.
type Level uint8

const (
	// LevelTrace is the most verbose log level, it's used for per-request dispatch/response messages.
	LevelTrace Level = iota

	// LevelDebug includes fine-grained informational events such as truncated response bodies.
	LevelDebug

	// LevelInfo includes messages which highlight the progress of a fixture e.g. database created/deleted.
	LevelInfo

	// LevelWarning includes expected but potentially interesting events e.g. a retried database creation.
	LevelWarning

	// LevelError includes error events which may still allow the fixture to continue.
	LevelError

	// LevelPanic includes errors events which should lead to a panic.
	LevelPanic
)

// String returns the four character prefix used by the 'StdoutLogger'.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRAC"
	case LevelDebug:
		return "DEBU"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERRO"
	case LevelPanic:
		return "PNIC"
	}

	return "UNKN"
}

// slogLevel converts the level into the closest 'slog' level, trace is mapped below debug and panic above error.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelTrace:
		return slog.LevelDebug - 4
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}

	return slog.LevelError + 4
}
