package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func removeTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return a
}

func TestUserData(t *testing.T) {
	var b bytes.Buffer

	l := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{ReplaceAttr: removeTime}))

	l.Info("creating database", UserData("user", "account"))
	l.Info("deleting database", "database", UserDataValue("test-db"))

	require.Equal(t, `level=INFO msg="creating database" user=<ud>account</ud>
level=INFO msg="deleting database" database=<ud>test-db</ud>
`, b.String())
}

func TestUserDataValueString(t *testing.T) {
	require.Equal(t, "<ud>test-db</ud>", UserDataValue("test-db").String())
}

func TestSlogLogger(t *testing.T) {
	var b bytes.Buffer

	handler := slog.NewTextHandler(&b, &slog.HandlerOptions{ReplaceAttr: removeTime, Level: slog.LevelDebug})

	logger := NewWrappedLogger(NewSlogLogger(slog.New(handler)))
	logger.Tracef("dropped %d", 1)
	logger.Debugf("kept %d", 2)
	logger.Warnf("kept %s", "warning")

	require.Equal(t, `level=DEBUG msg="kept 2"
level=WARN msg="kept warning"
`, b.String())
}
