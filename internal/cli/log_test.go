package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("resolving imports")
	if buf.Len() != 0 {
		t.Errorf("debug line logged at info level: %q", buf.String())
	}

	logger.Info("generated diagram")
	if !strings.Contains(buf.String(), "generated diagram") {
		t.Errorf("info line missing, got %q", buf.String())
	}

	buf.Reset()
	verbose := newLogger(&buf, log.DebugLevel)
	verbose.Debug("resolving imports")
	if !strings.Contains(buf.String(), "resolving imports") {
		t.Errorf("debug line missing at debug level, got %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	p := newProgress(logger)
	p.done("Parsed user.proto")

	out := buf.String()
	if !strings.Contains(out, "Parsed user.proto") {
		t.Errorf("done() output missing message: %q", out)
	}
	// The elapsed duration is appended in parentheses.
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("done() output missing duration: %q", out)
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext() did not return the attached logger")
	}

	got := loggerFromContext(ctx)
	got.Info("reused through context")
	if !strings.Contains(buf.String(), "reused through context") {
		t.Error("context logger should write to the original buffer")
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext() without a logger should fall back to the default")
	}
}
