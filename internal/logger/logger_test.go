package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/studydeck/internal/logger"
)

func newBufferLogger(level logger.Level) (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(level),
		logger.WithColors(false),
	)
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(logger.WARN)

	l.Debug("debug message")
	l.Info("info message")
	assert.Empty(t, buf.String())

	l.Warn("warn message")
	l.Error("error message")
	assert.Contains(t, buf.String(), "warn message")
	assert.Contains(t, buf.String(), "error message")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("Error"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("bogus"))
}

func TestPrefixAndFields(t *testing.T) {
	l, buf := newBufferLogger(logger.INFO)

	l.WithPrefix("api").WithField("request_id", "abc").Info("request completed")

	out := buf.String()
	assert.Contains(t, out, "[api]")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "request_id=abc")
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(logger.INFO)

	child := l.WithField("worker_id", 1)
	l.Info("parent message")
	assert.NotContains(t, buf.String(), "worker_id")

	buf.Reset()
	child.Info("child message")
	assert.Contains(t, buf.String(), "worker_id=1")
}

func TestFormatArgs(t *testing.T) {
	l, buf := newBufferLogger(logger.INFO)

	l.Info("deck created: id=%d", 42)
	assert.Contains(t, buf.String(), "deck created: id=42")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))

	l, _ := newBufferLogger(logger.INFO)
	ctx := logger.NewContext(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
}
