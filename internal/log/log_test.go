package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentDataset, Output: &buf})

	logger.Info("Dataset loaded", FieldRecords, 4)
	assert.Contains(t, buf.String(), "component=dataset")
	assert.Contains(t, buf.String(), "records=4")

	buf.Reset()
	logger.WithComponent(ComponentAMQP).Warn("Reload failed")
	assert.Contains(t, buf.String(), "component=amqp")
	assert.Equal(t, ComponentDataset, logger.Component())
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().
		WithSection("cards", "gen-1", "ok", 3).
		WithError(errors.New("boom")).
		WithError(nil).
		WithRequestID("")

	assert.Equal(t, "cards", f[FieldSection])
	assert.Equal(t, 3, f[FieldRecords])
	assert.Equal(t, "boom", f[FieldError])
	assert.NotContains(t, f, FieldRequestID)
	assert.Len(t, f.ToSlice(), 2*len(f))
}

func TestStatusLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, StatusLevel(200))
	assert.Equal(t, slog.LevelInfo, StatusLevel(303))
	assert.Equal(t, slog.LevelWarn, StatusLevel(404))
	assert.Equal(t, slog.LevelError, StatusLevel(500))
}

func TestFromContextFallsBack(t *testing.T) {
	assert.Equal(t, ComponentApp, FromContext(context.Background()).Component())

	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestRequestLoggerEnd(t *testing.T) {
	var buf bytes.Buffer
	rl := NewRequestLogger(New(Config{Output: &buf}))
	req := httptest.NewRequest("GET", "/sections/cards?gender=Male", nil)

	rl.End(context.Background(), req, "req-1", "10.0.0.1", 404, 12)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status_code=404")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "component=http")
}
