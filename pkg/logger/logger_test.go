package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("request_id", v), true
	}
	return slog.Attr{}, false
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("json with extracted attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newLogger(&buf, Config{Level: "info", Format: "json"}, requestID, nil)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.InfoContext(ctx, "comment stored", slog.Int("article_id", 3))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "comment stored", rec["msg"])
		assert.Equal(t, "req-1", rec["request_id"])
		assert.EqualValues(t, 3, rec["article_id"])
	})

	t.Run("extractor may skip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newLogger(&buf, Config{}, requestID)
		log.Info("no request")
		assert.NotContains(t, buf.String(), "request_id")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newLogger(&buf, Config{Level: "warn", Format: "text"}, requestID)
		log.Info("hidden")
		log.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("groups and attrs keep extraction", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newLogger(&buf, Config{}, requestID).With(slog.String("component", "jobs")).WithGroup("task")

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-2")
		log.InfoContext(ctx, "done", slog.String("kind", "purge"))
		assert.Contains(t, buf.String(), `"component":"jobs"`)
		assert.Contains(t, buf.String(), `"request_id":"req-2"`)
	})
}

func TestConfigLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, expected := range tests {
		assert.Equal(t, expected, Config{Level: in}.level(), in)
	}
}

func TestNope(t *testing.T) {
	t.Parallel()

	log := NewNope()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError+4))
}
