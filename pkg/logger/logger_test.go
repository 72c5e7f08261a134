package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCtxFallsBackToBaseLogger(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))
}

func TestInjectLogger(t *testing.T) {
	var buf bytes.Buffer
	Setup("production", &buf)

	ctx := InjectLogger(context.Background(), L.With("request_id", "abc"))
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LevelFor(302))
	assert.Equal(t, slog.LevelWarn, LevelFor(404))
	assert.Equal(t, slog.LevelError, LevelFor(500))
}
