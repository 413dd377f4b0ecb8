package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/logger"
)

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("adds resource attributes from context", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{Level: "debug"}, logger.ResourceExtractor())

		ctx := logger.WithResource(context.Background(), "id-1", "config.yaml", "script")
		log.DebugContext(ctx, "resource loaded")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "resource loaded", rec["msg"])
		require.Equal(t, map[string]any{"id": "id-1", "url": "config.yaml", "kind": "script"}, rec["resource"])
	})

	t.Run("untagged context adds nothing", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{}, logger.ResourceExtractor())

		log.InfoContext(context.Background(), "ready")
		require.NotContains(t, buf.String(), "resource")
	})

	t.Run("respects level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{Level: "warn", Format: "text"})

		log.Info("hidden")
		log.Warn("shown")
		require.NotContains(t, buf.String(), "hidden")
		require.Contains(t, buf.String(), "msg=shown")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	require.Equal(t, slog.LevelError, logger.ParseLevel(" ERROR "))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("loud"))
}

func TestNewContextHandler_SkipsNilExtractors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := logger.NewContextHandler(slog.NewJSONHandler(&buf, nil), nil)
	slog.New(h).Info("ok")
	require.Contains(t, buf.String(), `"msg":"ok"`)
}
