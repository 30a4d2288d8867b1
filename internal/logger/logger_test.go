package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	got, ok := ParseLogLevel("unknown")
	require.False(t, ok)
	require.Equal(t, zapcore.InfoLevel, got)
}

// TestContextHelpers checks that names and fields attached to a context reach the log entry.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "alarm-server")
	ctx = WithKV(ctx, "worker", 3)

	InfoKV(ctx, "Alarm ringing", "label", "tea")
	DebugKV(ctx, "Waiting")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "alarm-server", entries[0].LoggerName)
	require.Equal(t, "Alarm ringing", entries[0].Message)
	require.Equal(t, map[string]any{"worker": int64(3), "label": "tea"}, entries[0].ContextMap())
	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

// TestFromContext_FallsBackToGlobal ensures contexts without a logger use the global one.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
	require.Same(t, Logger(), FromContext(ToContext(context.Background(), nil)))
}
