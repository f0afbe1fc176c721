package logger

import (
	"context"
	"testing"

	"ojadmin/pkg/utils/contextkey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextFieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetGlobal(zap.New(core))
	t.Cleanup(func() { SetGlobal(nil) })

	ctx := context.WithValue(context.Background(), contextkey.RequestID, "req-1")
	ctx = context.WithValue(ctx, contextkey.Screen, "events")
	Warn(ctx, "session invalidated", zap.Int("status", 401))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "events", fields["screen"])
	assert.Equal(t, int64(401), fields["status"])
}

func TestNilGlobalIsNoop(t *testing.T) {
	SetGlobal(nil)
	Info(context.Background(), "dropped")
	assert.NoError(t, Sync())
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewLoggerDefaults(t *testing.T) {
	l, err := NewLogger(Config{Format: "json", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, l.WithContext(context.Background()))
}
