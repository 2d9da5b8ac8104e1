package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextFallsBackToProcessLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	FromContext(context.Background()).Info("hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "hello", logs.All()[0].Message)
}

func TestFromContextPrefersRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "req-1")))

	FromContext(ctx).Info("scoped")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
}

func TestInitHonorsLevel(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	logger, err := Init("production", "warn")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.InfoLevel))
	require.True(t, logger.Core().Enabled(zap.WarnLevel))
}
