package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_RoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithContext(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
}

func TestFromContext_MissingLoggerIsUsable(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	// Must not panic
	log.Info("no logger attached")
}

func TestWithUserID_EnrichesLoggerAndContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithUserID(context.Background(), zap.New(core), "user-7")
	enriched.Info("password reset")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "user-7", logs.All()[0].ContextMap()["user_id"])
	// The enriched logger is what later layers see
	assert.Same(t, enriched, FromContext(ctx))
}

func TestWithRequestID_ReadableViaGetRequestID(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-99")

	assert.Equal(t, "req-99", GetRequestID(ctx))
}

func TestGetRequestID_EmptyWithoutMiddleware(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
