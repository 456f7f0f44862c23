package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestWithContext_RoundTrip(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_NotFound(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	logger.Info("must not panic")
}

func TestWithRequestID(t *testing.T) {
	ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.NotNil(t, enriched)
	assert.Same(t, enriched, FromContext(ctx))
}

func TestWithTenantID(t *testing.T) {
	ctx, _ := WithTenantID(context.Background(), zap.NewNop(), "tenant-1")
	assert.Equal(t, "tenant-1", GetTenantID(ctx))
}

func TestWithUserID(t *testing.T) {
	ctx, _ := WithUserID(context.Background(), zap.NewNop(), "user-9")
	assert.Equal(t, "user-9", GetUserID(ctx))
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))
	assert.Equal(t, "", GetTenantID(ctx))
	assert.Equal(t, "", GetUserID(ctx))
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, zap.NewNop(), "req-1")
	ctx, _ = WithTenantID(ctx, FromContext(ctx), "tenant-1")
	ctx, _ = WithUserID(ctx, FromContext(ctx), "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	logger := zap.NewNop()
	assert.Same(t, logger, WithTraceContext(context.Background(), logger))
}

func TestL_InjectsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, logger, "req-42")
	ctx, _ = WithTenantID(ctx, FromContext(ctx), "tenant-7")

	L(ctx).Info("hello")

	entries := logs.All()
	assert.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "tenant-7", fields["tenant_id"])
}

func TestL_EmptyContext(t *testing.T) {
	// Must return a usable no-op logger without panicking
	L(context.Background()).Info("ignored")
}
