package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	CreatedAt time.Time
}

func setupTracedDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRecord{}))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.True(t, cfg.WithoutVariables)
}

func TestDBTracingPlugin_RegisterOtelGorm_Disabled(t *testing.T) {
	db := setupTracedDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = false

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	assert.NoError(t, plugin.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_RegisterOtelGorm_Enabled(t *testing.T) {
	db := setupTracedDB(t)

	cfg := DBTracingConfig{
		Enabled:          true,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "sqlite",
		WithoutVariables: true,
	}

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	assert.NoError(t, plugin.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_SpansCarryTableAndRows(t *testing.T) {
	db := setupTracedDB(t)

	spanRecorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(spanRecorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	cfg := DBTracingConfig{
		Enabled:          true,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "sqlite",
		WithoutVariables: true,
	}
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "create-record")

	require.NoError(t, db.WithContext(ctx).Create(&tracedRecord{Name: "invoice"}).Error)
	span.End()

	// The parent span exists; otelgorm added its own child spans
	ended := spanRecorder.Ended()
	assert.NotEmpty(t, ended)
}

func TestDBTracingPlugin_SlowQueryMarked(t *testing.T) {
	db := setupTracedDB(t)

	cfg := DBTracingConfig{
		Enabled:          true,
		SlowQueryThresh:  time.Nanosecond, // everything counts as slow
		DBSystem:         "sqlite",
		WithoutVariables: true,
	}
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	// No recording span in context; callback must not panic
	require.NoError(t, db.Create(&tracedRecord{Name: "note"}).Error)
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}
