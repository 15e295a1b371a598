package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestInstrumentDB(t *testing.T) {
	recorder := withRecorder(t)
	db := openDB(t)

	require.NoError(t, InstrumentDB(db, DBConfig{}, zap.NewNop()), "disabled is a no-op")
	require.NoError(t, InstrumentDB(db, DBConfig{TraceEnabled: true, DBName: "schoolms"}, zap.NewNop()))

	var n int
	require.NoError(t, db.WithContext(context.Background()).Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	assert.NotEmpty(t, recorder.Ended())
}

func TestRegisterPoolMetrics(t *testing.T) {
	db := openDB(t)
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("db")

	reg, err := RegisterPoolMetrics(db, meter)
	require.NoError(t, err)
	defer reg.Unregister()

	data := collect(t, reader)
	open, ok := data["db_pool_open_connections"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, open.DataPoints, 1)
	assert.GreaterOrEqual(t, open.DataPoints[0].Value, int64(0))
}
