package observability

import (
	"context"
	"testing"

	"clanwars/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsProvider_NilIsSafe(t *testing.T) {
	var mp *MetricsProvider

	assert.NotPanics(t, func() {
		mp.RecordAttackResolved(true)
		mp.RecordWarSettled("clan_1", 3)
		mp.RecordEventDropped("attack_resolved")
	})
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_DisabledRecordsNothing(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	assert.False(t, mp.isEnabled())
	assert.NotPanics(t, func() { mp.RecordTransactionRetry("attack") })
}

func TestMetricsProvider_NoneExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter type")
}

func TestMetricsProvider_ConsoleExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "console"
	cfg.OTelServiceName = "clanwars-test"
	cfg.OTelExportIntervalMillis = 60000

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	defer mp.Shutdown(context.Background())

	assert.True(t, mp.isEnabled())
	assert.NotPanics(t, func() {
		mp.RecordAttackResolved(false)
		mp.RecordNATSMessagePublished("war_declared")
	})
}
