package telemetry

import (
	"context"
	"errors"

	"github.com/schoolms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Telemetry bundles every provider started from config
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Business *BusinessMetrics
}

// Setup starts profiling first so span profiles can attach to it, then
// tracing, metrics and the log bridge
func Setup(ctx context.Context, cfg config.TelemetryConfig, appName string, logger *zap.Logger) (*Telemetry, error) {
	name := cfg.ServiceName
	if name == "" {
		name = appName
	}

	t := &Telemetry{}
	var err error
	if t.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:         cfg.ProfilingEnabled,
		ServerAddress:   cfg.PyroscopeURL,
		ApplicationName: name,
	}, logger); err != nil {
		return nil, err
	}
	if t.Tracer, err = NewTracerProvider(ctx, TracerConfig{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		SamplingRatio:     cfg.SamplingRatio,
		ServiceName:       name,
		Insecure:          cfg.Insecure,
		SpanProfiles:      t.Profiler.Enabled(),
	}, logger); err != nil {
		return nil, err
	}
	if t.Meter, err = NewMeterProvider(ctx, MetricsConfig{
		Enabled:           cfg.MetricsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ExportInterval:    cfg.MetricsInterval,
		ServiceName:       name,
		Insecure:          cfg.Insecure,
	}, logger); err != nil {
		return nil, err
	}
	if t.Logs, err = NewLoggerProvider(ctx, LogsConfig{
		Enabled:           cfg.LogsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ServiceName:       name,
		Insecure:          cfg.Insecure,
		Level:             parseLevel(cfg.LogsLevel),
	}); err != nil {
		return nil, err
	}
	if t.Business, err = NewBusinessMetrics(t.Meter.BusinessMeter()); err != nil {
		return nil, err
	}
	return t, nil
}

// Shutdown flushes every provider and stops the profiler
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.Logs.Shutdown(ctx),
		t.Meter.Shutdown(ctx),
		t.Tracer.Shutdown(ctx),
		t.Profiler.Stop(),
	)
}

func parseLevel(s string) zapcore.Level {
	l, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
