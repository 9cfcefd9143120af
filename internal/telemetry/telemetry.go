// Package telemetry exposes pipeline metrics through OpenTelemetry,
// exported in Prometheus text format.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const instrumentationName = "github.com/musicjoeyoung/MCP-ElevenLabs/internal/telemetry"

// Provider owns the meter provider and its scrape handler
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
}

// Setup builds a meter provider backed by a dedicated Prometheus registry
func Setup(ctx context.Context, serviceName, version string) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	return &Provider{meterProvider: mp, registry: registry}, nil
}

// Meter returns the meter used for pipeline instruments
func (p *Provider) Meter() metric.Meter {
	return p.meterProvider.Meter(instrumentationName)
}

// Handler serves the Prometheus scrape endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.meterProvider.Shutdown(ctx)
}

// Metrics records generation pipeline measurements. A nil *Metrics records nothing.
type Metrics struct {
	runs          metric.Int64Counter
	stageFailures metric.Int64Counter
	audioBytes    metric.Int64Counter
	runDuration   metric.Float64Histogram
	lowQuality    metric.Int64Counter
}

// NewMetrics registers the pipeline instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runs, err := meter.Int64Counter("podgen_generation_runs",
		metric.WithDescription("Generation runs by terminal status"))
	if err != nil {
		return nil, err
	}
	stageFailures, err := meter.Int64Counter("podgen_stage_failures",
		metric.WithDescription("Pipeline failures by stage"))
	if err != nil {
		return nil, err
	}
	audioBytes, err := meter.Int64Counter("podgen_audio_bytes",
		metric.WithDescription("Bytes of assembled episode audio"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	runDuration, err := meter.Float64Histogram("podgen_generation_duration",
		metric.WithDescription("Wall time of a generation run"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	lowQuality, err := meter.Int64Counter("podgen_low_quality_scripts",
		metric.WithDescription("Scripts shorter than the configured minimum"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		runs:          runs,
		stageFailures: stageFailures,
		audioBytes:    audioBytes,
		runDuration:   runDuration,
		lowQuality:    lowQuality,
	}, nil
}

// RecordRun counts a finished run and its duration
func (m *Metrics) RecordRun(ctx context.Context, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordStageFailure counts a failure in stage
func (m *Metrics) RecordStageFailure(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.stageFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordAudioBytes counts assembled audio
func (m *Metrics) RecordAudioBytes(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.audioBytes.Add(ctx, int64(n))
}

// RecordLowQuality counts a short script
func (m *Metrics) RecordLowQuality(ctx context.Context, profile string) {
	if m == nil {
		return
	}
	m.lowQuality.Add(ctx, 1, metric.WithAttributes(attribute.String("profile", profile)))
}
