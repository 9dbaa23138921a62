// Package observe provides observability primitives for the Murshed session
// controller: OpenTelemetry metrics with a Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([DefaultMetrics]) is provided for convenience;
// tests should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Murshed metrics.
const meterName = "github.com/MrWong99/murshed"

// Metrics holds all OpenTelemetry metric instruments for the controller.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per backend adapter ---

	// TranscribeDuration tracks speech-to-text latency.
	TranscribeDuration metric.Float64Histogram

	// SynthesizeDuration tracks text-to-speech latency.
	SynthesizeDuration metric.Float64Histogram

	// AskDuration tracks question answering latency.
	AskDuration metric.Float64Histogram

	// IngestDuration tracks document ingestion latency.
	IngestDuration metric.Float64Histogram

	// --- Counters ---

	// ProviderRequests counts backend adapter calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("op", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts adapter failures. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter

	// RenderPasses counts render pass evaluations.
	RenderPasses metric.Int64Counter

	// TurnsAppended counts conversation turns by role.
	TurnsAppended metric.Int64Counter

	// CapturesDeduplicated counts audio captures suppressed by the
	// fingerprint guard.
	CapturesDeduplicated metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// remote speech and retrieval round trips.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.TranscribeDuration, err = m.Float64Histogram("murshed.transcribe.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SynthesizeDuration, err = m.Float64Histogram("murshed.synthesize.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AskDuration, err = m.Float64Histogram("murshed.ask.duration",
		metric.WithDescription("Latency of document-grounded question answering."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.IngestDuration, err = m.Float64Histogram("murshed.ingest.duration",
		metric.WithDescription("Latency of document ingestion."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ProviderRequests, err = m.Int64Counter("murshed.provider.requests",
		metric.WithDescription("Total backend adapter requests by provider, operation, and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("murshed.provider.errors",
		metric.WithDescription("Total adapter failures by provider and failure kind."),
	); err != nil {
		return nil, err
	}
	if met.RenderPasses, err = m.Int64Counter("murshed.render.passes",
		metric.WithDescription("Total render pass evaluations."),
	); err != nil {
		return nil, err
	}
	if met.TurnsAppended, err = m.Int64Counter("murshed.turns.appended",
		metric.WithDescription("Total conversation turns appended by role."),
	); err != nil {
		return nil, err
	}
	if met.CapturesDeduplicated, err = m.Int64Counter("murshed.captures.deduplicated",
		metric.WithDescription("Audio captures suppressed by the fingerprint guard."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordProviderRequest records a provider request counter increment with the
// standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, op, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("op", op),
			attribute.String("status", status),
		),
	)
}

// RecordProviderError records a provider error counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		),
	)
}

// RecordTurn records a turn append by role.
func (m *Metrics) RecordTurn(ctx context.Context, role string) {
	m.TurnsAppended.Add(ctx, 1,
		metric.WithAttributes(attribute.String("role", role)),
	)
}
