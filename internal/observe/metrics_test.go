package observe

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetricsCreatesAllInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	if m.TranscribeDuration == nil || m.SynthesizeDuration == nil ||
		m.AskDuration == nil || m.IngestDuration == nil ||
		m.ProviderRequests == nil || m.ProviderErrors == nil ||
		m.RenderPasses == nil || m.TurnsAppended == nil ||
		m.CapturesDeduplicated == nil {
		t.Fatal("all instruments must be initialised")
	}
}

func TestRecordHelpersEmit(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordProviderRequest(ctx, "openai", "synthesize", "ok")
	m.RecordProviderError(ctx, "openai", "timeout")
	m.RecordTurn(ctx, "user")
	m.RenderPasses.Add(ctx, 1)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected recorded metrics")
	}

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, inst := range sm.Metrics {
			names[inst.Name] = true
		}
	}
	for _, want := range []string{
		"murshed.provider.requests",
		"murshed.provider.errors",
		"murshed.turns.appended",
		"murshed.render.passes",
	} {
		if !names[want] {
			t.Errorf("metric %q was not recorded", want)
		}
	}
}

func TestDefaultMetricsIsSingleton(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("DefaultMetrics must return the same instance")
	}
}
