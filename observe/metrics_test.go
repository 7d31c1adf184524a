package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is %T, want Sum[int64]", m.Name, m.Data)
	}

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordRetry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	meta := OpMeta{Component: "retry", Name: "fetch"}
	m.RecordRetry(context.Background(), meta, 3, 120*time.Millisecond, nil)
	m.RecordRetry(context.Background(), meta, 2, 80*time.Millisecond, errors.New("gave up"))

	metrics := collectMetrics(t, reader)

	cycles, ok := metrics["lifecycle.retry.cycles"]
	if !ok {
		t.Fatal("lifecycle.retry.cycles not recorded")
	}
	if got := sumValue(t, cycles); got != 2 {
		t.Errorf("cycles = %d, want 2", got)
	}

	attempts, ok := metrics["lifecycle.retry.attempts"]
	if !ok {
		t.Fatal("lifecycle.retry.attempts not recorded")
	}
	if got := sumValue(t, attempts); got != 5 {
		t.Errorf("attempts = %d, want 5", got)
	}
}

func TestMetrics_RecordPublish(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	meta := OpMeta{Component: "staging", Name: "publish", Target: `\\filer\renders`}
	m.RecordPublish(context.Background(), meta, "complete", 2*time.Second, nil)

	metrics := collectMetrics(t, reader)

	total, ok := metrics["lifecycle.publish.total"]
	if !ok {
		t.Fatal("lifecycle.publish.total not recorded")
	}
	if got := sumValue(t, total); got != 1 {
		t.Errorf("total = %d, want 1", got)
	}

	dur, ok := metrics["lifecycle.publish.duration_ms"]
	if !ok {
		t.Fatal("lifecycle.publish.duration_ms not recorded")
	}
	hist, ok := dur.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("duration is %T, want Histogram[float64]", dur.Data)
	}
	if len(hist.DataPoints) == 0 || hist.DataPoints[0].Count != 1 {
		t.Error("duration histogram has no recorded point")
	}
}

func TestMetrics_RecordMapping(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	meta := OpMeta{Component: "netmap", Name: "acquire", Target: `\\filer\projects`}
	m.RecordMapping(context.Background(), meta, "static", nil)
	m.RecordMapping(context.Background(), meta, "created", nil)

	metrics := collectMetrics(t, reader)

	total, ok := metrics["lifecycle.mapping.total"]
	if !ok {
		t.Fatal("lifecycle.mapping.total not recorded")
	}
	if got := sumValue(t, total); got != 2 {
		t.Errorf("total = %d, want 2", got)
	}
}

func TestNopMetrics(t *testing.T) {
	m := NopMetrics()

	// Must not panic.
	m.RecordRetry(context.Background(), OpMeta{}, 1, 0, nil)
	m.RecordPublish(context.Background(), OpMeta{}, "failed", 0, errors.New("boom"))
	m.RecordMapping(context.Background(), OpMeta{}, "local", nil)
}
