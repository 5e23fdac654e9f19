package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestJobMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.IncSuccess("campaign_dispatch")
	m.IncSuccess("campaign_dispatch")
	m.IncFailure("pending_upload_cleanup")
	m.ObserveDuration("campaign_dispatch", 250*time.Millisecond)

	if got := testutil.ToFloat64(m.success.WithLabelValues("campaign_dispatch")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("pending_upload_cleanup")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestJobMetricsNilSafe(t *testing.T) {
	var m *JobMetrics
	m.IncSuccess("anything")
	m.IncFailure("anything")
	m.ObserveDuration("anything", time.Second)

	empty := NewJobMetrics(nil)
	empty.IncSuccess("low_stock_report")
}
