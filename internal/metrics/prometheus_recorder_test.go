package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.IncRunOutcome(OutcomeFailed)
	pr.IncConfigReload(true)
	pr.IncConfigReload(false)
	pr.SetWatchedPaths(2)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(OutcomeCanceled)
	r.IncConfigReload(true)
	r.SetWatchedPaths(0)
}
