package pipeline

import (
	"testing"
	"time"
)

func TestRenderStats_SnapshotPercentiles(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	stats.Record(100, 0, false)
	stats.Record(200, 2, false)
	stats.Record(300, 0, false)
	stats.Record(400, 1, true)
	stats.Record(500, 0, false)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Failures != 1 {
		t.Errorf("expected failures=1, got %d", snap.Failures)
	}
	if snap.Issues != 3 {
		t.Errorf("expected issues=3, got %d", snap.Issues)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Errorf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Errorf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Errorf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Errorf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Errorf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestRenderStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewRenderStats(10 * time.Millisecond)
	stats.Record(100, 4, true)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 || snap.Issues != 0 || snap.Failures != 0 {
		t.Fatalf("expected empty snapshot after prune, got %+v", snap)
	}

	stats.Record(200, 0, false)
	snap = stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one fresh sample of 200ms, got %+v", snap)
	}
}

func TestRenderStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewRenderStats(0)
	stats.Record(-10, 0, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Fatalf("expected clamped duration=0, got %+v", snap)
	}
}

func TestPercentile_Edges(t *testing.T) {
	if percentile(nil, 50) != 0 {
		t.Error("expected 0 for no values")
	}
	values := []int64{10, 20}
	if percentile(values, 0) != 10 || percentile(values, 100) != 20 {
		t.Error("expected extremes at 0 and 100")
	}
	if percentile([]int64{7}, 99) != 7 {
		t.Error("expected single value for any percentile")
	}
}
