package metrics

import (
	"testing"
	"time"
)

func TestRecordFeedsCountsFailures(t *testing.T) {
	m := New()
	m.RecordFeeds(3, 4, 25)

	stats := m.GetStats()
	if stats["feeds_ok"].(int64) != 3 || stats["feeds_failed"].(int64) != 1 {
		t.Fatalf("feeds ok/failed = %v/%v, want 3/1", stats["feeds_ok"], stats["feeds_failed"])
	}
	if stats["entries_fetched"].(int64) != 25 {
		t.Fatalf("entries_fetched = %v, want 25", stats["entries_fetched"])
	}
}

func TestProcessingTimeAverage(t *testing.T) {
	m := New()
	m.RecordProcessingTime(2 * time.Second)
	m.RecordProcessingTime(4 * time.Second)

	if m.AverageProcessingTime != 3*time.Second {
		t.Fatalf("AverageProcessingTime = %v, want 3s", m.AverageProcessingTime)
	}
	if m.LastProcessingTime != 4*time.Second {
		t.Fatalf("LastProcessingTime = %v, want 4s", m.LastProcessingTime)
	}
}

func TestHealthFollowsErrors(t *testing.T) {
	m := New()
	if !m.GetStats()["is_healthy"].(bool) {
		t.Fatalf("new metrics should be healthy")
	}

	m.SetError("send email: 535")
	m.SetLastRun(false)
	if m.GetStats()["is_healthy"].(bool) {
		t.Fatalf("metrics should be unhealthy after an error")
	}

	m.SetLastRun(true)
	if !m.GetStats()["is_healthy"].(bool) {
		t.Fatalf("clean run should restore health")
	}
}

func TestSetRunningCountsRuns(t *testing.T) {
	m := New()
	m.SetRunning(true)
	m.SetRunning(false)
	m.SetRunning(true)

	stats := m.GetStats()
	if stats["runs"].(int64) != 2 || !stats["running"].(bool) {
		t.Fatalf("runs = %v running = %v, want 2/true", stats["runs"], stats["running"])
	}
}
