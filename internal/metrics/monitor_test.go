package metrics

import (
	"testing"

	"github.com/hyperjump/kaiseki/internal/models"
)

func TestMonitor_IdleWithoutSamples(t *testing.T) {
	m := NewMonitor(10, 5000)
	stats := m.Stats()
	if stats.Health != HealthIdle {
		t.Errorf("health=%q", stats.Health)
	}
	if stats.TotalRequests != 0 {
		t.Errorf("TotalRequests=%d", stats.TotalRequests)
	}
}

func TestMonitor_CountAndSuccessRate(t *testing.T) {
	m := NewMonitor(10, 5000)
	m.Record(models.ModeRAG, 100, true)
	m.Record(models.ModeRAG, 200, true)
	m.Record(models.ModeBasic, 300, false)
	m.Record(models.ModeBasic, 400, true)

	stats := m.Stats()
	if stats.TotalRequests != 4 {
		t.Errorf("TotalRequests=%d", stats.TotalRequests)
	}
	if stats.SuccessRate != 0.75 {
		t.Errorf("SuccessRate=%f", stats.SuccessRate)
	}
}

func TestMonitor_PerModeStats(t *testing.T) {
	m := NewMonitor(10, 5000)
	m.Record(models.ModeRAG, 100, true)
	m.Record(models.ModeRAG, 300, true)

	stats := m.Stats()
	rag, ok := stats.ByMode[string(models.ModeRAG)]
	if !ok {
		t.Fatal("missing rag stats")
	}
	if rag.Count != 2 || rag.MinMs != 100 || rag.MaxMs != 300 || rag.AvgMs != 200 {
		t.Errorf("rag=%+v", rag)
	}
}

func TestMonitor_HealthTransitions(t *testing.T) {
	m := NewMonitor(100, 5000)
	for i := 0; i < 10; i++ {
		m.Record(models.ModeRAG, 100, true)
	}
	if h := m.Stats().Health; h != HealthHealthy {
		t.Errorf("all successes: health=%q", h)
	}

	// Push the success rate into the degraded band (between 0.50 and 0.90).
	for i := 0; i < 5; i++ {
		m.Record(models.ModeRAG, 100, false)
	}
	if h := m.Stats().Health; h != HealthDegraded {
		t.Errorf("2/3 success: health=%q", h)
	}

	for i := 0; i < 30; i++ {
		m.Record(models.ModeRAG, 100, false)
	}
	if h := m.Stats().Health; h != HealthUnhealthy {
		t.Errorf("mostly failing: health=%q", h)
	}
}

func TestMonitor_SlowButSuccessfulIsDegraded(t *testing.T) {
	m := NewMonitor(10, 500)
	for i := 0; i < 5; i++ {
		m.Record(models.ModeRAG, 2000, true)
	}
	if h := m.Stats().Health; h != HealthDegraded {
		t.Errorf("slow requests: health=%q", h)
	}
}

func TestMonitor_RingBufferOverwrites(t *testing.T) {
	m := NewMonitor(3, 5000)
	m.Record(models.ModeRAG, 1, false)
	m.Record(models.ModeRAG, 2, true)
	m.Record(models.ModeRAG, 3, true)
	m.Record(models.ModeRAG, 4, true) // overwrites the failure

	stats := m.Stats()
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests=%d", stats.TotalRequests)
	}
	if stats.SuccessRate != 1.0 {
		t.Errorf("SuccessRate=%f, oldest sample should be gone", stats.SuccessRate)
	}
}

func TestMonitor_RecentNewestFirst(t *testing.T) {
	m := NewMonitor(5, 5000)
	m.Record(models.ModeRAG, 1, true)
	m.Record(models.ModeRAG, 2, true)
	m.Record(models.ModeRAG, 3, true)

	recent := m.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("len=%d", len(recent))
	}
	if recent[0].LatencyMs != 3 || recent[1].LatencyMs != 2 {
		t.Errorf("got %v", recent)
	}
}

func TestMonitor_RecentAfterWrap(t *testing.T) {
	m := NewMonitor(3, 5000)
	for i := int64(1); i <= 5; i++ {
		m.Record(models.ModeRAG, i, true)
	}
	recent := m.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("len=%d", len(recent))
	}
	if recent[0].LatencyMs != 5 || recent[1].LatencyMs != 4 || recent[2].LatencyMs != 3 {
		t.Errorf("got %v", recent)
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor(10, 5000)
	m.Record(models.ModeRAG, 100, true)
	m.Reset()
	if m.Count() != 0 {
		t.Errorf("Count=%d after reset", m.Count())
	}
	if m.Stats().Health != HealthIdle {
		t.Error("expected idle after reset")
	}
}
