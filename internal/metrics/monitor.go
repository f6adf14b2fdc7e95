// Package metrics tracks per-request latency and success for health reporting.
package metrics

import (
	"sync"
	"time"

	"github.com/hyperjump/kaiseki/internal/models"
)

// Health states, ordered from best to worst.
const (
	HealthIdle      = "idle"
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// Sample is one recorded request outcome.
type Sample struct {
	Mode      models.Mode `json:"mode"`
	LatencyMs int64       `json:"latency_ms"`
	Success   bool        `json:"success"`
	At        time.Time   `json:"at"`
}

// ModeStats aggregates latency for one mode.
type ModeStats struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
}

// Stats is a point-in-time summary over the retained window.
type Stats struct {
	TotalRequests int                  `json:"total_requests"`
	SuccessRate   float64              `json:"success_rate"`
	ByMode        map[string]ModeStats `json:"by_mode"`
	Health        string               `json:"health"`
	UptimeSec     int64                `json:"uptime_sec"`
}

// Monitor records request outcomes in a fixed-capacity ring buffer. Old
// samples are overwritten once capacity is reached, so stats reflect the most
// recent window rather than all-time totals. Safe for concurrent use.
type Monitor struct {
	mu        sync.Mutex
	samples   []Sample
	cursor    int
	filled    bool
	startedAt time.Time

	latencyCeilMs int64
}

// NewMonitor creates a monitor retaining up to capacity samples.
// latencyCeilMs bounds the average latency allowed for a healthy state.
func NewMonitor(capacity int, latencyCeilMs int64) *Monitor {
	if capacity <= 0 {
		capacity = 1000
	}
	if latencyCeilMs <= 0 {
		latencyCeilMs = 5000
	}
	return &Monitor{
		samples:       make([]Sample, capacity),
		startedAt:     time.Now(),
		latencyCeilMs: latencyCeilMs,
	}
}

// Record stores one request outcome. Never blocks beyond the internal lock
// and never fails; metrics must not perturb the request path.
func (m *Monitor) Record(mode models.Mode, latencyMs int64, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples[m.cursor] = Sample{
		Mode:      mode,
		LatencyMs: latencyMs,
		Success:   success,
		At:        time.Now(),
	}
	m.cursor++
	if m.cursor == len(m.samples) {
		m.cursor = 0
		m.filled = true
	}
}

// Count returns the number of retained samples.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked()
}

func (m *Monitor) countLocked() int {
	if m.filled {
		return len(m.samples)
	}
	return m.cursor
}

// Stats summarizes the retained window.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.countLocked()
	stats := Stats{
		TotalRequests: n,
		ByMode:        make(map[string]ModeStats),
		UptimeSec:     int64(time.Since(m.startedAt).Seconds()),
	}
	if n == 0 {
		stats.Health = HealthIdle
		return stats
	}

	successes := 0
	var totalLatency int64
	type acc struct {
		count    int
		min, max int64
		sum      int64
	}
	byMode := make(map[string]*acc)

	for i := 0; i < n; i++ {
		s := m.samples[i]
		if s.Success {
			successes++
		}
		totalLatency += s.LatencyMs

		a, ok := byMode[string(s.Mode)]
		if !ok {
			a = &acc{min: s.LatencyMs, max: s.LatencyMs}
			byMode[string(s.Mode)] = a
		}
		a.count++
		a.sum += s.LatencyMs
		if s.LatencyMs < a.min {
			a.min = s.LatencyMs
		}
		if s.LatencyMs > a.max {
			a.max = s.LatencyMs
		}
	}

	stats.SuccessRate = float64(successes) / float64(n)
	for mode, a := range byMode {
		stats.ByMode[mode] = ModeStats{
			Count: a.count,
			MinMs: a.min,
			MaxMs: a.max,
			AvgMs: float64(a.sum) / float64(a.count),
		}
	}

	avgLatency := float64(totalLatency) / float64(n)
	switch {
	case stats.SuccessRate < 0.50:
		stats.Health = HealthUnhealthy
	case stats.SuccessRate >= 0.90 && avgLatency <= float64(m.latencyCeilMs):
		stats.Health = HealthHealthy
	default:
		stats.Health = HealthDegraded
	}
	return stats
}

// Recent returns up to limit samples, newest first.
func (m *Monitor) Recent(limit int) []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.countLocked()
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Sample, 0, limit)
	for i := 0; i < limit; i++ {
		idx := m.cursor - 1 - i
		if idx < 0 {
			idx += len(m.samples)
		}
		out = append(out, m.samples[idx])
	}
	return out
}

// Reset discards all samples and restarts the uptime clock.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = 0
	m.filled = false
	m.startedAt = time.Now()
}
