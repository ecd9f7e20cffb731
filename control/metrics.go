// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for ring buffer monitoring.
// Exposes counters in a thread-safe map with dynamic probe registration.

package control

import (
	"sort"
	"sync"
	"time"

	"github.com/momentics/hioload-ringbuf/api"
)

// StatsProbe reports the current counters of one ring.
type StatsProbe func() api.RingStats

// MetricsRegistry holds mutable metrics and the probes that feed them.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	probes  map[string]StatsProbe
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
		probes:  make(map[string]StatsProbe),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// RegisterRing adds a named probe. Rings are not synchronized, so the probe
// only runs inside Collect, which the ring's owner calls.
func (mr *MetricsRegistry) RegisterRing(name string, probe StatsProbe) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.probes[name] = probe
}

// UnregisterRing removes a probe; collected values stay in the snapshot.
func (mr *MetricsRegistry) UnregisterRing(name string) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	delete(mr.probes, name)
}

// Collect samples every probe into "<name>.<counter>" keys.
func (mr *MetricsRegistry) Collect() {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	for name, probe := range mr.probes {
		s := probe()
		mr.metrics[name+".bytes_in"] = s.BytesIn
		mr.metrics[name+".bytes_out"] = s.BytesOut
		mr.metrics[name+".overflowed"] = s.Overflowed
		mr.metrics[name+".underflows"] = s.Underflows
		mr.metrics[name+".stream_errors"] = s.StreamErrors
	}
	mr.updated = time.Now()
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Keys returns metric names in sorted order.
func (mr *MetricsRegistry) Keys() []string {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	keys := make([]string, 0, len(mr.metrics))
	for k := range mr.metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Updated reports when the registry last changed.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
