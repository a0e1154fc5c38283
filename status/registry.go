package status

import "sync/atomic"

// Registry collects counters and gauges written by propagation runs
// Runs cache pointers once; hot loops touch only atomics
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[AtomicFloat](),
	}
}

// Snapshot copies every metric into a plain map, suitable for JSON
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.Counters.Count()+r.Gauges.Count())
	r.Counters.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Gauges.Range(func(k string, v *AtomicFloat) { out[k] = v.Get() })
	return out
}

// Counter returns the named counter value, zero if never written
func (r *Registry) Counter(name string) int64 {
	return r.Counters.Get(name).Load()
}

// Gauge returns the named gauge value, zero if never written
func (r *Registry) Gauge(name string) float64 {
	return r.Gauges.Get(name).Get()
}
