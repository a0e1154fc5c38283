package flood

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/gridflood/status"
)

// Metric names written to Options.Stats
const (
	MetricRuns          = "flood.runs"
	MetricTiles         = "flood.tiles"
	MetricSpaceCells    = "flood.space_cells"
	MetricClamped       = "flood.clamped"
	MetricUnresolved    = "flood.unresolved"
	MetricCancelled     = "flood.cancelled"
	MetricAreaCapped    = "flood.area_capped"
	MetricInvalidOrigin = "flood.invalid_origin"
	MetricLastRunMs     = "flood.last_run_ms"
	MetricPeakRunMs     = "flood.peak_run_ms"
)

// runStats caches metric pointers once per engine
// A nil *runStats discards everything
type runStats struct {
	runs, tiles, spaceCells              *atomic.Int64
	clamped, unresolved                  *atomic.Int64
	cancelled, areaCapped, invalidOrigin *atomic.Int64
	lastRunMs, peakRunMs                 *status.AtomicFloat
}

func newRunStats(reg *status.Registry) *runStats {
	if reg == nil {
		return nil
	}
	return &runStats{
		runs:          reg.Counters.Get(MetricRuns),
		tiles:         reg.Counters.Get(MetricTiles),
		spaceCells:    reg.Counters.Get(MetricSpaceCells),
		clamped:       reg.Counters.Get(MetricClamped),
		unresolved:    reg.Counters.Get(MetricUnresolved),
		cancelled:     reg.Counters.Get(MetricCancelled),
		areaCapped:    reg.Counters.Get(MetricAreaCapped),
		invalidOrigin: reg.Counters.Get(MetricInvalidOrigin),
		lastRunMs:     reg.Gauges.Get(MetricLastRunMs),
		peakRunMs:     reg.Gauges.Get(MetricPeakRunMs),
	}
}

// add bumps the counter selected by pick
func (s *runStats) add(pick func(*runStats) *atomic.Int64, n int64) {
	if s != nil {
		pick(s).Add(n)
	}
}

func clampedCounter(s *runStats) *atomic.Int64       { return s.clamped }
func unresolvedCounter(s *runStats) *atomic.Int64    { return s.unresolved }
func cancelledCounter(s *runStats) *atomic.Int64     { return s.cancelled }
func areaCappedCounter(s *runStats) *atomic.Int64    { return s.areaCapped }
func invalidOriginCounter(s *runStats) *atomic.Int64 { return s.invalidOrigin }

func (s *runStats) finish(res *Result, spaceCells int, elapsed time.Duration) {
	if s == nil {
		return
	}
	ms := float64(elapsed.Microseconds()) / 1000
	s.runs.Add(1)
	s.tiles.Add(int64(res.Len()))
	s.spaceCells.Add(int64(spaceCells))
	s.lastRunMs.Set(ms)
	s.peakRunMs.Max(ms)
}
