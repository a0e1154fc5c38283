package flood

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lixenwraith/gridflood/events"
	"github.com/lixenwraith/gridflood/grid"
	"github.com/lixenwraith/gridflood/status"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// TestConcurrentPropagate verifies parallel runs on one engine stay well formed while a grid moves
func TestConcurrentPropagate(t *testing.T) {
	const (
		workers   = 8
		runs      = 25
		intensity = 9.0
		radius    = 8
	)

	q := events.NewEventQueue()
	w := grid.NewWorld(q)
	square(w, 1, 0, 0, 5)
	w.AddGrid(2, grid.Info{Map: testMap, TileSize: 1, Mass: 9}, vmath.NewTransform(vmath.V(7, 0), 0))
	w.Fill(2, 0, 0, 2, 2)

	reg := grid.NewRegistry(w, quietLogger)
	router := events.NewRouter[*grid.Registry](q)
	reg.Subscribe(router)
	router.DispatchAll(reg)

	stats := status.NewRegistry()
	opts := DefaultOptions()
	opts.Channels = []Channel{decayChannel}
	opts.Logger = quietLogger
	opts.Stats = stats
	e, err := NewEngine(reg, uniformResistance(0), opts)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	var stop atomic.Bool
	var moves sync.WaitGroup
	moves.Add(1)
	go func() {
		defer moves.Done()
		for i := 0; !stop.Load(); i++ {
			x := 7 + float64(i%5)
			w.Move(2, vmath.NewTransform(vmath.V(x, float64(i%3)), float64(i%4)*0.2))
			router.DispatchAll(reg)
		}
	}()

	origin := tile.GridCoord(testMap, 1, 4, 2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < runs; j++ {
				res, err := e.Propagate(context.Background(), origin, intensity, 0, radius)
				if err != nil {
					t.Errorf("Propagate failed: %v", err)
					return
				}
				if msg := checkResult(res, origin, intensity, radius); msg != "" {
					t.Error(msg)
					return
				}
			}
		}()
	}
	wg.Wait()
	stop.Store(true)
	moves.Wait()

	if got := stats.Counter(MetricRuns); got != workers*runs {
		t.Errorf("Expected %d runs counted, got %d", workers*runs, got)
	}
}

// checkResult returns a description of the first malformed entry, empty if none
func checkResult(res *Result, origin tile.Coord, intensity float64, radius int) string {
	entries := res.Entries()
	if len(entries) == 0 || entries[0].Coord != origin || entries[0].Intensity != intensity {
		return "Expected origin recorded first at full intensity"
	}
	if res.Partial {
		return "Expected complete run"
	}
	seen := make(map[tile.Coord]bool, len(entries))
	lastDepth := 0
	for _, en := range entries {
		switch {
		case seen[en.Coord]:
			return "Expected " + en.Coord.String() + " visited once"
		case en.Depth < lastDepth || en.Depth > radius:
			return "Expected ordered depth within radius at " + en.Coord.String()
		case en.Depth > 0 && !(en.Intensity > 0 && en.Intensity <= intensity-float64(en.Depth)):
			return "Expected decayed intensity above floor at " + en.Coord.String()
		}
		seen[en.Coord] = true
		lastDepth = en.Depth
	}
	return ""
}
