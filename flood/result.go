package flood

import (
	"sort"

	"github.com/lixenwraith/gridflood/space"
	"github.com/lixenwraith/gridflood/tile"
)

// Entry is one visited tile
type Entry struct {
	Coord     tile.Coord
	Intensity float64
	Depth     int // Graph distance from the origin
}

// Result holds the tiles reached by one run in visitation order
// Each coordinate appears at most once
type Result struct {
	Origin  tile.Coord
	Channel tile.ChannelID

	// SpaceFrame is the tiling that space coordinates in this result refer to
	SpaceFrame space.Frame

	// Partial is set when the run was cancelled or hit the area cap
	Partial bool

	entries []Entry
	index   map[tile.Coord]int
}

func newResult(origin tile.Coord, ch tile.ChannelID, frame space.Frame) *Result {
	return &Result{
		Origin:     origin,
		Channel:    ch,
		SpaceFrame: frame,
		index:      make(map[tile.Coord]int),
	}
}

func (r *Result) add(e Entry) {
	r.index[e.Coord] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Len returns the number of visited tiles
func (r *Result) Len() int {
	return len(r.entries)
}

// Entries returns the visited tiles in order
// The slice is shared, callers must not modify it
func (r *Result) Entries() []Entry {
	return r.entries
}

// Each visits entries in order until fn returns false
func (r *Result) Each(fn func(Entry) bool) {
	for _, e := range r.entries {
		if !fn(e) {
			return
		}
	}
}

// Intensity returns the recorded intensity at c
func (r *Result) Intensity(c tile.Coord) (float64, bool) {
	i, ok := r.index[c]
	if !ok {
		return 0, false
	}
	return r.entries[i].Intensity, true
}

// Lookup returns the full entry at c
func (r *Result) Lookup(c tile.Coord) (Entry, bool) {
	i, ok := r.index[c]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Contains reports whether c was visited
func (r *Result) Contains(c tile.Coord) bool {
	_, ok := r.index[c]
	return ok
}

// MaxDepth returns the deepest layer reached
func (r *Result) MaxDepth() int {
	if len(r.entries) == 0 {
		return 0
	}
	// BFS order: the last entry is in the deepest layer
	return r.entries[len(r.entries)-1].Depth
}

// Layers groups entries by depth, layer i holds tiles i steps from the origin
func (r *Result) Layers() [][]Entry {
	if len(r.entries) == 0 {
		return nil
	}
	layers := make([][]Entry, r.MaxDepth()+1)
	for _, e := range r.entries {
		layers[e.Depth] = append(layers[e.Depth], e)
	}
	return layers
}

// Total sums every recorded intensity
func (r *Result) Total() float64 {
	total := 0.0
	for _, e := range r.entries {
		total += e.Intensity
	}
	return total
}

// Grids lists the grids touched by the run in ascending order, space excluded
func (r *Result) Grids() []tile.GridID {
	seen := make(map[tile.GridID]struct{})
	var ids []tile.GridID
	for _, e := range r.entries {
		if e.Coord.IsSpace() {
			continue
		}
		if _, ok := seen[e.Coord.Grid]; !ok {
			seen[e.Coord.Grid] = struct{}{}
			ids = append(ids, e.Coord.Grid)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OnGrid returns entries on one grid, tile.NoGrid selects space, in visitation order
func (r *Result) OnGrid(id tile.GridID) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Coord.Grid == id {
			out = append(out, e)
		}
	}
	return out
}
