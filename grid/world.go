package grid

import (
	"sort"
	"sync"

	"github.com/lixenwraith/gridflood/events"
	"github.com/lixenwraith/gridflood/neighbor"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// Grid is an in-memory rigid tile grid
type Grid struct {
	ID        tile.GridID
	Info      Info
	Transform vmath.Transform
	tiles     map[tile.Index]struct{}
}

// World is an in-memory Host holding grids on any number of maps
// Mutations publish invalidation events when a queue is attached
type World struct {
	mu    sync.RWMutex
	grids map[tile.GridID]*Grid
	queue *events.EventQueue
}

// NewWorld creates an empty world, queue may be nil
func NewWorld(queue *events.EventQueue) *World {
	return &World{
		grids: make(map[tile.GridID]*Grid),
		queue: queue,
	}
}

func (w *World) publish(ev events.GridEvent) {
	if w.queue != nil {
		w.queue.Push(ev)
	}
}

// AddGrid creates an empty grid, replacing any grid with the same id
func (w *World) AddGrid(id tile.GridID, info Info, xf vmath.Transform) *Grid {
	if info.TileSize <= 0 {
		info.TileSize = 1
	}
	xf.Prepare()
	g := &Grid{
		ID:        id,
		Info:      info,
		Transform: xf,
		tiles:     make(map[tile.Index]struct{}),
	}
	w.mu.Lock()
	w.grids[id] = g
	w.mu.Unlock()
	w.publish(events.GridAdded(info.Map, id))
	return g
}

// RemoveGrid deletes a grid
func (w *World) RemoveGrid(id tile.GridID) {
	w.mu.Lock()
	g, ok := w.grids[id]
	delete(w.grids, id)
	w.mu.Unlock()
	if ok {
		w.publish(events.GridRemoved(g.Info.Map, id))
	}
}

// Move sets a grid's world transform
func (w *World) Move(id tile.GridID, xf vmath.Transform) bool {
	xf.Prepare()
	w.mu.Lock()
	g, ok := w.grids[id]
	if ok {
		g.Transform = xf
	}
	w.mu.Unlock()
	if ok {
		w.publish(events.GridMoved(g.Info.Map, id))
	}
	return ok
}

// SetTile places or removes a tile
func (w *World) SetTile(id tile.GridID, idx tile.Index, present bool) bool {
	w.mu.Lock()
	g, ok := w.grids[id]
	if ok {
		if present {
			g.tiles[idx] = struct{}{}
		} else {
			delete(g.tiles, idx)
		}
	}
	w.mu.Unlock()
	if ok {
		w.publish(events.TileChanged(id, idx, !present))
	}
	return ok
}

// Fill places every tile in the inclusive rectangle
func (w *World) Fill(id tile.GridID, x0, y0, x1, y1 int) bool {
	w.mu.Lock()
	g, ok := w.grids[id]
	if ok {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				g.tiles[tile.Index{X: x, Y: y}] = struct{}{}
			}
		}
	}
	w.mu.Unlock()
	if ok {
		// One event per fill, consumers drop the whole edge set anyway
		w.publish(events.TileChanged(id, tile.Index{X: x0, Y: y0}, false))
	}
	return ok
}

// TileCount returns the number of tiles on a grid
func (w *World) TileCount(id tile.GridID) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if g, ok := w.grids[id]; ok {
		return len(g.tiles)
	}
	return 0
}

// Grids implements Host
func (w *World) Grids(m tile.MapID) []tile.GridID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]tile.GridID, 0, len(w.grids))
	for id, g := range w.grids {
		if g.Info.Map == m {
			ids = append(ids, id)
		}
	}
	return ids
}

// GridInfo implements Host
func (w *World) GridInfo(id tile.GridID) (Info, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	g, ok := w.grids[id]
	if !ok {
		return Info{}, false
	}
	return g.Info, true
}

// GridTransform implements Host
func (w *World) GridTransform(id tile.GridID) (vmath.Transform, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	g, ok := w.grids[id]
	if !ok {
		return vmath.Transform{}, false
	}
	return g.Transform, true
}

// HasTile implements Host
func (w *World) HasTile(id tile.GridID, idx tile.Index) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	g, ok := w.grids[id]
	if !ok {
		return false
	}
	_, ok = g.tiles[idx]
	return ok
}

// EdgeTiles implements Host, sorted by y then x
func (w *World) EdgeTiles(id tile.GridID) []tile.Index {
	w.mu.RLock()
	defer w.mu.RUnlock()
	g, ok := w.grids[id]
	if !ok {
		return nil
	}

	edges := make([]tile.Index, 0)
	for idx := range g.tiles {
		for _, d := range neighbor.Order {
			if _, present := g.tiles[idx.Step(d)]; !present {
				edges = append(edges, idx)
				break
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Y != edges[j].Y {
			return edges[i].Y < edges[j].Y
		}
		return edges[i].X < edges[j].X
	})
	return edges
}
