package grid

import (
	"log"
	"math"
	"sort"
	"sync"

	"github.com/lixenwraith/gridflood/events"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// geometry is the cached, immutable derived state of one grid
// Replaced wholesale on invalidation, never mutated after build
type geometry struct {
	info   Info
	xf     vmath.Transform
	edges  map[tile.Index]struct{}
	order  []tile.Index // Edge tiles sorted by y then x
	bounds vmath.AABB   // World bounds of the whole footprint
}

// Registry resolves world positions to grid tiles and back
// Read-through cache of grid transforms and edge sets, invalidated by host events
// Thread-Safety: lookups take a read lock, builds and invalidation take the write lock
type Registry struct {
	host   Host
	logger *log.Logger

	mu    sync.RWMutex
	cache map[tile.GridID]*geometry

	// Bumped by invalidation; a build started under an older generation is not cached
	gens  map[tile.GridID]uint64
	epoch uint64
}

// NewRegistry creates a registry over host, logger may be nil
func NewRegistry(host Host, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		host:   host,
		logger: logger,
		cache:  make(map[tile.GridID]*geometry),
		gens:   make(map[tile.GridID]uint64),
	}
}

// Host returns the underlying host
func (r *Registry) Host() Host {
	return r.host
}

// lookup returns cached geometry, building it on first use
func (r *Registry) lookup(id tile.GridID) (*geometry, bool) {
	if id == tile.NoGrid {
		return nil, false
	}

	// Fast path: RLock check
	r.mu.RLock()
	g, ok := r.cache[id]
	gen, epoch := r.gens[id], r.epoch
	r.mu.RUnlock()
	if ok {
		return g, true
	}

	g, ok = r.build(id)
	if !ok {
		return nil, false
	}

	// Slow path: Lock and store
	r.mu.Lock()
	defer r.mu.Unlock()

	// Invalidated while building: serve this build but leave the cache empty
	if r.gens[id] != gen || r.epoch != epoch {
		return g, true
	}

	// Double-check after acquiring write lock
	if existing, ok := r.cache[id]; ok {
		return existing, true
	}
	r.cache[id] = g
	return g, true
}

// build queries the host outside the lock
func (r *Registry) build(id tile.GridID) (*geometry, bool) {
	info, ok := r.host.GridInfo(id)
	if !ok {
		return nil, false
	}
	xf, ok := r.host.GridTransform(id)
	if !ok || !xf.Finite() {
		return nil, false
	}
	xf.Prepare()
	if info.TileSize <= 0 {
		info.TileSize = 1
	}

	order := r.host.EdgeTiles(id)
	g := &geometry{
		info:   info,
		xf:     xf,
		edges:  make(map[tile.Index]struct{}, len(order)),
		order:  order,
		bounds: vmath.EmptyAABB(),
	}
	for _, idx := range order {
		g.edges[idx] = struct{}{}
		g.bounds = g.bounds.Union(g.tileBox(idx).Bounds())
	}
	return g, true
}

func (g *geometry) tileCenter(idx tile.Index) vmath.Vec2 {
	ts := g.info.TileSize
	return g.xf.Apply(vmath.Vec2{X: (float64(idx.X) + 0.5) * ts, Y: (float64(idx.Y) + 0.5) * ts})
}

func (g *geometry) tileBox(idx tile.Index) vmath.Box {
	return vmath.Box{
		Center:   g.tileCenter(idx),
		Rotation: g.xf.Rotation,
		Half:     g.info.TileSize / 2,
	}
}

func (g *geometry) worldToTile(pos vmath.Vec2) tile.Index {
	local := g.xf.Inverse(pos)
	ts := g.info.TileSize
	return tile.Index{X: int(math.Floor(local.X / ts)), Y: int(math.Floor(local.Y / ts))}
}

// Invalidate drops cached geometry for a grid
func (r *Registry) Invalidate(id tile.GridID) {
	r.mu.Lock()
	delete(r.cache, id)
	r.gens[id]++
	r.mu.Unlock()
}

// InvalidateAll drops every cached grid
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[tile.GridID]*geometry)
	r.epoch++
	r.mu.Unlock()
}

// Cached returns the number of grids with cached geometry
func (r *Registry) Cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Info returns static grid data
func (r *Registry) Info(id tile.GridID) (Info, bool) {
	g, ok := r.lookup(id)
	if !ok {
		return Info{}, false
	}
	return g.info, true
}

// Transform returns the cached world transform
// False means the grid has no current transform (deleted or not yet placed)
func (r *Registry) Transform(id tile.GridID) (vmath.Transform, bool) {
	g, ok := r.lookup(id)
	if !ok {
		return vmath.Transform{}, false
	}
	return g.xf, true
}

// TileToWorld returns the world center of a grid tile
func (r *Registry) TileToWorld(id tile.GridID, idx tile.Index) (vmath.Vec2, bool) {
	g, ok := r.lookup(id)
	if !ok {
		return vmath.Vec2{}, false
	}
	return g.tileCenter(idx), true
}

// WorldToTile returns the grid tile index containing pos, whether or not the tile exists
func (r *Registry) WorldToTile(id tile.GridID, pos vmath.Vec2) (tile.Index, bool) {
	g, ok := r.lookup(id)
	if !ok {
		return tile.Index{}, false
	}
	return g.worldToTile(pos), true
}

// TileBox returns the rotated world square of a grid tile
func (r *Registry) TileBox(id tile.GridID, idx tile.Index) (vmath.Box, bool) {
	g, ok := r.lookup(id)
	if !ok {
		return vmath.Box{}, false
	}
	return g.tileBox(idx), true
}

// HasTile reports whether the grid currently has a tile at idx
func (r *Registry) HasTile(id tile.GridID, idx tile.Index) bool {
	return r.host.HasTile(id, idx)
}

// IsEdge reports whether idx is an edge tile of the grid
func (r *Registry) IsEdge(id tile.GridID, idx tile.Index) bool {
	g, ok := r.lookup(id)
	if !ok {
		return false
	}
	_, edge := g.edges[idx]
	return edge
}

// EdgeTiles returns the grid's edge tiles sorted by y then x
// The slice is shared, callers must not modify it
func (r *Registry) EdgeTiles(id tile.GridID) []tile.Index {
	g, ok := r.lookup(id)
	if !ok {
		return nil
	}
	return g.order
}

// Bounds returns the world bounding box of the grid footprint
func (r *Registry) Bounds(id tile.GridID) (vmath.AABB, bool) {
	g, ok := r.lookup(id)
	if !ok {
		return vmath.AABB{}, false
	}
	return g.bounds, true
}

// GridsOn lists a map's grids in ascending id order
func (r *Registry) GridsOn(m tile.MapID) []tile.GridID {
	ids := r.host.Grids(m)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GridAt finds the grid tile under a world position
// Grids are tested in ascending id order, first occupied tile wins
func (r *Registry) GridAt(m tile.MapID, pos vmath.Vec2) (tile.GridID, tile.Index, bool) {
	return r.GridAtExcept(m, pos, tile.NoGrid)
}

// GridAtExcept is GridAt ignoring one grid
func (r *Registry) GridAtExcept(m tile.MapID, pos vmath.Vec2, skip tile.GridID) (tile.GridID, tile.Index, bool) {
	return r.GridAtAmong(r.GridsOn(m), pos, skip)
}

// GridAtAmong is GridAt restricted to a pre-collected candidate list, tested in list order
func (r *Registry) GridAtAmong(ids []tile.GridID, pos vmath.Vec2, skip tile.GridID) (tile.GridID, tile.Index, bool) {
	for _, id := range ids {
		if id == skip {
			continue
		}
		g, ok := r.lookup(id)
		if !ok || !g.bounds.Contains(pos) {
			continue
		}
		idx := g.worldToTile(pos)
		if r.host.HasTile(id, idx) {
			return id, idx, true
		}
	}
	return tile.NoGrid, tile.Index{}, false
}

// GridsNear lists grids on a map whose footprint bounds intersect box, ascending id order
func (r *Registry) GridsNear(m tile.MapID, box vmath.AABB) []tile.GridID {
	var out []tile.GridID
	for _, id := range r.GridsOn(m) {
		g, ok := r.lookup(id)
		if !ok {
			continue
		}
		if g.bounds.Intersects(box) {
			out = append(out, id)
		}
	}
	return out
}

// LocalGrids collects grids relevant to an effect centred on center
// The reference grid is the heaviest grid within radius, falling back to the heaviest within
// radius*factor; it orients space so a small shuttle does not skew space near a large station
func (r *Registry) LocalGrids(m tile.MapID, center vmath.Vec2, radius, factor float64) ([]tile.GridID, tile.GridID) {
	reference := tile.NoGrid
	mass := 0.0

	pick := func(ids []tile.GridID) {
		for _, id := range ids {
			info, ok := r.Info(id)
			if ok && info.Mass > mass {
				mass = info.Mass
				reference = id
			}
		}
	}

	pick(r.GridsNear(m, vmath.CenteredAABB(center, radius)))

	wide := r.GridsNear(m, vmath.CenteredAABB(center, radius*factor))
	if reference == tile.NoGrid {
		pick(wide)
	}
	return wide, reference
}

// invalidationHandler routes host events into cache invalidation
type invalidationHandler struct{}

func (invalidationHandler) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventGridAdded,
		events.EventGridMoved,
		events.EventGridRemoved,
		events.EventTileChanged,
	}
}

func (invalidationHandler) HandleEvent(r *Registry, ev events.GridEvent) {
	switch p := ev.Payload.(type) {
	case *events.GridPayload:
		r.Invalidate(p.Grid)
	case *events.TileChangedPayload:
		r.Invalidate(p.Grid)
	default:
		r.logger.Printf("grid: ignoring %s event with payload %T", ev.Type, ev.Payload)
	}
}

// Subscribe registers the registry's invalidation handler on router
// Dropped events invalidate everything
func (r *Registry) Subscribe(router *events.Router[*Registry]) {
	router.Register(invalidationHandler{})
	router.OnOverflow(func(reg *Registry) {
		reg.logger.Printf("grid: event queue overflow, invalidating all cached grids")
		reg.InvalidateAll()
	})
}
