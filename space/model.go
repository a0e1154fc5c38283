package space

import (
	"log"
	"math"

	"github.com/lixenwraith/gridflood/grid"
	"github.com/lixenwraith/gridflood/neighbor"
	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// GridEdgeRecord links a space cell to a grid edge tile it borders
type GridEdgeRecord struct {
	Grid tile.GridID
	Tile tile.Coord
	Box  vmath.Box // Rotated world square of the edge tile
}

// SpaceTile is the derived state of one space cell
type SpaceTile struct {
	Coord     tile.Coord
	Records   []GridEdgeRecord // Sorted by grid, then y, then x
	Unblocked neighbor.Flag    // Directions whose neighbor cell is not covered by a grid
	Occupied  bool             // Cell center lies on a grid tile
}

// Target is a tile reachable in one step, with the travel direction expressed in the target's frame
type Target struct {
	Coord  tile.Coord
	Travel neighbor.Flag
}

// Config tunes edge detection
type Config struct {
	Frame Frame

	// OverlapEpsilon is the SAT depth a cell must exceed to border an edge tile
	OverlapEpsilon float64

	// EdgeMargin grows edge tile boxes, as a fraction of grid tile size
	EdgeMargin float64
}

// DefaultConfig returns parameter defaults over the default frame
func DefaultConfig() Config {
	return Config{
		Frame:          DefaultFrame(),
		OverlapEpsilon: parameter.OverlapEpsilon,
		EdgeMargin:     parameter.EdgeMargin,
	}
}

// Model answers space/edge queries for one propagation run on one map
// Holds a per-run cache, not safe for concurrent use; build one per run
type Model struct {
	reg    *grid.Registry
	m      tile.MapID
	cfg    Config
	grids  []tile.GridID
	frame  vmath.Transform
	logger *log.Logger

	cells      map[tile.Coord]*SpaceTile
	occupied   map[tile.Coord]bool
	unresolved map[tile.GridID]struct{}

	// OnUnresolved is called once per grid whose transform vanished during the run
	OnUnresolved func(id tile.GridID)
}

// NewModel creates a run-scoped model
// grids restricts the candidate grids (ascending id order), nil means every grid on the map
func NewModel(reg *grid.Registry, m tile.MapID, grids []tile.GridID, cfg Config, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Frame.TileSize <= 0 {
		cfg.Frame.TileSize = parameter.DefaultTileSize
	}
	if cfg.OverlapEpsilon < 0 {
		cfg.OverlapEpsilon = 0
	}
	if grids == nil {
		grids = reg.GridsOn(m)
	}
	return &Model{
		reg:        reg,
		m:          m,
		cfg:        cfg,
		grids:      grids,
		frame:      cfg.Frame.Transform(),
		logger:     logger,
		cells:      make(map[tile.Coord]*SpaceTile),
		occupied:   make(map[tile.Coord]bool),
		unresolved: make(map[tile.GridID]struct{}),
	}
}

// Frame returns the space tiling used by this model
func (s *Model) Frame() Frame {
	return s.cfg.Frame
}

// Map returns the model's map
func (s *Model) Map() tile.MapID {
	return s.m
}

// Grids returns the candidate grids
func (s *Model) Grids() []tile.GridID {
	return s.grids
}

func (s *Model) unresolvedGrid(id tile.GridID) {
	if _, seen := s.unresolved[id]; seen {
		return
	}
	s.unresolved[id] = struct{}{}
	s.logger.Printf("space: grid %d has no transform, edge not crossed", id)
	if s.OnUnresolved != nil {
		s.OnUnresolved(id)
	}
}

// CellOf returns the space coordinate containing a world position
func (s *Model) CellOf(pos vmath.Vec2) tile.Coord {
	x, y := s.cfg.Frame.CellAt(pos)
	return tile.SpaceCoord(s.m, x, y)
}

// isOccupied reports whether a cell's center lies on any candidate grid tile
func (s *Model) isOccupied(c tile.Coord) bool {
	if occ, ok := s.occupied[c]; ok {
		return occ
	}
	_, _, occ := s.reg.GridAtAmong(s.grids, s.cfg.Frame.CellCenter(c.X, c.Y), tile.NoGrid)
	s.occupied[c] = occ
	return occ
}

// Cell returns the derived state of a space cell, cached for the run
func (s *Model) Cell(c tile.Coord) *SpaceTile {
	if st, ok := s.cells[c]; ok {
		return st
	}

	st := &SpaceTile{
		Coord:    c,
		Occupied: s.isOccupied(c),
	}
	for _, d := range neighbor.Order {
		if !s.isOccupied(c.Step(d)) {
			st.Unblocked |= d
		}
	}

	cellBox := s.cfg.Frame.CellBox(c.X, c.Y)
	for _, id := range s.grids {
		st.Records = s.appendRecords(st.Records, id, cellBox)
	}

	s.cells[c] = st
	return st
}

// appendRecords adds the edge tiles of grid id bordering cellBox, in y then x order
func (s *Model) appendRecords(out []GridEdgeRecord, id tile.GridID, cellBox vmath.Box) []GridEdgeRecord {
	info, ok := s.reg.Info(id)
	if !ok {
		s.unresolvedGrid(id)
		return out
	}
	margin := s.cfg.EdgeMargin * info.TileSize
	bounds, _ := s.reg.Bounds(id)
	if !bounds.Grow(margin).Intersects(cellBox.Bounds()) {
		return out
	}
	xf, ok := s.reg.Transform(id)
	if !ok {
		s.unresolvedGrid(id)
		return out
	}

	// Candidate tile range: cell corners in grid-local space, widened by the margin
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range cellBox.Corners() {
		l := xf.Inverse(p)
		minX, maxX = math.Min(minX, l.X), math.Max(maxX, l.X)
		minY, maxY = math.Min(minY, l.Y), math.Max(maxY, l.Y)
	}
	ts := info.TileSize
	x0 := int(math.Floor((minX-margin)/ts)) - 1
	x1 := int(math.Floor((maxX+margin)/ts)) + 1
	y0 := int(math.Floor((minY-margin)/ts)) - 1
	y1 := int(math.Floor((maxY+margin)/ts)) + 1

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			idx := tile.Index{X: x, Y: y}
			if !s.reg.IsEdge(id, idx) {
				continue
			}
			box, _ := s.reg.TileBox(id, idx)
			if !vmath.Overlaps(box.Grow(margin), cellBox, s.cfg.OverlapEpsilon) {
				continue
			}
			out = append(out, GridEdgeRecord{
				Grid: id,
				Tile: tile.GridCoord(s.m, id, x, y),
				Box:  box,
			})
		}
	}
	return out
}

// Neighbors returns the space cells reachable from c, following neighbor.Order
func (s *Model) Neighbors(c tile.Coord) []Target {
	st := s.Cell(c)
	out := make([]Target, 0, st.Unblocked.Count())
	for _, d := range neighbor.Order {
		if st.Unblocked&d != 0 {
			out = append(out, Target{Coord: c.Step(d), Travel: d})
		}
	}
	return out
}

// Entries returns the grid tiles enterable from space cell c
// Travel is the step direction in the grid's local frame; the caller checks it against
// the tile's incoming blocks so walls seal from the space side too
func (s *Model) Entries(c tile.Coord) []Target {
	st := s.Cell(c)
	if len(st.Records) == 0 {
		return nil
	}
	center := s.cfg.Frame.CellCenter(c.X, c.Y)
	out := make([]Target, 0, len(st.Records))
	for _, r := range st.Records {
		xf, ok := s.reg.Transform(r.Grid)
		if !ok {
			s.unresolvedGrid(r.Grid)
			continue
		}
		travel := xf.InverseVector(r.Box.Center.Sub(center))
		out = append(out, Target{Coord: r.Tile, Travel: neighbor.FromVector(travel.X, travel.Y)})
	}
	return out
}

// Exit resolves a step from grid tile from in direction d onto a tile the grid does not have
// The step lands on another grid's tile when grids touch, otherwise on the space cell under
// the missing tile's center. ok is false when that cell is itself covered by a grid
func (s *Model) Exit(from tile.Coord, d neighbor.Flag) (Target, bool) {
	xf, ok := s.reg.Transform(from.Grid)
	if !ok {
		s.unresolvedGrid(from.Grid)
		return Target{}, false
	}
	ghost := from.Step(d)
	world, _ := s.reg.TileToWorld(from.Grid, ghost.Index())

	if id, idx, hit := s.reg.GridAtAmong(s.grids, world, from.Grid); hit {
		other, ok := s.reg.Transform(id)
		if !ok {
			s.unresolvedGrid(id)
			return Target{}, false
		}
		dx, dy, _ := d.Offset()
		step := other.InverseVector(xf.ApplyVector(vmath.Vec2{X: float64(dx), Y: float64(dy)}))
		return Target{
			Coord:  tile.GridCoord(s.m, id, idx.X, idx.Y),
			Travel: neighbor.FromVector(step.X, step.Y),
		}, true
	}

	cell := s.CellOf(world)
	if s.isOccupied(cell) {
		return Target{}, false
	}
	dx, dy, _ := d.Offset()
	step := s.frame.InverseVector(xf.ApplyVector(vmath.Vec2{X: float64(dx), Y: float64(dy)}))
	return Target{Coord: cell, Travel: neighbor.FromVector(step.X, step.Y)}, true
}

// CellCount returns the number of space cells derived so far in this run
func (s *Model) CellCount() int {
	return len(s.cells)
}
