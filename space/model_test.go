package space

import (
	"io"
	"log"
	"math"
	"testing"

	"github.com/lixenwraith/gridflood/grid"
	"github.com/lixenwraith/gridflood/neighbor"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

var quiet = log.New(io.Discard, "", 0)

// twoGrids places two 3x3 grids with a one tile gap at x = 3
func twoGrids() *grid.World {
	w := grid.NewWorld(nil)
	w.AddGrid(1, grid.Info{Map: 1, TileSize: 1, Mass: 9}, vmath.NewTransform(vmath.V(0, 0), 0))
	w.Fill(1, 0, 0, 2, 2)
	w.AddGrid(2, grid.Info{Map: 1, TileSize: 1, Mass: 9}, vmath.NewTransform(vmath.V(4, 0), 0))
	w.Fill(2, 0, 0, 2, 2)
	return w
}

func newTestModel(h grid.Host) *Model {
	return NewModel(grid.NewRegistry(h, quiet), 1, nil, DefaultConfig(), quiet)
}

// TestGapCellRecords verifies a gap cell borders the facing edges of both grids
func TestGapCellRecords(t *testing.T) {
	m := newTestModel(twoGrids())
	st := m.Cell(tile.SpaceCoord(1, 3, 1))

	want := []tile.Coord{
		tile.GridCoord(1, 1, 2, 0), tile.GridCoord(1, 1, 2, 1), tile.GridCoord(1, 1, 2, 2),
		tile.GridCoord(1, 2, 0, 0), tile.GridCoord(1, 2, 0, 1), tile.GridCoord(1, 2, 0, 2),
	}
	if len(st.Records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(st.Records))
	}
	for i, r := range st.Records {
		if r.Tile != want[i] {
			t.Errorf("Expected record %d at %s, got %s", i, want[i], r.Tile)
		}
		if r.Grid != r.Tile.Grid {
			t.Errorf("Expected record grid %d to match tile %s", r.Grid, r.Tile)
		}
	}
	if st.Occupied {
		t.Error("Expected gap cell unoccupied")
	}
	if st.Unblocked != neighbor.North|neighbor.South {
		t.Errorf("Expected N|S unblocked, got %s", st.Unblocked)
	}
	if m.Cell(tile.SpaceCoord(1, 3, 1)) != st {
		t.Error("Expected cell cached for the run")
	}
}

// TestOpenCell verifies a cell far from grids is unconstrained
func TestOpenCell(t *testing.T) {
	m := newTestModel(twoGrids())
	c := tile.SpaceCoord(1, -10, 40)
	st := m.Cell(c)
	if len(st.Records) != 0 || st.Unblocked != neighbor.Any {
		t.Errorf("Expected open cell, got %d records %s", len(st.Records), st.Unblocked)
	}
	targets := m.Neighbors(c)
	if len(targets) != 8 {
		t.Fatalf("Expected 8 neighbors, got %d", len(targets))
	}
	for i, d := range neighbor.Order {
		if targets[i].Travel != d || targets[i].Coord != c.Step(d) {
			t.Errorf("Expected neighbor %d toward %s, got %+v", i, d, targets[i])
		}
	}
	if m.Entries(c) != nil {
		t.Error("Expected no entries")
	}
}

// TestEntriesTravel verifies entry directions point from the cell into each tile
func TestEntriesTravel(t *testing.T) {
	m := newTestModel(twoGrids())
	entries := m.Entries(tile.SpaceCoord(1, 3, 1))
	got := make(map[tile.Coord]neighbor.Flag, len(entries))
	for _, e := range entries {
		got[e.Coord] = e.Travel
	}
	cases := map[tile.Coord]neighbor.Flag{
		tile.GridCoord(1, 1, 2, 1): neighbor.West,
		tile.GridCoord(1, 1, 2, 2): neighbor.NorthWest,
		tile.GridCoord(1, 2, 0, 1): neighbor.East,
		tile.GridCoord(1, 2, 0, 0): neighbor.SouthEast,
	}
	for c, want := range cases {
		if got[c] != want {
			t.Errorf("Expected %s travel %s, got %s", c, want, got[c])
		}
	}
}

// TestExitToSpace verifies stepping off a grid lands on the cell under the missing tile
func TestExitToSpace(t *testing.T) {
	m := newTestModel(twoGrids())
	target, ok := m.Exit(tile.GridCoord(1, 1, 2, 1), neighbor.East)
	if !ok {
		t.Fatal("Expected exit")
	}
	if target.Coord != tile.SpaceCoord(1, 3, 1) || target.Travel != neighbor.East {
		t.Errorf("Expected space(3,1) travelling E, got %+v", target)
	}

	target, ok = m.Exit(tile.GridCoord(1, 2, 2, 2), neighbor.NorthEast)
	if !ok || target.Coord != tile.SpaceCoord(1, 7, 3) {
		t.Errorf("Expected space(7,3), got %+v", target)
	}
}

// TestExitToTouchingGrid verifies a step across a shared face lands on the other grid
func TestExitToTouchingGrid(t *testing.T) {
	w := grid.NewWorld(nil)
	w.AddGrid(1, grid.Info{Map: 1, TileSize: 1}, vmath.NewTransform(vmath.V(0, 0), 0))
	w.Fill(1, 0, 0, 2, 2)
	// Second grid is rotated a half turn so its local axes oppose the first
	w.AddGrid(2, grid.Info{Map: 1, TileSize: 1}, vmath.NewTransform(vmath.V(6, 3), math.Pi))
	w.Fill(2, 0, 0, 2, 2)
	m := newTestModel(w)

	target, ok := m.Exit(tile.GridCoord(1, 1, 2, 1), neighbor.East)
	if !ok {
		t.Fatal("Expected exit")
	}
	if target.Coord != tile.GridCoord(1, 2, 2, 1) {
		t.Errorf("Expected grid 2 (2,1), got %s", target.Coord)
	}
	if target.Travel != neighbor.West {
		t.Errorf("Expected travel W in the rotated grid, got %s", target.Travel)
	}
}

// TestRotatedOverlap verifies many-to-many links between cells and rotated edge tiles
func TestRotatedOverlap(t *testing.T) {
	w := grid.NewWorld(nil)
	w.AddGrid(1, grid.Info{Map: 1, TileSize: 1}, vmath.NewTransform(vmath.V(0.3, 0.2), math.Pi/5))
	w.Fill(1, 0, 0, 1, 1)
	m := newTestModel(w)

	perTile := make(map[tile.Coord]int)
	multi := false
	for y := -3; y <= 4; y++ {
		for x := -3; x <= 4; x++ {
			c := tile.SpaceCoord(1, x, y)
			st := m.Cell(c)
			if len(st.Records) > 1 {
				multi = true
			}
			cellBox := m.Frame().CellBox(x, y)
			for _, r := range st.Records {
				perTile[r.Tile]++
				if !vmath.Overlaps(r.Box.Grow(0.5), cellBox, 1e-3) {
					t.Errorf("Expected record %s to overlap cell %s", r.Tile, c)
				}
			}
		}
	}
	if !multi {
		t.Error("Expected a cell bordering several edge tiles")
	}
	if len(perTile) != 4 {
		t.Fatalf("Expected all 4 edge tiles recorded, got %d", len(perTile))
	}
	for c, n := range perTile {
		if n < 2 {
			t.Errorf("Expected %s to border several cells, got %d", c, n)
		}
	}
}

// TestGridFrameAlignment verifies a grid-aligned frame maps tiles cell for cell
func TestGridFrameAlignment(t *testing.T) {
	xf := vmath.NewTransform(vmath.V(2, -1), math.Pi/3)
	f := GridFrame(xf, 1.5)
	for _, p := range [][2]int{{0, 0}, {3, -2}, {-1, 5}} {
		local := vmath.V((float64(p[0])+0.5)*1.5, (float64(p[1])+0.5)*1.5)
		x, y := f.CellAt(xf.Apply(local))
		if x != p[0] || y != p[1] {
			t.Errorf("Expected cell %v, got (%d,%d)", p, x, y)
		}
	}
}

// hiddenHost reports no transform for one grid
type hiddenHost struct {
	*grid.World
	hidden tile.GridID
}

func (h hiddenHost) GridTransform(id tile.GridID) (vmath.Transform, bool) {
	if id == h.hidden {
		return vmath.Transform{}, false
	}
	return h.World.GridTransform(id)
}

// TestUnresolvedGrid verifies a grid without transform yields no records and is reported once
func TestUnresolvedGrid(t *testing.T) {
	m := newTestModel(hiddenHost{World: twoGrids(), hidden: 2})
	reported := 0
	m.OnUnresolved = func(id tile.GridID) {
		if id != 2 {
			t.Errorf("Expected grid 2 reported, got %d", id)
		}
		reported++
	}

	for y := 0; y < 3; y++ {
		for _, r := range m.Cell(tile.SpaceCoord(1, 3, y)).Records {
			if r.Grid == 2 {
				t.Error("Expected no records on the unresolved grid")
			}
		}
	}
	if reported != 1 {
		t.Errorf("Expected one report, got %d", reported)
	}
	if m.Cell(tile.SpaceCoord(1, 4, 1)).Occupied {
		t.Error("Expected unresolved grid footprint to read as open space")
	}
}
