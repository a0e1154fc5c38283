package tile

import (
	"math"
	"testing"

	"github.com/lixenwraith/gridflood/neighbor"
)

// TestResistanceFor verifies channel indexing with missing entries
func TestResistanceFor(t *testing.T) {
	d := Data{Resistance: []float64{1.5, 3}}
	if r := d.ResistanceFor(1); r != 3 {
		t.Errorf("Expected 3, got %f", r)
	}
	if r := d.ResistanceFor(5); r != 0 {
		t.Errorf("Expected 0 for missing channel, got %f", r)
	}
	if r := d.ResistanceFor(-1); r != 0 {
		t.Errorf("Expected 0 for negative channel, got %f", r)
	}
}

// TestBlocksEntry verifies incoming-face semantics
func TestBlocksEntry(t *testing.T) {
	// Wall sealed on its south face
	d := Data{Blocked: neighbor.South}
	if !d.BlocksEntry(neighbor.North) {
		t.Error("Expected northward travel to be blocked by south face")
	}
	if d.BlocksEntry(neighbor.South) {
		t.Error("Expected southward travel to pass")
	}
	if d.BlocksEntry(neighbor.NorthEast) {
		t.Error("Expected diagonal travel not to be blocked by cardinal face")
	}
}

// TestSanitize verifies clamping of malformed values
func TestSanitize(t *testing.T) {
	cases := []struct {
		in      float64
		want    float64
		clamped bool
	}{
		{2, 2, false},
		{0, 0, false},
		{-1, 0, true},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
	}
	for _, c := range cases {
		got, clamped := Sanitize(c.in)
		if got != c.want || clamped != c.clamped {
			t.Errorf("Sanitize(%v): expected (%v,%v), got (%v,%v)", c.in, c.want, c.clamped, got, clamped)
		}
	}
}

// TestMapSource verifies unoccupied tiles yield empty data
func TestMapSource(t *testing.T) {
	m := NewMap()
	c := GridCoord(1, 2, 3, 4)
	if d := m.TileData(c); d.Blocked != neighbor.None || len(d.Resistance) != 0 {
		t.Error("Expected empty data for unoccupied tile")
	}
	m.Set(c, Wall(0, 5, neighbor.Any))
	if d := m.TileData(c); d.ResistanceFor(0) != 5 || d.Blocked != neighbor.Any {
		t.Errorf("Unexpected stored data %+v", d)
	}
	m.Delete(c)
	if m.Len() != 0 {
		t.Errorf("Expected empty map, got %d", m.Len())
	}
}

// TestCoord verifies space tagging and stepping
func TestCoord(t *testing.T) {
	s := SpaceCoord(1, 0, 0)
	if !s.IsSpace() {
		t.Error("Expected space coordinate")
	}
	g := GridCoord(1, 7, 2, 2)
	if g.IsSpace() {
		t.Error("Expected grid coordinate")
	}
	if n := g.Step(neighbor.NorthWest); n.X != 1 || n.Y != 3 || n.Grid != 7 {
		t.Errorf("Unexpected step result %v", n)
	}
	if n := g.Step(neighbor.None); n != g {
		t.Error("Expected invalid step to be a no-op")
	}
	if !s.Less(g) {
		t.Error("Expected space to sort before grid 7")
	}
}
