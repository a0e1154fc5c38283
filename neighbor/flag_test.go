package neighbor

import "testing"

// TestGroups verifies cardinal/diagonal partition of Any
func TestGroups(t *testing.T) {
	if Cardinal&Diagonal != 0 {
		t.Error("Expected cardinal and diagonal sets to be disjoint")
	}
	if Cardinal|Diagonal != Any {
		t.Error("Expected Cardinal|Diagonal to equal Any")
	}
	if Any.Count() != 8 {
		t.Errorf("Expected 8 directions in Any, got %d", Any.Count())
	}
}

// TestOffsetReciprocal verifies every direction's reciprocal cancels its offset
func TestOffsetReciprocal(t *testing.T) {
	for _, d := range Order {
		dx, dy, ok := d.Offset()
		if !ok {
			t.Fatalf("Expected offset for %s", d)
		}
		rx, ry, _ := d.Reciprocal().Offset()
		if dx+rx != 0 || dy+ry != 0 {
			t.Errorf("Expected %s and %s to cancel, got (%d,%d)+(%d,%d)", d, d.Reciprocal(), dx, dy, rx, ry)
		}
		if FromOffset(dx, dy) != d {
			t.Errorf("Expected FromOffset(%d,%d) to return %s", dx, dy, d)
		}
	}
}

// TestInvalidOffset verifies zero and composite flags are no-op neighbors
func TestInvalidOffset(t *testing.T) {
	if _, _, ok := None.Offset(); ok {
		t.Error("Expected None to have no offset")
	}
	if dx, dy, ok := (North | East).Offset(); ok || dx != 0 || dy != 0 {
		t.Errorf("Expected composite flag to have no offset, got (%d,%d)", dx, dy)
	}
}

// TestDiagonalIndependence verifies a diagonal bit is not implied by its framing cardinals
func TestDiagonalIndependence(t *testing.T) {
	f := North | East
	if f.Has(NorthEast) {
		t.Error("Expected N|E not to contain NE")
	}
	g := NorthEast
	if g.Has(North) || g.Has(East) {
		t.Error("Expected NE alone not to contain N or E")
	}
}

// TestOrder verifies cardinal directions precede diagonals
func TestOrder(t *testing.T) {
	for i, d := range Order {
		if i < 4 && d&Cardinal == 0 {
			t.Errorf("Expected cardinal at position %d, got %s", i, d)
		}
		if i >= 4 && !d.IsDiagonal() {
			t.Errorf("Expected diagonal at position %d, got %s", i, d)
		}
	}
}

// TestReciprocalSet verifies set-wide reciprocal
func TestReciprocalSet(t *testing.T) {
	if got := (North | SouthEast).Reciprocal(); got != South|NorthWest {
		t.Errorf("Expected S|NW, got %s", got)
	}
	if Any.Reciprocal() != Any {
		t.Error("Expected Any to be its own reciprocal")
	}
}

// TestFromVector verifies quantization to the nearest direction
func TestFromVector(t *testing.T) {
	cases := []struct {
		x, y float64
		want Flag
	}{
		{0, 1, North},
		{1, 1, NorthEast},
		{1, 0, East},
		{1, -1, SouthEast},
		{0, -1, South},
		{-1, -1, SouthWest},
		{-1, 0, West},
		{-1, 1, NorthWest},
		{1, 0.2, East},
		{0.1, -3, South},
		{0, 0, None},
	}
	for _, c := range cases {
		if got := FromVector(c.x, c.y); got != c.want {
			t.Errorf("FromVector(%v,%v): expected %s, got %s", c.x, c.y, c.want, got)
		}
	}
}

// TestString verifies flag formatting
func TestString(t *testing.T) {
	if s := (North | West).String(); s != "N|W" {
		t.Errorf("Expected N|W, got %s", s)
	}
	if s := None.String(); s != "none" {
		t.Errorf("Expected none, got %s", s)
	}
}

// TestEach verifies enumeration follows Order
func TestEach(t *testing.T) {
	var got []Flag
	(NorthWest | South | East).Each(func(d Flag) { got = append(got, d) })
	want := []Flag{East, South, NorthWest}
	if len(got) != len(want) {
		t.Fatalf("Expected %d directions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
