package neighbor

import (
	"math"
	"math/bits"
	"strings"
)

// Flag is a set of the 8 neighbor directions
// Bit order runs clockwise from North: N=0, NE=1, E=2, SE=3, S=4, SW=5, W=6, NW=7
// Diagonal bits are stored independently and never derived from their framing cardinals
type Flag uint8

const (
	North Flag = 1 << iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	None     Flag = 0
	Cardinal      = North | East | South | West
	Diagonal      = NorthEast | SouthEast | SouthWest | NorthWest
	Any           = Cardinal | Diagonal
)

// Order is the fixed enumeration used wherever neighbors are visited
// Cardinal before diagonal, each group clockwise from North
var Order = [8]Flag{
	North, East, South, West,
	NorthEast, SouthEast, SouthWest, NorthWest,
}

// Unit offsets indexed by bit position, y-up world axes
var offsets = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

var names = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// index returns the bit position of a single-direction flag, -1 otherwise
func (f Flag) index() int {
	if f == None || f&(f-1) != 0 {
		return -1
	}
	return bits.TrailingZeros8(uint8(f))
}

// Single reports whether f names exactly one direction
func (f Flag) Single() bool {
	return f.index() >= 0
}

// Offset returns the unit tile offset for a single direction
// Zero or multi-direction flags return (0, 0) and ok=false
func (f Flag) Offset() (dx, dy int, ok bool) {
	i := f.index()
	if i < 0 {
		return 0, 0, false
	}
	return offsets[i][0], offsets[i][1], true
}

// Reciprocal mirrors every direction in the set (N<->S, NE<->SW, ...)
func (f Flag) Reciprocal() Flag {
	return Flag(bits.RotateLeft8(uint8(f), 4))
}

// IsDiagonal reports whether f is a single diagonal direction
func (f Flag) IsDiagonal() bool {
	return f.Single() && f&Diagonal != 0
}

// Has reports whether all directions in d are set
func (f Flag) Has(d Flag) bool {
	return d != None && f&d == d
}

// Set returns f with d added
func (f Flag) Set(d Flag) Flag {
	return f | d
}

// Clear returns f with d removed
func (f Flag) Clear(d Flag) Flag {
	return f &^ d
}

// Count returns the number of directions in the set
func (f Flag) Count() int {
	return bits.OnesCount8(uint8(f))
}

// Each calls fn for every direction in the set following Order
func (f Flag) Each(fn func(d Flag)) {
	for _, d := range Order {
		if f&d != 0 {
			fn(d)
		}
	}
}

func (f Flag) String() string {
	if f == None {
		return "none"
	}
	parts := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		if f&(1<<i) != 0 {
			parts = append(parts, names[i])
		}
	}
	return strings.Join(parts, "|")
}

// FromOffset returns the direction for a unit offset, None if the offset is not a neighbor step
func FromOffset(dx, dy int) Flag {
	for i, o := range offsets {
		if o[0] == dx && o[1] == dy {
			return 1 << i
		}
	}
	return None
}

// FromVector quantizes a vector to the nearest of the 8 directions
// Zero or non-finite vectors return None
func FromVector(x, y float64) Flag {
	if (x == 0 && y == 0) || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return None
	}
	// Sector 0 is East, counter-clockwise in 45 degree steps
	sector := int(math.Round(math.Atan2(y, x)/(math.Pi/4))) & 7
	// East is bit 2, each counter-clockwise step moves one bit toward North
	return Flag(1 << ((2 - sector + 8) & 7))
}
