package tile

import (
	"fmt"

	"github.com/lixenwraith/gridflood/neighbor"
)

// MapID identifies a map (a shared world space holding grids and open space)
type MapID uint32

// GridID identifies a rigid tile grid, NoGrid marks open space
type GridID uint32

// NoGrid is the grid id of space coordinates
const NoGrid GridID = 0

// NoMap is never a valid map
const NoMap MapID = 0

// Index is a grid-local integer tile position
type Index struct {
	X, Y int
}

// Step returns the neighbor index in direction d, unchanged for invalid directions
func (i Index) Step(d neighbor.Flag) Index {
	dx, dy, _ := d.Offset()
	return Index{i.X + dx, i.Y + dy}
}

// Coord is a tile coordinate on a grid, or a space cell tagged with its map
type Coord struct {
	Map  MapID
	Grid GridID
	X, Y int
}

// GridCoord builds a grid tile coordinate
func GridCoord(m MapID, g GridID, x, y int) Coord {
	return Coord{Map: m, Grid: g, X: x, Y: y}
}

// SpaceCoord builds a space cell coordinate
func SpaceCoord(m MapID, x, y int) Coord {
	return Coord{Map: m, Grid: NoGrid, X: x, Y: y}
}

// IsSpace reports whether the coordinate belongs to open space
func (c Coord) IsSpace() bool {
	return c.Grid == NoGrid
}

// Index returns the local integer position
func (c Coord) Index() Index {
	return Index{c.X, c.Y}
}

// Step returns the coordinate one tile away in direction d on the same grid (or space)
func (c Coord) Step(d neighbor.Flag) Coord {
	dx, dy, _ := d.Offset()
	c.X += dx
	c.Y += dy
	return c
}

// Less orders coordinates by map, grid, y, x
func (c Coord) Less(o Coord) bool {
	if c.Map != o.Map {
		return c.Map < o.Map
	}
	if c.Grid != o.Grid {
		return c.Grid < o.Grid
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func (c Coord) String() string {
	if c.IsSpace() {
		return fmt.Sprintf("space(map=%d %d,%d)", c.Map, c.X, c.Y)
	}
	return fmt.Sprintf("grid(%d %d,%d)", c.Grid, c.X, c.Y)
}
