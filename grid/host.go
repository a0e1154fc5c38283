package grid

import (
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// Info is the static description of a grid
type Info struct {
	Map      tile.MapID
	TileSize float64 // World units per tile side
	Mass     float64 // Used to pick the reference grid orienting space
}

// Host is the spatial/grid system the registry reads from
// Implementations must be safe for concurrent reads
type Host interface {
	// Grids lists grids on a map, any order
	Grids(m tile.MapID) []tile.GridID

	// GridInfo returns static grid data, false if the grid does not exist
	GridInfo(id tile.GridID) (Info, bool)

	// GridTransform returns the current world placement, false if unavailable
	GridTransform(id tile.GridID) (vmath.Transform, bool)

	// HasTile reports whether the grid has a non-empty tile at idx
	HasTile(id tile.GridID, idx tile.Index) bool

	// EdgeTiles lists tiles with at least one absent 8-neighbor
	EdgeTiles(id tile.GridID) []tile.Index
}
