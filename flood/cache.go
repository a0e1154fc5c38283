package flood

import (
	"github.com/lixenwraith/gridflood/neighbor"
	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/tile"
)

// cachedTile is the sanitized snapshot of one tile for the run's channel
type cachedTile struct {
	resistance float64
	blocked    neighbor.Flag
}

// tileCache snapshots tile data once per coordinate for the lifetime of a run
// Owned by a single run, discarded on return
type tileCache struct {
	src     tile.Source
	channel tile.ChannelID
	tiles   map[tile.Coord]cachedTile

	// onClamp fires once per tile whose resistance was malformed
	onClamp func(c tile.Coord, raw float64)
}

func newTileCache(src tile.Source, ch tile.ChannelID) *tileCache {
	return &tileCache{
		src:     src,
		channel: ch,
		tiles:   make(map[tile.Coord]cachedTile, parameter.TileCacheHint),
	}
}

func (tc *tileCache) get(c tile.Coord) cachedTile {
	if t, ok := tc.tiles[c]; ok {
		return t
	}
	d := tc.src.TileData(c)
	raw := d.ResistanceFor(tc.channel)
	r, clamped := tile.Sanitize(raw)
	if clamped && tc.onClamp != nil {
		tc.onClamp(c, raw)
	}
	t := cachedTile{resistance: r, blocked: d.Blocked}
	tc.tiles[c] = t
	return t
}

// blocks reports whether entering c with the given travel direction is refused
// An undirected arrival (source centered on the tile) is refused by any wall
func (t cachedTile) blocks(travel neighbor.Flag) bool {
	if travel == neighbor.None {
		return t.blocked != neighbor.None
	}
	return t.blocked.Has(travel.Reciprocal())
}
