package tile

import (
	"math"
	"sync"

	"github.com/lixenwraith/gridflood/neighbor"
)

// ChannelID indexes the per-tile resistance slice (explosive, thermal, ...)
type ChannelID int

// Data describes what blocks propagation on a tile at query time
type Data struct {
	// Resistance consumed from the propagating intensity, indexed by ChannelID
	Resistance []float64

	// Blocked holds incoming directions that cannot enter the tile
	// North means entry through the north face (travelling south) is refused
	Blocked neighbor.Flag
}

// Empty is the data of an unoccupied tile
var Empty = Data{}

// ResistanceFor returns the raw resistance for channel c, zero when absent
func (d Data) ResistanceFor(c ChannelID) float64 {
	if c < 0 || int(c) >= len(d.Resistance) {
		return 0
	}
	return d.Resistance[c]
}

// BlocksEntry reports whether travel in direction travel is refused by this tile
// A step northward arrives through the south face
func (d Data) BlocksEntry(travel neighbor.Flag) bool {
	return d.Blocked.Has(travel.Reciprocal())
}

// Sanitize clamps negative or non-finite resistance to zero
// Returns the usable value and whether clamping happened
func Sanitize(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, true
	}
	return v, false
}

// Source answers tile occupancy queries for the propagation engine
// Implementations snapshot whatever occupies the tile at call time
type Source interface {
	TileData(c Coord) Data
}

// SourceFunc adapts a function to Source
type SourceFunc func(c Coord) Data

func (f SourceFunc) TileData(c Coord) Data { return f(c) }

// Map is an in-memory Source keyed by coordinate
// Safe for concurrent reads with occasional writes
type Map struct {
	mu    sync.RWMutex
	tiles map[Coord]Data
}

// NewMap creates an empty tile map
func NewMap() *Map {
	return &Map{tiles: make(map[Coord]Data)}
}

// Set stores data for a coordinate, replacing existing
func (m *Map) Set(c Coord, d Data) {
	m.mu.Lock()
	m.tiles[c] = d
	m.mu.Unlock()
}

// Delete removes data for a coordinate
func (m *Map) Delete(c Coord) {
	m.mu.Lock()
	delete(m.tiles, c)
	m.mu.Unlock()
}

// Len returns the number of occupied tiles
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tiles)
}

// TileData implements Source, unoccupied tiles return Empty
func (m *Map) TileData(c Coord) Data {
	m.mu.RLock()
	d, ok := m.tiles[c]
	m.mu.RUnlock()
	if !ok {
		return Empty
	}
	return d
}

// Uniform returns a Source giving every coordinate the same data
func Uniform(d Data) Source {
	return SourceFunc(func(Coord) Data { return d })
}

// Wall builds data that blocks the given incoming directions with resistance r on channel c
func Wall(c ChannelID, r float64, blocked neighbor.Flag) Data {
	res := make([]float64, int(c)+1)
	res[c] = r
	return Data{Resistance: res, Blocked: blocked}
}
