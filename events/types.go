package events

import (
	"time"

	"github.com/lixenwraith/gridflood/tile"
)

// EventType represents the type of grid event
type EventType int

const (
	// EventGridAdded signals a new grid entered a map
	// Trigger: host grid startup | Payload: *GridPayload
	EventGridAdded EventType = iota

	// EventGridMoved signals a grid's position or rotation changed
	// Trigger: host physics/transform update | Payload: *GridPayload
	// Consumer: grid.Registry (drops cached transform and edge boxes)
	EventGridMoved

	// EventGridRemoved signals a grid was deleted
	// Trigger: host grid removal | Payload: *GridPayload
	EventGridRemoved

	// EventTileChanged signals a tile was placed or removed, changing the grid footprint
	// Trigger: host tile edit, explosion damage | Payload: *TileChangedPayload
	// Consumer: grid.Registry (drops cached edge set)
	EventTileChanged

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	EventGridAdded:   "grid_added",
	EventGridMoved:   "grid_moved",
	EventGridRemoved: "grid_removed",
	EventTileChanged: "tile_changed",
}

func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "unknown"
	}
	return eventNames[t]
}

// GridPayload identifies the grid an event refers to
type GridPayload struct {
	Map  tile.MapID
	Grid tile.GridID
}

// TileChangedPayload identifies the tile whose occupancy changed
type TileChangedPayload struct {
	Grid  tile.GridID
	Index tile.Index
	Empty bool // True when the tile was removed
}

// GridEvent is a single queued host notification
type GridEvent struct {
	Type      EventType
	Payload   any
	Timestamp time.Time
}

// GridMoved builds an EventGridMoved event
func GridMoved(m tile.MapID, g tile.GridID) GridEvent {
	return GridEvent{Type: EventGridMoved, Payload: &GridPayload{Map: m, Grid: g}, Timestamp: time.Now()}
}

// GridAdded builds an EventGridAdded event
func GridAdded(m tile.MapID, g tile.GridID) GridEvent {
	return GridEvent{Type: EventGridAdded, Payload: &GridPayload{Map: m, Grid: g}, Timestamp: time.Now()}
}

// GridRemoved builds an EventGridRemoved event
func GridRemoved(m tile.MapID, g tile.GridID) GridEvent {
	return GridEvent{Type: EventGridRemoved, Payload: &GridPayload{Map: m, Grid: g}, Timestamp: time.Now()}
}

// TileChanged builds an EventTileChanged event
func TileChanged(g tile.GridID, idx tile.Index, empty bool) GridEvent {
	return GridEvent{Type: EventTileChanged, Payload: &TileChangedPayload{Grid: g, Index: idx, Empty: empty}, Timestamp: time.Now()}
}
