package preview

import (
	"github.com/lixenwraith/gridflood/events"
	"github.com/lixenwraith/gridflood/grid"
	"github.com/lixenwraith/gridflood/neighbor"
	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// Demo scene ids
const (
	SceneMap     tile.MapID  = 1
	SceneStation tile.GridID = 1
	SceneShuttle tile.GridID = 2
	SceneDebris  tile.GridID = 3
)

// Scene is a small station, a docked-off shuttle and a debris chunk on one map
// Shared by the preview server, the sandbox and tests
type Scene struct {
	Queue *events.EventQueue
	World *grid.World
	Tiles *tile.Map
}

// wall resistances per channel: explosive, thermal, pressure
var (
	hullWall  = []float64{4, 1.5, 30}
	innerWall = []float64{2, 1, 8}
	floor     = []float64{0.2, 0.1, 0}
)

// NewScene builds the demo scene, publishing construction events into its queue
func NewScene() *Scene {
	q := events.NewEventQueue()
	s := &Scene{
		Queue: q,
		World: grid.NewWorld(q),
		Tiles: tile.NewMap(),
	}

	// Station: 20x14 with a hull ring and a sealed partition at y = 7, door at x = 10
	s.World.AddGrid(SceneStation, grid.Info{Map: SceneMap, TileSize: 1, Mass: 280}, vmath.NewTransform(vmath.V(0, 0), 0))
	s.World.Fill(SceneStation, 0, 0, 19, 13)
	for y := 0; y < 14; y++ {
		for x := 0; x < 20; x++ {
			c := tile.GridCoord(SceneMap, SceneStation, x, y)
			switch {
			case x == 0 || y == 0 || x == 19 || y == 13:
				s.Tiles.Set(c, tile.Data{Resistance: hullWall})
			case y == 7 && x == 10:
				// Closed door: only enterable from the partition on either side
				s.Tiles.Set(c, tile.Data{Resistance: innerWall, Blocked: neighbor.Any.Clear(neighbor.East | neighbor.West)})
			case y == 7:
				s.Tiles.Set(c, tile.Data{Resistance: innerWall, Blocked: neighbor.Any})
			default:
				s.Tiles.Set(c, tile.Data{Resistance: floor})
			}
		}
	}

	// Shuttle: 6x4, slightly rotated, two tiles off the station's east hull
	s.World.AddGrid(SceneShuttle, grid.Info{Map: SceneMap, TileSize: 1, Mass: 24}, vmath.NewTransform(vmath.V(22, 5), 0.3))
	s.World.Fill(SceneShuttle, 0, 0, 5, 3)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			s.Tiles.Set(tile.GridCoord(SceneMap, SceneShuttle, x, y), tile.Data{Resistance: floor})
		}
	}

	// Debris: a loose 2x2 chunk south of the station
	s.World.AddGrid(SceneDebris, grid.Info{Map: SceneMap, TileSize: parameter.DefaultTileSize, Mass: 4}, vmath.NewTransform(vmath.V(9, -5), 0.8))
	s.World.Fill(SceneDebris, 0, 0, 1, 1)

	return s
}

// Registry returns a registry subscribed to the scene's events, with the router to dispatch them
func (s *Scene) Registry() (*grid.Registry, *events.Router[*grid.Registry]) {
	reg := grid.NewRegistry(s.World, nil)
	router := events.NewRouter[*grid.Registry](s.Queue)
	reg.Subscribe(router)
	router.DispatchAll(reg)
	return reg, router
}
