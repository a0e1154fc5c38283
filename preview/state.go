package preview

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/gridflood/flood"
)

// Cell is one reached tile, Grid 0 marks a space cell in the state's frame
type Cell struct {
	Grid      uint32  `msgpack:"g"`
	X         int32   `msgpack:"x"`
	Y         int32   `msgpack:"y"`
	Intensity float32 `msgpack:"i"`
}

// Layer holds every tile reached after the same number of steps
type Layer struct {
	Depth int    `msgpack:"d"`
	Cells []Cell `msgpack:"c"`
}

// Frame describes the space tiling so clients can place space cells
type Frame struct {
	OriginX  float64 `msgpack:"ox"`
	OriginY  float64 `msgpack:"oy"`
	Rotation float64 `msgpack:"rot"`
	TileSize float64 `msgpack:"ts"`
}

// State is the client-facing summary of one run, played back layer by layer
type State struct {
	Map       uint32  `msgpack:"map"`
	Channel   int     `msgpack:"ch"`
	Origin    Cell    `msgpack:"origin"`
	Frame     Frame   `msgpack:"frame"`
	Layers    []Layer `msgpack:"layers"`
	Peak      float32 `msgpack:"peak"`
	Total     float64 `msgpack:"total"`
	TileCount int     `msgpack:"n"`
	Partial   bool    `msgpack:"partial"`
}

// Build converts a result into a State
func Build(res *flood.Result) *State {
	o := res.Origin
	st := &State{
		Map:     uint32(o.Map),
		Channel: int(res.Channel),
		Origin:  Cell{Grid: uint32(o.Grid), X: int32(o.X), Y: int32(o.Y)},
		Frame: Frame{
			OriginX:  res.SpaceFrame.Origin.X,
			OriginY:  res.SpaceFrame.Origin.Y,
			Rotation: res.SpaceFrame.Rotation,
			TileSize: res.SpaceFrame.TileSize,
		},
		Total:     res.Total(),
		TileCount: res.Len(),
		Partial:   res.Partial,
	}

	for depth, layer := range res.Layers() {
		l := Layer{Depth: depth, Cells: make([]Cell, len(layer))}
		for i, e := range layer {
			c := Cell{
				Grid:      uint32(e.Coord.Grid),
				X:         int32(e.Coord.X),
				Y:         int32(e.Coord.Y),
				Intensity: float32(e.Intensity),
			}
			l.Cells[i] = c
			if c.Intensity > st.Peak {
				st.Peak = c.Intensity
			}
		}
		st.Layers = append(st.Layers, l)
	}
	if len(st.Layers) > 0 && len(st.Layers[0].Cells) > 0 {
		st.Origin.Intensity = st.Layers[0].Cells[0].Intensity
	}
	return st
}

// Encode serializes a State with msgpack
func Encode(st *State) ([]byte, error) {
	data, err := msgpack.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("preview encode: %w", err)
	}
	return data, nil
}

// Decode parses a msgpack State
func Decode(data []byte) (*State, error) {
	var st State
	if err := msgpack.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("preview decode: %w", err)
	}
	return &st, nil
}
