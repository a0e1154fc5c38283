package space

import (
	"math"

	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/vmath"
)

// Frame tiles open space into square cells
// The default frame is axis-aligned with cells of parameter.DefaultTileSize
type Frame struct {
	Origin   vmath.Vec2
	Rotation float64
	TileSize float64
}

// DefaultFrame returns the unrotated map tiling
func DefaultFrame() Frame {
	return Frame{TileSize: parameter.DefaultTileSize}
}

// GridFrame returns a frame sharing a grid's placement and tile size
// Space around that grid then lines up cell-for-tile with it
func GridFrame(xf vmath.Transform, tileSize float64) Frame {
	if tileSize <= 0 {
		tileSize = parameter.DefaultTileSize
	}
	return Frame{Origin: xf.Position, Rotation: xf.Rotation, TileSize: tileSize}
}

func (f Frame) size() float64 {
	if f.TileSize <= 0 {
		return parameter.DefaultTileSize
	}
	return f.TileSize
}

// Transform returns the frame's local-to-world transform
func (f Frame) Transform() vmath.Transform {
	return vmath.NewTransform(f.Origin, f.Rotation)
}

// CellAt returns the cell containing a world position
func (f Frame) CellAt(pos vmath.Vec2) (x, y int) {
	local := f.Transform().Inverse(pos)
	ts := f.size()
	return int(math.Floor(local.X / ts)), int(math.Floor(local.Y / ts))
}

// CellCenter returns the world center of a cell
func (f Frame) CellCenter(x, y int) vmath.Vec2 {
	ts := f.size()
	return f.Transform().Apply(vmath.Vec2{X: (float64(x) + 0.5) * ts, Y: (float64(y) + 0.5) * ts})
}

// CellBox returns the world square of a cell
func (f Frame) CellBox(x, y int) vmath.Box {
	return vmath.Box{Center: f.CellCenter(x, y), Rotation: f.Rotation, Half: f.size() / 2}
}
