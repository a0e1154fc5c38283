package vmath

import "math"

// Transform places a grid-local frame in world space
// Rotation is counter-clockwise radians around the local origin
type Transform struct {
	Position Vec2
	Rotation float64

	// cached trig, filled by Prepare
	sin, cos float64
	ready    bool
}

// NewTransform returns a prepared transform
func NewTransform(pos Vec2, rotation float64) Transform {
	t := Transform{Position: pos, Rotation: rotation}
	t.Prepare()
	return t
}

// Prepare caches sin/cos of the rotation
// Transforms built as literals work without it, at the cost of recomputing trig per call
func (t *Transform) Prepare() {
	t.sin, t.cos = math.Sincos(t.Rotation)
	t.ready = true
}

func (t Transform) trig() (sin, cos float64) {
	if t.ready {
		return t.sin, t.cos
	}
	return math.Sincos(t.Rotation)
}

// Apply maps a local point to world space
func (t Transform) Apply(local Vec2) Vec2 {
	sin, cos := t.trig()
	return Vec2{
		X: t.Position.X + local.X*cos - local.Y*sin,
		Y: t.Position.Y + local.X*sin + local.Y*cos,
	}
}

// ApplyVector rotates a direction without translation
func (t Transform) ApplyVector(v Vec2) Vec2 {
	sin, cos := t.trig()
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Inverse maps a world point to local space
func (t Transform) Inverse(world Vec2) Vec2 {
	sin, cos := t.trig()
	d := world.Sub(t.Position)
	return Vec2{
		X: d.X*cos + d.Y*sin,
		Y: -d.X*sin + d.Y*cos,
	}
}

// InverseVector rotates a world direction into local space
func (t Transform) InverseVector(v Vec2) Vec2 {
	sin, cos := t.trig()
	return Vec2{v.X*cos + v.Y*sin, -v.X*sin + v.Y*cos}
}

// Equal compares position and rotation within Epsilon
func (t Transform) Equal(o Transform) bool {
	return t.Position.ApproxEqual(o.Position, Epsilon) && math.Abs(t.Rotation-o.Rotation) <= Epsilon
}

// Finite reports whether position and rotation are usable
func (t Transform) Finite() bool {
	return t.Position.Finite() && !math.IsNaN(t.Rotation) && !math.IsInf(t.Rotation, 0)
}
