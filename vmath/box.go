package vmath

import "math"

// Box is a rotated square in world space
type Box struct {
	Center   Vec2
	Rotation float64
	Half     float64 // Half side length
}

// Grow returns the box with half-extent increased by margin
func (b Box) Grow(margin float64) Box {
	b.Half += margin
	if b.Half < 0 {
		b.Half = 0
	}
	return b
}

// Axes returns the box's local x and y unit axes in world space
func (b Box) Axes() (Vec2, Vec2) {
	sin, cos := math.Sincos(b.Rotation)
	return Vec2{cos, sin}, Vec2{-sin, cos}
}

// Corners returns the 4 corners counter-clockwise starting bottom-left in local space
func (b Box) Corners() [4]Vec2 {
	ax, ay := b.Axes()
	ex := ax.Scale(b.Half)
	ey := ay.Scale(b.Half)
	return [4]Vec2{
		b.Center.Sub(ex).Sub(ey),
		b.Center.Add(ex).Sub(ey),
		b.Center.Add(ex).Add(ey),
		b.Center.Sub(ex).Add(ey),
	}
}

// Contains reports whether p lies inside or on the box
func (b Box) Contains(p Vec2) bool {
	ax, ay := b.Axes()
	d := p.Sub(b.Center)
	return math.Abs(d.Dot(ax)) <= b.Half+Epsilon && math.Abs(d.Dot(ay)) <= b.Half+Epsilon
}

// Bounds returns the world-aligned bounding box
func (b Box) Bounds() AABB {
	sin, cos := math.Sincos(b.Rotation)
	r := b.Half * (math.Abs(cos) + math.Abs(sin))
	return AABB{
		Min: Vec2{b.Center.X - r, b.Center.Y - r},
		Max: Vec2{b.Center.X + r, b.Center.Y + r},
	}
}

// projectRadius returns half the box's extent when projected onto unit axis n
func (b Box) projectRadius(n Vec2) float64 {
	ax, ay := b.Axes()
	return b.Half * (math.Abs(ax.Dot(n)) + math.Abs(ay.Dot(n)))
}

// OverlapDepth returns the minimum penetration depth over the separating axes of a and b
// Negative values are the separation distance, zero means touching
func OverlapDepth(a, b Box) float64 {
	a1, a2 := a.Axes()
	b1, b2 := b.Axes()
	d := b.Center.Sub(a.Center)

	depth := math.Inf(1)
	for _, n := range [4]Vec2{a1, a2, b1, b2} {
		o := a.projectRadius(n) + b.projectRadius(n) - math.Abs(d.Dot(n))
		if o < depth {
			depth = o
		}
	}
	return depth
}

// Overlaps reports whether a and b overlap by more than eps along every separating axis
func Overlaps(a, b Box, eps float64) bool {
	return OverlapDepth(a, b) > eps
}

// AABB is a world-aligned bounding box
type AABB struct {
	Min, Max Vec2
}

// CenteredAABB returns a box of half-size r around c
func CenteredAABB(c Vec2, r float64) AABB {
	return AABB{Min: Vec2{c.X - r, c.Y - r}, Max: Vec2{c.X + r, c.Y + r}}
}

// Empty reports whether the box has no extent
func (a AABB) Empty() bool {
	return a.Max.X < a.Min.X || a.Max.Y < a.Min.Y
}

// Union returns the smallest box containing both
func (a AABB) Union(o AABB) AABB {
	if a.Empty() {
		return o
	}
	if o.Empty() {
		return a
	}
	return AABB{
		Min: Vec2{math.Min(a.Min.X, o.Min.X), math.Min(a.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(a.Max.X, o.Max.X), math.Max(a.Max.Y, o.Max.Y)},
	}
}

// Grow expands every side by m
func (a AABB) Grow(m float64) AABB {
	return AABB{Min: Vec2{a.Min.X - m, a.Min.Y - m}, Max: Vec2{a.Max.X + m, a.Max.Y + m}}
}

// Intersects reports whether boxes overlap or touch
func (a AABB) Intersects(o AABB) bool {
	return a.Min.X <= o.Max.X && o.Min.X <= a.Max.X && a.Min.Y <= o.Max.Y && o.Min.Y <= a.Max.Y
}

// Contains reports whether p lies inside or on the box
func (a AABB) Contains(p Vec2) bool {
	return p.X >= a.Min.X-Epsilon && p.X <= a.Max.X+Epsilon && p.Y >= a.Min.Y-Epsilon && p.Y <= a.Max.Y+Epsilon
}

// EmptyAABB returns an inverted box usable as a Union seed
func EmptyAABB() AABB {
	return AABB{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}
