// Package geo provides the small set of planar geometry values shared by the
// layout engines: points, sizes, and axis-aligned rectangles.
//
// All coordinates are in user units. Rectangles are closed on all sides, so a
// point on the boundary is considered inside.
package geo

import "math"

// Point is a position in the plane.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// Clamp returns p with its length limited to max. The zero vector is
// returned unchanged.
func (p Point) Clamp(max float64) Point {
	l := p.Len()
	if l <= max || l == 0 {
		return p
	}
	return p.Scale(max / l)
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Area returns the covered area.
func (s Size) Area() float64 { return s.W * s.H }

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// RectAround returns the rectangle of the given size centered on c.
func RectAround(c Point, s Size) Rect {
	return Rect{
		MinX: c.X - s.W/2,
		MinY: c.Y - s.H/2,
		MaxX: c.X + s.W/2,
		MaxY: c.Y + s.H/2,
	}
}

// Width returns the horizontal span of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Size returns the dimensions of r.
func (r Rect) Size() Size { return Size{r.Width(), r.Height()} }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2}
}

// Empty reports whether r has no extent on either axis.
func (r Rect) Empty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

// Union returns the smallest rectangle containing both r and q.
func (r Rect) Union(q Rect) Rect {
	return Rect{
		MinX: min(r.MinX, q.MinX),
		MinY: min(r.MinY, q.MinY),
		MaxX: max(r.MaxX, q.MaxX),
		MaxY: max(r.MaxY, q.MaxY),
	}
}

// Expand returns r grown by pad on every side. Negative pad shrinks.
func (r Rect) Expand(pad float64) Rect {
	return Rect{r.MinX - pad, r.MinY - pad, r.MaxX + pad, r.MaxY + pad}
}

// Translate returns r shifted by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{r.MinX + d.X, r.MinY + d.Y, r.MaxX + d.X, r.MaxY + d.Y}
}

// Contains reports whether p lies inside r, boundary included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ContainsRect reports whether q lies entirely inside r.
func (r Rect) ContainsRect(q Rect) bool {
	return q.MinX >= r.MinX && q.MaxX <= r.MaxX && q.MinY >= r.MinY && q.MaxY <= r.MaxY
}

// Intersects reports whether r and q share any area. Touching edges do not
// count as an intersection.
func (r Rect) Intersects(q Rect) bool {
	return Overlap(r.MinX, r.MaxX, q.MinX, q.MaxX) > 0 &&
		Overlap(r.MinY, r.MaxY, q.MinY, q.MaxY) > 0
}

// ClosestInside returns the point inside r nearest to p. If p is already
// inside, p is returned unchanged.
func (r Rect) ClosestInside(p Point) Point {
	return Point{
		X: min(max(p.X, r.MinX), r.MaxX),
		Y: min(max(p.Y, r.MinY), r.MaxY),
	}
}

// ClampInside returns the center position closest to c that keeps a box of
// the given size entirely within r. If the box is larger than r on an axis,
// it is centered on that axis instead.
func (r Rect) ClampInside(c Point, s Size) Point {
	out := c
	if s.W >= r.Width() {
		out.X = r.Center().X
	} else {
		out.X = min(max(c.X, r.MinX+s.W/2), r.MaxX-s.W/2)
	}
	if s.H >= r.Height() {
		out.Y = r.Center().Y
	} else {
		out.Y = min(max(c.Y, r.MinY+s.H/2), r.MaxY-s.H/2)
	}
	return out
}

// Overlap returns the length of the intersection of the intervals [a1,a2]
// and [b1,b2], or 0 when they are disjoint.
func Overlap(a1, a2, b1, b2 float64) float64 {
	return max(0, min(a2, b2)-max(a1, b1))
}
