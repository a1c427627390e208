package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// minBoxDimension is the smallest length or width for which a box has an
// area worth intersecting.
const minBoxDimension = 1e-2

// Box2D is an oriented rectangle in the ground plane.
type Box2D struct {
	Center  r2.Vec
	Length  float64 // Extent along Heading
	Width   float64 // Extent across Heading
	Heading float64
}

// Box3D is an upright oriented box: a Box2D extruded along z.
type Box3D struct {
	Box2D
	CenterZ float64
	Height  float64
}

// Corners returns the four corners in counter-clockwise order, starting at
// the front-right corner.
func (b Box2D) Corners() [4]r2.Vec {
	sin, cos := math.Sincos(b.Heading)
	hl, hw := b.Length/2, b.Width/2
	local := [4]r2.Vec{{X: hl, Y: -hw}, {X: hl, Y: hw}, {X: -hl, Y: hw}, {X: -hl, Y: -hw}}
	var out [4]r2.Vec
	for i, p := range local {
		out[i] = r2.Vec{
			X: b.Center.X + p.X*cos - p.Y*sin,
			Y: b.Center.Y + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// Polygon returns the box outline as a convex polygon.
func (b Box2D) Polygon() Polygon {
	c := b.Corners()
	return NewConvexPolygon(c[:])
}

// Area returns length times width.
func (b Box2D) Area() float64 { return b.Length * b.Width }

// Shrink returns the box with every side pulled in by d.
func (b Box2D) Shrink(d float64) Box2D {
	b.Length -= 2 * d
	b.Width -= 2 * d
	return b
}

// BoundingRadius returns the radius of the circle through the corners.
func (b Box2D) BoundingRadius() float64 {
	return math.Hypot(b.Length, b.Width) / 2
}

// ToLocal expresses p in the box frame: x along the heading, y to its left.
func (b Box2D) ToLocal(p r2.Vec) r2.Vec {
	sin, cos := math.Sincos(b.Heading)
	d := r2.Sub(p, b.Center)
	return r2.Vec{X: d.X*cos + d.Y*sin, Y: -d.X*sin + d.Y*cos}
}

// Volume returns the box volume.
func (b Box3D) Volume() float64 { return b.Length * b.Width * b.Height }

func degenerate(b Box2D) bool {
	return !(b.Length > minBoxDimension && b.Width > minBoxDimension)
}

// IoU2D returns the intersection over union of two oriented rectangles.
// Degenerate or illegal boxes have zero IoU with everything.
func IoU2D(a, b Box2D) float64 {
	if degenerate(a) || degenerate(b) {
		return 0
	}
	inter := a.Polygon().IntersectionArea(b.Polygon())
	union := a.Area() + b.Area() - inter
	if union <= epsilon {
		return 0
	}
	return inter / union
}

// IoU3D returns the intersection over union of two upright boxes.
func IoU3D(a, b Box3D) float64 {
	if degenerate(a.Box2D) || degenerate(b.Box2D) || !(a.Height > minBoxDimension && b.Height > minBoxDimension) {
		return 0
	}
	zLo := math.Max(a.CenterZ-a.Height/2, b.CenterZ-b.Height/2)
	zHi := math.Min(a.CenterZ+a.Height/2, b.CenterZ+b.Height/2)
	if zHi <= zLo {
		return 0
	}
	inter := a.Polygon().IntersectionArea(b.Polygon()) * (zHi - zLo)
	union := a.Volume() + b.Volume() - inter
	if union <= epsilon {
		return 0
	}
	return inter / union
}

// SignedBoxDistance returns the separation between two boxes, or the
// negated penetration depth when they overlap. It is the signed distance
// from the origin to the Minkowski difference a - b.
func SignedBoxDistance(a, b Box2D) float64 {
	ca, cb := a.Corners(), b.Corners()
	return MinkowskiDifference(ca[:], cb[:]).SignedDistanceToPoint(r2.Vec{})
}

// WrapAngle maps a to [-π, π).
func WrapAngle(a float64) float64 {
	m := math.Mod(a+math.Pi, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m - math.Pi
}
