package geometry

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// epsilon is the tolerance under which lengths and areas count as zero.
const epsilon = 1e-10

// Polygon is a convex polygon with counter-clockwise vertices and a cached
// axis-aligned bounding box.
type Polygon struct {
	points []r2.Vec
	min    r2.Vec
	max    r2.Vec
}

// NewConvexPolygon builds a polygon from counter-clockwise points. Repeated
// consecutive points are dropped; inputs that collapse to one or two points
// are padded so the polygon always has at least three vertices (and zero
// area).
func NewConvexPolygon(points []r2.Vec) Polygon {
	pts := make([]r2.Vec, 0, len(points)+2)
	for _, p := range points {
		if len(pts) == 0 || r2.Norm2(r2.Sub(p, pts[len(pts)-1])) >= epsilon*epsilon {
			pts = append(pts, p)
		}
	}
	if len(pts) >= 2 && r2.Norm2(r2.Sub(pts[0], pts[len(pts)-1])) < epsilon*epsilon {
		pts = pts[:len(pts)-1]
	}
	switch len(pts) {
	case 0:
		pts = append(pts, r2.Vec{}, r2.Vec{}, r2.Vec{})
	case 1:
		pts = append(pts, pts[0], pts[0])
	case 2:
		pts = append(pts, pts[1])
	}

	poly := Polygon{points: pts, min: pts[0], max: pts[0]}
	for _, p := range pts[1:] {
		poly.min = r2.Vec{X: math.Min(poly.min.X, p.X), Y: math.Min(poly.min.Y, p.Y)}
		poly.max = r2.Vec{X: math.Max(poly.max.X, p.X), Y: math.Max(poly.max.Y, p.Y)}
	}
	return poly
}

// Points returns a copy of the vertices.
func (p Polygon) Points() []r2.Vec { return slices.Clone(p.points) }

// Area returns the enclosed area.
func (p Polygon) Area() float64 { return area(p.points) }

func area(pts []r2.Vec) float64 {
	var a float64
	for i := 1; i+1 < len(pts); i++ {
		a += r2.Cross(r2.Sub(pts[i], pts[0]), r2.Sub(pts[i+1], pts[0]))
	}
	if math.Abs(a) <= epsilon {
		return 0
	}
	return math.Abs(a) / 2
}

// ContainsPoint reports whether q lies inside or on the boundary.
func (p Polygon) ContainsPoint(q r2.Vec) bool {
	if q.X < p.min.X || q.Y < p.min.Y || q.X > p.max.X || q.Y > p.max.Y {
		return false
	}
	n := len(p.points)
	for i := range p.points {
		a, b := p.points[i], p.points[(i+1)%n]
		if r2.Cross(r2.Sub(b, a), r2.Sub(q, a)) < 0 {
			return false
		}
	}
	return true
}

// MaybeIntersects is the bounding-box pre-check for IntersectionArea.
func (p Polygon) MaybeIntersects(o Polygon) bool {
	return !(p.min.X > o.max.X || o.min.X > p.max.X || p.min.Y > o.max.Y || o.min.Y > p.max.Y)
}

// IntersectionArea returns the area shared by two convex polygons.
func (p Polygon) IntersectionArea(o Polygon) float64 {
	if !p.MaybeIntersects(o) || p.Area() == 0 || o.Area() == 0 {
		return 0
	}
	clipped := clipConvex(p.points, o.points)
	if len(clipped) < 3 {
		return 0
	}
	return area(clipped)
}

// clipConvex clips subject against each edge of the convex clip polygon
// (Sutherland-Hodgman).
func clipConvex(subject, clip []r2.Vec) []r2.Vec {
	out := slices.Clone(subject)
	n := len(clip)
	for i := 0; i < n && len(out) > 0; i++ {
		a, b := clip[i], clip[(i+1)%n]
		edge := r2.Sub(b, a)
		if r2.Norm2(edge) < epsilon*epsilon {
			continue
		}
		in := out
		out = make([]r2.Vec, 0, len(in)+1)
		for j, cur := range in {
			prev := in[(j+len(in)-1)%len(in)]
			curIn := r2.Cross(edge, r2.Sub(cur, a)) >= 0
			prevIn := r2.Cross(edge, r2.Sub(prev, a)) >= 0
			switch {
			case curIn && !prevIn:
				out = append(out, lineIntersection(prev, cur, a, edge), cur)
			case curIn:
				out = append(out, cur)
			case prevIn:
				out = append(out, lineIntersection(prev, cur, a, edge))
			}
		}
	}
	return out
}

// lineIntersection returns where segment pq crosses the line through a with
// direction e. The caller guarantees p and q lie on opposite sides.
func lineIntersection(p, q, a, e r2.Vec) r2.Vec {
	d := r2.Sub(q, p)
	t := r2.Cross(e, r2.Sub(a, p)) / r2.Cross(e, d)
	return r2.Add(p, r2.Scale(t, d))
}

// SignedDistanceToPoint returns the distance from q to the polygon
// boundary, negative when q is inside.
func (p Polygon) SignedDistanceToPoint(q r2.Vec) float64 {
	n := len(p.points)
	best := math.Inf(1)
	for i := range p.points {
		best = math.Min(best, pointSegmentDistance(q, p.points[i], p.points[(i+1)%n]))
	}
	if p.Area() > 0 && p.ContainsPoint(q) {
		return -best
	}
	return best
}

func pointSegmentDistance(q, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	t := 0.0
	if l2 := r2.Norm2(ab); l2 > 0 {
		t = math.Max(0, math.Min(1, r2.Dot(r2.Sub(q, a), ab)/l2))
	}
	return r2.Norm(r2.Sub(q, r2.Add(a, r2.Scale(t, ab))))
}

// ConvexHull returns the counter-clockwise convex hull of points, without
// collinear vertices (Andrew's monotone chain).
func ConvexHull(points []r2.Vec) []r2.Vec {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b r2.Vec) int {
		if a.X != b.X {
			if a.X < b.X {
				return -1
			}
			return 1
		}
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return pts
	}

	hull := make([]r2.Vec, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func turn(o, a, b r2.Vec) float64 {
	return r2.Cross(r2.Sub(a, o), r2.Sub(b, o))
}

// MinkowskiDifference returns the convex polygon {a - b} for convex vertex
// sets a and b. The origin lies inside it exactly when the shapes overlap.
func MinkowskiDifference(a, b []r2.Vec) Polygon {
	pts := make([]r2.Vec, 0, len(a)*len(b))
	for _, pa := range a {
		for _, pb := range b {
			pts = append(pts, r2.Sub(pa, pb))
		}
	}
	return NewConvexPolygon(ConvexHull(pts))
}
