package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// zStretch scales height differences when picking the closest segment, so
// that a road edge on an overpass does not win over one at ground level.
const zStretch = 3.0

type segmentHit struct {
	polyline int
	segment  int
	t        float64 // Clamped projection parameter along the segment
	dist3    float64 // Stretched 3D distance used for selection
}

// SignedDistanceToPolylines returns the 2D distance from p to the closest
// polyline segment, positive when p lies to the right of the polyline's
// direction. Where the closest point is a vertex shared by two segments,
// the side is decided by the local convexity of the corner. ok is false
// when no polyline has a segment.
func SignedDistanceToPolylines(p r3.Vec, polylines [][]r3.Vec) (dist float64, ok bool) {
	best := segmentHit{dist3: math.Inf(1)}
	for i, pl := range polylines {
		for j := 0; j+1 < len(pl); j++ {
			a, b := pl[j], pl[j+1]
			t := projectClamped(xy(p), xy(a), xy(b))
			c := r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
			d := r3.Sub(p, c)
			d.Z *= zStretch
			if n := r3.Norm(d); n < best.dist3 {
				best = segmentHit{polyline: i, segment: j, t: t, dist3: n}
			}
		}
	}
	if math.IsInf(best.dist3, 1) {
		return 0, false
	}

	pl := polylines[best.polyline]
	a, b := xy(pl[best.segment]), xy(pl[best.segment+1])
	closest := r2.Add(a, r2.Scale(best.t, r2.Sub(b, a)))
	dist = r2.Norm(r2.Sub(xy(p), closest))

	right := r2.Cross(r2.Sub(b, a), r2.Sub(xy(p), a)) < 0
	// At a shared vertex, combine with the neighbouring segment.
	var other []r2.Vec
	switch {
	case best.t >= 1 && best.segment+2 < len(pl):
		other = []r2.Vec{b, xy(pl[best.segment+2])}
		right = combineSides(r2.Sub(b, a), r2.Sub(other[1], other[0]), right,
			r2.Cross(r2.Sub(other[1], other[0]), r2.Sub(xy(p), other[0])) < 0)
	case best.t <= 0 && best.segment > 0:
		other = []r2.Vec{xy(pl[best.segment-1]), a}
		right = combineSides(r2.Sub(other[1], other[0]), r2.Sub(b, a),
			r2.Cross(r2.Sub(other[1], other[0]), r2.Sub(xy(p), other[0])) < 0, right)
	}
	if right {
		return dist, true
	}
	return -dist, true
}

// combineSides decides the side of a point near the vertex joining an
// incoming and an outgoing segment. At a left turn (convex corner) the
// point is on the right if it is right of either segment; at a right turn
// it must be right of both.
func combineSides(in, out r2.Vec, rightOfIn, rightOfOut bool) bool {
	if r2.Cross(in, out) > 0 {
		return rightOfIn || rightOfOut
	}
	return rightOfIn && rightOfOut
}

func projectClamped(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, a), ab)/l2))
}

func xy(v r3.Vec) r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Polyline is a 2D polyline with cumulative arc length, used to locate
// points along lane centerlines.
type Polyline struct {
	points []r2.Vec
	cum    []float64 // cum[i] is the arc length at points[i]
}

// NewPolyline builds a Polyline from ordered vertices.
func NewPolyline(points []r2.Vec) Polyline {
	pl := Polyline{points: points, cum: make([]float64, len(points))}
	for i := 1; i < len(points); i++ {
		pl.cum[i] = pl.cum[i-1] + r2.Norm(r2.Sub(points[i], points[i-1]))
	}
	return pl
}

// Length returns the total arc length.
func (pl Polyline) Length() float64 {
	if len(pl.cum) == 0 {
		return 0
	}
	return pl.cum[len(pl.cum)-1]
}

// Project returns the distance from p to the polyline and the arc length
// of the closest point. ok is false for polylines without segments.
func (pl Polyline) Project(p r2.Vec) (dist, arc float64, ok bool) {
	dist = math.Inf(1)
	for i := 0; i+1 < len(pl.points); i++ {
		a, b := pl.points[i], pl.points[i+1]
		t := projectClamped(p, a, b)
		c := r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
		if d := r2.Norm(r2.Sub(p, c)); d < dist {
			dist = d
			arc = pl.cum[i] + t*(pl.cum[i+1]-pl.cum[i])
			ok = true
		}
	}
	return dist, arc, ok
}
