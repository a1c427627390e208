package features

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/simagents/internal/geometry"
	"github.com/banshee-data/simagents/internal/trajectory"
)

func boxAt(o trajectory.ObjectTrajectories, i, t int) geometry.Box2D {
	return geometry.Box2D{
		Center:  r2.Vec{X: o.X[i][t], Y: o.Y[i][t]},
		Length:  o.Length[i][t],
		Width:   o.Width[i][t],
		Heading: o.Heading[i][t],
	}
}

// roundedBox is a box with rounded corners: a shrunk core box grown by
// radius in every direction.
type roundedBox struct {
	core   geometry.Box2D
	radius float64
	bound  float64 // Circumscribed radius of the unshrunk box
}

func newRoundedBox(b geometry.Box2D, cornerRounding float64) roundedBox {
	r := cornerRounding * math.Min(b.Length, b.Width) / 2
	return roundedBox{core: b.Shrink(r), radius: r, bound: b.BoundingRadius()}
}

// ComputeDistanceToNearestObject returns, for every object selected by
// evaluated (in object order), the signed distance at each step to the
// closest other valid object. Boxes have their corners rounded by
// p.CornerRoundingFactor; negative distances mean overlap. Steps where the
// object is invalid or alone report ExtremelyLargeDistance.
func ComputeDistanceToNearestObject(o trajectory.ObjectTrajectories, evaluated []bool, p Params) [][]float64 {
	nObj, nSteps := o.NumObjects(), o.NumSteps()
	out := make([][]float64, 0, nObj)
	rows := make([]int, 0, nObj)
	for i := range nObj {
		if evaluated[i] {
			rows = append(rows, i)
			out = append(out, make([]float64, nSteps))
		}
	}

	boxes := make([]roundedBox, nObj)
	for t := range nSteps {
		for j := range nObj {
			if o.Valid[j][t] {
				boxes[j] = newRoundedBox(boxAt(o, j, t), p.CornerRoundingFactor)
			}
		}
		for r, i := range rows {
			best := ExtremelyLargeDistance
			if o.Valid[i][t] {
				bi := boxes[i]
				for j := range nObj {
					if j == i || !o.Valid[j][t] {
						continue
					}
					bj := boxes[j]
					// The rounded boxes lie inside their circumscribed circles.
					lower := r2.Norm(r2.Sub(bi.core.Center, bj.core.Center)) - bi.bound - bj.bound
					if lower >= best {
						continue
					}
					d := geometry.SignedBoxDistance(bi.core, bj.core) - bi.radius - bj.radius
					best = math.Min(best, d)
				}
			}
			out[r][t] = best
		}
	}
	return out
}

// ComputeTimeToCollision returns, for every evaluated object and step, the
// time in seconds until it reaches the object it follows, assuming both
// keep their current speeds. The followed object is the nearest valid one
// ahead whose heading is within 75° and whose box laterally overlaps the
// evaluated box; overlaps under SmallOverlapThreshold only count within 10°
// of heading. Without such an object, or when the gap is not closing, the
// result is p.MaximumTimeToCollision, which also caps every value.
func ComputeTimeToCollision(o trajectory.ObjectTrajectories, evaluated []bool, dt float64, p Params) [][]float64 {
	nObj, nSteps := o.NumObjects(), o.NumSteps()
	speeds := make([][]float64, nObj)
	for j := range nObj {
		speeds[j], _, _, _ = ComputeKinematicFeatures(o.X[j], o.Y[j], make([]float64, nSteps), o.Heading[j], dt)
	}

	var out [][]float64
	for i := range nObj {
		if !evaluated[i] {
			continue
		}
		row := make([]float64, nSteps)
		for t := range nSteps {
			row[t] = p.MaximumTimeToCollision
			if !o.Valid[i][t] {
				continue
			}
			ego := boxAt(o, i, t)
			lead, gap, dh := leadObject(o, i, t, ego)
			if lead < 0 {
				continue
			}
			closing := speeds[i][t] - speeds[lead][t]*math.Cos(dh)
			ttc := gap / closing
			if math.IsNaN(ttc) || closing <= 0 {
				continue
			}
			row[t] = math.Min(ttc, p.MaximumTimeToCollision)
		}
		out = append(out, row)
	}
	return out
}

// leadObject finds the object followed by object i at step t. It returns
// its index (-1 if none), the longitudinal gap between the front of the
// ego box and the nearest point of the lead box, and the heading
// difference.
func leadObject(o trajectory.ObjectTrajectories, i, t int, ego geometry.Box2D) (lead int, gap, dh float64) {
	lead, gap = -1, math.Inf(1)
	halfWidth := ego.Width / 2
	for j := range o.NumObjects() {
		if j == i || !o.Valid[j][t] {
			continue
		}
		other := boxAt(o, j, t)
		if ego.ToLocal(other.Center).X <= 0 {
			continue
		}
		diff := geometry.WrapAngle(other.Heading - ego.Heading)
		if math.Abs(diff) > maxHeadingDiff {
			continue
		}

		minX, minY, maxY := math.Inf(1), math.Inf(1), math.Inf(-1)
		for _, c := range other.Corners() {
			lc := ego.ToLocal(c)
			minX = math.Min(minX, lc.X)
			minY = math.Min(minY, lc.Y)
			maxY = math.Max(maxY, lc.Y)
		}
		overlap := math.Min(maxY, halfWidth) - math.Max(minY, -halfWidth)
		if overlap <= 0 {
			continue
		}
		if overlap < SmallOverlapThreshold && math.Abs(diff) > maxHeadingDiffForSmallOverlap {
			continue
		}

		g := math.Max(minX-ego.Length/2, 0)
		if g < gap {
			lead, gap, dh = j, g, diff
		}
	}
	return lead, gap, dh
}
