package features

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/simagents/internal/geometry"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/trajectory"
)

// Lane is a lane centerline that traffic signals can control.
type Lane struct {
	ID       int
	Polyline geometry.Polyline
}

// SurfaceStreetLanes returns the scenario's surface-street lanes in map
// order.
func SurfaceStreetLanes(sc *scenario.Scenario) []Lane {
	ids, polylines := sc.LanesOfType(scenario.LaneSurfaceStreet)
	lanes := make([]Lane, len(ids))
	for k, id := range ids {
		pts := make([]r2.Vec, len(polylines[k]))
		for i, p := range polylines[k] {
			pts[i] = r2.Vec{X: p.X, Y: p.Y}
		}
		lanes[k] = Lane{ID: id, Polyline: geometry.NewPolyline(pts)}
	}
	return lanes
}

// ComputeRedLightViolation flags, for every evaluated object and step,
// whether the object crossed a stop line while its signal showed a stop
// state. An object is on the nearest lane whose centerline is within
// p.LaneAssociationDistance. A crossing at step t requires the object to be
// on the same lane at t-1 and t, and its arc length along that lane to pass
// the stop point between the two steps. Steps without signal data never
// flag a violation.
func ComputeRedLightViolation(o trajectory.ObjectTrajectories, evaluated []bool, lanes []Lane, signals []scenario.DynamicMapState, p Params) [][]bool {
	nSteps := o.NumSteps()
	laneIndex := make(map[int]int, len(lanes))
	for k, l := range lanes {
		laneIndex[l.ID] = k
	}

	// stops[t][k] is the stop point arc length of lane k when it shows a
	// stop state at step t.
	stops := make([]map[int]float64, min(nSteps, len(signals)))
	for t := range stops {
		stops[t] = make(map[int]float64)
		for _, ls := range signals[t].LaneStates {
			k, ok := laneIndex[ls.Lane]
			if !ok || !ls.State.IsStop() {
				continue
			}
			_, arc, ok := lanes[k].Polyline.Project(r2.Vec{X: ls.StopPoint.X, Y: ls.StopPoint.Y})
			if ok {
				stops[t][k] = arc
			}
		}
	}

	var out [][]bool
	onLane := make([]int, nSteps)
	arcs := make([]float64, nSteps)
	for i := range o.NumObjects() {
		if !evaluated[i] {
			continue
		}
		row := make([]bool, nSteps)
		for t := range nSteps {
			onLane[t] = -1
			if o.Valid[i][t] {
				onLane[t], arcs[t] = associateLane(lanes, r2.Vec{X: o.X[i][t], Y: o.Y[i][t]}, p.LaneAssociationDistance)
			}
		}
		for t := 1; t < len(stops); t++ {
			k := onLane[t]
			if k < 0 || onLane[t-1] != k {
				continue
			}
			stopArc, red := stops[t][k]
			row[t] = red && arcs[t-1] < stopArc && stopArc <= arcs[t]
		}
		out = append(out, row)
	}
	return out
}

// associateLane returns the index of the nearest lane within maxDist of p
// and the arc length of p's projection onto it, or -1.
func associateLane(lanes []Lane, p r2.Vec, maxDist float64) (int, float64) {
	best, bestDist, bestArc := -1, maxDist, 0.0
	for k, l := range lanes {
		d, arc, ok := l.Polyline.Project(p)
		if ok && d <= bestDist && (best < 0 || d < bestDist) {
			best, bestDist, bestArc = k, d, arc
		}
	}
	return best, bestArc
}
