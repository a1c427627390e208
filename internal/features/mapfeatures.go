package features

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/simagents/internal/geometry"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/trajectory"
)

// RoadEdgePolylines converts the scenario's road edges to 3D polylines.
func RoadEdgePolylines(sc *scenario.Scenario) [][]r3.Vec {
	edges := sc.RoadEdges()
	out := make([][]r3.Vec, 0, len(edges))
	for _, e := range edges {
		out = append(out, toR3(e))
	}
	return out
}

func toR3(pts []scenario.MapPoint) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
	}
	return out
}

// ComputeDistanceToRoadEdge returns, for every evaluated object and step,
// the largest signed distance from a box corner to the nearest road edge.
// Positive values mean a corner is past the edge (offroad), given that road
// edges keep the drivable surface on their left. Invalid steps, and all
// steps when there are no road edges, report -ExtremelyLargeDistance.
func ComputeDistanceToRoadEdge(o trajectory.ObjectTrajectories, evaluated []bool, roadEdges [][]r3.Vec) [][]float64 {
	nSteps := o.NumSteps()
	var out [][]float64
	for i := range o.NumObjects() {
		if !evaluated[i] {
			continue
		}
		row := make([]float64, nSteps)
		for t := range nSteps {
			row[t] = -ExtremelyLargeDistance
			if !o.Valid[i][t] {
				continue
			}
			z := o.Z[i][t]
			dist, found := math.Inf(-1), false
			for _, c := range boxAt(o, i, t).Corners() {
				d, ok := geometry.SignedDistanceToPolylines(r3.Vec{X: c.X, Y: c.Y, Z: z}, roadEdges)
				if !ok {
					break
				}
				dist, found = math.Max(dist, d), true
			}
			if found {
				row[t] = dist
			}
		}
		out = append(out, row)
	}
	return out
}
