// Package testutil provides shared test helpers and a deterministic
// synthetic scenario.
//
// The fixture scenario mirrors the shape of a real logged scene: 83 tracks
// over 91 steps at 10 Hz, 50 of them valid at the current time index (the
// self-driving car among them), a short tracks-to-predict list, road edges
// bounding a five-lane street, surface-street lane centerlines and a signal
// history that turns red mid-scene.
package testutil

import (
	"math"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/submission"
)

// Fixture dimensions.
const (
	ScenarioID          = "fixture-0001"
	NumSteps            = 91
	CurrentTimeIndex    = 10
	NumTracks           = 83
	NumSimAgents        = 50 // Valid at CurrentTimeIndex, SDC included
	NumLanes            = 5
	SDCTrackIndex       = 0
	FirstTrackID        = 1000
	LaneSpacing         = 4.0  // Metres between lane centerlines
	VehicleGap          = 12.0 // Metres between consecutive vehicles in a lane
	CruiseSpeed         = 8.0  // m/s, shared by every eligible track
	StopLineX           = 300.0
	RedFromStep         = 40
	BoundaryTrackIndex  = 3 // Valid everywhere except CurrentTimeIndex-1
	stepSeconds         = 0.1
	firstLaneFeatureID  = 200
	firstRoadEdgeID     = 100
	lateTrackValidFrom  = 20
	earlyTrackValidUpTo = 5
)

// NominatedTrackIndices are the tracks-to-predict entries of the fixture.
// Index 60 is not valid at the current time and is filtered out; index 2 is
// nominated twice.
var NominatedTrackIndices = []int{1, 2, 5, 60, 2}

// TrackID returns the object ID of the track at index i.
func TrackID(i int) int { return FirstTrackID + i }

// LaneY returns the centerline y of lane k.
func LaneY(k int) float64 { return LaneSpacing * float64(k) }

// NewScenario builds the fixture scenario. Each call returns a fresh copy.
func NewScenario() *scenario.Scenario {
	sc := &scenario.Scenario{
		ID:               ScenarioID,
		CurrentTimeIndex: CurrentTimeIndex,
		Timestamps:       make([]float64, NumSteps),
	}
	for s := range sc.Timestamps {
		sc.Timestamps[s] = float64(s) * stepSeconds
	}

	for i := 0; i < NumTracks; i++ {
		sc.Tracks = append(sc.Tracks, newTrack(i))
	}
	for _, idx := range NominatedTrackIndices {
		sc.TracksToPredict = append(sc.TracksToPredict, scenario.RequiredPrediction{TrackIndex: idx})
	}

	// Road edges run along the street with the drivable surface on their left.
	south := -LaneSpacing / 2
	north := LaneY(NumLanes-1) + LaneSpacing/2
	sc.MapFeatures = append(sc.MapFeatures,
		scenario.MapFeature{ID: firstRoadEdgeID, RoadEdge: &scenario.RoadEdge{Polyline: []scenario.MapPoint{
			{X: -50, Y: south}, {X: 200, Y: south}, {X: 500, Y: south},
		}}},
		scenario.MapFeature{ID: firstRoadEdgeID + 1, RoadEdge: &scenario.RoadEdge{Polyline: []scenario.MapPoint{
			{X: 500, Y: north}, {X: 200, Y: north}, {X: -50, Y: north},
		}}},
	)
	for k := 0; k < NumLanes; k++ {
		sc.MapFeatures = append(sc.MapFeatures, scenario.MapFeature{
			ID: firstLaneFeatureID + k,
			Lane: &scenario.Lane{Type: scenario.LaneSurfaceStreet, Polyline: []scenario.MapPoint{
				{X: -50, Y: LaneY(k)}, {X: 150, Y: LaneY(k)}, {X: 500, Y: LaneY(k)},
			}},
		})
	}
	sc.MapFeatures = append(sc.MapFeatures, scenario.MapFeature{
		ID:       300,
		RoadLine: &scenario.RoadLine{Polyline: []scenario.MapPoint{{X: -50, Y: 2}, {X: 500, Y: 2}}},
	})

	for s := 0; s < NumSteps; s++ {
		state := scenario.SignalGo
		if s >= RedFromStep {
			state = scenario.SignalStop
		}
		var dms scenario.DynamicMapState
		for k := 0; k < NumLanes; k++ {
			dms.LaneStates = append(dms.LaneStates, scenario.TrafficSignalLaneState{
				Lane:      LaneFeatureID(k),
				State:     state,
				StopPoint: scenario.MapPoint{X: StopLineX, Y: LaneY(k)},
			})
		}
		sc.DynamicMapStates = append(sc.DynamicMapStates, dms)
	}
	return sc
}

// LaneFeatureID returns the map feature ID of lane k.
func LaneFeatureID(k int) int { return firstLaneFeatureID + k }

func objectTypeFor(i int) scenario.ObjectType {
	switch {
	case i == SDCTrackIndex:
		return scenario.TypeVehicle
	case i%7 == 3:
		return scenario.TypePedestrian
	case i%11 == 4:
		return scenario.TypeCyclist
	default:
		return scenario.TypeVehicle
	}
}

func dimensionsFor(ot scenario.ObjectType) (length, width, height float64) {
	switch ot {
	case scenario.TypePedestrian:
		return 0.8, 0.8, 1.8
	case scenario.TypeCyclist:
		return 1.8, 0.7, 1.6
	default:
		return 4.5, 2.0, 1.6
	}
}

func newTrack(i int) scenario.Track {
	ot := objectTypeFor(i)
	length, width, height := dimensionsFor(ot)
	tr := scenario.Track{
		ID:     TrackID(i),
		Type:   ot,
		IsSDC:  i == SDCTrackIndex,
		States: make([]scenario.ObjectState, NumSteps),
	}

	// Eligible tracks drive east in a grid of lanes; the rest park far
	// north of the street where they never interact.
	var x0, y, speed float64
	if i < NumSimAgents {
		lane := i % NumLanes
		x0 = VehicleGap * float64(i/NumLanes)
		y = LaneY(lane)
		speed = CruiseSpeed
	} else {
		x0 = 20 * float64(i-NumSimAgents)
		y = 200
	}

	for s := range tr.States {
		if !stateValid(i, s) {
			continue
		}
		tr.States[s] = scenario.ObjectState{
			CenterX:   x0 + speed*float64(s)*stepSeconds,
			CenterY:   y,
			CenterZ:   height / 2,
			Length:    length,
			Width:     width,
			Height:    height,
			Heading:   0,
			VelocityX: speed,
			Valid:     true,
		}
	}
	return tr
}

func stateValid(i, s int) bool {
	switch {
	case i == BoundaryTrackIndex:
		return s != CurrentTimeIndex-1
	case i < NumSimAgents:
		return true
	case i%2 == 0:
		return s >= lateTrackValidFrom
	default:
		return s <= earlyTrackValidUpTo
	}
}

// SimulatedTrajectories returns one trajectory per sim agent of t, in track
// order, extrapolating each agent's state at the current time index at
// constant velocity for nSteps steps. For the fixture this reproduces the
// logged future exactly.
func SimulatedTrajectories(sc *scenario.Scenario, t challenge.Type, nSteps int) []submission.SimulatedTrajectory {
	v, err := challenge.Lookup(t)
	if err != nil {
		panic(err)
	}
	cfg := v.Config()
	var out []submission.SimulatedTrajectory
	for _, tr := range sc.Tracks {
		if !v.IsValidSimAgent(tr) {
			continue
		}
		cur := tr.States[cfg.CurrentTimeIndex]
		traj := submission.SimulatedTrajectory{
			ObjectID: tr.ID,
			CenterX:  make([]float64, nSteps),
			CenterY:  make([]float64, nSteps),
			CenterZ:  make([]float64, nSteps),
			Heading:  make([]float64, nSteps),
		}
		for k := 0; k < nSteps; k++ {
			dt := float64(k+1) * cfg.StepDurationSeconds
			traj.CenterX[k] = cur.CenterX + cur.VelocityX*dt
			traj.CenterY[k] = cur.CenterY + cur.VelocityY*dt
			traj.CenterZ[k] = cur.CenterZ
			traj.Heading[k] = cur.Heading
		}
		out = append(out, traj)
	}
	return out
}

// JointScene wraps SimulatedTrajectories with the variant's horizon.
func JointScene(sc *scenario.Scenario, t challenge.Type) submission.JointScene {
	cfg, err := challenge.ConfigFor(t)
	if err != nil {
		panic(err)
	}
	return submission.JointScene{Trajectories: SimulatedTrajectories(sc, t, cfg.NSimulationSteps)}
}

// ScenarioRollouts repeats one valid joint scene for every required rollout.
func ScenarioRollouts(sc *scenario.Scenario, t challenge.Type) submission.ScenarioRollouts {
	cfg, err := challenge.ConfigFor(t)
	if err != nil {
		panic(err)
	}
	js := JointScene(sc, t)
	sr := submission.ScenarioRollouts{ScenarioID: sc.ID}
	for i := 0; i < cfg.NRollouts; i++ {
		sr.JointScenes = append(sr.JointScenes, js)
	}
	return sr
}

// StraightTrack builds a single-object track of n steps moving from (x0, y0)
// with constant velocity (vx, vy) and fixed heading.
func StraightTrack(id int, n int, x0, y0, vx, vy, heading, length, width float64) scenario.Track {
	tr := scenario.Track{ID: id, Type: scenario.TypeVehicle, States: make([]scenario.ObjectState, n)}
	for s := range tr.States {
		dt := float64(s) * stepSeconds
		tr.States[s] = scenario.ObjectState{
			CenterX: x0 + vx*dt, CenterY: y0 + vy*dt, CenterZ: 0.8,
			Length: length, Width: width, Height: 1.6,
			Heading: heading, VelocityX: vx, VelocityY: vy, Valid: true,
		}
	}
	return tr
}

// AlmostEqual reports whether a and b differ by at most tol. NaNs are equal
// to each other.
func AlmostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}
