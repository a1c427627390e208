package features

import (
	"errors"
	"fmt"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/submission"
	"github.com/banshee-data/simagents/internal/trajectory"
)

// ErrShapeMismatch is returned when batched feature fields disagree on the
// number of samples or objects.
var ErrShapeMismatch = errors.New("metric features shape mismatch")

// MetricFeatures holds the features of the evaluated objects for one or
// more samples (rollouts). ObjectID is shared by every sample; every other
// field is indexed [sample][object] or [sample][object][step]. Records are
// not modified after construction.
type MetricFeatures struct {
	ObjectID []int

	ObjectType               [][]scenario.ObjectType
	Valid                    [][][]bool
	AverageDisplacementError [][]float64

	LinearSpeed         [][][]float64
	LinearAcceleration  [][][]float64
	AngularSpeed        [][][]float64
	AngularAcceleration [][][]float64

	DistanceToNearestObject [][][]float64
	CollisionPerStep        [][][]bool
	TimeToCollision         [][][]float64

	DistanceToRoadEdge           [][][]float64
	OffroadPerStep               [][][]bool
	TrafficLightViolationPerStep [][][]bool
}

// NumSamples returns the number of samples.
func (m *MetricFeatures) NumSamples() int { return len(m.Valid) }

// NumObjects returns the number of evaluated objects.
func (m *MetricFeatures) NumObjects() int { return len(m.ObjectID) }

// NumSteps returns the number of steps per object, or 0 for empty records.
func (m *MetricFeatures) NumSteps() int {
	if len(m.Valid) == 0 || len(m.Valid[0]) == 0 {
		return 0
	}
	return len(m.Valid[0][0])
}

type fieldShape struct {
	name    string
	samples int
	objects func(k int) int
}

func batched[T any](name string, x [][]T) fieldShape {
	return fieldShape{name: name, samples: len(x), objects: func(k int) int { return len(x[k]) }}
}

func (m *MetricFeatures) shapes() []fieldShape {
	return []fieldShape{
		batched("object_type", m.ObjectType),
		batched("valid", m.Valid),
		batched("average_displacement_error", m.AverageDisplacementError),
		batched("linear_speed", m.LinearSpeed),
		batched("linear_acceleration", m.LinearAcceleration),
		batched("angular_speed", m.AngularSpeed),
		batched("angular_acceleration", m.AngularAcceleration),
		batched("distance_to_nearest_object", m.DistanceToNearestObject),
		batched("collision_per_step", m.CollisionPerStep),
		batched("time_to_collision", m.TimeToCollision),
		batched("distance_to_road_edge", m.DistanceToRoadEdge),
		batched("offroad_per_step", m.OffroadPerStep),
		batched("traffic_light_violation_per_step", m.TrafficLightViolationPerStep),
	}
}

func (m *MetricFeatures) validate() error {
	samples, objects := m.NumSamples(), m.NumObjects()
	for _, f := range m.shapes() {
		if f.samples != samples {
			return fmt.Errorf("%w: %s has %d samples, want %d", ErrShapeMismatch, f.name, f.samples, samples)
		}
		for k := range samples {
			if n := f.objects(k); n != objects {
				return fmt.Errorf("%w: %s sample %d has %d objects, want %d", ErrShapeMismatch, f.name, k, n, objects)
			}
		}
	}
	return nil
}

func newMetricFeatures(m MetricFeatures) (*MetricFeatures, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ComputeMetricFeatures computes the features of one joint scene.
//
// The scene is aligned with the logged history, then the simulated objects
// are reordered so the evaluated ones come first, in evaluation order.
// Interaction and map features consider every simulated object, plus the
// logged self-driving car when the variant does not simulate it, but are
// reported for evaluated objects only. For variants with a log
// correspondence, per-step outputs cover only the simulated steps and the
// displacement error is measured against the log; otherwise every step is
// kept and the displacement error is zero. The result has one sample.
func ComputeMetricFeatures(sc *scenario.Scenario, js submission.JointScene, t challenge.Type, useLogValidity bool, p Params) (*MetricFeatures, error) {
	v, err := challenge.Lookup(t)
	if err != nil {
		return nil, err
	}
	cfg := v.Config()

	simulated, err := trajectory.FromJointScene(js, sc, t, useLogValidity)
	if err != nil {
		return nil, err
	}
	all := trajectory.FromScenario(sc)
	logged, err := all.GatherObjectsByID(simulated.ObjectID)
	if err != nil {
		return nil, err
	}
	evalIDs, err := submission.EvaluationSimAgentIDs(sc, t)
	if err != nil {
		return nil, err
	}
	evaluated, err := simulated.GatherObjectsByID(evalIDs)
	if err != nil {
		return nil, fmt.Errorf("evaluated objects: %w", err)
	}
	simulated, err = simulated.GatherObjectsByID(evaluationFirst(evalIDs, simulated.ObjectID))
	if err != nil {
		return nil, err
	}
	simulated, err = withLoggedSDC(sc, v, all, simulated)
	if err != nil {
		return nil, err
	}
	evaluatedLogged, err := logged.GatherObjectsByID(evalIDs)
	if err != nil {
		return nil, err
	}
	evaluatedMask := make([]bool, simulated.NumObjects())
	for i := range evalIDs {
		evaluatedMask[i] = true
	}

	nEval, nSteps := evaluated.NumObjects(), evaluated.NumSteps()
	dt := cfg.StepDurationSeconds

	speed := make([][]float64, nEval)
	accel := make([][]float64, nEval)
	angSpeed := make([][]float64, nEval)
	angAccel := make([][]float64, nEval)
	for i := range nEval {
		speed[i], accel[i], angSpeed[i], angAccel[i] = ComputeKinematicFeatures(
			evaluated.X[i], evaluated.Y[i], evaluated.Z[i], evaluated.Heading[i], dt)
	}

	distances := ComputeDistanceToNearestObject(simulated, evaluatedMask, p)
	ttc := ComputeTimeToCollision(simulated, evaluatedMask, dt, p)
	roadEdge := ComputeDistanceToRoadEdge(simulated, evaluatedMask, RoadEdgePolylines(sc))
	var redLight [][]bool
	if lanes := SurfaceStreetLanes(sc); len(lanes) > 0 && len(sc.DynamicMapStates) > 0 {
		redLight = ComputeRedLightViolation(simulated, evaluatedMask, lanes, sc.DynamicMapStates, p)
	} else {
		redLight = make([][]bool, nEval)
		for i := range redLight {
			redLight[i] = make([]bool, nSteps)
		}
	}

	valid := evaluated.Valid
	ade := make([]float64, nEval)
	from := 0
	if v.HasLogCorrespondence() {
		from = cfg.HistorySteps()
		for i := range nEval {
			if len(evaluatedLogged.X[i]) < nSteps {
				return nil, fmt.Errorf("object %d: log has %d steps, need %d", evalIDs[i], len(evaluatedLogged.X[i]), nSteps)
			}
			ade[i] = ComputeAverageDisplacementError(
				evaluated.X[i], evaluated.Y[i], evaluated.Z[i],
				evaluatedLogged.X[i], evaluatedLogged.Y[i], evaluatedLogged.Z[i],
				evaluatedLogged.Valid[i][:nSteps])
		}
	}
	if from > nSteps {
		from = nSteps
	}

	trimF := func(x [][]float64) [][]float64 {
		out := make([][]float64, len(x))
		for i := range x {
			out[i] = x[i][from:]
		}
		return out
	}
	trimB := func(x [][]bool) [][]bool {
		out := make([][]bool, len(x))
		for i := range x {
			out[i] = x[i][from:]
		}
		return out
	}
	distances, ttc, roadEdge = trimF(distances), trimF(ttc), trimF(roadEdge)

	return newMetricFeatures(MetricFeatures{
		ObjectID:                     evaluated.ObjectID,
		ObjectType:                   [][]scenario.ObjectType{evaluated.ObjectType},
		Valid:                        [][][]bool{trimB(valid)},
		AverageDisplacementError:     [][]float64{ade},
		LinearSpeed:                  [][][]float64{trimF(speed)},
		LinearAcceleration:           [][][]float64{trimF(accel)},
		AngularSpeed:                 [][][]float64{trimF(angSpeed)},
		AngularAcceleration:          [][][]float64{trimF(angAccel)},
		DistanceToNearestObject:      [][][]float64{distances},
		CollisionPerStep:             [][][]bool{threshold(distances, func(d float64) bool { return d < p.CollisionDistanceThreshold })},
		TimeToCollision:              [][][]float64{ttc},
		DistanceToRoadEdge:           [][][]float64{roadEdge},
		OffroadPerStep:               [][][]bool{threshold(roadEdge, func(d float64) bool { return d > p.OffroadDistanceThreshold })},
		TrafficLightViolationPerStep: [][][]bool{trimB(redLight)},
	})
}

// withLoggedSDC appends the logged self-driving car to objects when the
// variant conditions on it instead of simulating it. The row covers the same
// steps as objects, keeps its logged validity and is never evaluated.
func withLoggedSDC(sc *scenario.Scenario, v challenge.Variant, all, objects trajectory.ObjectTrajectories) (trajectory.ObjectTrajectories, error) {
	idx := sc.SDCTrackIndex()
	if v.EvaluatesSDC() || idx < 0 {
		return objects, nil
	}
	id := sc.Tracks[idx].ID
	if _, ok := objects.IndexOf(id); ok {
		return objects, nil
	}
	sdc, err := all.GatherObjectsByID([]int{id})
	if err != nil {
		return objects, err
	}
	n := objects.NumSteps()
	if have := sdc.NumSteps(); have < n {
		return objects, fmt.Errorf("self-driving car %d: log has %d steps, need %d", id, have, n)
	}
	return objects.Append(sdc.SliceSteps(0, n)), nil
}

// evaluationFirst returns evalIDs followed by the remaining IDs of all in
// their original order.
func evaluationFirst(evalIDs, all []int) []int {
	seen := make(map[int]struct{}, len(evalIDs))
	out := make([]int, 0, len(all))
	for _, id := range evalIDs {
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range all {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func threshold(x [][]float64, pred func(float64) bool) [][]bool {
	out := make([][]bool, len(x))
	for i, row := range x {
		out[i] = make([]bool, len(row))
		for t, v := range row {
			out[i][t] = pred(v)
		}
	}
	return out
}
