package submission

import (
	"fmt"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/scenario"
)

// SimAgentIDs returns, in track order, the IDs of every track the variant
// requires a submission to simulate.
func SimAgentIDs(sc *scenario.Scenario, t challenge.Type) ([]int, error) {
	v, err := challenge.Lookup(t)
	if err != nil {
		return nil, err
	}
	return simAgentIDs(sc, v), nil
}

func simAgentIDs(sc *scenario.Scenario, v challenge.Variant) []int {
	ids := make([]int, 0, len(sc.Tracks))
	for i := range sc.Tracks {
		if v.IsValidSimAgent(sc.Tracks[i]) {
			ids = append(ids, sc.Tracks[i].ID)
		}
	}
	return ids
}

// EvaluationSimAgentIDs returns the IDs of the sim agents that are scored.
//
// For variants that nominate evaluation objects, these are the eligible
// tracks of TracksToPredict in nomination order, followed by the
// self-driving car when the variant always evaluates it. Repeated
// nominations collapse to one ID. Otherwise every sim agent is scored.
func EvaluationSimAgentIDs(sc *scenario.Scenario, t challenge.Type) ([]int, error) {
	v, err := challenge.Lookup(t)
	if err != nil {
		return nil, err
	}
	if !v.NominatesEvaluation() {
		return simAgentIDs(sc, v), nil
	}

	ids := make([]int, 0, len(sc.TracksToPredict)+1)
	seen := make(map[int]struct{}, len(sc.TracksToPredict)+1)
	add := func(id int) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, rp := range sc.TracksToPredict {
		if rp.TrackIndex < 0 || rp.TrackIndex >= len(sc.Tracks) {
			return nil, fmt.Errorf("tracks to predict: track index %d out of range [0, %d)", rp.TrackIndex, len(sc.Tracks))
		}
		track := sc.Tracks[rp.TrackIndex]
		if v.IsValidSimAgent(track) {
			add(track.ID)
		}
	}
	if v.EvaluatesSDC() {
		if idx := sc.SDCTrackIndex(); idx >= 0 {
			add(sc.Tracks[idx].ID)
		}
	}
	return ids, nil
}

// ScenarioToJointScene extracts the logged future of every sim agent as a
// JointScene, so logged data can go through the same feature path as a
// submission.
func ScenarioToJointScene(sc *scenario.Scenario, t challenge.Type) (JointScene, error) {
	v, err := challenge.Lookup(t)
	if err != nil {
		return JointScene{}, err
	}
	cfg := v.Config()
	start := cfg.CurrentTimeIndex + 1
	end := start + cfg.NSimulationSteps

	var js JointScene
	for i := range sc.Tracks {
		track := &sc.Tracks[i]
		if !v.IsValidSimAgent(*track) {
			continue
		}
		if len(track.States) < end {
			return JointScene{}, fmt.Errorf("track %d has %d states, need %d for the logged future", track.ID, len(track.States), end)
		}
		traj := SimulatedTrajectory{
			ObjectID: track.ID,
			CenterX:  make([]float64, 0, cfg.NSimulationSteps),
			CenterY:  make([]float64, 0, cfg.NSimulationSteps),
			CenterZ:  make([]float64, 0, cfg.NSimulationSteps),
			Heading:  make([]float64, 0, cfg.NSimulationSteps),
		}
		for _, s := range track.States[start:end] {
			traj.CenterX = append(traj.CenterX, s.CenterX)
			traj.CenterY = append(traj.CenterY, s.CenterY)
			traj.CenterZ = append(traj.CenterZ, s.CenterZ)
			traj.Heading = append(traj.Heading, s.Heading)
		}
		js.Trajectories = append(js.Trajectories, traj)
	}
	return js, nil
}
