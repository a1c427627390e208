package submission

// SimulatedTrajectory is one object's proposed future. Box dimensions and
// object type are inherited from the scenario.
type SimulatedTrajectory struct {
	ObjectID int
	CenterX  []float64
	CenterY  []float64
	CenterZ  []float64
	Heading  []float64
}

// NumSteps returns the length of the x series. Use Lengths when the series
// might disagree.
func (t SimulatedTrajectory) NumSteps() int { return len(t.CenterX) }

// Lengths returns the lengths of the x, y, z and heading series.
func (t SimulatedTrajectory) Lengths() [4]int {
	return [4]int{len(t.CenterX), len(t.CenterY), len(t.CenterZ), len(t.Heading)}
}

// JointScene is one rollout: a trajectory for every sim agent.
type JointScene struct {
	Trajectories []SimulatedTrajectory
}

// ObjectIDs returns the trajectory object IDs in scene order.
func (js JointScene) ObjectIDs() []int {
	ids := make([]int, len(js.Trajectories))
	for i, t := range js.Trajectories {
		ids[i] = t.ObjectID
	}
	return ids
}

// ScenarioRollouts is the full submission for one scenario.
type ScenarioRollouts struct {
	ScenarioID  string
	JointScenes []JointScene
}
