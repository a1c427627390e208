package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simagents/internal/challenge"
)

func TestNewScenario_Shape(t *testing.T) {
	t.Parallel()

	sc := NewScenario()
	require.Len(t, sc.Tracks, NumTracks)
	assert.Equal(t, SDCTrackIndex, sc.SDCTrackIndex())

	valid := 0
	for _, tr := range sc.Tracks {
		require.Len(t, tr.States, NumSteps)
		if tr.ValidAt(CurrentTimeIndex) {
			valid++
		}
	}
	assert.Equal(t, NumSimAgents, valid)
	assert.False(t, sc.Tracks[BoundaryTrackIndex].ValidAt(CurrentTimeIndex-1))
	assert.True(t, sc.Tracks[BoundaryTrackIndex].ValidAt(CurrentTimeIndex))
	assert.False(t, sc.Tracks[60].ValidAt(CurrentTimeIndex))
	assert.Len(t, sc.DynamicMapStates, NumSteps)
	assert.Len(t, sc.RoadEdges(), 2)
}

func TestSimulatedTrajectories_MatchLog(t *testing.T) {
	t.Parallel()

	sc := NewScenario()
	trajs := SimulatedTrajectories(sc, challenge.SimAgents, 80)
	require.Len(t, trajs, NumSimAgents)

	byID := make(map[int]int)
	for i, tr := range sc.Tracks {
		byID[tr.ID] = i
	}
	for _, traj := range trajs {
		tr := sc.Tracks[byID[traj.ObjectID]]
		for k := range traj.CenterX {
			s := CurrentTimeIndex + 1 + k
			assert.InDelta(t, tr.States[s].CenterX, traj.CenterX[k], 1e-9)
			assert.InDelta(t, tr.States[s].CenterY, traj.CenterY[k], 1e-9)
		}
	}
}

func TestScenarioRollouts(t *testing.T) {
	t.Parallel()

	sc := NewScenario()
	sr := ScenarioRollouts(sc, challenge.ScenarioGen)
	assert.Equal(t, sc.ID, sr.ScenarioID)
	assert.Len(t, sr.JointScenes, 32)
	assert.Len(t, sr.JointScenes[0].Trajectories, NumSimAgents-1)
}

func TestAlmostEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, AlmostEqual(1, 1+1e-10, 1e-9))
	assert.False(t, AlmostEqual(1, 1.1, 1e-9))
	assert.True(t, AlmostEqual(math.NaN(), math.NaN(), 0))
	assert.False(t, AlmostEqual(math.NaN(), 0, 1))
}
