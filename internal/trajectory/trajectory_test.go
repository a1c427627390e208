package trajectory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/submission"
	"github.com/banshee-data/simagents/internal/testutil"
	"github.com/banshee-data/simagents/internal/trajectory"
)

func TestFromScenario(t *testing.T) {
	t.Parallel()

	sc := testutil.NewScenario()
	o := trajectory.FromScenario(sc)
	require.Equal(t, testutil.NumTracks, o.NumObjects())
	assert.Equal(t, testutil.NumSteps, o.NumSteps())
	assert.Equal(t, testutil.TrackID(0), o.ObjectID[0])
	assert.Equal(t, sc.Tracks[3].Type, o.ObjectType[3])
	assert.False(t, o.Valid[testutil.BoundaryTrackIndex][testutil.CurrentTimeIndex-1])
	assert.InDelta(t, sc.Tracks[7].States[30].CenterX, o.X[7][30], 0)

	idx, ok := o.IndexOf(testutil.TrackID(42))
	assert.True(t, ok)
	assert.Equal(t, 42, idx)
	_, ok = o.IndexOf(-1)
	assert.False(t, ok)

	assert.Zero(t, trajectory.ObjectTrajectories{}.NumSteps())
}

func TestGatherObjectsByID(t *testing.T) {
	t.Parallel()

	o := trajectory.FromScenario(testutil.NewScenario())
	ids := []int{testutil.TrackID(9), testutil.TrackID(2), testutil.TrackID(9), testutil.TrackID(70)}

	got, err := o.GatherObjectsByID(ids)
	require.NoError(t, err)
	assert.Equal(t, ids, got.ObjectID)
	assert.Equal(t, o.X[9], got.X[0])
	assert.Equal(t, o.X[9], got.X[2])
	assert.Equal(t, o.Valid[70], got.Valid[3])

	got, err = o.GatherObjectsByID(nil)
	require.NoError(t, err)
	assert.Zero(t, got.NumObjects())
}

func TestGatherObjectsByID_Missing(t *testing.T) {
	t.Parallel()

	o := trajectory.FromScenario(testutil.NewScenario())
	_, err := o.GatherObjectsByID([]int{testutil.TrackID(1), 31337})
	require.Error(t, err)
	assert.True(t, errors.Is(err, trajectory.ErrObjectNotFound))
	assert.Contains(t, err.Error(), "31337")
}

func TestSliceSteps(t *testing.T) {
	t.Parallel()

	o := trajectory.FromScenario(testutil.NewScenario())
	s := o.SliceSteps(testutil.CurrentTimeIndex+1, testutil.NumSteps)
	assert.Equal(t, o.NumObjects(), s.NumObjects())
	assert.Equal(t, testutil.NumSteps-testutil.CurrentTimeIndex-1, s.NumSteps())
	assert.Equal(t, o.X[4][testutil.CurrentTimeIndex+1], s.X[4][0])
	assert.Equal(t, o.ObjectID, s.ObjectID)
}

func TestAppend(t *testing.T) {
	t.Parallel()

	o := trajectory.FromScenario(testutil.NewScenario())
	head, err := o.GatherObjectsByID([]int{testutil.TrackID(2), testutil.TrackID(7)})
	require.NoError(t, err)
	tail, err := o.GatherObjectsByID([]int{testutil.TrackID(0)})
	require.NoError(t, err)

	joined := head.Append(tail)
	assert.Equal(t, []int{testutil.TrackID(2), testutil.TrackID(7), testutil.TrackID(0)}, joined.ObjectID)
	assert.Equal(t, o.NumSteps(), joined.NumSteps())
	assert.Equal(t, o.X[0], joined.X[2])
	assert.Equal(t, o.Valid[7], joined.Valid[1])
	assert.Equal(t, 2, head.NumObjects(), "receiver is unchanged")

	i, ok := joined.IndexOf(testutil.TrackID(0))
	assert.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestFromJointScene_MergesHistory(t *testing.T) {
	t.Parallel()

	sc := testutil.NewScenario()
	js := testutil.JointScene(sc, challenge.SimAgents)
	// Perturb one object's future so the merge is observable.
	js.Trajectories[1].CenterY[0] += 1

	o, err := trajectory.FromJointScene(js, sc, challenge.SimAgents, false)
	require.NoError(t, err)
	require.Equal(t, testutil.NumSimAgents, o.NumObjects())
	assert.Equal(t, js.ObjectIDs(), o.ObjectID)
	assert.Equal(t, testutil.NumSteps, o.NumSteps())

	cti := testutil.CurrentTimeIndex
	track := sc.Tracks[1]
	assert.Equal(t, track.States[cti].CenterY, o.Y[1][cti])
	assert.Equal(t, track.States[cti+1].CenterY+1, o.Y[1][cti+1])
	for s := range o.Length[1] {
		assert.Equal(t, track.States[cti].Length, o.Length[1][s])
	}
	assert.Equal(t, track.Type, o.ObjectType[1])
}

func TestFromJointScene_Validity(t *testing.T) {
	t.Parallel()

	sc := testutil.NewScenario()
	// Invalidate a logged future step of the boundary track.
	sc.Tracks[testutil.BoundaryTrackIndex].States[50].Valid = false
	js := testutil.JointScene(sc, challenge.SimAgents)
	row := testutil.BoundaryTrackIndex

	sim, err := trajectory.FromJointScene(js, sc, challenge.SimAgents, false)
	require.NoError(t, err)
	assert.False(t, sim.Valid[row][testutil.CurrentTimeIndex-1], "history validity comes from the log")
	assert.True(t, sim.Valid[row][50], "simulated steps are valid")

	logged, err := trajectory.FromJointScene(js, sc, challenge.SimAgents, true)
	require.NoError(t, err)
	assert.False(t, logged.Valid[row][testutil.CurrentTimeIndex-1])
	assert.False(t, logged.Valid[row][50])
	assert.True(t, logged.Valid[row][51])
}

func TestFromJointScene_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown object", func(t *testing.T) {
		t.Parallel()
		sc := testutil.NewScenario()
		js := testutil.JointScene(sc, challenge.SimAgents)
		js.Trajectories[0].ObjectID = 99999
		_, err := trajectory.FromJointScene(js, sc, challenge.SimAgents, false)
		assert.True(t, errors.Is(err, trajectory.ErrObjectNotFound))
	})

	t.Run("ragged series", func(t *testing.T) {
		t.Parallel()
		sc := testutil.NewScenario()
		js := testutil.JointScene(sc, challenge.SimAgents)
		js.Trajectories[0].Heading = js.Trajectories[0].Heading[:3]
		_, err := trajectory.FromJointScene(js, sc, challenge.SimAgents, false)
		assert.Error(t, err)
	})

	t.Run("short history", func(t *testing.T) {
		t.Parallel()
		sc := &scenario.Scenario{Tracks: []scenario.Track{testutil.StraightTrack(1, 4, 0, 0, 1, 0, 0, 4, 2)}}
		js := submission.JointScene{Trajectories: []submission.SimulatedTrajectory{{
			ObjectID: 1, CenterX: []float64{1}, CenterY: []float64{0}, CenterZ: []float64{0}, Heading: []float64{0},
		}}}
		_, err := trajectory.FromJointScene(js, sc, challenge.SimAgents, false)
		assert.Error(t, err)
	})

	t.Run("unsupported challenge", func(t *testing.T) {
		t.Parallel()
		sc := testutil.NewScenario()
		_, err := trajectory.FromJointScene(submission.JointScene{}, sc, challenge.Type(9), false)
		assert.True(t, errors.Is(err, challenge.ErrUnsupportedChallenge))
	})
}
