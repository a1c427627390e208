package submission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/submission"
	"github.com/banshee-data/simagents/internal/testutil"
)

func TestIsValidSimAgent_FixtureCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct           challenge.Type
		wantObjects  int
		wantEligible int
	}{
		{challenge.SimAgents, 83, 50},
		// The self-driving car is conditioning context in scenario
		// generation, so it drops out of the eligible set.
		{challenge.ScenarioGen, 83, 49},
	}
	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			sc := testutil.NewScenario()
			v, err := challenge.Lookup(tt.ct)
			require.NoError(t, err)

			assert.True(t, v.IsValidSimAgent(sc.Tracks[1]))
			assert.False(t, v.IsValidSimAgent(sc.Tracks[64]))

			eligible := 0
			for _, tr := range sc.Tracks {
				if v.IsValidSimAgent(tr) {
					eligible++
				}
			}
			assert.Len(t, sc.Tracks, tt.wantObjects)
			assert.Equal(t, tt.wantEligible, eligible)
		})
	}
}

func TestSimAgentIDs(t *testing.T) {
	t.Parallel()

	sc := testutil.NewScenario()
	ids, err := submission.SimAgentIDs(sc, challenge.SimAgents)
	require.NoError(t, err)
	require.Len(t, ids, testutil.NumSimAgents)
	for i, id := range ids {
		assert.Equal(t, testutil.TrackID(i), id, "track order must be preserved")
	}

	ids, err = submission.SimAgentIDs(sc, challenge.ScenarioGen)
	require.NoError(t, err)
	assert.Len(t, ids, testutil.NumSimAgents-1)
	assert.NotContains(t, ids, testutil.TrackID(testutil.SDCTrackIndex))

	_, err = submission.SimAgentIDs(sc, challenge.Type(9))
	assert.ErrorIs(t, err, challenge.ErrUnsupportedChallenge)
}

func TestEvaluationSimAgentIDs(t *testing.T) {
	t.Parallel()

	sc := testutil.NewScenario()
	ids, err := submission.EvaluationSimAgentIDs(sc, challenge.SimAgents)
	require.NoError(t, err)
	assert.Equal(t, []int{
		testutil.TrackID(1), testutil.TrackID(2), testutil.TrackID(5), testutil.TrackID(testutil.SDCTrackIndex),
	}, ids)

	ids, err = submission.EvaluationSimAgentIDs(sc, challenge.ScenarioGen)
	require.NoError(t, err)
	assert.Len(t, ids, testutil.NumSimAgents-1)
}

func TestEvaluationSimAgentIDs_NoRepetitions(t *testing.T) {
	t.Parallel()

	for _, ct := range []challenge.Type{challenge.SimAgents, challenge.ScenarioGen} {
		sc := testutil.NewScenario()
		sc.TracksToPredict = append(sc.TracksToPredict,
			scenario.RequiredPrediction{TrackIndex: sc.SDCTrackIndex()})

		ids, err := submission.EvaluationSimAgentIDs(sc, ct)
		require.NoError(t, err)
		seen := make(map[int]bool)
		for _, id := range ids {
			assert.False(t, seen[id], "%v: id %d repeated", ct, id)
			seen[id] = true
		}
	}
}

func TestEvaluationSimAgentIDs_BadTrackIndex(t *testing.T) {
	t.Parallel()

	sc := testutil.NewScenario()
	sc.TracksToPredict = append(sc.TracksToPredict, scenario.RequiredPrediction{TrackIndex: 500})
	_, err := submission.EvaluationSimAgentIDs(sc, challenge.SimAgents)
	assert.Error(t, err)
}

func TestScenarioToJointScene(t *testing.T) {
	t.Parallel()

	sc := testutil.NewScenario()
	js, err := submission.ScenarioToJointScene(sc, challenge.SimAgents)
	require.NoError(t, err)
	require.NoError(t, submission.ValidateJointScene(js, sc, challenge.SimAgents))

	first := js.Trajectories[0]
	assert.Equal(t, testutil.TrackID(0), first.ObjectID)
	assert.InDelta(t, sc.Tracks[0].States[11].CenterX, first.CenterX[0], 1e-12)
	assert.InDelta(t, sc.Tracks[0].States[90].CenterX, first.CenterX[79], 1e-12)

	sc.Tracks[0].States = sc.Tracks[0].States[:50]
	_, err = submission.ScenarioToJointScene(sc, challenge.SimAgents)
	assert.Error(t, err)
}
