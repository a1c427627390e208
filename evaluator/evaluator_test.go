package evaluator_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simagents/evaluator"
	"github.com/banshee-data/simagents/internal/monitoring"
	fixtures "github.com/banshee-data/simagents/internal/testutil"
	"github.com/banshee-data/simagents/internal/timeutil"
	"github.com/banshee-data/simagents/internal/version"
)

func newEvaluator(t *testing.T) (*evaluator.Evaluator, *prometheus.Registry, *bytes.Buffer) {
	t.Helper()
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	e := evaluator.New(nil,
		evaluator.WithLogger(monitoring.NewLogger("debug", &buf)),
		evaluator.WithRecorder(evaluator.NewRecorder(reg)),
	)
	return e, reg, &buf
}

func counter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestEvaluator_ComputeScenarioRolloutsFeatures(t *testing.T) {
	t.Parallel()

	e, reg, logs := newEvaluator(t)
	sc := fixtures.NewScenario()
	res, err := e.ComputeScenarioRolloutsFeatures(context.Background(), sc, fixtures.ScenarioRollouts(sc, evaluator.SimAgents), evaluator.SimAgents)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, version.Version, res.Version)
	assert.Equal(t, fixtures.ScenarioID, res.ScenarioID)
	assert.Equal(t, 1, res.Log.NumSamples())
	assert.Equal(t, 32, res.Sim.NumSamples())
	assert.Equal(t, res.Log.ObjectID, res.Sim.ObjectID)
	assert.Equal(t, 32, res.SimSummary.Samples)
	assert.Zero(t, res.SimSummary.CollisionRate)
	assert.InDelta(t, fixtures.CruiseSpeed, res.LogSummary.MeanSpeed, 1e-6)

	assert.Equal(t, 1.0, counter(t, reg, "simagents_validations_total", map[string]string{"result": "ok"}))
	assert.Equal(t, 32.0, counter(t, reg, "simagents_rollouts_processed_total", nil))
	assert.Contains(t, logs.String(), "features computed")
	assert.Contains(t, logs.String(), res.RunID.String())
	assert.Contains(t, logs.String(), version.String())
}

func TestEvaluator_AggregationDiagnosticsUseLogger(t *testing.T) {
	t.Parallel()

	sc := fixtures.NewScenario()
	sr := fixtures.ScenarioRollouts(sc, evaluator.SimAgents)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var debug bytes.Buffer
	e := evaluator.New(nil, evaluator.WithLogger(monitoring.NewLogger("debug", &debug)))
	_, err := e.ComputeScenarioRolloutsFeatures(ctx, sc, sr, evaluator.SimAgents)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, debug.String(), "level=WARN")
	assert.Contains(t, debug.String(), "aborting feature aggregation")
	assert.Contains(t, debug.String(), "run=")

	var quiet bytes.Buffer
	e = evaluator.New(nil, evaluator.WithLogger(monitoring.NewLogger("error", &quiet)))
	_, err = e.ComputeScenarioRolloutsFeatures(ctx, sc, sr, evaluator.SimAgents)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, quiet.String(), "aborting feature aggregation")
	assert.Contains(t, quiet.String(), "feature computation failed")
}

func TestEvaluator_RejectsInvalidSubmission(t *testing.T) {
	t.Parallel()

	e, reg, logs := newEvaluator(t)
	sc := fixtures.NewScenario()
	sr := fixtures.ScenarioRollouts(sc, evaluator.SimAgents)
	sr.JointScenes = sr.JointScenes[:10]

	res, err := e.ComputeScenarioRolloutsFeatures(context.Background(), sc, sr, evaluator.SimAgents)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, evaluator.ErrValidation))
	var ve *evaluator.ValidationError
	require.True(t, errors.As(err, &ve))

	assert.Equal(t, 1.0, counter(t, reg, "simagents_validations_total", map[string]string{"result": "failed"}))
	assert.Equal(t, 1.0, counter(t, reg, "simagents_validation_failures_total", map[string]string{"kind": string(ve.Kind)}))
	assert.Contains(t, logs.String(), "submission rejected")
}

func TestEvaluator_ValidateJointScene(t *testing.T) {
	t.Parallel()

	e, reg, _ := newEvaluator(t)
	sc := fixtures.NewScenario()
	js := fixtures.JointScene(sc, evaluator.ScenarioGen)
	require.NoError(t, e.ValidateJointScene(js, sc, evaluator.ScenarioGen))

	err := e.ValidateJointScene(js, sc, evaluator.SimAgents)
	assert.True(t, errors.Is(err, evaluator.ErrValidation), "ScenarioGen scenes omit the SDC")

	err = e.ValidateJointScene(js, sc, evaluator.ChallengeType(42))
	assert.True(t, errors.Is(err, evaluator.ErrUnsupportedChallenge))
	assert.Equal(t, 1.0, counter(t, reg, "simagents_validations_total", map[string]string{"result": "failed"}))
}

func TestEvaluator_ComputeMetricFeatures(t *testing.T) {
	t.Parallel()

	sc := fixtures.NewScenario()
	e := evaluator.New(nil, evaluator.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	m, err := e.ComputeMetricFeatures(sc, fixtures.JointScene(sc, evaluator.SimAgents), evaluator.SimAgents, false)
	require.NoError(t, err)
	ids, err := evaluator.EvaluationSimAgentIDs(sc, evaluator.SimAgents)
	require.NoError(t, err)
	assert.Equal(t, ids, m.ObjectID)
}

func TestEvaluator_ObservesComputationTime(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	clock := timeutil.NewSteppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 50*time.Millisecond)
	e := evaluator.New(nil,
		evaluator.WithLogger(monitoring.NewLogger("error", &bytes.Buffer{})),
		evaluator.WithRecorder(evaluator.NewRecorder(reg)),
		evaluator.WithClock(clock),
	)

	sc := fixtures.NewScenario()
	_, err := e.ComputeMetricFeatures(sc, fixtures.JointScene(sc, evaluator.SimAgents), evaluator.SimAgents, true)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "simagents_feature_computation_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			require.Len(t, m.GetLabel(), 1)
			assert.Equal(t, "log", m.GetLabel()[0].GetValue())
			assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
			assert.InDelta(t, 0.05, m.GetHistogram().GetSampleSum(), 1e-9)
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvaluator_UsesConfig(t *testing.T) {
	t.Parallel()

	// A huge collision threshold flags every step of every object.
	threshold := 100.0
	workers := 2
	cfg := &evaluator.Config{CollisionDistanceThreshold: &threshold, Workers: &workers}
	e := evaluator.New(cfg, evaluator.WithLogger(monitoring.NewLogger("error", &bytes.Buffer{})))

	sc := fixtures.NewScenario()
	res, err := e.ComputeScenarioRolloutsFeatures(context.Background(), sc, fixtures.ScenarioRollouts(sc, evaluator.SimAgents), evaluator.SimAgents)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.SimSummary.CollisionRate)
}
