package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/banshee-data/simagents/internal/config"
	"github.com/banshee-data/simagents/internal/features"
	"github.com/banshee-data/simagents/internal/metrics"
	"github.com/banshee-data/simagents/internal/monitoring"
	"github.com/banshee-data/simagents/internal/submission"
	"github.com/banshee-data/simagents/internal/timeutil"
	"github.com/banshee-data/simagents/internal/version"
)

// Evaluator validates submissions and computes their features with one
// configuration. It is safe for concurrent use.
type Evaluator struct {
	cfg      *config.Config
	params   features.Params
	logger   *slog.Logger
	recorder *metrics.Recorder
	clock    timeutil.Clock
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger replaces the default stderr logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithRecorder enables Prometheus metrics.
func WithRecorder(r *metrics.Recorder) Option {
	return func(e *Evaluator) { e.recorder = r }
}

// WithClock replaces the wall clock used for timings.
func WithClock(c timeutil.Clock) Option {
	return func(e *Evaluator) { e.clock = c }
}

// New returns an Evaluator. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Evaluator {
	e := &Evaluator{cfg: cfg, params: cfg.FeatureParams(), clock: timeutil.RealClock{}}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = monitoring.NewLogger(cfg.GetLogLevel(), os.Stderr)
	}
	return e
}

// Result is the outcome of one scenario evaluation.
type Result struct {
	RunID      uuid.UUID
	Version    string
	ScenarioID string
	Challenge  ChallengeType
	Log        *MetricFeatures // One sample, logged validity
	Sim        *MetricFeatures // One sample per rollout, in submission order
	LogSummary Summary
	SimSummary Summary
}

// ValidateJointScene checks a single joint scene against the scenario.
func (e *Evaluator) ValidateJointScene(js JointScene, sc *Scenario, t ChallengeType) error {
	err := submission.ValidateJointScene(js, sc, t)
	e.recordValidation(sc, t, err)
	return err
}

// ValidateScenarioRollouts checks a full scenario submission.
func (e *Evaluator) ValidateScenarioRollouts(sr ScenarioRollouts, sc *Scenario, t ChallengeType) error {
	err := submission.ValidateScenarioRollouts(sr, sc, t)
	e.recordValidation(sc, t, err)
	return err
}

func (e *Evaluator) recordValidation(sc *Scenario, t ChallengeType, err error) {
	switch {
	case err == nil:
		e.recorder.RecordValidation("")
	case errors.Is(err, submission.ErrValidation):
		kind := submission.KindOf(err)
		e.recorder.RecordValidation(string(kind))
		e.logger.Info("submission rejected", "scenario", sc.ID, "challenge", t.String(), "kind", string(kind), "error", err)
	default:
		e.logger.Error("validation could not run", "scenario", sc.ID, "challenge", t.String(), "error", err)
	}
}

// ComputeMetricFeatures computes the features of one joint scene without
// validating it.
func (e *Evaluator) ComputeMetricFeatures(sc *Scenario, js JointScene, t ChallengeType, useLogValidity bool) (*MetricFeatures, error) {
	start := e.clock.Now()
	m, err := features.ComputeMetricFeatures(sc, js, t, useLogValidity, e.params)
	if err != nil {
		return nil, err
	}
	source := features.SourceSim
	if useLogValidity {
		source = features.SourceLog
	}
	e.recorder.ObserveFeatureComputation(source, e.clock.Since(start))
	return m, nil
}

// ComputeScenarioRolloutsFeatures validates a scenario submission, then
// computes the logged features and the features of every rollout.
func (e *Evaluator) ComputeScenarioRolloutsFeatures(ctx context.Context, sc *Scenario, sr ScenarioRollouts, t ChallengeType) (*Result, error) {
	if err := e.ValidateScenarioRollouts(sr, sc, t); err != nil {
		return nil, err
	}

	runID := uuid.New()
	logger := e.logger.With("run", runID.String(), "version", version.String(), "scenario", sc.ID, "challenge", t.String())
	start := e.clock.Now()
	logFeatures, simFeatures, err := features.ComputeScenarioRolloutsFeatures(ctx, sc, sr, t,
		features.WithParams(e.params),
		features.WithWorkers(e.cfg.GetWorkers()),
		features.WithObserver(e.recorder.ObserveFeatureComputation),
		features.WithClock(e.clock),
		features.WithLogf(monitoring.SlogPrintf(logger, slog.LevelWarn)),
	)
	if err != nil {
		logger.Error("feature computation failed", "error", err)
		return nil, fmt.Errorf("scenario %s: %w", sc.ID, err)
	}
	e.recorder.AddRollouts(simFeatures.NumSamples())

	res := &Result{
		RunID:      runID,
		Version:    version.Version,
		ScenarioID: sc.ID,
		Challenge:  t,
		Log:        logFeatures,
		Sim:        simFeatures,
		LogSummary: features.Summarize(logFeatures),
		SimSummary: features.Summarize(simFeatures),
	}
	logger.Debug("features computed",
		"objects", simFeatures.NumObjects(),
		"rollouts", simFeatures.NumSamples(),
		"steps", simFeatures.NumSteps(),
		"elapsed", e.clock.Since(start),
		"sim_collision_rate", res.SimSummary.CollisionRate,
		"sim_offroad_rate", res.SimSummary.OffroadRate,
	)
	return res, nil
}
