package features

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/monitoring"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/submission"
	"github.com/banshee-data/simagents/internal/timeutil"
)

// ErrMisalignedObjects is returned when a rollout's evaluated objects differ
// from the logged ones.
var ErrMisalignedObjects = errors.New("misaligned object IDs for evaluation")

// Feature sources reported to an Observer.
const (
	SourceLog = "log"
	SourceSim = "sim"
)

// Observer receives the duration of each feature computation. It is called
// concurrently from rollout workers.
type Observer func(source string, elapsed time.Duration)

type options struct {
	workers int
	params  Params
	observe Observer
	clock   timeutil.Clock
	logf    func(format string, v ...interface{})
}

// Option configures ComputeScenarioRolloutsFeatures.
type Option func(*options)

// WithWorkers bounds the number of rollouts computed concurrently. Values
// below 1 are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithParams overrides DefaultParams.
func WithParams(p Params) Option {
	return func(o *options) { o.params = p }
}

// WithObserver installs a timing callback.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observe = obs }
}

// WithClock replaces the wall clock used to time computations.
func WithClock(c timeutil.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogf routes aggregation diagnostics to f instead of monitoring.Logf.
func WithLogf(f func(format string, v ...interface{})) Option {
	return func(o *options) { o.logf = f }
}

// ComputeScenarioRolloutsFeatures computes the logged features (one sample,
// logged validity) and the simulated features of every joint scene (one
// sample per rollout, in submission order). Rollouts run concurrently; the
// first failure cancels the rest and is returned.
func ComputeScenarioRolloutsFeatures(ctx context.Context, sc *scenario.Scenario, sr submission.ScenarioRollouts, t challenge.Type, opts ...Option) (logFeatures, simFeatures *MetricFeatures, err error) {
	o := options{workers: runtime.NumCPU(), params: DefaultParams(), clock: timeutil.RealClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	logf := o.logf
	if logf == nil {
		logf = monitoring.Logf
	}
	observe := o.observe
	if observe == nil {
		observe = func(string, time.Duration) {}
	}

	logJS, err := submission.ScenarioToJointScene(sc, t)
	if err != nil {
		return nil, nil, fmt.Errorf("logged joint scene: %w", err)
	}
	start := o.clock.Now()
	logFeatures, err = ComputeMetricFeatures(sc, logJS, t, true, o.params)
	if err != nil {
		return nil, nil, fmt.Errorf("logged features: %w", err)
	}
	observe(SourceLog, o.clock.Since(start))

	rollouts := make([]*MetricFeatures, len(sr.JointScenes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range sr.JointScenes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := o.clock.Now()
			m, err := ComputeMetricFeatures(sc, sr.JointScenes[i], t, false, o.params)
			if err != nil {
				return fmt.Errorf("rollout %d: %w", i, err)
			}
			observe(SourceSim, o.clock.Since(start))
			if !slices.Equal(m.ObjectID, logFeatures.ObjectID) {
				return fmt.Errorf("rollout %d: %w", i, ErrMisalignedObjects)
			}
			rollouts[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logf("scenario %s: aborting feature aggregation: %v", sc.ID, err)
		return nil, nil, err
	}

	simFeatures, err = ConcatSamples(logFeatures.ObjectID, rollouts...)
	if err != nil {
		return nil, nil, err
	}
	return logFeatures, simFeatures, nil
}

// ConcatSamples stacks the samples of records in order. Every record must
// carry exactly objectIDs.
func ConcatSamples(objectIDs []int, records ...*MetricFeatures) (*MetricFeatures, error) {
	out := MetricFeatures{ObjectID: slices.Clone(objectIDs)}
	for i, r := range records {
		if !slices.Equal(r.ObjectID, objectIDs) {
			return nil, fmt.Errorf("record %d: %w", i, ErrMisalignedObjects)
		}
		out.ObjectType = append(out.ObjectType, r.ObjectType...)
		out.Valid = append(out.Valid, r.Valid...)
		out.AverageDisplacementError = append(out.AverageDisplacementError, r.AverageDisplacementError...)
		out.LinearSpeed = append(out.LinearSpeed, r.LinearSpeed...)
		out.LinearAcceleration = append(out.LinearAcceleration, r.LinearAcceleration...)
		out.AngularSpeed = append(out.AngularSpeed, r.AngularSpeed...)
		out.AngularAcceleration = append(out.AngularAcceleration, r.AngularAcceleration...)
		out.DistanceToNearestObject = append(out.DistanceToNearestObject, r.DistanceToNearestObject...)
		out.CollisionPerStep = append(out.CollisionPerStep, r.CollisionPerStep...)
		out.TimeToCollision = append(out.TimeToCollision, r.TimeToCollision...)
		out.DistanceToRoadEdge = append(out.DistanceToRoadEdge, r.DistanceToRoadEdge...)
		out.OffroadPerStep = append(out.OffroadPerStep, r.OffroadPerStep...)
		out.TrafficLightViolationPerStep = append(out.TrafficLightViolationPerStep, r.TrafficLightViolationPerStep...)
	}
	return newMetricFeatures(out)
}
