// Package evaluator is the public entry point for validating sim-agent
// submissions and extracting their metric features. It re-exports the types
// a scorer needs, so callers do not import internal packages.
package evaluator

import (
	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/config"
	"github.com/banshee-data/simagents/internal/features"
	"github.com/banshee-data/simagents/internal/metrics"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/submission"
)

// ── Challenge ────────────────────────────────────────────────────────

type ChallengeType = challenge.Type
type ChallengeConfig = challenge.Config

const (
	SimAgents   = challenge.SimAgents
	ScenarioGen = challenge.ScenarioGen
)

var ParseChallengeType = challenge.ParseType
var ChallengeTypes = challenge.Types
var ErrUnsupportedChallenge = challenge.ErrUnsupportedChallenge

// ── Scenario ─────────────────────────────────────────────────────────

type Scenario = scenario.Scenario
type Track = scenario.Track
type ObjectState = scenario.ObjectState
type ObjectType = scenario.ObjectType
type MapFeature = scenario.MapFeature
type MapPoint = scenario.MapPoint
type DynamicMapState = scenario.DynamicMapState

// ── Submission ───────────────────────────────────────────────────────

type SimulatedTrajectory = submission.SimulatedTrajectory
type JointScene = submission.JointScene
type ScenarioRollouts = submission.ScenarioRollouts
type ValidationError = submission.ValidationError

var ErrValidation = submission.ErrValidation
var SimAgentIDs = submission.SimAgentIDs
var EvaluationSimAgentIDs = submission.EvaluationSimAgentIDs

// ── Features ─────────────────────────────────────────────────────────

type MetricFeatures = features.MetricFeatures
type Summary = features.Summary

var ErrMisalignedObjects = features.ErrMisalignedObjects

// ── Configuration and metrics ────────────────────────────────────────

type Config = config.Config
type Recorder = metrics.Recorder

var LoadConfig = config.Load
var NewRecorder = metrics.NewRecorder
