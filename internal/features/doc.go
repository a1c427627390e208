// Package features computes the per-object, per-step metric features of a
// joint scene (kinematics, object interaction, road-edge distance and
// red-light violations) and batches them across rollouts.
//
// ComputeMetricFeatures handles one joint scene; ComputeScenarioRolloutsFeatures
// computes the logged features once and every rollout concurrently, then
// concatenates the rollouts in submission order.
//
// Dependency rule: features may import geometry, trajectory, submission,
// scenario, challenge, timeutil and monitoring. It must not import config or metrics;
// thresholds arrive as Params and timings leave through an Observer.
package features
