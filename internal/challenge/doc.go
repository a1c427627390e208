// Package challenge owns the per-variant constants of the sim-agent
// benchmark: simulation horizon, rollout count, current time index, step
// duration and the sim-agent eligibility rule.
//
// Every branch on the challenge variant goes through the Variant interface.
// A new variant must implement all of its methods before it compiles, so no
// caller can silently fall through to another variant's behaviour.
//
// Dependency rule: challenge may depend on scenario only.
package challenge
