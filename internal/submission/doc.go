// Package submission owns the submission side of the benchmark: the
// JointScene and ScenarioRollouts records, sim-agent and evaluation object
// selection, and the structural validator that gates every submission before
// features are computed.
//
// Validation is all-or-nothing. The first violated contract is returned as a
// *ValidationError and nothing is partially accepted.
//
// Dependency rule: submission may depend on challenge and scenario.
package submission
