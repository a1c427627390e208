// Package scenario defines the read-only scenario record the evaluator
// consumes: object tracks, map features and dynamic traffic-signal states.
//
// Loading and schema ownership live outside this module; callers build these
// values from whatever storage format they use. Nothing in the evaluator
// mutates a Scenario after it is handed over.
//
// Dependency rule: scenario is a leaf package.
package scenario
