// Package config holds the tunable thresholds of the evaluator. Values are
// layered from built-in defaults, an optional YAML file and SIMAGENTS_*
// environment variables.
//
// Dependency rule: config may import features (for Params) and monitoring.
package config
