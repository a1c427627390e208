// Package metrics exposes Prometheus collectors for validation outcomes,
// processed rollouts and feature computation latency.
//
// Dependency rule: metrics is a leaf package.
package metrics
