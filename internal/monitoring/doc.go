// Package monitoring holds the diagnostic logging hooks shared by the
// feature pipeline and the evaluator: a swappable printf-style Logf and a
// leveled slog constructor.
//
// Dependency rule: monitoring is a leaf package.
package monitoring
