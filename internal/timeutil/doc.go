// Package timeutil provides a testable abstraction over the wall clock used
// to time feature computations.
//
// Dependency rule: timeutil imports only the standard library.
package timeutil
