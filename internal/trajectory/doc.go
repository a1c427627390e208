// Package trajectory holds column-oriented object trajectories and the
// alignment steps that turn a scenario and a joint scene into them: gather by
// object ID, and merge logged history with a simulated future.
//
// Dependency rule: trajectory may import scenario, submission and challenge.
package trajectory
