// Package dynamo provides the core data model for planetary simulation.
//
// The package defines the values every other package passes around:
//
//   - [Body]: a simulated sphere with mass, density and kinematic state
//   - [Registry]: the ordered set of live bodies at a given tick
//   - [Interaction]: one entry of the per-tick pairwise force table
//   - [Energy]: kinetic and potential totals of a registry
//   - [StepResult]: everything a single engine tick produces
//
// # Ownership
//
// A Registry is owned by whoever holds it. The engine receives a snapshot,
// clones it and hands back a new one, so callers never observe a registry
// being mutated underneath them. Use [Registry.Clone] before sharing one
// between goroutines.
//
// # Example
//
//	reg := dynamo.Registry{sun, earth}
//	res := engine.Step(reg, physics.DefaultConfig())
//	reg = res.Bodies
package dynamo
