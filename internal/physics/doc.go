// Package physics is the planetary simulation engine.
//
// One tick is a pure function of the registry it is given:
//
//   - [AccumulateForces]: pairwise attraction with Newton's third law
//   - [Integrate]: fixed-step kick-drift-kick advance and trail sampling
//   - [ResolveCollisions]: perfectly inelastic, left-to-right merging
//   - [SystemEnergy]: kinetic and potential totals
//
// [Engine.Step] runs the four phases in that order on a clone of its input.
//
// # Units
//
// Positions are screen units, masses are kilograms and densities g/cm³.
// Forces use the tuned constant [GVisual] on masses expressed in Earth
// masses, so orbits look right on screen. The energy statistic uses the
// real constant [G] on distances divided by [ScaleFactor]; the two are not
// mutually consistent and the reported potential energy is a display value,
// not a quantity the integrator conserves.
//
//	eng := physics.NewEngine()
//	res := eng.Step(reg, physics.DefaultConfig())
//	fmt.Println(res.Energy.Kinetic, res.Energy.Potential)
package physics
