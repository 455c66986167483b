// Package analysis characterizes simulated orbits.
//
//   - [PowerSpectrum] and [DominantPeriod]: periodicity of a sampled series
//   - [TrackOrbit]: radius history, apsides and eccentricity of one body
//   - [LyapunovExponent]: sensitivity of a system to a small displacement
//   - [SpeedSweep]: orbit shape as a function of launch speed
//   - [PortraitToASCII]: radius against radial velocity as text
//
// # Period detection
//
// The orbital radius of an eccentric orbit oscillates once per revolution:
//
//	orbit := analysis.TrackOrbit(paths["earth"], paths["sun"], dt)
//	period, ok := analysis.DominantPeriod(orbit.Radii, dt)
package analysis
