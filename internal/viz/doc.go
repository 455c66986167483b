// Package viz renders a running planetary system in the terminal.
//
// The live view is a Bubble Tea program: a braille [Canvas] shows bodies,
// trails and optional force arrows through a pan/zoom camera, next to an
// info panel with the energy chart and system totals.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	.      - Single tick while paused
//	r      - Reset bodies
//	+/-    - Zoom
//	Arrows - Pan
//	c/t/f  - Toggle collisions, trails, force arrows
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
