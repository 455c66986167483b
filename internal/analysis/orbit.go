package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Orbit is the relative motion of a body around a primary.
type Orbit struct {
	Radii        []float64
	RadialSpeeds []float64
	Periapsis    float64
	Apoapsis     float64
}

// TrackOrbit measures body relative to primary at each common sample.
// Radial speeds are central differences over dt.
func TrackOrbit(body, primary []r2.Vec, dt float64) Orbit {
	n := len(body)
	if len(primary) < n {
		n = len(primary)
	}

	o := Orbit{Radii: make([]float64, n), RadialSpeeds: make([]float64, n)}
	if n == 0 {
		return o
	}

	o.Periapsis, o.Apoapsis = math.Inf(1), 0
	for i := 0; i < n; i++ {
		r := r2.Norm(r2.Sub(body[i], primary[i]))
		o.Radii[i] = r
		o.Periapsis = math.Min(o.Periapsis, r)
		o.Apoapsis = math.Max(o.Apoapsis, r)
	}

	if n > 1 && dt > 0 {
		for i := 0; i < n; i++ {
			lo, hi := i-1, i+1
			if lo < 0 {
				lo = 0
			}
			if hi >= n {
				hi = n - 1
			}
			o.RadialSpeeds[i] = (o.Radii[hi] - o.Radii[lo]) / (float64(hi-lo) * dt)
		}
	}

	return o
}

// Eccentricity estimated from the apsides.
func (o Orbit) Eccentricity() float64 {
	if o.Apoapsis+o.Periapsis == 0 {
		return 0
	}
	return (o.Apoapsis - o.Periapsis) / (o.Apoapsis + o.Periapsis)
}

// PortraitToASCII plots radius (x) against radial speed (y) in a
// width x height character grid.
func PortraitToASCII(o Orbit, width, height int) string {
	if len(o.Radii) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := o.Radii[0], o.Radii[0]
	minY, maxY := o.RadialSpeeds[0], o.RadialSpeeds[0]
	for i := range o.Radii {
		minX = math.Min(minX, o.Radii[i])
		maxX = math.Max(maxX, o.Radii[i])
		minY = math.Min(minY, o.RadialSpeeds[i])
		maxY = math.Max(maxY, o.RadialSpeeds[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for i := range o.Radii {
		col := int((o.Radii[i] - minX) / rangeX * float64(width-1))
		row := height - 1 - int((o.RadialSpeeds[i]-minY)/rangeY*float64(height-1))
		grid[row][col] = '•'
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}
