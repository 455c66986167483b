package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"github.com/san-kum/starmaker/internal/sim"
	"github.com/san-kum/starmaker/internal/viz"
	"gonum.org/v1/gonum/spatial/r2"
)

const background = "#0a0a0a"

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dotsX, dotsY := canvas.Dots()
	width := float64(dotsX) * scale
	height := float64(dotsY) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, physics.DefaultColor)

	dotRadius := scale * 0.4
	for y := 0; y < dotsY; y++ {
		for x := 0; x < dotsX; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Track is the recorded path of one body.
type Track struct {
	ID     string
	Color  string
	Points []r2.Vec
	// Radius is the visual radius of a surviving body; 0 if it was merged
	// away before the end of the run.
	Radius float64
}

// Tracks pairs each recorded path of res with its body's color. Colors come
// from the final registry, then initial; anything else gets the default.
func Tracks(initial dynamo.Registry, res *sim.Result) []Track {
	colors := make(map[string]string, len(initial)+len(res.Final))
	for _, b := range initial {
		colors[b.ID] = b.Color.Hex()
	}
	radii := make(map[string]float64, len(res.Final))
	for _, b := range res.Final {
		colors[b.ID] = b.Color.Hex()
		radii[b.ID] = b.Radius.Visual
	}

	tracks := make([]Track, 0, len(res.Paths))
	for id, pts := range res.Paths {
		color, ok := colors[id]
		if !ok {
			color = physics.DefaultColor
		}
		tracks = append(tracks, Track{ID: id, Color: color, Points: pts, Radius: radii[id]})
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })
	return tracks
}

type bounds struct {
	minX, minY, rangeX, rangeY float64
}

func trackBounds(tracks []Track) (bounds, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, t := range tracks {
		for _, p := range t.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return bounds{}, false
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	return bounds{minX: minX, minY: minY, rangeX: rangeX * 1.2, rangeY: rangeY * 1.2}, true
}

// TrajectoryToSVG draws every track on a shared frame. World y grows
// downwards like the screen, so no flip is applied. Surviving bodies get a
// filled disc at their last position.
func TrajectoryToSVG(tracks []Track, width, height int) string {
	b, ok := trackBounds(tracks)
	if !ok {
		return ""
	}
	sx := float64(width) / b.rangeX
	sy := float64(height) / b.rangeY
	at := func(p r2.Vec) (float64, float64) {
		return (p.X - b.minX) * sx, (p.Y - b.minY) * sy
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for _, t := range tracks {
		if len(t.Points) >= 2 {
			fmt.Fprintf(&sb, `<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, t.ID, t.Color)
			for i, p := range t.Points {
				x, y := at(p)
				if i == 0 {
					fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		if t.Radius > 0 && len(t.Points) > 0 {
			x, y := at(t.Points[len(t.Points)-1])
			r := math.Max(1, t.Radius*math.Min(sx, sy))
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, r, t.Color)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
