package dynamo

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque display attribute. The engine only touches it when
// blending two bodies during a merge.
type Color struct {
	R, G, B uint8
}

// ParseColor accepts "#rrggbb" and CSS style "hsl(h, s%, l%)".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "hsl(") {
		var h, sat, l float64
		if _, err := fmt.Sscanf(s, "hsl(%g, %g%%, %g%%)", &h, &sat, &l); err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return HSL(h, sat/100, l/100), nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HSL builds a color from hue in degrees and saturation/lightness in [0, 1].
func HSL(h, s, l float64) Color {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Blend returns the per-channel rounded mean of two colors.
func Blend(a, b Color) Color {
	mean := func(x, y uint8) uint8 {
		return uint8(math.Round((float64(x) + float64(y)) / 2))
	}
	return Color{R: mean(a.R, b.R), G: mean(a.G, b.G), B: mean(a.B, b.B)}
}

// Hex renders the color as a lowercase, zero-padded "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
