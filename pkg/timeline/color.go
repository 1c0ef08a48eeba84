package timeline

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxHue is the hue of an empty load (green). A load equal to the largest
// row count gets hue 0 (red).
const MaxHue = 120.0

// Color is an 8-bit RGB fill color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// MarshalText encodes the color as #rrggbb.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText decodes a #rrggbb color.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := colorful.Hex(string(b))
	if err != nil {
		return err
	}
	c.R, c.G, c.B = parsed.RGB255()
	return nil
}

// Hue maps value on the scale [0, maxRows] to a hue in [0, MaxHue] using
// floor((maxRows - value) * 120 / maxRows). A maxRows of zero maps to hue 0,
// the same hue as value == maxRows.
func Hue(maxRows, value int64) float64 {
	if maxRows <= 0 {
		return 0
	}
	h := math.Floor(float64(maxRows-value) * MaxHue / float64(maxRows))
	return math.Max(0, math.Min(MaxHue, h))
}

// ColorFor returns the fully saturated, fully bright color for value on the
// scale [0, maxRows].
func ColorFor(maxRows, value int64) Color {
	r, g, b := colorful.Hsv(Hue(maxRows, value), 1, 1).RGB255()
	return Color{R: r, G: g, B: b}
}
