// Package colorspace holds the RGBA color value used across the module and
// its CIE LAB view.
package colorspace

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied 8-bit RGBA value. Two colors are equal when
// all four channels match, so Color can key a map directly.
type Color color.NRGBA

// Transparent is the canonical fully transparent color.
var Transparent = Color{}

// FromColor converts any color.Color into a Color.
func FromColor(c color.Color) Color {
	return Color(color.NRGBAModel.Convert(c).(color.NRGBA))
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

// IsTransparent reports whether the alpha channel is zero.
func (c Color) IsTransparent() bool { return c.A == 0 }

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is not fully opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (c Color) String() string { return c.Hex() }

// ParseHex parses #RGB, #RRGGBB and #RRGGBBAA. The leading '#' is required
// and digits are case-insensitive.
func ParseHex(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("colorspace: %q: missing '#'", s)
	}
	switch len(s) {
	case 4, 7:
		cf, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("colorspace: %q: %w", s, err)
		}
		r, g, b := cf.RGB255()
		return Color{R: r, G: g, B: b, A: 255}, nil
	case 9:
		cf, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, fmt.Errorf("colorspace: %q: %w", s, err)
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("colorspace: %q: alpha: %w", s, err)
		}
		r, g, b := cf.RGB255()
		return Color{R: r, G: g, B: b, A: uint8(a)}, nil
	}
	return Color{}, fmt.Errorf("colorspace: %q: want 3, 6 or 8 hex digits", s)
}
