package quantize

import (
	"github.com/setanarut/pixelsrc/colorspace"
)

// NearestColor returns the index of the palette entry that c maps to.
//
// A transparent c maps to the first transparent entry, or to index 0 when
// the palette has none; its RGB channels are ignored. An opaque c maps to
// the opaque entry at the smallest LAB distance, the first one on ties,
// or to index 0 when the palette is all transparent. An empty palette
// gives -1.
func NearestColor(c colorspace.Color, palette []colorspace.Color) int {
	return newMatcher(palette).nearest(c)
}

// Mapping assigns every color of h to its nearest palette index.
func Mapping(h Histogram, palette []colorspace.Color) map[colorspace.Color]int {
	pm := newMatcher(palette)
	m := make(map[colorspace.Color]int, len(h))
	for c := range h {
		m[c] = pm.nearest(c)
	}
	return m
}

// matcher caches the LAB values of a palette.
type matcher struct {
	palette []colorspace.Color
	labs    []colorspace.Lab
}

func newMatcher(palette []colorspace.Color) matcher {
	labs := make([]colorspace.Lab, len(palette))
	for i, p := range palette {
		labs[i] = p.Lab()
	}
	return matcher{palette: palette, labs: labs}
}

func (m matcher) nearest(c colorspace.Color) int {
	if len(m.palette) == 0 {
		return -1
	}
	if c.IsTransparent() {
		for i, p := range m.palette {
			if p.IsTransparent() {
				return i
			}
		}
		return 0
	}

	lab := c.Lab()
	best, bestDist := 0, -1.0
	for i, p := range m.palette {
		if p.IsTransparent() {
			continue
		}
		if d := lab.Distance(m.labs[i]); bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
