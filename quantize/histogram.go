// Package quantize reduces an image's colors to a bounded palette.
//
// MedianCut is the default: it splits the color population in CIE LAB at
// pixel-weighted medians and represents every bucket by one of its own
// input colors, so palette entries always exist in the source image.
// KMeans and Dominant are alternative strategies with the same guarantee.
package quantize

import (
	"cmp"
	"image"
	"slices"

	"github.com/setanarut/pixelsrc/colorspace"
)

// Histogram counts pixels per exact color.
type Histogram map[colorspace.Color]int

// Entry is one histogram bucket.
type Entry struct {
	Color colorspace.Color
	Count int
}

// HistogramOf counts every pixel of img.
func HistogramOf(img image.Image) Histogram {
	h := make(Histogram)
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := nrgba.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				p := nrgba.Pix[i : i+4 : i+4]
				h[colorspace.Color{R: p[0], G: p[1], B: p[2], A: p[3]}]++
				i += 4
			}
		}
		return h
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			h[colorspace.FromColor(img.At(x, y))]++
		}
	}
	return h
}

// Total returns the number of pixels counted.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Entries returns the buckets in canonical order: most frequent first,
// ties broken by channel values.
func (h Histogram) Entries() []Entry {
	out := make([]Entry, 0, len(h))
	for c, n := range h {
		out = append(out, Entry{Color: c, Count: n})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return compareColors(a.Color, b.Color)
	})
	return out
}

// Colors returns the distinct colors in canonical order.
func (h Histogram) Colors() []colorspace.Color {
	es := h.Entries()
	out := make([]colorspace.Color, len(es))
	for i, e := range es {
		out[i] = e.Color
	}
	return out
}

func compareColors(a, b colorspace.Color) int {
	return cmp.Or(
		cmp.Compare(a.R, b.R),
		cmp.Compare(a.G, b.G),
		cmp.Compare(a.B, b.B),
		cmp.Compare(a.A, b.A),
	)
}

// split separates the opaque entries (in canonical order) from the
// transparent ones. Every alpha-0 color is folded into one entry whose
// color is the most frequent of them.
func (h Histogram) split() (opaque []Entry, transparent Entry, hasTransparent bool) {
	for _, e := range h.Entries() {
		if !e.Color.IsTransparent() {
			opaque = append(opaque, e)
			continue
		}
		if !hasTransparent {
			transparent = e
			hasTransparent = true
			continue
		}
		transparent.Count += e.Count
	}
	return opaque, transparent, hasTransparent
}
