// Package raster converts parametric shapes into pixel masks.
//
// Every function in this package is pure: it reads only its arguments and
// returns a freshly allocated Mask, so independent calls may run
// concurrently without coordination.
//
// Alongside the shape rasterizers the package carries mask set algebra
// (Union, Subtract, Intersect) and flood fills (FloodFill,
// FloodFillExcept, InteriorSeed). The import pipeline uses Union and
// Intersect when merging and comparing tokens; Subtract and the flood fills
// are for callers editing masks, such as filling a stroked outline.
package raster

import (
	"cmp"
	"image"
	"slices"
)

// Mask is a finite set of integer pixel coordinates. It carries no color.
// The zero value (nil) is an empty mask that can be read but not written.
type Mask map[image.Point]struct{}

// NewMask returns a mask holding the given points. Duplicates collapse.
func NewMask(pts ...image.Point) Mask {
	m := make(Mask, len(pts))
	for _, p := range pts {
		m[p] = struct{}{}
	}
	return m
}

// Add inserts p into the mask.
func (m Mask) Add(p image.Point) { m[p] = struct{}{} }

// Contains reports whether p is part of the mask.
func (m Mask) Contains(p image.Point) bool {
	_, ok := m[p]
	return ok
}

// Len returns the number of pixels in the mask.
func (m Mask) Len() int { return len(m) }

// Clone returns an independent copy of m.
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	for p := range m {
		out[p] = struct{}{}
	}
	return out
}

// Equal reports whether m and o hold exactly the same pixels.
func (m Mask) Equal(o Mask) bool {
	if len(m) != len(o) {
		return false
	}
	for p := range m {
		if !o.Contains(p) {
			return false
		}
	}
	return true
}

// IntersectionLen counts the pixels present in both m and o.
func (m Mask) IntersectionLen(o Mask) int {
	a, b := m, o
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for p := range a {
		if b.Contains(p) {
			n++
		}
	}
	return n
}

// Bounds returns the smallest rectangle containing every pixel. Max is
// exclusive, so Dx and Dy are the inclusive width and height. The second
// result is false for an empty mask, whose bounds are undefined.
func (m Mask) Bounds() (image.Rectangle, bool) {
	if len(m) == 0 {
		return image.Rectangle{}, false
	}
	first := true
	var r image.Rectangle
	for p := range m {
		if first {
			r = image.Rect(p.X, p.Y, p.X+1, p.Y+1)
			first = false
			continue
		}
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X+1)
		r.Max.Y = max(r.Max.Y, p.Y+1)
	}
	return r, true
}

// Sorted returns the pixels in row-major order (by y, then x).
func (m Mask) Sorted() []image.Point {
	pts := make([]image.Point, 0, len(m))
	for p := range m {
		pts = append(pts, p)
	}
	slices.SortFunc(pts, ComparePoints)
	return pts
}

// ComparePoints orders points row-major: by y first, then by x.
func ComparePoints(a, b image.Point) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}
