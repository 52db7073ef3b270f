package region

import (
	"image"
	"math"

	"github.com/setanarut/pixelsrc/raster"
	"github.com/setanarut/pixelsrc/shape"
)

// FilterForHalf keeps only the primary half of r for a sprite of size w×h
// with the given mirror symmetry: the left half for X, the top half for Y
// and the top-left quadrant for XY. Halves round up, so the centre column
// or row of an odd dimension is kept once.
//
// Rects are clipped, polygons are rasterized and filtered as points, and
// unions are filtered member by member with empty members dropped. A
// union left with one member collapses to it. Anything fully outside the
// half becomes empty Points. SymmetryNone returns r unchanged.
func FilterForHalf(r Region, sym shape.Symmetry, w, h int) Region {
	if sym == shape.SymmetryNone {
		return r
	}
	limit := image.Pt(math.MaxInt, math.MaxInt)
	if sym.HasX() {
		limit.X = (w + 1) / 2
	}
	if sym.HasY() {
		limit.Y = (h + 1) / 2
	}
	return filterHalf(r, limit)
}

// filterHalf keeps what lies left of limit.X and above limit.Y.
func filterHalf(r Region, limit image.Point) Region {
	switch r := r.(type) {
	case Rect:
		endX, endY := r.X+r.W, r.Y+r.H
		if limit.X < endX {
			endX = limit.X
		}
		if limit.Y < endY {
			endY = limit.Y
		}
		if endX <= r.X || endY <= r.Y {
			return Points{}
		}
		return Rect{X: r.X, Y: r.Y, W: endX - r.X, H: endY - r.Y}
	case Polygon:
		return filterPoints(raster.Polygon(r.Vertices).Sorted(), limit)
	case Points:
		return filterPoints(r.Pixels, limit)
	case Union:
		var kept []Region
		for _, m := range r.Members {
			if f := filterHalf(m, limit); !IsEmpty(f) {
				kept = append(kept, f)
			}
		}
		switch len(kept) {
		case 0:
			return Points{}
		case 1:
			return kept[0]
		}
		return Union{Members: kept}
	}
	return r
}

func filterPoints(pts []image.Point, limit image.Point) Points {
	var out []image.Point
	for _, p := range pts {
		if p.X < limit.X && p.Y < limit.Y {
			out = append(out, p)
		}
	}
	return Points{Pixels: out}
}
