package region

import (
	"image"
	"math"
	"slices"

	"github.com/setanarut/pixelsrc/raster"
)

// TraceBoundary builds a closed polygon around c from its per-row extents:
// the leftmost pixel of each row top to bottom, then the rightmost pixel of
// each row bottom to top. Both edges are simplified with DouglasPeucker
// using epsilon. Polygons with more than maxVertices vertices are
// subsampled to roughly 3/5 of that. ok is false when fewer than three
// vertices remain.
func TraceBoundary(c raster.Mask, epsilon float64, maxVertices int) (vs []image.Point, ok bool) {
	if c.Len() < 3 {
		return nil, false
	}

	var left, right []image.Point
	for _, p := range c.Sorted() {
		n := len(left)
		if n == 0 || left[n-1].Y != p.Y {
			left = append(left, p)
			right = append(right, p)
			continue
		}
		right[n-1] = p
	}

	poly := DouglasPeucker(left, epsilon)
	r := DouglasPeucker(right, epsilon)
	slices.Reverse(r)
	poly = slices.Compact(append(poly, r...))

	if maxVertices > 0 && len(poly) > maxVertices {
		step := max(len(poly)/max(maxVertices*3/5, 1), 1)
		sub := make([]image.Point, 0, len(poly)/step+1)
		for i := 0; i < len(poly); i += step {
			sub = append(sub, poly[i])
		}
		poly = sub
	}
	if len(poly) < 3 {
		return nil, false
	}
	return poly, true
}

// DouglasPeucker simplifies a polyline, keeping the endpoints and every
// point farther than epsilon from the simplified segment that replaces it.
func DouglasPeucker(pts []image.Point, epsilon float64) []image.Point {
	if len(pts) < 3 {
		return slices.Clone(pts)
	}
	start, end := pts[0], pts[len(pts)-1]

	maxDist, maxIdx := 0.0, 0
	for i := 1; i < len(pts)-1; i++ {
		if d := segmentDistance(pts[i], start, end); d > maxDist {
			maxDist, maxIdx = d, i
		}
	}
	if maxDist <= epsilon {
		return []image.Point{start, end}
	}

	l := DouglasPeucker(pts[:maxIdx+1], epsilon)
	r := DouglasPeucker(pts[maxIdx:], epsilon)
	return append(l[:len(l)-1], r...)
}

// segmentDistance is the distance from p to the segment a-b.
func segmentDistance(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X-a.X), float64(p.Y-a.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px, py)
	}
	t := min(max((px*dx+py*dy)/lenSq, 0), 1)
	return math.Hypot(px-t*dx, py-t*dy)
}
