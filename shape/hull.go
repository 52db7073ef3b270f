package shape

import (
	"image"
	"slices"

	"github.com/setanarut/pixelsrc/raster"
)

// DetectPolygon returns the convex hull of m. Confidence is the fraction of
// m covered by the filled hull. It never rejects; an empty mask gives an
// empty polygon at zero confidence.
func DetectPolygon(m raster.Mask) Detection[Polygon] {
	if m.Len() == 0 {
		return Detection[Polygon]{}
	}
	hull := ConvexHull(m)
	covered := m.IntersectionLen(raster.Polygon(hull))
	return NewDetection(Polygon{Vertices: hull}, float64(covered)/float64(m.Len()))
}

// ConvexHull computes the hull of m with a Graham scan. The pivot is the
// topmost pixel (smallest y, then smallest x); the others are ordered by
// the cross product around it, nearer points first on ties. Collinear
// points are dropped.
func ConvexHull(m raster.Mask) []image.Point {
	pts := m.Sorted()
	if len(pts) == 0 {
		return nil
	}
	pivot := pts[0]
	rest := pts[1:]
	slices.SortStableFunc(rest, func(a, b image.Point) int {
		c := cross(pivot, a, b)
		switch {
		case c > 0:
			return -1
		case c < 0:
			return 1
		}
		da, db := dist2(pivot, a), dist2(pivot, b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	hull := make([]image.Point, 0, len(pts))
	hull = append(hull, pivot)
	for _, p := range rest {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}

// cross is the z component of (a-o)×(b-o), in int64.
func cross(o, a, b image.Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

func dist2(a, b image.Point) int64 {
	dx, dy := int64(a.X-b.X), int64(a.Y-b.Y)
	return dx*dx + dy*dy
}
