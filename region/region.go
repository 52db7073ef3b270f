// Package region re-encodes imported pixel masks as structured regions.
//
// A mask is split into 4-connected components and each component becomes
// the most specific exact encoding available: a Rect when it fills its
// bounding box, raw Points otherwise. A lossy Polygon encoding built from
// a traced and simplified boundary is available through StrategyPolygon.
package region

import (
	"image"

	"github.com/setanarut/pixelsrc/raster"
)

// Region is one of Rect, Polygon, Union or Points.
type Region interface {
	isRegion()
}

// Rect is a filled W×H rectangle with its top-left corner at (X, Y).
type Rect struct {
	X, Y, W, H int
}

// Polygon is a filled polygon given by its vertices.
type Polygon struct {
	Vertices []image.Point
}

// Union is the combination of several regions, typically one per
// connected component.
type Union struct {
	Members []Region
}

// Points lists pixels verbatim, in row-major order.
type Points struct {
	Pixels []image.Point
}

func (Rect) isRegion()    {}
func (Polygon) isRegion() {}
func (Union) isRegion()   {}
func (Points) isRegion()  {}

// Mask rasterizes r back into pixels.
func Mask(r Region) raster.Mask {
	switch r := r.(type) {
	case Rect:
		return raster.Rect(r.X, r.Y, r.W, r.H)
	case Polygon:
		return raster.Polygon(r.Vertices)
	case Union:
		masks := make([]raster.Mask, len(r.Members))
		for i, m := range r.Members {
			masks[i] = Mask(m)
		}
		return raster.Union(masks...)
	case Points:
		return raster.Points(r.Pixels)
	}
	return raster.NewMask()
}

// IsEmpty reports whether r encodes no pixels by construction: Points
// without pixels, or a Union whose members are all empty.
func IsEmpty(r Region) bool {
	switch r := r.(type) {
	case nil:
		return true
	case Points:
		return len(r.Pixels) == 0
	case Union:
		for _, m := range r.Members {
			if !IsEmpty(m) {
				return false
			}
		}
		return true
	}
	return false
}
