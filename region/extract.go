package region

import (
	"github.com/setanarut/pixelsrc/raster"
)

// Strategy selects how Extract encodes components that are not exact
// rectangles.
type Strategy int

const (
	// StrategyPoints keeps such components as raw points. Lossless.
	StrategyPoints Strategy = iota
	// StrategyPolygon traces a simplified boundary polygon and uses it when
	// it covers the component well enough. Lossy.
	StrategyPolygon
)

func (s Strategy) String() string {
	switch s {
	case StrategyPolygon:
		return "polygon"
	default:
		return "points"
	}
}

// Extractor configures region extraction.
type Extractor struct {
	// Components smaller than this stay as points.
	MinShapePixels int
	Strategy       Strategy

	// Used by StrategyPolygon only.
	Epsilon     float64 // Douglas-Peucker tolerance, in pixels
	MaxVertices int     // traced polygons above this are subsampled
	MinCoverage float64 // minimum Jaccard similarity with the component
}

// DefaultExtractor returns the lossless configuration.
func DefaultExtractor() Extractor {
	return Extractor{
		MinShapePixels: 16,
		Strategy:       StrategyPoints,
		Epsilon:        1.5,
		MaxVertices:    50,
		MinCoverage:    0.9,
	}
}

// Extract encodes m with the default extractor.
func Extract(m raster.Mask) Region { return DefaultExtractor().Extract(m) }

// Extract splits m into connected components and encodes each one. A
// single component is returned as is; several are wrapped in a Union. An
// empty mask gives empty Points.
func (e Extractor) Extract(m raster.Mask) Region {
	comps := ConnectedComponents(m)
	if len(comps) == 0 {
		return Points{}
	}
	out := make([]Region, len(comps))
	for i, c := range comps {
		out[i] = e.ExtractComponent(c)
	}
	if len(out) == 1 {
		return out[0]
	}
	return Union{Members: out}
}

// ExtractComponent encodes a single connected component.
func (e Extractor) ExtractComponent(c raster.Mask) Region {
	if c.Len() < e.MinShapePixels {
		return Points{Pixels: c.Sorted()}
	}
	if r, ok := TryRect(c); ok {
		return r
	}
	if e.Strategy == StrategyPolygon {
		if poly, ok := e.tracePolygon(c); ok {
			return poly
		}
	}
	return Points{Pixels: c.Sorted()}
}

// TryRect returns the bounding rectangle of c when c fills it exactly.
func TryRect(c raster.Mask) (Rect, bool) {
	b, ok := c.Bounds()
	if !ok || c.Len() != b.Dx()*b.Dy() {
		return Rect{}, false
	}
	return Rect{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()}, true
}

func (e Extractor) tracePolygon(c raster.Mask) (Polygon, bool) {
	vs, ok := TraceBoundary(c, e.Epsilon, e.MaxVertices)
	if !ok {
		return Polygon{}, false
	}
	if jaccard(c, raster.Polygon(vs)) < e.MinCoverage {
		return Polygon{}, false
	}
	return Polygon{Vertices: vs}, true
}

func jaccard(a, b raster.Mask) float64 {
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}
	inter := a.IntersectionLen(b)
	return float64(inter) / float64(a.Len()+b.Len()-inter)
}
