// Package shape infers parametric shapes from pixel masks.
//
// Classify runs the detectors in a fixed order (line, stroke, rect,
// ellipse) and falls back to the convex hull polygon, so every mask gets a
// result. Detectors are pure and safe to call concurrently.
package shape

import (
	"image"

	"github.com/setanarut/pixelsrc/raster"
)

// Kind identifies the variant of a Shape.
type Kind int

const (
	KindRect Kind = iota
	KindStroke
	KindEllipse
	KindLine
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindStroke:
		return "stroke"
	case KindEllipse:
		return "ellipse"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Shape is one of Rect, Stroke, Ellipse, Line or Polygon.
type Shape interface {
	Kind() Kind
	// Mask rasterizes the shape.
	Mask() raster.Mask
	isShape()
}

// Rect is a filled w×h rectangle with its top-left corner at (X, Y).
type Rect struct {
	X, Y, W, H int
}

// Stroke is the one pixel outline of a W×H rectangle.
type Stroke struct {
	X, Y, W, H int
}

// Ellipse is a filled ellipse centred on (CX, CY).
type Ellipse struct {
	CX, CY, RX, RY int
}

// Line is a Bresenham segment between two endpoints.
type Line struct {
	P0, P1 image.Point
}

// Polygon is a filled polygon. Detected polygons are convex hulls listed
// counter-clockwise from the topmost-leftmost vertex.
type Polygon struct {
	Vertices []image.Point
}

func (Rect) Kind() Kind    { return KindRect }
func (Stroke) Kind() Kind  { return KindStroke }
func (Ellipse) Kind() Kind { return KindEllipse }
func (Line) Kind() Kind    { return KindLine }
func (Polygon) Kind() Kind { return KindPolygon }

func (s Rect) Mask() raster.Mask    { return raster.Rect(s.X, s.Y, s.W, s.H) }
func (s Stroke) Mask() raster.Mask  { return raster.Stroke(s.X, s.Y, s.W, s.H, 1) }
func (s Ellipse) Mask() raster.Mask { return raster.Ellipse(s.CX, s.CY, s.RX, s.RY) }
func (s Line) Mask() raster.Mask    { return raster.Line(s.P0, s.P1) }
func (s Polygon) Mask() raster.Mask { return raster.Polygon(s.Vertices) }

func (Rect) isShape()    {}
func (Stroke) isShape()  {}
func (Ellipse) isShape() {}
func (Line) isShape()    {}
func (Polygon) isShape() {}

// Detection pairs a shape with a similarity score in [0, 1]. The score is
// not a probability; each detector defines its own.
type Detection[T Shape] struct {
	Shape      T
	Confidence float64
}

// NewDetection builds a Detection, clamping confidence into [0, 1].
func NewDetection[T Shape](s T, confidence float64) Detection[T] {
	return Detection[T]{Shape: s, Confidence: min(max(confidence, 0), 1)}
}

// Any widens a typed detection to Detection[Shape].
func Any[T Shape](d Detection[T]) Detection[Shape] {
	return Detection[Shape]{Shape: d.Shape, Confidence: d.Confidence}
}
