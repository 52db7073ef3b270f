package shape

import (
	"image"
	"math"

	"github.com/setanarut/pixelsrc/raster"
)

// Thresholds holds the minimum confidence each detector needs to accept.
type Thresholds struct {
	Line    float64
	Stroke  float64
	Rect    float64
	Ellipse float64
}

// DefaultThresholds returns the standard acceptance levels. Ellipses get
// a lower bar since small rasterized ellipses are inherently fuzzy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Line:    0.95,
		Stroke:  0.95,
		Rect:    0.95,
		Ellipse: 0.7,
	}
}

// Uniform returns thresholds that all equal c.
func Uniform(c float64) Thresholds {
	return Thresholds{Line: c, Stroke: c, Rect: c, Ellipse: c}
}

// Classifier runs the detectors with a given set of thresholds.
type Classifier struct {
	Thresholds Thresholds
}

// NewClassifier returns a Classifier using DefaultThresholds.
func NewClassifier() Classifier {
	return Classifier{Thresholds: DefaultThresholds()}
}

var defaultClassifier = NewClassifier()

// Classify returns the best-fitting shape for m using the default
// thresholds. See Classifier.Classify.
func Classify(m raster.Mask) Detection[Shape] { return defaultClassifier.Classify(m) }

// DetectRect runs Classifier.DetectRect with the default thresholds.
func DetectRect(m raster.Mask) (Detection[Rect], bool) { return defaultClassifier.DetectRect(m) }

// DetectStroke runs Classifier.DetectStroke with the default thresholds.
func DetectStroke(m raster.Mask) (Detection[Stroke], bool) { return defaultClassifier.DetectStroke(m) }

// DetectLine runs Classifier.DetectLine with the default thresholds.
func DetectLine(m raster.Mask) (Detection[Line], bool) { return defaultClassifier.DetectLine(m) }

// DetectEllipse runs Classifier.DetectEllipse with the default thresholds.
func DetectEllipse(m raster.Mask) (Detection[Ellipse], bool) {
	return defaultClassifier.DetectEllipse(m)
}

// Classify tries line, stroke, rect and ellipse in that order and returns
// the first accepted detection. When none passes, the convex hull polygon
// is returned with its recall as confidence. An empty mask yields an empty
// Polygon at confidence 0.
func (c Classifier) Classify(m raster.Mask) Detection[Shape] {
	if m.Len() == 0 {
		return Detection[Shape]{Shape: Polygon{}}
	}
	if d, ok := c.DetectLine(m); ok {
		return Any(d)
	}
	if d, ok := c.DetectStroke(m); ok {
		return Any(d)
	}
	if d, ok := c.DetectRect(m); ok {
		return Any(d)
	}
	if d, ok := c.DetectEllipse(m); ok {
		return Any(d)
	}
	return Any(DetectPolygon(m))
}

// DetectRect scores m by how much of its bounding box it fills.
func (c Classifier) DetectRect(m raster.Mask) (Detection[Rect], bool) {
	b, ok := m.Bounds()
	if !ok {
		return Detection[Rect]{}, false
	}
	conf := float64(m.Len()) / float64(b.Dx()*b.Dy())
	if conf < c.Thresholds.Rect {
		return Detection[Rect]{}, false
	}
	return NewDetection(Rect{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()}, conf), true
}

// DetectStroke matches m against a one pixel outline of its bounding box.
// The box must be at least 3×3 and any pixel strictly inside the border
// rejects the mask outright. Thicker outlines are not recognized.
func (c Classifier) DetectStroke(m raster.Mask) (Detection[Stroke], bool) {
	b, ok := m.Bounds()
	if !ok || b.Dx() < 3 || b.Dy() < 3 {
		return Detection[Stroke]{}, false
	}
	inner := b.Inset(1)
	for p := range m {
		if p.In(inner) {
			return Detection[Stroke]{}, false
		}
	}

	s := Stroke{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()}
	canon := s.Mask()
	conf := float64(m.IntersectionLen(canon)) / float64(max(m.Len(), canon.Len()))
	if conf < c.Thresholds.Stroke {
		return Detection[Stroke]{}, false
	}
	return NewDetection(s, conf), true
}

// DetectLine looks for a Bresenham segment that reproduces m.
//
// One pixel, or two touching pixels, are accepted directly. Otherwise the
// candidate endpoints are the pixels on the bounding box edges; every pair
// whose line has exactly |m| pixels is scored by overlap, and the best pair
// wins. Candidates are visited row-major, and a later pair must score
// strictly higher to replace an earlier one. The search is quadratic in
// the number of edge pixels.
func (c Classifier) DetectLine(m raster.Mask) (Detection[Line], bool) {
	pts := m.Sorted()
	switch len(pts) {
	case 0:
		return Detection[Line]{}, false
	case 1:
		return NewDetection(Line{P0: pts[0], P1: pts[0]}, 1), true
	case 2:
		d := pts[1].Sub(pts[0])
		if abs(d.X) <= 1 && abs(d.Y) <= 1 {
			return NewDetection(Line{P0: pts[0], P1: pts[1]}, 1), true
		}
	}

	b, _ := m.Bounds()
	maxX, maxY := b.Max.X-1, b.Max.Y-1
	var cands []image.Point
	for _, p := range pts {
		if p.X == b.Min.X || p.X == maxX || p.Y == b.Min.Y || p.Y == maxY {
			cands = append(cands, p)
		}
	}

	var best Line
	bestConf := 0.0
	for i := range cands {
		for j := i + 1; j < len(cands); j++ {
			l := raster.Line(cands[i], cands[j])
			if l.Len() != m.Len() {
				continue
			}
			conf := float64(m.IntersectionLen(l)) / float64(m.Len())
			if conf > bestConf {
				best = Line{P0: cands[i], P1: cands[j]}
				bestConf = conf
			}
		}
	}
	if bestConf == 0 || bestConf < c.Thresholds.Line {
		return Detection[Line]{}, false
	}
	return NewDetection(best, bestConf), true
}

// DetectEllipse compares m with the ellipse inscribed in its bounding box.
// The score averages the Jaccard similarity with the rasterized ellipse and
// an area term 1 - min(|ratio-1|, 1), where ratio is |m| / (π·rx·ry).
func (c Classifier) DetectEllipse(m raster.Mask) (Detection[Ellipse], bool) {
	b, ok := m.Bounds()
	if !ok || b.Dx() < 3 || b.Dy() < 3 {
		return Detection[Ellipse]{}, false
	}
	e := Ellipse{
		CX: (b.Min.X + b.Max.X - 1) / 2,
		CY: (b.Min.Y + b.Max.Y - 1) / 2,
		RX: b.Dx() / 2,
		RY: b.Dy() / 2,
	}
	canon := e.Mask()
	if canon.Len() == 0 {
		return Detection[Ellipse]{}, false
	}

	inter := m.IntersectionLen(canon)
	union := m.Len() + canon.Len() - inter
	jaccard := float64(inter) / float64(union)

	ratio := float64(m.Len()) / (math.Pi * float64(e.RX) * float64(e.RY))
	area := 1 - min(math.Abs(ratio-1), 1)

	conf := (jaccard + area) / 2
	if conf < c.Thresholds.Ellipse {
		return Detection[Ellipse]{}, false
	}
	return NewDetection(e, conf), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
