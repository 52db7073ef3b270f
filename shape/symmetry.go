package shape

import "bytes"

// Symmetry describes the mirror symmetry of a pixel buffer.
type Symmetry int

const (
	// SymmetryNone means neither mirror holds.
	SymmetryNone Symmetry = iota
	// SymmetryX is left-right mirroring: column x equals column w-1-x.
	SymmetryX
	// SymmetryY is top-bottom mirroring: row y equals row h-1-y.
	SymmetryY
	// SymmetryXY holds both.
	SymmetryXY
)

func (s Symmetry) String() string {
	switch s {
	case SymmetryX:
		return "x"
	case SymmetryY:
		return "y"
	case SymmetryXY:
		return "xy"
	default:
		return "none"
	}
}

// HasX reports whether s includes left-right mirroring.
func (s Symmetry) HasX() bool { return s == SymmetryX || s == SymmetryXY }

// HasY reports whether s includes top-bottom mirroring.
func (s Symmetry) HasY() bool { return s == SymmetryY || s == SymmetryXY }

// DetectSymmetry checks a row-major RGBA8 buffer of w×h pixels for exact
// mirror symmetry. Zero dimensions or a buffer whose length is not w*h*4
// report SymmetryNone.
func DetectSymmetry(pix []uint8, w, h int) Symmetry {
	if w <= 0 || h <= 0 || len(pix) != w*h*4 {
		return SymmetryNone
	}
	x, y := mirroredX(pix, w, h), mirroredY(pix, w, h)
	switch {
	case x && y:
		return SymmetryXY
	case x:
		return SymmetryX
	case y:
		return SymmetryY
	}
	return SymmetryNone
}

func mirroredX(pix []uint8, w, h int) bool {
	for y := range h {
		row := pix[y*w*4 : (y+1)*w*4]
		for x := range w / 2 {
			l := row[x*4 : x*4+4]
			r := row[(w-1-x)*4 : (w-x)*4]
			if !bytes.Equal(l, r) {
				return false
			}
		}
	}
	return true
}

func mirroredY(pix []uint8, w, h int) bool {
	stride := w * 4
	for y := range h / 2 {
		top := pix[y*stride : (y+1)*stride]
		bottom := pix[(h-1-y)*stride : (h-y)*stride]
		if !bytes.Equal(top, bottom) {
			return false
		}
	}
	return true
}
