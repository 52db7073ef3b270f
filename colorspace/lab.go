package colorspace

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Lab is a CIE L*a*b* color under the D65 white point. L is in [0,100];
// a and b stay roughly within [-128,127] for sRGB input.
type Lab struct {
	L, A, B float64
}

// linear sRGB -> XYZ (D65).
var srgbToXYZ = mat.NewDense(3, 3, []float64{
	0.4124564, 0.3575761, 0.1804375,
	0.2126729, 0.7151522, 0.0721750,
	0.0193339, 0.1191920, 0.9503041,
})

// LabFromRGB converts 8-bit sRGB channels to LAB. Gamma is expanded with
// the piecewise sRGB curve (linear segment below 0.04045) before the
// D65 XYZ transform.
func LabFromRGB(r, g, b uint8) Lab {
	lr, lg, lb := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}.LinearRgb()

	var xyz mat.VecDense
	xyz.MulVec(srgbToXYZ, mat.NewVecDense(3, []float64{lr, lg, lb}))

	l, a, bb := colorful.XyzToLabWhiteRef(xyz.AtVec(0), xyz.AtVec(1), xyz.AtVec(2), colorful.D65)
	return Lab{L: l * 100, A: a * 100, B: bb * 100}
}

// Lab returns the LAB coordinates of c, ignoring alpha.
func (c Color) Lab() Lab { return LabFromRGB(c.R, c.G, c.B) }

// Distance is the CIE76 difference: Euclidean distance in LAB.
func (l Lab) Distance(o Lab) float64 {
	return floats.Distance(l.Slice(), o.Slice(), 2)
}

// Slice returns the coordinates as {L, a, b}.
func (l Lab) Slice() []float64 { return []float64{l.L, l.A, l.B} }
