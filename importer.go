// Package pixelsrc turns raster sprites into a symbolic description: a
// bounded palette of tokens, one pixel mask per token, and optionally the
// structured regions, shapes and mirror symmetry that describe them.
//
// The geometry lives in the raster, shape and region packages, the color
// handling in colorspace and quantize. Importer wires them together.
package pixelsrc

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/setanarut/pixelsrc/analysis"
	"github.com/setanarut/pixelsrc/colorspace"
	"github.com/setanarut/pixelsrc/quantize"
	"github.com/setanarut/pixelsrc/raster"
	"github.com/setanarut/pixelsrc/region"
	"github.com/setanarut/pixelsrc/shape"
)

var (
	ErrEmptyImage        = errors.New("pixelsrc: empty image")
	ErrInvalidMaxColors  = errors.New("pixelsrc: max colors must be at least 1")
	ErrInvalidConfidence = errors.New("pixelsrc: confidence must be within [0, 1]")
)

// TransparentToken names the palette entry of fully transparent pixels.
const TransparentToken = "_"

type Importer struct {
	InputImage image.Image
	// Working copy at native resolution, origin at (0, 0).
	Image     *image.NRGBA
	W, H      int
	Histogram quantize.Histogram
	Palette   []colorspace.Color
	// Palette index of every pixel, row-major.
	Indices []int
	// Pixels of each palette entry.
	Masks []raster.Mask

	Upscale  *Upscale
	Symmetry shape.Symmetry
	// Structured region per token, nil when extraction is off or the
	// token's region is empty after half-sprite filtering.
	Regions []region.Region
	// Shape per token, filled when Analyze is set.
	Shapes []shape.Detection[shape.Shape]
	// Roles, relationships, outlines and dithers, filled when Analyze
	// is set.
	Analysis *analysis.Report
}

func NewImporter(input image.Image) *Importer {
	return &Importer{InputImage: input}
}

// Build runs the import pipeline. The Importer's fields hold the results.
func (im *Importer) Build(opt Options) error {
	if opt.MaxColors < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxColors, opt.MaxColors)
	}
	if opt.Confidence < 0 || opt.Confidence > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidConfidence, opt.Confidence)
	}
	if im.InputImage == nil || im.InputImage.Bounds().Empty() {
		return ErrEmptyImage
	}

	im.reset()
	im.makeNRGBA()
	if opt.DetectUpscale {
		im.detectUpscale()
	}
	im.buildHistogram()
	im.buildPalette(opt)
	im.assignTokens()
	if opt.Analyze || opt.HalfSprite {
		im.analyzeSymmetry()
	}
	if opt.ExtractShapes {
		im.extractRegions(opt)
	}
	if opt.Analyze {
		im.classifyShapes(opt)
		im.analyzeTokens(opt)
	}
	return nil
}

// reset clears the results of a previous Build.
func (im *Importer) reset() {
	im.Image = nil
	im.W, im.H = 0, 0
	im.Histogram = nil
	im.Palette = nil
	im.Indices = nil
	im.Masks = nil
	im.Upscale = nil
	im.Symmetry = shape.SymmetryNone
	im.Regions = nil
	im.Shapes = nil
	im.Analysis = nil
}

// TokenNames returns the token of each palette entry: "_" for the
// transparent one, c1, c2, ... for the rest in palette order.
func (im *Importer) TokenNames() []string {
	names := make([]string, len(im.Palette))
	n := 1
	transparentSeen := false
	for i, c := range im.Palette {
		if c.IsTransparent() && !transparentSeen {
			names[i] = TransparentToken
			transparentSeen = true
			continue
		}
		names[i] = "c" + strconv.Itoa(n)
		n++
	}
	return names
}

// Reconstruct paints every pixel with its palette color.
func (im *Importer) Reconstruct() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.W, im.H))
	if len(im.Indices) != im.W*im.H {
		return out
	}
	for i, idx := range im.Indices {
		c := im.Palette[idx]
		px := out.Pix[i*4 : i*4+4 : i*4+4]
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
	}
	return out
}

// RGBALayers returns one image per token holding only that token's pixels
// in its palette color.
func (im *Importer) RGBALayers() []*image.NRGBA {
	if len(im.Masks) == 0 {
		return nil
	}
	out := make([]*image.NRGBA, len(im.Masks))
	for ch, m := range im.Masks {
		layer := image.NewNRGBA(image.Rect(0, 0, im.W, im.H))
		c := color.NRGBA(im.Palette[ch])
		for p := range m {
			layer.SetNRGBA(p.X, p.Y, c)
		}
		out[ch] = layer
	}
	return out
}

// GrayLayers returns one coverage mask per token: 255 where the token is
// present, 0 elsewhere.
func (im *Importer) GrayLayers() []*image.Gray {
	if len(im.Masks) == 0 {
		return nil
	}
	out := make([]*image.Gray, len(im.Masks))
	for ch, m := range im.Masks {
		layer := image.NewGray(image.Rect(0, 0, im.W, im.H))
		for p := range m {
			layer.SetGray(p.X, p.Y, color.Gray{Y: 255})
		}
		out[ch] = layer
	}
	return out
}

// ============ INPUT ============

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return dst
}

func (im *Importer) makeNRGBA() {
	im.Image = toNRGBA(im.InputImage)
	im.W, im.H = im.Image.Rect.Dx(), im.Image.Rect.Dy()
}

func (im *Importer) detectUpscale() {
	u, ok := DetectUpscale(im.Image)
	if !ok {
		im.Upscale = nil
		return
	}
	im.Upscale = &u
	im.Image = downscale(im.Image, u)
	im.W, im.H = im.Image.Rect.Dx(), im.Image.Rect.Dy()
	Logger().Debug("pixelsrc: upscaled input", "scale", u.Scale, "native", u.NativeSize, "confidence", u.Confidence)
}

// ============ PALETTE ============

func (im *Importer) buildHistogram() {
	im.Histogram = quantize.HistogramOf(im.Image)
}

func (im *Importer) buildPalette(opt Options) {
	var (
		p   []colorspace.Color
		err error
	)
	switch opt.Method {
	case quantize.MethodKMeans:
		p, err = quantize.KMeans(im.Histogram, opt.MaxColors)
	case quantize.MethodDominant:
		p, err = quantize.Dominant(im.Image, im.Histogram, opt.MaxColors)
	default:
		p = quantize.MedianCut(im.Histogram, opt.MaxColors)
	}
	if err != nil || len(p) == 0 {
		Logger().Warn("pixelsrc: palette strategy failed, falling back to median cut", "method", opt.Method, "err", err)
		p = quantize.MedianCut(im.Histogram, opt.MaxColors)
	}
	im.Palette = p
	Logger().Debug("pixelsrc: palette", "method", opt.Method, "input", len(im.Histogram), "colors", len(p))
}

// ============ TOKENS ============

func (im *Importer) assignTokens() {
	mapping := quantize.Mapping(im.Histogram, im.Palette)
	im.Indices = make([]int, im.W*im.H)
	im.Masks = make([]raster.Mask, len(im.Palette))
	for i := range im.Masks {
		im.Masks[i] = raster.NewMask()
	}
	for y := range im.H {
		for x := range im.W {
			i := im.Image.PixOffset(x, y)
			p := im.Image.Pix[i : i+4 : i+4]
			idx := mapping[colorspace.Color{R: p[0], G: p[1], B: p[2], A: p[3]}]
			im.Indices[y*im.W+x] = idx
			im.Masks[idx].Add(image.Pt(x, y))
		}
	}
}

// ============ ANALYSIS ============

// analyzeSymmetry runs on the re-quantized image, so pixels merged into
// one token compare equal.
func (im *Importer) analyzeSymmetry() {
	im.Symmetry = shape.DetectSymmetry(im.Reconstruct().Pix, im.W, im.H)
	Logger().Debug("pixelsrc: symmetry", "symmetry", im.Symmetry)
}

func (im *Importer) extractRegions(opt Options) {
	ex := region.DefaultExtractor()
	ex.Strategy = opt.Strategy
	half := opt.HalfSprite && im.Symmetry != shape.SymmetryNone

	im.Regions = make([]region.Region, len(im.Masks))
	for i, m := range im.Masks {
		r := ex.Extract(m)
		if half {
			r = region.FilterForHalf(r, im.Symmetry, im.W, im.H)
		}
		if region.IsEmpty(r) {
			continue
		}
		im.Regions[i] = r
	}
}

// classifyShapes classifies every token's mask in its own goroutine.
func (im *Importer) classifyShapes(opt Options) {
	c := shape.NewClassifier()
	if opt.Confidence > 0 {
		c.Thresholds = shape.Uniform(opt.Confidence)
	}

	im.Shapes = make([]shape.Detection[shape.Shape], len(im.Masks))
	var wg sync.WaitGroup
	for i, m := range im.Masks {
		wg.Go(func() {
			im.Shapes[i] = c.Classify(m)
		})
	}
	wg.Wait()
}

func (im *Importer) analyzeTokens(opt Options) {
	tokens := make([]analysis.Token, len(im.Masks))
	for i, m := range im.Masks {
		tokens[i] = analysis.Token{Color: im.Palette[i], Mask: m}
	}
	rep := analysis.Analyze(tokens, im.W, im.H, analysis.Config{
		MinConfidence: opt.Confidence,
		Dither:        opt.DetectDither,
	})
	im.Analysis = &rep
	Logger().Debug("pixelsrc: analysis",
		"relationships", len(rep.Relationships),
		"outlines", len(rep.Outlines),
		"dithers", len(rep.Dithers))
}
