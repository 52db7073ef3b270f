package pixelsrc

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/setanarut/pixelsrc/analysis"
	"github.com/setanarut/pixelsrc/colorspace"
	"github.com/setanarut/pixelsrc/quantize"
	"github.com/setanarut/pixelsrc/raster"
	"github.com/setanarut/pixelsrc/region"
	"github.com/setanarut/pixelsrc/shape"
)

var red = color.NRGBA{R: 220, G: 30, B: 30, A: 255}

// centredSquare is an 8×8 sprite with a red 4×4 square on a transparent
// background.
func centredSquare() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			img.SetNRGBA(x, y, red)
		}
	}
	return img
}

func TestBuildTokens(t *testing.T) {
	opt := DefaultOptions()
	opt.Analyze = true
	im := NewImporter(centredSquare())
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}

	if len(im.Palette) != 2 {
		t.Fatalf("palette = %v, want 2 colors", im.Palette)
	}
	if !im.Palette[0].IsTransparent() || im.Palette[1] != colorspace.Color(red) {
		t.Errorf("palette = %v", im.Palette)
	}
	names := im.TokenNames()
	if names[0] != "_" || names[1] != "c1" {
		t.Errorf("TokenNames = %v", names)
	}
	if !im.Masks[1].Equal(raster.Rect(2, 2, 4, 4)) {
		t.Errorf("red mask = %v", im.Masks[1].Sorted())
	}
	if im.Masks[0].Len() != 48 {
		t.Errorf("background mask has %d pixels, want 48", im.Masks[0].Len())
	}

	if im.Regions[1] != region.Region(region.Rect{X: 2, Y: 2, W: 4, H: 4}) {
		t.Errorf("red region = %#v", im.Regions[1])
	}
	if p, ok := im.Regions[0].(region.Points); !ok || len(p.Pixels) != 48 {
		t.Errorf("background region = %#v, want 48 points", im.Regions[0])
	}

	if im.Symmetry != shape.SymmetryXY {
		t.Errorf("symmetry = %v, want xy", im.Symmetry)
	}
	if d := im.Shapes[1]; d.Shape != shape.Shape(shape.Rect{X: 2, Y: 2, W: 4, H: 4}) || d.Confidence != 1 {
		t.Errorf("red shape = %+v", d)
	}
	if len(im.Shapes) != 2 {
		t.Errorf("got %d shapes", len(im.Shapes))
	}
}

func TestBuildHalfSprite(t *testing.T) {
	opt := DefaultOptions()
	opt.HalfSprite = true
	im := NewImporter(centredSquare())
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}
	if im.Regions[1] != region.Region(region.Rect{X: 2, Y: 2, W: 2, H: 2}) {
		t.Errorf("half region = %#v, want the top-left quarter", im.Regions[1])
	}
	if im.Shapes != nil {
		t.Error("shapes classified without Analyze")
	}
}

func TestBuildNoShapes(t *testing.T) {
	opt := DefaultOptions()
	opt.ExtractShapes = false
	im := NewImporter(centredSquare())
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}
	if im.Regions != nil {
		t.Errorf("regions = %v, want none", im.Regions)
	}
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 90, A: 255})
		}
	}
	return img
}

func TestBuildQuantizes(t *testing.T) {
	for _, m := range []quantize.Method{quantize.MethodMedianCut, quantize.MethodKMeans, quantize.MethodDominant} {
		t.Run(m.String(), func(t *testing.T) {
			opt := DefaultOptions()
			opt.MaxColors = 4
			opt.Method = m
			opt.ExtractShapes = false
			im := NewImporter(gradientImage(16, 16))
			if err := im.Build(opt); err != nil {
				t.Fatal(err)
			}
			if len(im.Palette) == 0 || len(im.Palette) > 4 {
				t.Fatalf("palette has %d colors", len(im.Palette))
			}
			for _, c := range im.Palette {
				if _, ok := im.Histogram[c]; !ok {
					t.Errorf("palette color %v not in the image", c)
				}
			}

			recon := im.Reconstruct()
			allowed := map[colorspace.Color]bool{}
			for _, c := range im.Palette {
				allowed[c] = true
			}
			for y := range 16 {
				for x := range 16 {
					if c := colorspace.Color(recon.NRGBAAt(x, y)); !allowed[c] {
						t.Fatalf("pixel (%d,%d) = %v is not a palette color", x, y, c)
					}
				}
			}

			total := 0
			for _, mk := range im.Masks {
				total += mk.Len()
			}
			if total != 256 {
				t.Errorf("masks hold %d pixels, want 256", total)
			}
		})
	}
}

func TestLayers(t *testing.T) {
	im := NewImporter(centredSquare())
	if err := im.Build(DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	rgba := im.RGBALayers()
	gray := im.GrayLayers()
	if len(rgba) != 2 || len(gray) != 2 {
		t.Fatalf("got %d rgba and %d gray layers", len(rgba), len(gray))
	}
	if rgba[1].NRGBAAt(3, 3) != red || rgba[1].NRGBAAt(0, 0).A != 0 {
		t.Error("red layer has wrong pixels")
	}
	if gray[1].GrayAt(3, 3).Y != 255 || gray[1].GrayAt(0, 0).Y != 0 {
		t.Error("red coverage has wrong pixels")
	}
	if gray[0].GrayAt(0, 0).Y != 255 || gray[0].GrayAt(3, 3).Y != 0 {
		t.Error("background coverage has wrong pixels")
	}
}

func TestBuildOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	img.SetNRGBA(10, 10, red)
	im := NewImporter(img)
	if err := im.Build(DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if im.W != 4 || im.H != 2 {
		t.Errorf("size = %dx%d, want 4x2", im.W, im.H)
	}
	if idx := im.Indices[0]; im.Palette[idx] != colorspace.Color(red) {
		t.Errorf("pixel (0,0) maps to %v", im.Palette[idx])
	}
}

func TestBuildErrors(t *testing.T) {
	opt := DefaultOptions()
	opt.MaxColors = 0
	if err := NewImporter(centredSquare()).Build(opt); !errors.Is(err, ErrInvalidMaxColors) {
		t.Errorf("MaxColors 0: err = %v", err)
	}

	opt = DefaultOptions()
	opt.Confidence = 1.5
	if err := NewImporter(centredSquare()).Build(opt); !errors.Is(err, ErrInvalidConfidence) {
		t.Errorf("Confidence 1.5: err = %v", err)
	}

	if err := NewImporter(nil).Build(DefaultOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil image: err = %v", err)
	}
	if err := NewImporter(image.NewNRGBA(image.Rect(0, 0, 0, 5))).Build(DefaultOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("zero width: err = %v", err)
	}
}

func TestConfidenceOverride(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			if x != 1 || y != 1 {
				img.SetNRGBA(x, y, red)
			}
		}
	}
	opt := DefaultOptions()
	opt.Analyze = true
	opt.ExtractShapes = false

	im := NewImporter(img)
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}
	redIdx := 0
	if im.Palette[1] == colorspace.Color(red) {
		redIdx = 1
	}
	if k := im.Shapes[redIdx].Shape.Kind(); k == shape.KindRect {
		t.Errorf("default thresholds accepted a 15/16 rect")
	}

	opt.Confidence = 0.9
	im = NewImporter(img)
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}
	if k := im.Shapes[redIdx].Shape.Kind(); k != shape.KindRect {
		t.Errorf("confidence 0.9: kind = %v, want rect", k)
	}
}

func TestBuildTwiceResetsStages(t *testing.T) {
	opt := DefaultOptions()
	opt.Analyze = true
	opt.HalfSprite = true
	im := NewImporter(centredSquare())
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}
	if im.Shapes == nil || im.Analysis == nil || im.Symmetry != shape.SymmetryXY {
		t.Fatalf("first build left stages empty: %+v", im)
	}

	opt = DefaultOptions()
	opt.ExtractShapes = false
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}
	if im.Regions != nil || im.Shapes != nil || im.Analysis != nil {
		t.Errorf("stale stages: regions %v shapes %v analysis %v", im.Regions, im.Shapes, im.Analysis)
	}
	if im.Symmetry != shape.SymmetryNone || im.Upscale != nil {
		t.Errorf("stale symmetry %v upscale %v", im.Symmetry, im.Upscale)
	}
	if len(im.Palette) != 2 {
		t.Errorf("palette = %v", im.Palette)
	}
}

// framedSprite is a 10×10 sprite: a black frame around a gray body with a
// single white pixel inside, on a transparent background.
func framedSprite() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for p := range raster.Rect(2, 2, 6, 6) {
		img.SetNRGBA(p.X, p.Y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	}
	for p := range raster.Stroke(1, 1, 8, 8, 1) {
		img.SetNRGBA(p.X, p.Y, color.NRGBA{A: 255})
	}
	img.SetNRGBA(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestBuildAnalysis(t *testing.T) {
	opt := DefaultOptions()
	opt.Analyze = true
	opt.DetectDither = true
	im := NewImporter(framedSprite())
	if err := im.Build(opt); err != nil {
		t.Fatal(err)
	}

	index := func(c colorspace.Color) int {
		for i, p := range im.Palette {
			if p == c {
				return i
			}
		}
		t.Fatalf("%v missing from palette %v", c, im.Palette)
		return -1
	}
	frame := index(colorspace.Color{A: 255})
	body := index(colorspace.Color{R: 128, G: 128, B: 128, A: 255})
	eye := index(colorspace.Color{R: 255, G: 255, B: 255, A: 255})

	rep := im.Analysis
	if rep == nil {
		t.Fatal("no analysis")
	}
	if len(rep.Outlines) != 1 || rep.Outlines[0].Token != frame {
		t.Fatalf("outlines = %+v, want the frame", rep.Outlines)
	}
	if b := rep.Outlines[0].Borders; len(b) != 1 || b[0] != body {
		t.Errorf("frame borders = %v, want [%d]", b, body)
	}
	if rep.Roles[eye].Role != analysis.RoleAnchor {
		t.Errorf("eye role = %v", rep.Roles[eye].Role)
	}
	if rep.ZOrder[eye] != 2 || rep.ZOrder[body] != 1 || rep.ZOrder[frame] != 0 {
		t.Errorf("ZOrder = %v", rep.ZOrder)
	}
	if len(rep.Dithers) != 0 {
		t.Errorf("dithers = %+v", rep.Dithers)
	}
}
