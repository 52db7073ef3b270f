package pixelsrc

import (
	"image"

	"github.com/setanarut/pixelsrc/quantize"
	"github.com/setanarut/pixelsrc/region"
)

type Options struct {
	// Upper bound on the palette size, transparent slot included.
	// Must be at least 1.
	MaxColors int
	// Palette reduction strategy. Falls back to median cut when the
	// chosen strategy fails.
	Method quantize.Method
	// Encode every token's pixels as structured regions.
	ExtractShapes bool
	// Detect mirror symmetry, classify every token's mask as a shape and
	// infer roles, relationships, z-order and outlines.
	Analyze bool
	// With Analyze, also look for two-token dither patterns.
	DetectDither bool
	// When > 0, replaces every shape detector's acceptance threshold and
	// drops analysis results scoring below it. Must lie in [0, 1].
	Confidence float64
	// Keep only the primary half of each region when the sprite is
	// symmetric. Implies symmetry detection.
	HalfSprite bool
	// Detect nearest-neighbour upscaling and work at native resolution.
	DetectUpscale bool
	// Encoding for components that are not exact rectangles.
	Strategy region.Strategy
}

func DefaultOptions() Options {
	return Options{
		MaxColors:     16,
		Method:        quantize.MethodMedianCut,
		ExtractShapes: true,
		Strategy:      region.StrategyPoints,
	}
}

// OptionsFromSize scales the palette bound with the sprite area. Small
// sprites keep the default; larger artwork gets room for more shades.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	pixels := size.X * size.Y
	switch {
	case pixels > 512*512:
		opt.MaxColors = 64
	case pixels > 128*128:
		opt.MaxColors = 32
	}
	// Large inputs are often upscaled pixel art.
	opt.DetectUpscale = pixels > 256*256
	return opt
}
