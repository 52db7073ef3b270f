package analysis

import (
	"image"

	"github.com/setanarut/pixelsrc/colorspace"
)

// Pattern is the arrangement of a two-token dither.
type Pattern int

const (
	Checkerboard Pattern = iota
	HorizontalLines
	VerticalLines
)

func (p Pattern) String() string {
	switch p {
	case HorizontalLines:
		return "horizontal-lines"
	case VerticalLines:
		return "vertical-lines"
	default:
		return "checkerboard"
	}
}

// Dither is an area where two tokens alternate in a regular pattern.
type Dither struct {
	Tokens  [2]int
	Pattern Pattern
	// Overlap of the two tokens' bounding boxes.
	Bounds image.Rectangle
	// Channel-wise mean of the two colors, a candidate replacement.
	Merged     colorspace.Color
	Confidence float64
}

type ditherRule struct {
	pattern     Pattern
	minMatch    float64
	minCoverage float64
	// even reports whether (x, y) should hold the first token.
	even func(x, y int) bool
}

var ditherRules = []ditherRule{
	{Checkerboard, 0.8, 0.7, func(x, y int) bool { return (x+y)%2 == 0 }},
	{HorizontalLines, 0.9, 0.8, func(_, y int) bool { return y%2 == 0 }},
	{VerticalLines, 0.9, 0.8, func(x, _ int) bool { return x%2 == 0 }},
}

// DetectDither checks every pair of opaque tokens for checkerboard,
// horizontal-line and vertical-line alternation inside the overlap of
// their bounding boxes. Either phase of a pattern is accepted. Confidence
// is the match ratio times the fraction of the overlap covered by any
// token.
func DetectDither(tokens []Token) []Dither {
	own := owners(tokens)
	var out []Dither
	for i := range tokens {
		if !opaque(tokens, i) {
			continue
		}
		for j := i + 1; j < len(tokens); j++ {
			if !opaque(tokens, j) {
				continue
			}
			bi, _ := tokens[i].Mask.Bounds()
			bj, _ := tokens[j].Mask.Bounds()
			area := bi.Intersect(bj)
			if area.Empty() {
				continue
			}
			for _, rule := range ditherRules {
				if d, ok := matchDither(tokens, i, j, area, own, rule); ok {
					out = append(out, d)
				}
			}
		}
	}
	return out
}

func matchDither(tokens []Token, i, j int, area image.Rectangle, own map[image.Point]int, rule ditherRule) (Dither, bool) {
	cells, direct, inverse := 0, 0, 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			t, ok := own[image.Pt(x, y)]
			if !ok {
				continue
			}
			cells++
			first, second := i, j
			if !rule.even(x, y) {
				first, second = j, i
			}
			switch t {
			case first:
				direct++
			case second:
				inverse++
			}
		}
	}
	if cells < 4 {
		return Dither{}, false
	}
	lines := area.Dx()
	if rule.pattern == HorizontalLines {
		lines = area.Dy()
	}
	if rule.pattern != Checkerboard && lines < 2 {
		return Dither{}, false
	}

	match := float64(max(direct, inverse)) / float64(cells)
	coverage := float64(cells) / float64(area.Dx()*area.Dy())
	if match < rule.minMatch || coverage < rule.minCoverage {
		return Dither{}, false
	}
	return Dither{
		Tokens:     [2]int{i, j},
		Pattern:    rule.pattern,
		Bounds:     area,
		Merged:     mean(tokens[i].Color, tokens[j].Color),
		Confidence: match * coverage,
	}, true
}

func mean(a, b colorspace.Color) colorspace.Color {
	return colorspace.Color{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
		A: uint8((int(a.A) + int(b.A)) / 2),
	}
}
