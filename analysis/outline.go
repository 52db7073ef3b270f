package analysis

import (
	"image"
	"slices"
)

// Outline marks a token that draws thin dark lines around other tokens.
type Outline struct {
	Token int
	// Opaque tokens touching the outline, 8-connected, ascending.
	Borders []int
	// Estimated stroke width in pixels.
	Width      float64
	Confidence float64
}

// Outline acceptance limits.
const (
	maxOutlineBrightness = 0.3
	minOutlineWidth      = 0.8
	maxOutlineWidth      = 3.5
	minOutlineConfidence = 0.3
)

// DetectOutlines finds dark, thin tokens that border other tokens. The
// score mixes how close the width is to one or two pixels with the number
// of bordered tokens, scaled by darkness.
func DetectOutlines(tokens []Token) []Outline {
	own := owners(tokens)
	var out []Outline
	for i, t := range tokens {
		if !opaque(tokens, i) {
			continue
		}
		lum := brightness(t.Color)
		if lum > maxOutlineBrightness {
			continue
		}
		width := strokeWidth(t)
		if width < minOutlineWidth || width > maxOutlineWidth {
			continue
		}
		borders := bordered(tokens, i, own)
		if len(borders) == 0 {
			continue
		}

		widthScore := 0.6
		switch {
		case width >= 1 && width <= 2:
			widthScore = 1
		case width <= 3:
			widthScore = 0.8
		}
		borderScore := min(float64(len(borders))/5, 1)
		conf := (widthScore*0.6 + borderScore*0.4) * (1 - lum)
		if conf < minOutlineConfidence {
			continue
		}
		out = append(out, Outline{Token: i, Borders: borders, Width: width, Confidence: conf})
	}
	return out
}

// strokeWidth approximates the mean width of a region as its area over
// half its perimeter, counting as perimeter every pixel with a missing
// 4-neighbour.
func strokeWidth(t Token) float64 {
	perimeter := 0
	for p := range t.Mask {
		for k := range 4 {
			if !t.Mask.Contains(image.Pt(p.X+dx4[k], p.Y+dy4[k])) {
				perimeter++
				break
			}
		}
	}
	return float64(t.Mask.Len()) / (float64(perimeter) / 2)
}

func bordered(tokens []Token, i int, own map[image.Point]int) []int {
	seen := make(map[int]bool)
	for p := range tokens[i].Mask {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				j, ok := own[image.Pt(p.X+dx, p.Y+dy)]
				if ok && j != i && opaque(tokens, j) {
					seen[j] = true
				}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for j := range seen {
		out = append(out, j)
	}
	slices.Sort(out)
	return out
}
