// Package analysis infers semantic structure from per-token pixel masks:
// the role each token plays in a sprite, pairwise relationships between
// tokens, a stacking order derived from containment, outline tokens and
// two-token dither patterns.
//
// Tokens are identified by their index in the slice passed to Analyze.
// Transparent tokens take part in no analysis. Every function is pure.
package analysis

import (
	"image"
	"sync"

	"github.com/setanarut/pixelsrc/colorspace"
	"github.com/setanarut/pixelsrc/raster"
)

// Token is one palette entry together with the pixels that use it.
type Token struct {
	Color colorspace.Color
	Mask  raster.Mask
}

// Config selects the analyses and their acceptance level.
type Config struct {
	// Results scoring below this are dropped. Zero keeps everything.
	MinConfidence float64
	// Search for dither patterns between token pairs.
	Dither bool
}

// Report collects the results of Analyze. Roles and ZOrder are indexed
// like the input tokens.
type Report struct {
	Roles         []RoleInference
	Relationships []Relationship
	ZOrder        []int
	Outlines      []Outline
	Dithers       []Dither
}

// Analyze runs every enabled analysis over tokens on a w×h canvas. The
// independent analyses run concurrently.
func Analyze(tokens []Token, w, h int, cfg Config) Report {
	var rep Report
	var wg sync.WaitGroup
	wg.Go(func() {
		rep.Roles = InferRoles(tokens, w, h)
		for i, r := range rep.Roles {
			if r.Confidence < cfg.MinConfidence {
				rep.Roles[i] = RoleInference{}
			}
		}
	})
	wg.Go(func() {
		rep.Relationships = keep(InferRelationships(tokens, w), cfg.MinConfidence, func(r Relationship) float64 { return r.Confidence })
	})
	wg.Go(func() {
		rep.Outlines = keep(DetectOutlines(tokens), cfg.MinConfidence, func(o Outline) float64 { return o.Confidence })
	})
	if cfg.Dither {
		wg.Go(func() {
			rep.Dithers = keep(DetectDither(tokens), cfg.MinConfidence, func(d Dither) float64 { return d.Confidence })
		})
	}
	wg.Wait()

	rep.ZOrder = ZOrder(len(tokens), rep.Relationships)
	return rep
}

func keep[T any](items []T, minConf float64, conf func(T) float64) []T {
	out := items[:0]
	for _, it := range items {
		if conf(it) >= minConf {
			out = append(out, it)
		}
	}
	return out
}

// brightness is the perceived brightness of c in [0, 1], ignoring alpha.
func brightness(c colorspace.Color) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

var (
	dx4 = [4]int{-1, 1, 0, 0}
	dy4 = [4]int{0, 0, -1, 1}
)

// touchCount counts the pixels of a with a 4-neighbour in b.
func touchCount(a, b raster.Mask) int {
	n := 0
	for p := range a {
		for k := range 4 {
			if b.Contains(image.Pt(p.X+dx4[k], p.Y+dy4[k])) {
				n++
				break
			}
		}
	}
	return n
}

// owners maps every pixel to the index of the token covering it.
func owners(tokens []Token) map[image.Point]int {
	n := 0
	for _, t := range tokens {
		n += t.Mask.Len()
	}
	m := make(map[image.Point]int, n)
	for i, t := range tokens {
		for p := range t.Mask {
			m[p] = i
		}
	}
	return m
}

// opaque reports whether token i takes part in the analyses.
func opaque(tokens []Token, i int) bool {
	return !tokens[i].Color.IsTransparent() && tokens[i].Mask.Len() > 0
}
