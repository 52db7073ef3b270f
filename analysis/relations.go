package analysis

import (
	"cmp"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/pixelsrc/colorspace"
	"github.com/setanarut/pixelsrc/raster"
)

// RelationKind names how two tokens relate.
type RelationKind int

const (
	// Source is a lighter or darker shade of Target's hue.
	DerivesFrom RelationKind = iota
	// Source sits inside Target's bounding box, mostly surrounded by it.
	ContainedWithin
	// Source and Target share a 4-connected border.
	AdjacentTo
	// Source and Target mirror each other across the vertical centre line.
	PairedWith
)

func (k RelationKind) String() string {
	switch k {
	case DerivesFrom:
		return "derives-from"
	case ContainedWithin:
		return "contained-within"
	case AdjacentTo:
		return "adjacent-to"
	case PairedWith:
		return "paired-with"
	default:
		return "unknown"
	}
}

// Relationship is a directed relation between two token indices.
type Relationship struct {
	Source, Target int
	Kind           RelationKind
	Confidence     float64
}

// InferRelationships relates every pair of opaque tokens on a sprite of
// width w. DerivesFrom is checked in both directions, containment in
// both directions, adjacency and pairing once per pair. The result is
// ordered by confidence, highest first; equal scores keep pair order.
func InferRelationships(tokens []Token, w int) []Relationship {
	var out []Relationship
	add := func(src, dst int, k RelationKind, conf float64, ok bool) {
		if ok {
			out = append(out, Relationship{Source: src, Target: dst, Kind: k, Confidence: min(max(conf, 0), 1)})
		}
	}

	for i := range tokens {
		if !opaque(tokens, i) {
			continue
		}
		for j := range tokens {
			if i == j || !opaque(tokens, j) {
				continue
			}
			a, b := tokens[i], tokens[j]
			conf, ok := derivesFrom(a.Color, b.Color)
			add(i, j, DerivesFrom, conf, ok)
			if i > j {
				continue
			}
			conf, ok = containedWithin(a.Mask, b.Mask)
			add(i, j, ContainedWithin, conf, ok)
			conf, ok = containedWithin(b.Mask, a.Mask)
			add(j, i, ContainedWithin, conf, ok)
			conf, ok = adjacentTo(a.Mask, b.Mask)
			add(i, j, AdjacentTo, conf, ok)
			conf, ok = pairedWith(a.Mask, b.Mask, w)
			add(i, j, PairedWith, conf, ok)
		}
	}

	slices.SortStableFunc(out, func(x, y Relationship) int {
		return cmp.Compare(y.Confidence, x.Confidence)
	})
	return out
}

// derivesFrom matches colors of nearly the same hue and saturation that
// differ in lightness.
func derivesFrom(src, dst colorspace.Color) (float64, bool) {
	sh, ss, sl := hsl(src)
	th, ts, tl := hsl(dst)

	hueDiff := math.Abs(sh - th)
	hueDiff = min(hueDiff, 360-hueDiff)
	satDiff := math.Abs(ss - ts)
	lightDiff := math.Abs(sl - tl)
	if hueDiff > 15 || satDiff > 0.15 || lightDiff < 0.1 {
		return 0, false
	}

	hueScore := 1 - hueDiff/15
	satScore := 1 - satDiff/0.15
	lightScore := min(lightDiff-0.1, 0.4) / 0.4
	conf := hueScore*0.3 + satScore*0.3 + lightScore*0.4
	return conf, conf >= 0.5
}

func hsl(c colorspace.Color) (h, s, l float64) {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hsl()
}

// containedWithin requires inner's bounding box to lie within outer's and
// at least half of inner's pixels to touch outer.
func containedWithin(inner, outer raster.Mask) (float64, bool) {
	ib, ok1 := inner.Bounds()
	ob, ok2 := outer.Bounds()
	if !ok1 || !ok2 || !ib.In(ob) {
		return 0, false
	}
	ratio := float64(touchCount(inner, outer)) / float64(inner.Len())
	if ratio < 0.5 {
		return 0, false
	}
	return ratio*0.7 + 0.3, true
}

func adjacentTo(a, b raster.Mask) (float64, bool) {
	n := touchCount(a, b)
	if n == 0 {
		return 0, false
	}
	ratio := float64(n) / float64(min(a.Len(), b.Len()))
	return 0.5 + ratio*0.5, true
}

// pairedWith compares b with a mirrored across the sprite's vertical
// centre line, by size, centroid position and pixel overlap.
func pairedWith(a, b raster.Mask, w int) (float64, bool) {
	sa, sb := a.Len(), b.Len()
	if sa == 0 || sb == 0 || w <= 0 {
		return 0, false
	}
	sizeRatio := float64(min(sa, sb)) / float64(max(sa, sb))
	if sizeRatio < 0.8 {
		return 0, false
	}

	ax, ay := centroid(a)
	bx, by := centroid(b)
	tolerance := float64(w) * 0.1
	xDiff := math.Abs(bx - (float64(w) - ax))
	yDiff := math.Abs(ay - by)
	if xDiff > tolerance || yDiff > tolerance {
		return 0, false
	}

	mirrored := make(raster.Mask, sa)
	for p := range a {
		p.X = w - 1 - p.X
		mirrored.Add(p)
	}
	inter := raster.Intersect(mirrored, b).Len()
	similarity := float64(inter) / float64(raster.Union(mirrored, b).Len())
	if similarity < 0.5 {
		return 0, false
	}

	position := 1 - (xDiff+yDiff)/(2*tolerance)
	conf := sizeRatio*0.2 + similarity*0.5 + position*0.3
	return conf, conf >= 0.6
}

func centroid(m raster.Mask) (x, y float64) {
	var sx, sy int64
	for p := range m {
		sx += int64(p.X)
		sy += int64(p.Y)
	}
	n := float64(m.Len())
	return float64(sx) / n, float64(sy) / n
}

// ZOrder assigns each of n tokens a stacking level: tokens contained in
// nothing sit at 0, the rest one above their highest container. Tokens on
// a containment cycle fall back to 0 at the point the cycle closes.
func ZOrder(n int, rels []Relationship) []int {
	containers := make([][]int, n)
	for _, r := range rels {
		if r.Kind == ContainedWithin && r.Source < n && r.Target < n {
			containers[r.Source] = append(containers[r.Source], r.Target)
		}
	}

	z := make([]int, n)
	done := make([]bool, n)
	active := make([]bool, n)
	var level func(i int) int
	level = func(i int) int {
		if done[i] {
			return z[i]
		}
		if active[i] {
			return 0
		}
		active[i] = true
		v := 0
		if len(containers[i]) > 0 {
			top := 0
			for _, c := range containers[i] {
				top = max(top, level(c))
			}
			v = top + 1
		}
		active[i] = false
		done[i] = true
		z[i] = v
		return v
	}
	for i := range n {
		level(i)
	}
	return z
}
