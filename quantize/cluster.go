package quantize

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/pixelsrc/colorspace"
)

// Method selects a palette reduction strategy.
type Method int

const (
	MethodMedianCut Method = iota
	MethodKMeans
	MethodDominant
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodDominant:
		return "dominant"
	default:
		return "median-cut"
	}
}

// ParseMethod is the inverse of Method.String.
func ParseMethod(s string) (Method, error) {
	for _, m := range []Method{MethodMedianCut, MethodKMeans, MethodDominant} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("quantize: unknown method %q", s)
}

// ErrNoCandidates is returned when a clustering strategy proposes no
// usable colors.
var ErrNoCandidates = errors.New("quantize: no palette candidates")

// maxSamples bounds the k-means observation count.
const maxSamples = 12000

// Candidate is a weighted palette proposal.
type Candidate struct {
	Color  colorspace.Color
	Weight float64
}

// proposal is a cluster centre in LAB space, before it is snapped onto
// an input color.
type proposal struct {
	lab    colorspace.Lab
	weight float64
}

// KMeans clusters the opaque colors of h in LAB space, oversampling the
// cluster count, then keeps a diverse subset of the centres. Each centre is
// snapped to the nearest color present in h. Transparent colors get their
// own slot as in MedianCut. The result may hold fewer than k colors when
// several centres snap onto the same input color.
//
// Cluster seeding is randomized, so repeated calls may differ.
func KMeans(h Histogram, k int) ([]colorspace.Color, error) {
	return reduce(h, k, func(opaque []Entry, target int) ([]proposal, error) {
		total := 0
		for _, e := range opaque {
			total += e.Count
		}
		dataset := make(clusters.Observations, 0, min(total, maxSamples+len(opaque)))
		for _, e := range opaque {
			reps := e.Count
			if total > maxSamples {
				reps = max(1, int(math.Round(float64(e.Count)*maxSamples/float64(total))))
			}
			lab := e.Color.Lab()
			for range reps {
				dataset = append(dataset, clusters.Coordinates{lab.L, lab.A, lab.B})
			}
		}

		workK := min(max(target*4, target+2), len(dataset))
		cc, err := kmeans.New().Partition(dataset, workK)
		if err != nil {
			return nil, fmt.Errorf("quantize: kmeans: %w", err)
		}
		out := make([]proposal, 0, len(cc))
		for _, c := range cc {
			if len(c.Center) < 3 || len(c.Observations) == 0 {
				continue
			}
			out = append(out, proposal{
				lab:    colorspace.Lab{L: c.Center[0], A: c.Center[1], B: c.Center[2]},
				weight: float64(len(c.Observations)),
			})
		}
		return out, nil
	})
}

// Dominant picks palette colors from the dominant colors of img, weighted
// by coverage, snapped to the colors of h (which should be img's
// histogram). Transparent colors get their own slot as in MedianCut.
func Dominant(img image.Image, h Histogram, k int) ([]colorspace.Color, error) {
	return reduce(h, k, func(_ []Entry, target int) ([]proposal, error) {
		found := dominantcolor.FindWeight(img, max(24, target*8))
		out := make([]proposal, 0, len(found))
		for _, c := range found {
			w := c.Weight
			if w <= 0 {
				w = 1e-6
			}
			out = append(out, proposal{lab: colorspace.LabFromRGB(c.RGBA.R, c.RGBA.G, c.RGBA.B), weight: w})
		}
		return out, nil
	})
}

// reduce shares the bookkeeping of the clustering strategies: the no-op
// case, the transparent slot, snapping and diversity selection.
func reduce(h Histogram, k int, propose func(opaque []Entry, target int) ([]proposal, error)) ([]colorspace.Color, error) {
	k = max(k, 1)
	if len(h) <= k {
		return h.Colors(), nil
	}

	opaque, transparent, hasTransparent := h.split()
	target := k
	if hasTransparent {
		target = max(k-1, 1)
	}

	var out []colorspace.Color
	if len(opaque) <= target {
		for _, e := range opaque {
			out = append(out, e.Color)
		}
	} else {
		props, err := propose(opaque, target)
		if err != nil {
			return nil, err
		}
		selected := SelectDiverse(snap(props, opaque), target)
		if len(selected) == 0 {
			return nil, ErrNoCandidates
		}
		for _, c := range selected {
			out = append(out, c.Color)
		}
	}

	if hasTransparent {
		out = append(out, transparent.Color)
	}
	return out, nil
}

// snap moves every proposal onto its nearest entry in LAB space. Proposals
// landing on the same entry merge their weights. The result follows the
// order of entries.
func snap(props []proposal, entries []Entry) []Candidate {
	labs := make([]colorspace.Lab, len(entries))
	for i, e := range entries {
		labs[i] = e.Color.Lab()
	}
	weights := make([]float64, len(entries))
	hit := make([]bool, len(entries))
	for _, p := range props {
		best, bestDist := 0, math.Inf(1)
		for i, l := range labs {
			if d := p.lab.Distance(l); d < bestDist {
				best, bestDist = i, d
			}
		}
		weights[best] += p.weight
		hit[best] = true
	}

	var out []Candidate
	for i, e := range entries {
		if hit[i] {
			out = append(out, Candidate{Color: e.Color, Weight: weights[i]})
		}
	}
	return out
}

// SelectDiverse greedily picks up to k candidates. It seeds with the
// heaviest one, then repeatedly adds the candidate that maximizes its LAB
// distance to the nearest pick, scaled by 0.55 + 0.45·sqrt(weight/maxWeight)
// so heavy colors are favoured. Non-positive weights count as 1e-6.
func SelectDiverse(cands []Candidate, k int) []Candidate {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	labs := make([]colorspace.Lab, len(cands))
	weights := make([]float64, len(cands))
	maxW := 0.0
	for i, c := range cands {
		labs[i] = c.Color.Lab()
		weights[i] = c.Weight
		if weights[i] <= 0 {
			weights[i] = 1e-6
		}
		maxW = max(maxW, weights[i])
	}

	seed := 0
	for i := range weights {
		if weights[i] > weights[seed] {
			seed = i
		}
	}
	picked := []int{seed}
	selected := make([]bool, len(cands))
	selected[seed] = true

	for len(picked) < k {
		bestIdx, bestScore := -1, -1.0
		for i := range cands {
			if selected[i] {
				continue
			}
			minD := math.Inf(1)
			for _, s := range picked {
				minD = min(minD, labs[i].Distance(labs[s]))
			}
			score := minD * (0.55 + 0.45*math.Sqrt(weights[i]/maxW))
			if score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		picked = append(picked, bestIdx)
	}

	out := make([]Candidate, len(picked))
	for i, idx := range picked {
		out[i] = cands[idx]
	}
	return out
}
