package quantize

import (
	"cmp"
	"slices"

	"github.com/setanarut/pixelsrc/colorspace"
	"gonum.org/v1/gonum/stat"
)

type labEntry struct {
	Entry
	lab colorspace.Lab
}

type bucket []labEntry

func (b bucket) weight() int {
	n := 0
	for _, e := range b {
		n += e.Count
	}
	return n
}

// widest returns the LAB channel (0 L, 1 a, 2 b) with the largest range.
// Ties prefer L, then a.
func (b bucket) widest() int {
	lo := b[0].lab.Slice()
	hi := b[0].lab.Slice()
	for _, e := range b[1:] {
		v := e.lab.Slice()
		for k := range 3 {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	rl, ra, rb := hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2]
	switch {
	case rl >= ra && rl >= rb:
		return 0
	case ra >= rb:
		return 1
	}
	return 2
}

// split sorts b along its widest channel and cuts it at the pixel-weighted
// median. Both halves are non-empty.
func (b bucket) split() (bucket, bucket) {
	ch := b.widest()
	slices.SortStableFunc(b, func(x, y labEntry) int {
		return cmp.Compare(x.lab.Slice()[ch], y.lab.Slice()[ch])
	})

	total := b.weight()
	at := len(b) / 2
	running := 0
	for i, e := range b {
		running += e.Count
		if running >= total/2 {
			at = min(i+1, len(b)-1)
			break
		}
	}
	at = min(max(at, 1), len(b)-1)
	return b[:at:at], b[at:]
}

// representative returns the member color nearest to the bucket's
// pixel-weighted LAB centroid.
func (b bucket) representative() colorspace.Color {
	ls := make([]float64, len(b))
	as := make([]float64, len(b))
	bs := make([]float64, len(b))
	ws := make([]float64, len(b))
	for i, e := range b {
		ls[i], as[i], bs[i] = e.lab.L, e.lab.A, e.lab.B
		ws[i] = float64(e.Count)
	}
	centroid := colorspace.Lab{
		L: stat.Mean(ls, ws),
		A: stat.Mean(as, ws),
		B: stat.Mean(bs, ws),
	}

	best := b[0]
	bestDist := centroid.Distance(best.lab)
	for _, e := range b[1:] {
		if d := centroid.Distance(e.lab); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best.Color
}

// MedianCut reduces h to at most maxColors colors, each taken verbatim from
// h.
//
// When h already has no more than maxColors colors it is returned as is,
// in canonical order. Otherwise transparent colors are folded into one
// reserved slot placed last, and the opaque colors are split in LAB space:
// the heaviest bucket with more than one color is cut along its widest
// channel at the pixel-weighted median until the target count is reached.
// A maxColors below 1 is treated as 1. With transparency and maxColors 1,
// one opaque color is still kept next to the transparent slot.
func MedianCut(h Histogram, maxColors int) []colorspace.Color {
	maxColors = max(maxColors, 1)
	if len(h) <= maxColors {
		return h.Colors()
	}

	opaque, transparent, hasTransparent := h.split()
	target := maxColors
	if hasTransparent {
		target = max(maxColors-1, 1)
	}

	var out []colorspace.Color
	if len(opaque) <= target {
		for _, e := range opaque {
			out = append(out, e.Color)
		}
	} else {
		first := make(bucket, len(opaque))
		for i, e := range opaque {
			first[i] = labEntry{Entry: e, lab: e.Color.Lab()}
		}
		buckets := []bucket{first}
		for len(buckets) < target {
			idx := heaviestSplittable(buckets)
			if idx < 0 {
				break
			}
			l, r := buckets[idx].split()
			buckets = slices.Delete(buckets, idx, idx+1)
			buckets = append(buckets, l, r)
		}
		for _, b := range buckets {
			out = append(out, b.representative())
		}
	}

	if hasTransparent {
		out = append(out, transparent.Color)
	}
	return out
}

// heaviestSplittable returns the index of the bucket with the largest
// pixel weight among those holding more than one color, or -1. The first
// one wins ties.
func heaviestSplittable(buckets []bucket) int {
	idx, best := -1, -1
	for i, b := range buckets {
		if len(b) < 2 {
			continue
		}
		if w := b.weight(); w > best {
			idx, best = i, w
		}
	}
	return idx
}
