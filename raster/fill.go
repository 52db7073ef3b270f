package raster

import "image"

// Union returns every pixel present in at least one of the masks.
func Union(masks ...Mask) Mask {
	out := make(Mask)
	for _, m := range masks {
		for p := range m {
			out[p] = struct{}{}
		}
	}
	return out
}

// Subtract returns the pixels of base that appear in none of removals.
func Subtract(base Mask, removals ...Mask) Mask {
	out := base.Clone()
	for _, r := range removals {
		for p := range r {
			delete(out, p)
		}
	}
	return out
}

// Intersect returns the pixels common to all masks. No masks yields an
// empty mask and a single mask yields a copy of it.
func Intersect(masks ...Mask) Mask {
	if len(masks) == 0 {
		return make(Mask)
	}
	out := masks[0].Clone()
	for _, m := range masks[1:] {
		for p := range out {
			if !m.Contains(p) {
				delete(out, p)
			}
		}
	}
	return out
}

var (
	dx4 = [4]int{-1, 1, 0, 0}
	dy4 = [4]int{0, 0, -1, 1}
)

// FloodFill fills the 4-connected area reachable from seed inside the
// canvas [0,w)×[0,h), treating boundary pixels as walls. The boundary
// itself is never part of the result. A seed that lies on the boundary or
// off the canvas gives an empty mask.
func FloodFill(boundary Mask, seed image.Point, w, h int) Mask {
	filled := make(Mask)
	if w <= 0 || h <= 0 || !fillable(seed, boundary, w, h) {
		return filled
	}

	queue := make([]image.Point, 1, 64)
	queue[0] = seed
	filled.Add(seed)
	for c := 0; c < len(queue); c++ {
		cur := queue[c]
		for k := range 4 {
			n := image.Pt(cur.X+dx4[k], cur.Y+dy4[k])
			if fillable(n, boundary, w, h) && !filled.Contains(n) {
				filled.Add(n)
				queue = append(queue, n)
			}
		}
	}
	return filled
}

// FloodFillExcept is FloodFill with the holes treated as additional walls.
func FloodFillExcept(boundary Mask, holes []Mask, seed image.Point, w, h int) Mask {
	walls := Union(append([]Mask{boundary}, holes...)...)
	return FloodFill(walls, seed, w, h)
}

// InteriorSeed picks a starting point for FloodFill. It tries the centre
// of the boundary's bounding box first, then walks outward ring by ring.
// An empty boundary seeds the canvas origin.
func InteriorSeed(boundary Mask, w, h int) (image.Point, bool) {
	if w <= 0 || h <= 0 {
		return image.Point{}, false
	}
	b, ok := boundary.Bounds()
	if !ok {
		return image.Point{}, true
	}

	maxX, maxY := b.Max.X-1, b.Max.Y-1
	center := image.Pt((b.Min.X+maxX)/2, (b.Min.Y+maxY)/2)
	if fillable(center, boundary, w, h) {
		return center, true
	}

	maxRadius := max(maxX-b.Min.X, maxY-b.Min.Y)
	for r := 1; r <= maxRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				p := center.Add(image.Pt(dx, dy))
				if fillable(p, boundary, w, h) {
					return p, true
				}
			}
		}
	}
	return image.Point{}, false
}

func fillable(p image.Point, boundary Mask, w, h int) bool {
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h && !boundary.Contains(p)
}
