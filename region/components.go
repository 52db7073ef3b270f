package region

import (
	"image"

	"github.com/setanarut/pixelsrc/raster"
)

var (
	dx4 = [4]int{-1, 1, 0, 0}
	dy4 = [4]int{0, 0, -1, 1}
)

// ConnectedComponents partitions m into maximal 4-connected components.
// The components are disjoint and together hold every pixel of m. They are
// returned ordered by their first pixel in row-major order.
func ConnectedComponents(m raster.Mask) []raster.Mask {
	visited := make(raster.Mask, m.Len())
	var comps []raster.Mask
	var queue []image.Point

	for _, start := range m.Sorted() {
		if visited.Contains(start) {
			continue
		}
		comp := raster.NewMask(start)
		visited.Add(start)
		queue = append(queue[:0], start)
		for c := 0; c < len(queue); c++ {
			cur := queue[c]
			for k := range 4 {
				n := image.Pt(cur.X+dx4[k], cur.Y+dy4[k])
				if m.Contains(n) && !visited.Contains(n) {
					visited.Add(n)
					comp.Add(n)
					queue = append(queue, n)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
