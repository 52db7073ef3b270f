package raster

import (
	"image"
	"slices"
)

// Points returns the given coordinates as a mask, dropping duplicates.
func Points(coords []image.Point) Mask {
	return NewMask(coords...)
}

// Line rasterizes the segment p0-p1 with Bresenham's integer algorithm.
// The traversal always starts at the lexicographically smaller endpoint
// (by x, then y), so Line(p0, p1) and Line(p1, p0) are identical.
func Line(p0, p1 image.Point) Mask {
	if p1.X < p0.X || (p1.X == p0.X && p1.Y < p0.Y) {
		p0, p1 = p1, p0
	}
	m := make(Mask)

	x0, y0 := p0.X, p0.Y
	x1, y1 := p1.X, p1.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		m.Add(image.Pt(x0, y0))
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return m
}

// Rect returns every cell of the w×h rectangle whose top-left corner is
// (x, y). Non-positive dimensions give an empty mask.
func Rect(x, y, w, h int) Mask {
	m := make(Mask)
	if w <= 0 || h <= 0 {
		return m
	}
	for dy := range h {
		for dx := range w {
			m.Add(image.Pt(x+dx, y+dy))
		}
	}
	return m
}

// Stroke returns the outline of the w×h rectangle at (x, y). The top and
// bottom bands are min(thickness, h) rows tall, the left and right bands
// min(thickness, w) columns wide, so a large thickness degenerates into a
// filled rectangle.
func Stroke(x, y, w, h, thickness int) Mask {
	m := make(Mask)
	if w <= 0 || h <= 0 || thickness <= 0 {
		return m
	}
	for dx := range w {
		for t := range min(thickness, h) {
			m.Add(image.Pt(x+dx, y+t))
			m.Add(image.Pt(x+dx, y+h-1-t))
		}
	}
	for dy := range h {
		for t := range min(thickness, w) {
			m.Add(image.Pt(x+t, y+dy))
			m.Add(image.Pt(x+w-1-t, y+dy))
		}
	}
	return m
}

// Ellipse returns a filled ellipse centred on (cx, cy) with radii rx, ry,
// traced with the two-region midpoint algorithm. Each step fills the whole
// horizontal span of its row and the mirrored row. Decision terms are
// quadratic in the radii and are kept in int64.
func Ellipse(cx, cy, rx, ry int) Mask {
	m := make(Mask)
	if rx <= 0 || ry <= 0 {
		return m
	}

	cx64, cy64 := int64(cx), int64(cy)
	rxSq := int64(rx) * int64(rx)
	rySq := int64(ry) * int64(ry)

	x := int64(0)
	y := int64(ry)
	dx := 2 * rySq * x
	dy := 2 * rxSq * y

	// Region 1: slope magnitude below 1, step along x.
	p1 := rySq - rxSq*int64(ry) + rxSq/4
	for dx < dy {
		fillSpans(m, cx64, cy64, x, y)
		x++
		dx += 2 * rySq
		if p1 < 0 {
			p1 += dx + rySq
		} else {
			y--
			dy -= 2 * rxSq
			p1 += dx - dy + rySq
		}
	}

	// Region 2: slope magnitude at least 1, step along y.
	p2 := rySq*(x+1)*(x+1)/4 + rxSq*(y-1)*(y-1) - rxSq*rySq
	for y >= 0 {
		fillSpans(m, cx64, cy64, x, y)
		y--
		dy -= 2 * rxSq
		if p2 > 0 {
			p2 += rxSq - dy
		} else {
			x++
			dx += 2 * rySq
			p2 += dx - dy + rxSq
		}
	}
	return m
}

// fillSpans adds the rows cy+y and cy-y from cx-x to cx+x inclusive.
func fillSpans(m Mask, cx, cy, x, y int64) {
	for sx := -x; sx <= x; sx++ {
		m.Add(image.Pt(int(cx+sx), int(cy+y)))
		m.Add(image.Pt(int(cx+sx), int(cy-y)))
	}
}

// Polygon fills the polygon described by vertices with a horizontal
// scanline pass. Every vertex and every horizontal edge is part of the
// result. For the remaining edges the y-span is half-open (the upper
// endpoint is excluded), so a vertex shared by two edges is counted once.
// Intersections on a scanline are sorted and filled inclusively in pairs.
// Fewer than three vertices give an empty mask.
func Polygon(vertices []image.Point) Mask {
	m := make(Mask)
	if len(vertices) < 3 {
		return m
	}

	minY, maxY := vertices[0].Y, vertices[0].Y
	for _, v := range vertices {
		m.Add(v)
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
	}

	n := len(vertices)
	xs := make([]int, 0, n)
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range n {
			a := vertices[i]
			b := vertices[(i+1)%n]
			if a.Y == b.Y {
				if a.Y == y {
					for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
						m.Add(image.Pt(x, y))
					}
				}
				continue
			}
			if y >= min(a.Y, b.Y) && y < max(a.Y, b.Y) {
				xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := xs[i]; x <= xs[i+1]; x++ {
				m.Add(image.Pt(x, y))
			}
		}
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
