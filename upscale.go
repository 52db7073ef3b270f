package pixelsrc

import (
	"image"
	"image/color"

	"github.com/setanarut/pixelsrc/colorspace"
)

// Upscale describes nearest-neighbour upscaling found in an image.
type Upscale struct {
	Scale      int
	NativeSize image.Point
	// Fraction of Scale×Scale blocks that hold a single color.
	Confidence float64
}

var upscaleFactors = []int{2, 3, 4, 5, 6, 8}

// minUniformBlocks is the fraction of uniform blocks a factor needs.
const minUniformBlocks = 0.95

// DetectUpscale checks the factors 2, 3, 4, 5, 6 and 8 that divide both
// dimensions and reports the largest one for which at least 95% of the
// blocks are uniform, so a 4x image is reported as 4x rather than 2x.
// Options.Confidence does not apply here. Build downscales a detected
// image to its native size before quantizing.
func DetectUpscale(img image.Image) (Upscale, bool) {
	src := toNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	var best Upscale
	found := false
	for _, s := range upscaleFactors {
		if w < s || h < s || w%s != 0 || h%s != 0 {
			continue
		}
		if conf := uniformBlocks(src, s); conf >= minUniformBlocks {
			best = Upscale{Scale: s, NativeSize: image.Pt(w/s, h/s), Confidence: conf}
			found = true
		}
	}
	return best, found
}

// uniformBlocks returns the fraction of s×s blocks whose pixels all match
// the block's top-left pixel.
func uniformBlocks(img *image.NRGBA, s int) float64 {
	nw, nh := img.Rect.Dx()/s, img.Rect.Dy()/s
	uniform := 0
	for by := range nh {
		for bx := range nw {
			if blockUniform(img, bx*s, by*s, s) {
				uniform++
			}
		}
	}
	return float64(uniform) / float64(nw*nh)
}

func blockUniform(img *image.NRGBA, x0, y0, s int) bool {
	i0 := img.PixOffset(x0, y0)
	base := img.Pix[i0 : i0+4]
	for dy := range s {
		for dx := range s {
			i := img.PixOffset(x0+dx, y0+dy)
			p := img.Pix[i : i+4]
			if p[0] != base[0] || p[1] != base[1] || p[2] != base[2] || p[3] != base[3] {
				return false
			}
		}
	}
	return true
}

// downscale reduces img to u.NativeSize, painting each native pixel with
// the most common color of its block, so every output color occurs in img.
// On a tie the color that reached the count first wins.
func downscale(img *image.NRGBA, u Upscale) *image.NRGBA {
	s := u.Scale
	out := image.NewNRGBA(image.Rect(0, 0, u.NativeSize.X, u.NativeSize.Y))
	counts := make(map[colorspace.Color]int, s*s)
	for by := range u.NativeSize.Y {
		for bx := range u.NativeSize.X {
			clear(counts)
			var best colorspace.Color
			bestN := 0
			for dy := range s {
				i := img.PixOffset(bx*s, by*s+dy)
				for range s {
					p := img.Pix[i : i+4 : i+4]
					c := colorspace.Color{R: p[0], G: p[1], B: p[2], A: p[3]}
					counts[c]++
					if counts[c] > bestN {
						best, bestN = c, counts[c]
					}
					i += 4
				}
			}
			out.SetNRGBA(bx, by, color.NRGBA(best))
		}
	}
	return out
}
