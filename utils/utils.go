package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"github.com/setanarut/pixelsrc/colorspace"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrEmptyPalette = errors.New("utils: empty palette")

// luminance is the relative luminance of c from its linear RGB.
func luminance(c colorspace.Color) float64 {
	r, g, b := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortPaletteByBrightness orders colors from darkest to brightest.
// Transparent entries go first.
func SortPaletteByBrightness(palette []colorspace.Color) {
	slices.SortStableFunc(palette, func(a, b colorspace.Color) int {
		if a.IsTransparent() != b.IsTransparent() {
			if a.IsTransparent() {
				return -1
			}
			return 1
		}
		yi, yj := luminance(a), luminance(b)
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// ReadImage decodes PNG, GIF, JPEG, BMP, TIFF and WebP files.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func SaveRgbaImages(images []*image.NRGBA, dir string) error {
	for i := range images {
		if err := SaveImage(images[i], filepath.Join(dir, "rgba_0"+strconv.Itoa(i)+".png")); err != nil {
			return err
		}
	}
	return nil
}

func SaveGrayImages(images []*image.Gray, dir string) error {
	for i := range images {
		if err := SaveImage(images[i], filepath.Join(dir, "gray_0"+strconv.Itoa(i)+".png")); err != nil {
			return err
		}
	}
	return nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	return f.Close()
}

// PaletteImage draws the palette as a strip of square tiles.
func PaletteImage(palette []colorspace.Color, tileSize int) *image.NRGBA {
	if tileSize <= 0 {
		tileSize = 64
	}
	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		x0 := i * tileSize
		for y := range tileSize {
			for x := x0; x < x0+tileSize; x++ {
				img.SetNRGBA(x, y, color.NRGBA(c))
			}
		}
	}
	return img
}

func SavePalette(palette []colorspace.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return ErrEmptyPalette
	}
	return SaveImage(PaletteImage(palette, tileSize), filename)
}

// Enlarge scales img up by an integer factor with nearest-neighbour
// sampling, for previewing small sprites. A scale below 1 is treated as 1.
func Enlarge(img image.Image, scale int) image.Image {
	scale = max(scale, 1)
	b := img.Bounds()
	return resize.Resize(uint(b.Dx()*scale), uint(b.Dy()*scale), img, resize.NearestNeighbor)
}
