package region

import (
	"image"
	"testing"

	"github.com/setanarut/pixelsrc/shape"
)

func TestFilterForHalfRect(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		sym  shape.Symmetry
		w, h int
		want Region
	}{
		{"x even", Rect{0, 0, 10, 4}, shape.SymmetryX, 10, 4, Rect{0, 0, 5, 4}},
		{"x odd keeps centre", Rect{0, 0, 5, 1}, shape.SymmetryX, 5, 1, Rect{0, 0, 3, 1}},
		{"y odd keeps centre", Rect{1, 0, 2, 7}, shape.SymmetryY, 4, 7, Rect{1, 0, 2, 4}},
		{"xy", Rect{0, 0, 6, 6}, shape.SymmetryXY, 6, 6, Rect{0, 0, 3, 3}},
		{"inside", Rect{0, 0, 2, 2}, shape.SymmetryXY, 8, 8, Rect{0, 0, 2, 2}},
		{"x outside", Rect{6, 0, 2, 2}, shape.SymmetryX, 10, 4, Points{}},
		{"y outside", Rect{0, 5, 2, 2}, shape.SymmetryY, 4, 8, Points{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterForHalf(tt.r, tt.sym, tt.w, tt.h)
			if want, ok := tt.want.(Rect); ok {
				if got != Region(want) {
					t.Errorf("FilterForHalf = %#v, want %#v", got, want)
				}
				return
			}
			if !IsEmpty(got) {
				t.Errorf("FilterForHalf = %#v, want empty", got)
			}
		})
	}
}

func TestFilterForHalfPoints(t *testing.T) {
	p := Points{Pixels: []image.Point{{0, 0}, {2, 0}, {3, 0}, {0, 2}, {2, 2}}}
	got := FilterForHalf(p, shape.SymmetryXY, 5, 5).(Points)
	want := []image.Point{{0, 0}, {2, 0}, {0, 2}, {2, 2}}
	if len(got.Pixels) != len(want) {
		t.Fatalf("FilterForHalf = %v, want %v", got.Pixels, want)
	}
	for i := range want {
		if got.Pixels[i] != want[i] {
			t.Errorf("pixel %d = %v, want %v", i, got.Pixels[i], want[i])
		}
	}
}

func TestFilterForHalfPolygon(t *testing.T) {
	poly := Polygon{Vertices: []image.Point{{0, 0}, {3, 0}, {3, 3}, {0, 3}}}
	got, ok := FilterForHalf(poly, shape.SymmetryX, 4, 4).(Points)
	if !ok {
		t.Fatalf("polygon filter = %T, want Points", got)
	}
	if len(got.Pixels) != 8 {
		t.Errorf("got %d pixels, want 8", len(got.Pixels))
	}
}

func TestFilterForHalfUnion(t *testing.T) {
	u := Union{Members: []Region{
		Rect{0, 0, 2, 2},
		Rect{8, 0, 2, 2},
		Points{Pixels: []image.Point{{9, 9}}},
	}}
	got := FilterForHalf(u, shape.SymmetryX, 10, 10)
	if got != Region(Rect{0, 0, 2, 2}) {
		t.Errorf("singleton union = %#v, want the rect", got)
	}

	u.Members = append(u.Members, Points{Pixels: []image.Point{{1, 5}}})
	if m, ok := FilterForHalf(u, shape.SymmetryX, 10, 10).(Union); !ok || len(m.Members) != 2 {
		t.Errorf("filtered union = %#v, want 2 members", m)
	}

	all := Union{Members: []Region{Rect{8, 0, 2, 2}}}
	if got := FilterForHalf(all, shape.SymmetryX, 10, 10); !IsEmpty(got) {
		t.Errorf("fully filtered union = %#v, want empty", got)
	}
}

func TestFilterForHalfNone(t *testing.T) {
	r := Rect{5, 5, 5, 5}
	if got := FilterForHalf(r, shape.SymmetryNone, 10, 10); got != Region(r) {
		t.Errorf("SymmetryNone changed the region: %#v", got)
	}
}
