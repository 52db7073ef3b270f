package analysis

import (
	"image"
	"slices"
	"testing"

	"github.com/setanarut/pixelsrc/colorspace"
	"github.com/setanarut/pixelsrc/raster"
)

var (
	black = colorspace.Color{A: 255}
	gray  = colorspace.Color{R: 128, G: 128, B: 128, A: 255}
	white = colorspace.Color{R: 255, G: 255, B: 255, A: 255}
	red   = colorspace.Color{R: 255, A: 255}
	blue  = colorspace.Color{B: 255, A: 255}
)

// framedSprite is a 10×10 sprite: a black one pixel frame at (1,1)-(8,8)
// around a gray body with a single white pixel at (4,4). Token 0 is the
// transparent remainder.
func framedSprite() []Token {
	frame := raster.Stroke(1, 1, 8, 8, 1)
	eye := raster.NewMask(image.Pt(4, 4))
	body := raster.Subtract(raster.Rect(2, 2, 6, 6), eye)
	bg := raster.Subtract(raster.Rect(0, 0, 10, 10), frame, body, eye)
	return []Token{
		{Color: colorspace.Transparent, Mask: bg},
		{Color: black, Mask: frame},
		{Color: gray, Mask: body},
		{Color: white, Mask: eye},
	}
}

func TestInferRoles(t *testing.T) {
	roles := InferRoles(framedSprite(), 10, 10)
	want := []Role{RoleNone, RoleShadow, RoleFill, RoleAnchor}
	for i, r := range roles {
		if r.Role != want[i] {
			t.Errorf("token %d role = %v, want %v", i, r.Role, want[i])
		}
	}
	if roles[3].Confidence != 1 {
		t.Errorf("anchor confidence = %v, want 1", roles[3].Confidence)
	}
	if c := roles[2].Confidence; c < 0.87 || c > 0.89 {
		t.Errorf("fill confidence = %v, want about 0.88", c)
	}
}

func TestInferRolesBoundary(t *testing.T) {
	tokens := []Token{
		{Color: red, Mask: raster.Rect(0, 0, 5, 1)},
		{Color: blue, Mask: raster.Rect(0, 1, 5, 4)},
	}
	roles := InferRoles(tokens, 5, 5)
	if roles[0].Role != RoleBoundary || roles[0].Confidence < 0.99 {
		t.Errorf("top row = %+v, want boundary at 1", roles[0])
	}
}

func TestInferRelationships(t *testing.T) {
	rels := InferRelationships(framedSprite(), 10)
	has := func(src, dst int, k RelationKind) (Relationship, bool) {
		for _, r := range rels {
			if r.Source == src && r.Target == dst && r.Kind == k {
				return r, true
			}
		}
		return Relationship{}, false
	}

	if r, ok := has(3, 2, ContainedWithin); !ok || r.Confidence != 1 {
		t.Errorf("eye in body = %+v, %v", r, ok)
	}
	if r, ok := has(2, 1, ContainedWithin); !ok || r.Confidence < 0.69 || r.Confidence > 0.71 {
		t.Errorf("body in frame = %+v, %v", r, ok)
	}
	if _, ok := has(3, 1, ContainedWithin); ok {
		t.Error("eye does not touch the frame")
	}
	if _, ok := has(1, 2, AdjacentTo); !ok {
		t.Error("frame and body share a border")
	}
	if _, ok := has(1, 2, DerivesFrom); !ok {
		t.Error("black and gray differ in lightness only")
	}
	for _, r := range rels {
		if r.Source == 0 || r.Target == 0 {
			t.Errorf("transparent token related: %+v", r)
		}
	}
	if !slices.IsSortedFunc(rels, func(a, b Relationship) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	}) {
		t.Error("relationships not ordered by confidence")
	}
}

func TestPairedWith(t *testing.T) {
	tokens := []Token{
		{Color: red, Mask: raster.Rect(2, 2, 2, 2)},
		{Color: blue, Mask: raster.Rect(6, 2, 2, 2)},
	}
	rels := InferRelationships(tokens, 10)
	var found bool
	for _, r := range rels {
		if r.Kind == PairedWith {
			found = true
			if r.Source != 0 || r.Target != 1 || r.Confidence < 0.84 || r.Confidence > 0.86 {
				t.Errorf("paired = %+v", r)
			}
		}
	}
	if !found {
		t.Error("mirrored eyes not paired")
	}

	tokens[1].Mask = raster.Rect(6, 6, 2, 2)
	for _, r := range InferRelationships(tokens, 10) {
		if r.Kind == PairedWith {
			t.Errorf("offset regions paired: %+v", r)
		}
	}
}

func TestZOrder(t *testing.T) {
	rels := []Relationship{
		{Source: 2, Target: 1, Kind: ContainedWithin},
		{Source: 1, Target: 0, Kind: ContainedWithin},
		{Source: 0, Target: 3, Kind: AdjacentTo},
	}
	if got := ZOrder(4, rels); !slices.Equal(got, []int{0, 1, 2, 0}) {
		t.Errorf("ZOrder = %v", got)
	}

	cycle := []Relationship{
		{Source: 0, Target: 1, Kind: ContainedWithin},
		{Source: 1, Target: 0, Kind: ContainedWithin},
	}
	for _, z := range ZOrder(2, cycle) {
		if z < 0 || z > 2 {
			t.Errorf("cycle level %d out of range", z)
		}
	}

	if got := ZOrder(len(framedSprite()), InferRelationships(framedSprite(), 10)); !slices.Equal(got, []int{0, 0, 1, 2}) {
		t.Errorf("framed sprite ZOrder = %v", got)
	}
}

func TestDetectOutlines(t *testing.T) {
	got := DetectOutlines(framedSprite())
	if len(got) != 1 {
		t.Fatalf("outlines = %+v, want the frame only", got)
	}
	o := got[0]
	if o.Token != 1 || o.Width != 2 || !slices.Equal(o.Borders, []int{2}) {
		t.Errorf("outline = %+v", o)
	}
	if o.Confidence < 0.67 || o.Confidence > 0.69 {
		t.Errorf("confidence = %v, want 0.68", o.Confidence)
	}
}

func TestDetectOutlinesRejectsSolid(t *testing.T) {
	tokens := []Token{
		{Color: black, Mask: raster.Rect(0, 0, 8, 8)},
		{Color: white, Mask: raster.Rect(8, 0, 8, 8)},
	}
	if got := DetectOutlines(tokens); len(got) != 0 {
		t.Errorf("solid block reported as outline: %+v", got)
	}
}

// pattern splits a w×h canvas between two tokens by first(x, y).
func pattern(w, h int, first func(x, y int) bool) []Token {
	a, b := raster.NewMask(), raster.NewMask()
	for y := range h {
		for x := range w {
			if first(x, y) {
				a.Add(image.Pt(x, y))
			} else {
				b.Add(image.Pt(x, y))
			}
		}
	}
	return []Token{{Color: black, Mask: a}, {Color: white, Mask: b}}
}

func TestDetectDither(t *testing.T) {
	tests := []struct {
		name   string
		first  func(x, y int) bool
		want   Pattern
		bounds image.Rectangle
	}{
		{"checkerboard", func(x, y int) bool { return (x+y)%2 == 0 }, Checkerboard, image.Rect(0, 0, 4, 4)},
		{"rows", func(_, y int) bool { return y%2 == 0 }, HorizontalLines, image.Rect(0, 1, 4, 3)},
		{"columns", func(x, _ int) bool { return x%2 == 1 }, VerticalLines, image.Rect(1, 0, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectDither(pattern(4, 4, tt.first))
			if len(got) != 1 {
				t.Fatalf("dithers = %+v, want one", got)
			}
			d := got[0]
			if d.Pattern != tt.want || d.Confidence != 1 || d.Bounds != tt.bounds {
				t.Errorf("dither = %+v", d)
			}
			if d.Merged != (colorspace.Color{R: 127, G: 127, B: 127, A: 255}) {
				t.Errorf("merged = %v", d.Merged)
			}
		})
	}
}

func TestDetectDitherSeparateBlocks(t *testing.T) {
	got := DetectDither(pattern(8, 4, func(x, _ int) bool { return x < 4 }))
	if len(got) != 0 {
		t.Errorf("side by side blocks reported as dither: %+v", got)
	}
}

func TestAnalyze(t *testing.T) {
	tokens := framedSprite()
	rep := Analyze(tokens, 10, 10, Config{})
	if len(rep.Roles) != len(tokens) || len(rep.ZOrder) != len(tokens) {
		t.Fatalf("report sized %d/%d for %d tokens", len(rep.Roles), len(rep.ZOrder), len(tokens))
	}
	if len(rep.Outlines) != 1 || rep.Dithers != nil {
		t.Errorf("outlines = %+v dithers = %+v", rep.Outlines, rep.Dithers)
	}

	strict := Analyze(tokens, 10, 10, Config{MinConfidence: 0.9, Dither: true})
	if len(strict.Outlines) != 0 {
		t.Errorf("outline at 0.68 kept above 0.9: %+v", strict.Outlines)
	}
	if strict.Roles[2].Role != RoleNone || strict.Roles[3].Role != RoleAnchor {
		t.Errorf("strict roles = %+v", strict.Roles)
	}
	for _, r := range strict.Relationships {
		if r.Confidence < 0.9 {
			t.Errorf("weak relationship kept: %+v", r)
		}
	}
	if !slices.Equal(strict.ZOrder, []int{0, 0, 0, 1}) {
		t.Errorf("strict ZOrder = %v", strict.ZOrder)
	}
}
