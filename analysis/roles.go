package analysis

import "math"

// Role is the semantic part a token plays in a sprite.
type Role int

const (
	RoleNone Role = iota
	// Thin or mostly edge-hugging regions on the sprite border.
	RoleBoundary
	// Tiny regions of one to three pixels, such as eyes or rivets.
	RoleAnchor
	// Large interior regions.
	RoleFill
	// Clearly darker than the other colors.
	RoleShadow
	// Clearly lighter than the other colors.
	RoleHighlight
)

func (r Role) String() string {
	switch r {
	case RoleBoundary:
		return "boundary"
	case RoleAnchor:
		return "anchor"
	case RoleFill:
		return "fill"
	case RoleShadow:
		return "shadow"
	case RoleHighlight:
		return "highlight"
	default:
		return "none"
	}
}

// RoleInference is an inferred role with its confidence in [0, 1].
type RoleInference struct {
	Role       Role
	Confidence float64
}

func newRole(r Role, conf float64) RoleInference {
	return RoleInference{Role: r, Confidence: min(max(conf, 0), 1)}
}

// minBrightnessGap is how far a token's brightness must sit from the mean
// of the other colors to count as shadow or highlight.
const minBrightnessGap = 0.15

// InferRoles infers a role for every opaque token on a w×h sprite. The
// rules are tried in order: boundary, anchor, shadow, highlight, fill.
// Tokens matching none, and transparent ones, get RoleNone.
func InferRoles(tokens []Token, w, h int) []RoleInference {
	out := make([]RoleInference, len(tokens))
	for i := range tokens {
		if !opaque(tokens, i) {
			continue
		}
		var others []float64
		for j, t := range tokens {
			if j != i && opaque(tokens, j) && t.Color != tokens[i].Color {
				others = append(others, brightness(t.Color))
			}
		}
		out[i] = inferRole(tokens[i], others, w, h)
	}
	return out
}

func inferRole(t Token, others []float64, w, h int) RoleInference {
	if r, ok := inferBoundary(t, w, h); ok {
		return r
	}
	if r, ok := inferAnchor(t); ok {
		return r
	}
	if len(others) > 0 {
		mean := 0.0
		for _, b := range others {
			mean += b
		}
		mean /= float64(len(others))
		own := brightness(t.Color)
		if gap := mean - own; gap >= minBrightnessGap {
			return newRole(RoleShadow, (gap-minBrightnessGap)/0.25*0.3+0.7)
		}
		if gap := own - mean; gap >= minBrightnessGap {
			return newRole(RoleHighlight, (gap-minBrightnessGap)/0.25*0.3+0.7)
		}
	}
	if r, ok := inferFill(t, w, h); ok {
		return r
	}
	return RoleInference{}
}

func inferBoundary(t Token, w, h int) (RoleInference, bool) {
	b, ok := t.Mask.Bounds()
	if !ok {
		return RoleInference{}, false
	}
	thin := b.Dx() == 1 || b.Dy() == 1
	edge := 0
	for p := range t.Mask {
		if p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1 {
			edge++
		}
	}
	ratio := float64(edge) / float64(t.Mask.Len())
	switch {
	case edge > 0 && thin:
		return newRole(RoleBoundary, ratio*0.7+0.3), true
	case ratio > 0.7:
		return newRole(RoleBoundary, ratio*0.8), true
	}
	return RoleInference{}, false
}

func inferAnchor(t Token) (RoleInference, bool) {
	switch t.Mask.Len() {
	case 1:
		return newRole(RoleAnchor, 1), true
	case 2:
		return newRole(RoleAnchor, 0.9), true
	case 3:
		return newRole(RoleAnchor, 0.8), true
	}
	return RoleInference{}, false
}

func inferFill(t Token, w, h int) (RoleInference, bool) {
	if w <= 0 || h <= 0 {
		return RoleInference{}, false
	}
	size := t.Mask.Len()
	sizeRatio := float64(size) / float64(w*h)
	if sizeRatio < 0.05 {
		return RoleInference{}, false
	}
	interior := 0
	for p := range t.Mask {
		if p.X > 0 && p.Y > 0 && p.X < w-1 && p.Y < h-1 {
			interior++
		}
	}
	interiorRatio := float64(interior) / float64(size)
	if interiorRatio < 0.5 {
		return RoleInference{}, false
	}
	return newRole(RoleFill, math.Min(sizeRatio, 0.5)*2*0.4+interiorRatio*0.6), true
}
