package marionette

// Scale holds the per-axis auto-scale factors that convert author units into
// engine units. Positions, dimensions and vertices are multiplied by it on the
// way into the engine and positions are divided by it on the way out.
type Scale struct {
	X, Y float64
}

// DefaultScale leaves coordinates untouched.
var DefaultScale = Scale{1, 1}

// Apply converts a logical point to engine units.
func (s Scale) Apply(v Vec2) Vec2 {
	return Vec2{v.X * s.X, v.Y * s.Y}
}

// Remove converts an engine point back to logical units.
func (s Scale) Remove(v Vec2) Vec2 {
	return Vec2{v.X / s.X, v.Y / s.Y}
}

// Average is used for dimensions that must stay uniform (squares, circles).
func (s Scale) Average() float64 {
	return (s.X + s.Y) / 2
}

// Min is used for regular polygon radii.
func (s Scale) Min() float64 {
	if s.X < s.Y {
		return s.X
	}
	return s.Y
}

// valid reports whether both factors are usable divisors.
func (s Scale) valid() bool {
	return s.X > 0 && s.Y > 0
}

// applyVertices returns a scaled copy of a flat x,y vertex list.
func (s Scale) applyVertices(verts []float64) []float64 {
	out := make([]float64, len(verts))
	for i := 0; i+1 < len(verts); i += 2 {
		out[i] = verts[i] * s.X
		out[i+1] = verts[i+1] * s.Y
	}
	return out
}
