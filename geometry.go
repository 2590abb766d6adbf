package marionette

import (
	"encoding/json"
	"math"
)

// CircleSegments is the fixed ring resolution used for circle actors.
const CircleSegments = 32

// RegularPolygonVertices returns the closed vertex ring of a regular polygon
// centered on the origin, as a flat x,y list of segments+1 pairs.
//
// Points are produced in increasing angle order starting at (radius, 0) by
// repeatedly rotating through 2π/segments with the tangent form of the
// rotation. The first point is appended to close the loop and the pair order
// is then reversed, so the ring winds clockwise and starts and ends on the
// same point.
func RegularPolygonVertices(segments int, radius float64) []float64 {
	if segments < 3 {
		return nil
	}
	theta := 2 * math.Pi / float64(segments)
	tanFactor := math.Tan(theta)
	radFactor := math.Cos(theta)

	verts := make([]float64, 0, (segments+1)*2)
	x, y := radius, 0.0
	for i := 0; i < segments; i++ {
		verts = append(verts, x, y)
		tx, ty := -y, x
		x += tx * tanFactor
		y += ty * tanFactor
		x *= radFactor
		y *= radFactor
	}
	verts = append(verts, verts[0], verts[1])
	return reversePairs(verts)
}

// RectangleVertices returns the closed ring of a w×h rectangle centered on
// the origin: bottom-left, top-left, top-right, bottom-right, bottom-left.
func RectangleVertices(w, h float64) []float64 {
	hw, hh := w/2, h/2
	return []float64{
		-hw, -hh,
		-hw, hh,
		hw, hh,
		hw, -hh,
		-hw, -hh,
	}
}

// TriangleVertices returns the closed ring of an isosceles triangle with the
// apex on +Y.
func TriangleVertices(base, height float64) []float64 {
	hb, hh := base/2, height/2
	return []float64{
		-hb, -hh,
		0, hh,
		hb, -hh,
		-hb, -hh,
	}
}

// reversePairs reverses the order of x,y pairs without swapping x and y.
func reversePairs(verts []float64) []float64 {
	out := make([]float64, 0, len(verts))
	for i := len(verts) - 2; i >= 0; i -= 2 {
		out = append(out, verts[i], verts[i+1])
	}
	return out
}

func encodeVertices(verts []float64) string {
	b, err := json.Marshal(verts)
	if err != nil {
		// []float64 only fails on NaN/Inf.
		return "[]"
	}
	return string(b)
}

func decodeVertices(s string) ([]float64, error) {
	var verts []float64
	if err := json.Unmarshal([]byte(s), &verts); err != nil {
		return nil, err
	}
	return verts, nil
}
