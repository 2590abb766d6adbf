package marionette

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type deltaKind uint8

const (
	deltaNoChange deltaKind = iota
	deltaOffset
	deltaAbsolute
)

// VertexDelta is one component of a vertex animation row: either no change,
// a relative offset, or an absolute replacement value.
//
// On the wire a delta is a string: "." for no change, "+v"/"-v" for an
// offset and "`v" for an absolute value.
type VertexDelta struct {
	kind  deltaKind
	value float64
}

// NoChange leaves the component untouched.
func NoChange() VertexDelta {
	return VertexDelta{}
}

// Offset adds v to the component. A zero offset is NoChange.
func Offset(v float64) VertexDelta {
	if v == 0 {
		return NoChange()
	}
	return VertexDelta{kind: deltaOffset, value: v}
}

// Absolute replaces the component with v.
func Absolute(v float64) VertexDelta {
	return VertexDelta{kind: deltaAbsolute, value: v}
}

// IsNoChange reports whether the delta is the no-op marker.
func (d VertexDelta) IsNoChange() bool { return d.kind == deltaNoChange }

// IsAbsolute reports whether the delta replaces the component.
func (d VertexDelta) IsAbsolute() bool { return d.kind == deltaAbsolute }

// Value returns the offset or absolute value; 0 for NoChange.
func (d VertexDelta) Value() float64 { return d.value }

// Apply returns the component after applying the delta.
func (d VertexDelta) Apply(current float64) float64 {
	switch d.kind {
	case deltaOffset:
		return current + d.value
	case deltaAbsolute:
		return d.value
	default:
		return current
	}
}

func (d VertexDelta) String() string {
	switch d.kind {
	case deltaOffset:
		s := strconv.FormatFloat(d.value, 'g', -1, 64)
		if d.value > 0 {
			return "+" + s
		}
		return s
	case deltaAbsolute:
		return "`" + strconv.FormatFloat(d.value, 'g', -1, 64)
	default:
		return "."
	}
}

// ParseVertexDelta decodes the wire form produced by String.
func ParseVertexDelta(s string) (VertexDelta, error) {
	switch {
	case s == ".":
		return NoChange(), nil
	case strings.HasPrefix(s, "`"):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return VertexDelta{}, fmt.Errorf("parse absolute delta %q: %w", s, err)
		}
		return Absolute(v), nil
	case strings.HasPrefix(s, "+"), strings.HasPrefix(s, "-"):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return VertexDelta{}, fmt.Errorf("parse offset delta %q: %w", s, err)
		}
		return Offset(v), nil
	default:
		return VertexDelta{}, fmt.Errorf("parse delta %q: unknown form", s)
	}
}

// MarshalJSON encodes the delta in its wire form.
func (d VertexDelta) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the wire form, or a bare number as an absolute value.
func (d *VertexDelta) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var v float64
		if nerr := json.Unmarshal(data, &v); nerr != nil {
			return err
		}
		*d = Absolute(v)
		return nil
	}
	parsed, err := ParseVertexDelta(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// offsetRow builds a delta row from a pattern: 0 entries stay NoChange,
// +1/-1 entries become Offset(±v).
func offsetRow(v float64, pattern ...int) []VertexDelta {
	row := make([]VertexDelta, len(pattern))
	for i, p := range pattern {
		if p != 0 {
			row[i] = Offset(float64(p) * v)
		}
	}
	return row
}

// absoluteRow turns a vertex list into a row of absolute deltas.
func absoluteRow(verts []float64) []VertexDelta {
	row := make([]VertexDelta, len(verts))
	for i, v := range verts {
		row[i] = Absolute(v)
	}
	return row
}
