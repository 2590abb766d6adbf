package marionette

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Default per-property animation options applied by Runtime.Animate.
const (
	DefaultFPS   = 30.0
	DefaultStart = 0.0
)

// Property is a path into an actor's animatable state, e.g.
// {"position", "x"}. It is sent to the engine as a JSON array.
type Property []string

// Prop builds a Property from its path segments.
func Prop(path ...string) Property {
	return Property(path)
}

// Root returns the first path segment, or "" for an empty path.
func (p Property) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

func (p Property) String() string {
	return strings.Join(p, ".")
}

// verticesProperty is the engine property every mapped animation targets.
var verticesProperty = Property{"vertices"}

// ControlPoint is a Bezier control point: X is normalized time, Y the value.
type ControlPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AnimationOptions describes one property animation. Durations and offsets
// are in milliseconds. Deltas, Delays and UData are filled in by mapping and
// are empty for native animations.
type AnimationOptions struct {
	StartVal      *float64       `json:"startVal,omitempty"`
	EndVal        float64        `json:"endVal"`
	ControlPoints []ControlPoint `json:"controlPoints,omitempty"`
	Duration      float64        `json:"duration"`
	Start         *float64       `json:"start,omitempty"`
	FPS           *float64       `json:"fps,omitempty"`
	Property      string         `json:"property,omitempty"`

	Deltas [][]VertexDelta `json:"deltas,omitempty"`
	Delays []float64       `json:"delays,omitempty"`
	UData  []float64       `json:"udata,omitempty"`
}

// clone returns a copy that shares no slices or pointers with o.
func (o AnimationOptions) clone() AnimationOptions {
	c := o
	if o.StartVal != nil {
		c.StartVal = Float(*o.StartVal)
	}
	if o.Start != nil {
		c.Start = Float(*o.Start)
	}
	if o.FPS != nil {
		c.FPS = Float(*o.FPS)
	}
	c.ControlPoints = append([]ControlPoint(nil), o.ControlPoints...)
	c.Deltas = nil
	c.Delays = nil
	c.UData = nil
	return c
}

// Animation is the engine-ready form of a request: the property to animate,
// its options, and an optional step callback fed with UData entries.
type Animation struct {
	Property Property
	Options  AnimationOptions
	Step     func(udata float64)
}

// Animatable is anything Runtime.Animate can drive. Shape variants map
// derived properties (width, radius, ...) onto vertex animations.
type Animatable interface {
	ID() int
	CanMapAnimation(p Property) bool
	MapAnimation(p Property, opts AnimationOptions) (Animation, error)
	IsAbsoluteMapping(p Property) bool
}

// BezierSamples is the engine's answer to a Bezier pre-calculation.
type BezierSamples struct {
	Values   []float64
	StepTime float64
}

// flexFloat accepts both JSON numbers and numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// UnmarshalJSON decodes {"values":[...],"stepTime":n}.
func (b *BezierSamples) UnmarshalJSON(data []byte) error {
	var raw struct {
		Values   []flexFloat `json:"values"`
		StepTime flexFloat   `json:"stepTime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Values = make([]float64, len(raw.Values))
	for i, v := range raw.Values {
		b.Values[i] = float64(v)
	}
	b.StepTime = float64(raw.StepTime)
	return nil
}

// MarshalJSON encodes the samples in the engine's format.
func (b BezierSamples) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Values   []float64 `json:"values"`
		StepTime float64   `json:"stepTime"`
	}{b.Values, b.StepTime})
}

// precalculate asks the engine to sample the Bezier curve for opts.
func precalculate(env Env, opts AnimationOptions) (BezierSamples, error) {
	payload, err := json.Marshal(opts)
	if err != nil {
		return BezierSamples{}, fmt.Errorf("encode bezier options: %w", err)
	}
	env.Log.Info("pre-calculating bezier animation values", zap.ByteString("options", payload))

	raw := env.Engine.PreCalculateBez(string(payload))
	var samples BezierSamples
	if err := json.Unmarshal([]byte(raw), &samples); err != nil {
		env.Log.Error("invalid bezier values", zap.String("payload", raw), zap.Error(err))
		return BezierSamples{}, fmt.Errorf("parse bezier values: %w", err)
	}
	return samples, nil
}

// mapRelative builds an offset-based vertex animation for a dimension that
// moves symmetric vertices. factor converts the requested full dimension into
// the per-vertex half extent in engine units. pattern says which row entries
// move by -delta (-1), +delta (+1) or stay (0). apply receives the full
// dimension change each time a row fires.
func mapRelative(env Env, opts AnimationOptions, factor float64, pattern []int, apply func(float64)) (Animation, error) {
	if opts.StartVal == nil {
		return Animation{}, fmt.Errorf("startVal: %w", ErrRequired)
	}
	req := opts.clone()
	req.StartVal = Float(*req.StartVal * factor)
	req.EndVal *= factor

	samples, err := precalculate(env, req)
	if err != nil {
		return Animation{}, err
	}

	out := req
	if len(samples.Values) > 0 {
		prev := samples.Values[0]
		delay := 0.0
		for _, val := range samples.Values {
			d := val - prev
			prev = val
			delay += samples.StepTime
			if d == 0 {
				continue
			}
			out.Deltas = append(out.Deltas, offsetRow(d, pattern...))
			out.UData = append(out.UData, d*2)
			out.Delays = append(out.Delays, delay)
		}
	}
	return Animation{Property: verticesProperty, Options: out, Step: apply}, nil
}

// mapAbsolute builds a vertex animation where every row is a complete vertex
// list. build turns a sampled value into vertices; ok=false skips the sample.
// factor scales the requested start and end values before sampling.
func mapAbsolute(env Env, opts AnimationOptions, factor float64, build func(v float64) ([]float64, bool), apply func(float64)) (Animation, error) {
	if opts.StartVal == nil {
		return Animation{}, fmt.Errorf("startVal: %w", ErrRequired)
	}
	req := opts.clone()
	req.StartVal = Float(*req.StartVal * factor)
	req.EndVal *= factor

	samples, err := precalculate(env, req)
	if err != nil {
		return Animation{}, err
	}

	out := req
	delay := 0.0
	for _, val := range samples.Values {
		delay += samples.StepTime
		if val == 0 {
			continue
		}
		verts, ok := build(val)
		if !ok {
			continue
		}
		out.Deltas = append(out.Deltas, absoluteRow(verts))
		out.UData = append(out.UData, val)
		out.Delays = append(out.Delays, delay)
	}
	return Animation{Property: verticesProperty, Options: out, Step: apply}, nil
}
