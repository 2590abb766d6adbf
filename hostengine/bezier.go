package hostengine

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/marionette"
)

// bezierValue evaluates the value (Y) component of the curve through
// (0, from), the control points and (1, to) at parameter t using De
// Casteljau's algorithm.
func bezierValue(from, to float64, cps []marionette.ControlPoint, t float64) float64 {
	pts := make([]float64, 0, len(cps)+2)
	pts = append(pts, from)
	for _, cp := range cps {
		pts = append(pts, cp.Y)
	}
	pts = append(pts, to)

	for k := len(pts) - 1; k > 0; k-- {
		for i := 0; i < k; i++ {
			pts[i] = pts[i] + (pts[i+1]-pts[i])*t
		}
	}
	return pts[0]
}

// sampleCount is the number of frames an animation of duration ms spans at
// fps. Always at least one.
func sampleCount(duration, fps float64) int {
	if fps <= 0 {
		fps = marionette.DefaultFPS
	}
	return max(int(duration/1000*fps), 1)
}

// sampleBezier returns steps+1 values from start to end inclusive, and the
// time in ms each sample accounts for.
func sampleBezier(o marionette.AnimationOptions) marionette.BezierSamples {
	fps := marionette.DefaultFPS
	if o.FPS != nil {
		fps = *o.FPS
	}
	start := 0.0
	if o.StartVal != nil {
		start = *o.StartVal
	}
	steps := sampleCount(o.Duration, fps)
	values := make([]float64, steps+1)
	for i := range values {
		values[i] = bezierValue(start, o.EndVal, o.ControlPoints, float64(i)/float64(steps))
	}
	return marionette.BezierSamples{Values: values, StepTime: o.Duration / float64(len(values))}
}

// bezierEasing adapts the curve shape to a gween easing function. gween
// supplies the begin value and change, so the control points are absolute
// values along the same axis.
func bezierEasing(cps []marionette.ControlPoint) ease.TweenFunc {
	if len(cps) == 0 {
		return ease.Linear
	}
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		p := float64(t / d)
		return float32(bezierValue(float64(b), float64(b+c), cps, p))
	}
}

// PreCalculateBez implements marionette.AnimationEngine.
func (h *Host) PreCalculateBez(options string) string {
	var o marionette.AnimationOptions
	if err := json.Unmarshal([]byte(options), &o); err != nil {
		h.log.Error("invalid bezier options", zap.String("options", options), zap.Error(err))
		return ""
	}
	b, err := json.Marshal(sampleBezier(o))
	if err != nil {
		h.log.Error("encode bezier samples", zap.Error(err))
		return ""
	}
	return string(b)
}

func decodeOptions(options string) (marionette.AnimationOptions, error) {
	var o marionette.AnimationOptions
	if err := json.Unmarshal([]byte(options), &o); err != nil {
		return o, fmt.Errorf("decode animation options: %w", err)
	}
	return o, nil
}
