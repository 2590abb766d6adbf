package hostengine

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/marionette"
)

// animation is anything the host advances each tick.
type animation interface {
	// update advances by dt milliseconds and reports whether it finished.
	update(dt float64) bool
}

// tweenGroup animates one float64 field on a node. The start value is read
// when the delay elapses unless one was supplied up front. If the target
// node is disposed, the group stops immediately.
//
// There is no global animation manager: Host.Advance drives every group.
type tweenGroup struct {
	target   *node
	field    *float64
	from     *float64
	to       float64
	duration float32 // seconds
	easing   ease.TweenFunc
	delay    float64 // ms before the tween starts

	tween *gween.Tween
	Done  bool
}

func newTweenGroup(n *node, field *float64, o marionette.AnimationOptions) *tweenGroup {
	g := &tweenGroup{
		target:   n,
		field:    field,
		to:       o.EndVal,
		duration: float32(o.Duration / 1000),
		easing:   bezierEasing(o.ControlPoints),
	}
	if o.StartVal != nil {
		from := *o.StartVal
		g.from = &from
	}
	if o.Start != nil && *o.Start > 0 {
		g.delay = *o.Start
	}
	return g
}

func (g *tweenGroup) update(dt float64) bool {
	if g.Done {
		return true
	}
	if g.target.disposed {
		g.Done = true
		return true
	}

	if g.tween == nil {
		if g.delay > dt {
			g.delay -= dt
			return false
		}
		dt -= g.delay
		g.delay = 0
		from := *g.field
		if g.from != nil {
			from = *g.from
		}
		if g.duration <= 0 {
			*g.field = g.to
			g.Done = true
			return true
		}
		g.tween = gween.New(float32(from), float32(g.to), g.duration, g.easing)
	}

	val, finished := g.tween.Update(float32(dt / 1000))
	*g.field = float64(val)
	if finished {
		*g.field = g.to
		g.Done = true
	}
	return g.Done
}

// vertexTrack replays precomputed vertex delta rows. Row i is applied once
// Delays[i] ms have elapsed since the track started; onStep then receives
// UData[i].
type vertexTrack struct {
	target  *node
	deltas  [][]marionette.VertexDelta
	delays  []float64
	udata   []float64
	onStep  func(float64)
	delay   float64 // ms before the track starts
	elapsed float64
	next    int
}

func newVertexTrack(n *node, o marionette.AnimationOptions, onStep func(float64)) *vertexTrack {
	t := &vertexTrack{
		target: n,
		deltas: o.Deltas,
		delays: o.Delays,
		udata:  o.UData,
		onStep: onStep,
	}
	if o.Start != nil && *o.Start > 0 {
		t.delay = *o.Start
	}
	return t
}

func (t *vertexTrack) update(dt float64) bool {
	if t.target.disposed {
		return true
	}
	if t.delay > 0 {
		if t.delay > dt {
			t.delay -= dt
			return false
		}
		dt -= t.delay
		t.delay = 0
	}
	t.elapsed += dt

	for t.next < len(t.deltas) {
		at := 0.0
		if t.next < len(t.delays) {
			at = t.delays[t.next]
		}
		if at > t.elapsed {
			break
		}
		t.target.setVertices(applyRow(t.target.verts, t.deltas[t.next]))
		if t.onStep != nil && t.next < len(t.udata) {
			t.onStep(t.udata[t.next])
		}
		t.next++
	}
	return t.next >= len(t.deltas)
}

// applyRow applies one delta row to a ring. A row made only of absolute
// values replaces the ring, which lets the vertex count change.
func applyRow(verts []float64, row []marionette.VertexDelta) []float64 {
	absolute := len(row) > 0
	for _, d := range row {
		if !d.IsAbsolute() {
			absolute = false
			break
		}
	}
	if absolute {
		out := make([]float64, len(row))
		for i, d := range row {
			out[i] = d.Value()
		}
		return out
	}

	out := append([]float64(nil), verts...)
	for i := 0; i < len(row) && i < len(out); i++ {
		out[i] = row[i].Apply(out[i])
	}
	return out
}
