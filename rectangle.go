package marionette

import (
	"fmt"

	"go.uber.org/zap"
)

// RectangleOptions configures NewRectangle. W and H are in logical units.
type RectangleOptions struct {
	ActorOptions
	W, H float64

	// NoScaleW and NoScaleH skip auto-scaling on one axis.
	NoScaleW, NoScaleH bool
	// ScaleAR scales the shorter side by the average factor and derives the
	// other from the original aspect ratio.
	ScaleAR bool
}

// Rectangle is an axis-aligned box actor. The engine creates it natively;
// the local vertex ring is kept for animation mapping.
type Rectangle struct {
	*Actor
	width, height float64 // engine units
}

// NewRectangle creates a rectangle actor.
func NewRectangle(env Env, opts RectangleOptions) (*Rectangle, error) {
	if err := requirePositive("width", opts.W); err != nil {
		return nil, err
	}
	if err := requirePositive("height", opts.H); err != nil {
		return nil, err
	}
	env = env.normalized()
	s := env.Scale

	w, h := opts.W, opts.H
	switch {
	case w == h:
		if !opts.NoScaleW {
			w *= s.Average()
		}
		if !opts.NoScaleH {
			h *= s.Average()
		}
	case opts.ScaleAR:
		ar := w / h
		if w > h {
			h *= s.Average()
			w = ar * h
		} else {
			w *= s.Average()
			h = w / ar
		}
	default:
		if !opts.NoScaleW {
			w *= s.X
		}
		if !opts.NoScaleH {
			h *= s.Y
		}
	}

	r := &Rectangle{width: w, height: h}
	env.Log.Info("creating rectangle actor", zap.Float64("w", w), zap.Float64("h", h))
	a, err := newActor(env, r, r.RebuildVertices(), opts.Material)
	if err != nil {
		return nil, err
	}
	r.Actor = a
	opts.apply(a)
	return r, nil
}

// Create implements Shape.
func (r *Rectangle) Create(eng Engine) int {
	return eng.CreateRectangleActor(r.width, r.height)
}

// RebuildVertices implements Shape.
func (r *Rectangle) RebuildVertices() []float64 {
	verts := RectangleVertices(r.width, r.height)
	if r.Actor != nil {
		r.verts = verts
	}
	return verts
}

// Width fetches the width from the engine, in engine units.
func (r *Rectangle) Width() float64 {
	r.width = r.env.Engine.GetRectangleActorWidth(r.id)
	return r.width
}

// Height fetches the height from the engine, in engine units.
func (r *Rectangle) Height() float64 {
	r.height = r.env.Engine.GetRectangleActorHeight(r.id)
	return r.height
}

// SetWidth resizes immediately. w is in logical units.
func (r *Rectangle) SetWidth(w float64) error {
	if err := requirePositive("width", w); err != nil {
		return err
	}
	if !r.alive("set width") {
		return ErrDestroyed
	}
	w *= r.env.Scale.X
	r.log.Info("setting width", zap.Float64("w", w))
	r.width = w
	r.RebuildVertices()
	r.env.Engine.SetRectangleActorWidth(r.id, w)
	return nil
}

// SetHeight resizes immediately. h is in logical units.
func (r *Rectangle) SetHeight(h float64) error {
	if err := requirePositive("height", h); err != nil {
		return err
	}
	if !r.alive("set height") {
		return ErrDestroyed
	}
	h *= r.env.Scale.Y
	r.log.Info("setting height", zap.Float64("h", h))
	r.height = h
	r.RebuildVertices()
	r.env.Engine.SetRectangleActorHeight(r.id, h)
	return nil
}

// CanMapAnimation implements Animatable.
func (r *Rectangle) CanMapAnimation(p Property) bool {
	switch p.Root() {
	case "width", "height":
		return true
	}
	return false
}

// IsAbsoluteMapping implements Animatable. Rectangle mappings are relative.
func (r *Rectangle) IsAbsoluteMapping(Property) bool { return false }

// MapAnimation turns width and height animations into vertex offsets: the
// left and right (or bottom and top) edges move by half the change each.
func (r *Rectangle) MapAnimation(p Property, opts AnimationOptions) (Animation, error) {
	s := r.env.Scale
	switch p.Root() {
	case "width":
		return mapRelative(r.env, opts, s.X/2,
			[]int{-1, 0, -1, 0, 1, 0, 1, 0, -1, 0},
			func(u float64) { r.width += u })
	case "height":
		return mapRelative(r.env, opts, s.Y/2,
			[]int{0, -1, 0, 1, 0, 1, 0, -1, 0, -1},
			func(u float64) { r.height += u })
	}
	return r.Actor.MapAnimation(p, opts)
}

// Resize changes width and/or height. A nil end value leaves that dimension
// alone. With a zero duration the change is immediate; otherwise the start
// value of every animated dimension is required.
func (r *Rectangle) Resize(an Animator, endW, endH, startW, startH *float64, duration, start float64, cp []ControlPoint) error {
	if duration == 0 {
		if endW != nil {
			if err := r.SetWidth(*endW); err != nil {
				return err
			}
		}
		if endH != nil {
			if err := r.SetHeight(*endH); err != nil {
				return err
			}
		}
		return nil
	}

	var req resizeRequest
	if err := req.add("width", endW, startW, duration, start, cp); err != nil {
		return err
	}
	if err := req.add("height", endH, startH, duration, start, cp); err != nil {
		return err
	}
	if len(req.props) == 0 {
		return nil
	}
	if err := an.Animate(r, req.props, req.opts); err != nil {
		return fmt.Errorf("resize rectangle: %w", err)
	}
	return nil
}
