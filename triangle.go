package marionette

import (
	"fmt"

	"go.uber.org/zap"
)

// TriangleOptions configures NewTriangle. Base and Height are in logical
// units.
type TriangleOptions struct {
	ActorOptions
	Base, Height float64
}

// Triangle is an isosceles triangle actor built from raw vertices.
type Triangle struct {
	*Actor
	base, height float64 // engine units
}

// NewTriangle creates a triangle actor.
func NewTriangle(env Env, opts TriangleOptions) (*Triangle, error) {
	if err := requirePositive("base", opts.Base); err != nil {
		return nil, err
	}
	if err := requirePositive("height", opts.Height); err != nil {
		return nil, err
	}
	env = env.normalized()

	t := &Triangle{base: opts.Base * env.Scale.X, height: opts.Height * env.Scale.Y}
	env.Log.Info("creating triangle actor", zap.Float64("base", t.base), zap.Float64("height", t.height))
	a, err := newActor(env, t, t.RebuildVertices(), opts.Material)
	if err != nil {
		return nil, err
	}
	t.Actor = a
	opts.apply(a)
	return t, nil
}

// Create implements Shape.
func (t *Triangle) Create(eng Engine) int {
	return eng.CreateRawActor(encodeVertices(TriangleVertices(t.base, t.height)))
}

// RebuildVertices implements Shape.
func (t *Triangle) RebuildVertices() []float64 {
	verts := TriangleVertices(t.base, t.height)
	if t.Actor != nil {
		t.verts = verts
	}
	return verts
}

// Base derives the base width from the engine's vertices, in engine units.
func (t *Triangle) Base() float64 {
	if v := t.Vertices(); len(v) >= 6 {
		t.base = v[4] * 2
	}
	return t.base
}

// Height derives the height from the engine's vertices, in engine units.
func (t *Triangle) Height() float64 {
	if v := t.Vertices(); len(v) >= 6 {
		t.height = v[3] * 2
	}
	return t.height
}

// SetBase resizes immediately. b is in logical units.
func (t *Triangle) SetBase(b float64) error {
	if err := requirePositive("base", b); err != nil {
		return err
	}
	if !t.alive("set base") {
		return ErrDestroyed
	}
	t.base = b * t.env.Scale.X
	t.RebuildVertices()
	t.updateVertices()
	return nil
}

// SetHeight resizes immediately. h is in logical units.
func (t *Triangle) SetHeight(h float64) error {
	if err := requirePositive("height", h); err != nil {
		return err
	}
	if !t.alive("set height") {
		return ErrDestroyed
	}
	t.height = h * t.env.Scale.Y
	t.RebuildVertices()
	t.updateVertices()
	return nil
}

// CanMapAnimation implements Animatable.
func (t *Triangle) CanMapAnimation(p Property) bool {
	switch p.Root() {
	case "base", "height":
		return true
	}
	return false
}

// IsAbsoluteMapping implements Animatable. Triangle mappings are relative.
func (t *Triangle) IsAbsoluteMapping(Property) bool { return false }

// MapAnimation turns base and height animations into vertex offsets.
func (t *Triangle) MapAnimation(p Property, opts AnimationOptions) (Animation, error) {
	s := t.env.Scale
	switch p.Root() {
	case "height":
		return mapRelative(t.env, opts, s.Y/2,
			[]int{0, -1, 0, 1, 0, -1, 0, -1},
			func(u float64) { t.height += u })
	case "base":
		return mapRelative(t.env, opts, s.X/2,
			[]int{-1, 0, 0, 0, 1, 0, -1, 0},
			func(u float64) { t.base += u })
	}
	return t.Actor.MapAnimation(p, opts)
}

// Resize changes base and/or height; see Rectangle.Resize.
func (t *Triangle) Resize(an Animator, endB, endH, startB, startH *float64, duration, start float64, cp []ControlPoint) error {
	if duration == 0 {
		if endB != nil {
			if err := t.SetBase(*endB); err != nil {
				return err
			}
		}
		if endH != nil {
			if err := t.SetHeight(*endH); err != nil {
				return err
			}
		}
		return nil
	}

	var req resizeRequest
	if err := req.add("base", endB, startB, duration, start, cp); err != nil {
		return err
	}
	if err := req.add("height", endH, startH, duration, start, cp); err != nil {
		return err
	}
	if len(req.props) == 0 {
		return nil
	}
	if err := an.Animate(t, req.props, req.opts); err != nil {
		return fmt.Errorf("resize triangle: %w", err)
	}
	return nil
}
