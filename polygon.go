package marionette

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// MinSegments is the fewest sides a regular polygon may have.
const MinSegments = 3

// PolygonOptions configures NewPolygon. Radius is in logical units.
type PolygonOptions struct {
	ActorOptions
	Radius   float64
	Segments int
}

// Polygon is a regular polygon actor. Its radius and side count animate by
// replacing the whole vertex ring, so those mappings are absolute.
type Polygon struct {
	*Actor
	radius   float64 // engine units
	segments int
}

// NewPolygon creates a regular polygon actor.
func NewPolygon(env Env, opts PolygonOptions) (*Polygon, error) {
	if err := requirePositive("radius", opts.Radius); err != nil {
		return nil, err
	}
	if opts.Segments < MinSegments {
		return nil, fmt.Errorf("%d segments: %w", opts.Segments, ErrTooFewVertices)
	}
	env = env.normalized()

	p := &Polygon{radius: opts.Radius * env.Scale.Min(), segments: opts.Segments}
	verts := p.RebuildVertices()
	env.Log.Info("creating polygon actor", zap.Int("segments", p.segments), zap.Float64("radius", p.radius))
	a, err := newActor(env, p, verts, opts.Material)
	if err != nil {
		return nil, err
	}
	p.Actor = a
	opts.apply(a)
	a.setPhysicsVertices(verts)
	if err := a.setRenderMode(RenderFilled); err != nil {
		return nil, err
	}
	return p, nil
}

// Create implements Shape.
func (p *Polygon) Create(eng Engine) int {
	return eng.CreatePolygonActor(encodeVertices(RegularPolygonVertices(p.segments, p.radius)))
}

// RebuildVertices implements Shape.
func (p *Polygon) RebuildVertices() []float64 {
	verts := RegularPolygonVertices(p.segments, p.radius)
	if p.Actor != nil {
		p.verts = verts
	}
	return verts
}

// rebuild regenerates the ring and sends it to both bodies.
func (p *Polygon) rebuild() {
	verts := p.RebuildVertices()
	p.setPhysicsVertices(verts)
	p.updateVertices()
}

// Radius returns the circumradius in engine units.
func (p *Polygon) Radius() float64 { return p.radius }

// Segments returns the number of sides.
func (p *Polygon) Segments() int { return p.segments }

// SetRadius changes the circumradius. r is in logical units.
func (p *Polygon) SetRadius(r float64) error {
	if err := requirePositive("radius", r); err != nil {
		return err
	}
	if !p.alive("set radius") {
		return ErrDestroyed
	}
	p.radius = r * p.env.Scale.Min()
	p.rebuild()
	return nil
}

// SetSegments changes the number of sides.
func (p *Polygon) SetSegments(n int) error {
	if n < MinSegments {
		return fmt.Errorf("%d segments: %w", n, ErrTooFewVertices)
	}
	if !p.alive("set segments") {
		return ErrDestroyed
	}
	p.segments = n
	p.rebuild()
	return nil
}

// CanMapAnimation implements Animatable.
func (p *Polygon) CanMapAnimation(prop Property) bool {
	switch prop.Root() {
	case "radius", "sides":
		return true
	}
	return false
}

// IsAbsoluteMapping implements Animatable. Radius and side animations
// rewrite every vertex and must not overlap another absolute mapping.
func (p *Polygon) IsAbsoluteMapping(prop Property) bool {
	return p.CanMapAnimation(prop)
}

// MapAnimation turns radius and sides animations into full vertex rings.
func (p *Polygon) MapAnimation(prop Property, opts AnimationOptions) (Animation, error) {
	switch prop.Root() {
	case "radius":
		segments := p.segments
		return mapAbsolute(p.env, opts, p.env.Scale.Min(),
			func(r float64) ([]float64, bool) {
				return RegularPolygonVertices(segments, r), r > 0
			},
			func(r float64) { p.radius = r })
	case "sides":
		radius := p.radius
		return mapAbsolute(p.env, opts, 1,
			func(v float64) ([]float64, bool) {
				n := int(math.Round(v))
				if n < MinSegments {
					return nil, false
				}
				return RegularPolygonVertices(n, radius), true
			},
			func(v float64) { p.segments = int(math.Round(v)) })
	}
	return p.Actor.MapAnimation(prop, opts)
}
