package marionette

import "go.uber.org/zap"

// CircleOptions configures NewCircle. Radius is in logical units.
type CircleOptions struct {
	ActorOptions
	Radius float64
}

// Circle is a circle actor approximated by a CircleSegments-sided ring.
type Circle struct {
	*Actor
	radius float64 // engine units
}

// NewCircle creates a circle actor.
func NewCircle(env Env, opts CircleOptions) (*Circle, error) {
	if err := requirePositive("radius", opts.Radius); err != nil {
		return nil, err
	}
	env = env.normalized()

	c := &Circle{radius: opts.Radius * env.Scale.Average()}
	env.Log.Info("creating circle actor", zap.Float64("radius", c.radius))
	a, err := newActor(env, c, c.RebuildVertices(), opts.Material)
	if err != nil {
		return nil, err
	}
	c.Actor = a
	opts.apply(a)
	if err := a.setRenderMode(RenderFilled); err != nil {
		return nil, err
	}
	return c, nil
}

// Create implements Shape.
func (c *Circle) Create(eng Engine) int {
	return eng.CreateCircleActor(c.radius, encodeVertices(RegularPolygonVertices(CircleSegments, c.radius)))
}

// RebuildVertices implements Shape.
func (c *Circle) RebuildVertices() []float64 {
	verts := RegularPolygonVertices(CircleSegments, c.radius)
	if c.Actor != nil {
		c.verts = verts
	}
	return verts
}

// Radius fetches the radius from the engine, in engine units.
func (c *Circle) Radius() float64 {
	c.radius = c.env.Engine.GetCircleActorRadius(c.id)
	return c.radius
}

// SetRadius changes the radius. r is in logical units.
func (c *Circle) SetRadius(r float64) error {
	if err := requirePositive("radius", r); err != nil {
		return err
	}
	if !c.alive("set radius") {
		return ErrDestroyed
	}
	c.radius = r * c.env.Scale.Average()
	c.log.Info("setting radius", zap.Float64("radius", c.radius))
	c.RebuildVertices()
	c.updateVertices()
	c.env.Engine.SetCircleActorRadius(c.id, c.radius)
	return nil
}

// CanMapAnimation implements Animatable.
func (c *Circle) CanMapAnimation(p Property) bool {
	return p.Root() == "radius"
}

// IsAbsoluteMapping implements Animatable.
func (c *Circle) IsAbsoluteMapping(Property) bool { return false }

// MapAnimation turns a radius animation into full vertex rings.
func (c *Circle) MapAnimation(p Property, opts AnimationOptions) (Animation, error) {
	if p.Root() == "radius" {
		return mapAbsolute(c.env, opts, c.env.Scale.Average(),
			func(r float64) ([]float64, bool) {
				return RegularPolygonVertices(CircleSegments, r), r > 0
			},
			func(r float64) { c.radius = r })
	}
	return c.Actor.MapAnimation(p, opts)
}
