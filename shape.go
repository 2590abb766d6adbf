package marionette

import "fmt"

// Shape is the capability contract every shape variant implements on top of
// the embedded *Actor: it allocates its own engine actor, derives its vertex
// ring from its shape parameters and maps its derived properties onto vertex
// animations.
type Shape interface {
	Animatable
	Create(eng Engine) int
	RebuildVertices() []float64
}

var (
	_ Shape = (*Rectangle)(nil)
	_ Shape = (*Triangle)(nil)
	_ Shape = (*Polygon)(nil)
	_ Shape = (*Circle)(nil)
)

// ActorOptions holds the appearance fields shared by all shape constructors.
// Nil fields keep the actor defaults (origin, white, no rotation).
type ActorOptions struct {
	Position *Vec2
	Color    *Color3
	Rotation *float64 // degrees
	Physics  bool
	Material Material
}

func (o ActorOptions) apply(a *Actor) {
	if o.Color != nil {
		a.SetColor(*o.Color)
	}
	if o.Position != nil {
		a.SetPosition(*o.Position)
	}
	if o.Rotation != nil {
		a.SetRotation(*o.Rotation, false)
	}
	if o.Physics {
		a.EnablePhysics(Material{})
	}
}

func requirePositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s %g: %w", name, v, ErrNonPositive)
	}
	return nil
}

// resizeRequest collects the animations of a two-dimension resize.
type resizeRequest struct {
	props []Property
	opts  []AnimationOptions
}

func (r *resizeRequest) add(name string, end, startVal *float64, duration, start float64, cp []ControlPoint) error {
	if end == nil {
		return nil
	}
	if startVal == nil {
		return fmt.Errorf("start %s: %w", name, ErrRequired)
	}
	r.props = append(r.props, Prop(name))
	r.opts = append(r.opts, AnimationOptions{
		StartVal:      Float(*startVal),
		EndVal:        *end,
		ControlPoints: cp,
		Duration:      duration,
		Start:         Float(start),
		Property:      name,
	})
	return nil
}
