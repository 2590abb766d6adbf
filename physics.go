package marionette

// Material defaults applied to every new actor.
const (
	DefaultMass       = 0.0
	DefaultFriction   = 0.2
	DefaultElasticity = 0.3
)

// PhysicsProperties is a read-only snapshot of an actor's simulated material.
type PhysicsProperties struct {
	mass, friction, elasticity float64
}

// NewPhysicsProperties builds a snapshot. Negative mass is clamped to 0.
func NewPhysicsProperties(mass, friction, elasticity float64) PhysicsProperties {
	if mass < 0 {
		mass = 0
	}
	return PhysicsProperties{mass: mass, friction: friction, elasticity: elasticity}
}

// Mass returns the body mass. 0 means static.
func (p PhysicsProperties) Mass() float64 { return p.mass }

// Friction returns the friction coefficient.
func (p PhysicsProperties) Friction() float64 { return p.friction }

// Elasticity returns the restitution coefficient.
func (p PhysicsProperties) Elasticity() float64 { return p.elasticity }

// Material overrides the defaults when constructing an actor. Nil fields
// keep the default value.
type Material struct {
	Mass       *float64
	Friction   *float64
	Elasticity *float64
}

func (m Material) resolve() PhysicsProperties {
	p := PhysicsProperties{DefaultMass, DefaultFriction, DefaultElasticity}
	if m.Mass != nil {
		p.mass = *m.Mass
	}
	if m.Friction != nil {
		p.friction = *m.Friction
	}
	if m.Elasticity != nil {
		p.elasticity = *m.Elasticity
	}
	if p.mass < 0 {
		p.mass = 0
	}
	return p
}

// Float returns a pointer to v. Handy for optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
