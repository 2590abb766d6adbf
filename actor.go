package marionette

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// MaxPhysicsLayer is the highest physics layer the engine supports. Actors
// only collide with actors on the same layer; 0 is the default layer.
const MaxPhysicsLayer = 16

// Env bundles what every actor needs to talk to the engine: the engine
// itself, the auto-scale factors in effect when the actor was built, and a
// logger. Runtime.Env returns one; tests build their own.
type Env struct {
	Engine Engine
	Scale  Scale
	Log    *zap.Logger
}

func (e Env) normalized() Env {
	if e.Log == nil {
		e.Log = zap.NewNop()
	}
	if !e.Scale.valid() {
		e.Scale = DefaultScale
	}
	return e
}

// Animator schedules animations for actors. *Runtime implements it.
type Animator interface {
	Animate(a Animatable, props []Property, opts []AnimationOptions) error
}

// creator allocates the engine-side actor and returns its handle.
type creator interface {
	Create(eng Engine) int
}

type rawCreator struct {
	verts []float64
}

func (c rawCreator) Create(eng Engine) int {
	return eng.CreateRawActor(encodeVertices(c.verts))
}

// Actor is a handle to one engine object plus a cache of the state last sent
// to it. The engine owns the authoritative render and simulation state.
//
// An Actor must not be used after Destroy.
type Actor struct {
	env Env
	log *zap.Logger
	id  int

	verts         []float64 // engine units
	position      Vec2      // engine units
	rotation      float64
	color         Color3
	texture       string
	textureRepeat *Vec2
	visible       bool
	opacity       float64
	layer         int
	physicsLayer  int

	physics   bool
	material  PhysicsProperties
	destroyed bool
}

// NewActor creates an actor from a raw flat x,y vertex list given in logical
// units. At least three vertices are required.
func NewActor(env Env, verts []float64, mat Material) (*Actor, error) {
	if len(verts) < 6 {
		return nil, ErrTooFewVertices
	}
	if len(verts)%2 != 0 {
		return nil, fmt.Errorf("vertex list has odd length %d: %w", len(verts), ErrInvalidValue)
	}
	env = env.normalized()
	scaled := env.Scale.applyVertices(verts)
	return newActor(env, rawCreator{verts: scaled}, scaled, mat)
}

// newActor runs the shared construction sequence: validate, allocate the
// engine handle, then push the default transform and color.
func newActor(env Env, c creator, verts []float64, mat Material) (*Actor, error) {
	env = env.normalized()
	if env.Engine == nil {
		return nil, fmt.Errorf("engine: %w", ErrRequired)
	}
	if verts != nil && len(verts) < 6 {
		return nil, ErrTooFewVertices
	}

	a := &Actor{
		env:      env,
		verts:    verts,
		material: mat.resolve(),
		visible:  true,
		opacity:  1,
	}
	a.id = c.Create(env.Engine)
	if a.id == InvalidHandle {
		return nil, ErrCreateFailed
	}
	a.log = env.Log.With(zap.Int("actor", a.id))

	a.SetPosition(Vec2{})
	a.SetRotation(0, false)
	a.SetColor(ColorWhite)
	return a, nil
}

// alive logs and reports false once the actor has been destroyed.
func (a *Actor) alive(op string) bool {
	if a.destroyed {
		a.log.Error(op, zap.Error(ErrDestroyed))
		return false
	}
	return true
}

// Destroy removes the actor from the engine, clearing its visual and physics
// bodies. The handle must not be used afterwards.
func (a *Actor) Destroy() error {
	if a.destroyed {
		return ErrDestroyed
	}
	a.log.Info("destroying actor")
	a.env.Engine.DestroyActor(a.id)
	a.destroyed = true
	return nil
}

// Destroyed reports whether Destroy has been called.
func (a *Actor) Destroyed() bool { return a.destroyed }

// ID returns the engine handle.
func (a *Actor) ID() int { return a.id }

// Env returns the environment the actor was built with.
func (a *Actor) Env() Env { return a.env }

// SetLayer sets the render layer. Higher layers draw on top; default is 0.
func (a *Actor) SetLayer(layer int) *Actor {
	if !a.alive("set layer") {
		return a
	}
	a.log.Info("setting layer", zap.Int("layer", layer))
	a.layer = layer
	a.env.Engine.SetActorLayer(a.id, layer)
	return a
}

// Layer fetches the render layer from the engine.
func (a *Actor) Layer() int {
	a.layer = a.env.Engine.GetActorLayer(a.id)
	return a.layer
}

// SetPhysicsLayer sets the collision layer, 0 through MaxPhysicsLayer.
// Physics layers persist across physics body re-creation.
func (a *Actor) SetPhysicsLayer(layer int) (*Actor, error) {
	if layer < 0 || layer > MaxPhysicsLayer {
		return a, fmt.Errorf("physics layer %d: %w", layer, ErrInvalidValue)
	}
	if !a.alive("set physics layer") {
		return a, ErrDestroyed
	}
	a.log.Info("setting physics layer", zap.Int("layer", layer))
	a.physicsLayer = layer
	a.env.Engine.SetActorPhysicsLayer(a.id, layer)
	return a, nil
}

// PhysicsLayer fetches the collision layer from the engine.
func (a *Actor) PhysicsLayer() int {
	a.physicsLayer = a.env.Engine.GetActorPhysicsLayer(a.id)
	return a.physicsLayer
}

// setPhysicsVertices gives the physics body a vertex list that differs from
// the render vertices. verts are in engine units.
func (a *Actor) setPhysicsVertices(verts []float64) {
	a.log.Info("setting physics vertices", zap.Int("count", len(verts)))
	a.env.Engine.SetPhysicsVertices(a.id, encodeVertices(verts))
}

func (a *Actor) setRenderMode(mode RenderMode) error {
	if !mode.valid() {
		return fmt.Errorf("render mode %d: %w", mode, ErrInvalidValue)
	}
	a.log.Info("setting render mode", zap.Int("mode", int(mode)))
	a.env.Engine.SetRenderMode(a.id, mode)
	return nil
}

// updateVertices re-sends the cached vertex list without modifying it.
func (a *Actor) updateVertices() {
	if !a.alive("update vertices") {
		return
	}
	a.log.Info("updating vertices", zap.Int("count", len(a.verts)))
	a.env.Engine.UpdateVertices(a.id, encodeVertices(a.verts))
}

// Vertices fetches the vertex list from the engine. If the engine returns
// nothing or malformed data the cached list is kept.
func (a *Actor) Vertices() []float64 {
	res := a.env.Engine.GetVertices(a.id)
	if res != "" {
		verts, err := decodeVertices(res)
		if err != nil {
			a.log.Error("invalid vertices", zap.String("payload", res), zap.Error(err))
		} else {
			a.verts = verts
		}
	}
	return append([]float64(nil), a.verts...)
}

// SetVisible toggles rendering.
func (a *Actor) SetVisible(visible bool) *Actor {
	if !a.alive("set visible") {
		return a
	}
	a.log.Info("setting visibility", zap.Bool("visible", visible))
	a.visible = visible
	a.env.Engine.SetActorVisible(a.id, visible)
	return a
}

// Visible fetches the visibility from the engine.
func (a *Actor) Visible() bool {
	a.visible = a.env.Engine.GetActorVisible(a.id)
	return a.visible
}

// SetOpacity sets the opacity in [0, 1].
func (a *Actor) SetOpacity(opacity float64) *Actor {
	if !a.alive("set opacity") {
		return a
	}
	a.log.Info("setting opacity", zap.Float64("opacity", opacity))
	a.opacity = opacity
	a.env.Engine.SetActorOpacity(a.id, opacity)
	return a
}

// Opacity fetches the opacity from the engine.
func (a *Actor) Opacity() float64 {
	a.opacity = a.env.Engine.GetActorOpacity(a.id)
	return a.opacity
}

// SetPosition moves the actor. v is in logical units.
func (a *Actor) SetPosition(v Vec2) *Actor {
	if !a.alive("set position") {
		return a
	}
	p := a.env.Scale.Apply(v)
	a.log.Info("setting position", zap.Stringer("position", p))
	a.position = p
	a.env.Engine.SetActorPosition(a.id, p.X, p.Y)
	return a
}

// Position fetches the position from the engine in logical units. On a
// malformed reply the last position sent is returned.
func (a *Actor) Position() Vec2 {
	raw := a.env.Engine.GetActorPosition(a.id)
	var p Vec2
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		a.log.Error("invalid position", zap.String("payload", raw), zap.Error(err))
	} else {
		a.position = p
	}
	return a.env.Scale.Remove(a.position)
}

// SetRotation sets the rotation in degrees, or radians when radians is true.
func (a *Actor) SetRotation(angle float64, radians bool) *Actor {
	if !a.alive("set rotation") {
		return a
	}
	a.log.Info("setting rotation", zap.Float64("angle", angle), zap.Bool("radians", radians))
	a.rotation = angle
	a.env.Engine.SetActorRotation(a.id, angle, radians)
	return a
}

// Rotation fetches the rotation in degrees, or radians when radians is true.
func (a *Actor) Rotation(radians bool) float64 {
	return a.env.Engine.GetActorRotation(a.id, radians)
}

// SetColor sets the fill color.
func (a *Actor) SetColor(c Color3) *Actor {
	if !a.alive("set color") {
		return a
	}
	a.log.Info("setting color", zap.Stringer("color", c))
	a.color = c
	a.env.Engine.SetActorColor(a.id, c.R(), c.G(), c.B())
	return a
}

// Color fetches the fill color. On a malformed reply the cached color is
// returned.
func (a *Actor) Color() Color3 {
	raw := a.env.Engine.GetActorColor(a.id)
	var c Color3
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		a.log.Error("invalid color", zap.String("payload", raw), zap.Error(err))
		return a.color
	}
	a.color = c
	return c
}

// SetTexture sets the texture by manifest name.
func (a *Actor) SetTexture(name string) *Actor {
	if !a.alive("set texture") {
		return a
	}
	a.log.Info("setting texture", zap.String("texture", name))
	a.texture = name
	a.env.Engine.SetActorTexture(a.id, name)
	return a
}

// Texture returns the name of the current texture.
func (a *Actor) Texture() string { return a.texture }

// SetTextureRepeat sets how many times the texture repeats on each axis.
func (a *Actor) SetTextureRepeat(x, y float64) *Actor {
	if !a.alive("set texture repeat") {
		return a
	}
	a.log.Info("setting texture repeat", zap.Float64("x", x), zap.Float64("y", y))
	a.textureRepeat = &Vec2{x, y}
	a.env.Engine.SetActorTextureRepeat(a.id, x, y)
	return a
}

// TextureRepeat returns the texture repeat, asking the engine the first time.
func (a *Actor) TextureRepeat() Vec2 {
	if a.textureRepeat == nil {
		raw := a.env.Engine.GetActorTextureRepeat(a.id)
		var r Vec2
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			a.log.Error("invalid texture repeat", zap.String("payload", raw), zap.Error(err))
			return Vec2{1, 1}
		}
		a.textureRepeat = &r
	}
	return *a.textureRepeat
}

// Physics returns the material snapshot, or nil when physics is disabled.
func (a *Actor) Physics() *PhysicsProperties {
	if !a.physics {
		return nil
	}
	p := a.material
	return &p
}

// Mass returns the locally stored mass.
func (a *Actor) Mass() float64 { return a.material.mass }

// Friction returns the locally stored friction.
func (a *Actor) Friction() float64 { return a.material.friction }

// Elasticity returns the locally stored elasticity.
func (a *Actor) Elasticity() float64 { return a.material.elasticity }

// SetPhysics replaces the material. The engine body is only rebuilt when
// physics is enabled.
func (a *Actor) SetPhysics(p PhysicsProperties) *Actor {
	a.material = NewPhysicsProperties(p.mass, p.friction, p.elasticity)
	if a.physics {
		a.EnablePhysics(Material{})
	}
	return a
}

// SetMass updates the mass.
func (a *Actor) SetMass(m float64) *Actor {
	return a.SetPhysics(NewPhysicsProperties(m, a.material.friction, a.material.elasticity))
}

// SetFriction updates the friction.
func (a *Actor) SetFriction(f float64) *Actor {
	return a.SetPhysics(NewPhysicsProperties(a.material.mass, f, a.material.elasticity))
}

// SetElasticity updates the elasticity.
func (a *Actor) SetElasticity(e float64) *Actor {
	return a.SetPhysics(NewPhysicsProperties(a.material.mass, a.material.friction, e))
}

// HasPhysics reports whether a physics body exists.
func (a *Actor) HasPhysics() bool { return a.physics }

// EnablePhysics creates the engine physics body. Nil fields of mat keep the
// current values.
func (a *Actor) EnablePhysics(mat Material) *Actor {
	if !a.alive("enable physics") {
		return a
	}
	if mat.Mass != nil {
		a.material.mass = max(*mat.Mass, 0)
	}
	if mat.Friction != nil {
		a.material.friction = *mat.Friction
	}
	if mat.Elasticity != nil {
		a.material.elasticity = *mat.Elasticity
	}
	m := a.material
	a.log.Info("enabling physics",
		zap.Float64("mass", m.mass), zap.Float64("friction", m.friction), zap.Float64("elasticity", m.elasticity))
	a.physics = a.env.Engine.EnableActorPhysics(a.id, m.mass, m.friction, m.elasticity)
	return a
}

// DisablePhysics destroys the physics body if one exists.
func (a *Actor) DisablePhysics() *Actor {
	if !a.alive("disable physics") {
		return a
	}
	a.log.Info("disabling physics")
	if a.env.Engine.DestroyPhysicsBody(a.id) {
		a.physics = false
	}
	return a
}

// AttachTexture anchors a textured w×h rectangle to the actor at offset
// (x, y) and angle. Use it for actors that cannot be textured directly.
func (a *Actor) AttachTexture(texture string, w, h, x, y, angle float64) (bool, error) {
	if texture == "" {
		return false, fmt.Errorf("texture: %w", ErrRequired)
	}
	if w <= 0 || h <= 0 {
		return false, fmt.Errorf("attachment %gx%g: %w", w, h, ErrNonPositive)
	}
	if !a.alive("attach texture") {
		return false, ErrDestroyed
	}
	s := a.env.Scale
	x *= s.X
	y *= s.Y
	if w == h {
		w *= s.Average()
		h *= s.Average()
	} else {
		w *= s.X
		h *= s.Y
	}
	a.log.Info("attaching texture", zap.String("texture", texture), zap.Float64("w", w), zap.Float64("h", h))
	return a.env.Engine.AttachTexture(a.id, texture, w, h, x, y, angle), nil
}

// RemoveAttachment removes the attached texture, if any.
func (a *Actor) RemoveAttachment() bool {
	if !a.alive("remove attachment") {
		return false
	}
	a.log.Info("removing texture attachment")
	return a.env.Engine.RemoveAttachment(a.id)
}

// SetAttachmentVisible toggles the attached texture.
func (a *Actor) SetAttachmentVisible(visible bool) bool {
	if !a.alive("set attachment visible") {
		return false
	}
	a.log.Info("setting attachment visibility", zap.Bool("visible", visible))
	return a.env.Engine.SetAttachmentVisible(a.id, visible)
}

// CanMapAnimation reports false: a plain actor has no derived properties.
func (a *Actor) CanMapAnimation(Property) bool { return false }

// IsAbsoluteMapping reports false for a plain actor.
func (a *Actor) IsAbsoluteMapping(Property) bool { return false }

// MapAnimation always fails for a plain actor.
func (a *Actor) MapAnimation(p Property, _ AnimationOptions) (Animation, error) {
	return Animation{}, fmt.Errorf("%s: %w", p, ErrUnrecognizedProperty)
}

// Rotate animates the rotation to angle degrees over duration ms, starting
// after start ms. A zero duration rotates immediately.
func (a *Actor) Rotate(an Animator, angle, duration, start float64, cp []ControlPoint) error {
	if duration == 0 {
		a.SetRotation(angle, false)
		return nil
	}
	return an.Animate(a, []Property{Prop("rotation")}, []AnimationOptions{{
		EndVal:        angle,
		ControlPoints: cp,
		Duration:      duration,
		Start:         Float(start),
		Property:      "rotation",
	}})
}

// Move animates the position to (x, y) in logical units. A nil coordinate is
// left alone. A zero duration moves immediately.
func (a *Actor) Move(an Animator, x, y *float64, duration, start float64, cp []ControlPoint) error {
	if duration == 0 {
		cur := a.Position()
		target := cur
		if x != nil {
			target.X = *x
		}
		if y != nil {
			target.Y = *y
		}
		a.SetPosition(target)
		return nil
	}

	s := a.env.Scale
	points := make([]ControlPoint, len(cp))
	for i, p := range cp {
		if p.Y > 1 {
			switch {
			case x == nil:
				p.Y *= s.Y
			case y == nil:
				p.Y *= s.X
			default:
				p.Y *= s.Average()
			}
		}
		points[i] = p
	}

	var props []Property
	var opts []AnimationOptions
	if x != nil {
		props = append(props, Prop("position", "x"))
		opts = append(opts, AnimationOptions{EndVal: *x * s.X, ControlPoints: points, Duration: duration, Start: Float(start)})
	}
	if y != nil {
		props = append(props, Prop("position", "y"))
		opts = append(opts, AnimationOptions{EndVal: *y * s.Y, ControlPoints: points, Duration: duration, Start: Float(start)})
	}
	if len(props) == 0 {
		return nil
	}
	return an.Animate(a, props, opts)
}

// ColorTo animates the color components. A nil component is left alone. A
// zero duration sets the color immediately.
func (a *Actor) ColorTo(an Animator, r, g, b *int, duration, start float64, cp []ControlPoint) error {
	if duration == 0 {
		cur := a.Color()
		if r != nil {
			cur.SetR(*r)
		}
		if g != nil {
			cur.SetG(*g)
		}
		if b != nil {
			cur.SetB(*b)
		}
		a.SetColor(cur)
		return nil
	}

	var props []Property
	var opts []AnimationOptions
	add := func(component string, v *int) {
		if v == nil {
			return
		}
		props = append(props, Prop("color", component))
		opts = append(opts, AnimationOptions{EndVal: float64(clampByte(*v)), ControlPoints: cp, Duration: duration, Start: Float(start)})
	}
	add("r", r)
	add("g", g)
	add("b", b)
	if len(props) == 0 {
		return nil
	}
	return an.Animate(a, props, opts)
}
