package marionette

import (
	"errors"
	"testing"
)

func TestNewActorDefaults(t *testing.T) {
	env, eng := testEnv(DefaultScale)
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() != 1 {
		t.Errorf("ID = %d, want 1", a.ID())
	}
	fa := eng.actors[a.ID()]
	if fa.kind != "raw" {
		t.Errorf("kind = %s, want raw", fa.kind)
	}
	if fa.color != [3]int{255, 255, 255} {
		t.Errorf("color = %v, want white", fa.color)
	}
	if a.HasPhysics() || a.Physics() != nil {
		t.Error("physics should start disabled")
	}
	assertNear(t, "mass", a.Mass(), DefaultMass)
	assertNear(t, "friction", a.Friction(), DefaultFriction)
	assertNear(t, "elasticity", a.Elasticity(), DefaultElasticity)
}

func TestNewActorRejectsBadVertices(t *testing.T) {
	env, _ := testEnv(DefaultScale)
	if _, err := NewActor(env, []float64{0, 0, 1, 1}, Material{}); !errors.Is(err, ErrTooFewVertices) {
		t.Errorf("err = %v, want ErrTooFewVertices", err)
	}
	if _, err := NewActor(env, []float64{0, 0, 1, 1, 2, 2, 3}, Material{}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
}

func TestNewActorEngineFailure(t *testing.T) {
	env, eng := testEnv(DefaultScale)
	eng.failCreate = true
	if _, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{}); !errors.Is(err, ErrCreateFailed) {
		t.Errorf("err = %v, want ErrCreateFailed", err)
	}
	if _, err := NewActor(Env{}, []float64{0, 0, 1, 0, 0, 1}, Material{}); !errors.Is(err, ErrRequired) {
		t.Errorf("nil engine err = %v, want ErrRequired", err)
	}
}

func TestActorPositionScaling(t *testing.T) {
	env, eng := testEnv(Scale{2, 3})
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	assertVerts(t, "scaled vertices", eng.actors[a.ID()].verts, []float64{0, 0, 2, 0, 0, 3})

	a.SetPosition(Vec2{10, 10})
	fa := eng.actors[a.ID()]
	assertNear(t, "engine x", fa.x, 20)
	assertNear(t, "engine y", fa.y, 30)

	p := a.Position()
	assertNear(t, "logical x", p.X, 10)
	assertNear(t, "logical y", p.Y, 10)
}

func TestActorMalformedRepliesKeepCache(t *testing.T) {
	env, eng := testEnv(DefaultScale)
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	a.SetPosition(Vec2{4, 5})
	a.SetColor(NewColor3(1, 2, 3))
	eng.badReplies = true

	if got := a.Position(); got != (Vec2{4, 5}) {
		t.Errorf("Position = %v, want cached (4, 5)", got)
	}
	if got := a.Color(); got != NewColor3(1, 2, 3) {
		t.Errorf("Color = %v, want cached", got)
	}
	assertVerts(t, "Vertices", a.Vertices(), []float64{0, 0, 1, 0, 0, 1})
}

func TestActorStateRoundTrip(t *testing.T) {
	env, _ := testEnv(DefaultScale)
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	a.SetLayer(3).SetVisible(false).SetOpacity(0.5).SetRotation(45, false).SetTexture("crate")
	if a.Layer() != 3 {
		t.Errorf("Layer = %d", a.Layer())
	}
	if a.Visible() {
		t.Error("Visible = true")
	}
	assertNear(t, "Opacity", a.Opacity(), 0.5)
	assertNear(t, "Rotation", a.Rotation(false), 45)
	if a.Texture() != "crate" {
		t.Errorf("Texture = %q", a.Texture())
	}
	if got := a.TextureRepeat(); got != (Vec2{1, 1}) {
		t.Errorf("TextureRepeat = %v", got)
	}
	a.SetTextureRepeat(2, 3)
	if got := a.TextureRepeat(); got != (Vec2{2, 3}) {
		t.Errorf("TextureRepeat = %v", got)
	}
}

func TestActorPhysicsLayerBounds(t *testing.T) {
	env, _ := testEnv(DefaultScale)
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.SetPhysicsLayer(MaxPhysicsLayer + 1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
	if _, err := a.SetPhysicsLayer(-1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
	if _, err := a.SetPhysicsLayer(MaxPhysicsLayer); err != nil {
		t.Fatal(err)
	}
	if a.PhysicsLayer() != MaxPhysicsLayer {
		t.Errorf("PhysicsLayer = %d", a.PhysicsLayer())
	}
}

func TestActorPhysicsLifecycle(t *testing.T) {
	env, eng := testEnv(DefaultScale)
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{Mass: Float(-3), Friction: Float(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "clamped mass", a.Mass(), 0)

	// Material changes while disabled stay local.
	a.SetMass(2)
	if eng.called("enable physics") != 0 {
		t.Error("SetMass enabled physics")
	}

	a.EnablePhysics(Material{Elasticity: Float(0.9)})
	p := a.Physics()
	if p == nil {
		t.Fatal("Physics() = nil after enable")
	}
	assertNear(t, "mass", p.Mass(), 2)
	assertNear(t, "friction", p.Friction(), 0.5)
	assertNear(t, "elasticity", p.Elasticity(), 0.9)

	a.SetFriction(0.1)
	if eng.called("enable physics") != 2 {
		t.Errorf("enable calls = %d, want 2 (re-created after friction change)", eng.called("enable physics"))
	}
	assertNear(t, "engine friction", eng.actors[a.ID()].material[1], 0.1)

	a.DisablePhysics()
	if a.HasPhysics() {
		t.Error("HasPhysics after disable")
	}
}

func TestActorAttachTexture(t *testing.T) {
	env, eng := testEnv(Scale{2, 4})
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.AttachTexture("", 1, 1, 0, 0, 0); !errors.Is(err, ErrRequired) {
		t.Errorf("err = %v, want ErrRequired", err)
	}
	if _, err := a.AttachTexture("tex", 0, 1, 0, 0, 0); !errors.Is(err, ErrNonPositive) {
		t.Errorf("err = %v, want ErrNonPositive", err)
	}
	ok, err := a.AttachTexture("tex", 5, 5, 1, 1, 0)
	if err != nil || !ok {
		t.Fatalf("AttachTexture = %v, %v", ok, err)
	}
	if eng.calls[len(eng.calls)-1] != "attach 1 tex 15 15 2 4 0" {
		t.Errorf("last call = %q", eng.calls[len(eng.calls)-1])
	}
	if !a.SetAttachmentVisible(false) {
		t.Error("SetAttachmentVisible = false")
	}
	if !a.RemoveAttachment() {
		t.Error("RemoveAttachment = false")
	}
}

func TestActorDestroy(t *testing.T) {
	env, eng := testEnv(DefaultScale)
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Destroy(); err != nil {
		t.Fatal(err)
	}
	if !a.Destroyed() {
		t.Error("Destroyed = false")
	}
	if _, ok := eng.actors[a.ID()]; ok {
		t.Error("engine still holds actor")
	}
	if err := a.Destroy(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("second Destroy err = %v", err)
	}
	before := len(eng.calls)
	a.SetPosition(Vec2{1, 1})
	if len(eng.calls) != before {
		t.Error("destroyed actor still talks to the engine")
	}
}

func TestActorImmediateMoves(t *testing.T) {
	env, eng := testEnv(DefaultScale)
	a, err := NewActor(env, []float64{0, 0, 1, 0, 0, 1}, Material{})
	if err != nil {
		t.Fatal(err)
	}
	a.SetPosition(Vec2{1, 2})
	if err := a.Move(nil, Float(7), nil, 0, 0, nil); err != nil {
		t.Fatal(err)
	}
	if got := a.Position(); got != (Vec2{7, 2}) {
		t.Errorf("Position = %v, want (7, 2)", got)
	}
	if err := a.Rotate(nil, 30, 0, 0, nil); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "rotation", a.Rotation(false), 30)
	if err := a.ColorTo(nil, nil, Int(300), nil, 0, 0, nil); err != nil {
		t.Fatal(err)
	}
	if c := eng.actors[a.ID()].color; c != [3]int{255, 255, 255} {
		t.Errorf("color = %v", c)
	}
}
