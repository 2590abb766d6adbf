package marionette

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

func TestRuntimeInitOnce(t *testing.T) {
	eng := newFakeEngine()
	rt, logs := observedRuntime(eng)

	readyCalls := 0
	if err := rt.Init(func() { readyCalls++ }, 800, 600, "canvas"); err != nil {
		t.Fatal(err)
	}
	if !rt.Initialized() || eng.initCount != 1 || readyCalls != 1 {
		t.Fatalf("initialized=%v initCount=%d ready=%d", rt.Initialized(), eng.initCount, readyCalls)
	}
	if eng.width != 800 || eng.height != 600 {
		t.Errorf("size = %dx%d", eng.width, eng.height)
	}

	if err := rt.Init(func() { readyCalls++ }, 800, 600, "canvas"); err != nil {
		t.Fatal(err)
	}
	if eng.initCount != 1 || readyCalls != 1 {
		t.Errorf("second Init reached the engine")
	}
	if logs.FilterMessage("already initialized").Len() != 1 {
		t.Errorf("expected one 'already initialized' error, got %v", logs.All())
	}
}

func TestRuntimeInitValidation(t *testing.T) {
	rt, _ := observedRuntime(newFakeEngine())
	if err := rt.Init(nil, 0, 100, ""); !errors.Is(err, ErrNonPositive) {
		t.Errorf("err = %v, want ErrNonPositive", err)
	}
	if rt.Initialized() {
		t.Error("failed Init marked runtime initialized")
	}
}

func TestRuntimeInitSelectsRenderer(t *testing.T) {
	eng := newFakeEngine()
	eng.accelerated = true
	rt, _ := observedRuntime(fakeSelector{eng})
	if err := rt.Init(nil, 10, 10, ""); err != nil {
		t.Fatal(err)
	}
	if eng.rendererMode != RendererAccelerated {
		t.Errorf("renderer = %d, want accelerated", eng.rendererMode)
	}

	eng2 := newFakeEngine()
	rt2, _ := observedRuntime(fakeSelector{eng2})
	if err := rt2.Init(nil, 10, 10, ""); err != nil {
		t.Fatal(err)
	}
	if eng2.rendererMode != RendererCanvas {
		t.Errorf("renderer = %d, want canvas", eng2.rendererMode)
	}
}

func TestRuntimeInitClearsStrayTimers(t *testing.T) {
	rt, _ := observedRuntime(newFakeEngine())
	fired := false
	rt.Timers().After(time.Millisecond, func() { fired = true })
	if err := rt.Init(nil, 10, 10, ""); err != nil {
		t.Fatal(err)
	}
	rt.Update(time.Second)
	if fired {
		t.Error("timer registered before Init fired")
	}
}

func TestRuntimeAutoScale(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	if err := rt.SetAutoScale(0, 1); !errors.Is(err, ErrNonPositive) {
		t.Errorf("err = %v", err)
	}
	if err := rt.SetAutoScale(2, 2); err != nil {
		t.Fatal(err)
	}
	before, err := rt.CreateSquareActor(0, 0, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.SetAutoScale(1, 1); err != nil {
		t.Fatal(err)
	}
	after, err := rt.CreateSquareActor(0, 0, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "first square", eng.actors[before.ID()].w, 10)
	assertNear(t, "second square", eng.actors[after.ID()].w, 5)
	if before.Env().Scale != (Scale{2, 2}) {
		t.Errorf("first actor scale = %v", before.Env().Scale)
	}
}

func TestRuntimeCamera(t *testing.T) {
	eng := newFakeEngine()
	rt, logs := observedRuntime(eng, WithScale(Scale{2, 2}))
	rt.SetCameraPosition(5, 6)
	if eng.camera != [2]float64{10, 12} {
		t.Errorf("engine camera = %v", eng.camera)
	}
	if got := rt.CameraPosition(); got != (Vec2{5, 6}) {
		t.Errorf("CameraPosition = %v", got)
	}

	eng.badReplies = true
	if got := rt.CameraPosition(); got != (Vec2{5, 6}) {
		t.Errorf("CameraPosition after bad reply = %v, want last known", got)
	}
	if logs.FilterMessage("invalid camera position").Len() != 1 {
		t.Error("malformed camera reply not logged")
	}
}

func TestRuntimeClearColor(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	rt.SetClearColor(NewColor3(10, 20, 30))
	if got := rt.ClearColor(); got != NewColor3(10, 20, 30) {
		t.Errorf("ClearColor = %v", got)
	}
}

func TestRuntimeAnimateNative(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	r, err := rt.CreateRectangleActor(0, 0, 10, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Rotate(rt, 90, 1000, 0, nil); err != nil {
		t.Fatal(err)
	}
	if len(eng.anims) != 1 {
		t.Fatalf("animations = %d, want 1", len(eng.anims))
	}
	a := eng.anims[0]
	if a.property.String() != "rotation" || a.step != nil {
		t.Errorf("property = %s, step set = %v", a.property, a.step != nil)
	}
	assertNear(t, "endVal", a.options.EndVal, 90)
	assertNear(t, "fps default", *a.options.FPS, DefaultFPS)
	assertNear(t, "start", *a.options.Start, 0)
}

func TestRuntimeAnimateDefaults(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng, WithDefaults(60, 100))
	r, err := rt.CreateRectangleActor(0, 0, 10, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = rt.Animate(r, []Property{Prop("opacity")}, []AnimationOptions{{EndVal: 0, Duration: 200}})
	if err != nil {
		t.Fatal(err)
	}
	o := eng.anims[0].options
	assertNear(t, "fps", *o.FPS, 60)
	assertNear(t, "start", *o.Start, 100)
}

func TestRuntimeAnimateUnrecognizedDispatchesNothing(t *testing.T) {
	eng := newFakeEngine()
	rt, logs := observedRuntime(eng)
	c, err := rt.CreateCircleActor(0, 0, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = rt.Animate(c,
		[]Property{Prop("rotation"), Prop("width")},
		[]AnimationOptions{{EndVal: 1, Duration: 10}, {StartVal: Float(1), EndVal: 2, Duration: 10}})
	if !errors.Is(err, ErrUnrecognizedProperty) {
		t.Errorf("err = %v, want ErrUnrecognizedProperty", err)
	}
	if len(eng.anims) != 0 {
		t.Errorf("dispatched %d animations", len(eng.anims))
	}
	if logs.FilterMessage("unrecognized property").Len() != 1 {
		t.Error("unrecognized property not logged")
	}
}

func TestRuntimeAnimateLengthMismatch(t *testing.T) {
	rt, _ := observedRuntime(newFakeEngine())
	c, err := rt.CreateCircleActor(0, 0, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.Animate(c, []Property{Prop("rotation")}, nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
}

func TestRuntimeAnimateMappedStep(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	r, err := rt.CreateRectangleActor(0, 0, 10, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = rt.Animate(r, []Property{Prop("width")}, []AnimationOptions{{StartVal: Float(10), EndVal: 12, Duration: 1000, FPS: Float(2)}})
	if err != nil {
		t.Fatal(err)
	}
	a := eng.anims[0]
	if a.property.String() != "vertices" || a.step == nil {
		t.Fatalf("property = %s, step set = %v", a.property, a.step != nil)
	}
	for _, u := range a.options.UData {
		a.step(u)
	}
	assertNear(t, "cached width", r.width, 12)
}

func TestRuntimeAnimateAbsoluteIsDeferred(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	p, err := rt.CreatePolygonActor(0, 0, 5, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = rt.Animate(p, []Property{Prop("radius"), Prop("rotation")}, []AnimationOptions{
		{StartVal: Float(5), EndVal: 10, Duration: 500, Start: Float(250)},
		{EndVal: 45, Duration: 500, Start: Float(250)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(eng.anims) != 1 || eng.anims[0].property.String() != "rotation" {
		t.Fatalf("immediate animations = %v", eng.calls)
	}
	assertNear(t, "native start", *eng.anims[0].options.Start, 250)

	rt.Update(200 * time.Millisecond)
	if len(eng.anims) != 1 {
		t.Fatal("absolute animation dispatched before its start offset")
	}
	rt.Update(50 * time.Millisecond)
	if len(eng.anims) != 2 {
		t.Fatalf("animations = %d, want 2", len(eng.anims))
	}
	a := eng.anims[1]
	if a.property.String() != "vertices" {
		t.Errorf("property = %s", a.property)
	}
	assertNear(t, "deferred start", *a.options.Start, -1)
}

func TestRuntimeDeferredMappingUsesCurrentShape(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	p, err := rt.CreatePolygonActor(0, 0, 5, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = rt.Animate(p, []Property{Prop("sides")}, []AnimationOptions{
		{StartVal: Float(3), EndVal: 8, Duration: 1000, FPS: Float(5), Start: Float(0)},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = rt.Animate(p, []Property{Prop("radius")}, []AnimationOptions{
		{StartVal: Float(5), EndVal: 10, Duration: 500, FPS: Float(2), Start: Float(1000)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(eng.anims) != 0 {
		t.Fatalf("absolute animations dispatched early: %d", len(eng.anims))
	}

	rt.Update(0)
	if len(eng.anims) != 1 {
		t.Fatalf("animations = %d, want the sides track", len(eng.anims))
	}
	sides := eng.anims[0]
	for _, u := range sides.options.UData {
		sides.step(u)
	}
	if p.Segments() != 8 {
		t.Fatalf("segments = %d, want 8", p.Segments())
	}

	rt.Update(time.Second)
	if len(eng.anims) != 2 {
		t.Fatalf("animations = %d, want the radius track", len(eng.anims))
	}
	radius := eng.anims[1]
	for i, row := range radius.options.Deltas {
		if len(row) != 18 {
			t.Fatalf("row %d has %d entries, want 9 vertices of an octagon", i, len(row))
		}
	}
	last := radius.options.Deltas[len(radius.options.Deltas)-1]
	assertNear(t, "final x0", last[0].Value(), 10)
}

func TestRuntimeDeferredMappingErrorIsLogged(t *testing.T) {
	eng := newFakeEngine()
	rt, logs := observedRuntime(eng)
	p, err := rt.CreatePolygonActor(0, 0, 5, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = rt.Animate(p, []Property{Prop("radius")}, []AnimationOptions{{EndVal: 10, Duration: 500, Start: Float(100)}})
	if err != nil {
		t.Fatalf("Animate = %v, want nil until the mapping runs", err)
	}
	rt.Update(100 * time.Millisecond)
	if len(eng.anims) != 0 {
		t.Errorf("animations = %d, want none", len(eng.anims))
	}
	if logs.FilterMessage("deferred mapping failed").Len() != 1 {
		t.Error("missing mapping error log")
	}
}

func TestRuntimeMapAnimation(t *testing.T) {
	rt, _ := observedRuntime(newFakeEngine())
	c, err := rt.CreateCircleActor(0, 0, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rt.MapAnimation(c, Prop("sides"), AnimationOptions{}); !errors.Is(err, ErrUnrecognizedProperty) {
		t.Errorf("err = %v", err)
	}
	anim, err := rt.MapAnimation(c, Prop("radius"), AnimationOptions{StartVal: Float(5), EndVal: 6, Duration: 100, FPS: Float(30)})
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Options.Deltas) == 0 {
		t.Error("no rows mapped")
	}
}

func TestRuntimeLogLevel(t *testing.T) {
	eng := newFakeEngine()
	rt, logs := observedRuntime(eng)
	if rt.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %v", rt.LogLevel())
	}
	if err := rt.SetLogLevel(LogLevel(7)); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v", err)
	}
	rt.Info("hidden")
	rt.Debug("hidden")
	rt.Warning("shown")
	rt.Error("shown")
	if logs.FilterMessage("hidden").Len() != 0 || logs.FilterMessage("shown").Len() != 2 {
		t.Errorf("warning level emitted %v", logs.All())
	}

	if err := rt.SetLogLevel(LogDebug); err != nil {
		t.Fatal(err)
	}
	if eng.logLevel != LogDebug {
		t.Errorf("engine level = %v", eng.logLevel)
	}
	rt.Debug("debug on")
	rt.Info("info off")
	if logs.FilterMessage("debug on").Len() != 1 || logs.FilterMessage("info off").Len() != 0 {
		t.Error("debug level filtering wrong")
	}

	if err := rt.SetLogLevel(LogNone); err != nil {
		t.Fatal(err)
	}
	rt.Error("silenced")
	if logs.FilterMessage("silenced").Len() != 0 {
		t.Error("LogNone emitted an error")
	}
}

func TestRuntimeManifestAndTextures(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	if err := rt.LoadManifest("", nil); !errors.Is(err, ErrRequired) {
		t.Errorf("err = %v", err)
	}
	if err := rt.LoadManifest("{", nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v", err)
	}
	done := false
	if err := rt.LoadManifest(`{"textures":[]}`, func() { done = true }); err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("done not called")
	}
	w, h, err := rt.TextureSize("crate")
	if err != nil || w != 64 || h != 32 {
		t.Errorf("TextureSize = %v, %v, %v", w, h, err)
	}
	if _, _, err := rt.TextureSize(""); err == nil {
		t.Error("expected error for unknown texture")
	}
}

func TestRuntimeRemindMeLater(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng, WithScale(Scale{2, 3}))
	rt.SetRemindMeLaterButton(1, 1, 10, 10)
	if eng.remind != [4]float64{2, 3, 20, 30} {
		t.Errorf("remind = %v", eng.remind)
	}
}

func TestRuntimeTriangleRandomColor(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng, WithRandSource(rand.NewPCG(1, 2)))
	tri, err := rt.CreateTriangleActor(0, 0, 4, 4, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := rand.New(rand.NewPCG(1, 2))
	c := [3]int{want.IntN(256), want.IntN(256), want.IntN(256)}
	if got := eng.actors[tri.ID()].color; got != c {
		t.Errorf("color = %v, want %v", got, c)
	}

	blue := NewColor3(0, 0, 255)
	tri2, err := rt.CreateTriangleActor(0, 0, 4, 4, &blue)
	if err != nil {
		t.Fatal(err)
	}
	if got := eng.actors[tri2.ID()].color; got != [3]int{0, 0, 255} {
		t.Errorf("color = %v", got)
	}
}

func TestRuntimeCreateWithExtraOptions(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := observedRuntime(eng)
	withBody := func(o *ActorOptions) {
		o.Physics = true
		o.Material.Mass = Float(2)
		o.Rotation = Float(30)
	}
	r, err := rt.CreateRectangleActor(4, 5, 10, 10, nil, withBody)
	if err != nil {
		t.Fatal(err)
	}
	fa := eng.actors[r.ID()]
	if !fa.physics || fa.material != [3]float64{2, DefaultFriction, DefaultElasticity} {
		t.Errorf("physics = %v, material = %v", fa.physics, fa.material)
	}
	assertNear(t, "rotation", fa.rotation, 30)
	assertNear(t, "x", fa.x, 4)
	assertNear(t, "y", fa.y, 5)

	moved := func(o *ActorOptions) { o.Position = &Vec2{X: 1, Y: 1} }
	p, err := rt.CreatePolygonActor(9, 9, 5, 6, nil, moved)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "overridden x", eng.actors[p.ID()].x, 1)
	if eng.actors[p.ID()].physics {
		t.Error("polygon should not have a physics body")
	}
}
