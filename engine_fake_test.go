package marionette

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approxEqual(got, want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVerts(t *testing.T, name string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: len = %d, want %d (%v)", name, len(got), len(want), got)
	}
	for i := range got {
		if !approxEqual(got[i], want[i], 1e-6) {
			t.Errorf("%s[%d] = %v, want %v (full: %v)", name, i, got[i], want[i], got)
		}
	}
}

// fakeActor is the engine-side record of one actor.
type fakeActor struct {
	kind       string
	verts      []float64
	physVerts  []float64
	renderMode RenderMode
	x, y       float64
	rotation   float64 // degrees
	color      [3]int
	layer      int
	physLayer  int
	visible    bool
	opacity    float64
	texture    string
	repeat     [2]float64
	physics    bool
	material   [3]float64
	w, h       float64
	radius     float64
	attachment string
}

type fakeAnimation struct {
	id       int
	property Property
	options  AnimationOptions
	step     func(float64)
}

// fakeEngine is an in-memory Engine that records what it is told.
type fakeEngine struct {
	nextID  int
	actors  map[int]*fakeActor
	calls   []string
	anims   []fakeAnimation
	native  map[string]bool
	bezRaw  string // overrides PreCalculateBez when set
	bezReqs []AnimationOptions

	failCreate   bool
	badReplies   bool
	accelerated  bool
	rendererMode RendererMode

	initCount int
	width     int
	height    int
	logLevel  LogLevel
	camera    [2]float64
	clear     [3]int
	manifest  string
	remind    [4]float64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		actors: make(map[int]*fakeActor),
		native: map[string]bool{"position": true, "rotation": true, "color": true, "opacity": true},
	}
}

func (e *fakeEngine) record(format string, args ...any) {
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

func (e *fakeEngine) called(prefix string) int {
	n := 0
	for _, c := range e.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (e *fakeEngine) create(kind string, verts []float64) int {
	if e.failCreate {
		return InvalidHandle
	}
	e.nextID++
	e.actors[e.nextID] = &fakeActor{kind: kind, verts: verts, visible: true, opacity: 1, repeat: [2]float64{1, 1}}
	e.record("create %s %d", kind, e.nextID)
	return e.nextID
}

func (e *fakeEngine) actor(id int) *fakeActor {
	if a, ok := e.actors[id]; ok {
		return a
	}
	return &fakeActor{}
}

func mustDecode(s string) []float64 {
	v, err := decodeVertices(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (e *fakeEngine) CreateRectangleActor(w, h float64) int {
	id := e.create("rectangle", RectangleVertices(w, h))
	if id != InvalidHandle {
		e.actors[id].w, e.actors[id].h = w, h
	}
	return id
}

func (e *fakeEngine) CreateRawActor(verts string) int { return e.create("raw", mustDecode(verts)) }

func (e *fakeEngine) CreatePolygonActor(verts string) int {
	return e.create("polygon", mustDecode(verts))
}

func (e *fakeEngine) CreateCircleActor(radius float64, verts string) int {
	id := e.create("circle", mustDecode(verts))
	if id != InvalidHandle {
		e.actors[id].radius = radius
	}
	return id
}

func (e *fakeEngine) DestroyActor(id int) bool {
	e.record("destroy %d", id)
	_, ok := e.actors[id]
	delete(e.actors, id)
	return ok
}

func (e *fakeEngine) SetActorLayer(id, layer int) bool {
	e.actor(id).layer = layer
	return true
}

func (e *fakeEngine) GetActorLayer(id int) int { return e.actor(id).layer }

func (e *fakeEngine) SetActorPhysicsLayer(id, layer int) bool {
	e.actor(id).physLayer = layer
	return true
}

func (e *fakeEngine) GetActorPhysicsLayer(id int) int { return e.actor(id).physLayer }

func (e *fakeEngine) SetPhysicsVertices(id int, verts string) bool {
	e.record("physics vertices %d", id)
	e.actor(id).physVerts = mustDecode(verts)
	return true
}

func (e *fakeEngine) SetRenderMode(id int, mode RenderMode) bool {
	e.actor(id).renderMode = mode
	return true
}

func (e *fakeEngine) UpdateVertices(id int, verts string) bool {
	e.record("update vertices %d", id)
	e.actor(id).verts = mustDecode(verts)
	return true
}

func (e *fakeEngine) GetVertices(id int) string {
	if e.badReplies {
		return "not json"
	}
	return encodeVertices(e.actor(id).verts)
}

func (e *fakeEngine) SetActorVisible(id int, visible bool) bool {
	e.actor(id).visible = visible
	return true
}

func (e *fakeEngine) GetActorVisible(id int) bool { return e.actor(id).visible }

func (e *fakeEngine) SetActorOpacity(id int, opacity float64) bool {
	e.actor(id).opacity = opacity
	return true
}

func (e *fakeEngine) GetActorOpacity(id int) float64 { return e.actor(id).opacity }

func (e *fakeEngine) SetActorPosition(id int, x, y float64) bool {
	a := e.actor(id)
	a.x, a.y = x, y
	return true
}

func (e *fakeEngine) GetActorPosition(id int) string {
	if e.badReplies {
		return "{"
	}
	a := e.actor(id)
	return fmt.Sprintf(`{"x":%g,"y":%g}`, a.x, a.y)
}

func (e *fakeEngine) SetActorRotation(id int, angle float64, radians bool) bool {
	if radians {
		angle = angle * 180 / math.Pi
	}
	e.actor(id).rotation = angle
	return true
}

func (e *fakeEngine) GetActorRotation(id int, radians bool) float64 {
	r := e.actor(id).rotation
	if radians {
		return r * math.Pi / 180
	}
	return r
}

func (e *fakeEngine) SetActorColor(id int, r, g, b int) bool {
	e.actor(id).color = [3]int{r, g, b}
	return true
}

func (e *fakeEngine) GetActorColor(id int) string {
	if e.badReplies {
		return "[]"
	}
	c := e.actor(id).color
	return fmt.Sprintf(`{"r":%d,"g":%d,"b":%d}`, c[0], c[1], c[2])
}

func (e *fakeEngine) SetActorTexture(id int, name string) bool {
	e.actor(id).texture = name
	return true
}

func (e *fakeEngine) SetActorTextureRepeat(id int, x, y float64) bool {
	e.actor(id).repeat = [2]float64{x, y}
	return true
}

func (e *fakeEngine) GetActorTextureRepeat(id int) string {
	r := e.actor(id).repeat
	return fmt.Sprintf(`{"x":%g,"y":%g}`, r[0], r[1])
}

func (e *fakeEngine) EnableActorPhysics(id int, mass, friction, elasticity float64) bool {
	e.record("enable physics %d %g %g %g", id, mass, friction, elasticity)
	a := e.actor(id)
	a.physics = true
	a.material = [3]float64{mass, friction, elasticity}
	return true
}

func (e *fakeEngine) DestroyPhysicsBody(id int) bool {
	a := e.actor(id)
	had := a.physics
	a.physics = false
	return had
}

func (e *fakeEngine) AttachTexture(id int, texture string, w, h, x, y, angle float64) bool {
	e.record("attach %d %s %g %g %g %g %g", id, texture, w, h, x, y, angle)
	e.actor(id).attachment = texture
	return true
}

func (e *fakeEngine) RemoveAttachment(id int) bool {
	a := e.actor(id)
	had := a.attachment != ""
	a.attachment = ""
	return had
}

func (e *fakeEngine) SetAttachmentVisible(id int, visible bool) bool {
	return e.actor(id).attachment != ""
}

func (e *fakeEngine) GetRectangleActorWidth(id int) float64  { return e.actor(id).w }
func (e *fakeEngine) GetRectangleActorHeight(id int) float64 { return e.actor(id).h }

func (e *fakeEngine) SetRectangleActorWidth(id int, w float64) bool {
	a := e.actor(id)
	a.w = w
	a.verts = RectangleVertices(a.w, a.h)
	return true
}

func (e *fakeEngine) SetRectangleActorHeight(id int, h float64) bool {
	a := e.actor(id)
	a.h = h
	a.verts = RectangleVertices(a.w, a.h)
	return true
}

func (e *fakeEngine) GetCircleActorRadius(id int) float64 { return e.actor(id).radius }

func (e *fakeEngine) SetCircleActorRadius(id int, r float64) bool {
	e.actor(id).radius = r
	return true
}

func (e *fakeEngine) CanAnimate(property string) bool { return e.native[property] }

func (e *fakeEngine) Animate(id int, property, options string, onStep func(float64)) bool {
	var p Property
	if err := json.Unmarshal([]byte(property), &p); err != nil {
		panic(err)
	}
	var o AnimationOptions
	if err := json.Unmarshal([]byte(options), &o); err != nil {
		panic(err)
	}
	e.record("animate %d %s", id, p)
	e.anims = append(e.anims, fakeAnimation{id: id, property: p, options: o, step: onStep})
	return true
}

// PreCalculateBez samples linearly: duration/1000*fps steps, both ends
// included, with the step time spreading the duration over every sample.
func (e *fakeEngine) PreCalculateBez(options string) string {
	var o AnimationOptions
	if err := json.Unmarshal([]byte(options), &o); err != nil {
		panic(err)
	}
	e.bezReqs = append(e.bezReqs, o)
	if e.bezRaw != "" {
		return e.bezRaw
	}
	fps := DefaultFPS
	if o.FPS != nil {
		fps = *o.FPS
	}
	start := 0.0
	if o.StartVal != nil {
		start = *o.StartVal
	}
	steps := max(int(o.Duration/1000*fps), 1)
	values := make([]float64, steps+1)
	for i := range values {
		values[i] = start + (o.EndVal-start)*float64(i)/float64(steps)
	}
	b, _ := json.Marshal(BezierSamples{Values: values, StepTime: o.Duration / float64(len(values))})
	return string(b)
}

func (e *fakeEngine) Initialize(width, height int, ready func(), logLevel LogLevel, target string) {
	e.initCount++
	e.width, e.height = width, height
	e.logLevel = logLevel
	ready()
}

func (e *fakeEngine) SetLogLevel(level LogLevel) { e.logLevel = level }

func (e *fakeEngine) SetCameraPosition(x, y float64) { e.camera = [2]float64{x, y} }

func (e *fakeEngine) GetCameraPosition() string {
	if e.badReplies {
		return "nope"
	}
	return fmt.Sprintf(`{"x":%g,"y":%g}`, e.camera[0], e.camera[1])
}

func (e *fakeEngine) SetClearColor(r, g, b int) { e.clear = [3]int{r, g, b} }

func (e *fakeEngine) GetClearColor() string {
	return fmt.Sprintf(`{"r":%d,"g":%d,"b":%d}`, e.clear[0], e.clear[1], e.clear[2])
}

func (e *fakeEngine) LoadManifest(manifest string, done func()) {
	e.manifest = manifest
	done()
}

func (e *fakeEngine) GetTextureSize(name string) string {
	if name == "" {
		return ""
	}
	return `{"w":64,"h":32}`
}

func (e *fakeEngine) SetRemindMeButton(x, y, w, h float64) { e.remind = [4]float64{x, y, w, h} }

// fakeSelector adds renderer selection to fakeEngine.
type fakeSelector struct {
	*fakeEngine
}

func (s fakeSelector) AcceleratedAvailable() bool { return s.accelerated }

func (s fakeSelector) SetRendererMode(mode RendererMode) { s.rendererMode = mode }

// testEnv returns an Env over a fresh fakeEngine with the given scale.
func testEnv(s Scale) (Env, *fakeEngine) {
	eng := newFakeEngine()
	return Env{Engine: eng, Scale: s, Log: zap.NewNop()}, eng
}

// observedRuntime returns a runtime whose log output is captured.
func observedRuntime(eng Engine, opts ...Option) (*Runtime, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	opts = append([]Option{WithLogCore(core)}, opts...)
	return New(eng, opts...), logs
}
