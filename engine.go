package marionette

// InvalidHandle is returned by the engine's create calls when it cannot
// allocate an actor.
const InvalidHandle = -1

// RenderMode selects how the engine fills an actor's vertex ring.
type RenderMode int

const (
	RenderNone    RenderMode = iota // not drawn
	RenderFilled                    // triangle fan
	RenderOutline                   // line loop
)

func (m RenderMode) valid() bool {
	return m >= RenderNone && m <= RenderOutline
}

// RendererMode selects the host's rendering backend.
type RendererMode int

const (
	RendererCanvas      RendererMode = 1 // raster canvas fallback
	RendererAccelerated RendererMode = 2 // GPU accelerated
)

// ActorEngine is the per-actor part of the host engine. Vertex lists,
// positions, colors and texture repeats cross the boundary as JSON text.
type ActorEngine interface {
	CreateRectangleActor(w, h float64) int
	CreateRawActor(verts string) int
	CreatePolygonActor(verts string) int
	CreateCircleActor(radius float64, verts string) int
	DestroyActor(id int) bool

	SetActorLayer(id, layer int) bool
	GetActorLayer(id int) int
	SetActorPhysicsLayer(id, layer int) bool
	GetActorPhysicsLayer(id int) int

	SetPhysicsVertices(id int, verts string) bool
	SetRenderMode(id int, mode RenderMode) bool
	UpdateVertices(id int, verts string) bool
	GetVertices(id int) string

	SetActorVisible(id int, visible bool) bool
	GetActorVisible(id int) bool
	SetActorOpacity(id int, opacity float64) bool
	GetActorOpacity(id int) float64
	SetActorPosition(id int, x, y float64) bool
	GetActorPosition(id int) string
	SetActorRotation(id int, angle float64, radians bool) bool
	GetActorRotation(id int, radians bool) float64
	SetActorColor(id int, r, g, b int) bool
	GetActorColor(id int) string

	SetActorTexture(id int, name string) bool
	SetActorTextureRepeat(id int, x, y float64) bool
	GetActorTextureRepeat(id int) string

	EnableActorPhysics(id int, mass, friction, elasticity float64) bool
	DestroyPhysicsBody(id int) bool

	AttachTexture(id int, texture string, w, h, x, y, angle float64) bool
	RemoveAttachment(id int) bool
	SetAttachmentVisible(id int, visible bool) bool

	GetRectangleActorWidth(id int) float64
	GetRectangleActorHeight(id int) float64
	SetRectangleActorWidth(id int, w float64) bool
	SetRectangleActorHeight(id int, h float64) bool

	GetCircleActorRadius(id int) float64
	SetCircleActorRadius(id int, r float64) bool
}

// AnimationEngine schedules animations and samples Bezier curves.
type AnimationEngine interface {
	// CanAnimate reports whether the engine animates the root property name
	// natively.
	CanAnimate(property string) bool
	// Animate registers an animation. property is a JSON array path, options
	// a JSON object. onStep, when non-nil, is invoked with the matching udata
	// entry each time a vertex delta row is applied.
	Animate(id int, property, options string, onStep func(udata float64)) bool
	// PreCalculateBez samples the curve described by options and returns
	// {"values":[...],"stepTime":ms}.
	PreCalculateBez(options string) string
}

// HostEngine covers engine-wide state.
type HostEngine interface {
	Initialize(width, height int, ready func(), logLevel LogLevel, target string)
	SetLogLevel(level LogLevel)
	SetCameraPosition(x, y float64)
	GetCameraPosition() string
	SetClearColor(r, g, b int)
	GetClearColor() string
	LoadManifest(manifest string, done func())
	GetTextureSize(name string) string
	SetRemindMeButton(x, y, w, h float64)
}

// Engine is the external collaborator every component talks to. It is
// injected, never looked up globally.
type Engine interface {
	ActorEngine
	AnimationEngine
	HostEngine
}

// RendererSelector is implemented by engines that can switch between a
// raster canvas and an accelerated renderer.
type RendererSelector interface {
	AcceleratedAvailable() bool
	SetRendererMode(mode RendererMode)
}
