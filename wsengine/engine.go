package wsengine

import (
	"encoding/json"

	"github.com/phanxgames/marionette"
)

// --- marionette.ActorEngine ---

func (c *Client) CreateRectangleActor(w, h float64) int {
	return c.handle("CreateRectangleActor", w, h)
}

func (c *Client) CreateRawActor(verts string) int {
	return c.handle("CreateRawActor", verts)
}

func (c *Client) CreatePolygonActor(verts string) int {
	return c.handle("CreatePolygonActor", verts)
}

func (c *Client) CreateCircleActor(radius float64, verts string) int {
	return c.handle("CreateCircleActor", radius, verts)
}

func (c *Client) DestroyActor(id int) bool { return c.ok("DestroyActor", id) }

func (c *Client) SetActorLayer(id, layer int) bool { return c.ok("SetActorLayer", id, layer) }

func (c *Client) GetActorLayer(id int) int { return c.integer("GetActorLayer", id) }

func (c *Client) SetActorPhysicsLayer(id, layer int) bool {
	return c.ok("SetActorPhysicsLayer", id, layer)
}

func (c *Client) GetActorPhysicsLayer(id int) int { return c.integer("GetActorPhysicsLayer", id) }

func (c *Client) SetPhysicsVertices(id int, verts string) bool {
	return c.ok("SetPhysicsVertices", id, verts)
}

func (c *Client) SetRenderMode(id int, mode marionette.RenderMode) bool {
	return c.ok("SetRenderMode", id, int(mode))
}

func (c *Client) UpdateVertices(id int, verts string) bool {
	return c.ok("UpdateVertices", id, verts)
}

func (c *Client) GetVertices(id int) string { return c.text("GetVertices", id) }

func (c *Client) SetActorVisible(id int, visible bool) bool {
	return c.ok("SetActorVisible", id, visible)
}

func (c *Client) GetActorVisible(id int) bool { return c.ok("GetActorVisible", id) }

func (c *Client) SetActorOpacity(id int, opacity float64) bool {
	return c.ok("SetActorOpacity", id, opacity)
}

func (c *Client) GetActorOpacity(id int) float64 { return c.number("GetActorOpacity", id) }

func (c *Client) SetActorPosition(id int, x, y float64) bool {
	return c.ok("SetActorPosition", id, x, y)
}

func (c *Client) GetActorPosition(id int) string { return c.text("GetActorPosition", id) }

func (c *Client) SetActorRotation(id int, angle float64, radians bool) bool {
	return c.ok("SetActorRotation", id, angle, radians)
}

func (c *Client) GetActorRotation(id int, radians bool) float64 {
	return c.number("GetActorRotation", id, radians)
}

func (c *Client) SetActorColor(id int, r, g, b int) bool {
	return c.ok("SetActorColor", id, r, g, b)
}

func (c *Client) GetActorColor(id int) string { return c.text("GetActorColor", id) }

func (c *Client) SetActorTexture(id int, name string) bool {
	return c.ok("SetActorTexture", id, name)
}

func (c *Client) SetActorTextureRepeat(id int, x, y float64) bool {
	return c.ok("SetActorTextureRepeat", id, x, y)
}

func (c *Client) GetActorTextureRepeat(id int) string {
	return c.text("GetActorTextureRepeat", id)
}

func (c *Client) EnableActorPhysics(id int, mass, friction, elasticity float64) bool {
	return c.ok("EnableActorPhysics", id, mass, friction, elasticity)
}

func (c *Client) DestroyPhysicsBody(id int) bool { return c.ok("DestroyPhysicsBody", id) }

func (c *Client) AttachTexture(id int, texture string, w, h, x, y, angle float64) bool {
	return c.ok("AttachTexture", id, texture, w, h, x, y, angle)
}

func (c *Client) RemoveAttachment(id int) bool { return c.ok("RemoveAttachment", id) }

func (c *Client) SetAttachmentVisible(id int, visible bool) bool {
	return c.ok("SetAttachmentVisible", id, visible)
}

func (c *Client) GetRectangleActorWidth(id int) float64 {
	return c.number("GetRectangleActorWidth", id)
}

func (c *Client) GetRectangleActorHeight(id int) float64 {
	return c.number("GetRectangleActorHeight", id)
}

func (c *Client) SetRectangleActorWidth(id int, w float64) bool {
	return c.ok("SetRectangleActorWidth", id, w)
}

func (c *Client) SetRectangleActorHeight(id int, h float64) bool {
	return c.ok("SetRectangleActorHeight", id, h)
}

func (c *Client) GetCircleActorRadius(id int) float64 {
	return c.number("GetCircleActorRadius", id)
}

func (c *Client) SetCircleActorRadius(id int, r float64) bool {
	return c.ok("SetCircleActorRadius", id, r)
}

// --- marionette.AnimationEngine ---

func (c *Client) CanAnimate(property string) bool { return c.ok("CanAnimate", property) }

// Animate registers onStep locally; the server reports each step as an event
// delivered by Poll. The engine calls onStep once per udata entry, so the
// callback is dropped after the last one. Animations without udata never
// step and register nothing.
func (c *Client) Animate(id int, property, options string, onStep func(float64)) bool {
	n := stepCount(options)
	if n == 0 {
		onStep = nil
	}
	ref := c.registerN(onStep, n)
	if !c.ok("Animate", id, property, options, ref) {
		c.unregister(ref)
		return false
	}
	return true
}

// PreCalculateBez answers repeated option sets from a local cache. Failed
// calls are not cached.
func (c *Client) PreCalculateBez(options string) string {
	key := bezKey(options)
	if v, ok := c.cachedBez(key); ok {
		return v
	}
	v := c.text("PreCalculateBez", options)
	if v != "" {
		c.storeBez(key, v)
	}
	return v
}

// --- marionette.HostEngine ---

func (c *Client) Initialize(width, height int, ready func(), logLevel marionette.LogLevel, target string) {
	ref := c.register(EventReady, signalFunc(ready))
	c.exec("Initialize", width, height, ref, int(logLevel), target)
}

func (c *Client) SetLogLevel(level marionette.LogLevel) { c.exec("SetLogLevel", int(level)) }

func (c *Client) SetCameraPosition(x, y float64) { c.exec("SetCameraPosition", x, y) }

func (c *Client) GetCameraPosition() string { return c.text("GetCameraPosition") }

func (c *Client) SetClearColor(r, g, b int) { c.exec("SetClearColor", r, g, b) }

func (c *Client) GetClearColor() string { return c.text("GetClearColor") }

func (c *Client) LoadManifest(manifest string, done func()) {
	ref := c.register(EventManifest, signalFunc(done))
	c.exec("LoadManifest", manifest, ref)
}

func (c *Client) GetTextureSize(name string) string { return c.text("GetTextureSize", name) }

func (c *Client) SetRemindMeButton(x, y, w, h float64) {
	c.exec("SetRemindMeButton", x, y, w, h)
}

// --- marionette.RendererSelector ---

func (c *Client) AcceleratedAvailable() bool { return c.ok("AcceleratedAvailable") }

func (c *Client) SetRendererMode(mode marionette.RendererMode) {
	c.exec("SetRendererMode", int(mode))
}

func signalFunc(fn func()) func(float64) {
	if fn == nil {
		return nil
	}
	return func(float64) { fn() }
}

// stepCount is the number of step events an animation will produce.
func stepCount(options string) int {
	var o struct {
		UData []json.RawMessage `json:"udata"`
	}
	if err := json.Unmarshal([]byte(options), &o); err != nil {
		return 0
	}
	return len(o.UData)
}
