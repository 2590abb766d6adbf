package hostengine

import (
	"encoding/json"
	"math"

	"go.uber.org/zap"

	"github.com/phanxgames/marionette"
)

// CreateRectangleActor implements marionette.ActorEngine.
func (h *Host) CreateRectangleActor(w, hgt float64) int {
	if w <= 0 || hgt <= 0 {
		h.log.Error("invalid rectangle size", zap.Float64("w", w), zap.Float64("h", hgt))
		return marionette.InvalidHandle
	}
	id := h.add(kindRectangle, marionette.RectangleVertices(w, hgt))
	h.nodes[id].w, h.nodes[id].h = w, hgt
	return id
}

// CreateRawActor implements marionette.ActorEngine.
func (h *Host) CreateRawActor(verts string) int {
	v, ok := h.parseVertices(verts)
	if !ok {
		return marionette.InvalidHandle
	}
	return h.add(kindRaw, v)
}

// CreatePolygonActor implements marionette.ActorEngine.
func (h *Host) CreatePolygonActor(verts string) int {
	v, ok := h.parseVertices(verts)
	if !ok {
		return marionette.InvalidHandle
	}
	return h.add(kindPolygon, v)
}

// CreateCircleActor implements marionette.ActorEngine.
func (h *Host) CreateCircleActor(radius float64, verts string) int {
	v, ok := h.parseVertices(verts)
	if !ok || radius <= 0 {
		return marionette.InvalidHandle
	}
	id := h.add(kindCircle, v)
	h.nodes[id].radius = radius
	return id
}

// DestroyActor implements marionette.ActorEngine.
func (h *Host) DestroyActor(id int) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	n.disposed = true
	delete(h.nodes, id)
	h.log.Debug("destroyed actor", zap.Int("actor", id))
	return true
}

// SetActorLayer implements marionette.ActorEngine.
func (h *Host) SetActorLayer(id, layer int) bool {
	n, ok := h.node(id)
	if ok {
		n.layer = layer
	}
	return ok
}

// GetActorLayer implements marionette.ActorEngine.
func (h *Host) GetActorLayer(id int) int {
	if n, ok := h.node(id); ok {
		return n.layer
	}
	return 0
}

// SetActorPhysicsLayer implements marionette.ActorEngine.
func (h *Host) SetActorPhysicsLayer(id, layer int) bool {
	n, ok := h.node(id)
	if !ok || layer < 0 || layer > marionette.MaxPhysicsLayer {
		return false
	}
	n.physicsLayer = layer
	return true
}

// GetActorPhysicsLayer implements marionette.ActorEngine.
func (h *Host) GetActorPhysicsLayer(id int) int {
	if n, ok := h.node(id); ok {
		return n.physicsLayer
	}
	return 0
}

// SetPhysicsVertices implements marionette.ActorEngine. The vertices are
// kept for the next physics body.
func (h *Host) SetPhysicsVertices(id int, verts string) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	v, ok := h.parseVertices(verts)
	if !ok {
		return false
	}
	n.physVerts = v
	return true
}

// SetRenderMode implements marionette.ActorEngine.
func (h *Host) SetRenderMode(id int, mode marionette.RenderMode) bool {
	n, ok := h.node(id)
	if !ok || mode < marionette.RenderNone || mode > marionette.RenderOutline {
		return false
	}
	n.mode = mode
	return true
}

// UpdateVertices implements marionette.ActorEngine.
func (h *Host) UpdateVertices(id int, verts string) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	v, ok := h.parseVertices(verts)
	if !ok {
		return false
	}
	n.setVertices(v)
	return true
}

// GetVertices implements marionette.ActorEngine.
func (h *Host) GetVertices(id int) string {
	if n, ok := h.node(id); ok {
		return encode(n.verts)
	}
	return ""
}

// SetActorVisible implements marionette.ActorEngine.
func (h *Host) SetActorVisible(id int, visible bool) bool {
	n, ok := h.node(id)
	if ok {
		n.visible = visible
	}
	return ok
}

// GetActorVisible implements marionette.ActorEngine.
func (h *Host) GetActorVisible(id int) bool {
	if n, ok := h.node(id); ok {
		return n.visible
	}
	return false
}

// SetActorOpacity implements marionette.ActorEngine.
func (h *Host) SetActorOpacity(id int, opacity float64) bool {
	n, ok := h.node(id)
	if ok {
		n.opacity = math.Max(0, math.Min(1, opacity))
	}
	return ok
}

// GetActorOpacity implements marionette.ActorEngine.
func (h *Host) GetActorOpacity(id int) float64 {
	if n, ok := h.node(id); ok {
		return n.opacity
	}
	return 0
}

// SetActorPosition implements marionette.ActorEngine.
func (h *Host) SetActorPosition(id int, x, y float64) bool {
	n, ok := h.node(id)
	if ok {
		n.x, n.y = x, y
	}
	return ok
}

// GetActorPosition implements marionette.ActorEngine.
func (h *Host) GetActorPosition(id int) string {
	if n, ok := h.node(id); ok {
		return encode(marionette.Vec2{X: n.x, Y: n.y})
	}
	return ""
}

// SetActorRotation implements marionette.ActorEngine.
func (h *Host) SetActorRotation(id int, angle float64, radians bool) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	if radians {
		angle = angle * 180 / math.Pi
	}
	n.rotation = angle
	return true
}

// GetActorRotation implements marionette.ActorEngine.
func (h *Host) GetActorRotation(id int, radians bool) float64 {
	n, ok := h.node(id)
	if !ok {
		return 0
	}
	if radians {
		return n.rotation * math.Pi / 180
	}
	return n.rotation
}

// SetActorColor implements marionette.ActorEngine.
func (h *Host) SetActorColor(id int, r, g, b int) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	c := marionette.NewColor3(r, g, b)
	n.r, n.g, n.b = float64(c.R()), float64(c.G()), float64(c.B())
	return true
}

// GetActorColor implements marionette.ActorEngine.
func (h *Host) GetActorColor(id int) string {
	if n, ok := h.node(id); ok {
		return encode(n.color())
	}
	return ""
}

// SetActorTexture implements marionette.ActorEngine. Unknown textures are
// rejected.
func (h *Host) SetActorTexture(id int, name string) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	if _, ok := h.textures[name]; !ok {
		h.log.Warn("unknown texture", zap.String("texture", name))
		return false
	}
	n.texture = name
	n.meshDirty = true
	return true
}

// SetActorTextureRepeat implements marionette.ActorEngine.
func (h *Host) SetActorTextureRepeat(id int, x, y float64) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	n.repeatX, n.repeatY = x, y
	n.meshDirty = true
	return true
}

// GetActorTextureRepeat implements marionette.ActorEngine.
func (h *Host) GetActorTextureRepeat(id int) string {
	if n, ok := h.node(id); ok {
		return encode(marionette.Vec2{X: n.repeatX, Y: n.repeatY})
	}
	return ""
}

// EnableActorPhysics implements marionette.ActorEngine. Any existing body is
// replaced; physics vertices set earlier carry over.
func (h *Host) EnableActorPhysics(id int, mass, friction, elasticity float64) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	n.body = &body{mass: mass, friction: friction, elasticity: elasticity}
	h.log.Debug("enabled physics", zap.Int("actor", id), zap.Float64("mass", mass))
	return true
}

// DestroyPhysicsBody implements marionette.ActorEngine.
func (h *Host) DestroyPhysicsBody(id int) bool {
	n, ok := h.node(id)
	if !ok || n.body == nil {
		return false
	}
	n.body = nil
	return true
}

// AttachTexture implements marionette.ActorEngine.
func (h *Host) AttachTexture(id int, texture string, w, hgt, x, y, angle float64) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	if _, ok := h.textures[texture]; !ok {
		h.log.Warn("unknown texture", zap.String("texture", texture))
		return false
	}
	n.attachment = &attachment{texture: texture, w: w, h: hgt, x: x, y: y, angle: angle, visible: true}
	return true
}

// RemoveAttachment implements marionette.ActorEngine.
func (h *Host) RemoveAttachment(id int) bool {
	n, ok := h.node(id)
	if !ok || n.attachment == nil {
		return false
	}
	n.attachment = nil
	return true
}

// SetAttachmentVisible implements marionette.ActorEngine.
func (h *Host) SetAttachmentVisible(id int, visible bool) bool {
	n, ok := h.node(id)
	if !ok || n.attachment == nil {
		return false
	}
	n.attachment.visible = visible
	return true
}

// GetRectangleActorWidth implements marionette.ActorEngine.
func (h *Host) GetRectangleActorWidth(id int) float64 {
	if n, ok := h.node(id); ok {
		return n.w
	}
	return 0
}

// GetRectangleActorHeight implements marionette.ActorEngine.
func (h *Host) GetRectangleActorHeight(id int) float64 {
	if n, ok := h.node(id); ok {
		return n.h
	}
	return 0
}

// SetRectangleActorWidth implements marionette.ActorEngine.
func (h *Host) SetRectangleActorWidth(id int, w float64) bool {
	n, ok := h.node(id)
	if !ok || w <= 0 {
		return false
	}
	n.w = w
	n.setVertices(marionette.RectangleVertices(n.w, n.h))
	return true
}

// SetRectangleActorHeight implements marionette.ActorEngine.
func (h *Host) SetRectangleActorHeight(id int, hgt float64) bool {
	n, ok := h.node(id)
	if !ok || hgt <= 0 {
		return false
	}
	n.h = hgt
	n.setVertices(marionette.RectangleVertices(n.w, n.h))
	return true
}

// GetCircleActorRadius implements marionette.ActorEngine.
func (h *Host) GetCircleActorRadius(id int) float64 {
	if n, ok := h.node(id); ok {
		return n.radius
	}
	return 0
}

// SetCircleActorRadius implements marionette.ActorEngine.
func (h *Host) SetCircleActorRadius(id int, r float64) bool {
	n, ok := h.node(id)
	if !ok || r <= 0 {
		return false
	}
	n.radius = r
	n.setVertices(marionette.RegularPolygonVertices(marionette.CircleSegments, r))
	return true
}

// --- Animation ---

// CanAnimate implements marionette.AnimationEngine.
func (h *Host) CanAnimate(property string) bool {
	switch property {
	case "position", "rotation", "color", "opacity", "vertices":
		return true
	}
	return false
}

// Animate implements marionette.AnimationEngine. A negative start offset
// begins immediately.
func (h *Host) Animate(id int, property, options string, onStep func(float64)) bool {
	n, ok := h.node(id)
	if !ok {
		return false
	}
	var prop marionette.Property
	if err := json.Unmarshal([]byte(property), &prop); err != nil {
		h.log.Error("invalid property", zap.String("payload", property), zap.Error(err))
		return false
	}
	o, err := decodeOptions(options)
	if err != nil {
		h.log.Error("invalid animation options", zap.Error(err))
		return false
	}

	if prop.Root() == "vertices" {
		h.anims = append(h.anims, newVertexTrack(n, o, onStep))
		h.log.Debug("animating vertices", zap.Int("actor", id), zap.Int("rows", len(o.Deltas)))
		return true
	}
	field := n.field(prop)
	if field == nil {
		h.log.Warn("cannot animate property", zap.Int("actor", id), zap.Stringer("property", prop))
		return false
	}
	h.anims = append(h.anims, newTweenGroup(n, field, o))
	h.log.Debug("animating", zap.Int("actor", id), zap.Stringer("property", prop), zap.Float64("to", o.EndVal))
	return true
}
