package hostengine

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/marionette"
)

// shapeKind records which create call produced an actor.
type shapeKind uint8

const (
	kindRaw shapeKind = iota
	kindRectangle
	kindPolygon
	kindCircle
)

func (k shapeKind) String() string {
	switch k {
	case kindRectangle:
		return "rectangle"
	case kindPolygon:
		return "polygon"
	case kindCircle:
		return "circle"
	default:
		return "raw"
	}
}

// body is the recorded physics material of an actor. There is no solver;
// the record only exists so callers can query and rebuild it.
type body struct {
	mass, friction, elasticity float64
}

// attachment is a textured rectangle anchored to an actor.
type attachment struct {
	texture    string
	w, h, x, y float64
	angle      float64 // degrees
	visible    bool
}

// node is one actor. Coordinates are engine units with Y up. Color
// components are kept as floats so they can be tweened.
type node struct {
	id   int
	kind shapeKind

	x, y     float64
	rotation float64 // degrees
	r, g, b  float64 // 0..255
	opacity  float64
	visible  bool

	layer        int
	physicsLayer int
	mode         marionette.RenderMode

	verts     []float64 // closed ring, flat x,y
	physVerts []float64 // nil: the body uses verts
	body      *body

	texture          string
	repeatX, repeatY float64
	attachment       *attachment

	// Shape metadata for the rectangle and circle accessors.
	w, h, radius float64

	meshVerts        []ebiten.Vertex
	meshInds         []uint16
	transformedVerts []ebiten.Vertex
	meshDirty        bool
	disposed         bool
}

func newNode(id int, kind shapeKind, verts []float64) *node {
	return &node{
		id:        id,
		kind:      kind,
		r:         255,
		g:         255,
		b:         255,
		opacity:   1,
		visible:   true,
		mode:      marionette.RenderFilled,
		verts:     verts,
		repeatX:   1,
		repeatY:   1,
		meshDirty: true,
	}
}

// setVertices replaces the ring and schedules a mesh rebuild.
func (n *node) setVertices(verts []float64) {
	n.verts = verts
	n.meshDirty = true
}

// color returns the node color clamped to whole components.
func (n *node) color() marionette.Color3 {
	return marionette.NewColor3(int(n.r+0.5), int(n.g+0.5), int(n.b+0.5))
}

// field resolves a native property path to the float it animates.
func (n *node) field(prop marionette.Property) *float64 {
	switch prop.Root() {
	case "position":
		if len(prop) < 2 {
			return nil
		}
		switch prop[1] {
		case "x":
			return &n.x
		case "y":
			return &n.y
		}
	case "rotation":
		return &n.rotation
	case "opacity":
		return &n.opacity
	case "color":
		if len(prop) < 2 {
			return nil
		}
		switch prop[1] {
		case "r":
			return &n.r
		case "g":
			return &n.g
		case "b":
			return &n.b
		}
	}
	return nil
}

// ringPoints returns the ring without its closing duplicate as points.
func ringPoints(verts []float64) []marionette.Vec2 {
	n := len(verts) / 2
	if n >= 2 && verts[0] == verts[2*n-2] && verts[1] == verts[2*n-1] {
		n--
	}
	pts := make([]marionette.Vec2, n)
	for i := range pts {
		pts[i] = marionette.Vec2{X: verts[2*i], Y: verts[2*i+1]}
	}
	return pts
}
