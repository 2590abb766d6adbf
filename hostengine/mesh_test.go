package hostengine

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/marionette"
)

func TestTransformVerticesTranslation(t *testing.T) {
	src := []ebiten.Vertex{{DstX: 1, DstY: 2, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}}
	dst := make([]ebiten.Vertex, 1)
	transformVertices(src, dst, [6]float64{1, 0, 0, 1, 10, 20}, tint{1, 1, 1, 1})
	if dst[0].DstX != 11 || dst[0].DstY != 22 {
		t.Errorf("got (%v, %v), want (11, 22)", dst[0].DstX, dst[0].DstY)
	}
}

func TestTransformVerticesColorTint(t *testing.T) {
	src := []ebiten.Vertex{{ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}}
	dst := make([]ebiten.Vertex, 1)
	transformVertices(src, dst, identityTransform, tint{1, 0.5, 0, 0.5})
	v := dst[0]
	if v.ColorR != 0.5 || v.ColorG != 0.25 || v.ColorB != 0 || v.ColorA != 0.5 {
		t.Errorf("color = (%v, %v, %v, %v)", v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
}

func TestBuildPolygonFanIndices(t *testing.T) {
	pts := ringPoints(marionette.RectangleVertices(2, 2))
	if len(pts) != 4 {
		t.Fatalf("closing vertex not dropped: %d points", len(pts))
	}
	verts, inds := buildPolygonFan(pts, 0, 0, 1, 1)
	if len(verts) != 4 || len(inds) != 6 {
		t.Fatalf("verts=%d inds=%d", len(verts), len(inds))
	}
	want := []uint16{0, 1, 2, 0, 2, 3}
	for i := range want {
		if inds[i] != want[i] {
			t.Errorf("inds[%d] = %d, want %d", i, inds[i], want[i])
		}
	}
	if verts[0].SrcX != 0.5 || verts[0].SrcY != 0.5 {
		t.Error("untextured UVs should sample the white pixel center")
	}
}

func TestBuildPolygonFanTexturedUVs(t *testing.T) {
	pts := ringPoints(marionette.RectangleVertices(4, 2))
	verts, _ := buildPolygonFan(pts, 32, 16, 2, 1)
	// Bottom-left world corner maps to the bottom-left of the image,
	// stretched by the horizontal repeat.
	if verts[0].SrcX != 0 || verts[0].SrcY != 16 {
		t.Errorf("bottom-left UV = (%v, %v)", verts[0].SrcX, verts[0].SrcY)
	}
	if verts[2].SrcX != 64 || verts[2].SrcY != 0 {
		t.Errorf("top-right UV = (%v, %v)", verts[2].SrcX, verts[2].SrcY)
	}
}

func TestBuildPolygonFanTooFewPoints(t *testing.T) {
	verts, inds := buildPolygonFan([]marionette.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0, 0, 1, 1)
	if verts != nil || inds != nil {
		t.Error("expected nil mesh for fewer than three points")
	}
}

func TestEnsureTransformedVertsGrowsToHighWater(t *testing.T) {
	n := newNode(1, kindRaw, marionette.RegularPolygonVertices(8, 1))
	n.rebuildMesh(nil)
	buf := ensureTransformedVerts(n)
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	n.setVertices(marionette.TriangleVertices(1, 1))
	n.rebuildMesh(nil)
	buf = ensureTransformedVerts(n)
	if len(buf) != 3 || cap(buf) < 8 {
		t.Errorf("len = %d cap = %d", len(buf), cap(buf))
	}
}

func TestNodeTint(t *testing.T) {
	n := newNode(1, kindRaw, nil)
	n.r, n.g, n.b = 255, 0, 51
	n.opacity = 0.5
	c := nodeTint(n)
	if c.R != 1 || c.G != 0 || math.Abs(float64(c.B)-0.2) > 1e-6 || c.A != 0.5 {
		t.Errorf("tint = %+v", c)
	}
}
