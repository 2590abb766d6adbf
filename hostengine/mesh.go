package hostengine

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/marionette"
)

// tint is a premultiplication-ready vertex color in [0, 1].
type tint struct {
	R, G, B, A float32
}

func nodeTint(n *node) tint {
	c := n.color()
	return tint{float32(c.RFloat()), float32(c.GFloat()), float32(c.BFloat()), float32(n.opacity)}
}

// transformVertices applies an affine transform and color tint to src vertices,
// writing the result into dst. dst must be at least len(src) in length.
//
// Matrix layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
// newX = a*x + c*y + tx, newY = b*x + d*y + ty
func transformVertices(src, dst []ebiten.Vertex, transform [6]float64, t tint) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	for i := range src {
		s := &src[i]
		ox := float64(s.DstX)
		oy := float64(s.DstY)
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   s.SrcX,
			SrcY:   s.SrcY,
			ColorR: s.ColorR * t.R * t.A,
			ColorG: s.ColorG * t.G * t.A,
			ColorB: s.ColorB * t.B * t.A,
			ColorA: s.ColorA * t.A,
		}
	}
}

// buildPolygonFan generates vertices and indices for a fan-triangulated polygon.
// N vertices, 3*(N-2) indices. When imgW and imgH are positive the UVs span
// the bounding box, multiplied by the repeat factors; otherwise they sample
// the center of the white pixel.
func buildPolygonFan(points []marionette.Vec2, imgW, imgH, repeatX, repeatY float64) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 {
		return nil, nil
	}

	verts := make([]ebiten.Vertex, n)
	inds := make([]uint16, (n-2)*3)

	textured := imgW > 0 && imgH > 0
	var minX, minY, maxX, maxY float64
	if textured {
		minX, minY = points[0].X, points[0].Y
		maxX, maxY = minX, minY
		for _, p := range points[1:] {
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
		}
	}

	for i, p := range points {
		v := &verts[i]
		v.DstX = float32(p.X)
		v.DstY = float32(p.Y)
		v.ColorR = 1
		v.ColorG = 1
		v.ColorB = 1
		v.ColorA = 1

		if textured {
			var u, vv float64
			if bbW := maxX - minX; bbW > 0 {
				u = (p.X - minX) / bbW * imgW * repeatX
			}
			// Y is up in the world and down in the image.
			if bbH := maxY - minY; bbH > 0 {
				vv = (maxY - p.Y) / bbH * imgH * repeatY
			}
			v.SrcX = float32(u)
			v.SrcY = float32(vv)
		} else {
			v.SrcX = 0.5
			v.SrcY = 0.5
		}
	}

	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < n-2; i++ {
		inds[i*3+0] = 0
		inds[i*3+1] = uint16(i + 1)
		inds[i*3+2] = uint16(i + 2)
	}

	return verts, inds
}

// rebuildMesh regenerates the node's local mesh if its ring changed.
func (n *node) rebuildMesh(img *ebiten.Image) {
	if !n.meshDirty {
		return
	}
	var w, h float64
	if img != nil {
		b := img.Bounds()
		w, h = float64(b.Dx()), float64(b.Dy())
	}
	n.meshVerts, n.meshInds = buildPolygonFan(ringPoints(n.verts), w, h, n.repeatX, n.repeatY)
	n.meshDirty = false
}

// ensureTransformedVerts grows the node's transformedVerts buffer to fit
// len(n.meshVerts), never shrinking. Returns the resliced buffer.
func ensureTransformedVerts(n *node) []ebiten.Vertex {
	need := len(n.meshVerts)
	if cap(n.transformedVerts) < need {
		n.transformedVerts = make([]ebiten.Vertex, need)
	}
	n.transformedVerts = n.transformedVerts[:need]
	return n.transformedVerts
}

// --- White pixel singleton (no sync.Once, the host is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used by untextured meshes.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
