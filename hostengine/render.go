package hostengine

import (
	"fmt"
	"image/color"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/phanxgames/marionette"
)

// RunConfig configures Run.
type RunConfig struct {
	Title   string
	Width   int // window size; defaults to the Initialize size
	Height  int
	ShowFPS bool
}

// Run opens a window and runs the game loop until it is closed or Close is
// called. The canvas renderer mode forces OpenGL; otherwise Ebitengine picks
// the best graphics library.
func (h *Host) Run(cfg RunConfig) error {
	w, hgt := cfg.Width, cfg.Height
	if w <= 0 || hgt <= 0 {
		w, hgt = h.width, h.height
	}
	if w <= 0 || hgt <= 0 {
		w, hgt = 640, 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, hgt)
	h.showFPS = cfg.ShowFPS

	opts := &ebiten.RunGameOptions{GraphicsLibrary: ebiten.GraphicsLibraryAuto}
	if h.renderer == marionette.RendererCanvas {
		opts.GraphicsLibrary = ebiten.GraphicsLibraryOpenGL
	}
	return ebiten.RunGameWithOptions(h, opts)
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		h.click(float64(mx), float64(my))
	}
	h.Advance(time.Second / time.Duration(ebiten.TPS()))
	h.frames++
	if h.quit {
		return ebiten.Termination
	}
	return nil
}

// Layout implements ebiten.Game.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.width > 0 && h.height > 0 {
		return h.width, h.height
	}
	return outsideWidth, outsideHeight
}

// drawOrder returns the visible nodes sorted by layer, then creation order.
func (h *Host) drawOrder() []*node {
	order := make([]*node, 0, len(h.nodes))
	for _, n := range h.nodes {
		if n.visible && n.mode != marionette.RenderNone {
			order = append(order, n)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].layer != order[j].layer {
			return order[i].layer < order[j].layer
		}
		return order[i].id < order[j].id
	})
	return order
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	h.camera.setViewport(float64(b.Dx()), float64(b.Dy()))
	view := h.camera.computeViewMatrix()

	screen.Fill(color.RGBA{uint8(h.clear.R()), uint8(h.clear.G()), uint8(h.clear.B()), 255})

	drawn := 0
	for _, n := range h.drawOrder() {
		world := multiplyAffine(view, computeLocalTransform(n))
		switch n.mode {
		case marionette.RenderFilled:
			h.drawFilled(screen, n, world)
		case marionette.RenderOutline:
			drawOutline(screen, n, world)
		}
		if a := n.attachment; a != nil && a.visible {
			h.drawAttachment(screen, a, world)
		}
		drawn++
	}

	if r := h.remind; r != nil {
		x0, y0 := h.camera.worldToScreen(r.x, r.y+r.h)
		vector.StrokeRect(screen, float32(x0), float32(y0), float32(r.w), float32(r.h), 1, color.White, false)
	}
	if h.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nActors: %d", ebiten.ActualFPS(), ebiten.ActualTPS(), drawn))
	}

	h.flushCaptures(screen)
}

func (h *Host) drawFilled(screen *ebiten.Image, n *node, world [6]float64) {
	img := ensureWhitePixel()
	if t, ok := h.textures[n.texture]; ok && n.texture != "" {
		img = t
	}
	if img == ensureWhitePixel() {
		n.rebuildMesh(nil)
	} else {
		n.rebuildMesh(img)
	}
	if len(n.meshVerts) == 0 {
		return
	}
	dst := ensureTransformedVerts(n)
	transformVertices(n.meshVerts, dst, world, nodeTint(n))
	op := &ebiten.DrawTrianglesOptions{}
	if img != ensureWhitePixel() {
		op.Address = ebiten.AddressRepeat
	}
	screen.DrawTriangles(dst, n.meshInds, img, op)
}

func drawOutline(screen *ebiten.Image, n *node, world [6]float64) {
	pts := ringPoints(n.verts)
	if len(pts) < 2 {
		return
	}
	c := n.color()
	clr := color.NRGBA{uint8(c.R()), uint8(c.G()), uint8(c.B()), uint8(n.opacity * 255)}
	for i := range pts {
		j := (i + 1) % len(pts)
		x0, y0 := transformPoint(world, pts[i].X, pts[i].Y)
		x1, y1 := transformPoint(world, pts[j].X, pts[j].Y)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
	}
}

func (h *Host) drawAttachment(screen *ebiten.Image, a *attachment, parent [6]float64) {
	img, ok := h.textures[a.texture]
	if !ok {
		h.log.Warn("attachment texture missing", zap.String("texture", a.texture))
		return
	}
	local := computeLocalTransform(&node{x: a.x, y: a.y, rotation: a.angle})
	world := multiplyAffine(parent, local)
	b := img.Bounds()
	verts, inds := buildPolygonFan(ringPoints(marionette.RectangleVertices(a.w, a.h)), float64(b.Dx()), float64(b.Dy()), 1, 1)
	transformVertices(verts, verts, world, tint{1, 1, 1, 1})
	screen.DrawTriangles(verts, inds, img, &ebiten.DrawTrianglesOptions{})
}
