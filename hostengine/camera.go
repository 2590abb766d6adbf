package hostengine

// camera maps the Y-up world onto the Y-down screen. The camera position is
// the world point shown at the screen center.
type camera struct {
	X, Y          float64
	width, height float64

	dirty         bool
	viewMatrix    [6]float64
	invViewMatrix [6]float64
}

func (c *camera) setPosition(x, y float64) {
	c.X, c.Y = x, y
	c.dirty = true
}

func (c *camera) setViewport(w, h float64) {
	if c.width == w && c.height == h {
		return
	}
	c.width, c.height = w, h
	c.dirty = true
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(1, -1) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.width / 2
	cy := c.height / 2
	c.viewMatrix = [6]float64{1, 0, 0, -1, cx - c.X, cy + c.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// worldToScreen converts world coordinates to screen coordinates.
func (c *camera) worldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.computeViewMatrix(), wx, wy)
}

// screenToWorld converts screen coordinates to world coordinates.
func (c *camera) screenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}
