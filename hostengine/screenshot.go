package hostengine

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// capture is a frame grab waiting for the next Draw. step is the index of
// the script step that asked for it, or -1.
type capture struct {
	label string
	step  int
}

// filename names the PNG for c. Files from one host run share the run stamp
// and sort by script step or frame.
func (c capture) filename(run string, frame int) string {
	if c.step >= 0 {
		return fmt.Sprintf("%s_step%03d_%s.png", run, c.step, sanitizeLabel(c.label))
	}
	return fmt.Sprintf("%s_frame%06d_%s.png", run, frame, sanitizeLabel(c.label))
}

// Screenshot queues a capture of the next drawn frame into ScreenshotDir.
func (h *Host) Screenshot(label string) {
	h.captures = append(h.captures, capture{label: label, step: -1})
}

// Saved returns the paths of every capture written so far.
func (h *Host) Saved() []string {
	return append([]string(nil), h.saved...)
}

// flushCaptures encodes the frame once and writes it for every queued
// capture. Called at the end of Draw.
func (h *Host) flushCaptures(screen *ebiten.Image) {
	if len(h.captures) == 0 {
		return
	}
	pending := h.captures
	h.captures = nil

	data, err := encodeFrame(screen)
	if err != nil {
		h.log.Error("encode capture", zap.Error(err))
		return
	}
	if err := os.MkdirAll(h.ScreenshotDir, 0o755); err != nil {
		h.log.Error("capture dir", zap.String("dir", h.ScreenshotDir), zap.Error(err))
		return
	}
	for _, c := range pending {
		path := filepath.Join(h.ScreenshotDir, c.filename(h.runStamp, h.frames))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			h.log.Error("write capture", zap.String("path", path), zap.Error(err))
			continue
		}
		h.saved = append(h.saved, path)
		h.log.Info("capture saved", zap.String("label", c.label), zap.String("path", path))
	}
}

// encodeFrame reads the screen into a straight-alpha image and returns it as
// PNG bytes.
func encodeFrame(screen *ebiten.Image) ([]byte, error) {
	img := image.NewNRGBA(screen.Bounds())
	screen.ReadPixels(img.Pix)
	unpremultiply(img.Pix)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unpremultiply converts premultiplied RGBA pixels to straight alpha in
// place. Opaque and fully transparent pixels are left alone.
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for j := i; j < i+3; j++ {
			pix[j] = uint8(min(int(pix[j])*255/a, 255))
		}
	}
}

// sanitizeLabel keeps letters, digits, '-' and '.', turning every other rune
// into '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
