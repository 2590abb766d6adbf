package hostengine

import (
	"encoding/json"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
)

// Manifest lists the textures to load. Paths are relative to Base when set.
type Manifest struct {
	Base     string         `json:"base,omitempty"`
	Textures []TextureEntry `json:"textures"`
}

// TextureEntry names one image file.
type TextureEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// LoadManifest implements marionette.HostEngine. Textures that fail to load
// are logged and skipped. done runs on the next tick.
func (h *Host) LoadManifest(manifest string, done func()) {
	var m Manifest
	if err := json.Unmarshal([]byte(manifest), &m); err != nil {
		h.log.Error("invalid manifest", zap.Error(err))
	} else {
		for _, t := range m.Textures {
			path := t.Path
			if m.Base != "" && !filepath.IsAbs(path) {
				path = filepath.Join(m.Base, path)
			}
			img, _, err := ebitenutil.NewImageFromFile(path)
			if err != nil {
				h.log.Error("load texture", zap.String("texture", t.Name), zap.String("path", path), zap.Error(err))
				continue
			}
			h.AddTexture(t.Name, img)
		}
	}
	if done != nil {
		h.Do(done)
	}
}

// AddTexture registers an already loaded image under name.
func (h *Host) AddTexture(name string, img *ebiten.Image) {
	h.textures[name] = img
	for _, n := range h.nodes {
		if n.texture == name {
			n.meshDirty = true
		}
	}
	h.log.Debug("texture loaded", zap.String("texture", name))
}

// GetTextureSize implements marionette.HostEngine. Unknown textures yield "".
func (h *Host) GetTextureSize(name string) string {
	img, ok := h.textures[name]
	if !ok {
		return ""
	}
	b := img.Bounds()
	return encode(struct {
		W int `json:"w"`
		H int `json:"h"`
	}{b.Dx(), b.Dy()})
}
