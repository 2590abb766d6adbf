package hostengine

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/marionette"
)

// Host is the reference engine. It implements [marionette.Engine],
// [marionette.RendererSelector] and [ebiten.Game].
//
// Apart from Do, Host methods must be called from the goroutine running the
// game loop (or the test driving Advance).
type Host struct {
	log   *zap.Logger
	level zap.AtomicLevel

	mu    sync.Mutex
	queue []func()

	nextID int
	nodes  map[int]*node
	anims  []animation

	camera   camera
	clear    marionette.Color3
	width    int
	height   int
	target   string
	renderer marionette.RendererMode
	ready    func()
	started  bool
	onUpdate func(dt time.Duration)
	script   *Script

	textures map[string]*ebiten.Image
	remind   *remindButton

	// OnRemind, when set, runs when the remind-me button is clicked.
	OnRemind func()

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	captures      []capture
	saved         []string
	runStamp      string
	frames        int
	showFPS       bool
	quit          bool
}

type remindButton struct {
	x, y, w, h float64
}

func (r *remindButton) contains(wx, wy float64) bool {
	return wx >= r.x && wx <= r.x+r.w && wy >= r.y && wy <= r.y+r.h
}

var (
	_ marionette.Engine           = (*Host)(nil)
	_ marionette.RendererSelector = (*Host)(nil)
	_ ebiten.Game                 = (*Host)(nil)
)

// New returns an empty host logging through log. A nil log discards output.
func New(log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	level := zap.NewAtomicLevelAt(zapLevel(marionette.DefaultLogLevel))
	return &Host{
		log:           log.WithOptions(zap.IncreaseLevel(level)).Named("host"),
		level:         level,
		nodes:         make(map[int]*node),
		textures:      make(map[string]*ebiten.Image),
		renderer:      marionette.RendererAccelerated,
		ScreenshotDir: "screenshots",
		runStamp:      time.Now().Format("20060102_150405"),
	}
}

// zapLevel maps the engine log level onto zap. Engine info is the most
// verbose level, so it maps to zap debug.
func zapLevel(l marionette.LogLevel) zapcore.Level {
	switch l {
	case marionette.LogNone:
		return zapcore.FatalLevel
	case marionette.LogError:
		return zapcore.ErrorLevel
	case marionette.LogWarning:
		return zapcore.WarnLevel
	case marionette.LogDebug:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Do queues fn to run on the game loop at the start of the next tick. It is
// safe to call from any goroutine.
func (h *Host) Do(fn func()) {
	h.mu.Lock()
	h.queue = append(h.queue, fn)
	h.mu.Unlock()
}

func (h *Host) drain() {
	h.mu.Lock()
	q := h.queue
	h.queue = nil
	h.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

// Advance runs queued work and steps every animation by dt. The window loop
// calls it once per tick; tests call it directly.
func (h *Host) Advance(dt time.Duration) {
	h.drain()
	if h.ready != nil && !h.started {
		h.started = true
		ready := h.ready
		h.ready = nil
		ready()
	}
	if h.script != nil {
		h.script.step(h)
	}
	if h.onUpdate != nil {
		h.onUpdate(dt)
	}

	ms := float64(dt) / float64(time.Millisecond)
	running := h.anims
	h.anims = nil
	var live []animation
	for _, a := range running {
		if !a.update(ms) {
			live = append(live, a)
		}
	}
	// Callbacks may have registered new animations during this pass.
	h.anims = append(live, h.anims...)
}

// SetUpdateFunc sets a callback run every tick after queued work and before
// animations step. In-process runtimes advance their timers from it.
func (h *Host) SetUpdateFunc(fn func(dt time.Duration)) {
	h.onUpdate = fn
}

// Pending returns the number of running animations.
func (h *Host) Pending() int { return len(h.anims) }

// Close makes the window loop exit after the current tick.
func (h *Host) Close() {
	h.Do(func() { h.quit = true })
}

func (h *Host) node(id int) (*node, bool) {
	n, ok := h.nodes[id]
	if !ok {
		h.log.Warn("unknown actor", zap.Int("actor", id))
	}
	return n, ok
}

func (h *Host) add(kind shapeKind, verts []float64) int {
	h.nextID++
	n := newNode(h.nextID, kind, verts)
	h.nodes[n.id] = n
	h.log.Debug("created actor", zap.Int("actor", n.id), zap.Stringer("kind", kind), zap.Int("vertices", len(verts)/2))
	return n.id
}

func (h *Host) parseVertices(verts string) ([]float64, bool) {
	var v []float64
	if err := json.Unmarshal([]byte(verts), &v); err != nil {
		h.log.Error("invalid vertices", zap.String("payload", verts), zap.Error(err))
		return nil, false
	}
	if len(v) < 6 || len(v)%2 != 0 {
		h.log.Error("invalid vertices", zap.Int("count", len(v)))
		return nil, false
	}
	return v, true
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// --- Host-wide state ---

// Initialize implements marionette.HostEngine. ready runs on the first tick.
func (h *Host) Initialize(width, height int, ready func(), logLevel marionette.LogLevel, target string) {
	h.width, h.height = width, height
	h.target = target
	h.camera.setViewport(float64(width), float64(height))
	h.camera.dirty = true
	h.SetLogLevel(logLevel)
	h.ready = ready
	h.started = false
	h.log.Info("initialized", zap.Int("width", width), zap.Int("height", height), zap.String("target", target))
}

// SetLogLevel implements marionette.HostEngine.
func (h *Host) SetLogLevel(level marionette.LogLevel) {
	h.level.SetLevel(zapLevel(level))
}

// AcceleratedAvailable implements marionette.RendererSelector. Ebitengine
// always renders through the GPU.
func (h *Host) AcceleratedAvailable() bool { return true }

// SetRendererMode implements marionette.RendererSelector.
func (h *Host) SetRendererMode(mode marionette.RendererMode) {
	h.renderer = mode
}

// RendererMode returns the selected renderer.
func (h *Host) RendererMode() marionette.RendererMode { return h.renderer }

// SetCameraPosition implements marionette.HostEngine.
func (h *Host) SetCameraPosition(x, y float64) {
	h.camera.setPosition(x, y)
}

// GetCameraPosition implements marionette.HostEngine.
func (h *Host) GetCameraPosition() string {
	return encode(marionette.Vec2{X: h.camera.X, Y: h.camera.Y})
}

// SetClearColor implements marionette.HostEngine.
func (h *Host) SetClearColor(r, g, b int) {
	h.clear = marionette.NewColor3(r, g, b)
}

// GetClearColor implements marionette.HostEngine.
func (h *Host) GetClearColor() string {
	return encode(h.clear)
}

// SetRemindMeButton implements marionette.HostEngine. The button is drawn as
// an outline.
func (h *Host) SetRemindMeButton(x, y, w, h2 float64) {
	h.remind = &remindButton{x, y, w, h2}
}

// click handles a primary button press at screen position (sx, sy).
func (h *Host) click(sx, sy float64) {
	r := h.remind
	if r == nil {
		return
	}
	wx, wy := h.camera.screenToWorld(sx, sy)
	if !r.contains(wx, wy) {
		return
	}
	h.log.Debug("remind me later pressed")
	if h.OnRemind != nil {
		h.OnRemind()
	}
}
