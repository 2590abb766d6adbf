package marionette

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the API version reported by the runtime.
const Version = "1.0.9"

// Runtime is the entry point for scripts: it owns the engine handle, the
// auto-scale factors, the log level and the deferred callback queue. Create
// one per engine with New. A Runtime is not safe for concurrent use.
type Runtime struct {
	engine Engine
	filter *levelFilter
	core   zapcore.Core
	log    *zap.Logger
	scale  Scale
	timers *Timers
	rng    *rand.Rand

	defaultFPS   float64
	defaultStart float64

	initialized bool
	camera      Vec2 // engine units
	clear       Color3
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogCore sends log output to core instead of stderr. The runtime's log
// level is applied on top of it.
func WithLogCore(core zapcore.Core) Option {
	return func(r *Runtime) { r.core = core }
}

// WithLogger sends log output through l's core.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.core = l.Core()
		}
	}
}

// WithLogLevel sets the initial log level.
func WithLogLevel(l LogLevel) Option {
	return func(r *Runtime) {
		if l.valid() {
			r.filter.set(l)
		}
	}
}

// WithScale sets the initial auto-scale factors.
func WithScale(s Scale) Option {
	return func(r *Runtime) {
		if s.valid() {
			r.scale = s
		}
	}
}

// WithDefaults overrides the fps and start offset applied to animation
// options that leave them unset.
func WithDefaults(fps, start float64) Option {
	return func(r *Runtime) {
		if fps > 0 {
			r.defaultFPS = fps
		}
		r.defaultStart = start
	}
}

// WithRandSource seeds the generator used for random actor colors.
func WithRandSource(src rand.Source) Option {
	return func(r *Runtime) { r.rng = rand.New(src) }
}

// New builds a runtime around engine.
func New(engine Engine, opts ...Option) *Runtime {
	r := &Runtime{
		engine:       engine,
		filter:       newLevelFilter(DefaultLogLevel),
		scale:        DefaultScale,
		timers:       NewTimers(),
		defaultFPS:   DefaultFPS,
		defaultStart: DefaultStart,
		clear:        NewColor3(0, 0, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.core == nil {
		r.core = defaultCore()
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r.log = newFilteredLogger(r.core, r.filter)
	return r
}

// Init initializes the engine with a width×height render area inside target
// and calls ready once the engine is up. Only the first call has any effect.
func (r *Runtime) Init(ready func(), width, height int, target string) error {
	if r.initialized {
		r.log.Error("already initialized")
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render area %dx%d: %w", width, height, ErrNonPositive)
	}
	if r.engine == nil {
		return fmt.Errorf("engine: %w", ErrRequired)
	}

	// Callbacks left over from a previous session must not fire.
	r.timers.ClearAll()

	if sel, ok := r.engine.(RendererSelector); ok {
		if sel.AcceleratedAvailable() {
			sel.SetRendererMode(RendererAccelerated)
		} else {
			sel.SetRendererMode(RendererCanvas)
		}
	}
	if ready == nil {
		ready = func() {}
	}
	r.engine.Initialize(width, height, ready, r.filter.get(), target)
	r.initialized = true
	r.log.Info("initialized", zap.String("version", Version), zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Initialized reports whether Init has run.
func (r *Runtime) Initialized() bool { return r.initialized }

// Engine returns the engine the runtime drives.
func (r *Runtime) Engine() Engine { return r.engine }

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *zap.Logger { return r.log }

// SetAutoScale sets the factors applied to actors created afterwards. Existing
// actors keep the scale they were built with.
func (r *Runtime) SetAutoScale(x, y float64) error {
	s := Scale{x, y}
	if !s.valid() {
		return fmt.Errorf("auto scale (%g, %g): %w", x, y, ErrNonPositive)
	}
	r.scale = s
	r.log.Info("set auto scale", zap.Float64("x", x), zap.Float64("y", y))
	return nil
}

// AutoScale returns the current scale factors.
func (r *Runtime) AutoScale() Scale { return r.scale }

// Env returns the environment used to construct actors.
func (r *Runtime) Env() Env {
	return Env{Engine: r.engine, Scale: r.scale, Log: r.log}
}

// SetLogLevel changes the log level for the runtime and the engine.
func (r *Runtime) SetLogLevel(l LogLevel) error {
	if !l.valid() {
		return fmt.Errorf("log level %d: %w", int(l), ErrInvalidValue)
	}
	r.filter.set(l)
	if r.engine != nil {
		r.engine.SetLogLevel(l)
	}
	return nil
}

// LogLevel returns the active log level.
func (r *Runtime) LogLevel() LogLevel { return r.filter.get() }

// Error logs at the error level.
func (r *Runtime) Error(msg string, fields ...zap.Field) { r.log.Error(msg, fields...) }

// Warning logs at the warning level.
func (r *Runtime) Warning(msg string, fields ...zap.Field) { r.log.Warn(msg, fields...) }

// Debug logs at the debug level.
func (r *Runtime) Debug(msg string, fields ...zap.Field) { r.log.Debug(msg, fields...) }

// Info logs at the info level, the most verbose one.
func (r *Runtime) Info(msg string, fields ...zap.Field) { r.log.Info(msg, fields...) }

// SetCameraPosition moves the camera. x and y are in logical units.
func (r *Runtime) SetCameraPosition(x, y float64) {
	p := r.scale.Apply(Vec2{x, y})
	r.log.Info("setting camera position", zap.Stringer("position", p))
	r.camera = p
	r.engine.SetCameraPosition(p.X, p.Y)
}

// CameraPosition returns the camera position in logical units.
func (r *Runtime) CameraPosition() Vec2 {
	raw := r.engine.GetCameraPosition()
	var p Vec2
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		r.log.Error("invalid camera position", zap.String("payload", raw), zap.Error(err))
	} else {
		r.camera = p
	}
	return r.scale.Remove(r.camera)
}

// SetClearColor sets the background color.
func (r *Runtime) SetClearColor(c Color3) {
	r.log.Info("setting clear color", zap.Stringer("color", c))
	r.clear = c
	r.engine.SetClearColor(c.R(), c.G(), c.B())
}

// ClearColor returns the background color.
func (r *Runtime) ClearColor() Color3 {
	raw := r.engine.GetClearColor()
	var c Color3
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		r.log.Error("invalid clear color", zap.String("payload", raw), zap.Error(err))
		return r.clear
	}
	r.clear = c
	return c
}

// Animate animates props of a with the matching entries of opts, filling in
// the runtime's default start and fps.
func (r *Runtime) Animate(a Animatable, props []Property, opts []AnimationOptions) error {
	return r.AnimateAt(a, props, opts, r.defaultStart, r.defaultFPS)
}

// AnimateAt is Animate with explicit defaults for start (ms) and fps.
//
// Every property is checked before anything is sent: one unsupported
// property fails the whole call. Properties the engine animates natively are
// forwarded as is. Others are mapped by the actor into vertex animations.
// Absolute mappings are held back until their start offset elapses and are
// only then built from the actor's current shape, so they cannot overlap a
// relative animation on the same vertices. Their mapping errors are logged
// rather than returned.
func (r *Runtime) AnimateAt(a Animatable, props []Property, opts []AnimationOptions, start, fps float64) error {
	if a == nil {
		return fmt.Errorf("actor: %w", ErrRequired)
	}
	if len(props) != len(opts) {
		return fmt.Errorf("%d properties with %d option sets: %w", len(props), len(opts), ErrInvalidValue)
	}

	native := make([]bool, len(props))
	for i, p := range props {
		if len(p) == 0 {
			return fmt.Errorf("empty property: %w", ErrInvalidValue)
		}
		switch {
		case r.engine.CanAnimate(p.Root()):
			native[i] = true
		case a.CanMapAnimation(p):
		default:
			r.log.Error("unrecognized property", zap.Stringer("property", p))
			return fmt.Errorf("%s: %w", p, ErrUnrecognizedProperty)
		}
	}

	type pending struct {
		prop Property
		opts AnimationOptions
	}
	var anims []Animation
	var deferred []pending
	for i, p := range props {
		o := opts[i].clone()
		if o.Start == nil {
			o.Start = Float(start)
		}
		if o.FPS == nil {
			o.FPS = Float(fps)
		}
		switch {
		case native[i]:
			anims = append(anims, Animation{Property: p, Options: o})
		case a.IsAbsoluteMapping(p):
			deferred = append(deferred, pending{p, o})
		default:
			anim, err := a.MapAnimation(p, o)
			if err != nil {
				return fmt.Errorf("map %s: %w", p, err)
			}
			anims = append(anims, anim)
		}
	}

	for _, anim := range anims {
		r.dispatch(a.ID(), anim)
	}
	for _, d := range deferred {
		r.log.Info("deferring absolute animation", zap.Stringer("property", d.prop), zap.Float64("delay", *d.opts.Start))
		r.timers.After(msDuration(*d.opts.Start), func() { r.mapDeferred(a, d.prop, d.opts) })
	}
	return nil
}

// mapDeferred builds an absolute mapping from the actor's state at its start
// time and sends it to begin immediately.
func (r *Runtime) mapDeferred(a Animatable, p Property, o AnimationOptions) {
	anim, err := a.MapAnimation(p, o)
	if err != nil {
		r.log.Error("deferred mapping failed", zap.Stringer("property", p), zap.Error(err))
		return
	}
	anim.Options.Start = Float(-1)
	r.dispatch(a.ID(), anim)
}

// dispatch sends one engine-ready animation.
func (r *Runtime) dispatch(id int, anim Animation) {
	prop, err := json.Marshal(anim.Property)
	if err != nil {
		r.log.Error("encode property", zap.Error(err))
		return
	}
	opts, err := json.Marshal(anim.Options)
	if err != nil {
		r.log.Error("encode animation options", zap.Error(err))
		return
	}
	r.log.Info("animating", zap.Int("actor", id), zap.ByteString("property", prop))
	if !r.engine.Animate(id, string(prop), string(opts), anim.Step) {
		r.log.Warn("engine rejected animation", zap.Int("actor", id), zap.ByteString("property", prop))
	}
}

// MapAnimation asks a to convert p into an engine-ready animation without
// dispatching it.
func (r *Runtime) MapAnimation(a Animatable, p Property, opts AnimationOptions) (Animation, error) {
	if !a.CanMapAnimation(p) {
		return Animation{}, fmt.Errorf("%s: %w", p, ErrUnrecognizedProperty)
	}
	return a.MapAnimation(p, opts)
}

// LoadManifest hands a texture manifest (JSON) to the engine. done runs when
// loading finishes.
func (r *Runtime) LoadManifest(manifest string, done func()) error {
	if manifest == "" {
		return fmt.Errorf("manifest: %w", ErrRequired)
	}
	if !json.Valid([]byte(manifest)) {
		return fmt.Errorf("manifest is not JSON: %w", ErrInvalidValue)
	}
	if done == nil {
		done = func() {}
	}
	r.log.Info("loading manifest")
	r.engine.LoadManifest(manifest, done)
	return nil
}

// TextureSize returns the pixel size of a loaded texture.
func (r *Runtime) TextureSize(name string) (w, h float64, err error) {
	raw := r.engine.GetTextureSize(name)
	var size struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
	}
	if err := json.Unmarshal([]byte(raw), &size); err != nil {
		return 0, 0, fmt.Errorf("texture %q size: %w", name, err)
	}
	return size.W, size.H, nil
}

// SetRemindMeLaterButton places the host's "remind me later" hit area. The
// rectangle is in logical units.
func (r *Runtime) SetRemindMeLaterButton(x, y, w, h float64) {
	s := r.scale
	r.engine.SetRemindMeButton(x*s.X, y*s.Y, w*s.X, h*s.Y)
}

// Timers returns the runtime's deferred callback queue.
func (r *Runtime) Timers() *Timers { return r.timers }

// Update advances the runtime clock, firing deferred animations.
func (r *Runtime) Update(dt time.Duration) {
	r.timers.Advance(dt)
}

// actorOptions places an actor at (x, y) with color c, then lets extra
// override or add fields such as rotation, physics and material.
func actorOptions(x, y float64, c *Color3, extra []func(*ActorOptions)) ActorOptions {
	o := ActorOptions{Position: &Vec2{x, y}, Color: c}
	for _, fn := range extra {
		fn(&o)
	}
	return o
}

// CreateRectangleActor creates a rectangle at (x, y). A nil color keeps white.
func (r *Runtime) CreateRectangleActor(x, y, w, h float64, c *Color3, extra ...func(*ActorOptions)) (*Rectangle, error) {
	return NewRectangle(r.Env(), RectangleOptions{
		ActorOptions: actorOptions(x, y, c, extra),
		W:            w,
		H:            h,
	})
}

// CreateSquareActor creates a square with side length size at (x, y).
func (r *Runtime) CreateSquareActor(x, y, size float64, c *Color3, extra ...func(*ActorOptions)) (*Rectangle, error) {
	return r.CreateRectangleActor(x, y, size, size, c, extra...)
}

// CreateCircleActor creates a circle at (x, y).
func (r *Runtime) CreateCircleActor(x, y, radius float64, c *Color3, extra ...func(*ActorOptions)) (*Circle, error) {
	return NewCircle(r.Env(), CircleOptions{
		ActorOptions: actorOptions(x, y, c, extra),
		Radius:       radius,
	})
}

// CreatePolygonActor creates a regular polygon at (x, y).
func (r *Runtime) CreatePolygonActor(x, y, radius float64, segments int, c *Color3, extra ...func(*ActorOptions)) (*Polygon, error) {
	return NewPolygon(r.Env(), PolygonOptions{
		ActorOptions: actorOptions(x, y, c, extra),
		Radius:       radius,
		Segments:     segments,
	})
}

// CreateTriangleActor creates a triangle at (x, y). A nil color picks a random
// one.
func (r *Runtime) CreateTriangleActor(x, y, base, height float64, c *Color3, extra ...func(*ActorOptions)) (*Triangle, error) {
	if c == nil {
		rc := r.randomColor()
		c = &rc
	}
	return NewTriangle(r.Env(), TriangleOptions{
		ActorOptions: actorOptions(x, y, c, extra),
		Base:         base,
		Height:       height,
	})
}

func (r *Runtime) randomColor() Color3 {
	return NewColor3(r.rng.IntN(256), r.rng.IntN(256), r.rng.IntN(256))
}
