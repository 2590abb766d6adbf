// Package config loads the marionette host configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/marionette"
)

// Renderer names the preferred rendering backend.
type Renderer string

const (
	RendererAuto        Renderer = "auto"
	RendererCanvas      Renderer = "canvas"
	RendererAccelerated Renderer = "accelerated"
)

// Mode maps r onto the engine's renderer modes. Auto reports ok=false and
// leaves the choice to the runtime.
func (r Renderer) Mode() (mode marionette.RendererMode, ok bool) {
	switch r {
	case RendererCanvas:
		return marionette.RendererCanvas, true
	case RendererAccelerated:
		return marionette.RendererAccelerated, true
	}
	return 0, false
}

// Config is the host configuration file.
type Config struct {
	Window   Window   `yaml:"window"`
	Target   string   `yaml:"target"`
	Renderer Renderer `yaml:"renderer"`
	LogLevel int      `yaml:"log_level"`
	Scale    Scale    `yaml:"scale"`
	Server   Server   `yaml:"server"`
	// Remote is the websocket URL of an engine to drive instead of the local
	// host.
	Remote string `yaml:"remote,omitempty"`
	// Manifest is a texture manifest file loaded at startup.
	Manifest string `yaml:"manifest,omitempty"`
}

// Window is the host window.
type Window struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	ShowFPS bool   `yaml:"show_fps"`
}

// Scale is the runtime auto-scale.
type Scale struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Server is the websocket endpoint exposing the host. An empty Listen
// disables it.
type Server struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "marionette",
			Width:  800,
			Height: 600,
		},
		Target:   "game",
		Renderer: RendererAuto,
		LogLevel: int(marionette.DefaultLogLevel),
		Scale:    Scale{X: 1, Y: 1},
		Server: Server{
			Listen: "127.0.0.1:7311",
			Path:   "/engine",
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	switch c.Renderer {
	case RendererAuto, RendererCanvas, RendererAccelerated:
	default:
		errs = append(errs, fmt.Errorf("unknown renderer %q", c.Renderer))
	}
	if c.LogLevel < int(marionette.LogNone) || c.LogLevel > int(marionette.LogInfo) {
		errs = append(errs, fmt.Errorf("log_level %d out of range 0..%d", c.LogLevel, int(marionette.LogInfo)))
	}
	if c.Scale.X <= 0 || c.Scale.Y <= 0 {
		errs = append(errs, fmt.Errorf("scale (%g, %g) must be positive", c.Scale.X, c.Scale.Y))
	}
	if c.Server.Listen != "" && !strings.HasPrefix(c.Server.Path, "/") {
		errs = append(errs, fmt.Errorf("server path %q must start with /", c.Server.Path))
	}
	if c.Remote != "" && !strings.HasPrefix(c.Remote, "ws://") && !strings.HasPrefix(c.Remote, "wss://") {
		errs = append(errs, fmt.Errorf("remote %q is not a websocket URL", c.Remote))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the configured engine log level.
func (c *Config) Level() marionette.LogLevel {
	return marionette.LogLevel(c.LogLevel)
}

// AutoScale returns the scale as the runtime type.
func (c *Config) AutoScale() marionette.Scale {
	return marionette.Scale{X: c.Scale.X, Y: c.Scale.Y}
}
