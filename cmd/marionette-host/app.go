package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/marionette/hostengine"
	"github.com/phanxgames/marionette/internal/config"
	"github.com/phanxgames/marionette/wsengine"
)

const shutdownTimeout = 3 * time.Second

// app is the assembled host process.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	host   *hostengine.Host
	engine *wsengine.Server
	http   *http.Server // nil when the server is disabled
}

func provideHost(cfg *config.Config, logger *zap.Logger) (*hostengine.Host, error) {
	host := hostengine.New(logger)
	host.SetLogLevel(cfg.Level())
	if mode, ok := cfg.Renderer.Mode(); ok {
		host.SetRendererMode(mode)
	}
	if cfg.Manifest != "" {
		data, err := os.ReadFile(cfg.Manifest)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		host.LoadManifest(string(data), func() {
			logger.Info("manifest loaded", zap.String("path", cfg.Manifest))
		})
	}
	return host, nil
}

func provideEngineServer(host *hostengine.Host, logger *zap.Logger) *wsengine.Server {
	ws := wsengine.NewServer(host, logger)
	ws.Dispatch = host.Do
	return ws
}

func provideHTTPServer(cfg *config.Config, ws *wsengine.Server) *http.Server {
	if cfg.Server.Listen == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, ws)
	return &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// run serves the engine in the background and runs the window on the calling
// goroutine, which must be the main one. It returns once the window closes
// and the server has shut down.
func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if a.http != nil {
		g.Go(func() error {
			a.log.Info("serving engine", zap.String("addr", a.http.Addr), zap.String("path", a.cfg.Server.Path))
			if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := a.engine.Close(); err != nil {
				a.log.Warn("close sessions", zap.Error(err))
			}
			return a.http.Shutdown(shutdownCtx)
		})
	}

	// A signal or a failed server closes the window.
	g.Go(func() error {
		<-ctx.Done()
		a.host.Close()
		return nil
	})

	runErr := a.host.Run(hostengine.RunConfig{
		Title:   a.cfg.Window.Title,
		Width:   a.cfg.Window.Width,
		Height:  a.cfg.Window.Height,
		ShowFPS: a.cfg.Window.ShowFPS,
	})
	cancel()
	if saved := a.host.Saved(); len(saved) > 0 {
		a.log.Info("captures written", zap.Strings("paths", saved))
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}
