// Command marionette-host opens the reference engine window and serves it to
// remote marionette runtimes over a websocket.
//
// Usage:
//
//	marionette-host -config host.yaml [-script capture.json] [-debug]
//
// Without -config the defaults from internal/config apply: an 800x600 window
// and an endpoint at ws://127.0.0.1:7311/engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/phanxgames/marionette/hostengine"
	"github.com/phanxgames/marionette/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	scriptPath := flag.String("script", "", "JSON capture script to run (screenshots, camera moves, quit)")
	debug := flag.Bool("debug", false, "development logging")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*configPath, *scriptPath, logger); err != nil {
		logger.Fatal("marionette-host", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(configPath, scriptPath string, logger *zap.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	a, err := initializeApp(cfg, logger)
	if err != nil {
		return err
	}
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script, err := hostengine.LoadScript(data)
		if err != nil {
			return err
		}
		a.host.SetScript(script)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}
