//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/phanxgames/marionette/internal/config"
)

func initializeApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	wire.Build(
		provideHost,
		provideEngineServer,
		provideHTTPServer,
		wire.Struct(new(app), "*"),
	)
	return nil, nil
}
