// Package providers contains dependency injection providers for the foodgram server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/config"
	"github.com/foodgram/foodgram-server/internal/logger"
)

// ProvideConfig returns a provider that loads configuration from args, the
// environment, .env and the optional TOML file.
func ProvideConfig(args []string) do.Provider[*config.Config] {
	return func(i do.Injector) (*config.Config, error) {
		return config.LoadConfig(args)
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("starting foodgram server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"media_backend", cfg.Media.Backend,
	)

	return log, nil
}
