// Package bootstrap holds the flags shared by every subcommand and builds the application from them.
package bootstrap

import (
	"context"

	"github.com/aken1023/care-sch/internal/app"
	"github.com/aken1023/care-sch/internal/config"
)

var (
	ConfigPath string
	Verbose    bool
)

// LoadConfig reads the configuration and applies the global flags.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.InitializeConfig(ConfigPath)
	if err != nil {
		return nil, err
	}
	if Verbose {
		cfg.Log.Development = true
	}
	return cfg, nil
}

// Application loads the configuration and wires the full object graph.
func Application(ctx context.Context) (*app.Application, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return app.InitializeApplication(ctx, cfg)
}
