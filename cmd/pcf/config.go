package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcf/internal/config"
	"github.com/samcharles93/pcf/internal/logger"
	"github.com/samcharles93/pcf/pkg/pcf"
)

var cfg config.Config

// setup loads the config file, applies it to flags that were not set
// explicitly and installs the logger on the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = config.Path()
	}
	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	applyConfig(cmd, cfg)

	log, err := logger.Setup(stderr(cmd), logFormat, logLevel)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	if path != "" {
		log.Debug("config resolved", "path", path)
	}
	return logger.WithContext(ctx, log), nil
}

func applyConfig(cmd *cli.Command, cfg config.Config) {
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if !cmd.IsSet("mmap") {
		useMmap = cfg.UseMmap(useMmap)
	}
}

// defaultOutput returns out, or the configured output path when out is empty.
func defaultOutput(out string) string {
	if out != "" {
		return out
	}
	return cfg.Output
}

func openLoader(ctx context.Context, path string) *pcf.Loader {
	log := logger.FromContext(ctx).With("model", path)
	return pcf.NewLoader(path, pcf.WithLogger(log), pcf.WithMmap(useMmap))
}
