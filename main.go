package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/mediadrop/mediadrop/cmd"
	"github.com/mediadrop/mediadrop/pkg/environment"
	"github.com/mediadrop/mediadrop/pkg/logging"
)

func main() {
	fs := afero.NewOsFs()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logging.GetLogger()

	environ, err := environment.NewEnvironment()
	if err != nil {
		logger.Error("failed to load environment", "error", err)
		os.Exit(1)
	}

	cfg, err := environment.NewConfig(environ)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rootCmd := cmd.NewRootCommand(fs, ctx, cfg, logger)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
