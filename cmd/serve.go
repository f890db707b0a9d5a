package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mediadrop/mediadrop/pkg/auth"
	"github.com/mediadrop/mediadrop/pkg/environment"
	"github.com/mediadrop/mediadrop/pkg/intake"
	"github.com/mediadrop/mediadrop/pkg/logging"
	"github.com/mediadrop/mediadrop/pkg/naming"
	"github.com/mediadrop/mediadrop/pkg/server"
	"github.com/mediadrop/mediadrop/pkg/storage"
	"github.com/mediadrop/mediadrop/pkg/sweeper"
)

// NewServeCommand creates the 'serve' command and passes the necessary dependencies.
func NewServeCommand(fs afero.Fs, ctx context.Context, cfg *environment.Config, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Example: "$ mediadrop serve",
		Short:   "Run the upload endpoint and the retention sweeper",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := storage.NewStore(fs, cfg.StorageDir)
			if err != nil {
				return err
			}

			resolver := naming.NewResolver(nil)
			pipeline := intake.NewPipeline(store, resolver, cfg.MaxUploadBytes, cfg.PublicBaseURL, logger)
			gate := auth.NewGate(cfg.UploadSecret, logger)

			logger.Info("storage ready",
				"dir", cfg.StorageDir, "maxUpload", humanize.IBytes(uint64(cfg.MaxUploadBytes)))

			sw := sweeper.NewSweeper(store, cfg.TTL, cfg.SweepInterval, logger)
			if sw.Enabled() {
				go sw.Run(ctx)
			} else {
				logger.Info("retention sweeping disabled", "ttlMinutes", cfg.TTL.Minutes())
			}

			return server.NewServer(cfg, store, pipeline, gate, logger).Run(ctx)
		},
	}
}
