package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mediadrop/mediadrop/pkg/environment"
	"github.com/mediadrop/mediadrop/pkg/logging"
)

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand(fs afero.Fs, ctx context.Context, cfg *environment.Config, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "mediadrop",
		Short: "Ephemeral media-ingest endpoint.",
		Long: `Mediadrop accepts video and image uploads over HTTP, persists them to a
flat storage directory, serves them back under a public URL and reaps
files once they outlive the configured TTL.`,
	}
	rootCmd.AddCommand(NewServeCommand(fs, ctx, cfg, logger))
	rootCmd.AddCommand(NewSweepCommand(fs, cfg, logger))

	return rootCmd
}
