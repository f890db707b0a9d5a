package cmd

import (
	"errors"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mediadrop/mediadrop/pkg/environment"
	"github.com/mediadrop/mediadrop/pkg/logging"
	"github.com/mediadrop/mediadrop/pkg/storage"
	"github.com/mediadrop/mediadrop/pkg/sweeper"
)

// NewSweepCommand creates the 'sweep' command, a one-shot retention
// pass over the storage directory without starting the server.
func NewSweepCommand(fs afero.Fs, cfg *environment.Config, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:     "sweep",
		Example: "$ mediadrop sweep",
		Short:   "Delete expired files once and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := storage.NewStore(fs, cfg.StorageDir)
			if err != nil {
				return err
			}

			sw := sweeper.NewSweeper(store, cfg.TTL, cfg.SweepInterval, logger)
			if !sw.Enabled() {
				return errors.New("sweeping is disabled: FILE_TTL_MINUTES must be positive")
			}

			sw.SweepOnce(time.Now())
			return nil
		},
	}
}
