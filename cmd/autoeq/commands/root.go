package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/autoeq/internal/config"
)

var (
	cfg     *config.Config
	verbose bool
)

// Version is set at build time with -ldflags "-X ...commands.Version=..."
var Version = "dev"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "autoeq",
		Short:         "Equalizer correction curves from spectrogram exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded

			level := cfg.LogLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(computeCmd(), gridCmd(), versionCmd())
	return root
}
