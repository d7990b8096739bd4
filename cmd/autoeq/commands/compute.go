package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/autoeq/internal/processing"
	"github.com/RMahshie/autoeq/internal/repository"
	"github.com/RMahshie/autoeq/internal/repository/postgres"
	"github.com/RMahshie/autoeq/internal/storage"
)

func computeCmd() *cobra.Command {
	var (
		measurements []string
		target       string
		output       string
		dir          string
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Average measurement exports against a target and write the equalizer file",
		Long: `compute reads every measurement export and the target export from the
configured store, averages the measurements on the equal-loudness grid,
subtracts them from the target and writes the correction normalized to a
0 dB peak in the JamesDSP arbitrary-response format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// flags override configuration
			req := processing.Request{
				MeasurementKeys: cfg.Correction.MeasurementFiles,
				TargetKey:       cfg.Correction.TargetFile,
				OutputKey:       cfg.Correction.OutputFile,
			}
			if cmd.Flags().Changed("measurement") {
				req.MeasurementKeys = measurements
			}
			if cmd.Flags().Changed("target") {
				req.TargetKey = target
			}
			if cmd.Flags().Changed("output") {
				req.OutputKey = output
			}
			storeCfg := cfg.Storage
			if cmd.Flags().Changed("dir") {
				storeCfg.Dir = dir
			}

			store, err := storage.New(ctx, storeCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}

			var repo repository.CorrectionRepository
			if cfg.Database.URL != "" {
				db, err := postgres.Open(ctx, cfg.Database.URL)
				if err != nil {
					return err
				}
				defer db.Close()

				pg := postgres.NewPostgresCorrectionRepository(db)
				if err := pg.Migrate(ctx); err != nil {
					return err
				}
				repo = pg
			}

			outcome, err := processing.NewCorrectionService(store, repo).Run(ctx, req)
			if err != nil {
				return err
			}

			log.Info().
				Str("runID", outcome.Run.ID).
				Str("output", req.OutputKey).
				Int("points", outcome.Run.PointCount).
				Float64("peakGainDB", outcome.Result.Peak).
				Msg("Correction written")
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&measurements, "measurement", "m", nil, "measurement export (repeatable, default from MEASUREMENT_FILES)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "target export (default from TARGET_FILE)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "equalizer output file (default from OUTPUT_FILE)")
	cmd.Flags().StringVar(&dir, "dir", "", "local storage directory (default from STORAGE_DIR)")
	return cmd
}
