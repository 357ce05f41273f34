package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Archive delivered orders past their dwell time once and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		archived, err := a.scheduler.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		log.Info().Int("archived", archived).Msg("sweep finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
