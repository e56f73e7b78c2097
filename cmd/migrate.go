package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"video-gallery/config"
	"video-gallery/migrations"
)

func migrate(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(migrations.CommandUp), string(migrations.CommandDown), string(migrations.CommandStatus)},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(os.Stdout).With().Timestamp().Str("command", "migrate").Logger()
			ctx := logger.WithContext(cmd.Context())
			defer config.DB.Close()

			if err := migrations.Run(ctx, config.DB, migrations.Command(args[0])); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			logger.Info().Str("direction", args[0]).Msg("migrations finished")
			return nil
		},
	}
}
