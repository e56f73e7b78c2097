package cmd

import (
	"github.com/spf13/cobra"
	"video-gallery/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "video-gallery",
		Short: "video upload and gallery service",
	}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(migrate(config))
	return rootCmd
}
