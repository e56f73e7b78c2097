package cmd

import (
	"github.com/spf13/cobra"
	"video-gallery/config"
	httpserver "video-gallery/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "serve the gallery pages, the upload API and the orphan cleanup consumer",
		Run: func(cmd *cobra.Command, args []string) {
			httpserver.RunHttp(config)
		},
	}
}
