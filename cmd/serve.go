package cmd

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run on a cron schedule and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		svc, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()
		return svc.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
