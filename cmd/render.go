package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	renderInput  string
	renderQueue  string
	renderOutDir string
	renderForce  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Redraw artifacts from a published document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		svc, cleanup, err := setup(offline)
		if err != nil {
			return err
		}
		defer cleanup()
		res, err := svc.RenderFromDocument(ctx, renderInput, renderQueue, renderOutDir, renderForce)
		for _, f := range res.Written {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked=%d skipped=%d generated=%d\n",
			res.Stats.Checked, res.Stats.Skipped, res.Stats.Generated)
		return err
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "GPV document to render")
	renderCmd.Flags().StringVarP(&renderQueue, "queue", "q", "", "render a single queue, e.g. 3.2")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "output directory (default: output.images_dir)")
	renderCmd.Flags().BoolVar(&renderForce, "force", false, "redraw even when the artifact is current")
	_ = renderCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(renderCmd)
}
