package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/pkg/export"
)

var (
	gridInput string
	gridQueue string
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the grids of one queue from a document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := gridInput
		if path == "" {
			path = cfg.Output.DocumentPath()
		}
		q, err := model.ParseQueue(gridQueue)
		if err != nil {
			return err
		}
		doc, err := export.ReadDocument(path)
		if err != nil {
			return err
		}
		ft, err := doc.FactTable()
		if err != nil {
			return err
		}
		return writeGrid(cmd.OutOrStdout(), ft, q, cfg.Region.Location())
	},
}

func init() {
	gridCmd.Flags().StringVarP(&gridInput, "input", "i", "", "GPV document (default: the configured output)")
	gridCmd.Flags().StringVarP(&gridQueue, "queue", "q", "", "queue to print, e.g. 3.2")
	_ = gridCmd.MarkFlagRequired("queue")
	rootCmd.AddCommand(gridCmd)
}

var gridSymbols = map[model.SlotState]string{
	model.On:            ".",
	model.Off:           "#",
	model.OffFirstHalf:  "<",
	model.OffSecondHalf: ">",
}

// writeGrid prints one row per day with a column per slot, then the legend.
func writeGrid(w io.Writer, ft model.FactTable, q model.QueueKey, loc *time.Location) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", q.DisplayID(), q.Label())
	b.WriteString("          ")
	for slot := 1; slot <= model.SlotsPerDay; slot++ {
		fmt.Fprintf(&b, " %02d", slot-1)
	}
	b.WriteString("   off h\n")
	for _, day := range ft.Days() {
		g := ft.Grid(day, q)
		b.WriteString(day.Time(loc).Format("02.01.2006"))
		for slot := 1; slot <= model.SlotsPerDay; slot++ {
			fmt.Fprintf(&b, "  %s", gridSymbols[g.Slot(slot)])
		}
		fmt.Fprintf(&b, "   %4.1f\n", g.OffHours())
	}
	b.WriteString(". on  # off  < off first half  > off second half\n")
	_, err := io.WriteString(w, b.String())
	return err
}
