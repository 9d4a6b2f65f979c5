package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/synclog"
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent loads from the sync log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := synclog.Tail(a.syncLogPath(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No loads recorded yet.")
				return nil
			}

			t := newTable(w)
			t.AppendHeader(table.Row{"Time", "Dataset", "State", "Source", "Records", "Notice"})
			for _, e := range entries {
				t.AppendRow(table.Row{
					e.Timestamp.Local().Format(dates.DisplayLayout + " 15:04"),
					e.Kind, e.State, e.Source, e.Records, e.Error,
				})
			}
			t.SetColumnConfigs(append(rightAlign(5), table.ColumnConfig{Number: 6, WidthMax: 60}))
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show (0 for all)")
	return cmd
}
