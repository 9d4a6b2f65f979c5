package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/pipeline"
	"github.com/profinance-crm/profinance/internal/summary"
)

func newDashboardCommand(a *app) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Load every dataset and print the overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(nil, !noCache)
			if err != nil {
				return err
			}
			batch, loadErr := p.LoadAll(cmd.Context())
			a.record(batch.Results...)
			renderBatch(cmd.OutOrStdout(), a, batch)
			return loadErr
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the on-disk cache")
	return cmd
}

// renderBatch prints the status table, headline figures and recent activity.
func renderBatch(w io.Writer, a *app, batch pipeline.Batch) {
	renderStatus(w, batch.Results)
	if !batch.Dataset.LastSync.IsZero() {
		fmt.Fprintf(w, "Última sincronización: %s\n", batch.Dataset.LastSync.In(a.now().Location()).Format(dates.DisplayLayout+" 15:04"))
	}
	renderOverview(w, a, batch.Dataset)
}

// renderOverview prints the headline figures and recent activity of d.
func renderOverview(w io.Writer, a *app, d model.Dataset) {
	cur := a.currency()
	renderDashboard(w, summary.DashboardOf(d), cur)
	renderActivity(w, summary.Recent(d), cur, a.today())
}
