package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/money"
	"github.com/profinance-crm/profinance/internal/pipeline"
	"github.com/profinance-crm/profinance/internal/source"
	"github.com/profinance-crm/profinance/internal/summary"
)

type loadOptions struct {
	file     string
	noCache  bool
	limit    int
	search   string
	category string
}

func newLoadCommand(a *app) *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "load <kind>",
		Short: "Load one dataset and print its records",
		Long: "Load one dataset (expenses, income, debts, capital, investments) from the\n" +
			"cache, the configured spreadsheet or a local --file, falling back to sample data.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			return runLoad(cmd, a, kind, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "read a local .csv or .xlsx export instead of the spreadsheet")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the on-disk cache")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "maximum rows to print (0 for all)")
	cmd.Flags().StringVar(&opts.search, "search", "", "only records containing this text")
	cmd.Flags().StringVar(&opts.category, "category", "", "only records in this category")

	return cmd
}

func runLoad(cmd *cobra.Command, a *app, kind model.Kind, opts loadOptions) error {
	var src source.Source
	useCache := !opts.noCache
	if opts.file != "" {
		src = source.FileSource{Path: opts.file}
		useCache = false
	}

	p, err := a.pipeline(src, useCache)
	if err != nil {
		return err
	}

	res, loadErr := p.Load(cmd.Context(), kind)
	a.record(res)

	w := cmd.OutOrStdout()
	renderResult(w, res)

	recs := newSession(res.Dataset).Filter(kind, opts.search, opts.category).Records(kind)

	cur := a.currency()
	renderRecords(w, kind, recs, cur, opts.limit)
	renderKindSummary(w, kind, res, a, cur)
	return loadErr
}

// renderKindSummary prints the totals line under a records table.
func renderKindSummary(w io.Writer, kind model.Kind, res pipeline.Result, a *app, cur money.Currency) {
	d := res.Dataset
	switch kind {
	case model.KindExpenses:
		s := summary.Expenses(d.Expenses, a.today())
		fmt.Fprintf(w, "Total %s · Este mes %s · Promedio diario %s · %d categorías\n",
			cur.Format(s.Total), cur.Format(s.CurrentMonth), cur.Format(s.DailyAverage), s.Categories)
	case model.KindIncome:
		total := summary.DashboardOf(d).Income
		fmt.Fprintf(w, "Total %s\n", cur.Format(total))
	case model.KindDebts:
		s := summary.Debts(d.Debts, a.today())
		next := "Sin vencimientos"
		if s.NextDue != nil {
			next = dates.Format(*s.NextDue)
		}
		fmt.Fprintf(w, "Saldo %s · Pagado %s (%s) · Interés promedio %s · Próximo vencimiento %s\n",
			cur.Format(s.Balance), cur.Format(s.Paid), cur.FormatPercent(s.ProgressPercent, 1),
			cur.FormatPercent(s.WeightedInterest, 2), next)
	case model.KindCapital:
		s := summary.Capital(d.Capital, a.today())
		fmt.Fprintf(w, "Entradas %s · Salidas %s · Neto %s\n",
			cur.Format(s.Inflow), cur.Format(s.Outflow), signed(cur, s.Net))
	case model.KindInvestments:
		s := summary.Investments(d.Investments)
		fmt.Fprintf(w, "Invertido %s · Valor actual %s · ROI %s\n",
			cur.Format(s.Initial), cur.Format(s.Current), signedPercent(cur, s.ROIPercent))
	}
}
