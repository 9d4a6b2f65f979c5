package commands

import (
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/money"
	"github.com/profinance-crm/profinance/internal/pipeline"
	"github.com/profinance-crm/profinance/internal/summary"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func rightAlign(cols ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		configs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	return configs
}

// statusText renders the connection indicator for a state.
func statusText(s pipeline.State) string {
	switch s {
	case pipeline.StateConnected:
		return text.FgGreen.Sprint("● connected")
	case pipeline.StateOffline:
		return text.FgYellow.Sprint("● offline")
	case pipeline.StateError:
		return text.FgRed.Sprint("● error")
	case pipeline.StateConnecting:
		return text.FgCyan.Sprint("● connecting")
	default:
		return text.FgHiBlack.Sprint("○ idle")
	}
}

func sourceText(o pipeline.Origin) string {
	if o == pipeline.FromSample {
		return text.FgYellow.Sprint("sample")
	}
	return string(o)
}

func signed(cur money.Currency, d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return text.FgRed.Sprint(cur.Format(d))
	case d.IsPositive():
		return text.FgGreen.Sprint(cur.Format(d))
	default:
		return cur.Format(d)
	}
}

// renderResult prints the status line of one load.
func renderResult(w io.Writer, r pipeline.Result) {
	fmt.Fprintf(w, "%s  %s  %d record(s) from %s\n", r.Kind.Label(), statusText(r.State), r.Len(), sourceText(r.Source))
	if r.Notice != nil {
		fmt.Fprintf(w, "  %s\n", text.FgHiBlack.Sprint(r.Notice.Error()))
	}
}

// renderStatus prints one row per kind of a batch.
func renderStatus(w io.Writer, results []pipeline.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Dataset", "Status", "Source", "Records"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Kind.Label(), statusText(r.State), sourceText(r.Source), r.Len()})
	}
	t.SetColumnConfigs(rightAlign(4))
	t.Render()
}

// renderRecordIDs prints records with their ids, for picking edit targets.
func renderRecordIDs(w io.Writer, recs []model.Record) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Fecha", "Detalle", "Categoría"})
	for _, r := range recs {
		detail := ""
		if text := r.SearchText(); len(text) > 0 {
			detail = text[0]
		}
		t.AppendRow(table.Row{r.RecordID(), dates.Format(r.RecordDate()), detail, r.Category()})
	}
	t.Render()
}

// renderRecords prints up to limit records of kind. A limit of zero prints all.
func renderRecords(w io.Writer, kind model.Kind, recs []model.Record, cur money.Currency, limit int) {
	t := newTable(w)
	shown := recs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	switch kind {
	case model.KindExpenses:
		t.AppendHeader(table.Row{"Fecha", "Producto", "Categoría", "Forma de Pago", "Precio"})
		for _, rec := range shown {
			r := rec.(model.ExpenseRecord)
			t.AppendRow(table.Row{dates.FormatDateTime(r.Date, r.Time), r.Product, r.CategoryName, r.PaymentMethod, cur.Format(r.Price)})
		}
		t.SetColumnConfigs(rightAlign(5))
	case model.KindIncome:
		t.AppendHeader(table.Row{"Fecha", "Entidad", "Forma de Pago", "Monto"})
		for _, rec := range shown {
			r := rec.(model.IncomeRecord)
			t.AppendRow(table.Row{dates.FormatDateTime(r.Date, r.Time), r.Entity, r.PaymentMethod, cur.Format(r.Amount)})
		}
		t.SetColumnConfigs(rightAlign(4))
	case model.KindDebts:
		t.AppendHeader(table.Row{"Entidad", "Monto", "Saldo Actual", "Interés", "Vencimiento", "Progreso"})
		for _, rec := range shown {
			r := rec.(model.DebtRecord)
			due := "-"
			if r.DueDate != nil {
				due = dates.Format(*r.DueDate)
			}
			t.AppendRow(table.Row{
				r.Entity, cur.Format(r.OriginalAmount), cur.Format(r.CurrentBalance),
				cur.FormatPercent(r.InterestRate, 2), due, cur.FormatPercent(r.ProgressPercent(), 1),
			})
		}
		t.SetColumnConfigs(rightAlign(2, 3, 4, 6))
	case model.KindCapital:
		t.AppendHeader(table.Row{"Fecha", "Tipo", "Descripción", "Categoría", "Monto"})
		for _, rec := range shown {
			r := rec.(model.CapitalMovementRecord)
			t.AppendRow(table.Row{dates.Format(r.Date), r.Type.Label(), r.Description, r.CategoryName, signed(cur, r.Amount)})
		}
		t.SetColumnConfigs(rightAlign(5))
	case model.KindInvestments:
		t.AppendHeader(table.Row{"Descripción", "Tipo", "Monto Inicial", "Valor Actual", "ROI"})
		for _, rec := range shown {
			r := rec.(model.InvestmentRecord)
			t.AppendRow(table.Row{
				r.Description, r.Type, cur.Format(r.InitialAmount), cur.Format(r.CurrentValue),
				signedPercent(cur, r.ROIPercent()),
			})
		}
		t.SetColumnConfigs(rightAlign(3, 4, 5))
	}

	if len(shown) < len(recs) {
		t.AppendFooter(table.Row{fmt.Sprintf("%d of %d", len(shown), len(recs))})
	}
	t.Render()
}

func signedPercent(cur money.Currency, d decimal.Decimal) string {
	if d.IsNegative() {
		return text.FgRed.Sprint(cur.FormatPercent(d, 2))
	}
	return text.FgGreen.Sprint(cur.FormatPercent(d, 2))
}

// renderDashboard prints the headline figures.
func renderDashboard(w io.Writer, m summary.Dashboard, cur money.Currency) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Métrica", "Valor"})
	t.AppendRows([]table.Row{
		{"Capital total", signed(cur, m.TotalCapital)},
		{"Dinero líquido", signed(cur, m.Liquid)},
		{"Ingresos", cur.Format(m.Income)},
		{"Gastos", cur.Format(m.Expenses)},
		{"Deudas", cur.Format(m.Debts)},
		{"Inversiones", cur.Format(m.Investments)},
	})
	t.SetColumnConfigs(rightAlign(2))
	t.Render()
}

// renderActivity prints the recent activity feed.
func renderActivity(w io.Writer, acts []summary.Activity, cur money.Currency, today civil.Date) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Cuándo", "Tipo", "Detalle", "Monto"})
	for _, a := range acts {
		detail := a.Title
		if a.Description != "" {
			detail += " · " + a.Description
		}
		t.AppendRow(table.Row{dates.Relative(a.Date, today), a.Kind.Label(), detail, signed(cur, a.Amount)})
	}
	t.SetColumnConfigs(rightAlign(4))
	t.Render()
}
