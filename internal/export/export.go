// Package export writes one kind's records as a Spanish-headed table.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/money"
)

// Format selects the output file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q (available: csv, xlsx)", s)
	}
}

// Headers returns the column titles for kind.
func Headers(kind model.Kind) []string {
	switch kind {
	case model.KindExpenses:
		return []string{"Fecha", "Hora", "Producto", "Categoría", "Precio", "Forma de Pago", "Notas"}
	case model.KindIncome:
		return []string{"Fecha", "Hora", "Entidad", "Monto", "Forma de Pago", "Notas"}
	case model.KindDebts:
		return []string{"Fecha", "Hora", "Entidad", "Monto", "Saldo Actual", "Pagado", "Interés", "Vencimiento", "Progreso %", "Notas"}
	case model.KindCapital:
		return []string{"Fecha", "Tipo", "Descripción", "Categoría", "Monto", "Tipo de Movimiento", "Notas"}
	case model.KindInvestments:
		return []string{"Fecha", "Tipo", "Descripción", "Categoría", "Monto Inicial", "Valor Actual", "Retorno", "ROI %", "Notas"}
	default:
		return nil
	}
}

// Table returns the header row followed by one row per record of kind.
func Table(kind model.Kind, d model.Dataset) ([][]string, error) {
	headers := Headers(kind)
	if headers == nil {
		return nil, fmt.Errorf("no export layout for kind %q", kind)
	}
	table := [][]string{headers}
	amount := money.FormatPlain

	switch kind {
	case model.KindExpenses:
		for _, r := range d.Expenses {
			table = append(table, []string{
				dates.Format(r.Date), r.Time, r.Product, r.CategoryName, amount(r.Price), r.PaymentMethod, r.Notes,
			})
		}
	case model.KindIncome:
		for _, r := range d.Income {
			table = append(table, []string{
				dates.Format(r.Date), r.Time, r.Entity, amount(r.Amount), r.PaymentMethod, r.Notes,
			})
		}
	case model.KindDebts:
		for _, r := range d.Debts {
			due := ""
			if r.DueDate != nil {
				due = dates.Format(*r.DueDate)
			}
			table = append(table, []string{
				dates.Format(r.Date), r.Time, r.Entity, amount(r.OriginalAmount), amount(r.CurrentBalance),
				amount(r.Paid()), amount(r.InterestRate), due, percent(r.ProgressPercent()), r.Notes,
			})
		}
	case model.KindCapital:
		for _, r := range d.Capital {
			direction := "Ingreso"
			if !r.Inflow() {
				direction = "Egreso"
			}
			table = append(table, []string{
				dates.Format(r.Date), r.Type.Label(), r.Description, r.CategoryName, amount(r.Amount), direction, r.Notes,
			})
		}
	case model.KindInvestments:
		for _, r := range d.Investments {
			table = append(table, []string{
				dates.Format(r.Date), r.Type, r.Description, r.CategoryName, amount(r.InitialAmount),
				amount(r.CurrentValue), amount(r.Return()), percent(r.ROIPercent()), r.Notes,
			})
		}
	}
	return table, nil
}

func percent(d decimal.Decimal) string {
	return money.FormatPlain(d.Round(2))
}

// CSV renders kind's records with every cell quoted, rows joined by "\n"
// and no trailing newline.
func CSV(kind model.Kind, d model.Dataset) (string, error) {
	table, err := Table(kind, d)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, row := range table {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String(), nil
}

// XLSX writes kind's records to a single-sheet workbook named after the kind.
func XLSX(w io.Writer, kind model.Kind, d model.Dataset) error {
	table, err := Table(kind, d)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := kind.Label()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Write renders kind's records in format to w.
func Write(w io.Writer, format Format, kind model.Kind, d model.Dataset) error {
	switch format {
	case FormatXLSX:
		return XLSX(w, kind, d)
	case FormatCSV, "":
		s, err := CSV(kind, d)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// Extension returns the file extension for format, with the dot.
func (f Format) Extension() string {
	if f == FormatXLSX {
		return ".xlsx"
	}
	return ".csv"
}
