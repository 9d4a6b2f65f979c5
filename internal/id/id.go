package id

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/profinance-crm/profinance/internal/model"
)

const samplePrefix = "sample"

// New returns a fresh opaque record ID.
func New() string {
	return uuid.NewString()
}

// FormatSampleID returns a stable ID for generated records, e.g. "sample-expenses-007".
func FormatSampleID(kind model.Kind, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", samplePrefix, kind, seq)
}

// ParseSampleID parses "sample-expenses-007" into its kind and sequence.
func ParseSampleID(id string) (model.Kind, int, error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 || parts[0] != samplePrefix {
		return "", 0, fmt.Errorf("invalid sample ID format: %q", id)
	}

	kind, err := model.ParseKind(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid kind in sample ID %q: %w", id, err)
	}

	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid sequence in sample ID %q: %w", id, err)
	}
	return kind, seq, nil
}

// IsSample reports whether id was produced by FormatSampleID.
func IsSample(id string) bool {
	_, _, err := ParseSampleID(id)
	return err == nil
}

// exportPrefixes are the file name stems used for each kind's export.
var exportPrefixes = map[model.Kind]string{
	model.KindExpenses:    "gastos",
	model.KindIncome:      "ingresos",
	model.KindDebts:       "deudas",
	model.KindCapital:     "movimientos_capital",
	model.KindInvestments: "inversiones",
}

// ExportName returns the export file stem for kind on date, e.g. "gastos_2024-12-19".
func ExportName(kind model.Kind, date civil.Date) string {
	prefix, ok := exportPrefixes[kind]
	if !ok {
		prefix = string(kind)
	}
	return prefix + "_" + date.String()
}
