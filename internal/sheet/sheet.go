// Package sheet turns spreadsheet exports into header-keyed rows.
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Row maps a trimmed header name to the cell value in that column.
// Every row carries every header; cells past the end of a short line are "".
type Row map[string]string

// Mode selects the CSV grammar.
type Mode string

const (
	// ModeNaive splits lines on '\n' and cells on ',' with no quote handling,
	// matching the historical dashboard exports byte for byte. Commas inside
	// quoted cells split the cell.
	ModeNaive Mode = "naive"
	// ModeRFC4180 reads quoted cells with embedded commas, quotes and newlines.
	ModeRFC4180 Mode = "rfc4180"
)

// DefaultMode is used when no grammar is configured.
const DefaultMode = ModeRFC4180

// Format identifies the encoding of a fetched document.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// bom is stripped from the start of CSV input.
const bom = "\ufeff"

// keyColumns is how many leading cells decide whether a row is blank.
const keyColumns = 3

// ParseMode resolves a configured grammar name. Empty means DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeNaive:
		return ModeNaive, nil
	case ModeRFC4180, "strict":
		return ModeRFC4180, nil
	default:
		return "", fmt.Errorf("unknown csv mode %q (available: %s, %s)", s, ModeNaive, ModeRFC4180)
	}
}

// Parse reads raw with the naive grammar. Input with fewer than two lines
// yields no rows. Parse never fails.
func Parse(raw string) []Row {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, bom))
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return nil
	}

	records := make([][]string, len(lines))
	for i, line := range lines {
		records[i] = strings.Split(line, ",")
	}
	return build(records, unquote)
}

// ParseStrict reads raw as RFC 4180 CSV with variable field counts and lazy
// quotes, then applies the same header and blank-row rules as Parse.
func ParseStrict(raw string) ([]Row, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, bom))
	if raw == "" {
		return nil, nil
	}

	cr := csv.NewReader(strings.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	return build(records, strings.TrimSpace), nil
}

// ParseWith reads raw using mode.
func ParseWith(mode Mode, raw string) ([]Row, error) {
	switch mode {
	case ModeNaive:
		return Parse(raw), nil
	case ModeRFC4180, "":
		return ParseStrict(raw)
	default:
		return nil, fmt.Errorf("unknown csv mode %q", mode)
	}
}

// Decode parses a fetched document according to its format.
func Decode(format Format, body []byte, mode Mode) ([]Row, error) {
	switch format {
	case FormatXLSX:
		return ParseXLSX(bytes.NewReader(body))
	case FormatCSV, "":
		return ParseWith(mode, string(body))
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// unquote trims whitespace and surrounding quote characters from a naive cell.
func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// build maps records[1:] onto the header in records[0].
func build(records [][]string, clean func(string) string) []Row {
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = clean(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		values := make([]string, len(header))
		for i := range header {
			if i < len(rec) {
				values[i] = clean(rec[i])
			}
		}
		if blank(values) {
			continue
		}

		row := make(Row, len(header))
		for i, h := range header {
			row[h] = values[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func blank(values []string) bool {
	for i := 0; i < keyColumns && i < len(values); i++ {
		if values[i] != "" {
			return false
		}
	}
	return true
}
