package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/profinance-crm/profinance/internal/sheet"
)

// FileSource serves a local .csv or .xlsx export for every dataset id.
type FileSource struct {
	Path string
}

// FormatOf infers the document format from a file name.
func FormatOf(path string) (sheet.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return sheet.FormatCSV, nil
	case ".xlsx":
		return sheet.FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// Fetch reads the file. A missing or unreadable file is reported as an
// *UnavailableError so callers fall back the same way as for remote sources.
func (s FileSource) Fetch(ctx context.Context, _ string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	format, err := FormatOf(s.Path)
	if err != nil {
		return Document{}, err
	}

	body, err := os.ReadFile(s.Path)
	if err != nil {
		return Document{}, &UnavailableError{
			DatasetID: s.Path,
			Last:      fmt.Errorf("reading %s: %w", s.Path, err),
		}
	}
	return Document{Format: format, Body: body, Origin: s.Path}, nil
}
