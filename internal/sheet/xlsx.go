package sheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrNoWorksheet is returned for workbooks without any sheet.
var ErrNoWorksheet = errors.New("workbook has no worksheets")

// ParseXLSX reads the first worksheet of an .xlsx workbook. The first row is
// the header; the usual blank-row and missing-cell rules apply.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	return build(records, unquote), nil
}
