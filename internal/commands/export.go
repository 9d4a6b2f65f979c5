package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/export"
	"github.com/profinance-crm/profinance/internal/id"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/source"
)

func newExportCommand(a *app) *cobra.Command {
	var format string
	var outDir string
	var file string
	var search string
	var category string

	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Write one dataset to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			var src source.Source
			if file != "" {
				src = source.FileSource{Path: file}
			}
			p, err := a.pipeline(src, file == "")
			if err != nil {
				return err
			}
			res, err := p.Load(cmd.Context(), kind)
			a.record(res)
			if err != nil {
				return err
			}
			renderResult(cmd.ErrOrStderr(), res)

			view := newSession(res.Dataset).Filter(kind, search, category)
			if outDir == "-" {
				return export.Write(cmd.OutOrStdout(), f, kind, view)
			}
			path, err := writeExport(outDir, f, kind, view, a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d record(s) to %s\n", view.Len(kind), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVar(&outDir, "out", ".", `output directory, or "-" for stdout`)
	cmd.Flags().StringVar(&file, "file", "", "read a local .csv or .xlsx export instead of the spreadsheet")
	cmd.Flags().StringVar(&search, "search", "", "only export records containing this text")
	cmd.Flags().StringVar(&category, "category", "", "only export records in this category")

	return cmd
}

func writeExport(dir string, f export.Format, kind model.Kind, d model.Dataset, a *app) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, id.ExportName(kind, a.today())+f.Extension())

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(out, f, kind, d); err != nil {
		out.Close()
		return "", fmt.Errorf("exporting %s: %w", kind, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
