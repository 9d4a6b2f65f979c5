package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/config"
)

func newInitCommand() *cobra.Command {
	var force bool
	var sheets config.SheetsConfig

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a profinance.yaml with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(absDir, sheets, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	cmd.Flags().StringVar(&sheets.Expenses, "expenses", "", "spreadsheet id of the expenses sheet")
	cmd.Flags().StringVar(&sheets.Income, "income", "", "spreadsheet id of the income sheet")
	cmd.Flags().StringVar(&sheets.Debts, "debts", "", "spreadsheet id of the debts sheet")
	cmd.Flags().StringVar(&sheets.Capital, "capital", "", "spreadsheet id of the capital sheet")
	cmd.Flags().StringVar(&sheets.Investments, "investments", "", "spreadsheet id of the investments sheet")

	return cmd
}

func runInit(dir string, sheets config.SheetsConfig, force bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.Default()
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Sheets.Expenses, sheets.Expenses)
	override(&cfg.Sheets.Income, sheets.Income)
	override(&cfg.Sheets.Debts, sheets.Debts)
	override(&cfg.Sheets.Capital, sheets.Capital)
	override(&cfg.Sheets.Investments, sheets.Investments)

	if err := os.MkdirAll(filepath.Join(dir, filepath.Dir(cfg.Log.SyncLog)), 0o755); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}
	if err := config.Save(path, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}
