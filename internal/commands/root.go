package commands

import (
	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/buildinfo"
	"github.com/profinance-crm/profinance/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "profinance",
		Short:   "Personal finance dashboard fed from published spreadsheets",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "path to profinance.yaml")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		newInitCommand(),
		newLoadCommand(a),
		newDashboardCommand(a),
		newExportCommand(a),
		newWatchCommand(a),
		newCacheCommand(a),
		newHistoryCommand(a),
	)

	return rootCmd
}
