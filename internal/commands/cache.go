package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/dates"
)

func newCacheCommand(a *app) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk cache",
	}
	cacheCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show where the cache lives and whether it is fresh",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store := a.cacheStore()
				st := store.Stat()
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Path: %s\nTTL:  %s\n", store.Path(), store.TTL())
				switch {
				case !st.Present:
					fmt.Fprintln(w, "State: "+text.FgHiBlack.Sprint("empty"))
				case st.Fresh:
					fmt.Fprintf(w, "State: %s (saved %s, expires %s)\n", text.FgGreen.Sprint("fresh"),
						st.SavedAt.Local().Format(dates.DisplayLayout+" 15:04:05"), st.ExpiresAt.Local().Format("15:04:05"))
				default:
					fmt.Fprintf(w, "State: %s (saved %s)\n", text.FgYellow.Sprint("expired"),
						st.SavedAt.Local().Format(dates.DisplayLayout+" 15:04:05"))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the cached aggregate",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store := a.cacheStore()
				store.Clear()
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Path())
				return nil
			},
		},
	)
	return cacheCmd
}
