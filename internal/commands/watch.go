package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/ledger"
	"github.com/profinance-crm/profinance/internal/logger"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/refresh"
)

const watchHelp = `Commands:
  hide | show | quit
  list <kind> [text]                     records with their ids
  add <kind> field=value ...             e.g. add gastos producto=Pizza categoria=Alimentos precio=47.500 pago=Efectivo
  edit <kind> <id> field=value ...
  delete <kind> <id>
Edits last until the next refresh.`

func newWatchCommand(a *app) *cobra.Command {
	var interval time.Duration
	var noCache bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the dashboard on every refresh interval",
		Long: "Reprint the dashboard on every refresh interval until interrupted.\n" +
			"Type \"hide\" to pause refreshing, \"show\" to resume and \"quit\" to stop.\n\n" + watchHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = a.cfg.Refresh.Interval
			}
			p, err := a.pipeline(nil, !noCache)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			log := logger.WithFields(logger.FromContext(cmd.Context()), map[string]any{
				"command":  "watch",
				"interval": interval.String(),
			})
			wt := &watcher{a: a, w: cmd.OutOrStdout(), session: newSession(model.Dataset{})}
			wt.session.today = a.today
			wt.session.clock = func() string { return a.now().Format("15:04") }

			sched := refresh.New(interval, func(ctx context.Context) bool {
				batch, err := p.LoadAll(ctx)
				if ctx.Err() != nil {
					return false
				}
				wt.session.Replace(batch.Dataset)
				a.record(batch.Results...)
				wt.print(func(w io.Writer) {
					fmt.Fprintf(w, "\n%s\n", a.now().Format(time.DateTime))
					renderBatch(w, a, batch)
				})
				if err != nil {
					log.Warn().Err(err).Msg("refresh finished with errors")
				}
				return batch.Connected()
			}, log)
			wt.sched = sched
			wt.quit = cancel

			go wt.readInput(cmd.InOrStdin())

			if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the on-disk cache")
	return cmd
}

// watcher routes typed commands to the scheduler and the edit session.
type watcher struct {
	a       *app
	w       io.Writer
	sched   *refresh.Scheduler
	session *session
	quit    func()

	mu sync.Mutex // serializes output
}

func (wt *watcher) print(fn func(w io.Writer)) {
	wt.mu.Lock()
	defer wt.mu.Unlock()
	fn(wt.w)
}

// readInput handles lines from r until it is exhausted or "quit" is read.
func (wt *watcher) readInput(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !wt.handle(strings.Fields(scanner.Text())) {
			wt.quit()
			return
		}
	}
}

// handle runs one command line and reports whether to keep reading.
func (wt *watcher) handle(fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	switch strings.ToLower(fields[0]) {
	case "hide", "h":
		wt.sched.SetVisible(false)
	case "show", "s":
		wt.sched.SetVisible(true)
	case "quit", "q":
		return false
	case "list", "ls":
		wt.edit(fields[1:], 1, func(kind model.Kind, args []string) error {
			recs := wt.session.Filter(kind, strings.Join(args, " "), "").Records(kind)
			wt.print(func(w io.Writer) { renderRecordIDs(w, recs) })
			return nil
		})
	case "add":
		wt.edit(fields[1:], 1, func(kind model.Kind, args []string) error {
			f, err := parseForm(args)
			if err != nil {
				return err
			}
			recID, err := wt.session.Add(kind, f)
			if err != nil {
				return err
			}
			wt.saved("Agregado", recID)
			return nil
		})
	case "edit":
		wt.edit(fields[1:], 2, func(kind model.Kind, args []string) error {
			f, err := parseForm(args[1:])
			if err != nil {
				return err
			}
			if err := wt.session.Edit(kind, args[0], f); err != nil {
				return err
			}
			wt.saved("Actualizado", args[0])
			return nil
		})
	case "delete", "del", "rm":
		wt.edit(fields[1:], 2, func(kind model.Kind, args []string) error {
			if err := wt.session.Delete(kind, args[0]); err != nil {
				return err
			}
			wt.saved("Eliminado", args[0])
			return nil
		})
	default:
		wt.print(func(w io.Writer) { fmt.Fprintln(w, watchHelp) })
	}
	return true
}

// edit parses the kind argument, checks that at least minArgs arguments
// (kind included) are present and runs fn, printing any error.
func (wt *watcher) edit(args []string, minArgs int, fn func(kind model.Kind, rest []string) error) {
	err := func() error {
		if len(args) < minArgs {
			return errors.New("missing arguments, type \"help\" for usage")
		}
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}
		return fn(kind, args[1:])
	}()
	if err != nil {
		wt.print(func(w io.Writer) { renderEditError(w, err) })
	}
}

func (wt *watcher) saved(verb, recID string) {
	wt.print(func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n", verb, recID)
		renderOverview(w, wt.a, wt.session.Dataset())
	})
}

func renderEditError(w io.Writer, err error) {
	var invalid ledger.ValidationErrors
	if errors.As(err, &invalid) {
		for _, e := range invalid {
			fmt.Fprintf(w, "  %s: %s\n", e.Field, e.Description)
		}
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
