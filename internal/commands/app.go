package commands

import (
	"net/http"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/profinance-crm/profinance/internal/cache"
	"github.com/profinance-crm/profinance/internal/config"
	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/logger"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/money"
	"github.com/profinance-crm/profinance/internal/pipeline"
	"github.com/profinance-crm/profinance/internal/sample"
	"github.com/profinance-crm/profinance/internal/sheet"
	"github.com/profinance-crm/profinance/internal/source"
	"github.com/profinance-crm/profinance/internal/synclog"
)

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
	now    func() time.Time
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return err
	}
	if cfg.Log.Format == "json" {
		a.logger = logger.NewWithWriter(cmd.ErrOrStderr()).Level(lvl)
	} else {
		a.logger = logger.NewConsole(cmd.ErrOrStderr(), lvl)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), a.logger))

	if a.now == nil {
		a.now = time.Now
	}
	return nil
}

func (a *app) today() civil.Date {
	return dates.Today(a.now())
}

func (a *app) currency() money.Currency {
	return money.New(a.cfg.Display.Currency)
}

func (a *app) cacheStore() *cache.Store {
	c := cache.New(a.cfg.Cache.Dir, a.cfg.Cache.Key, a.cfg.Cache.TTL, a.logger)
	c.SetClock(a.now)
	return c
}

func (a *app) fetcher() *source.Fetcher {
	return source.NewFetcher(
		source.WithClient(&http.Client{Timeout: a.cfg.Fetch.Timeout}),
		source.WithTemplates(a.cfg.Fetch.URLTemplates...),
		source.WithMaxBodyBytes(a.cfg.Fetch.MaxBodyBytes),
		source.WithLogger(a.logger),
	)
}

// pipeline wires a Pipeline reading from src. A nil src means the
// configured remote sheets; useCache false bypasses the on-disk cache.
func (a *app) pipeline(src source.Source, useCache bool) (*pipeline.Pipeline, error) {
	mode, err := sheet.ParseMode(a.cfg.Fetch.CSVMode)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = a.fetcher()
	}

	sheets := make(map[model.Kind]string, len(model.Kinds))
	for _, k := range model.Kinds {
		sheets[k] = a.cfg.Sheets.ID(k)
	}

	opts := pipeline.Options{
		Source: src,
		Sheets: sheets,
		Mode:   mode,
		Sample: sample.New(a.cfg.Sample.Seed, a.today()),
		Logger: a.logger,
		Now:    a.now,
	}
	if useCache {
		opts.Cache = a.cacheStore()
	}

	p := pipeline.New(opts)
	p.Subscribe(func(kind model.Kind, state pipeline.State, err error) {
		ev := a.logger.Debug()
		if state == pipeline.StateError {
			ev = a.logger.Warn()
		}
		ev.Str("kind", string(kind)).Str("state", string(state)).AnErr("cause", err).Msg("state changed")
	})
	return p, nil
}

// syncLogPath resolves the sync log relative to the config file.
func (a *app) syncLogPath() string {
	path := a.cfg.Log.SyncLog
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(a.configPath), path)
}

// record appends results to the sync log. Failures are logged, not returned.
func (a *app) record(results ...pipeline.Result) {
	path := a.syncLogPath()
	if path == "" {
		return
	}

	now := a.now()
	entries := make([]synclog.Entry, len(results))
	for i, r := range results {
		entries[i] = synclog.Entry{
			Timestamp: now,
			Kind:      string(r.Kind),
			State:     string(r.State),
			Source:    string(r.Source),
			Records:   r.Len(),
			Origin:    r.Origin,
		}
		if r.Notice != nil {
			entries[i].Error = r.Notice.Error()
		}
	}
	if err := synclog.Append(path, entries); err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("sync log not written")
	}
}
