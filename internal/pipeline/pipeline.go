// Package pipeline loads one dataset kind through cache, remote source,
// parser and normalizer, falling back to sample data so callers always
// have records to show.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/normalize"
	"github.com/profinance-crm/profinance/internal/sample"
	"github.com/profinance-crm/profinance/internal/sheet"
	"github.com/profinance-crm/profinance/internal/source"
)

// State is the connection state of the latest load of a kind.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateOffline    State = "offline"
	StateError      State = "error"
)

// Origin says where a result's records came from.
type Origin string

const (
	FromCache  Origin = "cache"
	FromRemote Origin = "remote"
	FromSample Origin = "sample"
)

var (
	// ErrEmptyDataset means the source answered but no row survived normalization.
	ErrEmptyDataset = errors.New("dataset has no usable rows")
	// ErrUnknownKind is returned for kinds outside model.Kinds.
	ErrUnknownKind = errors.New("unknown dataset kind")
)

// Result is the outcome of loading one kind.
type Result struct {
	Kind    model.Kind
	State   State
	Source  Origin
	Dataset model.Dataset // holds only Kind's records
	Origin  string        // URL or path of a remote result
	Notice  error         // why sample data is shown; nil when Connected
}

// Len returns the number of records in the result.
func (r Result) Len() int { return r.Dataset.Len(r.Kind) }

// Observer is notified of every state transition.
type Observer func(kind model.Kind, state State, err error)

// Cache persists the aggregate between runs.
type Cache interface {
	Load() (model.Dataset, bool)
	Save(model.Dataset)
}

// Fallback supplies records when no real data is available.
type Fallback interface {
	Dataset(kind model.Kind) model.Dataset
}

// Options wires a Pipeline. Zero fields get working defaults.
type Options struct {
	Source   source.Source
	Cache    Cache
	Registry *normalize.Registry
	Sheets   map[model.Kind]string
	Mode     sheet.Mode
	Sample   Fallback
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Pipeline owns the in-memory aggregate of real (non-sample) records.
type Pipeline struct {
	src      source.Source
	cache    Cache
	registry *normalize.Registry
	sheets   map[model.Kind]string
	mode     sheet.Mode
	fallback Fallback
	logger   zerolog.Logger
	now      func() time.Time

	group singleflight.Group

	// saveMu orders cache writes so a smaller snapshot never lands last.
	saveMu sync.Mutex

	mu        sync.RWMutex
	aggregate model.Dataset
	states    map[model.Kind]State
	observers []Observer
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		src:      opts.Source,
		cache:    opts.Cache,
		registry: opts.Registry,
		sheets:   opts.Sheets,
		mode:     opts.Mode,
		fallback: opts.Sample,
		logger:   opts.Logger,
		now:      opts.Now,
		states:   make(map[model.Kind]State),
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.src == nil {
		p.src = source.NewFetcher(source.WithLogger(p.logger))
	}
	if p.cache == nil {
		p.cache = noCache{}
	}
	if p.registry == nil {
		p.registry = normalize.DefaultRegistry()
	}
	if p.mode == "" {
		p.mode = sheet.DefaultMode
	}
	if p.fallback == nil {
		p.fallback = sample.New(sample.DefaultSeed, dates.Today(p.now()))
	}
	return p
}

// Subscribe registers an observer of state transitions.
func (p *Pipeline) Subscribe(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// State returns the latest state of kind, Idle before the first load.
func (p *Pipeline) State(kind model.Kind) State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.states[kind]; ok {
		return s
	}
	return StateIdle
}

// Snapshot returns the current aggregate of real records.
func (p *Pipeline) Snapshot() model.Dataset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.aggregate
}

// Load returns the records of kind. Offline results (source unreachable or
// empty) carry sample data, a Notice and a nil error. Unexpected failures
// carry sample data, the Error state and a non-nil error. Concurrent loads
// of the same kind share one run; they all observe the first caller's context.
func (p *Pipeline) Load(ctx context.Context, kind model.Kind) (Result, error) {
	v, err, _ := p.group.Do(string(kind), func() (any, error) {
		return p.load(ctx, kind)
	})
	return v.(Result), err
}

func (p *Pipeline) load(ctx context.Context, kind model.Kind) (res Result, err error) {
	log := p.logger.With().Str("kind", string(kind)).Logger()
	if !kind.Valid() {
		err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		return p.settle(kind, StateError, err), err
	}

	p.transition(kind, StateConnecting, nil)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loading %s: unexpected panic: %v", kind, r)
			log.Error().Err(err).Msg("load failed")
			res = p.settle(kind, StateError, err)
		}
	}()

	if cached, ok := p.cache.Load(); ok {
		p.adopt(cached)
		if cached.Len(kind) > 0 {
			p.transition(kind, StateConnected, nil)
			log.Debug().Int("records", cached.Len(kind)).Msg("served from cache")
			return Result{Kind: kind, State: StateConnected, Source: FromCache, Dataset: cached.Only(kind)}, nil
		}
	}

	doc, err := p.src.Fetch(ctx, p.sheets[kind])
	if err != nil {
		if errors.Is(err, source.ErrSourceUnavailable) {
			log.Warn().Err(err).Msg("source unavailable, showing sample data")
			return p.settle(kind, StateOffline, err), ctx.Err()
		}
		err = fmt.Errorf("fetching %s: %w", kind, err)
		log.Error().Err(err).Msg("load failed")
		return p.settle(kind, StateError, err), err
	}

	res, err = p.Ingest(kind, doc)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
	}
	return res, err
}

// Ingest runs the parse and normalize stages over an already fetched
// document and settles kind's state from the outcome. A document yielding
// no records settles Offline with ErrEmptyDataset as the notice.
func (p *Pipeline) Ingest(kind model.Kind, doc source.Document) (Result, error) {
	rows, err := sheet.Decode(doc.Format, doc.Body, p.mode)
	if err != nil {
		err = fmt.Errorf("parsing %s from %s: %w", kind, doc.Origin, err)
		return p.settle(kind, StateError, err), err
	}

	ds, err := p.registry.Normalize(kind, rows)
	if err != nil {
		return p.settle(kind, StateError, err), err
	}
	if ds.Len(kind) == 0 {
		notice := fmt.Errorf("%w: %d row(s) read from %s", ErrEmptyDataset, len(rows), doc.Origin)
		p.logger.Warn().Str("kind", string(kind)).Err(notice).Msg("showing sample data")
		return p.settle(kind, StateOffline, notice), nil
	}

	ds.LastSync = p.now()
	p.persist(kind, ds)
	p.transition(kind, StateConnected, nil)
	p.logger.Info().Str("kind", string(kind)).Int("records", ds.Len(kind)).Str("url", doc.Origin).Msg("dataset loaded")

	return Result{
		Kind:    kind,
		State:   StateConnected,
		Source:  FromRemote,
		Dataset: ds.Only(kind),
		Origin:  doc.Origin,
	}, nil
}

// Batch is the settled outcome of LoadAll.
type Batch struct {
	Dataset model.Dataset // real or sample records of every kind
	Results []Result      // in model.Kinds order
}

// Result returns the result for kind.
func (b Batch) Result(kind model.Kind) (Result, bool) {
	for _, r := range b.Results {
		if r.Kind == kind {
			return r, true
		}
	}
	return Result{}, false
}

// Connected reports whether every kind settled Connected.
func (b Batch) Connected() bool {
	for _, r := range b.Results {
		if r.State != StateConnected {
			return false
		}
	}
	return len(b.Results) > 0
}

// LoadAll loads every kind concurrently and waits for all of them. Each
// kind settles on its own; the returned error joins the per-kind errors.
func (p *Pipeline) LoadAll(ctx context.Context) (Batch, error) {
	results := make([]Result, len(model.Kinds))
	errs := make([]error, len(model.Kinds))

	var g errgroup.Group
	for i, kind := range model.Kinds {
		g.Go(func() error {
			results[i], errs[i] = p.Load(ctx, kind)
			return errs[i]
		})
	}
	_ = g.Wait()

	batch := Batch{Results: results}
	for _, r := range results {
		batch.Dataset.Merge(r.Kind, r.Dataset)
	}
	batch.Dataset.LastSync = p.Snapshot().LastSync
	return batch, errors.Join(errs...)
}

// merge replaces kind's records in the aggregate and returns a copy of it.
func (p *Pipeline) merge(kind model.Kind, src model.Dataset) model.Dataset {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.aggregate
	next.Merge(kind, src)
	if src.LastSync.After(next.LastSync) {
		next.LastSync = src.LastSync
	}
	p.aggregate = next
	return next
}

// persist merges kind into the aggregate and writes the result to the
// cache. Merge and save happen under saveMu, so saves land in merge order.
func (p *Pipeline) persist(kind model.Kind, ds model.Dataset) {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	p.cache.Save(p.merge(kind, ds))
}

// adopt copies cached kinds the aggregate does not hold yet, so a later
// save does not drop them.
func (p *Pipeline) adopt(cached model.Dataset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.aggregate
	for _, k := range model.Kinds {
		if next.Len(k) == 0 && cached.Len(k) > 0 {
			next.Merge(k, cached)
		}
	}
	if cached.LastSync.After(next.LastSync) {
		next.LastSync = cached.LastSync
	}
	p.aggregate = next
}

// settle moves kind to a fallback state and returns sample records.
func (p *Pipeline) settle(kind model.Kind, state State, cause error) Result {
	p.transition(kind, state, cause)
	return Result{
		Kind:    kind,
		State:   state,
		Source:  FromSample,
		Dataset: p.fallback.Dataset(kind),
		Notice:  cause,
	}
}

func (p *Pipeline) transition(kind model.Kind, state State, err error) {
	p.mu.Lock()
	p.states[kind] = state
	observers := append([]Observer(nil), p.observers...)
	p.mu.Unlock()

	for _, o := range observers {
		o(kind, state, err)
	}
}

type noCache struct{}

func (noCache) Load() (model.Dataset, bool) { return model.Dataset{}, false }
func (noCache) Save(model.Dataset)          {}
