// Package browser implements the view model of the record browser: one
// searchable pane per collection, the active tab and the selection.
package browser

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/taxodex/internal/domain"
	"github.com/kailas-cloud/taxodex/internal/domain/record"
	"github.com/kailas-cloud/taxodex/internal/metrics"
)

// Searcher runs a collection search, locally or against a remote API.
type Searcher interface {
	Search(ctx context.Context, kind record.Kind, query string) ([]record.Record, error)
}

type pane struct {
	state     State
	query     string
	displayed []record.Record
	gen       uint64
}

// Controller binds each collection's query to its displayed set.
// Every query change triggers a fresh search; there is no debounce.
type Controller struct {
	searcher Searcher
	logger   *zap.Logger

	mu        sync.Mutex
	panes     map[record.Kind]*pane
	loading   bool
	tab       Tab
	observers map[int]func(Event)
	nextObs   int

	sel Selection
}

// New creates a controller with all panes idle and the literature tab active.
func New(s Searcher, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	panes := make(map[record.Kind]*pane, len(record.Kinds))
	for _, k := range record.Kinds {
		panes[k] = &pane{}
	}
	return &Controller{
		searcher:  s,
		logger:    logger,
		panes:     panes,
		tab:       TabLiterature,
		observers: make(map[int]func(Event)),
	}
}

// Mount loads all collections concurrently with their current queries
// and waits for them to finish.
func (c *Controller) Mount(ctx context.Context) {
	var g errgroup.Group
	for _, k := range record.Kinds {
		g.Go(func() error {
			return c.Refresh(ctx, k)
		})
	}
	_ = g.Wait()
}

// SetQuery stores the query for kind and refreshes it.
func (c *Controller) SetQuery(ctx context.Context, kind record.Kind, query string) error {
	c.mu.Lock()
	p, ok := c.panes[kind]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	p.query = query
	c.mu.Unlock()

	return c.Refresh(ctx, kind)
}

// Refresh searches kind with its current query. A failed search is logged
// and leaves the previous displayed set; the pane still becomes Ready.
// A result for an outdated query is dropped. The shared loading flag is
// cleared by whichever refresh finishes last.
func (c *Controller) Refresh(ctx context.Context, kind record.Kind) error {
	c.mu.Lock()
	p, ok := c.panes[kind]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	p.gen++
	gen, query := p.gen, p.query
	p.state = Loading
	c.loading = true
	c.mu.Unlock()
	c.notify(Event{Change: ChangeLoading, Kind: kind})

	recs, err := c.searcher.Search(ctx, kind, query)

	c.mu.Lock()
	outcome := "ok"
	switch {
	case gen != p.gen:
		outcome = "stale"
	case err != nil:
		outcome = "error"
		p.state = Ready
	default:
		p.displayed = recs
		p.state = Ready
	}
	c.loading = false
	c.mu.Unlock()

	metrics.BrowserRefreshTotal.WithLabelValues(string(kind), outcome).Inc()
	switch outcome {
	case "stale":
		c.logger.Debug("dropping outdated search result",
			zap.String("collection", string(kind)), zap.String("query", query))
	case "error":
		c.logger.Warn("search failed, keeping previous results",
			zap.String("collection", string(kind)), zap.String("query", query), zap.Error(err))
	}

	c.notify(Event{Change: ChangeDisplay, Kind: kind})
	return nil
}

// Displayed returns the records currently shown for kind.
func (c *Controller) Displayed(kind record.Kind) []record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.panes[kind]; ok {
		return slices.Clone(p.displayed)
	}
	return nil
}

// Find returns the displayed record of kind with the given id.
func (c *Controller) Find(kind record.Kind, id string) (record.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panes[kind]
	if !ok {
		return nil, false
	}
	for _, r := range p.displayed {
		if r.RecordID() == id {
			return r, true
		}
	}
	return nil, false
}

// Query returns the current query for kind.
func (c *Controller) Query(kind record.Kind) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.panes[kind]; ok {
		return p.query
	}
	return ""
}

// State returns the view state of kind.
func (c *Controller) State(kind record.Kind) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.panes[kind]; ok {
		return p.state
	}
	return Idle
}

// Loading reports the shared loading flag.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Tab returns the active tab.
func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// SetTab switches the active tab.
func (c *Controller) SetTab(t Tab) error {
	if !slices.Contains(Tabs, t) {
		return fmt.Errorf("unknown tab %q", t)
	}
	c.mu.Lock()
	c.tab = t
	c.mu.Unlock()
	c.notify(Event{Change: ChangeTab})
	return nil
}

// Select makes rec the current selection.
func (c *Controller) Select(rec record.Record, kind record.Kind) {
	c.sel.Select(rec, kind)
	c.notify(Event{Change: ChangeSelection, Kind: kind})
}

// Deselect clears the current selection.
func (c *Controller) Deselect() {
	c.sel.Deselect()
	c.notify(Event{Change: ChangeSelection})
}

// Selection returns the current selection.
func (c *Controller) Selection() (record.Record, record.Kind, bool) {
	return c.sel.Current()
}

// Subscribe registers fn to be called after every state change and returns
// a function that removes it. Observers run outside the controller lock
// and may call back into the controller.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) notify(ev Event) {
	c.mu.Lock()
	fns := make([]func(Event), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
