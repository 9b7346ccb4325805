// Package querysync is the read cache shared by every gateway resource.
//
// Each Key moves through Empty → Fetching → Fresh → Stale → Fetching. Reads of
// a Fresh entry never reach the loader, concurrent reads of a non-fresh entry
// share one loader call, and a failed fetch keeps the last good data. Writes go
// through Mutate, which invalidates the declared keys only after the action
// succeeded.
//
// Only the latest-issued fetch for a key may apply its result. A fetch whose
// consumers all went away is cancelled and its result dropped.
package querysync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// ErrClosed is returned by operations on a closed Client.
var ErrClosed = errors.New("querysync: client closed")

// Loader fetches the full payload for one key.
type Loader func(ctx context.Context) (any, error)

// Action performs one remote write.
type Action func(ctx context.Context) (any, error)

// Policy controls freshness of a key. A zero StaleAfter makes every read
// refetch; a zero RefetchInterval disables background polling in Watch.
type Policy struct {
	StaleAfter      time.Duration
	RefetchInterval time.Duration
}

// Snapshot is the outcome of a read. Err is set when the latest fetch failed;
// Data still holds the last good payload in that case when HasData is true.
type Snapshot struct {
	Data      any
	HasData   bool
	FetchedAt time.Time
	Stale     bool
	Fetching  bool
	Err       error

	version uint64
}

type call struct {
	gen       uint64
	done      chan struct{}
	cancel    context.CancelFunc
	waiters   int
	pinned    bool
	discarded bool
	err       error
}

type entry struct {
	key         Key
	data        any
	hasData     bool
	fetchedAt   time.Time
	staleAfter  time.Duration
	invalidated bool
	err         error

	gen      uint64
	call     *call
	loader   Loader
	watchers int

	version uint64
	changed chan struct{}

	usedAt time.Time
	gone   chan struct{}
}

func (e *entry) freshAt(now time.Time) bool {
	return e.hasData && !e.invalidated && now.Sub(e.fetchedAt) < e.staleAfter
}

func (e *entry) snapshot(now time.Time) Snapshot {
	return Snapshot{
		Data:      e.data,
		HasData:   e.hasData,
		FetchedAt: e.fetchedAt,
		Stale:     !e.freshAt(now),
		Fetching:  e.call != nil,
		Err:       e.err,
		version:   e.version,
	}
}

// Client owns the cache table. Create one per application with New and
// release it with Close.
type Client struct {
	mu      sync.Mutex
	entries map[Key]*entry
	closed  bool

	base context.Context
	stop context.CancelFunc

	watchCtx    context.Context
	stopWatches context.CancelFunc

	log zerolog.Logger
	rec Recorder
	now func() time.Time
}

// New returns an empty Client. A nil rec disables instrumentation.
func New(log zerolog.Logger, rec Recorder) *Client {
	if rec == nil {
		rec = nopRecorder{}
	}
	base, stop := context.WithCancel(context.Background())
	watchCtx, stopWatches := context.WithCancel(base)
	return &Client{
		entries:     make(map[Key]*entry),
		base:        base,
		stop:        stop,
		watchCtx:    watchCtx,
		stopWatches: stopWatches,
		log:         log.With().Str("component", "querysync").Logger(),
		rec:         rec,
		now:         time.Now,
	}
}

func (c *Client) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key, changed: make(chan struct{}), gone: make(chan struct{})}
		c.entries[key] = e
	}
	e.usedAt = c.now()
	return e
}

// removeLocked drops e from the table. Its fetch is cancelled and its
// watchers end.
func (c *Client) removeLocked(e *entry) {
	if cl := e.call; cl != nil {
		e.call = nil
		cl.cancel()
	}
	close(e.gone)
	delete(c.entries, e.key)
}

// Read serves key from cache while it is fresh. Otherwise it starts a fetch,
// or joins the one already in flight, and waits for it. Cancelling ctx only
// detaches this caller; the fetch is cancelled once no caller is left.
func (c *Client) Read(ctx context.Context, key Key, load Loader, p Policy) Snapshot {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{Err: ErrClosed}
	}
	e := c.entryLocked(key)
	e.staleAfter = p.StaleAfter
	e.loader = load

	if e.freshAt(c.now()) {
		s := e.snapshot(c.now())
		c.mu.Unlock()
		c.rec.CacheRead(key.Resource(), OutcomeHit)
		return s
	}

	outcome := OutcomeJoin
	cl := e.call
	if cl == nil {
		cl = c.startLocked(e, load, false)
		outcome = OutcomeMiss
	}
	cl.waiters++
	c.mu.Unlock()

	c.rec.CacheRead(key.Resource(), outcome)
	return c.await(ctx, e, cl)
}

// Refetch forces a new fetch for key, superseding any fetch in flight, and
// waits for it.
func (c *Client) Refetch(ctx context.Context, key Key, load Loader, p Policy) Snapshot {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{Err: ErrClosed}
	}
	e := c.entryLocked(key)
	e.staleAfter = p.StaleAfter
	e.loader = load
	e.invalidated = true
	cl := c.startLocked(e, load, false)
	cl.waiters++
	c.mu.Unlock()

	c.rec.CacheRead(key.Resource(), OutcomeMiss)
	return c.await(ctx, e, cl)
}

// Peek returns the cached state of key without fetching.
func (c *Client) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot(c.now()), true
}

// Invalidate marks every entry under the given prefixes stale. Entries that
// are being fetched or watched get an asynchronous refetch that supersedes
// the running one. It returns the number of entries marked.
func (c *Client) Invalidate(prefixes ...Key) int {
	if len(prefixes) == 0 {
		return 0
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	var marked []Key
	for key, e := range c.entries {
		if !matchesAny(key, prefixes) {
			continue
		}
		e.invalidated = true
		marked = append(marked, key)
		if (e.call != nil || e.watchers > 0) && e.loader != nil {
			c.startLocked(e, e.loader, true)
		}
	}
	c.mu.Unlock()

	for _, k := range marked {
		c.rec.Invalidated(k.Resource())
	}
	if len(marked) > 0 {
		c.log.Debug().Strs("prefixes", keyStrings(prefixes)).Int("entries", len(marked)).Msg("cache invalidated")
	}
	return len(marked)
}

// Forget drops every entry scoped to principal (see Key.For), including
// watched ones. It returns the number of entries dropped.
func (c *Client) Forget(principal string) int {
	if principal == "" {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.entries {
		if key.Principal() == principal {
			c.removeLocked(e)
			n++
		}
	}
	return n
}

// Sweep drops entries that nobody is fetching or watching and that were not
// used for idle, or for twice their stale window when that is longer. It
// returns the number of entries dropped.
func (c *Client) Sweep(idle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for _, e := range c.entries {
		if e.call != nil || e.watchers > 0 {
			continue
		}
		if now.Sub(e.usedAt) < max(idle, 2*e.staleAfter) {
			continue
		}
		c.removeLocked(e)
		n++
	}
	return n
}

// StartJanitor runs Sweep every interval until the client is closed.
func (c *Client) StartJanitor(every, idle time.Duration) {
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-c.base.Done():
				return
			case <-t.C:
				if n := c.Sweep(idle); n > 0 {
					c.log.Debug().Int("entries", n).Msg("idle cache entries swept")
				}
			}
		}
	}()
}

// Mutate runs action and, only when it succeeds, invalidates affected.
// A failed action leaves the cache untouched and is reported wrapped in
// domain.ErrMutationFailed. The refetches triggered by invalidation are not
// awaited.
func (c *Client) Mutate(ctx context.Context, action Action, affected ...Key) (any, error) {
	return c.mutate(ctx, action, func(any) []Key { return affected })
}

func (c *Client) mutate(ctx context.Context, action Action, affects func(any) []Key) (any, error) {
	out, err := action(ctx)
	if err != nil {
		c.rec.Mutation(OutcomeFailure)
		c.log.Warn().Err(err).Msg("mutation failed")
		if errors.Is(err, domain.ErrMutationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrMutationFailed, err)
	}
	if affects != nil {
		c.Invalidate(affects(out)...)
	}
	c.rec.Mutation(OutcomeSuccess)
	return out, nil
}

// StopWatches ends every current and future Watch. Reads keep working, so
// requests still in flight during a server shutdown can finish.
func (c *Client) StopWatches() {
	c.stopWatches()
}

// Close cancels every fetch and watcher. Results arriving afterwards are
// dropped.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, e := range c.entries {
		e.call = nil
	}
	c.mu.Unlock()
	c.stop()
}

func (c *Client) startLocked(e *entry, load Loader, pinned bool) *call {
	if old := e.call; old != nil {
		old.cancel()
	}
	e.gen++
	ctx, cancel := context.WithCancel(c.base)
	cl := &call{
		gen:    e.gen,
		done:   make(chan struct{}),
		cancel: cancel,
		pinned: pinned,
	}
	e.call = cl
	c.rec.LoaderCalled(e.key.Resource())
	go c.run(ctx, e, cl, load)
	return cl
}

func (c *Client) run(ctx context.Context, e *entry, cl *call, load Loader) {
	start := time.Now()
	data, err := load(ctx)
	cl.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(cl.done)

	if c.closed || e.call != cl || cl.gen != e.gen {
		cl.discarded = true
		c.rec.ResultDiscarded(e.key.Resource())
		c.log.Debug().Str("key", e.key.String()).Uint64("generation", cl.gen).Msg("fetch result discarded")
		return
	}
	e.call = nil

	if err != nil {
		cl.err = fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, e.key, err)
		e.err = cl.err
		c.log.Warn().Err(err).Str("key", e.key.String()).Dur("took", time.Since(start)).Msg("fetch failed")
	} else {
		e.data = data
		e.hasData = true
		e.fetchedAt = c.now()
		e.invalidated = false
		e.err = nil
	}
	e.version++
	close(e.changed)
	e.changed = make(chan struct{})
}

func (c *Client) await(ctx context.Context, e *entry, cl *call) Snapshot {
	for {
		select {
		case <-cl.done:
			c.mu.Lock()
			if cl.discarded && !c.closed && e.call != nil {
				// superseded: follow the fetch that replaced it
				cl = e.call
				cl.waiters++
				c.mu.Unlock()
				continue
			}
			s := e.snapshot(c.now())
			if cl.err != nil {
				s.Err = cl.err
			}
			if c.closed {
				s.Err = ErrClosed
			}
			c.mu.Unlock()
			return s

		case <-ctx.Done():
			c.mu.Lock()
			c.leaveLocked(e, cl)
			s := e.snapshot(c.now())
			s.Err = ctx.Err()
			c.mu.Unlock()
			return s
		}
	}
}

func (c *Client) leaveLocked(e *entry, cl *call) {
	cl.waiters--
	if cl.waiters > 0 || cl.pinned {
		return
	}
	if e.call == cl {
		e.call = nil
		c.log.Debug().Str("key", e.key.String()).Msg("fetch abandoned")
	}
	cl.cancel()
}

func keyStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
