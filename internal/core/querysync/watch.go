package querysync

import (
	"context"
	"time"
)

// Watch keeps key refreshed while ctx is alive and streams every new state.
// The first value is the result of an initial Read. After that a value is
// sent whenever the entry changes, and every RefetchInterval the entry is
// marked stale and read again. Nothing is sent once ctx is done or the entry
// was forgotten; the channel is closed when the watch ends.
func (c *Client) Watch(ctx context.Context, key Key, load Loader, p Policy) <-chan Snapshot {
	out := make(chan Snapshot, 1)

	c.mu.Lock()
	if c.closed || c.watchCtx.Err() != nil {
		c.mu.Unlock()
		close(out)
		return out
	}
	e := c.entryLocked(key)
	e.watchers++
	e.loader = load
	c.mu.Unlock()

	go c.watch(ctx, e, load, p, out)
	return out
}

func (c *Client) watch(ctx context.Context, e *entry, load Loader, p Policy, out chan<- Snapshot) {
	defer close(out)
	defer func() {
		c.mu.Lock()
		e.watchers--
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(c.watchCtx, cancel)()

	var tick <-chan time.Time
	if p.RefetchInterval > 0 {
		t := time.NewTicker(p.RefetchInterval)
		defer t.Stop()
		tick = t.C
	}

	s := c.Read(ctx, e.key, load, p)
	for {
		// a ready receiver must not win over a finished watch
		if ctx.Err() != nil || isDone(e.gone) {
			return
		}
		select {
		case out <- s:
		case <-ctx.Done():
			return
		case <-e.gone:
			return
		}

		c.mu.Lock()
		changed, version := e.changed, e.version
		c.mu.Unlock()
		if version != s.version {
			s = c.peekEntry(e)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-e.gone:
			return
		case <-changed:
			s = c.peekEntry(e)
		case <-tick:
			if !c.markStale(e) {
				return
			}
			s = c.Read(ctx, e.key, load, p)
		}
	}
}

// markStale invalidates e for the next interval read. It reports false once
// e has left the table.
func (c *Client) markStale(e *entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[e.key] != e {
		return false
	}
	e.invalidated = true
	return true
}

func isDone(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func (c *Client) peekEntry(e *entry) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.snapshot(c.now())
}
