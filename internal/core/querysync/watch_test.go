package querysync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(calls *atomic.Int32) Loader {
	return func(context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}
}

func next(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no value from watch")
		return Snapshot{}
	}
}

func drain(t *testing.T, ch <-chan Snapshot) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("watch channel not closed")
		}
	}
}

func TestWatch_PollsOnInterval(t *testing.T) {
	c, _, _ := newTestClient(t)
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := c.Watch(ctx, "system:status", sequence(&calls), Policy{StaleAfter: time.Hour, RefetchInterval: 10 * time.Millisecond})

	assert.Equal(t, 1, next(t, ch).Data)
	assert.Equal(t, 2, next(t, ch).Data)
	assert.Equal(t, 3, next(t, ch).Data)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	c, _, _ := newTestClient(t)
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	ch := c.Watch(ctx, "system:status", sequence(&calls), Policy{RefetchInterval: 5 * time.Millisecond})
	next(t, ch)
	cancel()
	drain(t, ch)

	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, calls.Load())

	c.mu.Lock()
	assert.Zero(t, c.entries["system:status"].watchers)
	c.mu.Unlock()
}

func TestWatch_DeliversInvalidationRefetch(t *testing.T) {
	c, _, _ := newTestClient(t)
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := c.Watch(ctx, "notifications:list:alice", sequence(&calls), Policy{StaleAfter: time.Hour})
	assert.Equal(t, 1, next(t, ch).Data)

	c.Invalidate("notifications")

	s := next(t, ch)
	assert.Equal(t, 2, s.Data)
	assert.False(t, s.Stale)
}

func TestWatch_EndsOnClose(t *testing.T) {
	c, _, _ := newTestClient(t)
	var calls atomic.Int32

	ch := c.Watch(context.Background(), "dashboard:stats", sequence(&calls), Policy{StaleAfter: time.Hour})
	next(t, ch)
	c.Close()
	drain(t, ch)

	closed := c.Watch(context.Background(), "dashboard:stats", sequence(&calls), Policy{})
	drain(t, closed)
}

func TestWatch_NothingDeliveredAfterCancel(t *testing.T) {
	for range 20 {
		c, _, _ := newTestClient(t)
		var calls atomic.Int32
		entered := make(chan struct{})
		load := func(ctx context.Context) (any, error) {
			if calls.Add(1) == 1 {
				return 1, nil
			}
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		ctx, cancel := context.WithCancel(context.Background())

		ch := c.Watch(ctx, "system:status", load, Policy{RefetchInterval: 5 * time.Millisecond})
		next(t, ch)
		select {
		case <-entered:
		case <-time.After(2 * time.Second):
			t.Fatal("interval refetch not started")
		}
		cancel()

		select {
		case s, ok := <-ch:
			require.False(t, ok, "value delivered after cancel: %+v", s)
		case <-time.After(2 * time.Second):
			t.Fatal("watch channel not closed")
		}
	}
}

func TestWatch_EndsWhenForgotten(t *testing.T) {
	c, _, _ := newTestClient(t)
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	key := NewKey("system", "status").For("alice")
	ch := c.Watch(ctx, key, sequence(&calls), Policy{StaleAfter: time.Hour, RefetchInterval: 5 * time.Millisecond})
	next(t, ch)

	assert.Equal(t, 1, c.Forget("alice"))
	drain(t, ch)

	_, ok := c.Peek(key)
	assert.False(t, ok)
}

func TestStopWatches_LeavesReadsWorking(t *testing.T) {
	c, _, _ := newTestClient(t)
	var calls atomic.Int32

	ch := c.Watch(context.Background(), "system:status", sequence(&calls), Policy{StaleAfter: time.Hour})
	next(t, ch)
	c.StopWatches()
	drain(t, ch)

	drain(t, c.Watch(context.Background(), "system:status", sequence(&calls), Policy{}))

	s := c.Read(context.Background(), "dashboard:stats", sequence(&calls), Policy{StaleAfter: time.Hour})
	require.NoError(t, s.Err)
	assert.True(t, s.HasData)
}
