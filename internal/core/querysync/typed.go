package querysync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Result is a Snapshot with its payload asserted to T.
type Result[T any] struct {
	Data      T
	HasData   bool
	FetchedAt time.Time
	Stale     bool
	Fetching  bool
	Err       error
}

func resultOf[T any](s Snapshot) Result[T] {
	r := Result[T]{
		HasData:   s.HasData,
		FetchedAt: s.FetchedAt,
		Stale:     s.Stale,
		Fetching:  s.Fetching,
		Err:       s.Err,
	}
	if v, ok := s.Data.(T); ok {
		r.Data = v
	}
	return r
}

// Query binds a key, its policy and a typed loader.
type Query[T any] struct {
	client *Client
	key    Key
	policy Policy
	load   func(context.Context) (T, error)
}

func NewQuery[T any](c *Client, key Key, p Policy, load func(context.Context) (T, error)) Query[T] {
	return Query[T]{client: c, key: key, policy: p, load: load}
}

func (q Query[T]) Key() Key { return q.key }

func (q Query[T]) loader() Loader {
	return func(ctx context.Context) (any, error) {
		v, err := q.load(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func (q Query[T]) Read(ctx context.Context) Result[T] {
	return resultOf[T](q.client.Read(ctx, q.key, q.loader(), q.policy))
}

func (q Query[T]) Refetch(ctx context.Context) Result[T] {
	return resultOf[T](q.client.Refetch(ctx, q.key, q.loader(), q.policy))
}

// Watch converts Client.Watch values to Result[T].
func (q Query[T]) Watch(ctx context.Context) <-chan Result[T] {
	in := q.client.Watch(ctx, q.key, q.loader(), q.policy)
	out := make(chan Result[T])
	go func() {
		defer close(out)
		for s := range in {
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- resultOf[T](s):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Mutation is a reusable write handle. IsPending and Err describe the handle
// as a whole, across callers.
type Mutation[I, O any] struct {
	client  *Client
	run     func(context.Context, I) (O, error)
	affects func(I, O) []Key

	pending atomic.Int64
	mu      sync.Mutex
	err     error
}

// NewMutation returns a handle whose successful runs invalidate the keys
// returned by affects. affects may be nil.
func NewMutation[I, O any](c *Client, run func(context.Context, I) (O, error), affects func(I, O) []Key) *Mutation[I, O] {
	return &Mutation[I, O]{client: c, run: run, affects: affects}
}

func (m *Mutation[I, O]) Mutate(ctx context.Context, in I) (O, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)

	action := func(ctx context.Context) (any, error) {
		o, err := m.run(ctx, in)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	keys := func(v any) []Key {
		if m.affects == nil {
			return nil
		}
		o, _ := v.(O)
		return m.affects(in, o)
	}

	out, err := m.client.mutate(ctx, action, keys)

	m.mu.Lock()
	m.err = err
	m.mu.Unlock()

	if err != nil {
		var zero O
		return zero, err
	}
	o, _ := out.(O)
	return o, nil
}

func (m *Mutation[I, O]) IsPending() bool { return m.pending.Load() > 0 }

// Err returns the error of the most recent completed run.
func (m *Mutation[I, O]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
