package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

type recordingService struct {
	mu     sync.Mutex
	byUser map[string][]string
	fail   bool
	done   chan struct{}
}

func (s *recordingService) Process(_ context.Context, e ports.PushEvent) error {
	s.mu.Lock()
	s.byUser[e.User] = append(s.byUser[e.User], e.Notification.ID)
	s.mu.Unlock()
	s.done <- struct{}{}
	if s.fail {
		return errors.New("boom")
	}
	return nil
}

func event(user, id string) ports.PushEvent {
	return ports.PushEvent{
		Type:         ports.PushNotification,
		User:         user,
		Notification: &domain.Notification{ID: id},
	}
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	const perUser = 50
	users := []string{"alice", "bob", "carol", "dave"}

	svc := &recordingService{byUser: map[string][]string{}, done: make(chan struct{}, perUser*len(users))}
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < perUser; i++ {
		for _, u := range users {
			if err := d.Enqueue(ctx, event(u, fmt.Sprint(i))); err != nil {
				t.Fatalf("enqueue: %v", err)
			}
		}
	}
	for i := 0; i < perUser*len(users); i++ {
		select {
		case <-svc.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d events", i)
		}
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, u := range users {
		got := svc.byUser[u]
		if len(got) != perUser {
			t.Fatalf("%s: got %d events, want %d", u, len(got), perUser)
		}
		for i, id := range got {
			if id != fmt.Sprint(i) {
				t.Fatalf("%s: event %d out of order (%s)", u, i, id)
			}
		}
	}
}

func TestDispatcher_KeepsRunningAfterFailure(t *testing.T) {
	svc := &recordingService{byUser: map[string][]string{}, fail: true, done: make(chan struct{}, 2)}
	d := NewDispatcher(1, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	_ = d.Enqueue(ctx, event("alice", "1"))
	_ = d.Enqueue(ctx, event("alice", "2"))
	for i := 0; i < 2; i++ {
		select {
		case <-svc.done:
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped after a failed event")
		}
	}

	cancel()
	d.Wait()
}

func TestDispatcher_EnqueueHonoursContext(t *testing.T) {
	d := NewDispatcher(1, nil, zerolog.Nop())
	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(context.Background(), event("alice", fmt.Sprint(i))); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if d.Depth() != channelBuffer {
		t.Fatalf("depth = %d, want %d", d.Depth(), channelBuffer)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := d.Enqueue(ctx, event("alice", "overflow")); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestShardIndex_Stable(t *testing.T) {
	d := NewDispatcher(5, nil, zerolog.Nop())
	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatal("shard index changed between calls")
		}
	}
	if first < 0 || first >= 5 {
		t.Fatalf("index %d out of range", first)
	}
}
