// Package notification holds the client-side copy of a user's notification
// feed together with its derived unread count.
//
// A Store is the only writer of its records' read flags. After every
// operation UnreadCount equals the number of records with Read == false.
package notification

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// Status selects a filtered view of the feed.
type Status string

const (
	StatusAll    Status = "all"
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// ParseStatus accepts "", "all", "unread" and "read".
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusUnread, StatusRead:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown notification status %q", domain.ErrInvalidArgument, s)
}

// Filter narrows List. A zero Kind matches every kind.
type Filter struct {
	Status Status
	Kind   domain.NotificationKind
}

func (f Filter) match(n domain.Notification) bool {
	switch f.Status {
	case StatusUnread:
		if n.Read {
			return false
		}
	case StatusRead:
		if !n.Read {
			return false
		}
	}
	return f.Kind == "" || n.Kind == f.Kind
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	records  []domain.Notification
	index    map[string]int
	unread   int
	syncedAt time.Time
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// ReplaceAll swaps in a complete feed, preserving the given order. Duplicate
// ids are rejected with ErrInvalidArgument and leave the store untouched.
func (s *Store) ReplaceAll(records []domain.Notification) error {
	if err := checkUnique(records); err != nil {
		return fmt.Errorf("replace notifications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(slices.Clone(records))
	return nil
}

// Sync replaces the feed with a copy fetched at fetchedAt, unless the store
// already holds a copy at least as recent. Local read flags on records that are
// still present survive a sync, since read never flips back to unread.
// Records pushed after fetchedAt that the feed does not carry yet are kept on
// top.
func (s *Store) Sync(records []domain.Notification, fetchedAt time.Time) (bool, error) {
	if err := checkUnique(records); err != nil {
		return false, fmt.Errorf("sync notifications: %w", err)
	}
	incoming := make(map[string]struct{}, len(records))
	for _, r := range records {
		incoming[r.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !fetchedAt.After(s.syncedAt) {
		return false, nil
	}

	merged := make([]domain.Notification, 0, len(records))
	for _, r := range s.records {
		if _, ok := incoming[r.ID]; !ok && r.CreatedAt.After(fetchedAt) {
			merged = append(merged, r)
		}
	}
	for _, r := range records {
		if i, ok := s.index[r.ID]; ok && s.records[i].Read {
			r.Read = true
		}
		merged = append(merged, r)
	}
	s.replaceLocked(merged)
	s.syncedAt = fetchedAt
	return true, nil
}

func checkUnique(records []domain.Notification) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidArgument, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// replaceLocked installs records, which must have unique ids, and rebuilds the
// index and unread counter.
func (s *Store) replaceLocked(records []domain.Notification) {
	index := make(map[string]int, len(records))
	unread := 0
	for i, r := range records {
		index[r.ID] = i
		if !r.Read {
			unread++
		}
	}
	s.records = records
	s.index = index
	s.unread = unread
}

// SyncedAt returns the fetch time of the last applied Sync.
func (s *Store) SyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncedAt
}

// MarkRead flags one record as read. Unknown or already-read ids are a no-op.
// It reports whether the record changed.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok || s.records[i].Read {
		return false
	}
	s.records[i].Read = true
	s.unread--
	return true
}

// MarkAllRead flags every record as read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		s.records[i].Read = true
	}
	s.unread = 0
}

// Insert prepends a pushed record. A record whose id is already present is
// rejected with ErrInvalidArgument.
func (s *Store) Insert(record domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.index[record.ID]; dup {
		return fmt.Errorf("insert notification: %w: duplicate id %q", domain.ErrInvalidArgument, record.ID)
	}
	s.records = slices.Insert(s.records, 0, record)
	for id, i := range s.index {
		s.index[id] = i + 1
	}
	s.index[record.ID] = 0
	if !record.Read {
		s.unread++
	}
	return nil
}

// UnreadCount returns the derived unread counter.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (domain.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Notification{}, false
	}
	return s.records[i], true
}

// List returns copies of the matching records in store order.
func (s *Store) List(f Filter) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Notification, 0, len(s.records))
	for _, r := range s.records {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) All() []domain.Notification    { return s.List(Filter{Status: StatusAll}) }
func (s *Store) Unread() []domain.Notification { return s.List(Filter{Status: StatusUnread}) }
func (s *Store) Read() []domain.Notification   { return s.List(Filter{Status: StatusRead}) }

// Stats summarises the feed by read state and kind.
func (s *Store) Stats() domain.NotificationStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := domain.NotificationStats{
		Total:  len(s.records),
		Unread: s.unread,
		ByKind: make(map[domain.NotificationKind]int, len(domain.NotificationKinds)),
	}
	for _, k := range domain.NotificationKinds {
		st.ByKind[k] = 0
	}
	for _, r := range s.records {
		st.ByKind[r.Kind]++
	}
	return st
}
