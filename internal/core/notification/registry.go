package notification

import "sync"

// Registry owns one Store per user. Stores are created on first use and live
// until Drop or the registry itself is discarded.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// For returns the store for user, creating it when absent.
func (r *Registry) For(user string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[user]
	if !ok {
		s = NewStore()
		r.stores[user] = s
	}
	return s
}

// Drop forgets the user's store, e.g. on logout.
func (r *Registry) Drop(user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, user)
}
