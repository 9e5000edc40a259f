package storefront

import "sync"

// OrdersStore accumulates order ids from successful submissions. The list is
// session-local, append-only, and de-duplicated; no server-side order list is
// ever fetched.
type OrdersStore struct {
	mu   sync.Mutex
	ids  []string
	seen map[string]struct{}
}

// NewOrdersStore returns an empty orders store.
func NewOrdersStore() *OrdersStore {
	return &OrdersStore{seen: make(map[string]struct{})}
}

// Append records an order id unless it is already present.
func (s *OrdersStore) Append(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[id]; dup {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// IDs returns the recorded order ids in submission order.
func (s *OrdersStore) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
