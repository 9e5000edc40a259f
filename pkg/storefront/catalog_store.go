package storefront

import (
	"context"
	"sync"
)

// CatalogStore holds the fetched product set, normalized by id. Products are
// immutable once loaded; cart totals resolve prices through read-only lookups.
type CatalogStore struct {
	mu       sync.Mutex
	products map[string]Product
	order    []string
	status   Status
	errMsg   string
}

// NewCatalogStore returns an empty, idle catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		products: make(map[string]Product),
		status:   StatusIdle,
	}
}

// Fetch loads the catalog from the server and replaces the stored set.
func (s *CatalogStore) Fetch(ctx context.Context, client *Client) error {
	s.setLoading()

	products, err := client.FetchProducts(ctx)
	if err != nil {
		s.setFailed("Failed to load products")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]Product, len(products))
	s.order = make([]string, 0, len(products))
	for _, p := range products {
		if _, seen := s.products[p.ID]; !seen {
			s.order = append(s.order, p.ID)
		}
		s.products[p.ID] = p
	}
	s.status = StatusSucceeded
	s.errMsg = ""
	return nil
}

// Product looks up one product by id.
func (s *CatalogStore) Product(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Products returns the catalog in fetch order.
func (s *CatalogStore) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out
}

// Status reports the last fetch outcome.
func (s *CatalogStore) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ErrorMessage returns the user-facing failure text, empty when healthy.
func (s *CatalogStore) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *CatalogStore) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.errMsg = ""
}

func (s *CatalogStore) setFailed(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.errMsg = msg
}
