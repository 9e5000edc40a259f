package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arvellum/storefront/internal/pricing"
	"github.com/arvellum/storefront/pkg/db/models"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/arvellum/storefront/pkg/logger"
)

const cacheKeyProducts = "products"

// ProductDTO is the wire shape of a catalog entry.
type ProductDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Service exposes catalog reads.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(name string) string
}

type service struct {
	repo  *Repository
	cache cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService constructs a catalog service. The cache is optional; when nil,
// every read goes to the database.
func NewService(repo *Repository, cache cacheStore, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, cache: cache, ttl: ttl, logg: logg}, nil
}

// ListProducts serves the catalog through the read-through cache. Cache
// failures are logged and bypassed, never surfaced to the caller.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cache.CacheKey(cacheKeyProducts)); err == nil {
			var dtos []ProductDTO
			if err := json.Unmarshal([]byte(cached), &dtos); err == nil {
				return dtos, nil
			}
		}
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toDTO(p))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(dtos); err == nil {
			if err := s.cache.Set(ctx, s.cache.CacheKey(cacheKeyProducts), payload, s.ttl); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "caching products failed: "+err.Error())
			}
		}
	}

	return dtos, nil
}

func toDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:    p.ID.String(),
		Name:  p.Name,
		Price: pricing.FromCents(p.PriceCents).InexactFloat64(),
		Stock: p.Stock,
	}
}
