package discounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arvellum/storefront/pkg/db/models"
	"github.com/arvellum/storefront/pkg/enums"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/arvellum/storefront/pkg/logger"
	"gorm.io/gorm"
)

const cacheKeyDiscounts = "discounts"

// DiscountDTO is the wire shape of a discount code.
type DiscountDTO struct {
	Code   string             `json:"code"`
	Type   enums.DiscountType `json:"type"`
	Amount float64            `json:"amount"`
}

// Service exposes discount reads. Validation of user-entered codes happens
// client-side against the full set; the server only resolves exact codes at
// order submission.
type Service interface {
	ListDiscounts(ctx context.Context) ([]DiscountDTO, error)
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
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

// NewService constructs a discount service. The cache is optional.
func NewService(repo *Repository, cache cacheStore, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo, cache: cache, ttl: ttl, logg: logg}, nil
}

func (s *service) ListDiscounts(ctx context.Context) ([]DiscountDTO, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cache.CacheKey(cacheKeyDiscounts)); err == nil {
			var dtos []DiscountDTO
			if err := json.Unmarshal([]byte(cached), &dtos); err == nil {
				return dtos, nil
			}
		}
	}

	discounts, err := s.repo.ListDiscounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing discounts")
	}

	dtos := make([]DiscountDTO, 0, len(discounts))
	for _, d := range discounts {
		dtos = append(dtos, DiscountDTO{
			Code:   d.Code,
			Type:   d.Type,
			Amount: d.Amount.InexactFloat64(),
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(dtos); err == nil {
			if err := s.cache.Set(ctx, s.cache.CacheKey(cacheKeyDiscounts), payload, s.ttl); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "caching discounts failed: "+err.Error())
			}
		}
	}

	return dtos, nil
}

func (s *service) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	discount, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading discount")
	}
	return discount, nil
}
