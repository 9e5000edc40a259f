package discounts

import (
	"context"

	"github.com/arvellum/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads discount rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListDiscounts returns the full discount set ordered by code.
func (r *Repository) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	var discounts []models.Discount
	err := r.db.WithContext(ctx).Order("code asc").Find(&discounts).Error
	return discounts, err
}

// FindByCode returns the discount for an exact, case-sensitive code match.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}
