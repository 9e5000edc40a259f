package carts

import (
	"context"
	"errors"
	"fmt"

	"github.com/arvellum/storefront/pkg/db"
	"github.com/arvellum/storefront/pkg/db/models"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItemDTO is the wire shape of one cart line.
type CartItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartDTO is the wire shape of a cart.
type CartDTO struct {
	ID    string        `json:"id"`
	Items []CartItemDTO `json:"items"`
}

// ItemInput is one validated (product, quantity) pair for a replace call.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// Service exposes the server-side cart resource.
type Service interface {
	Create(ctx context.Context) (*CartDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CartDTO, error)
	ReplaceItems(ctx context.Context, id uuid.UUID, items []ItemInput) (*CartDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	products productReader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

func (s *service) Create(ctx context.Context) (*CartDTO, error) {
	cart := &models.Cart{ID: uuid.New()}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart")
	}
	return toDTO(cart), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CartDTO, error) {
	cart, err := s.findCart(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

// ReplaceItems swaps the cart's item list for the given one. The cart must
// already exist: a missing cart is NOT_FOUND, which is what tells stale
// clients to recreate their cart.
func (s *service) ReplaceItems(ctx context.Context, id uuid.UUID, items []ItemInput) (*CartDTO, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	if _, err := s.findCart(ctx, id); err != nil {
		return nil, err
	}

	if err := s.checkProductsExist(ctx, items); err != nil {
		return nil, err
	}

	rows := make([]models.CartItem, 0, len(items))
	for i, item := range items {
		rows = append(rows, models.CartItem{
			ID:        uuid.New(),
			CartID:    id,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Position:  i,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		return repo.InsertItems(ctx, rows)
	})
	if err != nil {
		// Concurrent replaces can race past the pre-validation and trip the
		// (cart_id, product_id) unique index.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart items changed concurrently")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replacing cart items")
	}

	cart, err := s.findCart(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

func (s *service) findCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindCart(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return cart, nil
}

func validateItems(items []ItemInput) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		if _, dup := seen[item.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in cart items").
				WithDetails(map[string]any{"product_id": item.ProductID.String()})
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

func (s *service) checkProductsExist(ctx context.Context, items []ItemInput) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products for cart")
	}
	known := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown product in cart items").
				WithDetails(map[string]any{"product_id": id.String()})
		}
	}
	return nil
}

func toDTO(cart *models.Cart) *CartDTO {
	items := make([]CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemDTO{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		})
	}
	return &CartDTO{ID: cart.ID.String(), Items: items}
}
