package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arvellum/storefront/internal/pricing"
	"github.com/arvellum/storefront/pkg/db/models"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/arvellum/storefront/pkg/logger"
	"github.com/arvellum/storefront/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitInput is the validated payload for an order submission.
type SubmitInput struct {
	CartID       uuid.UUID
	DiscountCode string
}

// Service turns carts into order snapshots and serves order detail reads.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartAccess interface {
	FindCart(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	ClearItems(tx *gorm.DB, cartID uuid.UUID) error
}

type productReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type discountResolver interface {
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
}

type service struct {
	repo      *Repository
	tx        txRunner
	carts     cartAccess
	products  productReader
	discounts discountResolver
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
}

// ServiceParams bundle the order service dependencies.
type ServiceParams struct {
	Repo      *Repository
	Tx        txRunner
	Carts     cartAccess
	Products  productReader
	Discounts discountResolver
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
}

// NewService constructs the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if params.Discounts == nil {
		return nil, fmt.Errorf("discount resolver required")
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		carts:     params.Carts,
		products:  params.Products,
		discounts: params.Discounts,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// Submit snapshots the cart into an order, computes the discounted total, and
// clears the cart's items. The cart row itself survives so clients can keep
// reusing their cart id after checkout.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	cart, err := s.carts.FindCart(ctx, input.CartID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	discount, err := s.resolveDiscount(ctx, input.DiscountCode)
	if err != nil {
		return nil, err
	}

	productsByID, err := s.loadProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(cart.Items))
	lineItems := make([]models.OrderLineItem, 0, len(cart.Items))
	orderID := uuid.New()
	for i, item := range cart.Items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references unknown product").
				WithDetails(map[string]any{"product_id": item.ProductID.String()})
		}
		lines = append(lines, pricing.Line{
			UnitPrice: pricing.FromCents(product.PriceCents),
			Quantity:  item.Quantity,
		})
		lineItems = append(lineItems, models.OrderLineItem{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
			Position:       i,
		})
	}

	subtotal := pricing.Subtotal(lines)
	discountAmount := pricing.DiscountAmount(subtotal, discount)
	total := pricing.Total(subtotal, discountAmount)

	order := &models.Order{
		ID:            orderID,
		CartID:        cart.ID,
		SubtotalCents: pricing.ToCents(subtotal),
		DiscountCents: pricing.ToCents(discountAmount),
		TotalCents:    pricing.ToCents(total),
		LineItems:     lineItems,
	}
	if code := strings.TrimSpace(input.DiscountCode); code != "" {
		order.DiscountCode = &code
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.carts.ClearItems(tx, cart.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting order")
	}

	s.metrics.IncCreated(discount != nil)
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Info(ctx, "order created")
	}
	return order, nil
}

func (s *service) resolveDiscount(ctx context.Context, code string) (*pricing.Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	discount, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount code")
		}
		return nil, err
	}
	return &pricing.Discount{Type: discount.Type, Amount: discount.Amount}, nil
}

func (s *service) loadProducts(ctx context.Context, items []models.CartItem) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products for order")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// Get serves the order detail view.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return toOrderDTO(order), nil
}
