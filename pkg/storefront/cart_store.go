package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arvellum/storefront/internal/pricing"
	"github.com/arvellum/storefront/pkg/logger"
)

// Fixed user-facing failure messages. Workflow failures surface one of these
// in the store; the originating technical error is logged only.
const (
	msgCreateCartFailed         = "Failed to create cart"
	msgUpdateCartFailed         = "Failed to update cart items"
	msgSubmitOrderFailed        = "Failed to submit order"
	msgCreateCartForOrderFailed = "Failed to create cart for order"
	msgNoCartIDForOrder         = "No cart ID available for order"
)

// Discount-code application outcomes, distinct so the UI can render each.
var (
	ErrDiscountCodeRequired = errors.New("Please enter a discount code")
	ErrInvalidDiscountCode  = errors.New("Invalid discount code")
)

// LineItem is one (product, quantity) pair in the local cart.
type LineItem struct {
	ProductID string
	Quantity  int
}

// Totals is the computed price breakdown for the current cart.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// CartStore holds the local cart state and drives its synchronization with
// the server. Reducer applications are atomic; interleaving between the
// network steps of a composite workflow is allowed, so workflows re-read the
// latest cart id immediately before each network call.
type CartStore struct {
	mu       sync.Mutex
	cartID   string
	items    []LineItem
	discount *Discount
	status   Status
	errMsg   string

	client *Client
	orders *OrdersStore
	logger *logger.Logger
}

// NewCartStore wires a cart store to its API client and the session orders
// store.
func NewCartStore(client *Client, orders *OrdersStore, logg *logger.Logger) (*CartStore, error) {
	if client == nil {
		return nil, errors.New("storefront client is required")
	}
	if orders == nil {
		return nil, errors.New("orders store is required")
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &CartStore{
		status: StatusIdle,
		client: client,
		orders: orders,
		logger: logg,
	}, nil
}

// AddLocal increments the quantity of the product's line item, or inserts a
// new line with quantity 1. Stock bounds are not checked here; callers gate
// on CanAdd.
func (s *CartStore) AddLocal(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, LineItem{ProductID: productID, Quantity: 1})
}

// Remove deletes the product's line item. No-op if absent.
func (s *CartStore) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the product's quantity to an explicit value. No-op if the
// product is absent; the value is not clamped.
func (s *CartStore) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// ApplyDiscount replaces the cart's discount unconditionally. Validation of
// user-entered codes happens in ApplyDiscountCode before this is reached.
func (s *CartStore) ApplyDiscount(d Discount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = &d
}

// ClearDiscount removes any applied discount.
func (s *CartStore) ClearDiscount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = nil
}

// Clear empties the items and discount but keeps the cart id, so the session
// reuses the same server cart after an order.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.discount = nil
}

// ApplyDiscountCode matches a user-entered code against the fetched discount
// set, exact and case-sensitive. Empty input and no-match are distinct
// user-visible errors; a match applies the discount.
func (s *CartStore) ApplyDiscountCode(code string, available []Discount) error {
	if code == "" {
		return ErrDiscountCodeRequired
	}
	for _, d := range available {
		if d.Code == code {
			s.ApplyDiscount(d)
			return nil
		}
	}
	return ErrInvalidDiscountCode
}

// CanAdd reports whether another unit of the product fits its stock: once the
// cart quantity reaches the stock, adds are disabled.
func (s *CartStore) CanAdd(product Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProductID == product.ID {
			return item.Quantity < product.Stock
		}
	}
	return product.Stock > 0
}

// CartID returns the server-assigned cart id, empty before the first create.
func (s *CartStore) CartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID
}

// Items returns a copy of the current line items in insertion order.
func (s *CartStore) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// AppliedDiscount returns the current discount, nil when none applies.
func (s *CartStore) AppliedDiscount() *Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discount == nil {
		return nil
	}
	d := *s.discount
	return &d
}

// Status reports the last workflow outcome.
func (s *CartStore) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ErrorMessage returns the user-facing failure text, empty when healthy.
func (s *CartStore) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ComputeTotals prices the cart against the catalog. Every cart line must
// resolve to a fetched product; the catalog load is expected to complete
// before items reference it.
func (s *CartStore) ComputeTotals(catalog *CatalogStore) (Totals, error) {
	items := s.Items()
	discount := s.AppliedDiscount()

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		product, ok := catalog.Product(item.ProductID)
		if !ok {
			return Totals{}, fmt.Errorf("product %s not in catalog", item.ProductID)
		}
		lines = append(lines, pricing.Line{
			UnitPrice: decimal.NewFromFloat(product.Price),
			Quantity:  item.Quantity,
		})
	}

	subtotal := pricing.Subtotal(lines)
	var priced *pricing.Discount
	if discount != nil {
		priced = &pricing.Discount{
			Type:   discount.Type,
			Amount: decimal.NewFromFloat(discount.Amount),
		}
	}
	discountAmount := pricing.DiscountAmount(subtotal, priced)

	return Totals{
		Subtotal: subtotal,
		Discount: discountAmount,
		Total:    pricing.Total(subtotal, discountAmount),
	}, nil
}

// CreateCart provisions a server cart and stores the assigned id.
func (s *CartStore) CreateCart(ctx context.Context) error {
	s.setLoading()

	id, err := s.client.CreateCart(ctx)
	if err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "create cart failed")
		s.setFailed(msgCreateCartFailed)
		return errors.New(msgCreateCartFailed)
	}

	s.mu.Lock()
	s.cartID = id
	s.status = StatusFulfilled
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// SyncItems pushes the current item list to the server cart, creating one
// first if no id exists yet. A not-found response means the server cart is
// gone; the workflow recovers once by creating a fresh cart and re-syncing.
// Any other failure is terminal.
func (s *CartStore) SyncItems(ctx context.Context) error {
	return s.syncItems(ctx, true)
}

func (s *CartStore) syncItems(ctx context.Context, allowRecreate bool) error {
	if s.CartID() == "" {
		if err := s.CreateCart(ctx); err != nil {
			return err
		}
	}

	s.setLoading()

	// Re-read the id right before the call: a concurrent create may have
	// replaced it since this workflow started.
	cartID := s.CartID()
	payload := s.itemsPayload()

	err := s.client.UpdateCartItems(ctx, cartID, payload)
	if err == nil {
		s.mu.Lock()
		s.status = StatusFulfilled
		s.errMsg = ""
		s.mu.Unlock()
		return nil
	}

	if IsNotFound(err) && allowRecreate {
		s.logger.Warn(s.logger.WithCartID(ctx, cartID), "server cart gone, recreating")
		if createErr := s.CreateCart(ctx); createErr != nil {
			return createErr
		}
		return s.syncItems(ctx, false)
	}

	s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "cart sync failed")
	s.setFailed(msgUpdateCartFailed)
	return errors.New(msgUpdateCartFailed)
}

// AddItem applies the local add immediately, then reconciles with the server.
// The optimistic mutation is not rolled back on failure; local and server
// state may diverge until the next successful sync.
func (s *CartStore) AddItem(ctx context.Context, product Product) error {
	s.AddLocal(product.ID)
	return s.SyncItems(ctx)
}

// SubmitOrder turns the server cart into an order. It ensures a synced server
// cart exists, submits with the applied discount code (empty when none),
// records the new order id, and clears the local items and discount while
// keeping the cart id.
func (s *CartStore) SubmitOrder(ctx context.Context) (string, error) {
	if s.CartID() == "" {
		if err := s.CreateCart(ctx); err != nil {
			s.setFailed(msgCreateCartForOrderFailed)
			return "", errors.New(msgCreateCartForOrderFailed)
		}
		if err := s.syncItems(ctx, false); err != nil {
			s.setFailed(msgSubmitOrderFailed)
			return "", errors.New(msgSubmitOrderFailed)
		}
	}

	cartID := s.CartID()
	if cartID == "" {
		s.setFailed(msgNoCartIDForOrder)
		return "", errors.New(msgNoCartIDForOrder)
	}

	s.setLoading()

	code := ""
	if d := s.AppliedDiscount(); d != nil {
		code = d.Code
	}

	orderID, err := s.client.SubmitOrder(ctx, cartID, code)
	if err != nil {
		s.logger.Warn(s.logger.WithCartID(s.logger.WithField(ctx, "error", err.Error()), cartID), "order submission failed")
		s.setFailed(msgSubmitOrderFailed)
		return "", errors.New(msgSubmitOrderFailed)
	}

	s.orders.Append(orderID)

	s.mu.Lock()
	s.items = nil
	s.discount = nil
	s.status = StatusFulfilled
	s.errMsg = ""
	s.mu.Unlock()

	s.logger.Info(s.logger.WithOrderID(ctx, orderID), "order submitted")
	return orderID, nil
}

func (s *CartStore) itemsPayload() []CartItemPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := make([]CartItemPayload, 0, len(s.items))
	for _, item := range s.items {
		payload = append(payload, CartItemPayload{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return payload
}

func (s *CartStore) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.errMsg = ""
}

func (s *CartStore) setFailed(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.errMsg = msg
}
