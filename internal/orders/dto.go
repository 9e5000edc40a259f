package orders

import (
	"github.com/arvellum/storefront/internal/pricing"
	"github.com/arvellum/storefront/pkg/db/models"
)

// OrderProductDTO is the product snapshot embedded in an order detail line.
type OrderProductDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// OrderItemDTO is one line of the order detail view.
type OrderItemDTO struct {
	Quantity int             `json:"quantity"`
	Product  OrderProductDTO `json:"product"`
}

// OrderDTO is the wire shape of GET /orders/{orderId}.
type OrderDTO struct {
	ID    string         `json:"id"`
	Items []OrderItemDTO `json:"items"`
	Total float64        `json:"total"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		product := OrderProductDTO{ID: line.ProductID.String()}
		// The line snapshot price wins over the current catalog row.
		product.Price = pricing.FromCents(line.UnitPriceCents).InexactFloat64()
		if line.Product != nil {
			product.Name = line.Product.Name
			product.Stock = line.Product.Stock
		}
		items = append(items, OrderItemDTO{Quantity: line.Quantity, Product: product})
	}
	return &OrderDTO{
		ID:    order.ID.String(),
		Items: items,
		Total: pricing.FromCents(order.TotalCents).InexactFloat64(),
	}
}
