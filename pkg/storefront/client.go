package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arvellum/storefront/pkg/config"
	"github.com/arvellum/storefront/pkg/enums"
	"github.com/arvellum/storefront/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("storefront base url is required")
	errLoggerRequired  = errors.New("storefront logger is required")
)

// Product is the catalog wire shape.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Discount is the discount wire shape.
type Discount struct {
	Code   string             `json:"code"`
	Type   enums.DiscountType `json:"type"`
	Amount float64            `json:"amount"`
}

// CartItemPayload is one line of the cart replace request.
type CartItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartView is the server's cart representation.
type CartView struct {
	ID    string            `json:"id"`
	Items []CartItemPayload `json:"items"`
}

// OrderProductView is the product snapshot inside an order line.
type OrderProductView struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// OrderItemView is one line of the order detail view.
type OrderItemView struct {
	Quantity int              `json:"quantity"`
	Product  OrderProductView `json:"product"`
}

// OrderView is the order detail wire shape.
type OrderView struct {
	ID    string          `json:"id"`
	Items []OrderItemView `json:"items"`
	Total float64         `json:"total"`
}

// APIError carries the HTTP status of a failed call so callers can branch on
// it without string-matching.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with a 404 status. The cart
// sync workflow uses this to trigger its single recreate-and-retry fallback.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is the REST client the stores synchronize through.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the configuration and builds the API client.
func NewClient(cfg config.ClientConfig, logg *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}, nil
}

// FetchProducts loads the full catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchDiscounts loads the full valid discount set.
func (c *Client) FetchDiscounts(ctx context.Context) ([]Discount, error) {
	var discounts []Discount
	if err := c.getJSON(ctx, "/discounts", &discounts); err != nil {
		return nil, err
	}
	return discounts, nil
}

// CreateCart provisions a server-side cart and returns its id, taken from the
// final path segment of the response Location header.
func (c *Client) CreateCart(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/carts", nil)
	if err != nil {
		return "", err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusCreated {
		return "", c.asAPIError(resp)
	}
	return idFromLocation(resp.Header.Get("Location"))
}

// UpdateCartItems replaces the server cart's item list.
func (c *Client) UpdateCartItems(ctx context.Context, cartID string, items []CartItemPayload) error {
	if items == nil {
		items = []CartItemPayload{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart items: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, "/carts/"+cartID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return c.asAPIError(resp)
	}
	return nil
}

// FetchCart loads the server cart representation.
func (c *Client) FetchCart(ctx context.Context, cartID string) (*CartView, error) {
	var cart CartView
	if err := c.getJSON(ctx, "/carts/"+cartID, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// SubmitOrder converts a server cart into an order and returns the new order
// id from the Location header. discountCode is empty when no discount applies.
func (c *Client) SubmitOrder(ctx context.Context, cartID, discountCode string) (string, error) {
	payload := map[string]string{
		"cart_id":       cartID,
		"discount_code": discountCode,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding order request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusCreated {
		return "", c.asAPIError(resp)
	}
	return idFromLocation(resp.Header.Get("Location"))
}

// FetchOrder loads one order's detail view.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*OrderView, error) {
	var order OrderView
	if err := c.getJSON(ctx, "/orders/"+orderID, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return c.asAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) asAPIError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	// Best effort; the status code alone is enough to classify the failure.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope)
	return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error.Message}
}

func idFromLocation(location string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(location), "/")
	if trimmed == "" {
		return "", errors.New("response location header missing")
	}
	segments := strings.Split(trimmed, "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", fmt.Errorf("no id in location %q", location)
	}
	return id, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
