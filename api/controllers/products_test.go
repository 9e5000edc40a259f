package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	catalogsvc "github.com/arvellum/storefront/internal/catalog"
	discountsvc "github.com/arvellum/storefront/internal/discounts"
	"github.com/arvellum/storefront/pkg/db/models"
	"github.com/arvellum/storefront/pkg/enums"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
)

type stubCatalogService struct {
	listFn func(ctx context.Context) ([]catalogsvc.ProductDTO, error)
}

func (s *stubCatalogService) ListProducts(ctx context.Context) ([]catalogsvc.ProductDTO, error) {
	return s.listFn(ctx)
}

type stubDiscountService struct {
	listFn func(ctx context.Context) ([]discountsvc.DiscountDTO, error)
	findFn func(ctx context.Context, code string) (*models.Discount, error)
}

func (s *stubDiscountService) ListDiscounts(ctx context.Context) ([]discountsvc.DiscountDTO, error) {
	return s.listFn(ctx)
}

func (s *stubDiscountService) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	return s.findFn(ctx, code)
}

func TestListProductsReturnsBareArray(t *testing.T) {
	svc := &stubCatalogService{
		listFn: func(ctx context.Context) ([]catalogsvc.ProductDTO, error) {
			return []catalogsvc.ProductDTO{
				{ID: uuid.NewString(), Name: "Wool Socks", Price: 19.99, Stock: 5},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()

	ListProducts(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var products []catalogsvc.ProductDTO
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("expected a bare JSON array: %v", err)
	}
	if len(products) != 1 || products[0].Price != 19.99 {
		t.Fatalf("unexpected payload: %+v", products)
	}
}

func TestListProductsDependencyFailure(t *testing.T) {
	svc := &stubCatalogService{
		listFn: func(ctx context.Context) ([]catalogsvc.ProductDTO, error) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("connection refused"), "listing products")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()

	ListProducts(svc, nil)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if envelope.Error.Message == "connection refused" {
		t.Fatal("technical error leaked to the response body")
	}
}

func TestListDiscountsReturnsBareArray(t *testing.T) {
	svc := &stubDiscountService{
		listFn: func(ctx context.Context) ([]discountsvc.DiscountDTO, error) {
			return []discountsvc.DiscountDTO{
				{Code: "SAVE10", Type: enums.DiscountTypePercentage, Amount: 10},
				{Code: "FIVER", Type: enums.DiscountTypeFlat, Amount: 5},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/discounts", nil)
	rec := httptest.NewRecorder()

	ListDiscounts(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var discounts []discountsvc.DiscountDTO
	if err := json.NewDecoder(rec.Body).Decode(&discounts); err != nil {
		t.Fatalf("expected a bare JSON array: %v", err)
	}
	if len(discounts) != 2 || discounts[0].Code != "SAVE10" {
		t.Fatalf("unexpected payload: %+v", discounts)
	}
}
