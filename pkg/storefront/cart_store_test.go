package storefront

import (
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arvellum/storefront/pkg/enums"
	"github.com/arvellum/storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func newLocalCartStore(t *testing.T) *CartStore {
	t.Helper()
	client := &Client{baseURL: "http://localhost", logger: testLogger()}
	store, err := NewCartStore(client, NewOrdersStore(), testLogger())
	if err != nil {
		t.Fatalf("building cart store: %v", err)
	}
	return store
}

func TestAddLocalMergesDuplicateProducts(t *testing.T) {
	store := newLocalCartStore(t)

	store.AddLocal("sku-1")
	store.AddLocal("sku-1")

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line item, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddLocalPreservesInsertionOrder(t *testing.T) {
	store := newLocalCartStore(t)

	store.AddLocal("sku-b")
	store.AddLocal("sku-a")
	store.AddLocal("sku-b")

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("expected two line items, got %d", len(items))
	}
	if items[0].ProductID != "sku-b" || items[1].ProductID != "sku-a" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestRemoveMissingProductIsNoop(t *testing.T) {
	store := newLocalCartStore(t)
	store.AddLocal("sku-1")

	store.Remove("sku-2")

	if items := store.Items(); len(items) != 1 {
		t.Fatalf("expected items unchanged, got %+v", items)
	}
}

func TestSetQuantityMissingProductIsNoop(t *testing.T) {
	store := newLocalCartStore(t)

	store.SetQuantity("sku-1", 5)

	if items := store.Items(); len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestSetQuantityDoesNotClamp(t *testing.T) {
	store := newLocalCartStore(t)
	store.AddLocal("sku-1")

	store.SetQuantity("sku-1", 999)

	if items := store.Items(); items[0].Quantity != 999 {
		t.Fatalf("expected quantity 999, got %d", items[0].Quantity)
	}
}

func TestApplyThenClearDiscount(t *testing.T) {
	store := newLocalCartStore(t)
	store.AddLocal("sku-1")

	store.ApplyDiscount(Discount{Code: "SAVE10", Type: enums.DiscountTypePercentage, Amount: 10})
	if store.AppliedDiscount() == nil {
		t.Fatal("expected discount applied")
	}

	store.ClearDiscount()
	if store.AppliedDiscount() != nil {
		t.Fatal("expected discount cleared")
	}
	if items := store.Items(); len(items) != 1 {
		t.Fatalf("items should be unaffected, got %+v", items)
	}
}

func TestClearKeepsCartID(t *testing.T) {
	store := newLocalCartStore(t)
	store.cartID = "cart-123"
	store.AddLocal("sku-1")
	store.ApplyDiscount(Discount{Code: "FIVER", Type: enums.DiscountTypeFlat, Amount: 5})

	store.Clear()

	if store.CartID() != "cart-123" {
		t.Fatalf("expected cart id retained, got %q", store.CartID())
	}
	if len(store.Items()) != 0 {
		t.Fatal("expected items cleared")
	}
	if store.AppliedDiscount() != nil {
		t.Fatal("expected discount cleared")
	}
}

func TestApplyDiscountCode(t *testing.T) {
	available := []Discount{
		{Code: "SAVE10", Type: enums.DiscountTypePercentage, Amount: 10},
	}

	t.Run("empty input", func(t *testing.T) {
		store := newLocalCartStore(t)
		if err := store.ApplyDiscountCode("", available); !errors.Is(err, ErrDiscountCodeRequired) {
			t.Fatalf("expected ErrDiscountCodeRequired, got %v", err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		store := newLocalCartStore(t)
		if err := store.ApplyDiscountCode("XXXX", available); !errors.Is(err, ErrInvalidDiscountCode) {
			t.Fatalf("expected ErrInvalidDiscountCode, got %v", err)
		}
		if store.AppliedDiscount() != nil {
			t.Fatal("discount must stay empty on invalid code")
		}
	})

	t.Run("case sensitive", func(t *testing.T) {
		store := newLocalCartStore(t)
		if err := store.ApplyDiscountCode("save10", available); !errors.Is(err, ErrInvalidDiscountCode) {
			t.Fatalf("expected case-sensitive mismatch, got %v", err)
		}
	})

	t.Run("match applies", func(t *testing.T) {
		store := newLocalCartStore(t)
		if err := store.ApplyDiscountCode("SAVE10", available); err != nil {
			t.Fatalf("expected match, got %v", err)
		}
		if d := store.AppliedDiscount(); d == nil || d.Code != "SAVE10" {
			t.Fatalf("expected SAVE10 applied, got %+v", d)
		}
	})
}

func TestCanAddStopsAtStock(t *testing.T) {
	store := newLocalCartStore(t)
	product := Product{ID: "sku-1", Name: "Wool Socks", Price: 19.99, Stock: 2}

	if !store.CanAdd(product) {
		t.Fatal("expected add allowed on empty cart")
	}
	store.AddLocal(product.ID)
	if !store.CanAdd(product) {
		t.Fatal("expected add allowed below stock")
	}
	store.AddLocal(product.ID)
	if store.CanAdd(product) {
		t.Fatal("expected add disabled at quantity == stock")
	}
}

func TestCanAddZeroStock(t *testing.T) {
	store := newLocalCartStore(t)
	if store.CanAdd(Product{ID: "sku-1", Stock: 0}) {
		t.Fatal("expected add disabled for zero stock")
	}
}

func TestComputeTotals(t *testing.T) {
	catalog := NewCatalogStore()
	catalog.products["sku-1"] = Product{ID: "sku-1", Name: "Wool Socks", Price: 19.99, Stock: 10}
	catalog.order = []string{"sku-1"}

	store := newLocalCartStore(t)
	store.AddLocal("sku-1")
	store.AddLocal("sku-1")

	totals, err := store.ComputeTotals(catalog)
	if err != nil {
		t.Fatalf("computing totals: %v", err)
	}
	if want := decimal.RequireFromString("39.98"); !totals.Subtotal.Equal(want) {
		t.Fatalf("expected subtotal 39.98, got %s", totals.Subtotal)
	}

	store.ApplyDiscount(Discount{Code: "SAVE10", Type: enums.DiscountTypePercentage, Amount: 10})
	totals, err = store.ComputeTotals(catalog)
	if err != nil {
		t.Fatalf("computing totals: %v", err)
	}
	if want := decimal.RequireFromString("4.00"); !totals.Discount.Equal(want) {
		t.Fatalf("expected discount 4.00, got %s", totals.Discount)
	}
	if want := decimal.RequireFromString("35.98"); !totals.Total.Equal(want) {
		t.Fatalf("expected total 35.98, got %s", totals.Total)
	}

	store.ApplyDiscount(Discount{Code: "FIVER", Type: enums.DiscountTypeFlat, Amount: 5})
	totals, err = store.ComputeTotals(catalog)
	if err != nil {
		t.Fatalf("computing totals: %v", err)
	}
	if want := decimal.RequireFromString("34.98"); !totals.Total.Equal(want) {
		t.Fatalf("expected total 34.98, got %s", totals.Total)
	}
}

func TestComputeTotalsUnknownProduct(t *testing.T) {
	store := newLocalCartStore(t)
	store.AddLocal("sku-missing")

	if _, err := store.ComputeTotals(NewCatalogStore()); err == nil {
		t.Fatal("expected error for product missing from catalog")
	}
}
