package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/arvellum/storefront/internal/carts"
	"github.com/arvellum/storefront/internal/catalog"
	"github.com/arvellum/storefront/internal/discounts"
	"github.com/arvellum/storefront/pkg/db"
	"github.com/arvellum/storefront/pkg/db/models"
	"github.com/arvellum/storefront/pkg/enums"
	pkgerrors "github.com/arvellum/storefront/pkg/errors"
	"github.com/arvellum/storefront/pkg/migrate"
)

type fixture struct {
	client *db.Client
	svc    Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	client := db.NewFromConn(conn)
	require.NoError(t, migrate.AutoMigrate(client))
	t.Cleanup(func() { _ = client.Close() })

	discountSvc, err := discounts.NewService(discounts.NewRepository(client.DB()), nil, 0, nil)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(client.DB()),
		Tx:        client,
		Carts:     carts.NewRepository(client.DB()),
		Products:  catalog.NewRepository(client.DB()),
		Discounts: discountSvc,
	})
	require.NoError(t, err)

	return &fixture{client: client, svc: svc}
}

func (f *fixture) seedProduct(t *testing.T, name string, priceCents, stock int) models.Product {
	t.Helper()
	product := models.Product{ID: uuid.New(), Name: name, PriceCents: priceCents, Stock: stock}
	require.NoError(t, f.client.DB().Create(&product).Error)
	return product
}

func (f *fixture) seedCart(t *testing.T, items ...models.CartItem) models.Cart {
	t.Helper()
	cart := models.Cart{ID: uuid.New()}
	require.NoError(t, f.client.DB().Create(&cart).Error)
	for i := range items {
		items[i].ID = uuid.New()
		items[i].CartID = cart.ID
		items[i].Position = i
		require.NoError(t, f.client.DB().Create(&items[i]).Error)
	}
	return cart
}

func (f *fixture) seedDiscount(t *testing.T, code string, kind enums.DiscountType, amount string) {
	t.Helper()
	discount := models.Discount{
		Code:   code,
		Type:   kind,
		Amount: decimal.RequireFromString(amount),
	}
	require.NoError(t, f.client.DB().Create(&discount).Error)
}

func TestSubmitWithPercentageDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Wool Socks", 1999, 10)
	cart := f.seedCart(t, models.CartItem{ProductID: product.ID, Quantity: 2})
	f.seedDiscount(t, "SAVE10", enums.DiscountTypePercentage, "10")

	order, err := f.svc.Submit(ctx, SubmitInput{CartID: cart.ID, DiscountCode: "SAVE10"})
	require.NoError(t, err)

	require.Equal(t, 3998, order.SubtotalCents)
	require.Equal(t, 400, order.DiscountCents)
	require.Equal(t, 3598, order.TotalCents)
	require.NotNil(t, order.DiscountCode)
	require.Equal(t, "SAVE10", *order.DiscountCode)
	require.Len(t, order.LineItems, 1)
	require.Equal(t, 1999, order.LineItems[0].UnitPriceCents)

	// The cart row survives checkout with its items cleared.
	var kept models.Cart
	require.NoError(t, f.client.DB().Preload("Items").First(&kept, "id = ?", cart.ID).Error)
	require.Empty(t, kept.Items)
}

func TestSubmitWithFlatDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Wool Socks", 1999, 10)
	cart := f.seedCart(t, models.CartItem{ProductID: product.ID, Quantity: 2})
	f.seedDiscount(t, "FIVER", enums.DiscountTypeFlat, "5")

	order, err := f.svc.Submit(ctx, SubmitInput{CartID: cart.ID, DiscountCode: "FIVER"})
	require.NoError(t, err)

	require.Equal(t, 3998, order.SubtotalCents)
	require.Equal(t, 500, order.DiscountCents)
	require.Equal(t, 3498, order.TotalCents)
}

func TestSubmitWithoutDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Wool Socks", 1999, 10)
	cart := f.seedCart(t, models.CartItem{ProductID: product.ID, Quantity: 1})

	order, err := f.svc.Submit(ctx, SubmitInput{CartID: cart.ID})
	require.NoError(t, err)

	require.Equal(t, 1999, order.TotalCents)
	require.Zero(t, order.DiscountCents)
	require.Nil(t, order.DiscountCode)
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)
	cart := f.seedCart(t)

	_, err := f.svc.Submit(context.Background(), SubmitInput{CartID: cart.ID})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, "cart is empty", typed.Message())
}

func TestSubmitMissingCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitInput{CartID: uuid.New()})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestSubmitInvalidDiscountCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Wool Socks", 1999, 10)
	cart := f.seedCart(t, models.CartItem{ProductID: product.ID, Quantity: 1})

	_, err := f.svc.Submit(ctx, SubmitInput{CartID: cart.ID, DiscountCode: "XXXX"})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, "invalid discount code", typed.Message())
}

func TestGetOrderSnapshotWinsOverCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Wool Socks", 1999, 10)
	cart := f.seedCart(t, models.CartItem{ProductID: product.ID, Quantity: 2})

	order, err := f.svc.Submit(ctx, SubmitInput{CartID: cart.ID})
	require.NoError(t, err)

	// A later price change must not alter what the order charged.
	require.NoError(t, f.client.DB().Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price_cents", 2999).Error)

	dto, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	require.InDelta(t, 19.99, dto.Items[0].Product.Price, 0.001)
	require.InDelta(t, 39.98, dto.Total, 0.001)
	require.Equal(t, "Wool Socks", dto.Items[0].Product.Name)
}

func TestGetMissingOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), uuid.New())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
