package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/arvellum/storefront/pkg/db"
	"github.com/arvellum/storefront/pkg/db/models"
	"github.com/arvellum/storefront/pkg/migrate"
)

type fakeCache struct {
	store   map[string]string
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	if v, ok := c.store[key]; ok {
		return v, nil
	}
	return "", errors.New("cache miss")
}

func (c *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.setKeys = append(c.setKeys, key)
	switch v := value.(type) {
	case []byte:
		c.store[key] = string(v)
	case string:
		c.store[key] = v
	}
	return nil
}

func (c *fakeCache) CacheKey(name string) string {
	return "test:cache:" + name
}

func newTestDB(t *testing.T) *db.Client {
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
	return client
}

func seedProduct(t *testing.T, client *db.Client, name string, priceCents, stock int) models.Product {
	t.Helper()
	product := models.Product{ID: uuid.New(), Name: name, PriceCents: priceCents, Stock: stock}
	require.NoError(t, client.DB().Create(&product).Error)
	return product
}

func TestListProductsOrdersByName(t *testing.T) {
	client := newTestDB(t)
	seedProduct(t, client, "Wool Socks", 1999, 5)
	seedProduct(t, client, "Beanie", 1250, 3)

	svc, err := NewService(NewRepository(client.DB()), nil, 0, nil)
	require.NoError(t, err)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Beanie", products[0].Name)
	require.InDelta(t, 12.50, products[0].Price, 0.001)
	require.Equal(t, "Wool Socks", products[1].Name)
	require.InDelta(t, 19.99, products[1].Price, 0.001)
}

func TestListProductsPopulatesCache(t *testing.T) {
	client := newTestDB(t)
	seedProduct(t, client, "Wool Socks", 1999, 5)

	cache := newFakeCache()
	svc, err := NewService(NewRepository(client.DB()), cache, time.Minute, nil)
	require.NoError(t, err)

	_, err = svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Contains(t, cache.setKeys, "test:cache:products")
}

func TestListProductsServesFromCache(t *testing.T) {
	client := newTestDB(t)

	cached := []ProductDTO{{ID: uuid.NewString(), Name: "Cached Hat", Price: 9.99, Stock: 1}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	cache := newFakeCache()
	cache.store["test:cache:products"] = string(payload)

	// DB is empty; a result can only come from the cache.
	svc, err := NewService(NewRepository(client.DB()), cache, time.Minute, nil)
	require.NoError(t, err)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Cached Hat", products[0].Name)
}

func TestListProductsBypassesBrokenCache(t *testing.T) {
	client := newTestDB(t)
	seedProduct(t, client, "Wool Socks", 1999, 5)

	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	svc, err := NewService(NewRepository(client.DB()), cache, time.Minute, nil)
	require.NoError(t, err)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
}
