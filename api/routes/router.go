package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arvellum/storefront/api/controllers"
	"github.com/arvellum/storefront/api/middleware"
	"github.com/arvellum/storefront/internal/carts"
	"github.com/arvellum/storefront/internal/catalog"
	"github.com/arvellum/storefront/internal/discounts"
	"github.com/arvellum/storefront/internal/orders"
	"github.com/arvellum/storefront/pkg/config"
	"github.com/arvellum/storefront/pkg/db"
	"github.com/arvellum/storefront/pkg/logger"
	"github.com/arvellum/storefront/pkg/metrics"
	"github.com/arvellum/storefront/pkg/redis"
)

// Deps carries everything the router needs. Redis and Registry may be nil.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     redis.Pinger
	Catalog   catalog.Service
	Discounts discounts.Service
	Carts     carts.Service
	Orders    orders.Service
	HTTP      *metrics.HTTPMetrics
	Registry  *prometheus.Registry
}

// New assembles the storefront HTTP surface.
func New(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	if deps.HTTP != nil {
		r.Use(middleware.Metrics(deps.HTTP))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health/live", controllers.HealthLive(deps.Config))
	r.Get("/health/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/products", controllers.ListProducts(deps.Catalog, deps.Logger))
	r.Get("/discounts", controllers.ListDiscounts(deps.Discounts, deps.Logger))

	r.Route("/carts", func(r chi.Router) {
		r.Post("/", controllers.CreateCart(deps.Carts, deps.Logger))
		r.Route("/{cartId}", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Carts, deps.Logger))
			r.Put("/", controllers.UpdateCart(deps.Carts, deps.Logger))
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", controllers.SubmitOrder(deps.Orders, deps.Logger))
		r.Get("/{orderId}", controllers.GetOrder(deps.Orders, deps.Logger))
	})

	return r
}
