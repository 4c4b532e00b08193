package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/potionshop-backend/api/controllers"
	"github.com/angelmondragon/potionshop-backend/api/middleware"
	"github.com/angelmondragon/potionshop-backend/internal/cart"
	"github.com/angelmondragon/potionshop-backend/internal/catalog"
	"github.com/angelmondragon/potionshop-backend/internal/checkout"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
	"github.com/angelmondragon/potionshop-backend/pkg/redis"
)

// Services bundles the domain services the router dispatches to.
type Services struct {
	Inventory inventory.Service
	Cart      cart.Service
	Checkout  checkout.Service
	Catalog   catalog.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	shopMetrics *metrics.ShopMetrics,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Auth.Header),
	)
	if shopMetrics != nil {
		r.Use(middleware.Metrics(shopMetrics))
	}

	readyDeps := map[string]controllers.Pinger{}
	if dbP != nil {
		readyDeps["db"] = dbP
	}
	if redisClient != nil {
		readyDeps["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	r.Get("/catalog", controllers.Catalog(svc.Catalog, logg))
	r.Get("/catalog/", controllers.Catalog(svc.Catalog, logg))

	cartLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("carts", cfg.RateLimit.CartWindow, cfg.RateLimit.CartLimit),
		rateLimitStore(redisClient),
		logg,
	)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.Auth.APIKey, cfg.Auth.Header, logg))

		r.Route("/barrels", func(r chi.Router) {
			r.Post("/deliver/{order_id}", controllers.BarrelsDeliver(svc.Inventory, logg))
			r.Get("/plan", controllers.BarrelsPlan(svc.Inventory, logg))
			r.Post("/plan", controllers.BarrelsPlan(svc.Inventory, logg))
		})

		r.Route("/bottler", func(r chi.Router) {
			r.Post("/deliver/{order_id}", controllers.BottlerDeliver(svc.Inventory, logg))
			r.Post("/plan", controllers.BottlerPlan(svc.Inventory, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Use(cartLimit)
			r.Post("/", controllers.CartCreate(svc.Cart, logg))
			r.Get("/search", controllers.CartSearch(svc.Cart, logg))
			r.Get("/search/", controllers.CartSearch(svc.Cart, logg))
			r.Post("/visits/{visit_id}", controllers.CartVisits(svc.Cart, logg))
			r.Get("/{cart_id}", controllers.CartGet(svc.Cart, logg))
			r.Post("/{cart_id}/items/{sku}", controllers.CartSetItem(svc.Cart, logg))
			r.Post("/{cart_id}/checkout", controllers.CartCheckout(svc.Checkout, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/audit", controllers.InventoryAudit(svc.Inventory, logg))
			r.Post("/plan", controllers.InventoryPlan(svc.Inventory, logg))
			r.Post("/deliver/{order_id}", controllers.InventoryDeliver(svc.Inventory, logg))
			r.Get("/reconcile", controllers.InventoryReconcile(svc.Inventory, logg))
			r.Get("/ledger/{order_id}", controllers.InventoryOrderLedger(svc.Inventory, logg))
		})

		r.Post("/admin/reset", controllers.AdminReset(svc.Inventory, logg))
	})

	return r
}

// rateLimitStore keeps a nil client from becoming a non-nil interface.
func rateLimitStore(client *redis.Client) middleware.RateLimiterStore {
	if client == nil {
		return nil
	}
	return client
}
