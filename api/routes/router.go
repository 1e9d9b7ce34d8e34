package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshmartlabs/smartsupply-backend/api/controllers"
	"github.com/freshmartlabs/smartsupply-backend/api/middleware"
	"github.com/freshmartlabs/smartsupply-backend/internal/availability"
	"github.com/freshmartlabs/smartsupply-backend/internal/inventory"
	"github.com/freshmartlabs/smartsupply-backend/internal/managers"
	"github.com/freshmartlabs/smartsupply-backend/internal/orders"
	"github.com/freshmartlabs/smartsupply-backend/internal/sales"
	"github.com/freshmartlabs/smartsupply-backend/pkg/config"
	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	"github.com/freshmartlabs/smartsupply-backend/pkg/logger"
	"github.com/freshmartlabs/smartsupply-backend/pkg/metrics"
	pkgredis "github.com/freshmartlabs/smartsupply-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   *pkgredis.Client
	Metrics *metrics.HTTPMetrics

	Inventory    inventory.Service
	Sales        sales.Service
	Availability availability.Service
	Orders       orders.Service
	Managers     managers.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(deps.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, redisPinger(deps.Redis)))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		var store pkgredis.IdempotencyStore
		if deps.Redis != nil {
			store = deps.Redis
		}
		r.Use(middleware.Idempotency(store, deps.Logger))

		r.Route("/warehouse", func(r chi.Router) {
			r.Post("/products", controllers.WarehouseCreateProduct(deps.Inventory, deps.Logger))
			r.Put("/products/{productID}", controllers.WarehouseUpdateProduct(deps.Inventory, deps.Logger))
			r.Delete("/products/{productID}", controllers.WarehouseDeleteProduct(deps.Inventory, deps.Logger))
			r.Get("/availability", controllers.WarehouseAvailability(deps.Availability, deps.Logger))
			r.Get("/availability/{productID}", controllers.WarehouseProductAvailability(deps.Availability, deps.Logger))
		})

		r.Get("/store/{managerID}/availability", controllers.StoreAvailability(deps.Availability, deps.Logger))

		r.Route("/consumer", func(r chi.Router) {
			r.Get("/availability", controllers.ConsumerAvailability(deps.Availability, deps.Logger))
			r.Post("/orders", controllers.PlaceOrder(deps.Orders, deps.Logger))
		})

		r.Post("/marketplace/sales", controllers.RecordSale(deps.Sales, deps.Logger))
		r.Get("/marketplace/sales", controllers.GetSold(deps.Sales, deps.Logger))
		r.Get("/marketplace/sales/summary", controllers.SalesSummary(deps.Sales, deps.Logger))

		r.Post("/managers", controllers.CreateManager(deps.Managers, deps.Logger))
		r.Get("/managers", controllers.ListManagers(deps.Managers, deps.Logger))
	})

	return r
}

// redisPinger keeps a nil *Client from turning into a non-nil interface.
func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
