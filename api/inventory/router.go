package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/handlers"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/middleware"
	inventorysvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/inventory"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// NewRouter assembles the inventory service HTTP surface.
func NewRouter(svc inventorysvc.Service, dbP db.Pinger, logg *logger.Logger, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Get("/health", handlers.Health(registry.ServiceInventory, dbP, logg))
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/inventory", func(r chi.Router) {
		r.Post("/", CreateInventory(svc, logg))
		r.Get("/", ListInventory(svc, logg))
		r.Get("/low-stock", ListLowStock(svc, logg))
		r.Get("/out-of-stock", ListOutOfStock(svc, logg))
		r.Get("/search", SearchInventory(svc, logg))
		r.Get("/availability", CheckAvailability(svc, logg))
		r.Get("/movements", ListMovements(svc, logg))
		r.Get("/product/{productId}", GetInventoryByProduct(svc, logg))
		r.Get("/sku/{sku}", GetInventoryBySKU(svc, logg))
		r.Get("/warehouse/{warehouseId}", ListInventoryByWarehouse(svc, logg))
		r.Post("/reserve", ReserveStock(svc, logg))
		r.Post("/release", ReleaseStock(svc, logg))
		r.Post("/confirm", ConfirmStock(svc, logg))
		r.Get("/{inventoryId}", GetInventory(svc, logg))
		r.Put("/{inventoryId}", UpdateInventory(svc, logg))
		r.Delete("/{inventoryId}", DeleteInventory(svc, logg))
		r.Post("/{inventoryId}/add-stock", AddStock(svc, logg))
		r.Post("/{inventoryId}/remove-stock", RemoveStock(svc, logg))
	})

	r.Route("/api/warehouses", func(r chi.Router) {
		r.Post("/", CreateWarehouse(svc, logg))
		r.Get("/", ListWarehouses(svc, logg))
		r.Get("/code/{code}", GetWarehouseByCode(svc, logg))
		r.Get("/{warehouseId}", GetWarehouse(svc, logg))
		r.Put("/{warehouseId}", UpdateWarehouse(svc, logg))
		r.Delete("/{warehouseId}", DeleteWarehouse(svc, logg))
	})

	return r
}
