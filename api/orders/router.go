package orders

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/handlers"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/middleware"
	ordersvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/orders"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// NewRouter assembles the order service HTTP surface.
func NewRouter(svc ordersvc.Service, dbP db.Pinger, logg *logger.Logger, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Get("/health", handlers.Health(registry.ServiceOrder, dbP, logg))
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", CreateOrder(svc, logg))
		r.Get("/", ListOrders(svc, logg))
		r.Get("/number/{orderNumber}", GetOrderByNumber(svc, logg))
		r.Get("/{orderId}", GetOrder(svc, logg))
		r.Patch("/{orderId}/status", UpdateOrderStatus(svc, logg))
		r.Post("/{orderId}/cancel", CancelOrder(svc, logg))
		r.Get("/{orderId}/history", GetOrderHistory(svc, logg))
		r.Delete("/{orderId}", DeleteOrder(svc, logg))
	})

	return r
}
