package payments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/handlers"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/middleware"
	paymentsvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/payments"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// NewRouter assembles the payment service HTTP surface.
func NewRouter(svc paymentsvc.Service, dbP db.Pinger, logg *logger.Logger, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Get("/health", handlers.Health(registry.ServicePayment, dbP, logg))
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/", CreatePayment(svc, logg))
		r.Get("/number/{paymentNumber}", GetPaymentByNumber(svc, logg))
		r.Get("/order/{orderId}", GetPaymentByOrder(svc, logg))
		r.Get("/user/{userId}", ListPaymentsByUser(svc, logg))
		r.Get("/status/{status}", ListPaymentsByStatus(svc, logg))
		r.Get("/{paymentId}", GetPayment(svc, logg))
		r.Post("/{paymentId}/process", ProcessPayment(svc, logg))
		r.Post("/{paymentId}/confirm-cod", ConfirmCOD(svc, logg))
		r.Get("/{paymentId}/transactions", GetPaymentTransactions(svc, logg))
		r.Get("/{paymentId}/refunds", ListRefundsByPayment(svc, logg))
		r.Delete("/{paymentId}", DeletePayment(svc, logg))
	})

	r.Route("/api/refunds", func(r chi.Router) {
		r.Post("/", CreateRefund(svc, logg))
		r.Get("/number/{refundNumber}", GetRefundByNumber(svc, logg))
		r.Get("/order/{orderId}", ListRefundsByOrder(svc, logg))
		r.Get("/status/{status}", ListRefundsByStatus(svc, logg))
		r.Get("/{refundId}", GetRefund(svc, logg))
		r.Post("/{refundId}/process", ProcessRefund(svc, logg))
		r.Post("/{refundId}/cancel", CancelRefund(svc, logg))
	})

	return r
}
