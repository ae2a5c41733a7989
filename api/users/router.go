package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/handlers"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/middleware"
	usersvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/users"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// NewRouter assembles the user service HTTP surface.
func NewRouter(svc usersvc.Service, dbP db.Pinger, logg *logger.Logger, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Get("/health", handlers.Health(registry.ServiceUser, dbP, logg))
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", CreateUser(svc, logg))
		r.Get("/", ListUsers(svc, logg))
		r.Get("/email/{email}", GetUserByEmail(svc, logg))
		r.Get("/{userId}", GetUser(svc, logg))
		r.Put("/{userId}", UpdateUser(svc, logg))
		r.Patch("/{userId}/activate", ActivateUser(svc, logg))
		r.Patch("/{userId}/deactivate", DeactivateUser(svc, logg))
		r.Delete("/{userId}", DeleteUser(svc, logg))
	})

	return r
}
