package products

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/handlers"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/middleware"
	productsvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/products"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// NewRouter assembles the product service HTTP surface.
func NewRouter(svc productsvc.Service, dbP db.Pinger, logg *logger.Logger, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Get("/health", handlers.Health(registry.ServiceProduct, dbP, logg))
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", CreateProduct(svc, logg))
		r.Get("/", ListProducts(svc, logg))
		r.Get("/featured", ListFeaturedProducts(svc, logg))
		r.Get("/search", SearchProducts(svc, logg))
		r.Get("/sku/{sku}", GetProductBySKU(svc, logg))
		r.Get("/category/{categoryId}", ListProductsByCategory(svc, logg))
		r.Get("/{productId}", GetProduct(svc, logg))
		r.Put("/{productId}", UpdateProduct(svc, logg))
		r.Patch("/{productId}/activate", ActivateProduct(svc, logg))
		r.Patch("/{productId}/deactivate", DeactivateProduct(svc, logg))
		r.Delete("/{productId}", DeleteProduct(svc, logg))
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/", CreateCategory(svc, logg))
		r.Get("/", ListCategories(svc, logg))
		r.Get("/slug/{slug}", GetCategoryBySlug(svc, logg))
		r.Get("/{categoryId}", GetCategory(svc, logg))
		r.Put("/{categoryId}", UpdateCategory(svc, logg))
		r.Delete("/{categoryId}", DeleteCategory(svc, logg))
	})

	return r
}
