package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/middleware"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/responses"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// routeTable maps public path prefixes to the logical service that owns them.
var routeTable = map[string]string{
	"/api/users":      registry.ServiceUser,
	"/api/products":   registry.ServiceProduct,
	"/api/categories": registry.ServiceProduct,
	"/api/inventory":  registry.ServiceInventory,
	"/api/warehouses": registry.ServiceInventory,
	"/api/orders":     registry.ServiceOrder,
	"/api/payments":   registry.ServicePayment,
	"/api/refunds":    registry.ServicePayment,
}

// upstreamServices lists the peers the health fan-out probes.
var upstreamServices = []string{
	registry.ServiceUser,
	registry.ServiceProduct,
	registry.ServiceInventory,
	registry.ServiceOrder,
	registry.ServicePayment,
}

// NewRouter assembles the API gateway. Every /api prefix is reverse-proxied
// to the owning service, resolved through the registry per request so
// re-registrations take effect without a restart.
func NewRouter(resolver registry.Resolver, logg *logger.Logger, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Get("/health", selfHealth())
	r.Get("/health/services", fanOutHealth(resolver, logg))
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	for prefix, service := range routeTable {
		handler := proxyTo(resolver, service, logg)
		r.Handle(prefix, handler)
		r.Handle(prefix+"/*", handler)
	}

	return r
}

func selfHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"service": registry.ServiceGateway,
			"status":  "UP",
		})
	}
}

// proxyTo forwards the request to the owning service, preserving the path
// and query. Upstream failures surface as a dependency error envelope so
// gateway clients always receive JSON.
func proxyTo(resolver registry.Resolver, service string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base, err := resolver.Resolve(r.Context(), service)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, service+" unavailable"))
			return
		}
		target, err := url.Parse(base)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalid upstream address for "+service))
			return
		}
		proxy := &httputil.ReverseProxy{
			Rewrite: func(pr *httputil.ProxyRequest) {
				pr.SetURL(target)
				pr.SetXForwarded()
			},
			ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
				logg.Error(r.Context(), "upstream request failed", err)
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, service+" unavailable"))
			},
		}
		proxy.ServeHTTP(w, r)
	}
}

// fanOutHealth probes every upstream's /health concurrently and reports an
// aggregate. The gateway itself stays UP even when peers are down; the
// response status reflects the worst upstream.
func fanOutHealth(resolver registry.Resolver, logg *logger.Logger) http.HandlerFunc {
	client := &http.Client{Timeout: 3 * time.Second}
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := make(map[string]string, len(upstreamServices))
		var mu sync.Mutex
		var wg sync.WaitGroup

		for _, service := range upstreamServices {
			wg.Add(1)
			go func(service string) {
				defer wg.Done()
				status := probe(r, client, resolver, service)
				mu.Lock()
				statuses[service] = status
				mu.Unlock()
			}(service)
		}
		wg.Wait()

		httpStatus := http.StatusOK
		for _, status := range statuses {
			if status != "UP" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"gateway":  "UP",
			"services": statuses,
		})
	}
}

func probe(r *http.Request, client *http.Client, resolver registry.Resolver, service string) string {
	base, err := resolver.Resolve(r.Context(), service)
	if err != nil {
		return "UNKNOWN"
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, base+"/health", nil)
	if err != nil {
		return "UNKNOWN"
	}
	resp, err := client.Do(req)
	if err != nil {
		return "DOWN"
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "DOWN"
	}
	return "UP"
}
