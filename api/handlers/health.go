package handlers

import (
	"net/http"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/responses"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

// Health reports liveness for one service. The gateway fans out to this
// endpoint on every peer, so the payload always names the service.
func Health(serviceName string, dbP db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				logg.Error(r.Context(), "health check database ping failed", err)
				status = "DOWN"
				httpStatus = http.StatusServiceUnavailable
			}
		}
		responses.WriteSuccessStatus(w, httpStatus, map[string]string{
			"service": serviceName,
			"status":  status,
		})
	}
}
