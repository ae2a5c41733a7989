package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

type staticResolver struct {
	addrs map[string]string
}

func (s *staticResolver) Resolve(_ context.Context, serviceName string) (string, error) {
	if addr, ok := s.addrs[serviceName]; ok {
		return addr, nil
	}
	return "", assert.AnError
}

func newTestGateway(t *testing.T, addrs map[string]string) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "api-gateway-test", Output: io.Discard})
	return NewRouter(&staticResolver{addrs: addrs}, logg, metrics.NewHTTPMetrics(nil), nil)
}

func TestGatewayProxiesPathAndQuery(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/search", r.URL.Path)
		assert.Equal(t, "widget", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	gw := newTestGateway(t, map[string]string{registry.ServiceProduct: upstream.URL})

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/search?q=widget", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestGatewayReturnsJSONWhenUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	gw := newTestGateway(t, map[string]string{registry.ServiceOrder: upstream.URL})

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "DEPENDENCY_ERROR", envelope.Error.Code)
}

func TestGatewayRejectsUnresolvedService(t *testing.T) {
	gw := newTestGateway(t, map[string]string{})

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/1", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGatewaySelfHealth(t *testing.T) {
	gw := newTestGateway(t, map[string]string{})

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "api-gateway")
}

func TestGatewayHealthFanOut(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	addrs := map[string]string{
		registry.ServiceUser:      up.URL,
		registry.ServiceProduct:   up.URL,
		registry.ServiceInventory: up.URL,
		registry.ServiceOrder:     up.URL,
	}
	gw := newTestGateway(t, addrs)

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/services", nil))

	// payment-service has no registration, so the aggregate degrades.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var envelope struct {
		Data struct {
			Gateway  string            `json:"gateway"`
			Services map[string]string `json:"services"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "UP", envelope.Data.Gateway)
	assert.Equal(t, "UP", envelope.Data.Services[registry.ServiceUser])
	assert.Equal(t, "UNKNOWN", envelope.Data.Services[registry.ServicePayment])
}
