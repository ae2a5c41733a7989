package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/types"
)

type staticResolver struct {
	url string
	err error
}

func (r *staticResolver) Resolve(ctx context.Context, serviceName string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.url, nil
}

func TestUserClientDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: map[string]any{
			"id": 7, "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "is_active": true,
		}})
	}))
	defer srv.Close()

	client, err := NewUserClient(&staticResolver{url: srv.URL})
	require.NoError(t, err)

	user, err := client.GetUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsActive)
}

func TestInventoryClientGetByProductID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/inventory/product/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: map[string]any{
			"id": 3, "product_id": 42, "sku": "SKU-42", "available_quantity": 10,
			"reserved_quantity": 2, "total_quantity": 12, "status": "IN_STOCK",
		}})
	}))
	defer srv.Close()

	client, err := NewInventoryClient(&staticResolver{url: srv.URL})
	require.NoError(t, err)

	inventory, err := client.GetByProductID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), inventory.ProductID)
	assert.Equal(t, 10, inventory.AvailableQuantity)
	assert.Equal(t, "IN_STOCK", inventory.Status)
}

func TestClientMapsUpstreamTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(types.ErrorEnvelope{Error: types.APIError{
			Code:    string(pkgerrors.CodeInsufficientStock),
			Message: "insufficient stock",
			Details: map[string]any{"available": 3},
		}})
	}))
	defer srv.Close()

	client, err := NewInventoryClient(&staticResolver{url: srv.URL})
	require.NoError(t, err)

	err = client.Reserve(context.Background(), 1, 5, "ORD-1")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.NotNil(t, typed.Details())
}

func TestClientMapsBare404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := NewProductClient(&staticResolver{url: srv.URL})
	require.NoError(t, err)

	_, err = client.GetProduct(context.Background(), 404)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestClientSurfacesResolverFailure(t *testing.T) {
	client, err := NewOrderClient(&staticResolver{err: pkgerrors.New(pkgerrors.CodeDependency, "no live instance")})
	require.NoError(t, err)

	_, err = client.GetOrder(context.Background(), 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestNewClientRequiresResolver(t *testing.T) {
	_, err := NewUserClient(nil)
	require.Error(t, err)
}
