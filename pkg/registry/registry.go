package registry

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/config"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
)

// Logical service names used across the platform.
const (
	ServiceUser      = "user-service"
	ServiceProduct   = "product-service"
	ServiceInventory = "inventory-service"
	ServiceOrder     = "order-service"
	ServicePayment   = "payment-service"
	ServiceGateway   = "api-gateway"
)

// DefaultTTL controls how long a registered address stays fresh before a
// service has to re-announce itself.
const DefaultTTL = 30 * time.Second

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RegistryKey(serviceName string) string
}

// Resolver maps a logical service name to a base URL.
type Resolver interface {
	Resolve(ctx context.Context, serviceName string) (string, error)
}

// Registry resolves logical service names through redis, falling back to the
// statically configured addresses when no live registration exists. A nil
// redis store degrades to pure static resolution, which keeps single-host
// deployments working without redis at all.
type Registry struct {
	store    store
	fallback map[string]string
}

// New builds a registry over the provided redis store. The store may be nil.
func New(st store, cfg config.ClientsConfig) *Registry {
	return &Registry{
		store: st,
		fallback: map[string]string{
			ServiceUser:      cfg.UserServiceURL,
			ServiceProduct:   cfg.ProductServiceURL,
			ServiceInventory: cfg.InventoryServiceURL,
			ServiceOrder:     cfg.OrderServiceURL,
			ServicePayment:   cfg.PaymentServiceURL,
		},
	}
}

// Register announces a service address under its logical name.
func (r *Registry) Register(ctx context.Context, serviceName, baseURL string, ttl time.Duration) error {
	if r.store == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := r.store.RegistryKey(serviceName)
	if err := r.store.Set(ctx, key, strings.TrimRight(baseURL, "/"), ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "registering service address")
	}
	return nil
}

// KeepRegistered announces a service address and keeps the registration
// fresh by re-announcing at half the TTL until ctx is cancelled. The initial
// registration error is returned; refresh failures are reported through
// onErr and never stop the loop.
func (r *Registry) KeepRegistered(ctx context.Context, serviceName, baseURL string, ttl time.Duration, onErr func(error)) error {
	if r.store == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.Register(ctx, serviceName, baseURL, ttl); err != nil {
		return err
	}
	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Register(ctx, serviceName, baseURL, ttl); err != nil && onErr != nil {
					onErr(err)
				}
			}
		}
	}()
	return nil
}

// Deregister removes a service registration.
func (r *Registry) Deregister(ctx context.Context, serviceName string) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Del(ctx, r.store.RegistryKey(serviceName)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deregistering service address")
	}
	return nil
}

// Resolve returns the base URL for a logical service name. Live redis
// registrations win over configured fallbacks.
func (r *Registry) Resolve(ctx context.Context, serviceName string) (string, error) {
	if r.store != nil {
		url, err := r.store.Get(ctx, r.store.RegistryKey(serviceName))
		if err == nil && url != "" {
			return url, nil
		}
		if err != nil && err != goredis.Nil {
			// Redis being down should not break inter-service calls while
			// the static fallback can still answer.
			if fallback, ok := r.fallback[serviceName]; ok && fallback != "" {
				return strings.TrimRight(fallback, "/"), nil
			}
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving service address")
		}
	}
	if fallback, ok := r.fallback[serviceName]; ok && fallback != "" {
		return strings.TrimRight(fallback, "/"), nil
	}
	return "", pkgerrors.New(pkgerrors.CodeDependency, "no address known for service "+serviceName)
}
