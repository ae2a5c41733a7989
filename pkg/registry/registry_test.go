package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/config"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
)

type stubStore struct {
	data    map[string]string
	getErr  error
	setErr  error
	setTTLs map[string]time.Duration
}

func newStubStore() *stubStore {
	return &stubStore{data: map[string]string{}, setTTLs: map[string]time.Duration{}}
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (s *stubStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value.(string)
	s.setTTLs[key] = ttl
	return nil
}

func (s *stubStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *stubStore) RegistryKey(serviceName string) string {
	return "ecom:registry:" + serviceName
}

func testClientsConfig() config.ClientsConfig {
	return config.ClientsConfig{
		UserServiceURL:      "http://localhost:8081",
		ProductServiceURL:   "http://localhost:8082",
		InventoryServiceURL: "http://localhost:8083",
		OrderServiceURL:     "http://localhost:8084",
		PaymentServiceURL:   "http://localhost:8085",
	}
}

func TestResolvePrefersLiveRegistration(t *testing.T) {
	ctx := context.Background()
	st := newStubStore()
	reg := New(st, testClientsConfig())

	if err := reg.Register(ctx, ServiceInventory, "http://inventory-a:8083/", 0); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if ttl := st.setTTLs["ecom:registry:inventory-service"]; ttl != DefaultTTL {
		t.Fatalf("expected default ttl, got %v", ttl)
	}

	url, err := reg.Resolve(ctx, ServiceInventory)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if url != "http://inventory-a:8083" {
		t.Fatalf("expected registered url without trailing slash, got %q", url)
	}
}

func TestResolveFallsBackToConfig(t *testing.T) {
	ctx := context.Background()
	reg := New(newStubStore(), testClientsConfig())

	url, err := reg.Resolve(ctx, ServiceOrder)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if url != "http://localhost:8084" {
		t.Fatalf("expected fallback url, got %q", url)
	}
}

func TestResolveSurvivesRedisOutage(t *testing.T) {
	ctx := context.Background()
	st := newStubStore()
	st.getErr = errors.New("connection refused")
	reg := New(st, testClientsConfig())

	url, err := reg.Resolve(ctx, ServicePayment)
	if err != nil {
		t.Fatalf("resolve should fall back during outage: %v", err)
	}
	if url != "http://localhost:8085" {
		t.Fatalf("expected fallback url, got %q", url)
	}
}

func TestResolveUnknownService(t *testing.T) {
	ctx := context.Background()
	reg := New(newStubStore(), testClientsConfig())

	_, err := reg.Resolve(ctx, "unknown-service")
	if err == nil {
		t.Fatal("expected error for unknown service")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNilStoreDegradesToStatic(t *testing.T) {
	ctx := context.Background()
	reg := New(nil, testClientsConfig())

	if err := reg.Register(ctx, ServiceUser, "http://user:8081", time.Minute); err != nil {
		t.Fatalf("register with nil store should be a no-op: %v", err)
	}
	url, err := reg.Resolve(ctx, ServiceUser)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if url != "http://localhost:8081" {
		t.Fatalf("expected static url, got %q", url)
	}
}

func TestKeepRegisteredAnnouncesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := newStubStore()
	reg := New(st, testClientsConfig())

	if err := reg.KeepRegistered(ctx, ServiceOrder, "http://order-a:8084", DefaultTTL, nil); err != nil {
		t.Fatalf("keep registered failed: %v", err)
	}
	if got := st.data["ecom:registry:order-service"]; got != "http://order-a:8084" {
		t.Fatalf("expected immediate registration, got %q", got)
	}

	// nil store degrades to a no-op
	static := New(nil, testClientsConfig())
	if err := static.KeepRegistered(ctx, ServiceOrder, "http://order-a:8084", DefaultTTL, nil); err != nil {
		t.Fatalf("static keep registered failed: %v", err)
	}
}
