package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/types"
)

const errorBodyReadLimit int64 = 2048

// base is the shared plumbing for the typed service clients. Base URLs are
// resolved per call so a re-registered instance is picked up without a
// restart.
type base struct {
	httpClient *http.Client
	resolver   registry.Resolver
	metrics    *metrics.ClientMetrics
	service    string
}

// Option configures optional client behavior.
type Option func(*base)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *base) {
		if client != nil {
			b.httpClient = client
		}
	}
}

// WithMetrics attaches per-call outcome metrics.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(b *base) {
		b.metrics = m
	}
}

func newBase(service string, resolver registry.Resolver, opts ...Option) (*base, error) {
	if resolver == nil {
		return nil, fmt.Errorf("service resolver required")
	}
	b := &base{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		resolver:   resolver,
		service:    service,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

// doJSON issues one request against the logical service and decodes the
// success envelope into out when out is non-nil.
func (b *base) doJSON(ctx context.Context, method, path, operation string, body, out any) error {
	start := time.Now()
	err := b.roundTrip(ctx, method, path, body, out)
	if b.metrics != nil {
		b.metrics.ObserveCall(b.service, operation, err, time.Since(start))
	}
	return err
}

func (b *base) roundTrip(ctx context.Context, method, path string, body, out any) error {
	baseURL, err := b.resolver.Resolve(ctx, b.service)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	url := strings.TrimRight(baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("call %s", b.service))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return b.decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	envelope := types.SuccessEnvelope{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", b.service))
	}
	return nil
}

// decodeError rebuilds the upstream's typed error so callers can branch on
// the code the same way they do for local failures.
func (b *base) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		code := pkgerrors.Code(envelope.Error.Code)
		typed := pkgerrors.New(code, envelope.Error.Message)
		if envelope.Error.Details != nil {
			typed = typed.WithDetails(envelope.Error.Details)
		}
		return typed
	}

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s resource not found", b.service))
	}
	return pkgerrors.New(pkgerrors.CodeDependency,
		fmt.Sprintf("%s returned status %d: %s", b.service, resp.StatusCode, strings.TrimSpace(string(raw))))
}
