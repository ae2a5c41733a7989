package payments

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/config"
)

// GatewayOutcome is the terminal result of a single gateway attempt. A failed
// attempt is a domain outcome, not an error.
type GatewayOutcome struct {
	Succeeded     bool
	TransactionID string
	FailureReason string
}

// Gateway settles charges and refunds with an external payment provider.
type Gateway interface {
	Charge(ctx context.Context, amount decimal.Decimal) GatewayOutcome
	Refund(ctx context.Context, amount decimal.Decimal) GatewayOutcome
}

// SimulatedGateway stands in for a real provider. By default charges succeed
// 90% of the time and refunds 95%.
type SimulatedGateway struct {
	chargeRate float64
	refundRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedGateway builds a gateway with the configured success rates.
func NewSimulatedGateway(cfg config.PaymentGatewayConfig) *SimulatedGateway {
	return &SimulatedGateway{
		chargeRate: float64(cfg.ChargeSuccessPercent) / 100,
		refundRate: float64(cfg.RefundSuccessPercent) / 100,
		rng:        rand.New(rand.NewSource(int64(rand.Uint64()))),
	}
}

func (g *SimulatedGateway) roll() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

// Charge simulates settling a charge for the given amount.
func (g *SimulatedGateway) Charge(_ context.Context, _ decimal.Decimal) GatewayOutcome {
	if g.roll() < g.chargeRate {
		return GatewayOutcome{Succeeded: true, TransactionID: "GW-" + uuid.NewString()}
	}
	return GatewayOutcome{FailureReason: "payment declined by gateway"}
}

// Refund simulates settling a refund for the given amount.
func (g *SimulatedGateway) Refund(_ context.Context, _ decimal.Decimal) GatewayOutcome {
	if g.roll() < g.refundRate {
		return GatewayOutcome{Succeeded: true, TransactionID: "REF-GW-" + uuid.NewString()}
	}
	return GatewayOutcome{FailureReason: "refund declined by gateway"}
}
