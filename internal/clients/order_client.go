package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// Order is the subset of the order record that the payment service consumes.
type Order struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        int64           `json:"user_id"`
	CustomerEmail string          `json:"customer_email"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
}

// OrderClient calls the order service.
type OrderClient struct {
	base *base
}

// NewOrderClient builds an order service client.
func NewOrderClient(resolver registry.Resolver, opts ...Option) (*OrderClient, error) {
	b, err := newBase(registry.ServiceOrder, resolver, opts...)
	if err != nil {
		return nil, err
	}
	return &OrderClient{base: b}, nil
}

// GetOrder fetches an order by id.
func (c *OrderClient) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var order Order
	err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), "get_order", nil, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber fetches an order by its order number.
func (c *OrderClient) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var order Order
	err := c.base.doJSON(ctx, http.MethodGet, "/api/orders/number/"+orderNumber, "get_order_by_number", nil, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
