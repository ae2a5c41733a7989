package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// Availability answers a stock probe for one product.
type Availability struct {
	ProductID         int64 `json:"product_id"`
	Available         bool  `json:"available"`
	AvailableQuantity int   `json:"available_quantity"`
	RequestedQuantity int   `json:"requested_quantity"`
}

// Inventory is the subset of a stock record that other services consume.
type Inventory struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	SKU               string `json:"sku"`
	AvailableQuantity int    `json:"available_quantity"`
	ReservedQuantity  int    `json:"reserved_quantity"`
	TotalQuantity     int    `json:"total_quantity"`
	Status            string `json:"status"`
}

type stockRequest struct {
	ProductID   int64  `json:"product_id"`
	Quantity    int    `json:"quantity"`
	ReferenceID string `json:"reference_id"`
}

// InventoryClient calls the inventory service.
type InventoryClient struct {
	base *base
}

// NewInventoryClient builds an inventory service client.
func NewInventoryClient(resolver registry.Resolver, opts ...Option) (*InventoryClient, error) {
	b, err := newBase(registry.ServiceInventory, resolver, opts...)
	if err != nil {
		return nil, err
	}
	return &InventoryClient{base: b}, nil
}

// CheckAvailability probes whether the product has the requested quantity
// available.
func (c *InventoryClient) CheckAvailability(ctx context.Context, productID int64, quantity int) (*Availability, error) {
	var availability Availability
	path := fmt.Sprintf("/api/inventory/availability?product_id=%d&quantity=%d", productID, quantity)
	err := c.base.doJSON(ctx, http.MethodGet, path, "check_availability", nil, &availability)
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

// GetByProductID fetches the stock record backing a product.
func (c *InventoryClient) GetByProductID(ctx context.Context, productID int64) (*Inventory, error) {
	var inventory Inventory
	err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/inventory/product/%d", productID), "get_by_product", nil, &inventory)
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

// Reserve holds stock for an order.
func (c *InventoryClient) Reserve(ctx context.Context, productID int64, quantity int, referenceID string) error {
	req := stockRequest{ProductID: productID, Quantity: quantity, ReferenceID: referenceID}
	return c.base.doJSON(ctx, http.MethodPost, "/api/inventory/reserve", "reserve", req, nil)
}

// Release returns reserved stock to the available pool.
func (c *InventoryClient) Release(ctx context.Context, productID int64, quantity int, referenceID string) error {
	req := stockRequest{ProductID: productID, Quantity: quantity, ReferenceID: referenceID}
	return c.base.doJSON(ctx, http.MethodPost, "/api/inventory/release", "release", req, nil)
}

// Confirm burns a reservation once the order is confirmed.
func (c *InventoryClient) Confirm(ctx context.Context, productID int64, quantity int, referenceID string) error {
	req := stockRequest{ProductID: productID, Quantity: quantity, ReferenceID: referenceID}
	return c.base.doJSON(ctx, http.MethodPost, "/api/inventory/confirm", "confirm", req, nil)
}
