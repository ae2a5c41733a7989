package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// Product is the subset of the catalog record that other services consume.
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
}

// ProductClient calls the product service.
type ProductClient struct {
	base *base
}

// NewProductClient builds a product service client.
func NewProductClient(resolver registry.Resolver, opts ...Option) (*ProductClient, error) {
	b, err := newBase(registry.ServiceProduct, resolver, opts...)
	if err != nil {
		return nil, err
	}
	return &ProductClient{base: b}, nil
}

// GetProduct fetches a product by id. The product service counts this read
// as a view.
func (c *ProductClient) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), "get_product", nil, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU fetches a product by SKU without the view side effect.
func (c *ProductClient) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	var product Product
	err := c.base.doJSON(ctx, http.MethodGet, "/api/products/sku/"+sku, "get_product_by_sku", nil, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
