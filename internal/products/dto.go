package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
	IsFeatured    bool             `json:"is_featured"`
	ViewCount     int              `json:"view_count"`
	SoldCount     int              `json:"sold_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CategoryDTO is the transport shape for categories.
type CategoryDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   *string
	SKU           string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	CategoryID    *int64
	Brand         *string
	ImageURL      *string
	StockQuantity int
	IsActive      *bool
	IsFeatured    *bool
}

// UpdateProductInput captures the mutable product fields. Nil means unchanged.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	SKU           *string
	Price         *decimal.Decimal
	DiscountPrice *decimal.Decimal
	CategoryID    *int64
	Brand         *string
	ImageURL      *string
	StockQuantity *int
	IsFeatured    *bool
}

// CreateCategoryInput holds the payload to create a category. Slug is
// generated from the name when omitted.
type CreateCategoryInput struct {
	Name         string
	Slug         *string
	Description  *string
	ImageURL     *string
	DisplayOrder int
	IsActive     *bool
}

// UpdateCategoryInput captures the mutable category fields.
type UpdateCategoryInput struct {
	Name         *string
	Slug         *string
	Description  *string
	ImageURL     *string
	DisplayOrder *int
	IsActive     *bool
}

func productFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CategoryID:    p.CategoryID,
		Brand:         p.Brand,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		IsFeatured:    p.IsFeatured,
		ViewCount:     p.ViewCount,
		SoldCount:     p.SoldCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func productsFromModels(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for i := range items {
		out = append(out, *productFromModel(&items[i]))
	}
	return out
}

func categoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func categoriesFromModels(items []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(items))
	for i := range items {
		out = append(out, *categoryFromModel(&items[i]))
	}
	return out
}
