package products

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/responses"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/validators"
	productsvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/products"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

type createProductRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   *string          `json:"description,omitempty"`
	SKU           string           `json:"sku" validate:"required"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      *bool            `json:"is_active,omitempty"`
	IsFeatured    *bool            `json:"is_featured,omitempty"`
}

func (r createProductRequest) toInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		SKU:           r.SKU,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		CategoryID:    r.CategoryID,
		Brand:         r.Brand,
		ImageURL:      r.ImageURL,
		StockQuantity: r.StockQuantity,
		IsActive:      r.IsActive,
		IsFeatured:    r.IsFeatured,
	}
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	SKU           *string          `json:"sku,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	IsFeatured    *bool            `json:"is_featured,omitempty"`
}

func (r updateProductRequest) toInput() productsvc.UpdateProductInput {
	return productsvc.UpdateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		SKU:           r.SKU,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		CategoryID:    r.CategoryID,
		Brand:         r.Brand,
		ImageURL:      r.ImageURL,
		StockQuantity: r.StockQuantity,
		IsFeatured:    r.IsFeatured,
	}
}

type createCategoryRequest struct {
	Name         string  `json:"name" validate:"required"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type updateCategoryRequest struct {
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// CreateProduct adds a product to the catalog.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// GetProduct returns a product by id. The read counts as a storefront view.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProductBySKU returns a product by SKU without counting a view.
func GetProductBySKU(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku, err := validators.ParsePathString(r, "sku")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProductBySKU(r.Context(), sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns the full catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ListProductsByCategory returns the products under one category.
func ListProductsByCategory(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.ListProductsByCategory(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ListFeaturedProducts returns the active featured products.
func ListFeaturedProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListFeaturedProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// SearchProducts matches products by name or brand.
func SearchProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}
		products, err := svc.SearchProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// UpdateProduct applies a partial update to a product.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ActivateProduct returns a product to the storefront.
func ActivateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.ActivateProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeactivateProduct hides a product from the storefront.
func DeactivateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.DeactivateProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product from the catalog.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CreateCategory adds a category.
func CreateCategory(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), productsvc.CreateCategoryInput{
			Name:         req.Name,
			Slug:         req.Slug,
			Description:  req.Description,
			ImageURL:     req.ImageURL,
			DisplayOrder: req.DisplayOrder,
			IsActive:     req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// GetCategory returns a category by id.
func GetCategory(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.GetCategory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// GetCategoryBySlug returns a category by slug.
func GetCategoryBySlug(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := validators.ParsePathString(r, "slug")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.GetCategoryBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// ListCategories returns categories ordered for display. Pass active=true to
// restrict to active ones.
func ListCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := strings.EqualFold(r.URL.Query().Get("active"), "true")
		categories, err := svc.ListCategories(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// UpdateCategory applies a partial update to a category.
func UpdateCategory(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.UpdateCategory(r.Context(), id, productsvc.UpdateCategoryInput{
			Name:         req.Name,
			Slug:         req.Slug,
			Description:  req.Description,
			ImageURL:     req.ImageURL,
			DisplayOrder: req.DisplayOrder,
			IsActive:     req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// DeleteCategory removes a category.
func DeleteCategory(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
