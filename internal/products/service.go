package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	IncrementViewCount(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error)
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// Service exposes catalog operations for products and categories.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
	GetProductBySKU(ctx context.Context, sku string) (*ProductDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]ProductDTO, error)
	ListFeaturedProducts(ctx context.Context) ([]ProductDTO, error)
	SearchProducts(ctx context.Context, query string) ([]ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error)
	ActivateProduct(ctx context.Context, id int64) (*ProductDTO, error)
	DeactivateProduct(ctx context.Context, id int64) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	GetCategory(ctx context.Context, id int64) (*CategoryDTO, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*CategoryDTO, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]CategoryDTO, error)
	UpdateCategory(ctx context.Context, id int64, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type service struct {
	products   productRepository
	categories categoryRepository
}

// NewService builds a catalog service with the provided repositories.
func NewService(products productRepository, categories categoryRepository) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{products: products, categories: categories}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	if taken, err := s.products.ExistsBySKU(ctx, sku, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku uniqueness")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
	}

	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product := &models.Product{
		Name:          name,
		Description:   input.Description,
		SKU:           sku,
		Price:         input.Price.Round(2),
		CategoryID:    input.CategoryID,
		Brand:         input.Brand,
		ImageURL:      input.ImageURL,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
	}
	if input.DiscountPrice != nil {
		rounded := input.DiscountPrice.Round(2)
		product.DiscountPrice = &rounded
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return productFromModel(created), nil
}

// GetProduct increments the view counter before returning the product. The
// bump is part of the read path, matching storefront detail-page semantics.
func (s *service) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	if err := s.products.IncrementViewCount(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record product view")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return productFromModel(product), nil
}

func (s *service) GetProductBySKU(ctx context.Context, sku string) (*ProductDTO, error) {
	product, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return productFromModel(product), nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	items, err := s.products.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return productsFromModels(items), nil
}

func (s *service) ListProductsByCategory(ctx context.Context, categoryID int64) ([]ProductDTO, error) {
	items, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by category")
	}
	return productsFromModels(items), nil
}

func (s *service) ListFeaturedProducts(ctx context.Context) ([]ProductDTO, error) {
	items, err := s.products.ListFeatured(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return productsFromModels(items), nil
}

func (s *service) SearchProducts(ctx context.Context, query string) ([]ProductDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query required")
	}
	items, err := s.products.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return productsFromModels(items), nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
		}
		if sku != product.SKU {
			if taken, err := s.products.ExistsBySKU(ctx, sku, id); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku uniqueness")
			} else if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
			}
		}
		product.SKU = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.DiscountPrice != nil {
		rounded := input.DiscountPrice.Round(2)
		product.DiscountPrice = &rounded
	}
	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return productFromModel(product), nil
}

func (s *service) ActivateProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	return s.setProductActive(ctx, id, true)
}

func (s *service) DeactivateProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	return s.setProductActive(ctx, id, false)
}

func (s *service) setProductActive(ctx context.Context, id int64, active bool) (*ProductDTO, error) {
	if err := s.products.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product status")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return productFromModel(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	slug := Slugify(name)
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		slug = Slugify(*input.Slug)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug required")
	}

	if taken, err := s.categories.ExistsByName(ctx, name, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name uniqueness")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
	}
	if taken, err := s.categories.ExistsBySlug(ctx, slug, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug uniqueness")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
	}

	category := &models.Category{
		Name:         name,
		Slug:         slug,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		DisplayOrder: input.DisplayOrder,
		IsActive:     true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	created, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return categoryFromModel(created), nil
}

func (s *service) GetCategory(ctx context.Context, id int64) (*CategoryDTO, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return categoryFromModel(category), nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryDTO, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return categoryFromModel(category), nil
}

func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]CategoryDTO, error) {
	items, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categoriesFromModels(items), nil
}

func (s *service) UpdateCategory(ctx context.Context, id int64, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
		}
		if name != category.Name {
			if taken, err := s.categories.ExistsByName(ctx, name, id); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name uniqueness")
			} else if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
			}
		}
		category.Name = name
	}
	if input.Slug != nil {
		slug := Slugify(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug required")
		}
		if slug != category.Slug {
			if taken, err := s.categories.ExistsBySlug(ctx, slug, id); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug uniqueness")
			} else if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
			}
		}
		category.Slug = slug
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = input.ImageURL
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return categoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}
