package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))
	return db
}

func newCatalogService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db), NewCategoryRepository(db))
	require.NoError(t, err)
	return svc, db
}

func mustCreateProduct(t *testing.T, svc Service, name, sku string, price string) *ProductDTO {
	t.Helper()
	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:  name,
		SKU:   sku,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return dto
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc, _ := newCatalogService(t)

	mustCreateProduct(t, svc, "Keyboard", "KB-001", "49.99")

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Another keyboard",
		SKU:   "KB-001",
		Price: decimal.RequireFromString("59.99"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	svc, _ := newCatalogService(t)

	missing := int64(999)
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Mouse",
		SKU:        "MS-001",
		Price:      decimal.RequireFromString("19.99"),
		CategoryID: &missing,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetProductIncrementsViewCountExactlyOnce(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	created := mustCreateProduct(t, svc, "Monitor", "MN-001", "199.00")
	assert.Equal(t, 0, created.ViewCount)

	first, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ViewCount)

	second, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ViewCount)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, 2, stored.ViewCount)
}

func TestGetProductBySKUHasNoViewSideEffect(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created := mustCreateProduct(t, svc, "Webcam", "WC-001", "89.00")

	bySKU, err := svc.GetProductBySKU(ctx, "WC-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySKU.ID)
	assert.Equal(t, 0, bySKU.ViewCount)

	again, err := svc.GetProductBySKU(ctx, "WC-001")
	require.NoError(t, err)
	assert.Equal(t, 0, again.ViewCount)
}

func TestSearchProductsMatchesNameAndBrand(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	brand := "Logi"
	_, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Wireless Mouse", SKU: "SRCH-1", Price: decimal.RequireFromString("25.00"), Brand: &brand,
	})
	require.NoError(t, err)
	mustCreateProduct(t, svc, "Desk Lamp", "SRCH-2", "35.00")

	byName, err := svc.SearchProducts(ctx, "mouse")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "SRCH-1", byName[0].SKU)

	byBrand, err := svc.SearchProducts(ctx, "logi")
	require.NoError(t, err)
	require.Len(t, byBrand, 1)

	_, err = svc.SearchProducts(ctx, "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestFeaturedListExcludesInactiveProducts(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	featured := true
	a, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "A", SKU: "FT-1", Price: decimal.RequireFromString("1.00"), IsFeatured: &featured,
	})
	require.NoError(t, err)
	b, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "B", SKU: "FT-2", Price: decimal.RequireFromString("1.00"), IsFeatured: &featured,
	})
	require.NoError(t, err)

	_, err = svc.DeactivateProduct(ctx, b.ID)
	require.NoError(t, err)

	items, err := svc.ListFeaturedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
}

func TestUpdateProductReChecksSKUUniqueness(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	mustCreateProduct(t, svc, "First", "UPD-1", "1.00")
	second := mustCreateProduct(t, svc, "Second", "UPD-2", "2.00")

	taken := "UPD-1"
	_, err := svc.UpdateProduct(ctx, second.ID, UpdateProductInput{SKU: &taken})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	fresh := "UPD-3"
	updated, err := svc.UpdateProduct(ctx, second.ID, UpdateProductInput{SKU: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "UPD-3", updated.SKU)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _ := newCatalogService(t)

	err := svc.DeleteProduct(context.Background(), 12345)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateCategoryGeneratesSlug(t *testing.T) {
	svc, _ := newCatalogService(t)

	dto, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Name: "Home & Garden Tools",
	})
	require.NoError(t, err)
	assert.Equal(t, "home-garden-tools", dto.Slug)
	assert.True(t, dto.IsActive)
}

func TestCreateCategoryRejectsDuplicateNameAndSlug(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Electronics"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Electronics"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// Different name normalizing to the same slug collides on the slug check.
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "ELECTRONICS!"})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestListCategoriesActiveOnlyAndOrdering(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	inactive := false
	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Zed", DisplayOrder: 2})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Alpha", DisplayOrder: 1})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Hidden", DisplayOrder: 0, IsActive: &inactive})
	require.NoError(t, err)

	all, err := svc.ListCategories(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Hidden", all[0].Name)

	active, err := svc.ListCategories(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Alpha", active[0].Name)
	assert.Equal(t, "Zed", active[1].Name)
}

func TestGetCategoryBySlug(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Office Supplies"})
	require.NoError(t, err)

	dto, err := svc.GetCategoryBySlug(ctx, "office-supplies")
	require.NoError(t, err)
	assert.Equal(t, created.ID, dto.ID)

	_, err = svc.GetCategoryBySlug(ctx, "missing")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "home-garden", Slugify("  Home & Garden "))
	assert.Equal(t, "abc-123", Slugify("ABC 123"))
	assert.Equal(t, "", Slugify("!!!"))
}
