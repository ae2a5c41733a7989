package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
)

// CategoryRepository exposes category persistence operations.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository constructs a category repo bound to the provided GORM DB.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category and returns the persisted model.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads a category by id.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindBySlug loads a category by its slug.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsByName reports whether another category already holds the name.
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySlug reports whether another category already holds the slug.
func (r *CategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns categories ordered by display order, optionally only active ones.
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	q := r.db.WithContext(ctx).Order("display_order ASC, id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var items []models.Category
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists the full category record.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes the category row.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
