package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
)

// WarehouseRepository exposes warehouse persistence operations.
type WarehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository constructs a warehouse repo bound to the provided GORM DB.
func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// Create inserts a new warehouse.
func (r *WarehouseRepository) Create(ctx context.Context, w *models.Warehouse) (*models.Warehouse, error) {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// FindByID loads a warehouse by id.
func (r *WarehouseRepository) FindByID(ctx context.Context, id int64) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// FindByCode loads a warehouse by its unique code.
func (r *WarehouseRepository) FindByCode(ctx context.Context, code string) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// ExistsByCode reports whether another warehouse already holds the code.
func (r *WarehouseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Warehouse{}).Where("code = ?", code)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all warehouses ordered by creation time.
func (r *WarehouseRepository) List(ctx context.Context) ([]models.Warehouse, error) {
	var items []models.Warehouse
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists the full warehouse record.
func (r *WarehouseRepository) Update(ctx context.Context, w *models.Warehouse) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// Delete removes the warehouse row.
func (r *WarehouseRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Warehouse{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
