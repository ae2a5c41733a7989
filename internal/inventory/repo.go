package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/pagination"
)

// Repository exposes inventory and stock movement persistence. Counter
// mutations are guarded by conditional UPDATEs so interleaved requests
// cannot drive a counter negative.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InTx runs fn with a repository bound to a single transaction. The counter
// update and its movement row commit or roll back together.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Create inserts a new inventory record.
func (r *Repository) Create(ctx context.Context, inv *models.Inventory) (*models.Inventory, error) {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// FindByID loads an inventory record by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindByProductID loads the inventory record tracking the product.
func (r *Repository) FindByProductID(ctx context.Context, productID int64) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindBySKU loads the inventory record by stock keeping unit.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ExistsByProductID reports whether the product is already tracked.
func (r *Repository) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySKU reports whether another inventory record already holds the SKU.
func (r *Repository) ExistsBySKU(ctx context.Context, sku string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Inventory{}).Where("sku = ?", sku)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all inventory records ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Inventory, error) {
	var items []models.Inventory
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByWarehouse returns the inventory records held at the warehouse.
func (r *Repository) ListByWarehouse(ctx context.Context, warehouseID int64) ([]models.Inventory, error) {
	var items []models.Inventory
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListByStatus returns inventory records with the given derived status.
func (r *Repository) ListByStatus(ctx context.Context, status enums.InventoryStatus) ([]models.Inventory, error) {
	var items []models.Inventory
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches the query against product name and SKU, case-insensitively.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Inventory, error) {
	pattern := "%" + query + "%"
	var items []models.Inventory
	err := r.db.WithContext(ctx).
		Where("LOWER(product_name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)", pattern, pattern).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountByWarehouse counts the inventory records referencing the warehouse.
func (r *Repository) CountByWarehouse(ctx context.Context, warehouseID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("warehouse_id = ?", warehouseID).
		Count(&count).Error
	return count, err
}

// Update persists the full inventory record.
func (r *Repository) Update(ctx context.Context, inv *models.Inventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// Delete removes the inventory row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Inventory{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApplyAdd raises the available and total counters and stamps the restock time.
func (r *Repository) ApplyAdd(ctx context.Context, id int64, qty int, restockedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"available_quantity": gorm.Expr("available_quantity + ?", qty),
			"total_quantity":     gorm.Expr("total_quantity + ?", qty),
			"last_restocked_at":  restockedAt,
			"updated_at":         restockedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// ApplyRemove lowers available and total, refusing to overdraw available.
func (r *Repository) ApplyRemove(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND available_quantity >= ?", id, qty).
		UpdateColumns(map[string]any{
			"available_quantity": gorm.Expr("available_quantity - ?", qty),
			"total_quantity":     gorm.Expr("total_quantity - ?", qty),
			"updated_at":         time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

// ApplyReserve moves quantity from available to reserved, refusing to overdraw.
func (r *Repository) ApplyReserve(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND available_quantity >= ?", id, qty).
		UpdateColumns(map[string]any{
			"available_quantity": gorm.Expr("available_quantity - ?", qty),
			"reserved_quantity":  gorm.Expr("reserved_quantity + ?", qty),
			"updated_at":         time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

// ApplyRelease moves quantity from reserved back to available.
func (r *Repository) ApplyRelease(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND reserved_quantity >= ?", id, qty).
		UpdateColumns(map[string]any{
			"reserved_quantity":  gorm.Expr("reserved_quantity - ?", qty),
			"available_quantity": gorm.Expr("available_quantity + ?", qty),
			"updated_at":         time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

// ApplyConfirm burns reserved quantity out of the ledger after fulfilment.
func (r *Repository) ApplyConfirm(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND reserved_quantity >= ?", id, qty).
		UpdateColumns(map[string]any{
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", qty),
			"total_quantity":    gorm.Expr("total_quantity - ?", qty),
			"updated_at":        time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

// SetStatus updates the derived stock classification.
func (r *Repository) SetStatus(ctx context.Context, id int64, status enums.InventoryStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// CreateMovement appends one audit row.
func (r *Repository) CreateMovement(ctx context.Context, m *models.StockMovement) (*models.StockMovement, error) {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMovements returns one page of movements, newest first. It fetches one
// row beyond the limit so the caller can detect the next page.
func (r *Repository) ListMovements(ctx context.Context, filter MovementFilter, limit int, cursor *pagination.Cursor) ([]models.StockMovement, error) {
	q := r.db.WithContext(ctx).Model(&models.StockMovement{})
	if filter.InventoryID != nil {
		q = q.Where("inventory_id = ?", *filter.InventoryID)
	}
	if filter.Type != nil {
		q = q.Where("movement_type = ?", *filter.Type)
	}
	if filter.Reason != nil {
		q = q.Where("reason = ?", *filter.Reason)
	}
	if filter.ReferenceID != nil {
		q = q.Where("reference_id = ?", *filter.ReferenceID)
	}
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var items []models.StockMovement
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
