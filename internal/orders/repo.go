package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InTx runs fn with a repository bound to a single transaction so the order,
// its items and its history row commit together.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber loads an order by its order number.
func (r *Repository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Count returns the total number of orders ever created.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

// List returns orders matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.CustomerEmail != nil {
		q = q.Where("customer_email = ?", *filter.CustomerEmail)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var items []models.Order
	if err := q.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists the order record. Items are snapshots and never updated
// through this path.
func (r *Repository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

// Delete removes the order; items cascade at the store level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Select("Items").Delete(&models.Order{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateHistory appends one status transition row.
func (r *Repository) CreateHistory(ctx context.Context, h *models.OrderStatusHistory) (*models.OrderStatusHistory, error) {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// ListHistory returns the transitions for one order in temporal order.
func (r *Repository) ListHistory(ctx context.Context, orderID int64) ([]models.OrderStatusHistory, error) {
	var items []models.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
