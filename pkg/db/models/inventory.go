package models

import (
	"time"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// Inventory tracks available/reserved counts for one product. TotalQuantity
// is kept equal to available + reserved on every write.
type Inventory struct {
	ID                int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID         int64                 `gorm:"column:product_id;not null;uniqueIndex"`
	ProductName       string                `gorm:"column:product_name;not null"`
	SKU               string                `gorm:"column:sku;not null;uniqueIndex"`
	AvailableQuantity int                   `gorm:"column:available_quantity;not null;default:0"`
	ReservedQuantity  int                   `gorm:"column:reserved_quantity;not null;default:0"`
	TotalQuantity     int                   `gorm:"column:total_quantity;not null;default:0"`
	ReorderLevel      int                   `gorm:"column:reorder_level;not null;default:10"`
	ReorderQuantity   int                   `gorm:"column:reorder_quantity;not null;default:50"`
	WarehouseID       *int64                `gorm:"column:warehouse_id"`
	Status            enums.InventoryStatus `gorm:"column:status;not null"`
	LastRestockedAt   *time.Time            `gorm:"column:last_restocked_at"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inventory) TableName() string { return "inventory" }
