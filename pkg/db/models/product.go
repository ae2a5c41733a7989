package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog listing. StockQuantity is a display-only cache;
// authoritative counts live in the inventory service.
type Product struct {
	ID            int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string           `gorm:"column:name;not null"`
	Description   *string          `gorm:"column:description"`
	SKU           string           `gorm:"column:sku;not null;uniqueIndex"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(10,2)"`
	CategoryID    *int64           `gorm:"column:category_id"`
	Brand         *string          `gorm:"column:brand"`
	ImageURL      *string          `gorm:"column:image_url"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured    bool             `gorm:"column:is_featured;not null;default:false"`
	ViewCount     int              `gorm:"column:view_count;not null;default:0"`
	SoldCount     int              `gorm:"column:sold_count;not null;default:0"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
