package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem captures a product snapshot at purchase time. Prices are frozen
// copies; later catalog edits never touch them.
type OrderItem struct {
	ID              int64            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID         int64            `gorm:"column:order_id;not null;index"`
	ProductID       int64            `gorm:"column:product_id;not null"`
	ProductName     string           `gorm:"column:product_name;not null"`
	SKU             string           `gorm:"column:sku;not null"`
	Quantity        int              `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal  `gorm:"column:unit_price;type:numeric(10,2);not null"`
	DiscountPrice   *decimal.Decimal `gorm:"column:discount_price;type:numeric(10,2)"`
	TotalPrice      decimal.Decimal  `gorm:"column:total_price;type:numeric(10,2);not null"`
	ProductImageURL *string          `gorm:"column:product_image_url"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
}
