package models

import (
	"time"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// OrderStatusHistory records one row per successful order transition. The
// creation row carries a nil previous status.
type OrderStatusHistory struct {
	ID             int64              `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        int64              `gorm:"column:order_id;not null;index"`
	PreviousStatus *enums.OrderStatus `gorm:"column:previous_status"`
	NewStatus      enums.OrderStatus  `gorm:"column:new_status;not null"`
	Remarks        *string            `gorm:"column:remarks"`
	ChangedBy      *int64             `gorm:"column:changed_by"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }
