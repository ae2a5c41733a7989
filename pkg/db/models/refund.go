package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// Refund lives beside payments and references them by id only. Amount is the
// requested value; RefundedAmount stays zero until the refund completes.
type Refund struct {
	ID              int64              `gorm:"column:id;primaryKey;autoIncrement"`
	RefundID        string             `gorm:"column:refund_id;not null;uniqueIndex"`
	PaymentID       int64              `gorm:"column:payment_id;not null;index"`
	OrderID         int64              `gorm:"column:order_id;not null;index"`
	Amount          decimal.Decimal    `gorm:"column:amount;type:numeric(10,2);not null"`
	RefundedAmount  decimal.Decimal    `gorm:"column:refunded_amount;type:numeric(10,2);not null"`
	Status          enums.RefundStatus `gorm:"column:status;not null;index"`
	Reason          enums.RefundReason `gorm:"column:reason;not null"`
	GatewayRefundID *string            `gorm:"column:gateway_refund_id"`
	Remarks         *string            `gorm:"column:remarks"`
	InitiatedBy     *int64             `gorm:"column:initiated_by"`
	ProcessedAt     *time.Time         `gorm:"column:processed_at"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
