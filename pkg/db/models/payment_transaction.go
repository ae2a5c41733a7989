package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// PaymentTransaction is the append-only audit record for one gateway attempt.
type PaymentTransaction struct {
	ID                   int64                   `gorm:"column:id;primaryKey;autoIncrement"`
	PaymentID            int64                   `gorm:"column:payment_id;not null;index"`
	TransactionID        string                  `gorm:"column:transaction_id;not null;uniqueIndex"`
	TransactionType      enums.TransactionType   `gorm:"column:transaction_type;not null"`
	Amount               decimal.Decimal         `gorm:"column:amount;type:numeric(10,2);not null"`
	Status               enums.TransactionStatus `gorm:"column:status;not null"`
	GatewayTransactionID *string                 `gorm:"column:gateway_transaction_id"`
	Remarks              *string                 `gorm:"column:remarks"`
	CreatedAt            time.Time               `gorm:"column:created_at;autoCreateTime"`
}
