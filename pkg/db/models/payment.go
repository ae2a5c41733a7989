package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// Payment holds at most one record per order. Card and account numbers are
// stored masked to the last four digits; full values never persist.
type Payment struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	PaymentID   string          `gorm:"column:payment_id;not null;uniqueIndex"`
	OrderID     int64           `gorm:"column:order_id;not null;uniqueIndex"`
	OrderNumber string          `gorm:"column:order_number;not null"`
	UserID      int64           `gorm:"column:user_id;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Currency    string          `gorm:"column:currency;not null;default:USD"`

	PaymentMethod        enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	Status               enums.PaymentStatus   `gorm:"column:status;not null;index"`
	PaymentGateway       *enums.PaymentGateway `gorm:"column:payment_gateway"`
	GatewayTransactionID *string               `gorm:"column:gateway_transaction_id"`
	GatewayResponse      *string               `gorm:"column:gateway_response"`

	Transactions []PaymentTransaction `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`

	CardLast4Digits *string `gorm:"column:card_last4_digits"`
	CardBrand       *string `gorm:"column:card_brand"`
	UPIID           *string `gorm:"column:upi_id"`
	BankName        *string `gorm:"column:bank_name"`
	AccountNumber   *string `gorm:"column:account_number"`
	WalletProvider  *string `gorm:"column:wallet_provider"`

	CustomerEmail *string `gorm:"column:customer_email"`
	CustomerPhone *string `gorm:"column:customer_phone"`
	Description   *string `gorm:"column:description"`
	FailureReason *string `gorm:"column:failure_reason"`

	PaidAt     *time.Time `gorm:"column:paid_at"`
	FailedAt   *time.Time `gorm:"column:failed_at"`
	RefundedAt *time.Time `gorm:"column:refunded_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
