package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// Order is the aggregate root for a customer purchase. Items are owned and
// cascade-deleted with the order.
type Order struct {
	ID             int64               `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber    string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID         int64               `gorm:"column:user_id;not null;index"`
	CustomerName   string              `gorm:"column:customer_name;not null"`
	CustomerEmail  string              `gorm:"column:customer_email;not null;index"`
	CustomerPhone  string              `gorm:"column:customer_phone;not null"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal       decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DiscountAmount decimal.Decimal     `gorm:"column:discount_amount;type:numeric(10,2);not null"`
	TaxAmount      decimal.Decimal     `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	ShippingFee    decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(10,2);not null"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;index"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;not null"`
	PaymentMethod  *enums.PaymentMethod `gorm:"column:payment_method"`

	ShippingAddress string `gorm:"column:shipping_address;not null"`
	ShippingCity    string `gorm:"column:shipping_city;not null"`
	ShippingState   string `gorm:"column:shipping_state;not null"`
	ShippingCountry string `gorm:"column:shipping_country;not null"`
	ShippingZipCode string `gorm:"column:shipping_zip_code;not null"`

	BillingAddress string `gorm:"column:billing_address;not null"`
	BillingCity    string `gorm:"column:billing_city;not null"`
	BillingState   string `gorm:"column:billing_state;not null"`
	BillingCountry string `gorm:"column:billing_country;not null"`
	BillingZipCode string `gorm:"column:billing_zip_code;not null"`

	Notes              *string    `gorm:"column:notes"`
	ConfirmedAt        *time.Time `gorm:"column:confirmed_at"`
	ShippedAt          *time.Time `gorm:"column:shipped_at"`
	DeliveredAt        *time.Time `gorm:"column:delivered_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
