package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// AddressInput is one shipping or billing address block.
type AddressInput struct {
	Address string
	City    string
	State   string
	Country string
	ZipCode string
}

// ItemInput names a product and how many units the customer wants. Prices
// are resolved and snapshotted by the service, never trusted from callers.
type ItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput is the payload to place an order. Billing defaults to the
// shipping block when omitted.
type CreateOrderInput struct {
	UserID         int64
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Items          []ItemInput
	DiscountAmount *decimal.Decimal
	ShippingFee    *decimal.Decimal
	Shipping       AddressInput
	Billing        *AddressInput
	PaymentMethod  *enums.PaymentMethod
	Notes          *string
}

// StatusUpdateInput drives one state machine transition.
type StatusUpdateInput struct {
	Status    enums.OrderStatus
	Remarks   *string
	ChangedBy *int64
}

// CancelInput carries the dedicated cancellation payload.
type CancelInput struct {
	Reason    string
	ChangedBy *int64
}

// ListFilter narrows an order listing.
type ListFilter struct {
	UserID        *int64
	Status        *enums.OrderStatus
	CustomerEmail *string
	From          *time.Time
	To            *time.Time
}

// OrderItemDTO is the transport shape for one line item.
type OrderItemDTO struct {
	ID              int64            `json:"id"`
	ProductID       int64            `json:"product_id"`
	ProductName     string           `json:"product_name"`
	SKU             string           `json:"sku"`
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountPrice   *decimal.Decimal `json:"discount_price,omitempty"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	ProductImageURL *string          `json:"product_image_url,omitempty"`
}

// OrderDTO is the transport shape for an order aggregate.
type OrderDTO struct {
	ID             int64                `json:"id"`
	OrderNumber    string               `json:"order_number"`
	UserID         int64                `json:"user_id"`
	CustomerName   string               `json:"customer_name"`
	CustomerEmail  string               `json:"customer_email"`
	CustomerPhone  string               `json:"customer_phone"`
	Items          []OrderItemDTO       `json:"items"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	TaxAmount      decimal.Decimal      `json:"tax_amount"`
	ShippingFee    decimal.Decimal      `json:"shipping_fee"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	Status         enums.OrderStatus    `json:"status"`
	PaymentStatus  enums.PaymentStatus  `json:"payment_status"`
	PaymentMethod  *enums.PaymentMethod `json:"payment_method,omitempty"`

	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingCountry string `json:"shipping_country"`
	ShippingZipCode string `json:"shipping_zip_code"`

	BillingAddress string `json:"billing_address"`
	BillingCity    string `json:"billing_city"`
	BillingState   string `json:"billing_state"`
	BillingCountry string `json:"billing_country"`
	BillingZipCode string `json:"billing_zip_code"`

	Notes              *string    `json:"notes,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt          *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// StatusHistoryDTO is one immutable transition record.
type StatusHistoryDTO struct {
	ID             int64              `json:"id"`
	OrderID        int64              `json:"order_id"`
	PreviousStatus *enums.OrderStatus `json:"previous_status,omitempty"`
	NewStatus      enums.OrderStatus  `json:"new_status"`
	Remarks        *string            `json:"remarks,omitempty"`
	ChangedBy      *int64             `json:"changed_by,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

func itemFromModel(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:              item.ID,
		ProductID:       item.ProductID,
		ProductName:     item.ProductName,
		SKU:             item.SKU,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		DiscountPrice:   item.DiscountPrice,
		TotalPrice:      item.TotalPrice,
		ProductImageURL: item.ProductImageURL,
	}
}

func orderFromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, itemFromModel(&o.Items[i]))
	}
	return &OrderDTO{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		Items:          items,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TaxAmount:      o.TaxAmount,
		ShippingFee:    o.ShippingFee,
		TotalAmount:    o.TotalAmount,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		PaymentMethod:  o.PaymentMethod,

		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingState:   o.ShippingState,
		ShippingCountry: o.ShippingCountry,
		ShippingZipCode: o.ShippingZipCode,

		BillingAddress: o.BillingAddress,
		BillingCity:    o.BillingCity,
		BillingState:   o.BillingState,
		BillingCountry: o.BillingCountry,
		BillingZipCode: o.BillingZipCode,

		Notes:              o.Notes,
		ConfirmedAt:        o.ConfirmedAt,
		ShippedAt:          o.ShippedAt,
		DeliveredAt:        o.DeliveredAt,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func ordersFromModels(items []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(items))
	for i := range items {
		out = append(out, *orderFromModel(&items[i]))
	}
	return out
}

func historyFromModel(h *models.OrderStatusHistory) StatusHistoryDTO {
	return StatusHistoryDTO{
		ID:             h.ID,
		OrderID:        h.OrderID,
		PreviousStatus: h.PreviousStatus,
		NewStatus:      h.NewStatus,
		Remarks:        h.Remarks,
		ChangedBy:      h.ChangedBy,
		CreatedAt:      h.CreatedAt,
	}
}

func historiesFromModels(items []models.OrderStatusHistory) []StatusHistoryDTO {
	out := make([]StatusHistoryDTO, 0, len(items))
	for i := range items {
		out = append(out, historyFromModel(&items[i]))
	}
	return out
}
