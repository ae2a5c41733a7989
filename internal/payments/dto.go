package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// CreatePaymentInput carries the request body for creating a payment. Card
// and account numbers arrive in full and are masked before anything persists.
type CreatePaymentInput struct {
	OrderID       int64               `json:"order_id"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Currency      *string             `json:"currency"`

	CardNumber     *string `json:"card_number"`
	UPIID          *string `json:"upi_id"`
	BankName       *string `json:"bank_name"`
	AccountNumber  *string `json:"account_number"`
	WalletProvider *string `json:"wallet_provider"`

	Description *string `json:"description"`
}

// CreateRefundInput carries the request body for raising a refund against a
// payment. PaymentID is the numeric payment record id.
type CreateRefundInput struct {
	PaymentID   int64              `json:"payment_id"`
	Amount      decimal.Decimal    `json:"amount"`
	Reason      enums.RefundReason `json:"reason"`
	Remarks     *string            `json:"remarks"`
	InitiatedBy *int64             `json:"initiated_by"`
}

// PaymentDTO is the external representation of a payment.
type PaymentDTO struct {
	ID          int64           `json:"id"`
	PaymentID   string          `json:"payment_id"`
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`

	PaymentMethod        enums.PaymentMethod   `json:"payment_method"`
	Status               enums.PaymentStatus   `json:"status"`
	PaymentGateway       *enums.PaymentGateway `json:"payment_gateway,omitempty"`
	GatewayTransactionID *string               `json:"gateway_transaction_id,omitempty"`

	CardLast4Digits *string `json:"card_last4_digits,omitempty"`
	CardBrand       *string `json:"card_brand,omitempty"`
	UPIID           *string `json:"upi_id,omitempty"`
	BankName        *string `json:"bank_name,omitempty"`
	AccountNumber   *string `json:"account_number,omitempty"`
	WalletProvider  *string `json:"wallet_provider,omitempty"`

	CustomerEmail *string `json:"customer_email,omitempty"`
	Description   *string `json:"description,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`

	PaidAt     *time.Time `json:"paid_at,omitempty"`
	FailedAt   *time.Time `json:"failed_at,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TransactionDTO is the external representation of one gateway attempt.
type TransactionDTO struct {
	ID                   int64                   `json:"id"`
	PaymentID            int64                   `json:"payment_id"`
	TransactionID        string                  `json:"transaction_id"`
	TransactionType      enums.TransactionType   `json:"transaction_type"`
	Amount               decimal.Decimal         `json:"amount"`
	Status               enums.TransactionStatus `json:"status"`
	GatewayTransactionID *string                 `json:"gateway_transaction_id,omitempty"`
	Remarks              *string                 `json:"remarks,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
}

// RefundDTO is the external representation of a refund.
type RefundDTO struct {
	ID              int64              `json:"id"`
	RefundID        string             `json:"refund_id"`
	PaymentID       int64              `json:"payment_id"`
	OrderID         int64              `json:"order_id"`
	Amount          decimal.Decimal    `json:"amount"`
	RefundedAmount  decimal.Decimal    `json:"refunded_amount"`
	Status          enums.RefundStatus `json:"status"`
	Reason          enums.RefundReason `json:"reason"`
	GatewayRefundID *string            `json:"gateway_refund_id,omitempty"`
	Remarks         *string            `json:"remarks,omitempty"`
	InitiatedBy     *int64             `json:"initiated_by,omitempty"`
	ProcessedAt     *time.Time         `json:"processed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func paymentFromModel(m *models.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:                   m.ID,
		PaymentID:            m.PaymentID,
		OrderID:              m.OrderID,
		OrderNumber:          m.OrderNumber,
		UserID:               m.UserID,
		Amount:               m.Amount,
		Currency:             m.Currency,
		PaymentMethod:        m.PaymentMethod,
		Status:               m.Status,
		PaymentGateway:       m.PaymentGateway,
		GatewayTransactionID: m.GatewayTransactionID,
		CardLast4Digits:      m.CardLast4Digits,
		CardBrand:            m.CardBrand,
		UPIID:                m.UPIID,
		BankName:             m.BankName,
		AccountNumber:        m.AccountNumber,
		WalletProvider:       m.WalletProvider,
		CustomerEmail:        m.CustomerEmail,
		Description:          m.Description,
		FailureReason:        m.FailureReason,
		PaidAt:               m.PaidAt,
		FailedAt:             m.FailedAt,
		RefundedAt:           m.RefundedAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func paymentsFromModels(ms []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *paymentFromModel(&ms[i]))
	}
	return out
}

func transactionFromModel(m *models.PaymentTransaction) *TransactionDTO {
	return &TransactionDTO{
		ID:                   m.ID,
		PaymentID:            m.PaymentID,
		TransactionID:        m.TransactionID,
		TransactionType:      m.TransactionType,
		Amount:               m.Amount,
		Status:               m.Status,
		GatewayTransactionID: m.GatewayTransactionID,
		Remarks:              m.Remarks,
		CreatedAt:            m.CreatedAt,
	}
}

func transactionsFromModels(ms []models.PaymentTransaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *transactionFromModel(&ms[i]))
	}
	return out
}

func refundFromModel(m *models.Refund) *RefundDTO {
	return &RefundDTO{
		ID:              m.ID,
		RefundID:        m.RefundID,
		PaymentID:       m.PaymentID,
		OrderID:         m.OrderID,
		Amount:          m.Amount,
		RefundedAmount:  m.RefundedAmount,
		Status:          m.Status,
		Reason:          m.Reason,
		GatewayRefundID: m.GatewayRefundID,
		Remarks:         m.Remarks,
		InitiatedBy:     m.InitiatedBy,
		ProcessedAt:     m.ProcessedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func refundsFromModels(ms []models.Refund) []RefundDTO {
	out := make([]RefundDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *refundFromModel(&ms[i]))
	}
	return out
}
