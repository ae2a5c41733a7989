package payments

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/responses"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/validators"
	paymentsvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/payments"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

type createPaymentRequest struct {
	OrderID        int64           `json:"order_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method" validate:"required"`
	Currency       *string         `json:"currency,omitempty"`
	CardNumber     *string         `json:"card_number,omitempty"`
	UPIID          *string         `json:"upi_id,omitempty"`
	BankName       *string         `json:"bank_name,omitempty"`
	AccountNumber  *string         `json:"account_number,omitempty"`
	WalletProvider *string         `json:"wallet_provider,omitempty"`
	Description    *string         `json:"description,omitempty"`
}

func (r createPaymentRequest) toInput() (paymentsvc.CreatePaymentInput, error) {
	method, err := enums.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return paymentsvc.CreatePaymentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	return paymentsvc.CreatePaymentInput{
		OrderID:        r.OrderID,
		Amount:         r.Amount,
		PaymentMethod:  method,
		Currency:       r.Currency,
		CardNumber:     r.CardNumber,
		UPIID:          r.UPIID,
		BankName:       r.BankName,
		AccountNumber:  r.AccountNumber,
		WalletProvider: r.WalletProvider,
		Description:    r.Description,
	}, nil
}

type createRefundRequest struct {
	PaymentID   int64           `json:"payment_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason" validate:"required"`
	Remarks     *string         `json:"remarks,omitempty"`
	InitiatedBy *int64          `json:"initiated_by,omitempty"`
}

func (r createRefundRequest) toInput() (paymentsvc.CreateRefundInput, error) {
	reason, err := enums.ParseRefundReason(r.Reason)
	if err != nil {
		return paymentsvc.CreateRefundInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid refund reason")
	}
	return paymentsvc.CreateRefundInput{
		PaymentID:   r.PaymentID,
		Amount:      r.Amount,
		Reason:      reason,
		Remarks:     r.Remarks,
		InitiatedBy: r.InitiatedBy,
	}, nil
}

// CreatePayment records a payment for an order and settles it unless the
// method is cash on delivery.
func CreatePayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.CreatePayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// ProcessPayment re-drives a pending payment through the gateway.
func ProcessPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.ProcessPayment(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// ConfirmCOD marks a cash-on-delivery payment as collected.
func ConfirmCOD(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.ConfirmCashOnDelivery(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// GetPayment returns a payment by id.
func GetPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.GetPayment(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// GetPaymentByNumber returns a payment by its PAY number.
func GetPaymentByNumber(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParsePathString(r, "paymentNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.GetPaymentByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// GetPaymentByOrder returns the payment for an order.
func GetPaymentByOrder(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.GetPaymentByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// ListPaymentsByUser returns a user's payments, newest first.
func ListPaymentsByUser(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParsePathID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payments, err := svc.ListPaymentsByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payments)
	}
}

// ListPaymentsByStatus returns payments in one lifecycle state.
func ListPaymentsByStatus(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := validators.ParsePathString(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}
		payments, err := svc.ListPaymentsByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payments)
	}
}

// GetPaymentTransactions returns the gateway attempt audit trail.
func GetPaymentTransactions(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txns, err := svc.GetTransactions(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txns)
	}
}

// DeletePayment removes a payment that never completed.
func DeletePayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeletePayment(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CreateRefund raises a refund against a settled payment.
func CreateRefund(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRefundRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refund, err := svc.CreateRefund(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, refund)
	}
}

// ProcessRefund settles a pending refund through the gateway.
func ProcessRefund(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "refundId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refund, err := svc.ProcessRefund(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refund)
	}
}

// CancelRefund withdraws a refund that has not been processed.
func CancelRefund(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "refundId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refund, err := svc.CancelRefund(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refund)
	}
}

// GetRefund returns a refund by id.
func GetRefund(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "refundId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refund, err := svc.GetRefund(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refund)
	}
}

// GetRefundByNumber returns a refund by its REF number.
func GetRefundByNumber(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParsePathString(r, "refundNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refund, err := svc.GetRefundByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refund)
	}
}

// ListRefundsByPayment returns every refund raised against a payment.
func ListRefundsByPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID, err := validators.ParsePathID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refunds, err := svc.ListRefundsByPayment(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refunds)
	}
}

// ListRefundsByOrder returns the refunds raised against an order's payment.
func ListRefundsByOrder(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refunds, err := svc.ListRefundsByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refunds)
	}
}

// ListRefundsByStatus returns refunds in one lifecycle state.
func ListRefundsByStatus(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := validators.ParsePathString(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseRefundStatus(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid refund status"))
			return
		}
		refunds, err := svc.ListRefundsByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refunds)
	}
}
