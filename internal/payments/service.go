package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/internal/clients"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

type orderDirectory interface {
	GetOrder(ctx context.Context, id int64) (*clients.Order, error)
}

// Service exposes payment and refund lifecycle operations.
type Service interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*PaymentDTO, error)
	ProcessPayment(ctx context.Context, id int64) (*PaymentDTO, error)
	ConfirmCashOnDelivery(ctx context.Context, id int64) (*PaymentDTO, error)
	GetPayment(ctx context.Context, id int64) (*PaymentDTO, error)
	GetPaymentByNumber(ctx context.Context, paymentID string) (*PaymentDTO, error)
	GetPaymentByOrder(ctx context.Context, orderID int64) (*PaymentDTO, error)
	ListPaymentsByUser(ctx context.Context, userID int64) ([]PaymentDTO, error)
	ListPaymentsByStatus(ctx context.Context, status enums.PaymentStatus) ([]PaymentDTO, error)
	GetTransactions(ctx context.Context, paymentID int64) ([]TransactionDTO, error)
	DeletePayment(ctx context.Context, id int64) error

	CreateRefund(ctx context.Context, input CreateRefundInput) (*RefundDTO, error)
	ProcessRefund(ctx context.Context, id int64) (*RefundDTO, error)
	CancelRefund(ctx context.Context, id int64) (*RefundDTO, error)
	GetRefund(ctx context.Context, id int64) (*RefundDTO, error)
	GetRefundByNumber(ctx context.Context, refundID string) (*RefundDTO, error)
	ListRefundsByPayment(ctx context.Context, paymentID int64) ([]RefundDTO, error)
	ListRefundsByOrder(ctx context.Context, orderID int64) ([]RefundDTO, error)
	ListRefundsByStatus(ctx context.Context, status enums.RefundStatus) ([]RefundDTO, error)
}

type service struct {
	repo    *Repository
	orders  orderDirectory
	gateway Gateway
	logg    *logger.Logger
}

// NewService builds a payment service over the store, the order service
// client and a settlement gateway.
func NewService(repo *Repository, orders orderDirectory, gateway Gateway, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order client required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, orders: orders, gateway: gateway, logg: logg}, nil
}

func (s *service) CreatePayment(ctx context.Context, input CreatePaymentInput) (*PaymentDTO, error) {
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}

	exists, err := s.repo.ExistsByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payment")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("payment already exists for order %d", input.OrderID))
	}

	order, err := s.orders.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count payments")
	}
	now := time.Now()
	number := formatPaymentNumber(now, count)
	ctx = s.logg.WithPaymentNumber(ctx, number)

	gateway := input.PaymentMethod.Gateway()
	currency := "USD"
	if input.Currency != nil && *input.Currency != "" {
		currency = *input.Currency
	}

	payment := &models.Payment{
		PaymentID:      number,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		Amount:         input.Amount,
		Currency:       currency,
		PaymentMethod:  input.PaymentMethod,
		Status:         enums.PaymentStatusPending,
		PaymentGateway: &gateway,
		UPIID:          input.UPIID,
		BankName:       input.BankName,
		WalletProvider: input.WalletProvider,
		CustomerEmail:  &order.CustomerEmail,
		Description:    input.Description,
	}
	if input.CardNumber != nil && *input.CardNumber != "" {
		last4 := lastFour(*input.CardNumber)
		brand := enums.DetectCardBrand(*input.CardNumber).String()
		payment.CardLast4Digits = &last4
		payment.CardBrand = &brand
	}
	if input.AccountNumber != nil && *input.AccountNumber != "" {
		masked := lastFour(*input.AccountNumber)
		payment.AccountNumber = &masked
	}

	if _, err := s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}
	s.logg.Info(ctx, "payment created")

	// Cash stays pending until the courier collects it.
	if input.PaymentMethod == enums.PaymentMethodCashOnDelivery {
		return paymentFromModel(payment), nil
	}

	outcome := s.gateway.Charge(ctx, payment.Amount)
	settledAt := time.Now()
	applyChargeOutcome(payment, outcome, settledAt)
	txn := chargeTransaction(payment, outcome, settledAt)

	err = s.repo.InTx(ctx, func(tx *Repository) error {
		if _, err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		return tx.Update(ctx, payment)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle payment")
	}
	if outcome.Succeeded {
		s.logg.Info(ctx, "payment completed")
	} else {
		s.logg.Warn(ctx, "payment declined")
	}
	return paymentFromModel(payment), nil
}

// ProcessPayment re-drives a payment that is still pending, for example a
// charge whose first attempt never reached the gateway.
func (s *service) ProcessPayment(ctx context.Context, id int64) (*PaymentDTO, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	if payment.Status != enums.PaymentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot process payment in status %s", payment.Status))
	}
	ctx = s.logg.WithPaymentNumber(ctx, payment.PaymentID)

	txn := &models.PaymentTransaction{
		PaymentID:       payment.ID,
		TransactionID:   formatTransactionID(time.Now()),
		TransactionType: enums.TransactionTypeCharge,
		Amount:          payment.Amount,
		Status:          enums.TransactionStatusPending,
	}
	if _, err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record transaction")
	}

	outcome := s.gateway.Charge(ctx, payment.Amount)
	settledAt := time.Now()
	applyChargeOutcome(payment, outcome, settledAt)
	if outcome.Succeeded {
		txn.Status = enums.TransactionStatusSuccess
		txn.GatewayTransactionID = &outcome.TransactionID
	} else {
		txn.Status = enums.TransactionStatusFailed
		reason := outcome.FailureReason
		txn.Remarks = &reason
	}

	err = s.repo.InTx(ctx, func(tx *Repository) error {
		if err := tx.UpdateTransaction(ctx, txn); err != nil {
			return err
		}
		return tx.Update(ctx, payment)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle payment")
	}
	if outcome.Succeeded {
		s.logg.Info(ctx, "payment completed")
	} else {
		s.logg.Warn(ctx, "payment declined")
	}
	return paymentFromModel(payment), nil
}

func (s *service) ConfirmCashOnDelivery(ctx context.Context, id int64) (*PaymentDTO, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	if payment.PaymentMethod != enums.PaymentMethodCashOnDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is not cash on delivery")
	}
	if payment.Status != enums.PaymentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot confirm payment in status %s", payment.Status))
	}
	ctx = s.logg.WithPaymentNumber(ctx, payment.PaymentID)

	now := time.Now()
	payment.Status = enums.PaymentStatusCompleted
	payment.PaidAt = &now
	remarks := "Cash collected on delivery"
	txn := &models.PaymentTransaction{
		PaymentID:       payment.ID,
		TransactionID:   formatTransactionID(now),
		TransactionType: enums.TransactionTypeCharge,
		Amount:          payment.Amount,
		Status:          enums.TransactionStatusSuccess,
		Remarks:         &remarks,
	}

	err = s.repo.InTx(ctx, func(tx *Repository) error {
		if _, err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		return tx.Update(ctx, payment)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
	}
	s.logg.Info(ctx, "cash on delivery confirmed")
	return paymentFromModel(payment), nil
}

func (s *service) GetPayment(ctx context.Context, id int64) (*PaymentDTO, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	return paymentFromModel(payment), nil
}

func (s *service) GetPaymentByNumber(ctx context.Context, paymentID string) (*PaymentDTO, error) {
	payment, err := s.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	return paymentFromModel(payment), nil
}

func (s *service) GetPaymentByOrder(ctx context.Context, orderID int64) (*PaymentDTO, error) {
	payment, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	return paymentFromModel(payment), nil
}

func (s *service) ListPaymentsByUser(ctx context.Context, userID int64) ([]PaymentDTO, error) {
	payments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return paymentsFromModels(payments), nil
}

func (s *service) ListPaymentsByStatus(ctx context.Context, status enums.PaymentStatus) ([]PaymentDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", status))
	}
	payments, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return paymentsFromModels(payments), nil
}

func (s *service) GetTransactions(ctx context.Context, paymentID int64) ([]TransactionDTO, error) {
	if _, err := s.repo.FindByID(ctx, paymentID); err != nil {
		return nil, mapPaymentReadErr(err)
	}
	txns, err := s.repo.ListTransactions(ctx, paymentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return transactionsFromModels(txns), nil
}

func (s *service) DeletePayment(ctx context.Context, id int64) error {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapPaymentReadErr(err)
	}
	if payment.Status == enums.PaymentStatusCompleted {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "completed payments cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapPaymentReadErr(err)
	}
	return nil
}

func (s *service) CreateRefund(ctx context.Context, input CreateRefundInput) (*RefundDTO, error) {
	if input.PaymentID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid refund reason %q", input.Reason))
	}

	payment, err := s.repo.FindByID(ctx, input.PaymentID)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	if payment.Status != enums.PaymentStatusCompleted && payment.Status != enums.PaymentStatusPartiallyRefunded {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot refund payment in status %s", payment.Status))
	}

	already, err := s.completedRefundTotal(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	refundable := payment.Amount.Sub(already)
	if input.Amount.GreaterThan(refundable) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientRefund, "refund amount exceeds refundable balance").
			WithDetails(map[string]any{
				"payment_id": payment.PaymentID,
				"requested":  input.Amount.String(),
				"refundable": refundable.String(),
			})
	}

	count, err := s.repo.CountRefunds(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count refunds")
	}
	refund := &models.Refund{
		RefundID:       formatRefundNumber(time.Now(), count),
		PaymentID:      payment.ID,
		OrderID:        payment.OrderID,
		Amount:         input.Amount,
		RefundedAmount: decimal.Zero,
		Status:         enums.RefundStatusPending,
		Reason:         input.Reason,
		Remarks:        input.Remarks,
		InitiatedBy:    input.InitiatedBy,
	}
	if _, err := s.repo.CreateRefund(ctx, refund); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refund")
	}
	ctx = s.logg.WithPaymentNumber(ctx, payment.PaymentID)
	s.logg.Info(ctx, "refund created")
	return refundFromModel(refund), nil
}

func (s *service) ProcessRefund(ctx context.Context, id int64) (*RefundDTO, error) {
	refund, err := s.repo.FindRefundByID(ctx, id)
	if err != nil {
		return nil, mapRefundReadErr(err)
	}
	if refund.Status != enums.RefundStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot process refund in status %s", refund.Status))
	}

	payment, err := s.repo.FindByID(ctx, refund.PaymentID)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	ctx = s.logg.WithPaymentNumber(ctx, payment.PaymentID)

	refund.Status = enums.RefundStatusProcessing
	if err := s.repo.UpdateRefund(ctx, refund); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update refund")
	}

	outcome := s.gateway.Refund(ctx, refund.Amount)
	if !outcome.Succeeded {
		refund.Status = enums.RefundStatusFailed
		reason := outcome.FailureReason
		refund.Remarks = &reason
		if err := s.repo.UpdateRefund(ctx, refund); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update refund")
		}
		s.logg.Warn(ctx, "refund declined")
		return refundFromModel(refund), nil
	}

	already, err := s.completedRefundTotal(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	refund.Status = enums.RefundStatusCompleted
	refund.RefundedAmount = refund.Amount
	refund.ProcessedAt = &now
	refund.GatewayRefundID = &outcome.TransactionID

	cumulative := already.Add(refund.Amount)
	if cumulative.GreaterThanOrEqual(payment.Amount) {
		payment.Status = enums.PaymentStatusRefunded
		payment.RefundedAt = &now
	} else {
		payment.Status = enums.PaymentStatusPartiallyRefunded
	}
	txn := &models.PaymentTransaction{
		PaymentID:            payment.ID,
		TransactionID:        formatTransactionID(now),
		TransactionType:      enums.TransactionTypeRefund,
		Amount:               refund.Amount,
		Status:               enums.TransactionStatusSuccess,
		GatewayTransactionID: &outcome.TransactionID,
		Remarks:              &refund.RefundID,
	}

	err = s.repo.InTx(ctx, func(tx *Repository) error {
		if err := tx.UpdateRefund(ctx, refund); err != nil {
			return err
		}
		if err := tx.Update(ctx, payment); err != nil {
			return err
		}
		_, err := tx.CreateTransaction(ctx, txn)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle refund")
	}
	s.logg.Info(ctx, "refund completed")
	return refundFromModel(refund), nil
}

func (s *service) CancelRefund(ctx context.Context, id int64) (*RefundDTO, error) {
	refund, err := s.repo.FindRefundByID(ctx, id)
	if err != nil {
		return nil, mapRefundReadErr(err)
	}
	if refund.Status != enums.RefundStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot cancel refund in status %s", refund.Status))
	}
	refund.Status = enums.RefundStatusCancelled
	if err := s.repo.UpdateRefund(ctx, refund); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update refund")
	}
	return refundFromModel(refund), nil
}

func (s *service) GetRefund(ctx context.Context, id int64) (*RefundDTO, error) {
	refund, err := s.repo.FindRefundByID(ctx, id)
	if err != nil {
		return nil, mapRefundReadErr(err)
	}
	return refundFromModel(refund), nil
}

func (s *service) GetRefundByNumber(ctx context.Context, refundID string) (*RefundDTO, error) {
	refund, err := s.repo.FindRefundByRefundID(ctx, refundID)
	if err != nil {
		return nil, mapRefundReadErr(err)
	}
	return refundFromModel(refund), nil
}

func (s *service) ListRefundsByPayment(ctx context.Context, paymentID int64) ([]RefundDTO, error) {
	if _, err := s.repo.FindByID(ctx, paymentID); err != nil {
		return nil, mapPaymentReadErr(err)
	}
	refunds, err := s.repo.ListRefundsByPayment(ctx, paymentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	return refundsFromModels(refunds), nil
}

func (s *service) ListRefundsByOrder(ctx context.Context, orderID int64) ([]RefundDTO, error) {
	payment, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, mapPaymentReadErr(err)
	}
	refunds, err := s.repo.ListRefundsByPayment(ctx, payment.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	return refundsFromModels(refunds), nil
}

func (s *service) ListRefundsByStatus(ctx context.Context, status enums.RefundStatus) ([]RefundDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid refund status %q", status))
	}
	refunds, err := s.repo.ListRefundsByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	return refundsFromModels(refunds), nil
}

func (s *service) completedRefundTotal(ctx context.Context, paymentID int64) (decimal.Decimal, error) {
	refunds, err := s.repo.ListCompletedRefunds(ctx, paymentID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load completed refunds")
	}
	total := decimal.Zero
	for i := range refunds {
		total = total.Add(refunds[i].RefundedAmount)
	}
	return total, nil
}

func applyChargeOutcome(payment *models.Payment, outcome GatewayOutcome, at time.Time) {
	if outcome.Succeeded {
		response := "approved"
		payment.Status = enums.PaymentStatusCompleted
		payment.GatewayTransactionID = &outcome.TransactionID
		payment.GatewayResponse = &response
		payment.PaidAt = &at
		return
	}
	reason := outcome.FailureReason
	payment.Status = enums.PaymentStatusFailed
	payment.FailureReason = &reason
	payment.GatewayResponse = &reason
	payment.FailedAt = &at
}

func chargeTransaction(payment *models.Payment, outcome GatewayOutcome, at time.Time) *models.PaymentTransaction {
	txn := &models.PaymentTransaction{
		PaymentID:       payment.ID,
		TransactionID:   formatTransactionID(at),
		TransactionType: enums.TransactionTypeCharge,
		Amount:          payment.Amount,
		Status:          enums.TransactionStatusSuccess,
	}
	if outcome.Succeeded {
		txn.GatewayTransactionID = &outcome.TransactionID
	} else {
		txn.Status = enums.TransactionStatusFailed
		reason := outcome.FailureReason
		txn.Remarks = &reason
	}
	return txn
}

func lastFour(value string) string {
	if len(value) <= 4 {
		return value
	}
	return value[len(value)-4:]
}

func mapPaymentReadErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
}

func mapRefundReadErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "refund not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
}
