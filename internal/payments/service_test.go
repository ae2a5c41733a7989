package payments

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/internal/clients"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/config"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

type fakeGateway struct {
	chargeOK bool
	refundOK bool
	charges  []decimal.Decimal
	refunds  []decimal.Decimal
}

func (g *fakeGateway) Charge(_ context.Context, amount decimal.Decimal) GatewayOutcome {
	g.charges = append(g.charges, amount)
	if g.chargeOK {
		return GatewayOutcome{Succeeded: true, TransactionID: "GW-" + uuid.NewString()}
	}
	return GatewayOutcome{FailureReason: "payment declined by gateway"}
}

func (g *fakeGateway) Refund(_ context.Context, amount decimal.Decimal) GatewayOutcome {
	g.refunds = append(g.refunds, amount)
	if g.refundOK {
		return GatewayOutcome{Succeeded: true, TransactionID: "REF-GW-" + uuid.NewString()}
	}
	return GatewayOutcome{FailureReason: "refund declined by gateway"}
}

type stubOrders struct {
	orders map[int64]*clients.Order
}

func (s *stubOrders) GetOrder(_ context.Context, id int64) (*clients.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:payments_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Payment{}, &models.PaymentTransaction{}, &models.Refund{}))
	return db
}

func newTestService(t *testing.T, gw Gateway) (Service, *Repository, *stubOrders) {
	t.Helper()
	repo := NewRepository(setupPaymentsTestDB(t))
	orders := &stubOrders{orders: map[int64]*clients.Order{
		1: {
			ID:            1,
			OrderNumber:   "ORD-20260828-00001",
			UserID:        7,
			CustomerEmail: "jane@example.com",
			TotalAmount:   decimal.RequireFromString("137.00"),
			Status:        "PENDING",
			PaymentStatus: "PENDING",
		},
	}}
	logg := logger.New(logger.Options{ServiceName: "payment-service-test", Output: io.Discard})
	svc, err := NewService(repo, orders, gw, logg)
	require.NoError(t, err)
	return svc, repo, orders
}

func cardInput(amount string) CreatePaymentInput {
	card := "4111111111111111"
	return CreatePaymentInput{
		OrderID:       1,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: enums.PaymentMethodCreditCard,
		CardNumber:    &card,
	}
}

func TestCreateCardPaymentCompletes(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true})

	payment, err := svc.CreatePayment(context.Background(), cardInput("137.00"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(payment.PaymentID, "PAY-"))
	assert.True(t, strings.HasSuffix(payment.PaymentID, "-00001"))
	assert.Equal(t, enums.PaymentStatusCompleted, payment.Status)
	assert.NotNil(t, payment.PaidAt)
	require.NotNil(t, payment.GatewayTransactionID)
	assert.True(t, strings.HasPrefix(*payment.GatewayTransactionID, "GW-"))
	require.NotNil(t, payment.PaymentGateway)
	assert.Equal(t, enums.PaymentGatewayStripe, *payment.PaymentGateway)
	require.NotNil(t, payment.CardLast4Digits)
	assert.Equal(t, "1111", *payment.CardLast4Digits)
	require.NotNil(t, payment.CardBrand)
	assert.Equal(t, "VISA", *payment.CardBrand)
	assert.Equal(t, int64(7), payment.UserID)
	assert.Equal(t, "ORD-20260828-00001", payment.OrderNumber)

	txns, err := svc.GetTransactions(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.TransactionTypeCharge, txns[0].TransactionType)
	assert.Equal(t, enums.TransactionStatusSuccess, txns[0].Status)
	assert.True(t, strings.HasPrefix(txns[0].TransactionID, "TXN-"))
}

func TestCreatePaymentDeclineIsADomainOutcome(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: false})

	payment, err := svc.CreatePayment(context.Background(), cardInput("137.00"))
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusFailed, payment.Status)
	require.NotNil(t, payment.FailureReason)
	assert.Equal(t, "payment declined by gateway", *payment.FailureReason)
	assert.NotNil(t, payment.FailedAt)
	assert.Nil(t, payment.PaidAt)

	txns, err := svc.GetTransactions(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.TransactionStatusFailed, txns[0].Status)
}

func TestCreateCashOnDeliveryStaysPending(t *testing.T) {
	gw := &fakeGateway{chargeOK: true}
	svc, _, _ := newTestService(t, gw)

	payment, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		OrderID:       1,
		Amount:        decimal.RequireFromString("137.00"),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusPending, payment.Status)
	require.NotNil(t, payment.PaymentGateway)
	assert.Equal(t, enums.PaymentGatewayInternal, *payment.PaymentGateway)
	assert.Empty(t, gw.charges)

	txns, err := svc.GetTransactions(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreatePaymentRejectsDuplicateOrder(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true})

	_, err := svc.CreatePayment(context.Background(), cardInput("137.00"))
	require.NoError(t, err)

	_, err = svc.CreatePayment(context.Background(), cardInput("137.00"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreatePaymentUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true})

	input := cardInput("137.00")
	input.OrderID = 42
	_, err := svc.CreatePayment(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestProcessPaymentSettlesPending(t *testing.T) {
	gw := &fakeGateway{chargeOK: true}
	svc, repo, _ := newTestService(t, gw)

	seeded, err := repo.Create(context.Background(), &models.Payment{
		PaymentID:     "PAY-20260828-00001",
		OrderID:       1,
		OrderNumber:   "ORD-20260828-00001",
		UserID:        7,
		Amount:        decimal.RequireFromString("50.00"),
		Currency:      "USD",
		PaymentMethod: enums.PaymentMethodWallet,
		Status:        enums.PaymentStatusPending,
	})
	require.NoError(t, err)

	payment, err := svc.ProcessPayment(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, payment.Status)
	assert.NotNil(t, payment.PaidAt)
	require.Len(t, gw.charges, 1)

	txns, err := svc.GetTransactions(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.TransactionStatusSuccess, txns[0].Status)
	assert.NotNil(t, txns[0].GatewayTransactionID)
}

func TestProcessPaymentRequiresPending(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true})

	payment, err := svc.CreatePayment(context.Background(), cardInput("137.00"))
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusCompleted, payment.Status)

	_, err = svc.ProcessPayment(context.Background(), payment.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestConfirmCashOnDelivery(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{})

	payment, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		OrderID:       1,
		Amount:        decimal.RequireFromString("137.00"),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	confirmed, err := svc.ConfirmCashOnDelivery(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, confirmed.Status)
	assert.NotNil(t, confirmed.PaidAt)

	txns, err := svc.GetTransactions(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.TransactionStatusSuccess, txns[0].Status)
	require.NotNil(t, txns[0].Remarks)
	assert.Equal(t, "Cash collected on delivery", *txns[0].Remarks)

	_, err = svc.ConfirmCashOnDelivery(context.Background(), payment.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestConfirmCashOnDeliveryRejectsOtherMethods(t *testing.T) {
	svc, repo, _ := newTestService(t, &fakeGateway{})

	seeded, err := repo.Create(context.Background(), &models.Payment{
		PaymentID:     "PAY-20260828-00001",
		OrderID:       1,
		OrderNumber:   "ORD-20260828-00001",
		UserID:        7,
		Amount:        decimal.RequireFromString("50.00"),
		Currency:      "USD",
		PaymentMethod: enums.PaymentMethodUPI,
		Status:        enums.PaymentStatusPending,
	})
	require.NoError(t, err)

	_, err = svc.ConfirmCashOnDelivery(context.Background(), seeded.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeletePaymentGuardsCompleted(t *testing.T) {
	svc, repo, _ := newTestService(t, &fakeGateway{chargeOK: false})

	payment, err := svc.CreatePayment(context.Background(), cardInput("137.00"))
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusFailed, payment.Status)

	require.NoError(t, svc.DeletePayment(context.Background(), payment.ID))

	_, err = svc.GetPayment(context.Background(), payment.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var orphaned int64
	require.NoError(t, repo.db.Model(&models.PaymentTransaction{}).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestDeletePaymentRejectsCompleted(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true})

	payment, err := svc.CreatePayment(context.Background(), cardInput("137.00"))
	require.NoError(t, err)

	err = svc.DeletePayment(context.Background(), payment.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func completedPayment(t *testing.T, svc Service, amount string) *PaymentDTO {
	t.Helper()
	payment, err := svc.CreatePayment(context.Background(), cardInput(amount))
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusCompleted, payment.Status)
	return payment
}

func TestCreateRefundValidatesBalance(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true, refundOK: true})
	payment := completedPayment(t, svc, "100.00")

	refund, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("30.00"),
		Reason:    enums.RefundReasonCustomerRequest,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(refund.RefundID, "REF-"))
	assert.True(t, strings.HasSuffix(refund.RefundID, "-00001"))
	assert.Equal(t, enums.RefundStatusPending, refund.Status)
	assert.True(t, refund.RefundedAmount.IsZero())
	assert.Equal(t, payment.OrderID, refund.OrderID)

	_, err = svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("120.00"),
		Reason:    enums.RefundReasonCustomerRequest,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientRefund, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "120", details["requested"])
	assert.Equal(t, "100", details["refundable"])
}

func TestCreateRefundRequiresSettledPayment(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{})

	payment, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		OrderID:       1,
		Amount:        decimal.RequireFromString("137.00"),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	_, err = svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("10.00"),
		Reason:    enums.RefundReasonCustomerRequest,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestProcessRefundPartialThenFull(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true, refundOK: true})
	payment := completedPayment(t, svc, "100.00")

	first, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("30.00"),
		Reason:    enums.RefundReasonProductReturn,
	})
	require.NoError(t, err)

	first, err = svc.ProcessRefund(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusCompleted, first.Status)
	assert.True(t, first.RefundedAmount.Equal(decimal.RequireFromString("30.00")))
	assert.NotNil(t, first.ProcessedAt)
	require.NotNil(t, first.GatewayRefundID)
	assert.True(t, strings.HasPrefix(*first.GatewayRefundID, "REF-GW-"))

	partial, err := svc.GetPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPartiallyRefunded, partial.Status)
	assert.Nil(t, partial.RefundedAt)

	second, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("70.00"),
		Reason:    enums.RefundReasonProductReturn,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(second.RefundID, "-00002"))

	_, err = svc.ProcessRefund(context.Background(), second.ID)
	require.NoError(t, err)

	full, err := svc.GetPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusRefunded, full.Status)
	assert.NotNil(t, full.RefundedAt)

	txns, err := svc.GetTransactions(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	// every completed refund appends a REFUND transaction, partial or not
	assert.Equal(t, enums.TransactionTypeRefund, txns[1].TransactionType)
	assert.Equal(t, enums.TransactionTypeRefund, txns[2].TransactionType)

	_, err = svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("1.00"),
		Reason:    enums.RefundReasonOther,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestProcessRefundDeclineMarksFailed(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true, refundOK: false})
	payment := completedPayment(t, svc, "100.00")

	refund, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("40.00"),
		Reason:    enums.RefundReasonProductDefective,
	})
	require.NoError(t, err)

	refund, err = svc.ProcessRefund(context.Background(), refund.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusFailed, refund.Status)
	require.NotNil(t, refund.Remarks)
	assert.Equal(t, "refund declined by gateway", *refund.Remarks)
	assert.True(t, refund.RefundedAmount.IsZero())

	reloaded, err := svc.GetPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, reloaded.Status)

	_, err = svc.ProcessRefund(context.Background(), refund.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCancelRefundPendingOnly(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true, refundOK: true})
	payment := completedPayment(t, svc, "100.00")

	refund, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("25.00"),
		Reason:    enums.RefundReasonWrongProduct,
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelRefund(context.Background(), refund.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusCancelled, cancelled.Status)

	_, err = svc.CancelRefund(context.Background(), refund.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// A cancelled refund never counted toward the balance.
	fresh, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("100.00"),
		Reason:    enums.RefundReasonCustomerRequest,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusPending, fresh.Status)
}

func TestListRefundsByOrder(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGateway{chargeOK: true, refundOK: true})
	payment := completedPayment(t, svc, "100.00")

	refund, err := svc.CreateRefund(context.Background(), CreateRefundInput{
		PaymentID: payment.ID,
		Amount:    decimal.RequireFromString("25.00"),
		Reason:    enums.RefundReasonProductReturn,
	})
	require.NoError(t, err)

	refunds, err := svc.ListRefundsByOrder(context.Background(), payment.OrderID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, refund.RefundID, refunds[0].RefundID)

	_, err = svc.ListRefundsByOrder(context.Background(), 999)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGatewayIdentifierShapes(t *testing.T) {
	gw := NewSimulatedGateway(config.PaymentGatewayConfig{ChargeSuccessPercent: 90, RefundSuccessPercent: 95})
	seenSuccess := false
	for i := 0; i < 50; i++ {
		outcome := gw.Charge(context.Background(), decimal.RequireFromString("10.00"))
		if outcome.Succeeded {
			seenSuccess = true
			assert.True(t, strings.HasPrefix(outcome.TransactionID, "GW-"))
		} else {
			assert.NotEmpty(t, outcome.FailureReason)
		}
	}
	assert.True(t, seenSuccess)
}

func TestTransactionIDFormat(t *testing.T) {
	at := time.Date(2026, 8, 28, 13, 4, 5, 0, time.UTC)
	id := formatTransactionID(at)
	assert.True(t, strings.HasPrefix(id, "TXN-20260828130405-"))
	assert.Len(t, id, len("TXN-20260828130405-0000"))
}
