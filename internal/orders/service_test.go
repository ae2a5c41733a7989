package orders

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/internal/clients"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

type stubUsers struct {
	err error
}

func (s *stubUsers) GetUser(ctx context.Context, id int64) (*clients.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &clients.User{ID: id, Email: "buyer@example.com", IsActive: true}, nil
}

type stubProducts struct {
	products map[int64]*clients.Product
}

func (s *stubProducts) GetProduct(ctx context.Context, id int64) (*clients.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

type ledgerCall struct {
	productID int64
	quantity  int
	reference string
}

type stubLedger struct {
	unavailable   map[int64]bool
	failReserveOn int64
	failConfirm   bool
	failRelease   bool

	reserves []ledgerCall
	releases []ledgerCall
	confirms []ledgerCall
}

func (s *stubLedger) CheckAvailability(ctx context.Context, productID int64, quantity int) (*clients.Availability, error) {
	return &clients.Availability{
		ProductID:         productID,
		Available:         !s.unavailable[productID],
		AvailableQuantity: 100,
		RequestedQuantity: quantity,
	}, nil
}

func (s *stubLedger) Reserve(ctx context.Context, productID int64, quantity int, referenceID string) error {
	if s.failReserveOn == productID {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock")
	}
	s.reserves = append(s.reserves, ledgerCall{productID, quantity, referenceID})
	return nil
}

func (s *stubLedger) Release(ctx context.Context, productID int64, quantity int, referenceID string) error {
	if s.failRelease {
		return pkgerrors.New(pkgerrors.CodeDependency, "inventory unreachable")
	}
	s.releases = append(s.releases, ledgerCall{productID, quantity, referenceID})
	return nil
}

func (s *stubLedger) Confirm(ctx context.Context, productID int64, quantity int, referenceID string) error {
	if s.failConfirm {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "confirmation exceeds reserved quantity")
	}
	s.confirms = append(s.confirms, ledgerCall{productID, quantity, referenceID})
	return nil
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{}))
	return db
}

func testCatalog() *stubProducts {
	discount := decimal.RequireFromString("8.00")
	keyboardImage := "https://cdn.example.com/kb-1.png"
	return &stubProducts{products: map[int64]*clients.Product{
		1: {ID: 1, Name: "Keyboard", SKU: "KB-1", Price: decimal.RequireFromString("50.00"), ImageURL: &keyboardImage, IsActive: true},
		2: {ID: 2, Name: "Mouse", SKU: "MS-1", Price: decimal.RequireFromString("10.00"), DiscountPrice: &discount, IsActive: true},
	}}
}

func newOrderService(t *testing.T, ledger *stubLedger) (Service, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "order-service-test", Output: io.Discard})
	svc, err := NewService(NewRepository(db), &stubUsers{}, testCatalog(), ledger, logg)
	require.NoError(t, err)
	return svc, db
}

func baseInput() CreateOrderInput {
	return CreateOrderInput{
		UserID:        1,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "Buyer@Example.com",
		CustomerPhone: "555-0100",
		Items: []ItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
		Shipping: AddressInput{
			Address: "1 Main St", City: "Springfield", State: "IL", Country: "US", ZipCode: "62701",
		},
	}
}

func TestCreateOrderComputesTotalsAndSnapshotsPrices(t *testing.T) {
	ledger := &stubLedger{}
	svc, db := newOrderService(t, ledger)

	discount := decimal.RequireFromString("4.00")
	shipping := decimal.RequireFromString("5.00")
	input := baseInput()
	input.DiscountAmount = &discount
	input.ShippingFee = &shipping

	dto, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	// 2 x 50.00 plus 3 x 8.00 (discounted unit price wins)
	assert.True(t, dto.Subtotal.Equal(decimal.RequireFromString("124.00")), dto.Subtotal.String())
	// tax = (124 - 4) * 0.10
	assert.True(t, dto.TaxAmount.Equal(decimal.RequireFromString("12.00")), dto.TaxAmount.String())
	// total = 120 + 12 + 5
	assert.True(t, dto.TotalAmount.Equal(decimal.RequireFromString("137.00")), dto.TotalAmount.String())

	assert.Equal(t, enums.OrderStatusPending, dto.Status)
	assert.Equal(t, enums.PaymentStatusPending, dto.PaymentStatus)
	assert.Equal(t, "buyer@example.com", dto.CustomerEmail)
	// billing defaults to shipping
	assert.Equal(t, dto.ShippingAddress, dto.BillingAddress)

	expectedNumber := fmt.Sprintf("ORD-%s-00001", time.Now().UTC().Format("20060102"))
	assert.Equal(t, expectedNumber, dto.OrderNumber)

	require.Len(t, dto.Items, 2)
	assert.True(t, dto.Items[0].TotalPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, dto.Items[1].TotalPrice.Equal(decimal.RequireFromString("24.00")))
	// image travels with the snapshot when the catalog has one
	require.NotNil(t, dto.Items[0].ProductImageURL)
	assert.Equal(t, "https://cdn.example.com/kb-1.png", *dto.Items[0].ProductImageURL)
	assert.Nil(t, dto.Items[1].ProductImageURL)

	// one reservation per item, tagged with the order number
	require.Len(t, ledger.reserves, 2)
	assert.Equal(t, expectedNumber, ledger.reserves[0].reference)

	var history []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", dto.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].PreviousStatus)
	assert.Equal(t, enums.OrderStatusPending, history[0].NewStatus)
}

func TestCreateOrderSequencesOrderNumbers(t *testing.T) {
	svc, _ := newOrderService(t, &stubLedger{})
	ctx := context.Background()

	first, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	today := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("ORD-%s-00001", today), first.OrderNumber)
	assert.Equal(t, fmt.Sprintf("ORD-%s-00002", today), second.OrderNumber)
}

func TestCreateOrderFailsWhenStockUnavailable(t *testing.T) {
	ledger := &stubLedger{unavailable: map[int64]bool{2: true}}
	svc, db := newOrderService(t, ledger)

	_, err := svc.Create(context.Background(), baseInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, ledger.reserves)
}

func TestCreateOrderCompensatesPartialReservation(t *testing.T) {
	ledger := &stubLedger{failReserveOn: 2}
	svc, db := newOrderService(t, ledger)

	_, err := svc.Create(context.Background(), baseInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	// the first item's hold was released and the order dropped
	require.Len(t, ledger.releases, 1)
	assert.Equal(t, int64(1), ledger.releases[0].productID)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmTransitionBurnsReservationsAndMarksPaid(t *testing.T) {
	ledger := &stubLedger{}
	svc, db := newOrderService(t, ledger)
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, updated.Status)
	assert.Equal(t, enums.PaymentStatusCompleted, updated.PaymentStatus)
	assert.NotNil(t, updated.ConfirmedAt)
	require.Len(t, ledger.confirms, 2)

	var history []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", dto.ID).Order("id ASC").Find(&history).Error)
	require.Len(t, history, 2)
	require.NotNil(t, history[1].PreviousStatus)
	assert.Equal(t, enums.OrderStatusPending, *history[1].PreviousStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, history[1].NewStatus)
}

func TestConfirmFailureAbortsTransition(t *testing.T) {
	ledger := &stubLedger{failConfirm: true}
	svc, _ := newOrderService(t, ledger)
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusConfirmed})
	require.Error(t, err)

	fresh, err := svc.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, fresh.Status)
	assert.Equal(t, enums.PaymentStatusPending, fresh.PaymentStatus)
}

func TestInvalidTransitionRejected(t *testing.T) {
	svc, _ := newOrderService(t, &stubLedger{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusShipped})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCancelledTransitionSwallowsReleaseFailures(t *testing.T) {
	ledger := &stubLedger{failRelease: true}
	svc, _ := newOrderService(t, ledger)
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	reason := "customer changed mind"
	updated, err := svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusCancelled, Remarks: &reason})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, updated.Status)
	assert.NotNil(t, updated.CancelledAt)
	require.NotNil(t, updated.CancellationReason)
	assert.Equal(t, reason, *updated.CancellationReason)
}

func TestDedicatedCancelSetsPaymentRefunded(t *testing.T) {
	ledger := &stubLedger{}
	svc, _ := newOrderService(t, ledger)
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusConfirmed})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, dto.ID, CancelInput{Reason: "damaged in warehouse"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, enums.PaymentStatusRefunded, cancelled.PaymentStatus)
	require.Len(t, ledger.releases, 2)
}

func TestCancelRefusedBeyondConfirmed(t *testing.T) {
	svc, _ := newOrderService(t, &stubLedger{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusConfirmed})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusProcessing})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, dto.ID, CancelInput{Reason: "too late"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDeleteOnlyCancelledOrders(t *testing.T) {
	svc, db := newOrderService(t, &stubLedger{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, dto.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = svc.Cancel(ctx, dto.ID, CancelInput{Reason: "cleanup"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, dto.ID))

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestListFilters(t *testing.T) {
	svc, _ := newOrderService(t, &stubLedger{})
	ctx := context.Background()

	first, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	other := baseInput()
	other.UserID = 2
	other.CustomerEmail = "second@example.com"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	userID := int64(1)
	byUser, err := svc.List(ctx, ListFilter{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, first.ID, byUser[0].ID)

	email := "second@example.com"
	byEmail, err := svc.List(ctx, ListFilter{CustomerEmail: &email})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	status := enums.OrderStatusPending
	byStatus, err := svc.List(ctx, ListFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	inRange, err := svc.List(ctx, ListFilter{From: &past, To: &future})
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	outOfRange, err := svc.List(ctx, ListFilter{To: &past})
	require.NoError(t, err)
	assert.Empty(t, outOfRange)
}

func TestGetHistoryOrdered(t *testing.T) {
	svc, _ := newOrderService(t, &stubLedger{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, dto.ID, StatusUpdateInput{Status: enums.OrderStatusConfirmed})
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, dto.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Nil(t, history[0].PreviousStatus)
	assert.Equal(t, enums.OrderStatusPending, history[0].NewStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, history[1].NewStatus)
}
