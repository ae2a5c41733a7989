package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/internal/clients"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

// taxRate applies to (subtotal - discount) at creation time.
var taxRate = decimal.RequireFromString("0.10")

type userDirectory interface {
	GetUser(ctx context.Context, id int64) (*clients.User, error)
}

type productCatalog interface {
	GetProduct(ctx context.Context, id int64) (*clients.Product, error)
}

type stockLedger interface {
	CheckAvailability(ctx context.Context, productID int64, quantity int) (*clients.Availability, error)
	Reserve(ctx context.Context, productID int64, quantity int, referenceID string) error
	Release(ctx context.Context, productID int64, quantity int, referenceID string) error
	Confirm(ctx context.Context, productID int64, quantity int, referenceID string) error
}

// Service exposes order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetByID(ctx context.Context, id int64) (*OrderDTO, error)
	GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, id int64, input StatusUpdateInput) (*OrderDTO, error)
	Cancel(ctx context.Context, id int64, input CancelInput) (*OrderDTO, error)
	Delete(ctx context.Context, id int64) error
	GetHistory(ctx context.Context, orderID int64) ([]StatusHistoryDTO, error)
}

type service struct {
	repo      *Repository
	users     userDirectory
	products  productCatalog
	inventory stockLedger
	logg      *logger.Logger
}

// NewService builds an order service with the provided repository and peers.
func NewService(repo *Repository, users userDirectory, products productCatalog, inventory stockLedger, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product client required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, users: users, products: products, inventory: inventory, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	for _, item := range input.Items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "items need a product id and a positive quantity")
		}
	}
	if input.PaymentMethod != nil && !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	if _, err := s.users.GetUser(ctx, input.UserID); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	orderNumber := formatOrderNumber(time.Now(), count)
	ctx = s.logg.WithOrderNumber(ctx, orderNumber)

	// Resolve products, precheck availability and snapshot prices.
	items := make([]models.OrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, item := range input.Items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", item.ProductID))
			}
			return nil, err
		}
		availability, err := s.inventory.CheckAvailability(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !availability.Available {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"product_id": item.ProductID,
					"requested":  item.Quantity,
					"available":  availability.AvailableQuantity,
				})
		}

		effective := product.Price
		if product.DiscountPrice != nil {
			effective = *product.DiscountPrice
		}
		total := effective.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(total)

		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductImageURL: product.ImageURL,
			SKU:             product.SKU,
			Quantity:        item.Quantity,
			UnitPrice:       product.Price,
			DiscountPrice:   product.DiscountPrice,
			TotalPrice:      total,
		})
	}

	discount := decimal.Zero
	if input.DiscountAmount != nil {
		if input.DiscountAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
		}
		discount = input.DiscountAmount.Round(2)
	}
	shipping := decimal.Zero
	if input.ShippingFee != nil {
		if input.ShippingFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping fee must not be negative")
		}
		shipping = input.ShippingFee.Round(2)
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Round(2)
	total := taxable.Add(tax).Add(shipping).Round(2)

	billing := input.Shipping
	if input.Billing != nil {
		billing = *input.Billing
	}

	order := &models.Order{
		OrderNumber:   orderNumber,
		UserID:        input.UserID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Items:         items,

		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		ShippingFee:    shipping,
		TotalAmount:    total,

		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		PaymentMethod: input.PaymentMethod,

		ShippingAddress: input.Shipping.Address,
		ShippingCity:    input.Shipping.City,
		ShippingState:   input.Shipping.State,
		ShippingCountry: input.Shipping.Country,
		ShippingZipCode: input.Shipping.ZipCode,

		BillingAddress: billing.Address,
		BillingCity:    billing.City,
		BillingState:   billing.State,
		BillingCountry: billing.Country,
		BillingZipCode: billing.ZipCode,

		Notes: input.Notes,
	}

	err = s.repo.InTx(ctx, func(tx *Repository) error {
		if _, err := tx.Create(ctx, order); err != nil {
			return err
		}
		remarks := "Order created"
		_, err := tx.CreateHistory(ctx, &models.OrderStatusHistory{
			OrderID:   order.ID,
			NewStatus: enums.OrderStatusPending,
			Remarks:   &remarks,
		})
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	// Reserve stock per item. A failure after partial success rolls the
	// earlier reservations back best effort and drops the order.
	for i, item := range order.Items {
		if err := s.inventory.Reserve(ctx, item.ProductID, item.Quantity, orderNumber); err != nil {
			compErr := s.compensateReservations(ctx, order, i)
			if compErr != nil {
				s.logg.Error(ctx, "reservation rollback incomplete", compErr)
			}
			return nil, err
		}
	}

	return orderFromModel(order), nil
}

// compensateReservations releases the first reserved items and deletes the
// persisted order after a failed reserve. Errors are collected rather than
// short-circuiting so every item gets a release attempt.
func (s *service) compensateReservations(ctx context.Context, order *models.Order, reserved int) error {
	var errs error
	for _, item := range order.Items[:reserved] {
		if err := s.inventory.Release(ctx, item.ProductID, item.Quantity, order.OrderNumber); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("release product %d: %w", item.ProductID, err))
		}
	}
	if err := s.repo.Delete(ctx, order.ID); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete order: %w", err))
	}
	return errs
}

func (s *service) GetByID(ctx context.Context, id int64) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapOrderReadErr(err)
	}
	return orderFromModel(order), nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error) {
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, mapOrderReadErr(err)
	}
	return orderFromModel(order), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]OrderDTO, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return ordersFromModels(items), nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, input StatusUpdateInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapOrderReadErr(err)
	}
	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)

	if !CanTransition(order.Status, input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
	}

	previous := order.Status
	now := time.Now().UTC()

	switch input.Status {
	case enums.OrderStatusConfirmed:
		// Confirm every reservation before touching the order; a failed
		// confirm aborts the transition.
		for _, item := range order.Items {
			if err := s.inventory.Confirm(ctx, item.ProductID, item.Quantity, order.OrderNumber); err != nil {
				return nil, err
			}
		}
		order.ConfirmedAt = &now
		order.PaymentStatus = enums.PaymentStatusCompleted
	case enums.OrderStatusShipped:
		order.ShippedAt = &now
	case enums.OrderStatusDelivered:
		order.DeliveredAt = &now
	case enums.OrderStatusCancelled:
		order.CancelledAt = &now
		order.CancellationReason = input.Remarks
		s.releaseItems(ctx, order)
	}
	order.Status = input.Status

	err = s.repo.InTx(ctx, func(tx *Repository) error {
		if err := tx.Update(ctx, order); err != nil {
			return err
		}
		_, err := tx.CreateHistory(ctx, &models.OrderStatusHistory{
			OrderID:        order.ID,
			PreviousStatus: &previous,
			NewStatus:      input.Status,
			Remarks:        input.Remarks,
			ChangedBy:      input.ChangedBy,
		})
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return orderFromModel(order), nil
}

// releaseItems returns reserved stock on cancellation. Failures are logged
// and swallowed; the cancellation itself must not fail.
func (s *service) releaseItems(ctx context.Context, order *models.Order) {
	for _, item := range order.Items {
		if err := s.inventory.Release(ctx, item.ProductID, item.Quantity, order.OrderNumber); err != nil {
			s.logg.Error(ctx, fmt.Sprintf("release stock for product %d failed", item.ProductID), err)
		}
	}
}

// Cancel is the dedicated cancellation path. Unlike the generic CANCELLED
// transition it also flips payment status to REFUNDED.
func (s *service) Cancel(ctx context.Context, id int64, input CancelInput) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapOrderReadErr(err)
	}
	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)

	if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot cancel order in status %s", order.Status))
	}

	previous := order.Status
	now := time.Now().UTC()
	reason := strings.TrimSpace(input.Reason)

	order.Status = enums.OrderStatusCancelled
	order.PaymentStatus = enums.PaymentStatusRefunded
	order.CancelledAt = &now
	if reason != "" {
		order.CancellationReason = &reason
	}
	s.releaseItems(ctx, order)

	err = s.repo.InTx(ctx, func(tx *Repository) error {
		if err := tx.Update(ctx, order); err != nil {
			return err
		}
		remarks := "Order cancelled"
		if reason != "" {
			remarks = reason
		}
		_, err := tx.CreateHistory(ctx, &models.OrderStatusHistory{
			OrderID:        order.ID,
			PreviousStatus: &previous,
			NewStatus:      enums.OrderStatusCancelled,
			Remarks:        &remarks,
			ChangedBy:      input.ChangedBy,
		})
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return orderFromModel(order), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapOrderReadErr(err)
	}
	if order.Status != enums.OrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only cancelled orders can be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) GetHistory(ctx context.Context, orderID int64) ([]StatusHistoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		return nil, mapOrderReadErr(err)
	}
	items, err := s.repo.ListHistory(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order history")
	}
	return historiesFromModels(items), nil
}

func mapOrderReadErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}
