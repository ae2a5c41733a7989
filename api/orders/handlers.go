package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/responses"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/validators"
	ordersvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/orders"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
)

type addressRequest struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
}

func (a addressRequest) toInput() ordersvc.AddressInput {
	return ordersvc.AddressInput{
		Address: a.Address,
		City:    a.City,
		State:   a.State,
		Country: a.Country,
		ZipCode: a.ZipCode,
	}
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	UserID         int64              `json:"user_id" validate:"required"`
	CustomerName   string             `json:"customer_name" validate:"required"`
	CustomerEmail  string             `json:"customer_email" validate:"required,email"`
	CustomerPhone  string             `json:"customer_phone"`
	Items          []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountAmount *decimal.Decimal   `json:"discount_amount,omitempty"`
	ShippingFee    *decimal.Decimal   `json:"shipping_fee,omitempty"`
	Shipping       addressRequest     `json:"shipping_address" validate:"required"`
	Billing        *addressRequest    `json:"billing_address,omitempty"`
	PaymentMethod  *string            `json:"payment_method,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
}

func (r createOrderRequest) toInput() (ordersvc.CreateOrderInput, error) {
	input := ordersvc.CreateOrderInput{
		UserID:         r.UserID,
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		CustomerPhone:  r.CustomerPhone,
		DiscountAmount: r.DiscountAmount,
		ShippingFee:    r.ShippingFee,
		Shipping:       r.Shipping.toInput(),
		Notes:          r.Notes,
	}
	for _, item := range r.Items {
		input.Items = append(input.Items, ordersvc.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if r.Billing != nil {
		billing := r.Billing.toInput()
		input.Billing = &billing
	}
	if r.PaymentMethod != nil {
		method, err := enums.ParsePaymentMethod(*r.PaymentMethod)
		if err != nil {
			return ordersvc.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = &method
	}
	return input, nil
}

type statusUpdateRequest struct {
	Status    string  `json:"status" validate:"required"`
	Remarks   *string `json:"remarks,omitempty"`
	ChangedBy *int64  `json:"changed_by,omitempty"`
}

type cancelOrderRequest struct {
	Reason    string `json:"reason"`
	ChangedBy *int64 `json:"changed_by,omitempty"`
}

// CreateOrder places an order, reserving stock for every line item.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns an order by id with its items.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// GetOrderByNumber returns an order by its order number.
func GetOrderByNumber(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParsePathString(r, "orderNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns orders matching the query filters.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ordersvc.ListFilter{}
		query := r.URL.Query()
		if raw := strings.TrimSpace(query.Get("user_id")); raw != "" {
			userID, err := validators.ParseQueryID(r, "user_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.UserID = &userID
		}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(query.Get("email")); raw != "" {
			filter.CustomerEmail = &raw
		}
		if raw := strings.TrimSpace(query.Get("from")); raw != "" {
			from, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from timestamp"))
				return
			}
			filter.From = &from
		}
		if raw := strings.TrimSpace(query.Get("to")); raw != "" {
			to, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to timestamp"))
				return
			}
			filter.To = &to
		}
		orders, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// UpdateOrderStatus drives one state machine transition.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}
		order, err := svc.UpdateStatus(r.Context(), id, ordersvc.StatusUpdateInput{
			Status:    status,
			Remarks:   req.Remarks,
			ChangedBy: req.ChangedBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CancelOrder cancels an order that has not started fulfilment.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Cancel(r.Context(), id, ordersvc.CancelInput{
			Reason:    req.Reason,
			ChangedBy: req.ChangedBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// DeleteOrder removes a cancelled order.
func DeleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetOrderHistory returns the status history in transition order.
func GetOrderHistory(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		history, err := svc.GetHistory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
