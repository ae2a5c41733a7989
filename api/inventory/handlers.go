package inventory

import (
	"net/http"
	"strings"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/responses"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/validators"
	inventorysvc "github.com/Amanda2455/ecommerce-microservices-fullstack/internal/inventory"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/pagination"
)

type createInventoryRequest struct {
	ProductID       int64  `json:"product_id" validate:"required"`
	ProductName     string `json:"product_name" validate:"required"`
	SKU             string `json:"sku" validate:"required"`
	InitialQuantity int    `json:"initial_quantity"`
	ReorderLevel    *int   `json:"reorder_level,omitempty"`
	ReorderQuantity *int   `json:"reorder_quantity,omitempty"`
	WarehouseID     *int64 `json:"warehouse_id,omitempty"`
}

type updateInventoryRequest struct {
	ProductName       *string `json:"product_name,omitempty"`
	AvailableQuantity *int    `json:"available_quantity,omitempty"`
	ReorderLevel      *int    `json:"reorder_level,omitempty"`
	ReorderQuantity   *int    `json:"reorder_quantity,omitempty"`
	WarehouseID       *int64  `json:"warehouse_id,omitempty"`
}

type stockAdjustmentRequest struct {
	Quantity    int     `json:"quantity" validate:"required"`
	Reason      *string `json:"reason,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	PerformedBy *int64  `json:"performed_by,omitempty"`
}

func (r stockAdjustmentRequest) toInput() (inventorysvc.StockAdjustmentInput, error) {
	input := inventorysvc.StockAdjustmentInput{
		Quantity:    r.Quantity,
		ReferenceID: r.ReferenceID,
		Notes:       r.Notes,
		PerformedBy: r.PerformedBy,
	}
	if r.Reason != nil {
		reason, err := enums.ParseMovementReason(*r.Reason)
		if err != nil {
			return inventorysvc.StockAdjustmentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement reason")
		}
		input.Reason = &reason
	}
	return input, nil
}

type reservationRequest struct {
	ProductID   int64  `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required"`
	ReferenceID string `json:"reference_id" validate:"required"`
}

type warehouseRequest struct {
	Code          string  `json:"code" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Country       *string `json:"country,omitempty"`
	ZipCode       *string `json:"zip_code,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	ContactPhone  *string `json:"contact_phone,omitempty"`
	ContactEmail  *string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

type updateWarehouseRequest struct {
	Code          *string `json:"code,omitempty"`
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Country       *string `json:"country,omitempty"`
	ZipCode       *string `json:"zip_code,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	ContactPhone  *string `json:"contact_phone,omitempty"`
	ContactEmail  *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// CreateInventory opens a stock record for a product.
func CreateInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInventoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Create(r.Context(), inventorysvc.CreateInventoryInput{
			ProductID:       req.ProductID,
			ProductName:     req.ProductName,
			SKU:             req.SKU,
			InitialQuantity: req.InitialQuantity,
			ReorderLevel:    req.ReorderLevel,
			ReorderQuantity: req.ReorderQuantity,
			WarehouseID:     req.WarehouseID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// GetInventory returns a stock record by id.
func GetInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// GetInventoryByProduct returns the stock record for a product.
func GetInventoryByProduct(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.GetByProductID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// GetInventoryBySKU returns the stock record for a SKU.
func GetInventoryBySKU(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku, err := validators.ParsePathString(r, "sku")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.GetBySKU(r.Context(), sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ListInventory returns every stock record.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// ListInventoryByWarehouse returns the stock records held in one warehouse.
func ListInventoryByWarehouse(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, err := validators.ParsePathID(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		records, err := svc.ListByWarehouse(r.Context(), warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// ListLowStock returns records at or below their reorder level.
func ListLowStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// ListOutOfStock returns records with zero available stock.
func ListOutOfStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListOutOfStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// SearchInventory matches records by product name or SKU.
func SearchInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}
		records, err := svc.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// UpdateInventory applies a partial update. Setting available_quantity
// re-bases the counter and is audited as an adjustment movement.
func UpdateInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateInventoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Update(r.Context(), id, inventorysvc.UpdateInventoryInput{
			ProductName:       req.ProductName,
			AvailableQuantity: req.AvailableQuantity,
			ReorderLevel:      req.ReorderLevel,
			ReorderQuantity:   req.ReorderQuantity,
			WarehouseID:       req.WarehouseID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// DeleteInventory removes a stock record.
func DeleteInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryId")
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

// AddStock increases available stock.
func AddStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req stockAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.AddStock(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// RemoveStock decreases available stock.
func RemoveStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req stockAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.RemoveStock(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ReserveStock holds stock for an order.
func ReserveStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reservationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Reserve(r.Context(), req.ProductID, req.Quantity, req.ReferenceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ReleaseStock returns reserved stock to the available pool.
func ReleaseStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reservationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Release(r.Context(), req.ProductID, req.Quantity, req.ReferenceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ConfirmStock burns a reservation after its order is confirmed.
func ConfirmStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reservationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Confirm(r.Context(), req.ProductID, req.Quantity, req.ReferenceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// CheckAvailability answers whether a quantity can currently be served.
func CheckAvailability(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseQueryID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := validators.ParseQueryInt(r, "quantity", 0, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if quantity == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter quantity is required"))
			return
		}
		availability, err := svc.CheckAvailability(r.Context(), productID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, availability)
	}
}

// ListMovements returns the cursor-paginated movement audit trail.
func ListMovements(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := inventorysvc.MovementFilter{}
		query := r.URL.Query()
		if raw := strings.TrimSpace(query.Get("inventory_id")); raw != "" {
			id, err := validators.ParseQueryID(r, "inventory_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.InventoryID = &id
		}
		if raw := strings.TrimSpace(query.Get("type")); raw != "" {
			movementType, err := enums.ParseMovementType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
				return
			}
			filter.Type = &movementType
		}
		if raw := strings.TrimSpace(query.Get("reason")); raw != "" {
			reason, err := enums.ParseMovementReason(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement reason"))
				return
			}
			filter.Reason = &reason
		}
		if raw := strings.TrimSpace(query.Get("reference_id")); raw != "" {
			filter.ReferenceID = &raw
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListMovements(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(query.Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CreateWarehouse registers a warehouse.
func CreateWarehouse(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req warehouseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouse, err := svc.CreateWarehouse(r.Context(), inventorysvc.CreateWarehouseInput{
			Code:          req.Code,
			Name:          req.Name,
			Address:       req.Address,
			City:          req.City,
			State:         req.State,
			Country:       req.Country,
			ZipCode:       req.ZipCode,
			ContactPerson: req.ContactPerson,
			ContactPhone:  req.ContactPhone,
			ContactEmail:  req.ContactEmail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, warehouse)
	}
}

// GetWarehouse returns a warehouse by id.
func GetWarehouse(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouse, err := svc.GetWarehouse(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouse)
	}
}

// GetWarehouseByCode returns a warehouse by its code.
func GetWarehouseByCode(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := validators.ParsePathString(r, "code")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouse, err := svc.GetWarehouseByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouse)
	}
}

// ListWarehouses returns all warehouses.
func ListWarehouses(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouses, err := svc.ListWarehouses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouses)
	}
}

// UpdateWarehouse applies a partial update to a warehouse.
func UpdateWarehouse(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateWarehouseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouse, err := svc.UpdateWarehouse(r.Context(), id, inventorysvc.UpdateWarehouseInput{
			Code:          req.Code,
			Name:          req.Name,
			Address:       req.Address,
			City:          req.City,
			State:         req.State,
			Country:       req.Country,
			ZipCode:       req.ZipCode,
			ContactPerson: req.ContactPerson,
			ContactPhone:  req.ContactPhone,
			ContactEmail:  req.ContactEmail,
			IsActive:      req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouse)
	}
}

// DeleteWarehouse removes an empty warehouse.
func DeleteWarehouse(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteWarehouse(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
