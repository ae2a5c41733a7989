package inventory

import (
	"time"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// InventoryDTO is the transport shape for an inventory record.
type InventoryDTO struct {
	ID                int64                 `json:"id"`
	ProductID         int64                 `json:"product_id"`
	ProductName       string                `json:"product_name"`
	SKU               string                `json:"sku"`
	AvailableQuantity int                   `json:"available_quantity"`
	ReservedQuantity  int                   `json:"reserved_quantity"`
	TotalQuantity     int                   `json:"total_quantity"`
	ReorderLevel      int                   `json:"reorder_level"`
	ReorderQuantity   int                   `json:"reorder_quantity"`
	WarehouseID       *int64                `json:"warehouse_id,omitempty"`
	Status            enums.InventoryStatus `json:"status"`
	LastRestockedAt   *time.Time            `json:"last_restocked_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// WarehouseDTO is the transport shape for a warehouse.
type WarehouseDTO struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Address       *string   `json:"address,omitempty"`
	City          *string   `json:"city,omitempty"`
	State         *string   `json:"state,omitempty"`
	Country       *string   `json:"country,omitempty"`
	ZipCode       *string   `json:"zip_code,omitempty"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	ContactPhone  *string   `json:"contact_phone,omitempty"`
	ContactEmail  *string   `json:"contact_email,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MovementDTO is the transport shape for one stock movement row.
type MovementDTO struct {
	ID               int64                `json:"id"`
	InventoryID      int64                `json:"inventory_id"`
	MovementType     enums.MovementType   `json:"movement_type"`
	Quantity         int                  `json:"quantity"`
	PreviousQuantity int                  `json:"previous_quantity"`
	NewQuantity      int                  `json:"new_quantity"`
	ReferenceID      *string              `json:"reference_id,omitempty"`
	Reason           enums.MovementReason `json:"reason"`
	Notes            *string              `json:"notes,omitempty"`
	PerformedBy      *int64               `json:"performed_by,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// CreateInventoryInput holds the payload to start tracking a product.
type CreateInventoryInput struct {
	ProductID       int64
	ProductName     string
	SKU             string
	InitialQuantity int
	ReorderLevel    *int
	ReorderQuantity *int
	WarehouseID     *int64
}

// UpdateInventoryInput captures the mutable fields. Setting
// AvailableQuantity re-bases the available counter and is audited as an
// adjustment movement; the reserved counter only moves through the
// reservation operations.
type UpdateInventoryInput struct {
	ProductName       *string
	AvailableQuantity *int
	ReorderLevel      *int
	ReorderQuantity   *int
	WarehouseID       *int64
}

// StockAdjustmentInput describes an add or remove operation.
type StockAdjustmentInput struct {
	Quantity    int
	Reason      *enums.MovementReason
	ReferenceID *string
	Notes       *string
	PerformedBy *int64
}

// AvailabilityDTO answers a stock availability probe.
type AvailabilityDTO struct {
	ProductID         int64 `json:"product_id"`
	Available         bool  `json:"available"`
	AvailableQuantity int   `json:"available_quantity"`
	RequestedQuantity int   `json:"requested_quantity"`
}

// CreateWarehouseInput holds the payload to create a warehouse.
type CreateWarehouseInput struct {
	Code          string
	Name          string
	Address       *string
	City          *string
	State         *string
	Country       *string
	ZipCode       *string
	ContactPerson *string
	ContactPhone  *string
	ContactEmail  *string
}

// UpdateWarehouseInput captures the mutable warehouse fields.
type UpdateWarehouseInput struct {
	Code          *string
	Name          *string
	Address       *string
	City          *string
	State         *string
	Country       *string
	ZipCode       *string
	ContactPerson *string
	ContactPhone  *string
	ContactEmail  *string
	IsActive      *bool
}

// MovementFilter narrows a movement listing.
type MovementFilter struct {
	InventoryID *int64
	Type        *enums.MovementType
	Reason      *enums.MovementReason
	ReferenceID *string
}

// MovementPage is one cursor-paginated slice of movements.
type MovementPage struct {
	Items      []MovementDTO `json:"items"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

func inventoryFromModel(inv *models.Inventory) *InventoryDTO {
	if inv == nil {
		return nil
	}
	return &InventoryDTO{
		ID:                inv.ID,
		ProductID:         inv.ProductID,
		ProductName:       inv.ProductName,
		SKU:               inv.SKU,
		AvailableQuantity: inv.AvailableQuantity,
		ReservedQuantity:  inv.ReservedQuantity,
		TotalQuantity:     inv.TotalQuantity,
		ReorderLevel:      inv.ReorderLevel,
		ReorderQuantity:   inv.ReorderQuantity,
		WarehouseID:       inv.WarehouseID,
		Status:            inv.Status,
		LastRestockedAt:   inv.LastRestockedAt,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

func inventoriesFromModels(items []models.Inventory) []InventoryDTO {
	out := make([]InventoryDTO, 0, len(items))
	for i := range items {
		out = append(out, *inventoryFromModel(&items[i]))
	}
	return out
}

func warehouseFromModel(w *models.Warehouse) *WarehouseDTO {
	if w == nil {
		return nil
	}
	return &WarehouseDTO{
		ID:            w.ID,
		Code:          w.Code,
		Name:          w.Name,
		Address:       w.Address,
		City:          w.City,
		State:         w.State,
		Country:       w.Country,
		ZipCode:       w.ZipCode,
		ContactPerson: w.ContactPerson,
		ContactPhone:  w.ContactPhone,
		ContactEmail:  w.ContactEmail,
		IsActive:      w.IsActive,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func warehousesFromModels(items []models.Warehouse) []WarehouseDTO {
	out := make([]WarehouseDTO, 0, len(items))
	for i := range items {
		out = append(out, *warehouseFromModel(&items[i]))
	}
	return out
}

func movementFromModel(m *models.StockMovement) *MovementDTO {
	if m == nil {
		return nil
	}
	return &MovementDTO{
		ID:               m.ID,
		InventoryID:      m.InventoryID,
		MovementType:     m.MovementType,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		ReferenceID:      m.ReferenceID,
		Reason:           m.Reason,
		Notes:            m.Notes,
		PerformedBy:      m.PerformedBy,
		CreatedAt:        m.CreatedAt,
	}
}

func movementsFromModels(items []models.StockMovement) []MovementDTO {
	out := make([]MovementDTO, 0, len(items))
	for i := range items {
		out = append(out, *movementFromModel(&items[i]))
	}
	return out
}
