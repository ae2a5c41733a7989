package models

import (
	"time"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// StockMovement is the append-only audit record for a counter change.
// PreviousQuantity/NewQuantity snapshot the available counter for IN, OUT
// and RESERVED movements, the reserved counter for RELEASED and for the
// OUT leg written by reservation confirmation.
type StockMovement struct {
	ID               int64                `gorm:"column:id;primaryKey;autoIncrement"`
	InventoryID      int64                `gorm:"column:inventory_id;not null;index"`
	MovementType     enums.MovementType   `gorm:"column:movement_type;not null"`
	Quantity         int                  `gorm:"column:quantity;not null"`
	PreviousQuantity int                  `gorm:"column:previous_quantity;not null"`
	NewQuantity      int                  `gorm:"column:new_quantity;not null"`
	ReferenceID      *string              `gorm:"column:reference_id;index"`
	Reason           enums.MovementReason `gorm:"column:reason;not null"`
	Notes            *string              `gorm:"column:notes"`
	PerformedBy      *int64               `gorm:"column:performed_by"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
}
