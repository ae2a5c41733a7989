package enums

import "fmt"

// InventoryStatus is the derived stock classification for an inventory record.
type InventoryStatus string

const (
	InventoryStatusInStock    InventoryStatus = "IN_STOCK"
	InventoryStatusLowStock   InventoryStatus = "LOW_STOCK"
	InventoryStatusOutOfStock InventoryStatus = "OUT_OF_STOCK"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusInStock,
	InventoryStatusLowStock,
	InventoryStatusOutOfStock,
}

// ClassifyStock derives the status from the available count and reorder level.
// It is the single source of truth invoked on every inventory write.
func ClassifyStock(available, reorderLevel int) InventoryStatus {
	switch {
	case available == 0:
		return InventoryStatusOutOfStock
	case available <= reorderLevel:
		return InventoryStatusLowStock
	default:
		return InventoryStatusInStock
	}
}

// String implements fmt.Stringer.
func (i InventoryStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InventoryStatus.
func (i InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInventoryStatus converts raw input into an InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
