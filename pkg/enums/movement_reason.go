package enums

import "fmt"

// MovementReason records why a stock counter changed.
type MovementReason string

const (
	MovementReasonPurchase          MovementReason = "PURCHASE"
	MovementReasonSale              MovementReason = "SALE"
	MovementReasonReturn            MovementReason = "RETURN"
	MovementReasonDamaged           MovementReason = "DAMAGED"
	MovementReasonAdjustment        MovementReason = "ADJUSTMENT"
	MovementReasonTransfer          MovementReason = "TRANSFER"
	MovementReasonOrderReservation  MovementReason = "ORDER_RESERVATION"
	MovementReasonOrderCancellation MovementReason = "ORDER_CANCELLATION"
)

var validMovementReasons = []MovementReason{
	MovementReasonPurchase,
	MovementReasonSale,
	MovementReasonReturn,
	MovementReasonDamaged,
	MovementReasonAdjustment,
	MovementReasonTransfer,
	MovementReasonOrderReservation,
	MovementReasonOrderCancellation,
}

// String implements fmt.Stringer.
func (m MovementReason) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementReason.
func (m MovementReason) IsValid() bool {
	for _, candidate := range validMovementReasons {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementReason converts raw input into a MovementReason.
func ParseMovementReason(value string) (MovementReason, error) {
	for _, candidate := range validMovementReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement reason %q", value)
}
