package enums

import "fmt"

// RefundReason records why a refund was requested.
type RefundReason string

const (
	RefundReasonOrderCancelled        RefundReason = "ORDER_CANCELLED"
	RefundReasonProductReturn         RefundReason = "PRODUCT_RETURN"
	RefundReasonProductDefective      RefundReason = "PRODUCT_DEFECTIVE"
	RefundReasonWrongProduct          RefundReason = "WRONG_PRODUCT"
	RefundReasonCustomerRequest       RefundReason = "CUSTOMER_REQUEST"
	RefundReasonDuplicatePayment      RefundReason = "DUPLICATE_PAYMENT"
	RefundReasonFraudulentTransaction RefundReason = "FRAUDULENT_TRANSACTION"
	RefundReasonOther                 RefundReason = "OTHER"
)

var validRefundReasons = []RefundReason{
	RefundReasonOrderCancelled,
	RefundReasonProductReturn,
	RefundReasonProductDefective,
	RefundReasonWrongProduct,
	RefundReasonCustomerRequest,
	RefundReasonDuplicatePayment,
	RefundReasonFraudulentTransaction,
	RefundReasonOther,
}

// String implements fmt.Stringer.
func (r RefundReason) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RefundReason.
func (r RefundReason) IsValid() bool {
	for _, candidate := range validRefundReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRefundReason converts raw input into a RefundReason.
func ParseRefundReason(value string) (RefundReason, error) {
	for _, candidate := range validRefundReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid refund reason %q", value)
}
