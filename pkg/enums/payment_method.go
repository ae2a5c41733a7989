package enums

import "fmt"

// PaymentMethod names the tender a customer pays with.
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard      PaymentMethod = "DEBIT_CARD"
	PaymentMethodUPI            PaymentMethod = "UPI"
	PaymentMethodNetBanking     PaymentMethod = "NET_BANKING"
	PaymentMethodWallet         PaymentMethod = "WALLET"
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentMethodPayPal         PaymentMethod = "PAYPAL"
	PaymentMethodStripe         PaymentMethod = "STRIPE"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodUPI,
	PaymentMethodNetBanking,
	PaymentMethodWallet,
	PaymentMethodCashOnDelivery,
	PaymentMethodPayPal,
	PaymentMethodStripe,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// Gateway returns the processor a method settles through.
func (p PaymentMethod) Gateway() PaymentGateway {
	switch p {
	case PaymentMethodCreditCard, PaymentMethodDebitCard:
		return PaymentGatewayStripe
	case PaymentMethodUPI, PaymentMethodNetBanking, PaymentMethodWallet:
		return PaymentGatewayRazorpay
	case PaymentMethodPayPal:
		return PaymentGatewayPayPal
	case PaymentMethodCashOnDelivery:
		return PaymentGatewayInternal
	default:
		return PaymentGatewayStripe
	}
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
