package enums

// CardBrand is inferred from the leading digit of a card number.
type CardBrand string

const (
	CardBrandVisa       CardBrand = "VISA"
	CardBrandMastercard CardBrand = "MASTERCARD"
	CardBrandAmex       CardBrand = "AMEX"
	CardBrandDiscover   CardBrand = "DISCOVER"
	CardBrandUnknown    CardBrand = "UNKNOWN"
)

// DetectCardBrand infers the brand from the first digit of the card number.
func DetectCardBrand(cardNumber string) CardBrand {
	if cardNumber == "" {
		return CardBrandUnknown
	}
	switch cardNumber[0] {
	case '4':
		return CardBrandVisa
	case '5':
		return CardBrandMastercard
	case '3':
		return CardBrandAmex
	case '6':
		return CardBrandDiscover
	default:
		return CardBrandUnknown
	}
}

// String implements fmt.Stringer.
func (c CardBrand) String() string {
	return string(c)
}
