package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// PaymentMethod distinguishes how a payment is verified before the seller may
// confirm it.
type PaymentMethod int

const (
	// PaymentMethodUnknown is the invalid zero value.
	PaymentMethodUnknown PaymentMethod = iota

	// PaymentMethodBankTransfer requires the buyer to submit a transfer
	// reference which the seller verifies manually.
	PaymentMethodBankTransfer

	// PaymentMethodCardGateway is settled through the external payment
	// collaborator.
	PaymentMethodCardGateway
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodBankTransfer: "bank_transfer",
		PaymentMethodCardGateway:  "card_gateway",
	}
}

// PaymentMethodFromString parses the wire form of a payment method.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, str := range getPaymentMethodStrings() {
		if str == s {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("paymentMethod",
		fmt.Errorf("%q is not a valid payment method", s))
}

// Validate reports whether the payment method is one of the enumerated values.
func (m PaymentMethod) Validate() error {
	if _, ok := getPaymentMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// String returns the wire form of the payment method.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// RequiresManualReference reports whether a buyer-submitted payment reference
// must exist before the seller can confirm the payment.
func (m PaymentMethod) RequiresManualReference() bool {
	return m == PaymentMethodBankTransfer
}
