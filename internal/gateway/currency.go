package gateway

import (
	"errors"
	"fmt"
)

// ValidationResult is the outcome of a domain validation. Failures are
// expected business outcomes, reported as values rather than errors.
type ValidationResult struct {
	Valid    bool
	Messages []string
}

// CurrencyValidator checks outbound payment requests against the store's
// configured list of accepted currency codes.
type CurrencyValidator struct {
	settings Settings
}

// NewCurrencyValidator constructs a currency validator.
func NewCurrencyValidator(settings Settings) (*CurrencyValidator, error) {
	if settings == nil {
		return nil, errors.New("currency validator: settings dependency is required")
	}
	return &CurrencyValidator{settings: settings}, nil
}

// Validate reports whether the currency is accepted by the store. Matching
// is exact: currency codes are compared as configured, case included.
func (v *CurrencyValidator) Validate(currency, storeID string) (ValidationResult, error) {
	accepted, err := v.settings.AcceptedCurrencies(storeID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("currency validator: %w", err)
	}

	for _, code := range accepted {
		if code == currency {
			return ValidationResult{Valid: true}, nil
		}
	}

	return ValidationResult{
		Valid:    false,
		Messages: []string{fmt.Sprintf("the currency %q is not supported by the payment gateway", currency)},
	}, nil
}
