// Package payment creates payment intents with an external gateway.
package payment

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrFractionalAmount = errors.New("price has more precision than the currency's minor unit")
	ErrNonPositive      = errors.New("price must be greater than zero")
	ErrAmountTooLarge   = errors.New("price is too large")
)

// IntentRequest asks the gateway to authorize Amount minor units of Currency.
type IntentRequest struct {
	Amount   int64
	Currency string
}

// Intent is the part of a created payment intent the storefront hands back
// to the browser.
type Intent struct {
	ID           string
	ClientSecret string
}

type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// MinorUnits converts a price in major units into minor units (price * 100).
// Prices finer than one minor unit are rejected rather than rounded.
func MinorUnits(price decimal.Decimal) (int64, error) {
	amount := price.Shift(2)
	if !amount.IsInteger() {
		return 0, ErrFractionalAmount
	}
	if !amount.IsPositive() {
		return 0, ErrNonPositive
	}
	if amount.GreaterThan(maxAmount) {
		return 0, ErrAmountTooLarge
	}
	return amount.IntPart(), nil
}
