package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount limits match the NUMERIC(19,4) columns of the Postgres store
const (
	MaxAmountScale         = 4
	MaxAmountIntegerDigits = 15
)

// ValidateAmount rejects negative amounts, amounts with more than
// MaxAmountScale fractional digits and amounts of 10^15 or more.
// It only inspects the coefficient and exponent, so huge exponents are cheap to reject.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	return checkRange(amount)
}

func checkRange(value decimal.Decimal) error {
	if value.IsZero() {
		return nil
	}

	digits := int64(value.NumDigits())
	exp := int64(value.Exponent())

	if digits+exp > MaxAmountIntegerDigits {
		return fmt.Errorf("%w: must be less than 10^%d", ErrInvalidAmount, MaxAmountIntegerDigits)
	}

	if exp < -MaxAmountScale {
		// The fractional digits beyond the scale must all be zero
		excess := -MaxAmountScale - exp
		if excess >= digits {
			return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountScale)
		}
		divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(excess), nil)
		if new(big.Int).Rem(value.Coefficient(), divisor).Sign() != 0 {
			return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountScale)
		}
	}
	return nil
}
