package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits every Amount carries.
// Inputs with more digits are rounded half-away-from-zero on construction.
const AmountPrecision = 4

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a fixed-point decimal monetary value. The zero value is 0.0000.
//
// Amounts entering the ledger as transaction inputs must be non-negative,
// but arithmetic results may go negative (a disputed deposit whose funds
// were already withdrawn leaves available below zero). Negativity is a
// business-rule concern handled by the Engine, not here.
type Amount struct {
	dec decimal.Decimal
}

// ParseAmount parses a decimal string into an Amount, rounding to
// AmountPrecision fractional digits. decimal.Decimal.Round rounds half
// away from zero, so "1.23455" parses as 1.2346 and "1.23445" as 1.2345.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return Amount{dec: d.Round(AmountPrecision)}, nil
}

func (a Amount) Add(b Amount) Amount {
	return Amount{dec: a.dec.Add(b.dec)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{dec: a.dec.Sub(b.dec)}
}

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.dec.Cmp(b.dec)
}

func (a Amount) Equal(b Amount) bool {
	return a.dec.Equal(b.dec)
}

func (a Amount) IsNegative() bool {
	return a.dec.IsNegative()
}

// String renders the amount with its natural number of digits.
func (a Amount) String() string {
	return a.dec.String()
}

// StringFixed4 renders the amount with exactly four fractional digits,
// the format the output collaborator emits.
func (a Amount) StringFixed4() string {
	return a.dec.StringFixed(AmountPrecision)
}
