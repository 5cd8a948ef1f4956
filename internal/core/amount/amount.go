// Package amount implements the checked integer arithmetic used for every
// balance in the system. Additions and multiplications fail on overflow;
// subtraction comes in a strict and a clamping flavor, and callers pick the
// one their field is documented to use.
package amount

import (
	"errors"
	"math"

	"github.com/holiman/uint256"
)

var (
	// ErrOverflow is returned when a result does not fit in 64 bits.
	ErrOverflow = errors.New("balance overflow")
	// ErrUnderflow is returned by Sub when b > a.
	ErrUnderflow = errors.New("balance underflow")
	// ErrDivisionByZero is returned by the ratio helpers on a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
)

// FeeDenominator is the fixed-point scale of fee rates: 10000 = 100%.
const FeeDenominator = 10_000

// PercentDenominator is the scale of percentage parameters such as the lock ratio.
const PercentDenominator = 100

func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// SubClamp returns a-b, or zero when b > a.
func SubClamp(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func Mul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// Product returns a*b as a 256-bit integer. It cannot overflow.
func Product(a, b uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
}

// MulDiv returns floor(a*b/c) with a 256-bit intermediate.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	q := new(uint256.Int).Div(Product(a, b), uint256.NewInt(c))
	return toUint64(q)
}

// MulDivCeil returns ceil(a*b/c) with a 256-bit intermediate.
func MulDivCeil(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	return DivCeil(Product(a, b), c)
}

// DivCeil returns ceil(n/d) for a 256-bit numerator.
func DivCeil(n *uint256.Int, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	den := uint256.NewInt(d)
	q, r := new(uint256.Int).DivMod(n, den, new(uint256.Int))
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return toUint64(q)
}

// Fee returns floor(v*rate/FeeDenominator).
func Fee(v uint64, rate uint32) (uint64, error) {
	return MulDiv(v, uint64(rate), FeeDenominator)
}

// Percent returns floor(v*pct/100).
func Percent(v uint64, pct uint32) (uint64, error) {
	return MulDiv(v, uint64(pct), PercentDenominator)
}

func toUint64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrOverflow
	}
	return v.Uint64(), nil
}
