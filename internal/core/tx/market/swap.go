package market

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/holiman/uint256"
)

// ErrNoRealSolution is returned when a sell cannot be priced against the pool.
var ErrNoRealSolution = errors.New("no real solution")

// BuyQuote is the outcome of buying one side of a pool.
type BuyQuote struct {
	Fee uint64 `json:"fee"`
	// Net is the amount after fee. It is minted as complete sets.
	Net uint64 `json:"net"`
	// Shrink is what the pool pays out of the bought side.
	Shrink uint64 `json:"shrink"`
	// Output is everything the buyer receives: Net + Shrink.
	Output   uint64    `json:"output"`
	Optional [2]uint64 `json:"optional"`
}

// SellQuote is the outcome of selling one side of a pool.
type SellQuote struct {
	// Growth is how much the sold side grows by.
	Growth uint64 `json:"growth"`
	// Burned is the number of complete sets redeemed.
	Burned   uint64    `json:"burned"`
	Fee      uint64    `json:"fee"`
	Payout   uint64    `json:"payout"`
	Residue  uint64    `json:"residue"`
	Optional [2]uint64 `json:"optional"`
}

// quoteBuy prices buying side idx with amt of settlement currency.
// The other side grows by the net amount and the bought side shrinks to
// keep the product, rounding in the pool's favor.
func quoteBuy(optional [2]uint64, idx int, amt uint64, rate uint32) (BuyQuote, error) {
	var q BuyQuote
	fee, err := amount.Fee(amt, rate)
	if err != nil {
		return q, err
	}
	q.Fee = fee
	q.Net = amt - fee

	bought, other := optional[idx], optional[1-idx]
	k := amount.Product(bought, other)

	otherAfter, err := amount.Add(other, q.Net)
	if err != nil {
		return q, err
	}
	boughtAfter, err := amount.DivCeil(k, otherAfter)
	if err != nil {
		return q, err
	}
	q.Shrink = amount.SubClamp(bought, boughtAfter)
	if q.Output, err = amount.Add(q.Net, q.Shrink); err != nil {
		return q, err
	}

	q.Optional[idx] = bought - q.Shrink
	q.Optional[1-idx] = otherAfter
	return q, nil
}

// quoteSell prices selling a of side idx. With A the sold side and B the
// other, the sold side grows by the non-negative root x of
//
//	x² + (A+B−a)·x − a·A = 0
//
// and a−x complete sets leave the pool.
func quoteSell(optional [2]uint64, idx int, a uint64, rate uint32) (SellQuote, error) {
	var q SellQuote
	sold, other := optional[idx], optional[1-idx]

	x, err := sellGrowth(sold, other, a)
	if err != nil {
		return q, err
	}
	if x > a {
		return q, ErrNoRealSolution
	}

	soldAfter, err := amount.Add(sold, x)
	if err != nil {
		return q, err
	}
	otherAfter, err := amount.DivCeil(amount.Product(sold, other), soldAfter)
	if err != nil {
		return q, err
	}
	if otherAfter > other {
		return q, ErrNoRealSolution
	}

	q.Growth = x
	q.Burned = amount.Min(a-x, other-otherAfter)
	if q.Fee, err = amount.Fee(q.Burned, rate); err != nil {
		return q, err
	}
	q.Payout = q.Burned - q.Fee
	q.Residue = a - x - q.Burned
	q.Optional[idx] = soldAfter
	q.Optional[1-idx] = other - q.Burned
	return q, nil
}

// sellGrowth solves the sell quadratic with floor rounding.
func sellGrowth(sold, other, a uint64) (uint64, error) {
	// b = sold + other − a may be negative.
	sum := new(uint256.Int).Add(uint256.NewInt(sold), uint256.NewInt(other))
	aa := uint256.NewInt(a)
	negative := sum.Lt(aa)
	var b uint256.Int
	if negative {
		b.Sub(aa, sum)
	} else {
		b.Sub(sum, aa)
	}

	disc := new(uint256.Int).Mul(&b, &b)
	ac := amount.Product(a, sold)
	ac.Lsh(ac, 2)
	if _, overflow := disc.AddOverflow(disc, ac); overflow {
		return 0, amount.ErrOverflow
	}
	root := new(uint256.Int).Sqrt(disc)

	var num uint256.Int
	if negative {
		num.Add(root, &b)
	} else {
		if root.Lt(&b) {
			return 0, ErrNoRealSolution
		}
		num.Sub(root, &b)
	}
	num.Rsh(&num, 1)
	if !num.IsUint64() {
		return 0, amount.ErrOverflow
	}
	return num.Uint64(), nil
}
