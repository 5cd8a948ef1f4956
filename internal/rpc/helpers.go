package rpc

import (
	"errors"
	"math/big"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/shopspring/decimal"
)

// chain returns the chain service or an internal error
func chain(ctx *RpcContext) (Chain, *RpcError) {
	if ctx.Services == nil || ctx.Services.Chain == nil {
		return nil, RpcErrorInternal("Chain service not available")
	}
	return ctx.Services.Chain, nil
}

// viewState runs fn against the current state, mapping errors to rpc errors.
func viewState(ctx *RpcContext, fn func(view sle.LedgerView, height uint64, now int64) *RpcError) *RpcError {
	c, rpcErr := chain(ctx)
	if rpcErr != nil {
		return rpcErr
	}
	var inner *RpcError
	err := c.View(func(view sle.LedgerView, height uint64, now int64) error {
		inner = fn(view, height, now)
		return nil
	})
	if err != nil {
		return RpcErrorInternal("Failed to read state: " + err.Error())
	}
	return inner
}

// stateError maps a state read failure
func stateError(err error, what string, id uint64) *RpcError {
	if errors.Is(err, sle.ErrEntryNotFound) {
		return RpcErrorEntryNotFound("%s %d not found.", what, id)
	}
	return RpcErrorInternal(err.Error())
}

func parseAccount(s string) (crypto.AccountID, *RpcError) {
	if s == "" {
		return crypto.AccountID{}, RpcErrorInvalidParams("Missing required parameter: account")
	}
	id, err := crypto.ParseAccountID(s)
	if err != nil {
		return crypto.AccountID{}, RpcErrorActMalformed("Account malformed.")
	}
	return id, nil
}

func decimalFromUint(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// feeRate renders a rate in units of 1/FeeDenominator as a fraction.
func feeRate(rate uint32) decimal.Decimal {
	return decimal.New(int64(rate), 0).Div(decimal.New(amount.FeeDenominator, 0))
}

// prices returns each outcome's implied probability: the other side's
// reserve over both reserves.
func prices(optional [2]uint64) [2]decimal.Decimal {
	a, b := decimalFromUint(optional[0]), decimalFromUint(optional[1])
	total := a.Add(b)
	if total.IsZero() {
		return [2]decimal.Decimal{decimal.Zero, decimal.Zero}
	}
	return [2]decimal.Decimal{
		b.DivRound(total, 8),
		a.DivRound(total, 8),
	}
}
