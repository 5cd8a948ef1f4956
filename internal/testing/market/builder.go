// Package market provides builders and integration tests for the AMM market pool.
package market

import (
	"github.com/LeJamon/goPredictd/internal/core/tx/market"
	"github.com/LeJamon/goPredictd/internal/testing"
)

// TradeBuilder builds Buy, Sell and Retrieval transactions.
type TradeBuilder struct {
	account    *testing.Account
	proposalID uint64
	outcome    uint32
	amount     uint64
}

// Trade starts a trade by account on proposal id.
func Trade(account *testing.Account, proposalID uint64) *TradeBuilder {
	return &TradeBuilder{account: account, proposalID: proposalID}
}

// Outcome sets the outcome currency traded.
func (b *TradeBuilder) Outcome(currency uint32) *TradeBuilder {
	b.outcome = currency
	return b
}

// Amount sets the amount paid (buy) or tokens given (sell, retrieval).
func (b *TradeBuilder) Amount(amt uint64) *TradeBuilder {
	b.amount = amt
	return b
}

// Buy constructs a Buy transaction.
func (b *TradeBuilder) Buy() *market.Buy {
	return market.NewBuy(b.account.ID, b.proposalID, b.outcome, b.amount)
}

// Sell constructs a Sell transaction.
func (b *TradeBuilder) Sell() *market.Sell {
	return market.NewSell(b.account.ID, b.proposalID, b.outcome, b.amount)
}

// Retrieve constructs a Retrieval transaction.
func (b *TradeBuilder) Retrieve() *market.Retrieval {
	return market.NewRetrieval(b.account.ID, b.proposalID, b.outcome, b.amount)
}

// AddLiquidity builds a liquidity deposit.
func AddLiquidity(account *testing.Account, proposalID, amt uint64) *market.AddLiquidity {
	return market.NewAddLiquidity(account.ID, proposalID, amt)
}

// RemoveLiquidity builds a liquidity withdrawal of lp tokens.
func RemoveLiquidity(account *testing.Account, proposalID, lp uint64) *market.RemoveLiquidity {
	return market.NewRemoveLiquidity(account.ID, proposalID, lp)
}

// SetResult builds an admin result for a proposal waiting for results.
func SetResult(admin *testing.Account, proposalID uint64, result uint32) *market.SetResult {
	return market.NewSetResult(admin.ID, proposalID, result)
}

// SetResultWhenEnd builds an admin result for an ended proposal.
func SetResultWhenEnd(admin *testing.Account, proposalID uint64, result uint32) *market.SetResultWhenEnd {
	return market.NewSetResultWhenEnd(admin.ID, proposalID, result)
}
