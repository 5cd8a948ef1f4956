package sle

import "github.com/LeJamon/goPredictd/internal/core/ledger/keylet"

// Pool is a proposal's constant-product market. The Finally* fields are a
// snapshot taken once when the proposal ends; redemption math reads them so
// later withdrawals cannot shift earlier payouts.
type Pool struct {
	ProposalID     uint64    `codec:"proposal" json:"proposal_id"`
	TotalMarket    uint64    `codec:"market" json:"total_market"`
	TotalOptional  [2]uint64 `codec:"optional" json:"total_optional"`
	TotalLiquidity uint64    `codec:"liquidity" json:"total_liquidity"`
	Fee            uint64    `codec:"fee" json:"fee"`

	FinallyMarket    uint64    `codec:"f_market" json:"finally_market"`
	FinallyOptional  [2]uint64 `codec:"f_optional" json:"finally_optional"`
	FinallyLiquidity uint64    `codec:"f_liquidity" json:"finally_liquidity"`
	FinallyFee       uint64    `codec:"f_fee" json:"finally_fee"`
	Frozen           bool      `codec:"frozen" json:"frozen"`

	// Reward accrues half of every winning withdrawal fee for reporters.
	Reward uint64 `codec:"reward" json:"reward"`
}

// Freeze captures the final balances. It reports false if already frozen.
func (p *Pool) Freeze() bool {
	if p.Frozen {
		return false
	}
	p.FinallyMarket = p.TotalMarket
	p.FinallyOptional = p.TotalOptional
	p.FinallyLiquidity = p.TotalLiquidity
	p.FinallyFee = p.Fee
	p.Frozen = true
	return true
}

// AccountInfo is the settlement notional an account has deposited as liquidity.
type AccountInfo struct {
	Deposited uint64 `codec:"deposited"`
}

// CreatorFee records the owner's one-time share of the accrued fee.
type CreatorFee struct {
	Amount uint64 `codec:"amount"`
}

func ReadPool(view LedgerView, proposalID uint64) (*Pool, error) {
	return Get[Pool](view, keylet.Pool(proposalID))
}

func WritePool(view LedgerView, p *Pool) error {
	return Put(view, keylet.Pool(p.ProposalID), p)
}
