package market

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ruler"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Retrieval redeems outcome tokens of an ended proposal. Winning tokens pay
// out one unit of settlement currency each, less the withdrawal fee; losing
// tokens are burned for nothing.
type Retrieval struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Outcome    uint32 `json:"Outcome"`
	Amount     uint64 `json:"Amount"`
}

// NewRetrieval creates a new Retrieval transaction
func NewRetrieval(account crypto.AccountID, proposalID uint64, outcome uint32, amt uint64) *Retrieval {
	return &Retrieval{
		BaseTx:     *tx.NewBaseTx(tx.TypeRetrieval, account),
		ProposalID: proposalID,
		Outcome:    outcome,
		Amount:     amt,
	}
}

// TxType returns the transaction type
func (rt *Retrieval) TxType() tx.Type {
	return tx.TypeRetrieval
}

// Validate validates the Retrieval transaction
func (rt *Retrieval) Validate() error {
	if err := rt.BaseTx.Validate(); err != nil {
		return err
	}
	if rt.Outcome == 0 {
		return errors.New("temBAD_CURRENCY: Outcome is required")
	}
	if rt.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the Retrieval transaction to state.
func (rt *Retrieval) Apply(ctx *tx.ApplyContext) tx.Result {
	p, pool, r := load(ctx.View, rt.ProposalID, sle.StatusEnd)
	if !r.IsSuccess() {
		return r
	}
	if !p.HasResult() {
		return tx.TecNO_RESULT
	}
	if _, ok := p.OutcomeIndex(rt.Outcome); !ok {
		return tx.TecBAD_OUTCOME
	}

	burned, err := ctx.Tokens.Burn(rt.Outcome, ctx.AccountID, rt.Amount)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if burned == 0 {
		return tx.TecINSUFFICIENT_FUNDS
	}

	fields := map[string]any{
		"outcome": rt.Outcome,
		"burned":  burned,
		"winner":  rt.Outcome == p.Result,
	}
	if rt.Outcome != p.Result {
		ctx.Emit(tx.ProposalEvent(tx.EventRetrieved, p.ID, ctx.AccountID, fields))
		return tx.TesSUCCESS
	}

	pool.TotalMarket = amount.SubClamp(pool.TotalMarket, burned)
	fee, err := amount.Fee(burned, ctx.Params.WithdrawalFeeRate)
	if err != nil {
		return tx.ResultFromError(err)
	}
	reward := fee / 2
	dividend := fee - reward

	if reward > 0 {
		if _, err := ctx.Tokens.Appropriation(p.Currency, tokens.ModuleMarket, tokens.ModuleOracle.Account(), reward); err != nil {
			return tx.ResultFromError(err)
		}
		if pool.Reward, err = amount.Add(pool.Reward, reward); err != nil {
			return tx.ResultFromError(err)
		}
	}
	if dividend > 0 {
		if ctx.Ruler == nil {
			return tx.TecINTERNAL
		}
		platform, err := ctx.Ruler.GetAccount(ruler.PlatformDividend)
		if err != nil {
			return tx.ResultFromError(err)
		}
		if _, err := ctx.Tokens.Appropriation(p.Currency, tokens.ModuleMarket, platform, dividend); err != nil {
			return tx.ResultFromError(err)
		}
	}
	payout := burned - fee
	if _, err := ctx.Tokens.Appropriation(p.Currency, tokens.ModuleMarket, ctx.AccountID, payout); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.WritePool(ctx.View, pool); err != nil {
		return tx.ResultFromError(err)
	}

	fields["fee"] = fee
	fields["payout"] = payout
	ctx.Emit(tx.ProposalEvent(tx.EventRetrieved, p.ID, ctx.AccountID, fields))
	return tx.TesSUCCESS
}
