package market

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Buy spends settlement currency on one outcome of a formal proposal.
type Buy struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Outcome    uint32 `json:"Outcome"`
	Amount     uint64 `json:"Amount"`
}

// NewBuy creates a new Buy transaction
func NewBuy(account crypto.AccountID, proposalID uint64, outcome uint32, amt uint64) *Buy {
	return &Buy{
		BaseTx:     *tx.NewBaseTx(tx.TypeBuy, account),
		ProposalID: proposalID,
		Outcome:    outcome,
		Amount:     amt,
	}
}

// TxType returns the transaction type
func (b *Buy) TxType() tx.Type {
	return tx.TypeBuy
}

// Validate validates the Buy transaction
func (b *Buy) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}
	if b.Outcome == 0 {
		return errors.New("temBAD_CURRENCY: Outcome is required")
	}
	if b.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the Buy transaction to state.
func (b *Buy) Apply(ctx *tx.ApplyContext) tx.Result {
	p, pool, r := load(ctx.View, b.ProposalID, sle.StatusFormalPrediction)
	if !r.IsSuccess() {
		return r
	}
	idx, ok := p.OutcomeIndex(b.Outcome)
	if !ok {
		return tx.TecBAD_OUTCOME
	}

	q, err := quoteBuy(pool.TotalOptional, idx, b.Amount, p.FeeRate)
	if err != nil {
		return tx.ResultFromError(err)
	}

	if _, err := ctx.Tokens.Donate(p.Currency, ctx.AccountID, tokens.ModuleMarket, b.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	if pool.TotalMarket, err = amount.Add(pool.TotalMarket, q.Net); err != nil {
		return tx.ResultFromError(err)
	}
	if pool.Fee, err = amount.Add(pool.Fee, q.Fee); err != nil {
		return tx.ResultFromError(err)
	}

	module := tokens.ModuleMarket.Account()
	if _, err := ctx.Tokens.Mint(b.Outcome, ctx.AccountID, q.Net); err != nil {
		return tx.ResultFromError(err)
	}
	if _, err := ctx.Tokens.Mint(p.Outcomes[1-idx], module, q.Net); err != nil {
		return tx.ResultFromError(err)
	}
	if _, err := ctx.Tokens.Appropriation(b.Outcome, tokens.ModuleMarket, ctx.AccountID, q.Shrink); err != nil {
		return tx.ResultFromError(err)
	}

	pool.TotalOptional = q.Optional
	if err := sle.WritePool(ctx.View, pool); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventBought, p.ID, ctx.AccountID, map[string]any{
		"outcome": b.Outcome,
		"amount":  b.Amount,
		"fee":     q.Fee,
		"output":  q.Output,
	}))
	return tx.TesSUCCESS
}

// Sell returns outcome tokens to the pool for settlement currency.
type Sell struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Outcome    uint32 `json:"Outcome"`
	Amount     uint64 `json:"Amount"`
}

// NewSell creates a new Sell transaction
func NewSell(account crypto.AccountID, proposalID uint64, outcome uint32, amt uint64) *Sell {
	return &Sell{
		BaseTx:     *tx.NewBaseTx(tx.TypeSell, account),
		ProposalID: proposalID,
		Outcome:    outcome,
		Amount:     amt,
	}
}

// TxType returns the transaction type
func (s *Sell) TxType() tx.Type {
	return tx.TypeSell
}

// Validate validates the Sell transaction
func (s *Sell) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Outcome == 0 {
		return errors.New("temBAD_CURRENCY: Outcome is required")
	}
	if s.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the Sell transaction to state.
func (s *Sell) Apply(ctx *tx.ApplyContext) tx.Result {
	p, pool, r := load(ctx.View, s.ProposalID, sle.StatusFormalPrediction)
	if !r.IsSuccess() {
		return r
	}
	idx, ok := p.OutcomeIndex(s.Outcome)
	if !ok {
		return tx.TecBAD_OUTCOME
	}

	q, err := quoteSell(pool.TotalOptional, idx, s.Amount, p.FeeRate)
	if err != nil {
		return tx.ResultFromError(err)
	}

	module := tokens.ModuleMarket.Account()
	if _, err := ctx.Tokens.Transfer(s.Outcome, ctx.AccountID, module, s.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	for _, outcome := range p.Outcomes {
		burned, err := ctx.Tokens.Burn(outcome, module, q.Burned)
		if err != nil {
			return tx.ResultFromError(err)
		}
		if burned != q.Burned {
			return tx.TecINTERNAL
		}
	}
	if _, err := ctx.Tokens.Appropriation(p.Currency, tokens.ModuleMarket, ctx.AccountID, q.Payout); err != nil {
		return tx.ResultFromError(err)
	}
	if _, err := ctx.Tokens.Appropriation(s.Outcome, tokens.ModuleMarket, ctx.AccountID, q.Residue); err != nil {
		return tx.ResultFromError(err)
	}

	pool.TotalMarket = amount.SubClamp(pool.TotalMarket, q.Burned)
	if pool.Fee, err = amount.Add(pool.Fee, q.Fee); err != nil {
		return tx.ResultFromError(err)
	}
	pool.TotalOptional = q.Optional
	if err := sle.WritePool(ctx.View, pool); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventSold, p.ID, ctx.AccountID, map[string]any{
		"outcome": s.Outcome,
		"amount":  s.Amount,
		"growth":  q.Growth,
		"burned":  q.Burned,
		"fee":     q.Fee,
		"payout":  q.Payout,
		"residue": q.Residue,
	}))
	return tx.TesSUCCESS
}
