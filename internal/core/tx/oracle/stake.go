package oracle

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Stake reserves stake currency and adds it to the account's vote weight.
type Stake struct {
	tx.BaseTx

	Amount uint64 `json:"Amount"`
}

// NewStake creates a new Stake transaction
func NewStake(account crypto.AccountID, amt uint64) *Stake {
	return &Stake{BaseTx: *tx.NewBaseTx(tx.TypeStake, account), Amount: amt}
}

// TxType returns the transaction type
func (s *Stake) TxType() tx.Type {
	return tx.TypeStake
}

// Validate validates the Stake transaction
func (s *Stake) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the Stake transaction to state.
func (s *Stake) Apply(ctx *tx.ApplyContext) tx.Result {
	st, err := sle.ReadStake(ctx.View, ctx.AccountID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	balance, err := amount.Add(st.Staked, s.Amount)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if _, err := ctx.Tokens.Reserve(ctx.Params.StakeCurrency, ctx.AccountID, s.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	if err := rebalance(ctx, ctx.AccountID, st, balance); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeStake(ctx.View, ctx.AccountID, st); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.AccountEvent(tx.EventStaked, ctx.AccountID, map[string]any{
		"amount": s.Amount,
		"staked": st.Staked,
		"active": st.Active,
	}))
	return tx.TesSUCCESS
}

// Unstake releases stake that is not locked by result uploads.
type Unstake struct {
	tx.BaseTx

	Amount uint64 `json:"Amount"`
}

// NewUnstake creates a new Unstake transaction
func NewUnstake(account crypto.AccountID, amt uint64) *Unstake {
	return &Unstake{BaseTx: *tx.NewBaseTx(tx.TypeUnstake, account), Amount: amt}
}

// TxType returns the transaction type
func (u *Unstake) TxType() tx.Type {
	return tx.TypeUnstake
}

// Validate validates the Unstake transaction
func (u *Unstake) Validate() error {
	if err := u.BaseTx.Validate(); err != nil {
		return err
	}
	if u.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the Unstake transaction to state. The amount is capped at
// the usable weight.
func (u *Unstake) Apply(ctx *tx.ApplyContext) tx.Result {
	st, err := sle.ReadStake(ctx.View, ctx.AccountID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	actual := amount.Min(u.Amount, st.Usable())
	if actual == 0 {
		return tx.TecINSUFFICIENT_WEIGHT
	}

	released, err := ctx.Tokens.Unreserve(ctx.Params.StakeCurrency, ctx.AccountID, actual)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if err := rebalance(ctx, ctx.AccountID, st, amount.SubClamp(st.Staked, actual)); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeStake(ctx.View, ctx.AccountID, st); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.AccountEvent(tx.EventUnstaked, ctx.AccountID, map[string]any{
		"amount":   actual,
		"released": released,
		"staked":   st.Staked,
		"active":   st.Active,
	}))
	return tx.TesSUCCESS
}
