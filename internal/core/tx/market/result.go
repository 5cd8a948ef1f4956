package market

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// SetResult lets an admin settle a proposal that is waiting for results.
// The proposal ends immediately.
type SetResult struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Result     uint32 `json:"Result"`
}

// NewSetResult creates a new SetResult transaction
func NewSetResult(account crypto.AccountID, proposalID uint64, result uint32) *SetResult {
	return &SetResult{
		BaseTx:     *tx.NewBaseTx(tx.TypeSetResult, account),
		ProposalID: proposalID,
		Result:     result,
	}
}

// TxType returns the transaction type
func (s *SetResult) TxType() tx.Type {
	return tx.TypeSetResult
}

// Validate validates the SetResult transaction
func (s *SetResult) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Result == 0 {
		return errors.New("temBAD_CURRENCY: Result is required")
	}
	return nil
}

// Apply applies the SetResult transaction to state.
func (s *SetResult) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}
	p, _, r := load(ctx.View, s.ProposalID, sle.StatusWaitingForResults)
	if !r.IsSuccess() {
		return r
	}
	if _, ok := p.OutcomeIndex(s.Result); !ok {
		return tx.TecBAD_OUTCOME
	}

	p.Result = s.Result
	if err := Transition(ctx, p, sle.StatusEnd); err != nil {
		return tx.ResultFromError(err)
	}
	ctx.Emit(tx.ProposalEvent(tx.EventResultSet, p.ID, ctx.AccountID, map[string]any{
		"result": s.Result,
	}))
	return tx.TesSUCCESS
}

// SetResultWhenEnd lets an admin record or correct the result of a
// proposal that already ended.
type SetResultWhenEnd struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Result     uint32 `json:"Result"`
}

// NewSetResultWhenEnd creates a new SetResultWhenEnd transaction
func NewSetResultWhenEnd(account crypto.AccountID, proposalID uint64, result uint32) *SetResultWhenEnd {
	return &SetResultWhenEnd{
		BaseTx:     *tx.NewBaseTx(tx.TypeSetResultWhenEnd, account),
		ProposalID: proposalID,
		Result:     result,
	}
}

// TxType returns the transaction type
func (s *SetResultWhenEnd) TxType() tx.Type {
	return tx.TypeSetResultWhenEnd
}

// Validate validates the SetResultWhenEnd transaction
func (s *SetResultWhenEnd) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Result == 0 {
		return errors.New("temBAD_CURRENCY: Result is required")
	}
	return nil
}

// Apply applies the SetResultWhenEnd transaction to state.
func (s *SetResultWhenEnd) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}
	p, _, r := load(ctx.View, s.ProposalID, sle.StatusEnd)
	if !r.IsSuccess() {
		return r
	}
	if _, ok := p.OutcomeIndex(s.Result); !ok {
		return tx.TecBAD_OUTCOME
	}

	p.Result = s.Result
	if err := FreezeFinal(ctx.View, p.ID); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.WriteProposal(ctx.View, p); err != nil {
		return tx.ResultFromError(err)
	}
	ctx.Emit(tx.ProposalEvent(tx.EventResultSet, p.ID, ctx.AccountID, map[string]any{
		"result": s.Result,
	}))
	return tx.TesSUCCESS
}
