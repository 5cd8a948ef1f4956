// Package proposal implements the proposal registry: creation, privileged
// status changes and the once-per-block sweep that drives the lifecycle.
package proposal

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/market"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

func init() {
	tx.Register(tx.TypeNewProposal, func() tx.Transaction {
		return &NewProposal{BaseTx: *tx.NewBaseTx(tx.TypeNewProposal, crypto.AccountID{})}
	})
	tx.Register(tx.TypeSetStatus, func() tx.Transaction {
		return &SetStatus{BaseTx: *tx.NewBaseTx(tx.TypeSetStatus, crypto.AccountID{})}
	})
}

// NewProposal opens a binary market settled in Currency and seeds its pool.
type NewProposal struct {
	tx.BaseTx

	Title         string    `json:"Title"`
	OutcomeLabels [2]string `json:"OutcomeLabels"`
	CloseTime     int64     `json:"CloseTime"`
	Category      uint32    `json:"Category"`
	Currency      uint32    `json:"Currency"`
	SeedAmount    uint64    `json:"SeedAmount"`
	FeeRate       uint32    `json:"FeeRate"`
	Detail        string    `json:"Detail,omitempty"`
}

// TxType returns the transaction type
func (n *NewProposal) TxType() tx.Type {
	return tx.TypeNewProposal
}

// Validate validates the NewProposal transaction
func (n *NewProposal) Validate() error {
	if err := n.BaseTx.Validate(); err != nil {
		return err
	}
	if n.Title == "" {
		return errors.New("temMALFORMED: Title is required")
	}
	for i, label := range n.OutcomeLabels {
		if label == "" {
			return fmt.Errorf("temMALFORMED: OutcomeLabels[%d] is required", i)
		}
	}
	if n.Category == 0 {
		return errors.New("temMALFORMED: Category is required")
	}
	if n.Currency == 0 {
		return errors.New("temBAD_CURRENCY: Currency is required")
	}
	if n.SeedAmount == 0 {
		return errors.New("temBAD_AMOUNT: SeedAmount must be positive")
	}
	if n.FeeRate > amount.FeeDenominator {
		return errors.New("temBAD_FEE: FeeRate exceeds 100%")
	}
	return nil
}

// Apply applies the NewProposal transaction to state.
func (n *NewProposal) Apply(ctx *tx.ApplyContext) tx.Result {
	if n.CloseTime < ctx.Now+ctx.Params.MinInterval {
		return tx.TecTOO_SOON
	}
	if n.FeeRate > ctx.Params.MaxFeeRate {
		return tx.TecBAD_FEE_RATE
	}

	settlement, ok, err := sle.Find[sle.Asset](ctx.View, keylet.Asset(n.Currency))
	if err != nil {
		return tx.ResultFromError(err)
	}
	if !ok {
		return tx.TecNO_ENTRY
	}
	used, err := ctx.View.Exists(keylet.UsedCurrency(n.Currency))
	if err != nil {
		return tx.ResultFromError(err)
	}
	if used {
		return tx.TecCURRENCY_USED
	}

	reg, err := sle.ReadRegistry(ctx.View)
	if err != nil {
		return tx.ResultFromError(err)
	}
	id := reg.NextProposalID
	reg.NextProposalID++
	if reg.NextProposalID == 0 {
		return tx.TecOVERFLOW
	}

	p := &sle.Proposal{
		ID:            id,
		Title:         n.Title,
		OutcomeLabels: n.OutcomeLabels,
		Category:      n.Category,
		Detail:        n.Detail,
		CloseTime:     n.CloseTime,
		CreateTime:    ctx.Now,
		Status:        sle.StatusOriginalPrediction,
		Owner:         ctx.AccountID,
		Currency:      n.Currency,
		FeeRate:       n.FeeRate,
	}

	for i, label := range n.OutcomeLabels {
		c, err := allocate(ctx, id, label, fmt.Sprintf("P%d%c", id, 'A'+i), settlement.Decimals)
		if err != nil {
			return tx.ResultFromError(err)
		}
		p.Outcomes[i] = c
	}
	if p.Liquidity, err = allocate(ctx, id, n.Title+" LP", fmt.Sprintf("P%dLP", id), settlement.Decimals); err != nil {
		return tx.ResultFromError(err)
	}

	if err := sle.Put(ctx.View, keylet.Registry(), reg); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.Create(ctx.View, keylet.Proposal(id), p); err != nil {
		return tx.ResultFromError(err)
	}
	if err := market.Seed(ctx, p, n.SeedAmount); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventNewProposal, id, ctx.AccountID, map[string]any{
		"title":     p.Title,
		"currency":  p.Currency,
		"outcomes":  p.Outcomes,
		"liquidity": p.Liquidity,
		"seed":      n.SeedAmount,
		"close":     p.CloseTime,
	}))
	return tx.TesSUCCESS
}

// allocate creates a proposal-owned asset and marks it as used.
func allocate(ctx *tx.ApplyContext, proposalID uint64, name, symbol string, decimals uint8) (uint32, error) {
	c, err := ctx.Tokens.NewAsset(name, symbol, decimals)
	if err != nil {
		return 0, err
	}
	if err := sle.Create(ctx.View, keylet.UsedCurrency(c), &sle.UsedCurrency{ProposalID: proposalID}); err != nil {
		return 0, err
	}
	return c, nil
}

// SetStatus lets an admin move a proposal to any status.
type SetStatus struct {
	tx.BaseTx

	ProposalID uint64     `json:"ProposalID"`
	Status     sle.Status `json:"Status"`
}

// NewSetStatus creates a new SetStatus transaction
func NewSetStatus(account crypto.AccountID, proposalID uint64, status sle.Status) *SetStatus {
	return &SetStatus{
		BaseTx:     *tx.NewBaseTx(tx.TypeSetStatus, account),
		ProposalID: proposalID,
		Status:     status,
	}
}

// TxType returns the transaction type
func (s *SetStatus) TxType() tx.Type {
	return tx.TypeSetStatus
}

// Validate validates the SetStatus transaction
func (s *SetStatus) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if !s.Status.Valid() {
		return fmt.Errorf("temMALFORMED: invalid status %d", uint8(s.Status))
	}
	return nil
}

// Apply applies the SetStatus transaction to state.
func (s *SetStatus) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}
	p, err := sle.ReadProposal(ctx.View, s.ProposalID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if p.Status == s.Status {
		return tx.TecSAME_STATUS
	}
	if err := market.Transition(ctx, p, s.Status); err != nil {
		return tx.ResultFromError(err)
	}
	return tx.TesSUCCESS
}
