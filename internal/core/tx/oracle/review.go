package oracle

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Review casts an active node's approve or reject vote on a proposal that
// is still in its original prediction phase.
type Review struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	VoteWeight uint64 `json:"VoteWeight"`
	Approve    bool   `json:"Approve"`
}

// NewReview creates a new Review transaction
func NewReview(account crypto.AccountID, proposalID, weight uint64, approve bool) *Review {
	return &Review{
		BaseTx:     *tx.NewBaseTx(tx.TypeReview, account),
		ProposalID: proposalID,
		VoteWeight: weight,
		Approve:    approve,
	}
}

// TxType returns the transaction type
func (r *Review) TxType() tx.Type {
	return tx.TypeReview
}

// Validate validates the Review transaction
func (r *Review) Validate() error {
	if err := r.BaseTx.Validate(); err != nil {
		return err
	}
	if r.VoteWeight == 0 {
		return errors.New("temBAD_AMOUNT: VoteWeight must be positive")
	}
	return nil
}

// Apply applies the Review transaction to state.
func (r *Review) Apply(ctx *tx.ApplyContext) tx.Result {
	if _, res := proposalIn(ctx.View, r.ProposalID, sle.StatusOriginalPrediction); !res.IsSuccess() {
		return res
	}
	st, res := activeNode(ctx.View, ctx.AccountID)
	if !res.IsSuccess() {
		return res
	}
	voteKey := keylet.ReviewVote(r.ProposalID, ctx.AccountID)
	voted, err := ctx.View.Exists(voteKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if voted {
		return tx.TecDUPLICATE
	}
	if r.VoteWeight > st.Usable() {
		return tx.TecINSUFFICIENT_WEIGHT
	}

	t, err := sle.ReadTally(ctx.View, r.ProposalID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	side := &t.Reject
	if r.Approve {
		side = &t.Approve
	}
	if err := addWeight(side, r.VoteWeight); err != nil {
		return tx.ResultFromError(err)
	}
	updateReviewFlags(t, ctx.Params.MinReview)

	if err := sle.Create(ctx.View, voteKey, &sle.ReviewVote{Weight: r.VoteWeight, Approve: r.Approve}); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeTally(ctx.View, r.ProposalID, t); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventReviewed, r.ProposalID, ctx.AccountID, map[string]any{
		"weight":  r.VoteWeight,
		"approve": r.Approve,
		"tally":   [2]uint64{t.Approve, t.Reject},
	}))
	return tx.TesSUCCESS
}

// updateReviewFlags derives the review flags from the totals. Consent and
// opposition stick once reached.
func updateReviewFlags(t *sle.Tally, minReview uint64) {
	if t.Approve >= minReview {
		t.SetTo(sle.FlagConsent, true)
	}
	if t.Reject >= minReview {
		t.SetTo(sle.FlagOpposition, true)
	}
	t.SetTo(sle.FlagReviewTie, t.Approve == t.Reject && t.Approve >= minReview)
	t.SetTo(sle.FlagApproveLeading, t.Approve > t.Reject)
}
