package oracle

import (
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/proposal"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
)

// Lifecycle answers the proposal sweep's questions from the vote tallies.
type Lifecycle struct{}

var _ proposal.Oracle = Lifecycle{}

func (Lifecycle) ReviewDelay(view sle.LedgerView, proposalID uint64) (uint32, error) {
	t, err := sle.ReadTally(view, proposalID)
	if err != nil {
		return 0, err
	}
	return t.ReviewDelay, nil
}

// ReviewOutcome reads the review flags. A tie wins over everything else;
// approval needs the approve side leading with consent reached, rejection
// the reject side leading with opposition reached.
func (Lifecycle) ReviewOutcome(view sle.LedgerView, proposalID uint64) (proposal.ReviewOutcome, error) {
	t, err := sle.ReadTally(view, proposalID)
	if err != nil {
		return proposal.ReviewPending, err
	}
	switch {
	case t.Has(sle.FlagReviewTie):
		return proposal.ReviewTie, nil
	case t.Has(sle.FlagApproveLeading) && t.Has(sle.FlagConsent):
		return proposal.ReviewApproved, nil
	case t.Reject > t.Approve && t.Has(sle.FlagOpposition):
		return proposal.ReviewRejected, nil
	default:
		return proposal.ReviewPending, nil
	}
}

func (Lifecycle) ExtendReview(ctx *tx.ApplyContext, proposalID uint64) error {
	t, err := sle.ReadTally(ctx.View, proposalID)
	if err != nil {
		return err
	}
	t.ReviewDelay++
	if t.ReviewDelay == 0 {
		return fmt.Errorf("proposal %d: review delay overflow", proposalID)
	}
	if err := writeTally(ctx.View, proposalID, t); err != nil {
		return err
	}
	ctx.Emit(tx.ProposalEvent(tx.EventReviewExtended, proposalID, ctx.AccountID, map[string]any{
		"delay": t.ReviewDelay,
	}))
	return nil
}

func (Lifecycle) UploadDelay(view sle.LedgerView, proposalID uint64) (uint32, error) {
	t, err := sle.ReadTally(view, proposalID)
	if err != nil {
		return 0, err
	}
	return t.UploadDelay, nil
}

// UploadOutcome compares the weight behind each outcome.
func (Lifecycle) UploadOutcome(view sle.LedgerView, p *sle.Proposal) (proposal.UploadOutcome, error) {
	t, err := sle.ReadTally(view, p.ID)
	if err != nil {
		return proposal.UploadOutcome{}, err
	}
	a, b := t.Results[0], t.Results[1]
	switch {
	case a == b && a == 0:
		return proposal.UploadOutcome{}, nil
	case a == b:
		return proposal.UploadOutcome{Tie: true}, nil
	case a > b:
		return proposal.UploadOutcome{Winner: p.Outcomes[0]}, nil
	default:
		return proposal.UploadOutcome{Winner: p.Outcomes[1]}, nil
	}
}

func (Lifecycle) ExtendUpload(ctx *tx.ApplyContext, proposalID uint64) error {
	t, err := sle.ReadTally(ctx.View, proposalID)
	if err != nil {
		return err
	}
	t.UploadDelay++
	if t.UploadDelay == 0 {
		return fmt.Errorf("proposal %d: upload delay overflow", proposalID)
	}
	if err := writeTally(ctx.View, proposalID, t); err != nil {
		return err
	}
	ctx.Emit(tx.ProposalEvent(tx.EventUploadExtended, proposalID, ctx.AccountID, map[string]any{
		"delay": t.UploadDelay,
	}))
	return nil
}

// MarkAnnounced starts the publicity period at the current block time.
func (Lifecycle) MarkAnnounced(ctx *tx.ApplyContext, proposalID uint64) error {
	t, err := sle.ReadTally(ctx.View, proposalID)
	if err != nil {
		return err
	}
	t.AnnouncedAt = ctx.Now
	return writeTally(ctx.View, proposalID, t)
}

func (Lifecycle) AnnouncedAt(view sle.LedgerView, proposalID uint64) (int64, error) {
	t, err := sle.ReadTally(view, proposalID)
	if err != nil {
		return 0, err
	}
	return t.AnnouncedAt, nil
}
