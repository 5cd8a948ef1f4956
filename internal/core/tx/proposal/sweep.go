package proposal

import (
	"fmt"
	"log/slog"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// ReviewOutcome is the oracle's verdict on a proposal under review.
type ReviewOutcome int

const (
	// ReviewPending means no side has reached the review threshold.
	ReviewPending ReviewOutcome = iota
	ReviewTie
	ReviewApproved
	ReviewRejected
)

func (r ReviewOutcome) String() string {
	switch r {
	case ReviewPending:
		return "pending"
	case ReviewTie:
		return "tie"
	case ReviewApproved:
		return "approved"
	case ReviewRejected:
		return "rejected"
	default:
		return fmt.Sprintf("review(%d)", int(r))
	}
}

// UploadOutcome summarizes the result uploads of a proposal.
type UploadOutcome struct {
	// Tie is set when both outcomes have the same nonzero weight.
	Tie bool
	// Winner is the majority outcome currency, zero if nobody uploaded.
	Winner uint32
}

// Oracle is the sweep's view of the oracle engine.
type Oracle interface {
	ReviewDelay(view sle.LedgerView, proposalID uint64) (uint32, error)
	ReviewOutcome(view sle.LedgerView, proposalID uint64) (ReviewOutcome, error)
	ExtendReview(ctx *tx.ApplyContext, proposalID uint64) error

	UploadDelay(view sle.LedgerView, proposalID uint64) (uint32, error)
	UploadOutcome(view sle.LedgerView, p *sle.Proposal) (UploadOutcome, error)
	ExtendUpload(ctx *tx.ApplyContext, proposalID uint64) error

	MarkAnnounced(ctx *tx.ApplyContext, proposalID uint64) error
	AnnouncedAt(view sle.LedgerView, proposalID uint64) (int64, error)
}

// Market is the sweep's view of the market pool.
type Market interface {
	Transition(ctx *tx.ApplyContext, p *sle.Proposal, to sle.Status) error
	Announce(ctx *tx.ApplyContext, p *sle.Proposal, result uint32) error
}

// Sweeper advances every proposal whose time has come. It runs once per
// block before any submitted transaction.
type Sweeper struct {
	oracle Oracle
	market Market
	logger *slog.Logger
}

// NewSweeper creates a sweeper over the given oracle and market.
func NewSweeper(oracle Oracle, market Market, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		oracle: oracle,
		market: market,
		logger: logger.With(slog.String("component", "sweep")),
	}
}

// AdvanceAll walks proposal ids from zero to the newest. Each proposal is
// advanced in its own state table: a failure discards that proposal's
// changes, is logged and does not stop the walk. The returned events belong
// to committed transitions only.
func (s *Sweeper) AdvanceAll(view sle.LedgerView, block tx.BlockContext) ([]tx.Event, error) {
	reg, err := sle.ReadRegistry(view)
	if err != nil {
		return nil, err
	}

	var events []tx.Event
	for id := uint64(0); id < reg.NextProposalID; id++ {
		table := tx.NewApplyStateTable(view)
		ctx, err := tx.NewApplyContext(table, block, crypto.AccountID{})
		if err != nil {
			return events, err
		}
		if err := s.advance(ctx, id); err != nil {
			table.Discard()
			s.logger.Warn("advance proposal failed",
				slog.Uint64("proposal_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := table.Apply(); err != nil {
			s.logger.Warn("commit proposal advance failed",
				slog.Uint64("proposal_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, ev := range ctx.Events() {
			ev.Height = block.Height
			events = append(events, ev)
		}
	}
	return events, nil
}

func (s *Sweeper) advance(ctx *tx.ApplyContext, id uint64) error {
	p, err := sle.ReadProposal(ctx.View, id)
	if err != nil {
		return err
	}
	now := ctx.Now
	params := ctx.Params

	switch p.Status {
	case sle.StatusOriginalPrediction:
		if now-p.CreateTime > params.ExpirationTimeout || now >= p.CloseTime {
			return s.market.Transition(ctx, p, sle.StatusEnd)
		}
		delay, err := s.oracle.ReviewDelay(ctx.View, id)
		if err != nil {
			return err
		}
		if now < p.CreateTime+params.ReviewCycle*int64(delay+1) {
			return nil
		}
		outcome, err := s.oracle.ReviewOutcome(ctx.View, id)
		if err != nil {
			return err
		}
		switch outcome {
		case ReviewTie:
			return s.oracle.ExtendReview(ctx, id)
		case ReviewApproved:
			return s.market.Transition(ctx, p, sle.StatusFormalPrediction)
		case ReviewRejected:
			return s.market.Transition(ctx, p, sle.StatusEnd)
		}

	case sle.StatusFormalPrediction:
		if now >= p.CloseTime {
			return s.market.Transition(ctx, p, sle.StatusWaitingForResults)
		}

	case sle.StatusWaitingForResults:
		delay, err := s.oracle.UploadDelay(ctx.View, id)
		if err != nil {
			return err
		}
		if now < p.CloseTime+params.UploadCycle*int64(delay+1) {
			return nil
		}
		outcome, err := s.oracle.UploadOutcome(ctx.View, p)
		if err != nil {
			return err
		}
		switch {
		case outcome.Tie:
			return s.oracle.ExtendUpload(ctx, id)
		case outcome.Winner != 0:
			if err := s.market.Announce(ctx, p, outcome.Winner); err != nil {
				return err
			}
			return s.oracle.MarkAnnounced(ctx, id)
		}

	case sle.StatusResultAnnouncement:
		at, err := s.oracle.AnnouncedAt(ctx.View, id)
		if err != nil {
			return err
		}
		if now >= at+params.PublicityPeriod {
			return s.market.Transition(ctx, p, sle.StatusEnd)
		}
	}
	return nil
}
