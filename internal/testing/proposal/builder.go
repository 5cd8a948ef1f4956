// Package proposal provides builders and integration tests for the
// proposal registry and the lifecycle sweep.
package proposal

import (
	stdtesting "testing"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/proposal"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/testing"
)

// Defaults used by Create.
const (
	DefaultSeed    uint64 = 100_000
	DefaultFeeRate uint32 = 100
)

// NewProposalBuilder provides a fluent interface for building NewProposal transactions.
type NewProposalBuilder struct {
	owner     *testing.Account
	title     string
	labels    [2]string
	closeTime int64
	category  uint32
	currency  uint32
	seed      uint64
	feeRate   uint32
	detail    string
}

// Create starts a proposal owned by owner that closes at closeTime (unix
// seconds), seeded with DefaultSeed of the settlement currency.
func Create(owner *testing.Account, closeTime int64) *NewProposalBuilder {
	return &NewProposalBuilder{
		owner:     owner,
		title:     "Will it rain tomorrow",
		labels:    [2]string{"Yes", "No"},
		closeTime: closeTime,
		category:  1,
		currency:  testing.SettlementCurrency,
		seed:      DefaultSeed,
		feeRate:   DefaultFeeRate,
	}
}

// Title sets the proposal title.
func (b *NewProposalBuilder) Title(title string) *NewProposalBuilder {
	b.title = title
	return b
}

// Labels sets the two outcome labels.
func (b *NewProposalBuilder) Labels(a, c string) *NewProposalBuilder {
	b.labels = [2]string{a, c}
	return b
}

// Category sets the category id.
func (b *NewProposalBuilder) Category(c uint32) *NewProposalBuilder {
	b.category = c
	return b
}

// Currency sets the settlement currency.
func (b *NewProposalBuilder) Currency(c uint32) *NewProposalBuilder {
	b.currency = c
	return b
}

// Seed sets the initial liquidity.
func (b *NewProposalBuilder) Seed(amt uint64) *NewProposalBuilder {
	b.seed = amt
	return b
}

// FeeRate sets the trading fee (10000 = 100%).
func (b *NewProposalBuilder) FeeRate(rate uint32) *NewProposalBuilder {
	b.feeRate = rate
	return b
}

// Detail sets the free-form description.
func (b *NewProposalBuilder) Detail(d string) *NewProposalBuilder {
	b.detail = d
	return b
}

// Build constructs the NewProposal transaction.
func (b *NewProposalBuilder) Build() *proposal.NewProposal {
	return &proposal.NewProposal{
		BaseTx:        *tx.NewBaseTx(tx.TypeNewProposal, b.owner.ID),
		Title:         b.title,
		OutcomeLabels: b.labels,
		CloseTime:     b.closeTime,
		Category:      b.category,
		Currency:      b.currency,
		SeedAmount:    b.seed,
		FeeRate:       b.feeRate,
		Detail:        b.detail,
	}
}

// SetStatus builds an admin status change.
func SetStatus(admin *testing.Account, proposalID uint64, status sle.Status) *proposal.SetStatus {
	return proposal.NewSetStatus(admin.ID, proposalID, status)
}

// Open submits b, requires success and returns the new proposal.
func Open(t *stdtesting.T, env *testing.TestEnv, b *NewProposalBuilder) *sle.Proposal {
	t.Helper()
	result := env.Submit(b.Build())
	testing.RequireTxSuccess(t, result)
	ev, ok := result.Event(tx.EventNewProposal)
	if !ok || ev.ProposalID == nil {
		t.Fatalf("NewProposal emitted no %s event", tx.EventNewProposal)
	}
	return env.Proposal(*ev.ProposalID)
}

// OpenFormal opens a proposal and has the admin move it straight to
// FormalPrediction so it can trade.
func OpenFormal(t *stdtesting.T, env *testing.TestEnv, b *NewProposalBuilder) *sle.Proposal {
	t.Helper()
	p := Open(t, env, b)
	testing.RequireTxSuccess(t, env.Submit(SetStatus(testing.AdminAccount(), p.ID, sle.StatusFormalPrediction)))
	return env.Proposal(p.ID)
}
