package sle

import (
	"fmt"
	"strings"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Status is a proposal's lifecycle state.
type Status uint8

const (
	StatusOriginalPrediction Status = iota
	StatusFormalPrediction
	StatusWaitingForResults
	StatusResultAnnouncement
	StatusEnd
)

var statusNames = [...]string{
	"OriginalPrediction",
	"FormalPrediction",
	"WaitingForResults",
	"ResultAnnouncement",
	"End",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return int(s) < len(statusNames)
}

// ParseStatus accepts the names produced by Status.String, case-insensitively.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Proposal is a binary market. The currency ids never change once created.
type Proposal struct {
	ID            uint64           `codec:"id" json:"id"`
	Title         string           `codec:"title" json:"title"`
	OutcomeLabels [2]string        `codec:"labels" json:"outcome_labels"`
	Category      uint32           `codec:"category" json:"category"`
	Detail        string           `codec:"detail" json:"detail"`
	CloseTime     int64            `codec:"close" json:"close_time"`
	CreateTime    int64            `codec:"create" json:"create_time"`
	Status        Status           `codec:"status" json:"status"`
	Owner         crypto.AccountID `codec:"owner" json:"owner"`
	Currency      uint32           `codec:"currency" json:"currency"`
	Outcomes      [2]uint32        `codec:"outcomes" json:"outcomes"`
	Liquidity     uint32           `codec:"liquidity" json:"liquidity"`
	FeeRate       uint32           `codec:"fee_rate" json:"fee_rate"`
	Result        uint32           `codec:"result" json:"result"`
}

// OutcomeIndex returns the position of currency in the outcome pair.
func (p *Proposal) OutcomeIndex(currency uint32) (int, bool) {
	for i, c := range p.Outcomes {
		if c == currency {
			return i, true
		}
	}
	return 0, false
}

// HasResult reports whether a winning outcome has been recorded.
func (p *Proposal) HasResult() bool {
	return p.Result != 0
}

// Registry allocates proposal ids, starting at zero.
type Registry struct {
	NextProposalID uint64 `codec:"next"`
}

// UsedCurrency marks a currency as allocated to a proposal's outcome or
// liquidity token. Such a currency can never settle another proposal.
type UsedCurrency struct {
	ProposalID uint64 `codec:"proposal"`
}

// ReadProposal loads a proposal, failing with ErrEntryNotFound if unknown.
func ReadProposal(view LedgerView, id uint64) (*Proposal, error) {
	return Get[Proposal](view, keylet.Proposal(id))
}

// WriteProposal stores a proposal.
func WriteProposal(view LedgerView, p *Proposal) error {
	return Put(view, keylet.Proposal(p.ID), p)
}

// ReadRegistry returns the proposal registry, zero-valued if never written.
func ReadRegistry(view LedgerView) (*Registry, error) {
	reg, ok, err := Find[Registry](view, keylet.Registry())
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Registry{}, nil
	}
	return reg, nil
}
