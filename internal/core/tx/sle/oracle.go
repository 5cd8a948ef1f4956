package sle

import (
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// StakeAccount is an oracle node's stake. Staked always equals the balance
// of the latest snapshot; Locked is the part committed to result uploads.
type StakeAccount struct {
	Staked       uint64 `codec:"staked" json:"staked"`
	Locked       uint64 `codec:"locked" json:"locked"`
	Active       bool   `codec:"active" json:"active"`
	NextSequence uint64 `codec:"next_seq" json:"next_sequence"`
}

// Usable returns the vote weight not tied up in locks.
func (s *StakeAccount) Usable() uint64 {
	if s.Locked > s.Staked {
		return 0
	}
	return s.Staked - s.Locked
}

// Snapshot is one point of an account's stake history.
type Snapshot struct {
	Height  uint64 `codec:"height" json:"height"`
	Balance uint64 `codec:"balance" json:"balance"`
}

// Lock is the stake a node committed when uploading a result.
type Lock struct {
	Amount uint64 `codec:"amount"`
}

type ReviewVote struct {
	Weight  uint64 `codec:"weight"`
	Approve bool   `codec:"approve"`
}

type ResultVote struct {
	Currency uint32 `codec:"currency"`
	Weight   uint64 `codec:"weight"`
}

// TallyFlag is a derived boolean over a proposal's vote totals.
type TallyFlag uint32

const (
	FlagConsent TallyFlag = 1 << iota
	FlagOpposition
	FlagReviewTie
	FlagApproveLeading
	FlagReportSucceeded
	FlagSlashFinished
)

// Tally aggregates every vote cast on a proposal.
type Tally struct {
	Approve     uint64    `codec:"approve" json:"approve"`
	Reject      uint64    `codec:"reject" json:"reject"`
	Results     [2]uint64 `codec:"results" json:"results"`
	ReviewDelay uint32    `codec:"review_delay" json:"review_delay"`
	UploadDelay uint32    `codec:"upload_delay" json:"upload_delay"`
	AnnouncedAt int64     `codec:"announced_at" json:"announced_at"`
	Flags       TallyFlag `codec:"flags" json:"flags"`
	ReportTotal uint64    `codec:"report_total" json:"report_total"`
	SlashTotal  uint64    `codec:"slash_total" json:"slash_total"`
	ReportPool  uint64    `codec:"report_pool" json:"report_pool"`
}

func (t *Tally) Has(f TallyFlag) bool {
	return t.Flags&f != 0
}

// SetTo sets or clears f.
func (t *Tally) SetTo(f TallyFlag, on bool) {
	if on {
		t.Flags |= f
	} else {
		t.Flags &^= f
	}
}

type ReportBond struct {
	Amount uint64 `codec:"amount"`
	// Released is set once the bond went back to the reporter while the
	// reward share was still pending.
	Released bool `codec:"released"`
}

type Slash struct {
	Amount uint64 `codec:"amount"`
}

// ReadStake returns the stake account, zero-valued if the account never staked.
func ReadStake(view LedgerView, id crypto.AccountID) (*StakeAccount, error) {
	st, ok, err := Find[StakeAccount](view, keylet.Stake(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &StakeAccount{}, nil
	}
	return st, nil
}

// ReadTally returns the tally, zero-valued if nobody voted yet.
func ReadTally(view LedgerView, proposalID uint64) (*Tally, error) {
	t, ok, err := Find[Tally](view, keylet.Tally(proposalID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Tally{}, nil
	}
	return t, nil
}
