package sle

import (
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Params holds the governance-tunable protocol parameters. Durations are in
// seconds, rates use amount.FeeDenominator, LockRatio is a percentage.
type Params struct {
	MinInterval       int64              `codec:"min_interval" json:"min_interval" mapstructure:"min_interval"`
	ExpirationTimeout int64              `codec:"expiration_timeout" json:"expiration_timeout" mapstructure:"expiration_timeout"`
	ReviewCycle       int64              `codec:"review_cycle" json:"review_cycle" mapstructure:"review_cycle"`
	UploadCycle       int64              `codec:"upload_cycle" json:"upload_cycle" mapstructure:"upload_cycle"`
	PublicityPeriod   int64              `codec:"publicity_period" json:"publicity_period" mapstructure:"publicity_period"`
	MinStake          uint64             `codec:"min_stake" json:"min_stake" mapstructure:"min_stake"`
	MinReview         uint64             `codec:"min_review" json:"min_review" mapstructure:"min_review"`
	MinReport         uint64             `codec:"min_report" json:"min_report" mapstructure:"min_report"`
	LockRatio         uint32             `codec:"lock_ratio" json:"lock_ratio" mapstructure:"lock_ratio"`
	WithdrawalFeeRate uint32             `codec:"withdrawal_fee_rate" json:"withdrawal_fee_rate" mapstructure:"withdrawal_fee_rate"`
	MaxFeeRate        uint32             `codec:"max_fee_rate" json:"max_fee_rate" mapstructure:"max_fee_rate"`
	StakeCurrency     uint32             `codec:"stake_currency" json:"stake_currency" mapstructure:"stake_currency"`
	Admins            []crypto.AccountID `codec:"admins" json:"admins" mapstructure:"-"`
}

// IsAdmin reports whether id may call privileged operations.
func (p *Params) IsAdmin(id crypto.AccountID) bool {
	for _, a := range p.Admins {
		if a == id {
			return true
		}
	}
	return false
}

// ReadParams loads the parameters written at genesis.
func ReadParams(view LedgerView) (*Params, error) {
	return Get[Params](view, keylet.Params())
}

func WriteParams(view LedgerView, p *Params) error {
	return Put(view, keylet.Params(), p)
}
