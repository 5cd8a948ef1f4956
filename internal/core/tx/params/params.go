// Package params implements the governance transaction that tunes the
// protocol parameters stored on chain.
package params

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

func init() {
	tx.Register(tx.TypeSetParams, func() tx.Transaction {
		return &SetParams{BaseTx: *tx.NewBaseTx(tx.TypeSetParams, crypto.AccountID{})}
	})
}

// SetParams overwrites every parameter that is present. Absent fields keep
// their current value.
type SetParams struct {
	tx.BaseTx

	MinInterval       *int64             `json:"MinInterval,omitempty"`
	ExpirationTimeout *int64             `json:"ExpirationTimeout,omitempty"`
	ReviewCycle       *int64             `json:"ReviewCycle,omitempty"`
	UploadCycle       *int64             `json:"UploadCycle,omitempty"`
	PublicityPeriod   *int64             `json:"PublicityPeriod,omitempty"`
	MinStake          *uint64            `json:"MinStake,omitempty"`
	MinReview         *uint64            `json:"MinReview,omitempty"`
	MinReport         *uint64            `json:"MinReport,omitempty"`
	LockRatio         *uint32            `json:"LockRatio,omitempty"`
	WithdrawalFeeRate *uint32            `json:"WithdrawalFeeRate,omitempty"`
	MaxFeeRate        *uint32            `json:"MaxFeeRate,omitempty"`
	StakeCurrency     *uint32            `json:"StakeCurrency,omitempty"`
	Admins            []crypto.AccountID `json:"Admins,omitempty"`
}

// NewSetParams creates an empty SetParams transaction
func NewSetParams(account crypto.AccountID) *SetParams {
	return &SetParams{BaseTx: *tx.NewBaseTx(tx.TypeSetParams, account)}
}

// TxType returns the transaction type
func (s *SetParams) TxType() tx.Type {
	return tx.TypeSetParams
}

// Validate validates the SetParams transaction
func (s *SetParams) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.LockRatio != nil && *s.LockRatio > amount.PercentDenominator {
		return errors.New("temMALFORMED: LockRatio must be at most 100")
	}
	for _, rate := range []*uint32{s.WithdrawalFeeRate, s.MaxFeeRate} {
		if rate != nil && *rate > amount.FeeDenominator {
			return errors.New("temBAD_FEE: fee rate must be at most 10000")
		}
	}
	for _, d := range []*int64{s.MinInterval, s.ExpirationTimeout, s.ReviewCycle, s.UploadCycle, s.PublicityPeriod} {
		if d != nil && *d < 0 {
			return errors.New("temMALFORMED: durations must not be negative")
		}
	}
	for _, a := range s.Admins {
		if a.IsZero() {
			return errors.New("temMALFORMED: zero admin account")
		}
	}
	return nil
}

// Apply applies the SetParams transaction to state.
func (s *SetParams) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}
	p := *ctx.Params
	changed := s.merge(&p)
	if len(changed) == 0 {
		return tx.TesSUCCESS
	}
	if err := sle.WriteParams(ctx.View, &p); err != nil {
		return tx.ResultFromError(err)
	}
	*ctx.Params = p

	ctx.Emit(tx.AccountEvent(tx.EventParamsChanged, ctx.AccountID, map[string]any{
		"changed": changed,
	}))
	return tx.TesSUCCESS
}

// merge copies the present fields into p and names the ones it touched.
func (s *SetParams) merge(p *sle.Params) []string {
	var changed []string
	setInt := func(name string, dst *int64, v *int64) {
		if v != nil {
			*dst = *v
			changed = append(changed, name)
		}
	}
	setUint := func(name string, dst *uint64, v *uint64) {
		if v != nil {
			*dst = *v
			changed = append(changed, name)
		}
	}
	setRate := func(name string, dst *uint32, v *uint32) {
		if v != nil {
			*dst = *v
			changed = append(changed, name)
		}
	}

	setInt("min_interval", &p.MinInterval, s.MinInterval)
	setInt("expiration_timeout", &p.ExpirationTimeout, s.ExpirationTimeout)
	setInt("review_cycle", &p.ReviewCycle, s.ReviewCycle)
	setInt("upload_cycle", &p.UploadCycle, s.UploadCycle)
	setInt("publicity_period", &p.PublicityPeriod, s.PublicityPeriod)
	setUint("min_stake", &p.MinStake, s.MinStake)
	setUint("min_review", &p.MinReview, s.MinReview)
	setUint("min_report", &p.MinReport, s.MinReport)
	setRate("lock_ratio", &p.LockRatio, s.LockRatio)
	setRate("withdrawal_fee_rate", &p.WithdrawalFeeRate, s.WithdrawalFeeRate)
	setRate("max_fee_rate", &p.MaxFeeRate, s.MaxFeeRate)
	setRate("stake_currency", &p.StakeCurrency, s.StakeCurrency)
	if len(s.Admins) > 0 {
		p.Admins = append([]crypto.AccountID(nil), s.Admins...)
		changed = append(changed, "admins")
	}
	return changed
}
