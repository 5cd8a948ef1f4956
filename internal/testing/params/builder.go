// Package params provides builders and integration tests for parameter governance.
package params

import (
	"github.com/LeJamon/goPredictd/internal/core/tx/params"
	"github.com/LeJamon/goPredictd/internal/testing"
)

// SetParamsBuilder provides a fluent interface for building SetParams transactions.
type SetParamsBuilder struct {
	tx *params.SetParams
}

// Set starts a parameter change signed by account.
func Set(account *testing.Account) *SetParamsBuilder {
	return &SetParamsBuilder{tx: params.NewSetParams(account.ID)}
}

// MinInterval sets the minimum gap between now and a close time.
func (b *SetParamsBuilder) MinInterval(secs int64) *SetParamsBuilder {
	b.tx.MinInterval = &secs
	return b
}

// ReviewCycle sets the review window.
func (b *SetParamsBuilder) ReviewCycle(secs int64) *SetParamsBuilder {
	b.tx.ReviewCycle = &secs
	return b
}

// UploadCycle sets the result upload window.
func (b *SetParamsBuilder) UploadCycle(secs int64) *SetParamsBuilder {
	b.tx.UploadCycle = &secs
	return b
}

// PublicityPeriod sets how long an announced result may be disputed.
func (b *SetParamsBuilder) PublicityPeriod(secs int64) *SetParamsBuilder {
	b.tx.PublicityPeriod = &secs
	return b
}

// MinStake sets the stake needed to be an active node.
func (b *SetParamsBuilder) MinStake(v uint64) *SetParamsBuilder {
	b.tx.MinStake = &v
	return b
}

// MinReview sets the review weight threshold.
func (b *SetParamsBuilder) MinReview(v uint64) *SetParamsBuilder {
	b.tx.MinReview = &v
	return b
}

// LockRatio sets the locked percentage of an upload's weight.
func (b *SetParamsBuilder) LockRatio(pct uint32) *SetParamsBuilder {
	b.tx.LockRatio = &pct
	return b
}

// MaxFeeRate sets the highest trading fee a proposal may use.
func (b *SetParamsBuilder) MaxFeeRate(rate uint32) *SetParamsBuilder {
	b.tx.MaxFeeRate = &rate
	return b
}

// WithdrawalFeeRate sets the fee on winning retrievals.
func (b *SetParamsBuilder) WithdrawalFeeRate(rate uint32) *SetParamsBuilder {
	b.tx.WithdrawalFeeRate = &rate
	return b
}

// Admins replaces the admin list.
func (b *SetParamsBuilder) Admins(accounts ...*testing.Account) *SetParamsBuilder {
	for _, a := range accounts {
		b.tx.Admins = append(b.tx.Admins, a.ID)
	}
	return b
}

// Build returns the SetParams transaction.
func (b *SetParamsBuilder) Build() *params.SetParams {
	return b.tx
}
