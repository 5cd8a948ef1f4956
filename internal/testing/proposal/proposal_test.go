package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	predtesting "github.com/LeJamon/goPredictd/internal/testing"
)

const hour = 3600

func TestNewProposal(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	alice := predtesting.NewAccount("alice")
	env.Fund(alice)
	env.Close()
	closeTime := env.BlockTime() + 2*hour

	result := env.Submit(Create(alice, closeTime).Title("Will it snow").Detail("at the airport").Build())
	predtesting.RequireTxSuccess(t, result)

	p := env.Proposal(0)
	assert.Equal(t, "Will it snow", p.Title)
	assert.Equal(t, sle.StatusOriginalPrediction, p.Status)
	assert.Equal(t, env.BlockTime(), p.CreateTime)
	assert.Equal(t, closeTime, p.CloseTime)
	assert.Equal(t, alice.ID, p.Owner)
	assert.False(t, p.HasResult())

	t.Run("allocates fresh currencies", func(t *testing.T) {
		ids := map[uint32]bool{p.Currency: true}
		for _, c := range []uint32{p.Outcomes[0], p.Outcomes[1], p.Liquidity} {
			assert.False(t, ids[c], "currency %d allocated twice", c)
			ids[c] = true
			assert.True(t, env.Exists(keylet.UsedCurrency(c)))
		}
	})

	t.Run("seeds the pool", func(t *testing.T) {
		pool := env.Pool(0)
		assert.Equal(t, [2]uint64{DefaultSeed, DefaultSeed}, pool.TotalOptional)
		assert.Equal(t, DefaultSeed, pool.TotalMarket)
		assert.Equal(t, DefaultSeed, pool.TotalLiquidity)
		predtesting.RequireBalance(t, env, alice, p.Liquidity, DefaultSeed)
		predtesting.RequireBalance(t, env, alice, predtesting.SettlementCurrency, predtesting.DefaultFunding-DefaultSeed)
		predtesting.RequirePoolConserved(t, env, 0)
	})

	t.Run("ids are sequential", func(t *testing.T) {
		second := Open(t, env, Create(alice, closeTime))
		assert.Equal(t, uint64(1), second.ID)
	})

	t.Run("emits new_proposal", func(t *testing.T) {
		ev, ok := result.Event(tx.EventNewProposal)
		require.True(t, ok)
		require.NotNil(t, ev.ProposalID)
		assert.Equal(t, uint64(0), *ev.ProposalID)
		assert.Equal(t, DefaultSeed, ev.Fields["seed"])
	})
}

func TestNewProposal_Rejected(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	alice := predtesting.NewAccount("alice")
	poor := predtesting.NewAccount("poor")
	env.Fund(alice)
	env.FundAmount(poor, predtesting.SettlementCurrency, 10)
	now := env.BlockTime()
	existing := Open(t, env, Create(alice, now+2*hour))

	tests := []struct {
		name string
		b    *NewProposalBuilder
		code string
	}{
		{"category required", Create(alice, now+2*hour).Category(0), "temMALFORMED"},
		{"currency required", Create(alice, now+2*hour).Currency(0), "temBAD_CURRENCY"},
		{"seed required", Create(alice, now+2*hour).Seed(0), "temBAD_AMOUNT"},
		{"title required", Create(alice, now+2*hour).Title(""), "temMALFORMED"},
		{"label required", Create(alice, now+2*hour).Labels("Yes", ""), "temMALFORMED"},
		{"fee above 100%", Create(alice, now+2*hour).FeeRate(10001), "temBAD_FEE"},
		{"closes too soon", Create(alice, now+hour-1), "tecTOO_SOON"},
		{"fee above max", Create(alice, now+2*hour).FeeRate(1001), "tecBAD_FEE_RATE"},
		{"unknown currency", Create(alice, now+2*hour).Currency(999), "tecNO_ENTRY"},
		{"outcome as settlement", Create(alice, now+2*hour).Currency(existing.Outcomes[0]), "tecCURRENCY_USED"},
		{"liquidity as settlement", Create(alice, now+2*hour).Currency(existing.Liquidity), "tecCURRENCY_USED"},
		{"seed not funded", Create(poor, now+2*hour), "tecINSUFFICIENT_FUNDS"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			predtesting.RequireTxFail(t, env.Submit(tc.b.Build()), tc.code)
		})
	}

	next := Open(t, env, Create(alice, now+2*hour))
	assert.Equal(t, existing.ID+1, next.ID, "failed creations must not consume ids")
}

func TestSetStatus(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	admin := predtesting.AdminAccount()
	alice := predtesting.NewAccount("alice")
	env.Fund(alice)
	p := Open(t, env, Create(alice, env.BlockTime()+2*hour))

	t.Run("admin only", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(SetStatus(alice, p.ID, sle.StatusEnd)), "tecNO_PERMISSION")
	})

	t.Run("same status", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(SetStatus(admin, p.ID, sle.StatusOriginalPrediction)), "tecSAME_STATUS")
	})

	t.Run("unknown proposal", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(SetStatus(admin, 77, sle.StatusEnd)), "tecNO_ENTRY")
	})

	t.Run("invalid status", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(SetStatus(admin, p.ID, sle.Status(9))), "temMALFORMED")
	})

	t.Run("entering End freezes the pool", func(t *testing.T) {
		result := env.Submit(SetStatus(admin, p.ID, sle.StatusEnd))
		predtesting.RequireTxSuccess(t, result)
		ev, ok := result.Event(tx.EventStatusChanged)
		require.True(t, ok)
		assert.Equal(t, "OriginalPrediction", ev.Fields["from"])
		assert.Equal(t, "End", ev.Fields["to"])

		pool := env.Pool(p.ID)
		assert.True(t, pool.Frozen)
		assert.Equal(t, pool.TotalOptional, pool.FinallyOptional)
		assert.Equal(t, pool.TotalLiquidity, pool.FinallyLiquidity)
	})
}
