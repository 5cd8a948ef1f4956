package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	oracletx "github.com/LeJamon/goPredictd/internal/core/tx/oracle"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	predtesting "github.com/LeJamon/goPredictd/internal/testing"
	proposaltest "github.com/LeJamon/goPredictd/internal/testing/proposal"
)

const stakeCurrency = predtesting.SettlementCurrency

// waiting opens a proposal and moves it to WaitingForResults.
func waiting(t *testing.T, env *predtesting.TestEnv) *sle.Proposal {
	t.Helper()
	owner := predtesting.NewAccount("owner")
	env.Fund(owner)
	p := proposaltest.Open(t, env, proposaltest.Create(owner, env.BlockTime()+2*3600))
	predtesting.RequireTxSuccess(t, env.Submit(proposaltest.SetStatus(predtesting.AdminAccount(), p.ID, sle.StatusWaitingForResults)))
	return env.Proposal(p.ID)
}

func snapshots(t *testing.T, env *predtesting.TestEnv, acc *predtesting.Account) []sle.Snapshot {
	t.Helper()
	var out []sle.Snapshot
	err := env.Node().View(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		out, err = oracletx.Snapshots(view, acc.ID)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestStake(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	node := predtesting.NewAccount("node")
	env.Fund(node)

	t.Run("activates at min stake", func(t *testing.T) {
		result := env.Submit(Stake(node, 1000))
		predtesting.RequireTxSuccess(t, result)

		st := env.Stake(node)
		assert.Equal(t, uint64(1000), st.Staked)
		assert.True(t, st.Active)
		predtesting.RequireReserved(t, env, node, stakeCurrency, 1000)
		predtesting.RequireBalance(t, env, node, stakeCurrency, predtesting.DefaultFunding-1000)

		ev, ok := result.Event(tx.EventStaked)
		require.True(t, ok)
		assert.Equal(t, true, ev.Fields["active"])
	})

	t.Run("unstake all deactivates", func(t *testing.T) {
		predtesting.RequireTxSuccess(t, env.Submit(Unstake(node, 1000)))

		st := env.Stake(node)
		assert.Equal(t, uint64(0), st.Usable())
		assert.False(t, st.Active)
		predtesting.RequireReserved(t, env, node, stakeCurrency, 0)
		predtesting.RequireBalance(t, env, node, stakeCurrency, predtesting.DefaultFunding)
	})

	t.Run("nothing left to unstake", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(Unstake(node, 1)), "tecINSUFFICIENT_WEIGHT")
	})

	t.Run("below min stake stays inactive", func(t *testing.T) {
		predtesting.RequireTxSuccess(t, env.Submit(Stake(node, 999)))
		assert.False(t, env.Stake(node).Active)
		predtesting.RequireTxSuccess(t, env.Submit(Stake(node, 1)))
		assert.True(t, env.Stake(node).Active)
	})

	t.Run("snapshots record every change", func(t *testing.T) {
		env.Close()
		snaps := snapshots(t, env, node)
		require.Len(t, snaps, 4)
		balances := make([]uint64, len(snaps))
		for i, s := range snaps {
			balances[i] = s.Balance
		}
		assert.Equal(t, []uint64{1000, 0, 999, 1000}, balances)
		assert.Equal(t, uint64(4), env.Stake(node).NextSequence)
	})

	t.Run("rejected", func(t *testing.T) {
		poor := predtesting.NewAccount("poor")
		env.FundAmount(poor, stakeCurrency, 10)
		predtesting.RequireTxFail(t, env.Submit(Stake(poor, 11)), "tecINSUFFICIENT_FUNDS")
		predtesting.RequireTxFail(t, env.Submit(Stake(poor, 0)), "temBAD_AMOUNT")
		predtesting.RequireTxFail(t, env.Submit(Unstake(poor, 0)), "temBAD_AMOUNT")
		assert.Equal(t, uint64(0), env.Stake(poor).NextSequence)
	})
}

func TestUnstake_CappedAtUsable(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	p := waiting(t, env)
	nodes := Nodes(t, env, "node", 1, 2000)

	predtesting.RequireTxSuccess(t, env.Submit(Upload(t, nodes[0], p.ID, p.Outcomes[0], 1000)))
	assert.Equal(t, uint64(500), env.Stake(nodes[0]).Locked)

	result := env.Submit(Unstake(nodes[0], 5000))
	predtesting.RequireTxSuccess(t, result)
	ev, ok := result.Event(tx.EventUnstaked)
	require.True(t, ok)
	assert.Equal(t, uint64(1500), ev.Fields["amount"])

	st := env.Stake(nodes[0])
	assert.Equal(t, uint64(500), st.Staked)
	assert.Equal(t, uint64(500), st.Locked)
	assert.Equal(t, uint64(0), st.Usable())
	assert.False(t, st.Active)
	predtesting.RequireReserved(t, env, nodes[0], stakeCurrency, 500)
}

func TestReview(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	owner := predtesting.NewAccount("owner")
	env.Fund(owner)
	nodes := Nodes(t, env, "node", 2, 2000)
	p := proposaltest.Open(t, env, proposaltest.Create(owner, env.BlockTime()+2*3600))

	result := env.Submit(Review(nodes[0], p.ID).Weight(1200).Build())
	predtesting.RequireTxSuccess(t, result)
	tally := env.Tally(p.ID)
	assert.Equal(t, uint64(1200), tally.Approve)
	assert.True(t, tally.Has(sle.FlagConsent))
	assert.True(t, tally.Has(sle.FlagApproveLeading))
	assert.False(t, tally.Has(sle.FlagOpposition))

	t.Run("review does not lock stake", func(t *testing.T) {
		assert.Equal(t, uint64(2000), env.Stake(nodes[0]).Usable())
	})

	t.Run("consent is sticky", func(t *testing.T) {
		predtesting.RequireTxSuccess(t, env.Submit(Review(nodes[1], p.ID).Weight(2000).Reject().Build()))
		tally := env.Tally(p.ID)
		assert.True(t, tally.Has(sle.FlagConsent))
		assert.True(t, tally.Has(sle.FlagOpposition))
		assert.False(t, tally.Has(sle.FlagApproveLeading))
		assert.False(t, tally.Has(sle.FlagReviewTie))
	})

	tests := []struct {
		name   string
		review tx.Transaction
		code   string
	}{
		{"duplicate vote", Review(nodes[0], p.ID).Weight(1).Build(), "tecDUPLICATE"},
		{"zero weight", Review(nodes[0], p.ID).Build(), "temBAD_AMOUNT"},
		{"unknown proposal", Review(nodes[0], 99).Weight(1).Build(), "tecNO_ENTRY"},
		{"not a node", Review(owner, p.ID).Weight(1).Build(), "tecNOT_ORACLE_NODE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			predtesting.RequireTxFail(t, env.Submit(tc.review), tc.code)
		})
	}

	t.Run("weight above usable", func(t *testing.T) {
		other := proposaltest.Open(t, env, proposaltest.Create(owner, env.BlockTime()+2*3600))
		predtesting.RequireTxFail(t, env.Submit(Review(nodes[0], other.ID).Weight(2001).Build()), "tecINSUFFICIENT_WEIGHT")
	})

	t.Run("only while original", func(t *testing.T) {
		predtesting.RequireTxSuccess(t, env.Submit(proposaltest.SetStatus(predtesting.AdminAccount(), p.ID, sle.StatusFormalPrediction)))
		third := Nodes(t, env, "late", 1, 2000)[0]
		predtesting.RequireTxFail(t, env.Submit(Review(third, p.ID).Weight(1).Build()), "tecPROPOSAL_STATUS")
	})
}

func TestUploadResult(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	p := waiting(t, env)
	nodes := Nodes(t, env, "node", 2, 2000)

	result := env.Submit(Upload(t, nodes[0], p.ID, p.Outcomes[1], 1000))
	predtesting.RequireTxSuccess(t, result)
	assert.Equal(t, [2]uint64{0, 1000}, env.Tally(p.ID).Results)
	assert.Equal(t, uint64(500), env.Stake(nodes[0]).Locked)
	assert.Equal(t, nodes[0].ID, mustEvent(t, result, tx.EventResultUploaded).Account)

	t.Run("rejected", func(t *testing.T) {
		outsider := predtesting.NewAccount("outsider")
		tests := []struct {
			name   string
			upload *oracletx.UploadResult
			code   string
		}{
			{"duplicate", Upload(t, nodes[0], p.ID, p.Outcomes[0], 1), "tecDUPLICATE"},
			{"not an outcome", Upload(t, nodes[1], p.ID, p.Currency, 1), "tecBAD_OUTCOME"},
			{"above usable", Upload(t, nodes[1], p.ID, p.Outcomes[0], 2001), "tecINSUFFICIENT_WEIGHT"},
			{"not a node", Upload(t, outsider, p.ID, p.Outcomes[0], 1), "tecNOT_ORACLE_NODE"},
			{"zero weight", Upload(t, nodes[1], p.ID, p.Outcomes[0], 0), "temBAD_AMOUNT"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				predtesting.RequireTxFail(t, env.Submit(tc.upload), tc.code)
			})
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		u := Upload(t, nodes[1], p.ID, p.Outcomes[0], 10)
		u.Payload.VoteWeight = 2000
		predtesting.RequireTxFail(t, env.Submit(u), "temBAD_SIGNATURE")
		assert.Equal(t, uint64(0), env.Stake(nodes[1]).Locked)
	})

	t.Run("locked stake is not usable", func(t *testing.T) {
		second := waiting(t, env)
		predtesting.RequireTxFail(t, env.Submit(Upload(t, nodes[0], second.ID, second.Outcomes[0], 1501)), "tecINSUFFICIENT_WEIGHT")
		predtesting.RequireTxSuccess(t, env.Submit(Upload(t, nodes[0], second.ID, second.Outcomes[0], 1500)))
		assert.Equal(t, uint64(1250), env.Stake(nodes[0]).Locked)
	})

	t.Run("only while waiting", func(t *testing.T) {
		owner := predtesting.NewAccount("owner")
		early := proposaltest.Open(t, env, proposaltest.Create(owner, env.BlockTime()+2*3600))
		predtesting.RequireTxFail(t, env.Submit(Upload(t, nodes[1], early.ID, early.Outcomes[0], 1)), "tecPROPOSAL_STATUS")
	})
}

// dispute runs a proposal to End with result yes backed by nodes 0 and 1
// and a succeeded report from two reporters.
type dispute struct {
	env       *predtesting.TestEnv
	p         *sle.Proposal
	admin     *predtesting.Account
	nodes     []*predtesting.Account
	reporters []*predtesting.Account
}

func newDispute(t *testing.T) *dispute {
	t.Helper()
	return newWeightedDispute(t, 1000, 600, 800)
}

// newWeightedDispute has the first two nodes upload the first outcome and
// the third the second, with the given weights. Two reporters then bond
// 700 and 300 and the proposal ends.
func newWeightedDispute(t *testing.T, weights ...uint64) *dispute {
	t.Helper()
	require.Len(t, weights, 3)
	env := predtesting.NewTestEnv(t)
	d := &dispute{
		env:   env,
		p:     waiting(t, env),
		admin: predtesting.AdminAccount(),
		nodes: Nodes(t, env, "node", 3, 2000),
		reporters: []*predtesting.Account{
			predtesting.NewAccount("reporter0"),
			predtesting.NewAccount("reporter1"),
		},
	}
	env.Fund(d.reporters...)
	yes, no := d.p.Outcomes[0], d.p.Outcomes[1]

	predtesting.RequireTxSuccess(t, env.Submit(Upload(t, d.nodes[0], d.p.ID, yes, weights[0])))
	predtesting.RequireTxSuccess(t, env.Submit(Upload(t, d.nodes[1], d.p.ID, yes, weights[1])))
	predtesting.RequireTxSuccess(t, env.Submit(Upload(t, d.nodes[2], d.p.ID, no, weights[2])))
	env.CloseAfter(4 * time.Hour)
	predtesting.RequireStatus(t, env, d.p.ID, sle.StatusResultAnnouncement)
	require.Equal(t, yes, env.Proposal(d.p.ID).Result)

	first := env.Submit(Report(d.reporters[0], d.p.ID, 700))
	predtesting.RequireTxSuccess(t, first)
	assert.Equal(t, false, mustEvent(t, first, tx.EventReported).Fields["succeeded"])
	predtesting.RequireTxSuccess(t, env.Submit(Report(d.reporters[1], d.p.ID, 300)))
	require.True(t, env.Tally(d.p.ID).Has(sle.FlagReportSucceeded))

	env.CloseAfter(24 * time.Hour)
	predtesting.RequireStatus(t, env, d.p.ID, sle.StatusEnd)
	return d
}

func TestReport(t *testing.T) {
	d := newDispute(t)
	env := d.env

	predtesting.RequireReserved(t, env, d.reporters[0], stakeCurrency, 700)
	predtesting.RequireReserved(t, env, d.reporters[1], stakeCurrency, 300)
	assert.Equal(t, uint64(1000), env.Tally(d.p.ID).ReportTotal)

	t.Run("only while announced", func(t *testing.T) {
		late := predtesting.NewAccount("late")
		env.Fund(late)
		predtesting.RequireTxFail(t, env.Submit(Report(late, d.p.ID, 100)), "tecPROPOSAL_STATUS")
	})

	t.Run("unreported proposal cannot be slashed", func(t *testing.T) {
		other := waiting(t, env)
		predtesting.RequireTxSuccess(t, env.Submit(Upload(t, d.nodes[2], other.ID, other.Outcomes[0], 100)))
		env.CloseAfter(4 * time.Hour)
		env.CloseAfter(24 * time.Hour)
		predtesting.RequireStatus(t, env, other.ID, sle.StatusEnd)

		predtesting.RequireTxFail(t, env.Submit(Slash(d.admin, other.ID, d.nodes[2])), "tecREPORT_NOT_SUCCEEDED")
		predtesting.RequireTxFail(t, env.Submit(SlashFinish(d.admin, other.ID)), "tecREPORT_NOT_SUCCEEDED")
		predtesting.RequireTxSuccess(t, env.Submit(Unlock(d.nodes[2], other.ID)))
	})
}

func TestDispute_SlashFlow(t *testing.T) {
	d := newDispute(t)
	env := d.env
	yes, no := d.p.Outcomes[0], d.p.Outcomes[1]

	t.Run("admin only", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(Slash(d.reporters[0], d.p.ID, d.nodes[0])), "tecNO_PERMISSION")
		predtesting.RequireTxFail(t, env.Submit(SlashFinish(d.reporters[0], d.p.ID)), "tecNO_PERMISSION")
	})

	t.Run("minority voters are not slashed", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(Slash(d.admin, d.p.ID, d.nodes[2])), "tecNO_TARGET")
	})

	predtesting.RequireTxSuccess(t, env.Submit(Slash(d.admin, d.p.ID, d.nodes[0])))
	st := env.Stake(d.nodes[0])
	assert.Equal(t, uint64(1500), st.Staked)
	assert.Equal(t, uint64(0), st.Locked)
	assert.Equal(t, uint64(500), env.BalanceOf(env.ModuleOracle(), stakeCurrency))
	predtesting.RequireReserved(t, env, d.nodes[0], stakeCurrency, 1500)

	t.Run("finish before every majority node is slashed", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(SlashFinish(d.admin, d.p.ID)), "tecSLASH_MISMATCH")
	})

	t.Run("bonds come back before the finish", func(t *testing.T) {
		result := env.Submit(TakeOut(d.reporters[0], d.p.ID))
		predtesting.RequireTxSuccess(t, result)
		ev := mustEvent(t, result, tx.EventTakenOut)
		assert.Equal(t, uint64(700), ev.Fields["bond"])
		assert.Equal(t, uint64(0), ev.Fields["reward"])
		assert.Equal(t, true, ev.Fields["pending"])
		predtesting.RequireReserved(t, env, d.reporters[0], stakeCurrency, 0)
		predtesting.RequireBalance(t, env, d.reporters[0], stakeCurrency, predtesting.DefaultFunding)

		predtesting.RequireTxFail(t, env.Submit(TakeOut(d.reporters[0], d.p.ID)), "tecSLASH_NOT_FINISHED")
	})

	t.Run("locks wait for the finish", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(Unlock(d.nodes[1], d.p.ID)), "tecSLASHED")
		predtesting.RequireTxFail(t, env.Submit(Unlock(d.nodes[0], d.p.ID)), "tecSLASHED")
	})

	t.Run("minority voters unlock", func(t *testing.T) {
		predtesting.RequireTxSuccess(t, env.Submit(Unlock(d.nodes[2], d.p.ID)))
		assert.Equal(t, uint64(0), env.Stake(d.nodes[2]).Locked)
		predtesting.RequireTxFail(t, env.Submit(Unlock(d.nodes[2], d.p.ID)), "tecNO_ENTRY")
	})

	predtesting.RequireTxSuccess(t, env.Submit(Slash(d.admin, d.p.ID, d.nodes[1])))
	predtesting.RequireTxFail(t, env.Submit(Slash(d.admin, d.p.ID, d.nodes[1])), "tecDUPLICATE")
	assert.Equal(t, uint64(800), env.Tally(d.p.ID).SlashTotal)

	result := env.Submit(SlashFinish(d.admin, d.p.ID))
	predtesting.RequireTxSuccess(t, result)
	ev := mustEvent(t, result, tx.EventSlashFinished)
	assert.Equal(t, yes, ev.Fields["previous"])
	assert.Equal(t, no, ev.Fields["result"])
	assert.Equal(t, no, env.Proposal(d.p.ID).Result)
	predtesting.RequireStatus(t, env, d.p.ID, sle.StatusEnd)

	t.Run("finished disputes are closed", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(SlashFinish(d.admin, d.p.ID)), "tecSLASH_FINISHED")
		predtesting.RequireTxFail(t, env.Submit(Slash(d.admin, d.p.ID, d.nodes[2])), "tecSLASH_FINISHED")
	})

	t.Run("reporters share the slashed stake", func(t *testing.T) {
		first := env.Submit(TakeOut(d.reporters[0], d.p.ID))
		predtesting.RequireTxSuccess(t, first)
		ev := mustEvent(t, first, tx.EventTakenOut)
		assert.Equal(t, uint64(560), ev.Fields["reward"])
		assert.Equal(t, uint64(0), ev.Fields["bond"])
		assert.Equal(t, false, ev.Fields["pending"])

		second := env.Submit(TakeOut(d.reporters[1], d.p.ID))
		predtesting.RequireTxSuccess(t, second)
		ev = mustEvent(t, second, tx.EventTakenOut)
		assert.Equal(t, uint64(240), ev.Fields["reward"])
		assert.Equal(t, uint64(300), ev.Fields["bond"])

		predtesting.RequireBalance(t, env, d.reporters[0], stakeCurrency, predtesting.DefaultFunding+560)
		predtesting.RequireBalance(t, env, d.reporters[1], stakeCurrency, predtesting.DefaultFunding+240)
		predtesting.RequireReserved(t, env, d.reporters[0], stakeCurrency, 0)
		assert.Equal(t, uint64(0), env.BalanceOf(env.ModuleOracle(), stakeCurrency))

		predtesting.RequireTxFail(t, env.Submit(TakeOut(d.reporters[0], d.p.ID)), "tecNO_ENTRY")
	})

	t.Run("slashed nodes keep no lock", func(t *testing.T) {
		predtesting.RequireTxFail(t, env.Submit(Unlock(d.nodes[1], d.p.ID)), "tecSLASHED")
		assert.Equal(t, uint64(0), env.Stake(d.nodes[1]).Locked)
		assert.Equal(t, uint64(1700), env.Stake(d.nodes[1]).Staked)
	})
}

// TestDispute_OddWeightsNeverFinish records how the mismatch rule rounds:
// every Slash floors its own node's share, while SlashFinish floors the
// aggregate. With odd majority weights the two never meet, the dispute stays
// open and reporters can still recover their bonds.
func TestDispute_OddWeightsNeverFinish(t *testing.T) {
	d := newWeightedDispute(t, 1001, 601, 800)
	env := d.env
	yes := d.p.Outcomes[0]

	predtesting.RequireTxSuccess(t, env.Submit(Slash(d.admin, d.p.ID, d.nodes[0])))
	predtesting.RequireTxSuccess(t, env.Submit(Slash(d.admin, d.p.ID, d.nodes[1])))
	tally := env.Tally(d.p.ID)
	assert.Equal(t, [2]uint64{1602, 800}, tally.Results)
	// floor(1001/2) + floor(601/2) against floor(1602/2).
	assert.Equal(t, uint64(500+300), tally.SlashTotal)

	predtesting.RequireTxFail(t, env.Submit(SlashFinish(d.admin, d.p.ID)), "tecSLASH_MISMATCH")
	assert.Equal(t, yes, env.Proposal(d.p.ID).Result)
	assert.False(t, env.Tally(d.p.ID).Has(sle.FlagSlashFinished))

	for i, bonded := range []uint64{700, 300} {
		reporter := d.reporters[i]
		result := env.Submit(TakeOut(reporter, d.p.ID))
		predtesting.RequireTxSuccess(t, result)
		ev := mustEvent(t, result, tx.EventTakenOut)
		assert.Equal(t, bonded, ev.Fields["bond"])
		assert.Equal(t, uint64(0), ev.Fields["reward"])
		predtesting.RequireReserved(t, env, reporter, stakeCurrency, 0)
		predtesting.RequireBalance(t, env, reporter, stakeCurrency, predtesting.DefaultFunding)
	}
	assert.Equal(t, uint64(800), env.BalanceOf(env.ModuleOracle(), stakeCurrency))
}

// TestSlashFinish_OnlyAfterEnd uses a single unit of upload weight, which
// locks nothing, so the expected slash total is zero from the start.
func TestSlashFinish_OnlyAfterEnd(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	p := waiting(t, env)
	nodes := Nodes(t, env, "node", 1, 2000)
	admin := predtesting.AdminAccount()
	reporter := predtesting.NewAccount("reporter")
	env.Fund(reporter)
	yes, no := p.Outcomes[0], p.Outcomes[1]

	predtesting.RequireTxSuccess(t, env.Submit(Upload(t, nodes[0], p.ID, yes, 1)))
	env.CloseAfter(4 * time.Hour)
	predtesting.RequireStatus(t, env, p.ID, sle.StatusResultAnnouncement)
	predtesting.RequireTxSuccess(t, env.Submit(Report(reporter, p.ID, 1000)))
	require.True(t, env.Tally(p.ID).Has(sle.FlagReportSucceeded))

	predtesting.RequireTxFail(t, env.Submit(SlashFinish(admin, p.ID)), "tecPROPOSAL_STATUS")
	assert.Equal(t, yes, env.Proposal(p.ID).Result)

	env.CloseAfter(24 * time.Hour)
	predtesting.RequireStatus(t, env, p.ID, sle.StatusEnd)
	predtesting.RequireTxSuccess(t, env.Submit(SlashFinish(admin, p.ID)))
	assert.Equal(t, no, env.Proposal(p.ID).Result)
}

func TestTakeOut_UnsucceededReportReturnsBond(t *testing.T) {
	env := predtesting.NewTestEnv(t)
	p := waiting(t, env)
	nodes := Nodes(t, env, "node", 1, 2000)
	reporter := predtesting.NewAccount("reporter")
	env.Fund(reporter)

	predtesting.RequireTxSuccess(t, env.Submit(Upload(t, nodes[0], p.ID, p.Outcomes[0], 1000)))
	env.CloseAfter(4 * time.Hour)
	predtesting.RequireTxSuccess(t, env.Submit(Report(reporter, p.ID, 999)))
	predtesting.RequireTxFail(t, env.Submit(Report(reporter, p.ID, 1)), "tecDUPLICATE")

	predtesting.RequireTxFail(t, env.Submit(TakeOut(reporter, p.ID)), "tecPROPOSAL_STATUS")
	env.CloseAfter(24 * time.Hour)
	predtesting.RequireStatus(t, env, p.ID, sle.StatusEnd)

	result := env.Submit(TakeOut(reporter, p.ID))
	predtesting.RequireTxSuccess(t, result)
	assert.Equal(t, uint64(0), mustEvent(t, result, tx.EventTakenOut).Fields["reward"])
	predtesting.RequireBalance(t, env, reporter, stakeCurrency, predtesting.DefaultFunding)

	predtesting.RequireTxSuccess(t, env.Submit(Unlock(nodes[0], p.ID)))
	assert.Equal(t, uint64(2000), env.Stake(nodes[0]).Usable())
}

func mustEvent(t *testing.T, result predtesting.TxResult, typ string) tx.Event {
	t.Helper()
	ev, ok := result.Event(typ)
	require.True(t, ok, "no %s event", typ)
	return ev
}
