package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/payment"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

func TestNewAccount(t *testing.T) {
	alice1 := NewAccount("alice")
	alice2 := NewAccount("alice")

	// Same name should produce same account
	assert.Equal(t, alice1.ID, alice2.ID)
	assert.Equal(t, alice1.KeyPair.Public, alice2.KeyPair.Public)

	bob := NewAccount("bob")
	assert.NotEqual(t, alice1.ID, bob.ID)

	aliceEd := NewAccountWithKeyType("alice", crypto.KeyTypeEd25519)
	assert.NotEqual(t, alice1.ID, aliceEd.ID)

	found, ok := lookupAccount(bob.ID)
	require.True(t, ok)
	assert.Equal(t, "bob", found.Name)
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock()
	assert.True(t, GenesisTime.Equal(clock.Now()))

	start := clock.Now()
	clock.Advance(time.Minute)
	assert.True(t, start.Add(time.Minute).Equal(clock.Now()))

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, start.Unix()+61, clock.Now().Unix(), "sub-second part is dropped")

	clock.Advance(-time.Hour)
	assert.Equal(t, start.Unix()+61, clock.Now().Unix(), "never runs backwards")

	target := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(target)
	assert.True(t, target.Equal(clock.Now()))
}

func TestTxResult(t *testing.T) {
	tests := []struct {
		code      string
		success   bool
		claimed   bool
		malformed bool
		retry     bool
		failed    bool
	}{
		{code: "tesSUCCESS", success: true},
		{code: "tecDUPLICATE", claimed: true},
		{code: "temBAD_AMOUNT", malformed: true},
		{code: "terPRE_SEQ", retry: true},
		{code: "tefPAST_SEQ", failed: true},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			r := TxResult{Code: tc.code}
			assert.Equal(t, tc.success, r.IsSuccess())
			assert.Equal(t, tc.claimed, r.IsClaimed())
			assert.Equal(t, tc.malformed, r.IsMalformed())
			assert.Equal(t, tc.retry, r.IsRetry())
			assert.Equal(t, tc.failed, r.IsFailed())
		})
	}
}

func TestEnvFundAndClose(t *testing.T) {
	env := NewTestEnv(t)
	alice := NewAccount("alice")
	bob := NewAccount("bob")

	env.Fund(alice)
	RequireBalance(t, env, alice, SettlementCurrency, DefaultFunding)
	assert.Equal(t, uint64(1), env.Height())

	env.Close()
	assert.Equal(t, uint64(2), env.Height())
	transfers := env.EventsOfType(tx.EventTransferred)
	require.Len(t, transfers, 1)
	assert.Equal(t, uint64(1), transfers[0].Height)

	t.Run("sequence is filled in", func(t *testing.T) {
		result := env.Submit(payment.NewTransfer(alice.ID, bob.ID, SettlementCurrency, 10))
		RequireTxSuccess(t, result)
		result = env.Submit(payment.NewTransfer(alice.ID, bob.ID, SettlementCurrency, 10))
		RequireTxSuccess(t, result)
		assert.Equal(t, uint32(2), env.Seq(alice))
		RequireBalance(t, env, bob, SettlementCurrency, 20)
	})

	t.Run("unsigned transactions are rejected", func(t *testing.T) {
		raw := payment.NewTransfer(alice.ID, bob.ID, SettlementCurrency, 10)
		raw.Sequence = env.Seq(alice)
		RequireTxFail(t, env.SubmitRaw(raw), "temBAD_SIGNATURE")
	})

	t.Run("another key is rejected", func(t *testing.T) {
		forged := payment.NewTransfer(alice.ID, bob.ID, SettlementCurrency, 10)
		require.NoError(t, tx.Sign(forged, bob.KeyPair))
		forged.Account = alice.ID
		forged.Sequence = env.Seq(alice)
		RequireTxFail(t, env.SubmitRaw(forged), "tefBAD_AUTH")
	})

	t.Run("block time follows the clock", func(t *testing.T) {
		before := env.BlockTime()
		env.CloseAfter(time.Hour)
		assert.Equal(t, before+3600+10, env.BlockTime())
	})
}
