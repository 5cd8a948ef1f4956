// Package testing provides test infrastructure for prediction market
// transaction testing.
//
// # Overview
//
// The testing package provides:
//   - TestEnv: a test chain backed by a real node and an in-memory store
//   - Account: deterministic test accounts with keypairs
//   - Transaction builders: fluent builders, one package per feature
//   - Assertions: helpers for balances, results and proposal status
//
// # Basic Usage
//
//	func TestBuy(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//
//	    alice := testing.NewAccount("alice")
//	    bob := testing.NewAccount("bob")
//
//	    env.Fund(alice, bob)
//	    env.Close()
//
//	    result := env.Submit(proposal.Create(alice).Seed(100_000).Build(env))
//	    testing.RequireTxSuccess(t, result)
//	}
//
// # TestEnv
//
// TestEnv starts a node from genesis. The master account holds the supply
// of every genesis asset and the admin account may change parameters and
// proposal status.
//
//	env := testing.NewTestEnv(t)
//	env.Fund(alice)                     // DefaultFunding of the settlement currency
//	env.FundAmount(bob, 1, 500)         // a specific amount
//	env.Close()                         // close the block, run the sweep of the next
//	env.CloseAfter(time.Hour)           // let an hour pass first
//	env.Balance(alice, 1)               // free balance
//	env.Proposal(0).Status              // read state
//
// Submit fills in the sequence and signs with the key of the transaction's
// Account, so every account must come from NewAccount. Result uploads carry
// their own signature and are submitted unchanged.
//
// # Clock Control
//
// The node reads block time from a ManualClock. A block keeps the time it
// was opened with; moving the clock takes effect at the next Close.
//
//	env.AdvanceTime(10 * time.Second)
//	env.SetTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
//	env.Now()
package testing
