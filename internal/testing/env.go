package testing

import (
	"context"
	"testing"
	"time"

	"github.com/LeJamon/goPredictd/internal/core/ledger/genesis"
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/node"
	"github.com/LeJamon/goPredictd/internal/core/ruler"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	_ "github.com/LeJamon/goPredictd/internal/core/tx/all"
	"github.com/LeJamon/goPredictd/internal/core/tx/payment"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/LeJamon/goPredictd/internal/storage/database/leveldb"
	"github.com/LeJamon/goPredictd/internal/storage/state"
)

const (
	// SettlementCurrency is the genesis asset every test account is funded in.
	SettlementCurrency uint32 = 1

	// MasterSupply is minted to the master account for each genesis asset.
	MasterSupply uint64 = 1_000_000_000_000_000

	// DefaultFunding is what Fund gives each account.
	DefaultFunding uint64 = 1_000_000_000
)

// TestEnv manages a test chain for transaction testing. It runs a real node
// over an in-memory leveldb store, so every Close goes through the sweep,
// the header chain and the store flush.
type TestEnv struct {
	t     *testing.T
	node  *node.Node
	store *state.Store
	clock *ManualClock

	// Every event of every closed block, in order.
	events []tx.Event
}

// NewTestEnv creates a new test environment with the default genesis.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return NewTestEnvWithConfig(t, genesis.DefaultConfig())
}

// NewTestEnvWithConfig creates a test environment from cfg. The master
// account receives MasterSupply of every asset and the admin account is
// appended to the governance admins.
func NewTestEnvWithConfig(t *testing.T, cfg genesis.Config) *TestEnv {
	t.Helper()
	return NewTestEnvWithRuler(t, cfg, DefaultRuler())
}

// DefaultRuler sends the platform dividend to PlatformAccount.
func DefaultRuler() ruler.Static {
	return ruler.Static{
		ruler.PlatformDividend: PlatformAccount().ID,
		ruler.BridgeBurn:       NewAccount("bridge").ID,
	}
}

// NewTestEnvWithRuler is NewTestEnvWithConfig with the role directory
// replaced by dir.
func NewTestEnvWithRuler(t *testing.T, cfg genesis.Config, dir ruler.Directory) *TestEnv {
	t.Helper()

	master := MasterAccount()
	for i := range cfg.Assets {
		cfg.Balances = append(cfg.Balances, genesis.Balance{
			Account:  master.ID,
			Currency: uint32(i + 1),
			Amount:   MasterSupply,
		})
	}
	cfg.Params.Admins = append(cfg.Params.Admins, AdminAccount().ID)

	m := leveldb.NewMemoryManager()
	t.Cleanup(func() { m.Close() })
	db, err := m.OpenDB("state")
	if err != nil {
		t.Fatalf("Failed to open state db: %v", err)
	}
	store, err := state.NewStore(db, state.Options{Compression: "lz4"})
	if err != nil {
		t.Fatalf("Failed to create state store: %v", err)
	}

	clock := NewManualClock()
	env := &TestEnv{
		t:     t,
		store: store,
		clock: clock,
	}

	nodeCfg := node.DefaultConfig()
	nodeCfg.Genesis = cfg
	nodeCfg.Ruler = dir
	env.node = node.New(nodeCfg, store, clock, nil, node.SinkFunc(env.record))
	if err := env.node.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start node: %v", err)
	}
	return env
}

func (e *TestEnv) record(_ context.Context, _ uint64, events []tx.Event) error {
	e.events = append(e.events, events...)
	return nil
}

// Fund transfers DefaultFunding of the settlement currency to each account.
func (e *TestEnv) Fund(accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		e.FundAmount(acc, SettlementCurrency, DefaultFunding)
	}
}

// FundAmount transfers amt of currency from the master account.
func (e *TestEnv) FundAmount(acc *Account, currency uint32, amt uint64) {
	e.t.Helper()
	result := e.Submit(payment.NewTransfer(MasterAccount().ID, acc.ID, currency, amt))
	if !result.Success {
		e.t.Fatalf("Failed to fund %s with %d of %d: %s", acc.Name, amt, currency, result.Code)
	}
}

// Submit fills in the sequence, signs the transaction with the key of its
// Account and applies it to the open block. Self-authenticating
// transactions are submitted as they are.
func (e *TestEnv) Submit(txn tx.Transaction) TxResult {
	e.t.Helper()

	if _, selfAuth := txn.(tx.SelfAuthenticating); !selfAuth {
		common := txn.GetCommon()
		acc, ok := lookupAccount(common.Account)
		if !ok {
			e.t.Fatalf("Submit: account %s was not created with NewAccount", common.Account)
		}
		common.Sequence = e.Seq(acc)
		if err := tx.Sign(txn, acc.KeyPair); err != nil {
			e.t.Fatalf("Failed to sign transaction: %v", err)
		}
	}
	return e.SubmitRaw(txn)
}

// SubmitRaw applies txn without touching its sequence or signature.
func (e *TestEnv) SubmitRaw(txn tx.Transaction) TxResult {
	e.t.Helper()
	res, err := e.node.Submit(txn)
	if err != nil {
		e.t.Fatalf("Failed to submit transaction: %v", err)
	}
	return resultFromApply(res)
}

// Close advances the clock by ten seconds, closes the open block and opens
// the next one, running the sweep.
func (e *TestEnv) Close() {
	e.t.Helper()
	e.clock.Advance(10 * time.Second)
	if _, err := e.node.Advance(context.Background()); err != nil {
		e.t.Fatalf("Failed to close block: %v", err)
	}
}

// CloseAfter advances the clock by d and closes the block.
func (e *TestEnv) CloseAfter(d time.Duration) {
	e.t.Helper()
	e.clock.Advance(d)
	e.Close()
}

// Now returns the current test time.
func (e *TestEnv) Now() time.Time {
	return e.clock.Now()
}

// AdvanceTime moves the clock forward. The open block keeps its time.
func (e *TestEnv) AdvanceTime(d time.Duration) {
	e.clock.Advance(d)
}

// SetTime sets the clock.
func (e *TestEnv) SetTime(t time.Time) {
	e.clock.Set(t)
}

// Height returns the height of the open block.
func (e *TestEnv) Height() uint64 {
	var h uint64
	e.read(func(_ sle.LedgerView, height uint64, _ int64) error {
		h = height
		return nil
	})
	return h
}

// BlockTime returns the time of the open block in unix seconds.
func (e *TestEnv) BlockTime() int64 {
	var now int64
	e.read(func(_ sle.LedgerView, _ uint64, t int64) error {
		now = t
		return nil
	})
	return now
}

// Node returns the node behind the environment.
func (e *TestEnv) Node() *node.Node {
	return e.node
}

// Events returns the events of every closed block.
func (e *TestEnv) Events() []tx.Event {
	return e.events
}

// EventsOfType filters Events by type.
func (e *TestEnv) EventsOfType(typ string) []tx.Event {
	var out []tx.Event
	for _, ev := range e.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (e *TestEnv) read(fn func(view sle.LedgerView, height uint64, now int64) error) {
	e.t.Helper()
	if err := e.node.View(fn); err != nil {
		e.t.Fatalf("Failed to read state: %v", err)
	}
}

// Seq returns the next sequence of acc.
func (e *TestEnv) Seq(acc *Account) uint32 {
	e.t.Helper()
	var seq uint32
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		root, err := sle.ReadAccountRoot(view, acc.ID)
		if err != nil {
			return err
		}
		seq = root.Sequence
		return nil
	})
	return seq
}

// Balance returns the free balance of acc in currency.
func (e *TestEnv) Balance(acc *Account, currency uint32) uint64 {
	e.t.Helper()
	return e.BalanceOf(acc.ID, currency)
}

// BalanceOf returns the free balance of any account in currency.
func (e *TestEnv) BalanceOf(id crypto.AccountID, currency uint32) uint64 {
	e.t.Helper()
	var bal uint64
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		bal, err = tokens.NewStateLedger(view).Balance(currency, id)
		return err
	})
	return bal
}

// Reserved returns the reserved balance of acc in currency.
func (e *TestEnv) Reserved(acc *Account, currency uint32) uint64 {
	e.t.Helper()
	var bal uint64
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		bal, err = tokens.NewStateLedger(view).ReservedBalance(currency, acc.ID)
		return err
	})
	return bal
}

// ModuleMarket returns the market module account.
func (e *TestEnv) ModuleMarket() crypto.AccountID {
	return tokens.ModuleMarket.Account()
}

// ModuleOracle returns the oracle module account.
func (e *TestEnv) ModuleOracle() crypto.AccountID {
	return tokens.ModuleOracle.Account()
}

// Proposal returns proposal id, failing the test if it does not exist.
func (e *TestEnv) Proposal(id uint64) *sle.Proposal {
	e.t.Helper()
	var p *sle.Proposal
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		p, err = sle.ReadProposal(view, id)
		return err
	})
	return p
}

// Pool returns the pool of proposal id.
func (e *TestEnv) Pool(id uint64) *sle.Pool {
	e.t.Helper()
	var pool *sle.Pool
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		pool, err = sle.ReadPool(view, id)
		return err
	})
	return pool
}

// Stake returns the stake account of acc, zero if it never staked.
func (e *TestEnv) Stake(acc *Account) *sle.StakeAccount {
	e.t.Helper()
	var st *sle.StakeAccount
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		st, err = sle.ReadStake(view, acc.ID)
		return err
	})
	return st
}

// Tally returns the oracle tally of proposal id.
func (e *TestEnv) Tally(id uint64) *sle.Tally {
	e.t.Helper()
	var tally *sle.Tally
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		tally, err = sle.ReadTally(view, id)
		return err
	})
	return tally
}

// Params returns the current protocol parameters.
func (e *TestEnv) Params() *sle.Params {
	e.t.Helper()
	var p *sle.Params
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		p, err = sle.ReadParams(view)
		return err
	})
	return p
}

// Exists reports whether a state entry exists.
func (e *TestEnv) Exists(k keylet.Keylet) bool {
	e.t.Helper()
	var ok bool
	e.read(func(view sle.LedgerView, _ uint64, _ int64) error {
		var err error
		ok, err = view.Exists(k)
		return err
	})
	return ok
}

// Store returns the persistent store under the node.
func (e *TestEnv) Store() *state.Store {
	return e.store
}
