// Package node drives the chain: it opens a block, runs the proposal sweep,
// applies submitted transactions one at a time, then closes the block,
// flushes its changes and publishes its events.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LeJamon/goPredictd/internal/core/ledger/genesis"
	"github.com/LeJamon/goPredictd/internal/core/ledger/header"
	"github.com/LeJamon/goPredictd/internal/core/ruler"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/market"
	"github.com/LeJamon/goPredictd/internal/core/tx/oracle"
	"github.com/LeJamon/goPredictd/internal/core/tx/proposal"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
)

// Common errors
var (
	ErrNotStarted  = errors.New("node not started")
	ErrNoOpenBlock = errors.New("no open block")
	ErrBlockOpen   = errors.New("a block is already open")
)

// Clock supplies block times.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store is the persistent state under the node.
type Store interface {
	sle.LedgerView
	Commit(ctx context.Context, changes []tx.Change) error
}

// Config holds configuration for the node
type Config struct {
	Genesis       genesis.Config
	BlockInterval time.Duration
	Ruler         ruler.Directory

	// SkipSignatureVerification disables signature checks (standalone and tests)
	SkipSignatureVerification bool
}

// DefaultConfig returns the default node configuration
func DefaultConfig() Config {
	return Config{
		Genesis:       genesis.DefaultConfig(),
		BlockInterval: 5 * time.Second,
		Ruler:         ruler.Static{},
	}
}

type openBlock struct {
	header *header.BlockHeader
	table  *tx.ApplyStateTable
	block  tx.BlockContext
	events []tx.Event
}

// Node owns the block lifecycle. All state access goes through its mutex,
// so the sweep of a block always runs before any transaction in it.
type Node struct {
	mu sync.Mutex

	config  Config
	store   Store
	clock   Clock
	sweeper *proposal.Sweeper
	sinks   []EventSink
	logger  *slog.Logger

	last *header.BlockHeader
	open *openBlock
}

// New creates a node over store. A nil clock uses the system time.
func New(cfg Config, store Store, clock Clock, logger *slog.Logger, sinks ...EventSink) *Node {
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BlockInterval <= 0 {
		cfg.BlockInterval = DefaultConfig().BlockInterval
	}
	return &Node{
		config:  cfg,
		store:   store,
		clock:   clock,
		sweeper: proposal.NewSweeper(oracle.Lifecycle{}, market.Lifecycle{}, logger),
		sinks:   sinks,
		logger:  logger.With(slog.String("component", "node")),
	}
}

// AddSink registers another event sink. Sinks added after a block closed
// do not see that block.
func (n *Node) AddSink(s EventSink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sinks = append(n.sinks, s)
}

// Start writes genesis on an empty store, loads the last header and opens
// the first block.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	last, err := header.Read(n.store)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if last == nil {
		cfg := n.config.Genesis
		if cfg.Time == 0 {
			cfg.Time = n.clock.Now().Unix()
		}
		table := tx.NewApplyStateTable(n.store)
		if last, err = genesis.Apply(table, cfg); err != nil {
			return fmt.Errorf("genesis: %w", err)
		}
		if err := n.store.Commit(ctx, table.Changes()); err != nil {
			return fmt.Errorf("commit genesis: %w", err)
		}
		n.logger.Info("genesis written", slog.String("hash", last.HashHex()))
	}
	n.last = last
	n.logger.Info("node started", slog.Uint64("height", last.Height))
	return n.openBlock()
}

// OpenBlock starts the next block and runs the sweep in it.
func (n *Node) OpenBlock() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.openBlock()
}

func (n *Node) openBlock() error {
	if n.last == nil {
		return ErrNotStarted
	}
	if n.open != nil {
		return ErrBlockOpen
	}

	// Block time never goes backwards.
	now := n.clock.Now().Unix()
	if now < n.last.CloseTime {
		now = n.last.CloseTime
	}
	h := n.last.Next(now)
	block := tx.BlockContext{Height: h.Height, Now: now, Ruler: n.config.Ruler}
	table := tx.NewApplyStateTable(n.store)

	events, err := n.sweeper.AdvanceAll(table, block)
	if err != nil {
		table.Discard()
		return fmt.Errorf("sweep block %d: %w", h.Height, err)
	}
	n.open = &openBlock{header: h, table: table, block: block, events: events}
	n.logger.Debug("block opened",
		slog.Uint64("height", h.Height),
		slog.Int64("time", now),
		slog.Int("sweep_events", len(events)),
	)
	return nil
}

// Submit applies t against the open block.
func (n *Node) Submit(t tx.Transaction) (tx.ApplyResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.open == nil {
		return tx.ApplyResult{}, ErrNoOpenBlock
	}
	engine := tx.NewEngine(n.open.table, tx.EngineConfig{
		BlockContext:              n.open.block,
		SkipSignatureVerification: n.config.SkipSignatureVerification,
	})
	res := engine.Apply(t)
	if res.Applied {
		n.open.header.AddTransaction(res.Hash)
		n.open.events = append(n.open.events, res.Events...)
	}
	n.logger.Debug("transaction applied",
		slog.String("type", t.GetCommon().TransactionType),
		slog.String("result", res.Result.String()),
	)
	return res, nil
}

// CloseBlock seals the open block, flushes it in one batch and publishes
// its events. Sink failures are logged and do not fail the close.
func (n *Node) CloseBlock(ctx context.Context) (*header.BlockHeader, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ob := n.open
	if ob == nil {
		return nil, ErrNoOpenBlock
	}
	h := ob.header
	h.EventCount = uint32(len(ob.events))
	h.Seal()
	if err := header.Write(ob.table, h); err != nil {
		return nil, err
	}
	if err := n.store.Commit(ctx, ob.table.Changes()); err != nil {
		return nil, fmt.Errorf("flush block %d: %w", h.Height, err)
	}
	ob.table.Discard()
	n.last = h
	n.open = nil

	for _, sink := range n.sinks {
		if err := sink.Publish(ctx, h.Height, ob.events); err != nil {
			n.logger.Warn("event sink failed",
				slog.Uint64("height", h.Height),
				slog.String("error", err.Error()),
			)
		}
	}
	n.logger.Info("block closed",
		slog.Uint64("height", h.Height),
		slog.Uint64("txs", uint64(h.TxCount)),
		slog.Int("events", len(ob.events)),
		slog.String("hash", h.HashHex()),
	)
	return h, nil
}

// Advance closes the open block and opens the next one.
func (n *Node) Advance(ctx context.Context) (*header.BlockHeader, error) {
	h, err := n.CloseBlock(ctx)
	if err != nil {
		return nil, err
	}
	return h, n.OpenBlock()
}

// Run advances a block every BlockInterval until ctx is cancelled, then
// closes the last open block.
func (n *Node) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.config.BlockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// The caller's context is done; flush with a fresh one.
			if _, err := n.CloseBlock(context.Background()); err != nil && !errors.Is(err, ErrNoOpenBlock) {
				return err
			}
			return nil
		case <-ticker.C:
			if _, err := n.Advance(ctx); err != nil {
				return err
			}
		}
	}
}

// View runs fn against the open block's state, or the store between blocks.
// fn must not keep view after it returns.
func (n *Node) View(fn func(view sle.LedgerView, height uint64, now int64) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.open != nil {
		return fn(n.open.table, n.open.header.Height, n.open.block.Now)
	}
	if n.last == nil {
		return ErrNotStarted
	}
	return fn(n.store, n.last.Height, n.last.CloseTime)
}

// LastHeader returns a copy of the last closed header.
func (n *Node) LastHeader() (header.BlockHeader, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		return header.BlockHeader{}, false
	}
	return *n.last, true
}
