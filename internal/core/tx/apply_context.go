package tx

import (
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/ruler"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// BlockContext is what every state transition in a block sees alike.
type BlockContext struct {
	Height uint64
	// Now is the block time in unix seconds.
	Now   int64
	Ruler ruler.Directory
}

// ApplyContext provides all the state and helpers needed to apply a transaction.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	// View provides read/write access to state (the ApplyStateTable)
	View sle.LedgerView

	// Tokens is the token ledger over View
	Tokens tokens.Ledger

	Ruler ruler.Directory

	// Params is a copy of the parameters at the start of the transaction
	Params *sle.Params

	// AccountID is the acting account
	AccountID crypto.AccountID

	Height uint64
	Now    int64

	// TxHash is the hash of the current transaction, zero for sweep transitions
	TxHash [32]byte

	events []Event
}

// NewApplyContext builds a context over view for the given block.
func NewApplyContext(view sle.LedgerView, block BlockContext, account crypto.AccountID) (*ApplyContext, error) {
	params, err := sle.ReadParams(view)
	if err != nil {
		return nil, fmt.Errorf("load params: %w", err)
	}
	return &ApplyContext{
		View:      view,
		Tokens:    tokens.NewStateLedger(view),
		Ruler:     block.Ruler,
		Params:    params,
		AccountID: account,
		Height:    block.Height,
		Now:       block.Now,
	}, nil
}

// Emit queues an event. Events are published only if the transition commits.
func (ctx *ApplyContext) Emit(ev Event) {
	ctx.events = append(ctx.events, ev)
}

// Events returns the queued events.
func (ctx *ApplyContext) Events() []Event {
	return ctx.events
}

// IsAdmin reports whether the acting account holds governance rights.
func (ctx *ApplyContext) IsAdmin() bool {
	return ctx.Params.IsAdmin(ctx.AccountID)
}
