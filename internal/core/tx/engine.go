package tx

import (
	"encoding/hex"
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	BlockContext

	// SkipSignatureVerification disables signature checks (standalone and tests)
	SkipSignatureVerification bool
}

// ApplyResult is the outcome of applying one transaction
type ApplyResult struct {
	Result  Result
	Applied bool
	Hash    [32]byte
	Message string
	Events  []Event
}

// Engine applies transactions against a view. A transaction's writes go to
// its own ApplyStateTable and reach the view only on tesSUCCESS.
type Engine struct {
	view   sle.LedgerView
	config EngineConfig
}

// NewEngine creates a new transaction engine
func NewEngine(view sle.LedgerView, config EngineConfig) *Engine {
	return &Engine{
		view:   view,
		config: config,
	}
}

// Apply processes a transaction and applies it to the view
func (e *Engine) Apply(tx Transaction) ApplyResult {
	// Step 1: Preflight checks (syntax and signature)
	account, result := e.preflight(tx)
	if !result.IsSuccess() {
		return ApplyResult{Result: result, Message: result.Message()}
	}

	_, selfAuth := tx.(SelfAuthenticating)

	// Step 2: Sequence check against state
	var root *sle.AccountRoot
	if !selfAuth {
		var err error
		root, err = sle.ReadAccountRoot(e.view, account)
		if err != nil {
			return ApplyResult{Result: TefINTERNAL, Message: "failed to read account: " + err.Error()}
		}
		if r := checkSequence(root, tx.GetCommon().Sequence); !r.IsSuccess() {
			return ApplyResult{Result: r, Message: r.Message()}
		}
	}

	txHash, err := TransactionHash(tx)
	if err != nil {
		return ApplyResult{Result: TefINTERNAL, Message: "failed to compute transaction hash: " + err.Error()}
	}

	appliable, ok := tx.(Appliable)
	if !ok {
		return ApplyResult{Result: TemUNKNOWN, Hash: txHash, Message: TemUNKNOWN.Message()}
	}

	// Step 3: Apply against a private table
	table := NewApplyStateTable(e.view)
	ctx, err := NewApplyContext(table, e.config.BlockContext, account)
	if err != nil {
		return ApplyResult{Result: TefINTERNAL, Hash: txHash, Message: err.Error()}
	}
	ctx.TxHash = txHash

	result = appliable.Apply(ctx)
	if !result.IsSuccess() {
		return ApplyResult{Result: result, Hash: txHash, Message: result.Message()}
	}

	// Step 4: Bump the sequence and commit
	if root != nil {
		root.Sequence++
		if err := sle.Put(table, keylet.Account(account), root); err != nil {
			return ApplyResult{Result: TefINTERNAL, Hash: txHash, Message: err.Error()}
		}
	}
	if err := table.Apply(); err != nil {
		return ApplyResult{Result: TefINTERNAL, Hash: txHash, Message: "failed to apply state changes: " + err.Error()}
	}

	events := ctx.Events()
	hashHex := hex.EncodeToString(txHash[:])
	for i := range events {
		events[i].Height = e.config.Height
		events[i].TxHash = hashHex
	}

	return ApplyResult{
		Result:  TesSUCCESS,
		Applied: true,
		Hash:    txHash,
		Message: TesSUCCESS.Message(),
		Events:  events,
	}
}

// preflight performs stateless validation and authentication, returning
// the acting account.
func (e *Engine) preflight(tx Transaction) (crypto.AccountID, Result) {
	common := tx.GetCommon()

	if common.TransactionType == "" {
		return crypto.AccountID{}, TemINVALID
	}
	if t, ok := TypeFromName(common.TransactionType); !ok || t != tx.TxType() {
		return crypto.AccountID{}, TemINVALID
	}

	if err := tx.Validate(); err != nil {
		return crypto.AccountID{}, parseValidationError(err)
	}

	if sa, ok := tx.(SelfAuthenticating); ok {
		account, err := sa.Authenticate(!e.config.SkipSignatureVerification)
		if err != nil {
			return crypto.AccountID{}, TemBAD_SIGNATURE
		}
		return account, TesSUCCESS
	}

	if !e.config.SkipSignatureVerification {
		switch err := VerifySignature(tx); {
		case err == nil:
		case errors.Is(err, ErrPublicKeyMismatch):
			return crypto.AccountID{}, TefBAD_AUTH
		default:
			return crypto.AccountID{}, TemBAD_SIGNATURE
		}
	}
	return common.Account, TesSUCCESS
}

func checkSequence(root *sle.AccountRoot, seq uint32) Result {
	switch {
	case seq < root.Sequence:
		return TefPAST_SEQ
	case seq > root.Sequence:
		return TerPRE_SEQ
	default:
		return TesSUCCESS
	}
}
