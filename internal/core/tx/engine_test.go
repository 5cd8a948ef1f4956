package tx

import (
	"errors"
	"testing"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noteKey = keylet.Proposal(42)

// noteTx writes a marker entry, or fails with a fixed result.
type noteTx struct {
	BaseTx
	Note string `json:"Note"`
	Fail Result `json:"-"`
}

func (n *noteTx) TxType() Type { return TypeTransfer }

func (n *noteTx) Validate() error {
	if err := n.BaseTx.Validate(); err != nil {
		return err
	}
	if n.Note == "" {
		return errors.New("temMALFORMED: Note is required")
	}
	return nil
}

func (n *noteTx) Apply(ctx *ApplyContext) Result {
	if err := sle.Put(ctx.View, noteKey, n.Note); err != nil {
		return ResultFromError(err)
	}
	ctx.Emit(AccountEvent(EventTransferred, ctx.AccountID, map[string]any{"note": n.Note}))
	if n.Fail != TesSUCCESS {
		return n.Fail
	}
	return TesSUCCESS
}

func newTestView(t *testing.T) memView {
	t.Helper()
	view := memView{}
	require.NoError(t, sle.WriteParams(view, &sle.Params{}))
	return view
}

func newNote(t *testing.T, kp *crypto.KeyPair, seq uint32, note string) *noteTx {
	t.Helper()
	n := &noteTx{BaseTx: *NewBaseTx(TypeTransfer, kp.AccountID()), Note: note}
	n.Sequence = seq
	require.NoError(t, Sign(n, kp))
	return n
}

func testKey(t *testing.T, seed string) *crypto.KeyPair {
	t.Helper()
	kp, err := crypto.KeyPairFromSeed(crypto.KeyTypeSecp256k1, []byte(seed))
	require.NoError(t, err)
	return kp
}

func TestEngineApply(t *testing.T) {
	alice := testKey(t, "alice")
	cfg := EngineConfig{BlockContext: BlockContext{Height: 7, Now: 1000}}

	t.Run("success commits and bumps sequence", func(t *testing.T) {
		view := newTestView(t)
		engine := NewEngine(view, cfg)

		res := engine.Apply(newNote(t, alice, 0, "hello"))
		require.Equal(t, TesSUCCESS, res.Result, res.Message)
		assert.True(t, res.Applied)
		require.Len(t, res.Events, 1)
		assert.Equal(t, uint64(7), res.Events[0].Height)
		assert.NotEmpty(t, res.Events[0].TxHash)

		note, err := sle.Get[string](view, noteKey)
		require.NoError(t, err)
		assert.Equal(t, "hello", *note)

		root, err := sle.ReadAccountRoot(view, alice.AccountID())
		require.NoError(t, err)
		assert.Equal(t, uint32(1), root.Sequence)
	})

	t.Run("failure writes nothing", func(t *testing.T) {
		view := newTestView(t)
		engine := NewEngine(view, cfg)

		n := &noteTx{BaseTx: *NewBaseTx(TypeTransfer, alice.AccountID()), Note: "x", Fail: TecNO_ENTRY}
		require.NoError(t, Sign(n, alice))
		res := engine.Apply(n)
		assert.Equal(t, TecNO_ENTRY, res.Result)
		assert.False(t, res.Applied)
		assert.Empty(t, res.Events)

		exists, err := view.Exists(noteKey)
		require.NoError(t, err)
		assert.False(t, exists)

		root, err := sle.ReadAccountRoot(view, alice.AccountID())
		require.NoError(t, err)
		assert.Zero(t, root.Sequence)
	})

	t.Run("sequence checks", func(t *testing.T) {
		view := newTestView(t)
		engine := NewEngine(view, cfg)

		assert.Equal(t, TerPRE_SEQ, engine.Apply(newNote(t, alice, 1, "a")).Result)
		require.Equal(t, TesSUCCESS, engine.Apply(newNote(t, alice, 0, "a")).Result)
		assert.Equal(t, TefPAST_SEQ, engine.Apply(newNote(t, alice, 0, "b")).Result)
	})

	t.Run("signature checks", func(t *testing.T) {
		view := newTestView(t)
		engine := NewEngine(view, cfg)

		n := newNote(t, alice, 0, "signed")
		n.Note = "tampered"
		assert.Equal(t, TemBAD_SIGNATURE, engine.Apply(n).Result)

		bob := testKey(t, "bob")
		n = newNote(t, alice, 0, "signed")
		n.Account = bob.AccountID()
		assert.Equal(t, TefBAD_AUTH, engine.Apply(n).Result)

		n = newNote(t, alice, 0, "signed")
		n.TxnSignature = ""
		assert.Equal(t, TemBAD_SIGNATURE, engine.Apply(n).Result)
	})

	t.Run("skip signature verification", func(t *testing.T) {
		view := newTestView(t)
		engine := NewEngine(view, EngineConfig{SkipSignatureVerification: true})
		n := &noteTx{BaseTx: *NewBaseTx(TypeTransfer, alice.AccountID()), Note: "unsigned"}
		assert.Equal(t, TesSUCCESS, engine.Apply(n).Result)
	})

	t.Run("validation error maps to tem code", func(t *testing.T) {
		view := newTestView(t)
		engine := NewEngine(view, cfg)
		n := newNote(t, alice, 0, "")
		assert.Equal(t, TemMALFORMED, engine.Apply(n).Result)
	})
}

func TestResultFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"nil", nil, TesSUCCESS},
		{"missing entry", sle.ErrEntryNotFound, TecNO_ENTRY},
		{"unknown", errors.New("boom"), TecINTERNAL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultFromError(tt.err))
		})
	}

	t.Run("registered sentinel", func(t *testing.T) {
		sentinel := errors.New("custom")
		RegisterErrorResult(sentinel, TecSLASHED)
		assert.Equal(t, TecSLASHED, ResultFromError(errors.Join(errors.New("ctx"), sentinel)))
	})
}

func TestResultFamilies(t *testing.T) {
	assert.True(t, TesSUCCESS.IsSuccess())
	assert.True(t, TecSLASH_MISMATCH.IsTec())
	assert.True(t, TefPAST_SEQ.IsTef())
	assert.True(t, TemBAD_AMOUNT.IsTem())
	assert.True(t, TerPRE_SEQ.IsTer())
	assert.Equal(t, "tecSLASH_MISMATCH", TecSLASH_MISMATCH.String())
	assert.Equal(t, "slash number mismatch", TecSLASH_MISMATCH.Message())

	r, ok := ResultFromToken("tecNO_REAL_SOLUTION")
	require.True(t, ok)
	assert.Equal(t, TecNO_REAL_SOLUTION, r)
}
