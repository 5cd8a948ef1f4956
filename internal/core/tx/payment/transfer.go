// Package payment implements plain token movement between accounts.
package payment

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

func init() {
	tx.Register(tx.TypeTransfer, func() tx.Transaction {
		return &Transfer{BaseTx: *tx.NewBaseTx(tx.TypeTransfer, crypto.AccountID{})}
	})
}

// Transfer moves free balance of one currency to another account.
type Transfer struct {
	tx.BaseTx

	Currency    uint32           `json:"Currency"`
	Destination crypto.AccountID `json:"Destination"`
	Amount      uint64           `json:"Amount"`
}

// NewTransfer creates a new Transfer transaction
func NewTransfer(account, destination crypto.AccountID, currency uint32, amount uint64) *Transfer {
	return &Transfer{
		BaseTx:      *tx.NewBaseTx(tx.TypeTransfer, account),
		Currency:    currency,
		Destination: destination,
		Amount:      amount,
	}
}

// TxType returns the transaction type
func (t *Transfer) TxType() tx.Type {
	return tx.TypeTransfer
}

// Validate validates the Transfer transaction
func (t *Transfer) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Currency == 0 {
		return errors.New("temBAD_CURRENCY: Currency is required")
	}
	if t.Destination.IsZero() {
		return errors.New("temMALFORMED: Destination is required")
	}
	if t.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	if t.Destination == t.Account {
		return errors.New("temREDUNDANT: cannot transfer to self")
	}
	return nil
}

// Apply applies the Transfer transaction to state.
func (t *Transfer) Apply(ctx *tx.ApplyContext) tx.Result {
	moved, err := ctx.Tokens.Transfer(t.Currency, ctx.AccountID, t.Destination, t.Amount)
	if err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.AccountEvent(tx.EventTransferred, ctx.AccountID, map[string]any{
		"currency":    t.Currency,
		"destination": t.Destination.String(),
		"amount":      moved,
	}))
	return tx.TesSUCCESS
}
