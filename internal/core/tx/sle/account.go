package sle

import (
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// AccountRoot tracks the next transaction sequence of an account.
type AccountRoot struct {
	Account  crypto.AccountID `codec:"account"`
	Sequence uint32           `codec:"seq"`
}

// ReadAccountRoot returns the account root, or a fresh one at sequence 0.
func ReadAccountRoot(view LedgerView, id crypto.AccountID) (*AccountRoot, error) {
	root, ok, err := Find[AccountRoot](view, keylet.Account(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &AccountRoot{Account: id}, nil
	}
	return root, nil
}
