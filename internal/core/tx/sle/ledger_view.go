package sle

import "github.com/LeJamon/goPredictd/internal/core/ledger/keylet"

// LedgerView is the chain state as seen by a transaction, the sweep or an
// rpc query. The node's open block, a transaction's private table and the
// persistent store all implement it.
type LedgerView interface {
	// Read returns the encoded entry, or (nil, nil) when absent.
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
	// Insert fails if the entry already exists; Update if it does not.
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
}
