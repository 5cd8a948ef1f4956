package tx

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Transaction is the interface that all transaction types implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate performs stateless checks. Errors prefixed with a tem token
	// ("temBAD_AMOUNT: ...") map to that result.
	Validate() error
}

// Appliable is implemented by transaction types that can apply themselves to state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// SelfAuthenticating is implemented by transactions that carry their own
// signed payload instead of the common signature fields. They have no
// sequence and the acting account is derived from the payload's key.
type SelfAuthenticating interface {
	// Authenticate returns the acting account. When verify is set the
	// payload signature must check out.
	Authenticate(verify bool) (crypto.AccountID, error)
}

// Common contains fields common to all transactions
type Common struct {
	Account         crypto.AccountID `json:"Account"`
	TransactionType string           `json:"TransactionType"`
	Sequence        uint32           `json:"Sequence"`

	// Hex-encoded signing key and signature
	SigningPubKey string `json:"SigningPubKey,omitempty"`
	TxnSignature  string `json:"TxnSignature,omitempty"`
}

// Validate validates the common fields
func (c *Common) Validate() error {
	if c.Account.IsZero() {
		return errors.New("temMALFORMED: Account is required")
	}
	if c.TransactionType == "" {
		return errors.New("temMALFORMED: TransactionType is required")
	}
	return nil
}

// BaseTx is embedded by every transaction type.
type BaseTx struct {
	Common
}

// NewBaseTx creates a new BaseTx with the given type and account
func NewBaseTx(txType Type, account crypto.AccountID) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
	}
}

// GetCommon returns the common fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}
