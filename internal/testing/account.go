package testing

import (
	"crypto/sha512"
	"sync"

	"github.com/LeJamon/goPredictd/internal/crypto"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[crypto.AccountID]*Account)
)

// Account represents a test account with keypair and account id.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// KeyPair signs the account's transactions and result uploads.
	KeyPair *crypto.KeyPair

	// ID is the 20-byte account ID derived from the public key.
	ID crypto.AccountID
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
// By default, uses secp256k1 key derivation.
func NewAccount(name string) *Account {
	return NewAccountWithKeyType(name, crypto.KeyTypeSecp256k1)
}

// NewAccountWithKeyType creates a new test account with the specified key type.
func NewAccountWithKeyType(name string, keyType crypto.KeyType) *Account {
	// Seed is the first 16 bytes of SHA512(name) so the account is stable across runs
	hash := sha512.Sum512([]byte(keyType.String() + "/" + name))
	kp, err := crypto.KeyPairFromSeed(keyType, hash[:16])
	if err != nil {
		panic("failed to derive " + keyType.String() + " keypair for account " + name + ": " + err.Error())
	}
	acc := &Account{
		Name:    name,
		KeyPair: kp,
		ID:      kp.AccountID(),
	}

	registryMu.Lock()
	registry[acc.ID] = acc
	registryMu.Unlock()
	return acc
}

// lookupAccount returns the test account that owns id, if one was created.
func lookupAccount(id crypto.AccountID) (*Account, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	acc, ok := registry[id]
	return acc, ok
}

// MasterAccount returns the account that holds the genesis supply.
func MasterAccount() *Account {
	return NewAccount("master")
}

// AdminAccount returns the account listed as governance admin at genesis.
func AdminAccount() *Account {
	return NewAccount("admin")
}

// PlatformAccount returns the account that receives the platform dividend.
func PlatformAccount() *Account {
	return NewAccount("platform")
}

// String returns a debug representation of the account.
func (a *Account) String() string {
	return a.Name + " (" + a.ID.String() + ")"
}
