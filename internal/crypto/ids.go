package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	common "github.com/LeJamon/goPredictd/internal/crypto/common"
	"github.com/LeJamon/goPredictd/internal/protocol"
	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDSize is the size of an account ID in bytes.
const AccountIDSize = 20

// ErrInvalidAccountID is returned when an account string cannot be decoded.
var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID is a 160-bit account identifier.
type AccountID [AccountIDSize]byte

// String renders the id as 40 lowercase hex characters.
func (a AccountID) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether every byte of the id is zero.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ParseAccountID decodes the hex form produced by AccountID.String.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidAccountID, err)
	}
	if len(raw) != AccountIDSize {
		return id, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAccountID, AccountIDSize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// CalcAccountID computes the account ID from a public key.
// The account ID is a 160-bit identifier computed as RIPEMD160(SHA256(publicKey)).
// The whole public key, including any type prefix, is hashed.
func CalcAccountID(publicKey []byte) AccountID {
	sha256Hash := sha256.Sum256(publicKey)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])

	var result AccountID
	copy(result[:], ripemd160Hasher.Sum(nil))
	return result
}

// ModuleAccount returns the custody account of a named module. Nobody holds
// a key for it; funds only leave through module logic.
func ModuleAccount(name string) AccountID {
	h := common.Sha512Half(protocol.HashPrefixModule[:], []byte(name))
	var id AccountID
	copy(id[:], h[:AccountIDSize])
	return id
}
