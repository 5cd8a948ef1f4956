// Package crypto provides account ids, key pairs and signature checks.
package crypto

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/LeJamon/goPredictd/internal/crypto/algorithms/ed25519"
	"github.com/LeJamon/goPredictd/internal/crypto/algorithms/secp256k1"
)

var (
	// ErrUnsupportedKeyType is returned when an unsupported key type is requested.
	ErrUnsupportedKeyType = errors.New("unsupported key type")
	// ErrBadSignature is returned when a signature does not verify.
	ErrBadSignature = errors.New("signature verification failed")
)

// KeyType represents the type of cryptographic key.
type KeyType int

const (
	// KeyTypeUnknown indicates an unknown or invalid key type.
	KeyTypeUnknown KeyType = iota
	// KeyTypeSecp256k1 indicates a secp256k1 (ECDSA) key.
	KeyTypeSecp256k1
	// KeyTypeEd25519 indicates an Ed25519 key.
	KeyTypeEd25519
)

// String returns the string representation of the key type.
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeSecp256k1:
		return "secp256k1"
	case KeyTypeEd25519:
		return "ed25519"
	default:
		return "unknown"
	}
}

// ParseKeyType accepts the names produced by KeyType.String.
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(s) {
	case "secp256k1":
		return KeyTypeSecp256k1, nil
	case "ed25519":
		return KeyTypeEd25519, nil
	default:
		return KeyTypeUnknown, ErrUnsupportedKeyType
	}
}

// PublicKeyType determines the key type from a public key's raw bytes.
//
// Public key formats:
//   - Ed25519: 33 bytes, first byte is 0xED
//   - secp256k1: 33 bytes, first byte is 0x02 or 0x03 (compressed format)
func PublicKeyType(pubKey []byte) KeyType {
	if len(pubKey) != 33 {
		return KeyTypeUnknown
	}

	switch pubKey[0] {
	case ed25519.KeyPrefix:
		return KeyTypeEd25519
	case 0x02, 0x03:
		return KeyTypeSecp256k1
	default:
		return KeyTypeUnknown
	}
}

type signer interface {
	GenerateKeypair(seed []byte) ([]byte, []byte, error)
	PublicKey(private []byte) ([]byte, error)
	Sign(digest [32]byte, private []byte) ([]byte, error)
	Verify(digest [32]byte, public, signature []byte) bool
}

func providerFor(keyType KeyType) (signer, error) {
	switch keyType {
	case KeyTypeSecp256k1:
		return secp256k1.NewSECP256K1Provider(), nil
	case KeyTypeEd25519:
		return ed25519.NewED25519Provider(), nil
	default:
		return nil, ErrUnsupportedKeyType
	}
}

// KeyPair holds a private key together with its public key and account.
type KeyPair struct {
	Type    KeyType
	Public  []byte
	private []byte
}

// KeyPairFromSeed deterministically derives a key pair from seed.
func KeyPairFromSeed(keyType KeyType, seed []byte) (*KeyPair, error) {
	p, err := providerFor(keyType)
	if err != nil {
		return nil, err
	}
	priv, pub, err := p.GenerateKeypair(seed)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Type: keyType, Public: pub, private: priv}, nil
}

// KeyPairFromPrivate rebuilds a key pair from raw private key bytes.
func KeyPairFromPrivate(keyType KeyType, private []byte) (*KeyPair, error) {
	p, err := providerFor(keyType)
	if err != nil {
		return nil, err
	}
	pub, err := p.PublicKey(private)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Type: keyType, Public: pub, private: append([]byte(nil), private...)}, nil
}

// AccountID returns the account controlled by this key pair.
func (k *KeyPair) AccountID() AccountID {
	return CalcAccountID(k.Public)
}

// PublicHex returns the uppercase hex encoding of the public key.
func (k *KeyPair) PublicHex() string {
	return strings.ToUpper(hex.EncodeToString(k.Public))
}

// PrivateHex returns the hex encoding of the raw private key.
func (k *KeyPair) PrivateHex() string {
	return strings.ToUpper(hex.EncodeToString(k.private))
}

// Sign signs a 32-byte digest.
func (k *KeyPair) Sign(digest [32]byte) ([]byte, error) {
	p, err := providerFor(k.Type)
	if err != nil {
		return nil, err
	}
	return p.Sign(digest, k.private)
}

// Verify checks sig over digest against a public key whose type is inferred
// from its encoding.
func Verify(public []byte, digest [32]byte, sig []byte) error {
	p, err := providerFor(PublicKeyType(public))
	if err != nil {
		return err
	}
	if !p.Verify(digest, public, sig) {
		return ErrBadSignature
	}
	return nil
}
