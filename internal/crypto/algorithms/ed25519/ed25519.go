package ed25519

import (
	"crypto/ed25519"
	"errors"

	crypto "github.com/LeJamon/goPredictd/internal/crypto/common"
)

// KeyPrefix marks ed25519 public keys so they can be told apart from
// compressed secp256k1 points of the same length.
const KeyPrefix byte = 0xED

var (
	ErrInvalidPrivateKey = errors.New("invalid ed25519 private key")
	ErrInvalidPublicKey  = errors.New("invalid ed25519 public key")
)

// ED25519SignatureProvider implements digital signature operations using the ED25519 algorithm
type ED25519SignatureProvider struct{}

func NewED25519Provider() *ED25519SignatureProvider {
	return &ED25519SignatureProvider{}
}

// GenerateKeypair returns the 32-byte ed25519 seed and the prefixed 33-byte
// public key derived from Sha512Half(seed).
func (p *ED25519SignatureProvider) GenerateKeypair(seed []byte) (private []byte, public []byte, err error) {
	material := crypto.Sha512Half(seed)
	key := ed25519.NewKeyFromSeed(material[:])
	return key.Seed(), prefixed(key.Public().(ed25519.PublicKey)), nil
}

func (p *ED25519SignatureProvider) PublicKey(private []byte) ([]byte, error) {
	if len(private) != ed25519.SeedSize {
		return nil, ErrInvalidPrivateKey
	}
	key := ed25519.NewKeyFromSeed(private)
	return prefixed(key.Public().(ed25519.PublicKey)), nil
}

func (p *ED25519SignatureProvider) Sign(digest [32]byte, private []byte) ([]byte, error) {
	if len(private) != ed25519.SeedSize {
		return nil, ErrInvalidPrivateKey
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(private), digest[:]), nil
}

func (p *ED25519SignatureProvider) Verify(digest [32]byte, public, signature []byte) bool {
	if len(public) != ed25519.PublicKeySize+1 || public[0] != KeyPrefix {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(public[1:]), digest[:], signature)
}

func prefixed(pub ed25519.PublicKey) []byte {
	return append([]byte{KeyPrefix}, pub...)
}
