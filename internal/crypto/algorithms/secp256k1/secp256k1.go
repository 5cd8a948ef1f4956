package secp256k1

import (
	"encoding/binary"
	"errors"

	crypto "github.com/LeJamon/goPredictd/internal/crypto/common"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid secp256k1 private key")
	ErrInvalidPublicKey  = errors.New("invalid secp256k1 public key")
)

// SECP256K1SignatureProvider signs 32-byte digests with ECDSA over secp256k1.
// Public keys are 33-byte compressed points, signatures are DER encoded.
type SECP256K1SignatureProvider struct{}

func NewSECP256K1Provider() *SECP256K1SignatureProvider {
	return &SECP256K1SignatureProvider{}
}

// GenerateKeypair derives a key pair from seed. The private scalar is the
// first Sha512Half(seed || counter) that falls inside the curve order.
func (p *SECP256K1SignatureProvider) GenerateKeypair(seed []byte) (private []byte, public []byte, err error) {
	var counter [4]byte
	for i := uint32(0); i < 1<<16; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		candidate := crypto.Sha512Half(seed, counter[:])

		var scalar dsecp.ModNScalar
		if overflow := scalar.SetByteSlice(candidate[:]); overflow || scalar.IsZero() {
			continue
		}
		key := dsecp.NewPrivateKey(&scalar)
		return key.Serialize(), key.PubKey().SerializeCompressed(), nil
	}
	return nil, nil, ErrInvalidPrivateKey
}

// PublicKey returns the compressed public key for a raw private key.
func (p *SECP256K1SignatureProvider) PublicKey(private []byte) ([]byte, error) {
	if len(private) != dsecp.PrivKeyBytesLen {
		return nil, ErrInvalidPrivateKey
	}
	key := dsecp.PrivKeyFromBytes(private)
	return key.PubKey().SerializeCompressed(), nil
}

func (p *SECP256K1SignatureProvider) Sign(digest [32]byte, private []byte) ([]byte, error) {
	if len(private) != btcec.PrivKeyBytesLen {
		return nil, ErrInvalidPrivateKey
	}
	key, _ := btcec.PrivKeyFromBytes(private)
	return ecdsa.Sign(key, digest[:]).Serialize(), nil
}

func (p *SECP256K1SignatureProvider) Verify(digest [32]byte, public, signature []byte) bool {
	pub, err := btcec.ParsePubKey(public)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pub)
}
