package tx

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/LeJamon/goPredictd/internal/crypto"
	common "github.com/LeJamon/goPredictd/internal/crypto/common"
	"github.com/LeJamon/goPredictd/internal/protocol"
)

// Signature verification errors
var (
	ErrMissingSignature  = errors.New("transaction is not signed")
	ErrMissingPublicKey  = errors.New("signing public key is missing")
	ErrInvalidSignature  = errors.New("signature is invalid")
	ErrPublicKeyMismatch = errors.New("public key does not match account")
)

// canonicalJSON re-encodes tx with sorted keys so that every party hashes
// the same bytes regardless of field order on the wire.
func canonicalJSON(tx Transaction, withSignature bool) ([]byte, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if !withSignature {
		delete(fields, "TxnSignature")
	}
	return json.Marshal(fields)
}

// SigningHash is the digest covered by TxnSignature.
func SigningHash(tx Transaction) ([32]byte, error) {
	data, err := canonicalJSON(tx, false)
	if err != nil {
		return [32]byte{}, err
	}
	return common.Sha512Half(protocol.HashPrefixTxSign[:], data), nil
}

// TransactionHash identifies a transaction, signature included.
func TransactionHash(tx Transaction) ([32]byte, error) {
	data, err := canonicalJSON(tx, true)
	if err != nil {
		return [32]byte{}, err
	}
	return common.Sha512Half(protocol.HashPrefixTransactionID[:], data), nil
}

// Sign fills SigningPubKey and TxnSignature using kp. The Account field is
// set to the key's account.
func Sign(tx Transaction, kp *crypto.KeyPair) error {
	c := tx.GetCommon()
	c.Account = kp.AccountID()
	c.SigningPubKey = kp.PublicHex()
	c.TxnSignature = ""

	digest, err := SigningHash(tx)
	if err != nil {
		return err
	}
	sig, err := kp.Sign(digest)
	if err != nil {
		return err
	}
	c.TxnSignature = hex.EncodeToString(sig)
	return nil
}

// VerifySignature checks that the transaction is signed by the key of its
// Account.
func VerifySignature(tx Transaction) error {
	c := tx.GetCommon()
	if c.TxnSignature == "" {
		return ErrMissingSignature
	}
	if c.SigningPubKey == "" {
		return ErrMissingPublicKey
	}

	pub, err := hex.DecodeString(c.SigningPubKey)
	if err != nil {
		return ErrMissingPublicKey
	}
	if crypto.CalcAccountID(pub) != c.Account {
		return ErrPublicKeyMismatch
	}
	sig, err := hex.DecodeString(c.TxnSignature)
	if err != nil {
		return ErrInvalidSignature
	}

	digest, err := SigningHash(tx)
	if err != nil {
		return err
	}
	if err := crypto.Verify(pub, digest, sig); err != nil {
		return ErrInvalidSignature
	}
	return nil
}
