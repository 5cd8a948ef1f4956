package oracle

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
	common "github.com/LeJamon/goPredictd/internal/crypto/common"
	"github.com/LeJamon/goPredictd/internal/protocol"
)

// ResultPayload is the statement an oracle node signs when it uploads a
// result. The uploading account is derived from PublicKey.
type ResultPayload struct {
	ProposalID     uint64 `json:"ProposalID"`
	ResultCurrency uint32 `json:"ResultCurrency"`
	PublicKey      string `json:"PublicKey"`
	VoteWeight     uint64 `json:"VoteWeight"`
}

// Hash returns the digest covered by the payload signature.
func (p ResultPayload) Hash() ([32]byte, error) {
	pub, err := hex.DecodeString(p.PublicKey)
	if err != nil {
		return [32]byte{}, fmt.Errorf("public key: %w", err)
	}
	var buf [20]byte
	binary.BigEndian.PutUint64(buf[0:8], p.ProposalID)
	binary.BigEndian.PutUint32(buf[8:12], p.ResultCurrency)
	binary.BigEndian.PutUint64(buf[12:20], p.VoteWeight)
	return common.Sha512Half(protocol.HashPrefixResultUpload[:], buf[:], pub), nil
}

// UploadResult carries a signed result vote. It authenticates through the
// payload signature, so Account, Sequence and TxnSignature are unused.
type UploadResult struct {
	tx.BaseTx

	Payload   ResultPayload `json:"Payload"`
	Signature string        `json:"Signature"`
}

// NewUploadResult builds and signs an upload with kp.
func NewUploadResult(kp *crypto.KeyPair, proposalID uint64, result uint32, weight uint64) (*UploadResult, error) {
	u := &UploadResult{
		BaseTx: *tx.NewBaseTx(tx.TypeUploadResult, crypto.AccountID{}),
		Payload: ResultPayload{
			ProposalID:     proposalID,
			ResultCurrency: result,
			PublicKey:      kp.PublicHex(),
			VoteWeight:     weight,
		},
	}
	digest, err := u.Payload.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := kp.Sign(digest)
	if err != nil {
		return nil, err
	}
	u.Signature = hex.EncodeToString(sig)
	return u, nil
}

// TxType returns the transaction type
func (u *UploadResult) TxType() tx.Type {
	return tx.TypeUploadResult
}

// Validate validates the UploadResult transaction
func (u *UploadResult) Validate() error {
	if u.TransactionType == "" {
		return errors.New("temMALFORMED: TransactionType is required")
	}
	if _, err := hex.DecodeString(u.Payload.PublicKey); err != nil || u.Payload.PublicKey == "" {
		return errors.New("temMALFORMED: PublicKey must be hex")
	}
	if u.Payload.ResultCurrency == 0 {
		return errors.New("temBAD_CURRENCY: ResultCurrency is required")
	}
	if u.Payload.VoteWeight == 0 {
		return errors.New("temBAD_AMOUNT: VoteWeight must be positive")
	}
	if u.Signature == "" {
		return errors.New("temBAD_SIGNATURE: Signature is required")
	}
	return nil
}

// Authenticate returns the uploading account, checking the payload
// signature when verify is set.
func (u *UploadResult) Authenticate(verify bool) (crypto.AccountID, error) {
	pub, err := hex.DecodeString(u.Payload.PublicKey)
	if err != nil {
		return crypto.AccountID{}, tx.ErrMissingPublicKey
	}
	if verify {
		sig, err := hex.DecodeString(u.Signature)
		if err != nil {
			return crypto.AccountID{}, tx.ErrInvalidSignature
		}
		digest, err := u.Payload.Hash()
		if err != nil {
			return crypto.AccountID{}, err
		}
		if err := crypto.Verify(pub, digest, sig); err != nil {
			return crypto.AccountID{}, tx.ErrInvalidSignature
		}
	}
	return crypto.CalcAccountID(pub), nil
}

// Apply records the vote and locks lock_ratio percent of its weight.
func (u *UploadResult) Apply(ctx *tx.ApplyContext) tx.Result {
	pid := u.Payload.ProposalID
	p, res := proposalIn(ctx.View, pid, sle.StatusWaitingForResults)
	if !res.IsSuccess() {
		return res
	}
	idx, ok := p.OutcomeIndex(u.Payload.ResultCurrency)
	if !ok {
		return tx.TecBAD_OUTCOME
	}
	st, res := activeNode(ctx.View, ctx.AccountID)
	if !res.IsSuccess() {
		return res
	}
	voteKey := keylet.ResultVote(pid, ctx.AccountID)
	voted, err := ctx.View.Exists(voteKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if voted {
		return tx.TecDUPLICATE
	}
	weight := u.Payload.VoteWeight
	if weight > st.Usable() {
		return tx.TecINSUFFICIENT_WEIGHT
	}

	lock, err := amount.Percent(weight, ctx.Params.LockRatio)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if err := addWeight(&st.Locked, lock); err != nil {
		return tx.ResultFromError(err)
	}
	t, err := sle.ReadTally(ctx.View, pid)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if err := addWeight(&t.Results[idx], weight); err != nil {
		return tx.ResultFromError(err)
	}

	vote := &sle.ResultVote{Currency: u.Payload.ResultCurrency, Weight: weight}
	if err := sle.Create(ctx.View, voteKey, vote); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.Create(ctx.View, keylet.Lock(pid, ctx.AccountID), &sle.Lock{Amount: lock}); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeStake(ctx.View, ctx.AccountID, st); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeTally(ctx.View, pid, t); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventResultUploaded, pid, ctx.AccountID, map[string]any{
		"result":  u.Payload.ResultCurrency,
		"weight":  weight,
		"locked":  lock,
		"results": t.Results,
	}))
	return tx.TesSUCCESS
}
