// Package header defines the block header the node writes on every close.
package header

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	common "github.com/LeJamon/goPredictd/internal/crypto/common"
	"github.com/LeJamon/goPredictd/internal/protocol"
)

// BlockHeader summarizes one closed block. Headers chain through
// ParentHash; TxHash folds the hashes of the applied transactions in order.
type BlockHeader struct {
	Height     uint64   `codec:"height" json:"height"`
	CloseTime  int64    `codec:"close_time" json:"close_time"`
	ParentHash [32]byte `codec:"parent" json:"-"`
	TxHash     [32]byte `codec:"tx_hash" json:"-"`
	TxCount    uint32   `codec:"tx_count" json:"tx_count"`
	EventCount uint32   `codec:"event_count" json:"event_count"`
	Hash       [32]byte `codec:"hash" json:"-"`
}

// CalculateHash hashes every field except Hash itself.
func (h *BlockHeader) CalculateHash() [32]byte {
	var buf [8 + 8 + 4 + 4]byte
	binary.BigEndian.PutUint64(buf[0:8], h.Height)
	binary.BigEndian.PutUint64(buf[8:16], uint64(h.CloseTime))
	binary.BigEndian.PutUint32(buf[16:20], h.TxCount)
	binary.BigEndian.PutUint32(buf[20:24], h.EventCount)
	return common.Sha512Half(protocol.HashPrefixBlockHeader[:], buf[:], h.ParentHash[:], h.TxHash[:])
}

// AddTransaction folds txHash into the running transaction digest.
func (h *BlockHeader) AddTransaction(txHash [32]byte) {
	h.TxHash = common.Sha512Half(h.TxHash[:], txHash[:])
	h.TxCount++
}

// Seal fixes Hash. The header must not change afterwards.
func (h *BlockHeader) Seal() {
	h.Hash = h.CalculateHash()
}

// Next starts the header of the following block.
func (h *BlockHeader) Next(closeTime int64) *BlockHeader {
	return &BlockHeader{Height: h.Height + 1, CloseTime: closeTime, ParentHash: h.Hash}
}

// HashHex returns the lowercase hex of Hash.
func (h *BlockHeader) HashHex() string {
	return hex.EncodeToString(h.Hash[:])
}

// Read returns the last closed header, or nil before genesis.
func Read(view sle.LedgerView) (*BlockHeader, error) {
	h, ok, err := sle.Find[BlockHeader](view, keylet.BlockHeader())
	if err != nil || !ok {
		return nil, err
	}
	return h, nil
}

// Write stores h as the last closed header.
func Write(view sle.LedgerView, h *BlockHeader) error {
	return sle.Put(view, keylet.BlockHeader(), h)
}
