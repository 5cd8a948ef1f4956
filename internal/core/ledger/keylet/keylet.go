package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goPredictd/internal/core/ledger/entry"
	crypto "github.com/LeJamon/goPredictd/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceAccount      uint16 = 'a' // Account root
	spaceAsset        uint16 = 'x' // Asset metadata
	spaceBalance      uint16 = 'b' // Asset balance
	spaceTokenReg     uint16 = 'X' // Token registry (singleton)
	spaceProposal     uint16 = 'p' // Proposal
	spaceRegistry     uint16 = 'P' // Proposal registry (singleton)
	spaceUsedCurrency uint16 = 'U' // Used currency marker
	spacePool         uint16 = 'A' // AMM pool
	spaceAccountInfo  uint16 = 'i' // Deposited notional
	spaceCreatorFee   uint16 = 'c' // Creator fee withdrawal
	spaceStake        uint16 = 's' // Stake account
	spaceSnapshot     uint16 = 'S' // Stake snapshot
	spaceLock         uint16 = 'l' // Locked vote weight
	spaceReviewVote   uint16 = 'r' // Review vote
	spaceResultVote   uint16 = 'R' // Result upload
	spaceTally        uint16 = 'T' // Vote tally
	spaceReportBond   uint16 = 'B' // Report bond
	spaceSlash        uint16 = 'k' // Slash record
	spaceParams       uint16 = 'e' // Params (singleton)
	spaceBlockHeader  uint16 = 'h' // Last closed block header (singleton)
)

// Keylet represents an addressable location in the state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Account returns the keylet for an account root entry.
func Account(accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeAccountRoot, Key: indexHash(spaceAccount, accountID[:])}
}

// Asset returns the keylet for a token ledger asset.
func Asset(currency uint32) Keylet {
	return Keylet{Type: entry.TypeAsset, Key: indexHash(spaceAsset, u32(currency))}
}

// Balance returns the keylet for an account's holding of one asset.
func Balance(currency uint32, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeBalance, Key: indexHash(spaceBalance, u32(currency), accountID[:])}
}

// TokenRegistry returns the keylet for the asset id counter.
func TokenRegistry() Keylet {
	return Keylet{Type: entry.TypeTokenRegistry, Key: indexHash(spaceTokenReg)}
}

// Proposal returns the keylet for a proposal.
func Proposal(id uint64) Keylet {
	return Keylet{Type: entry.TypeProposal, Key: indexHash(spaceProposal, u64(id))}
}

// Registry returns the keylet for the proposal id counter.
func Registry() Keylet {
	return Keylet{Type: entry.TypeRegistry, Key: indexHash(spaceRegistry)}
}

// UsedCurrency returns the keylet marking a currency as an outcome or liquidity id.
func UsedCurrency(currency uint32) Keylet {
	return Keylet{Type: entry.TypeUsedCurrency, Key: indexHash(spaceUsedCurrency, u32(currency))}
}

// Pool returns the keylet for a proposal's market pool.
func Pool(proposalID uint64) Keylet {
	return Keylet{Type: entry.TypePool, Key: indexHash(spacePool, u64(proposalID))}
}

// AccountInfo returns the keylet for an account's deposited notional in a pool.
func AccountInfo(proposalID uint64, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeAccountInfo, Key: indexHash(spaceAccountInfo, u64(proposalID), accountID[:])}
}

// CreatorFee returns the keylet for the creator fee withdrawal record.
func CreatorFee(proposalID uint64, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeCreatorFee, Key: indexHash(spaceCreatorFee, u64(proposalID), accountID[:])}
}

// Stake returns the keylet for an account's oracle stake.
func Stake(accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeStakeAccount, Key: indexHash(spaceStake, accountID[:])}
}

// Snapshot returns the keylet for one stake snapshot of an account.
func Snapshot(accountID [20]byte, sequence uint64) Keylet {
	return Keylet{Type: entry.TypeSnapshot, Key: indexHash(spaceSnapshot, accountID[:], u64(sequence))}
}

// Lock returns the keylet for the weight an account locked on a proposal.
func Lock(proposalID uint64, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeLock, Key: indexHash(spaceLock, u64(proposalID), accountID[:])}
}

// ReviewVote returns the keylet for an account's review vote.
func ReviewVote(proposalID uint64, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeReviewVote, Key: indexHash(spaceReviewVote, u64(proposalID), accountID[:])}
}

// ResultVote returns the keylet for an account's result upload.
func ResultVote(proposalID uint64, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeResultVote, Key: indexHash(spaceResultVote, u64(proposalID), accountID[:])}
}

// Tally returns the keylet for a proposal's vote totals.
func Tally(proposalID uint64) Keylet {
	return Keylet{Type: entry.TypeTally, Key: indexHash(spaceTally, u64(proposalID))}
}

// ReportBond returns the keylet for an account's report bond.
func ReportBond(proposalID uint64, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeReportBond, Key: indexHash(spaceReportBond, u64(proposalID), accountID[:])}
}

// Slash returns the keylet for the amount slashed from an account.
func Slash(proposalID uint64, accountID [20]byte) Keylet {
	return Keylet{Type: entry.TypeSlash, Key: indexHash(spaceSlash, u64(proposalID), accountID[:])}
}

// Params returns the keylet for the protocol parameters.
func Params() Keylet {
	return Keylet{Type: entry.TypeParams, Key: indexHash(spaceParams)}
}

// BlockHeader returns the keylet for the last closed block header.
func BlockHeader() Keylet {
	return Keylet{Type: entry.TypeBlockHeader, Key: indexHash(spaceBlockHeader)}
}
