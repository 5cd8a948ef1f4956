package entry

import (
	"fmt"
)

// Type represents a state entry type
type Type uint16

// All known state entry types
const (
	// Accounts & tokens
	TypeAccountRoot   Type = 0x0061 // Account sequence tracking
	TypeAsset         Type = 0x0062 // Token ledger asset metadata
	TypeBalance       Type = 0x0063 // Free and reserved balance per (asset, account)
	TypeTokenRegistry Type = 0x0064 // Next asset id (singleton)

	// Proposal registry
	TypeProposal     Type = 0x0070 // Proposal metadata and status
	TypeRegistry     Type = 0x0071 // Next proposal id (singleton)
	TypeUsedCurrency Type = 0x0072 // Currencies allocated as outcome or liquidity ids

	// Market pool
	TypePool        Type = 0x0078 // Per-proposal AMM totals
	TypeAccountInfo Type = 0x0079 // Per (proposal, account) deposited notional
	TypeCreatorFee  Type = 0x007a // Per (proposal, owner) creator fee withdrawal

	// Oracle
	TypeStakeAccount Type = 0x0080 // Per-account stake and lock totals
	TypeSnapshot     Type = 0x0081 // Per (account, sequence) stake snapshot
	TypeLock         Type = 0x0082 // Per (proposal, account) locked weight
	TypeReviewVote   Type = 0x0083 // Per (proposal, account) review vote
	TypeResultVote   Type = 0x0084 // Per (proposal, account) result upload
	TypeTally        Type = 0x0085 // Per-proposal vote totals and flags
	TypeReportBond   Type = 0x0086 // Per (proposal, account) report bond
	TypeSlash        Type = 0x0087 // Per (proposal, account) slashed amount

	// System singletons
	TypeParams      Type = 0x0090 // Tunable protocol parameters
	TypeBlockHeader Type = 0x0091 // Last closed block header
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeAsset:
		return "Asset"
	case TypeBalance:
		return "Balance"
	case TypeTokenRegistry:
		return "TokenRegistry"
	case TypeProposal:
		return "Proposal"
	case TypeRegistry:
		return "Registry"
	case TypeUsedCurrency:
		return "UsedCurrency"
	case TypePool:
		return "Pool"
	case TypeAccountInfo:
		return "AccountInfo"
	case TypeCreatorFee:
		return "CreatorFee"
	case TypeStakeAccount:
		return "StakeAccount"
	case TypeSnapshot:
		return "Snapshot"
	case TypeLock:
		return "Lock"
	case TypeReviewVote:
		return "ReviewVote"
	case TypeResultVote:
		return "ResultVote"
	case TypeTally:
		return "Tally"
	case TypeReportBond:
		return "ReportBond"
	case TypeSlash:
		return "Slash"
	case TypeParams:
		return "Params"
	case TypeBlockHeader:
		return "BlockHeader"
	default:
		return fmt.Sprintf("Unknown(%#x)", uint16(t))
	}
}
