package tx

import "github.com/LeJamon/goPredictd/internal/crypto"

// Event type names.
const (
	EventNewProposal      = "new_proposal"
	EventStatusChanged    = "status_changed"
	EventLiquidityAdded   = "liquidity_added"
	EventLiquidityRemoved = "liquidity_removed"
	EventBought           = "bought"
	EventSold             = "sold"
	EventRetrieved        = "retrieved"
	EventResultSet        = "result_set"
	EventStaked           = "staked"
	EventUnstaked         = "unstaked"
	EventReviewed         = "reviewed"
	EventResultUploaded   = "result_uploaded"
	EventReported         = "reported"
	EventSlashed          = "slashed"
	EventSlashFinished    = "slash_finished"
	EventTakenOut         = "taken_out"
	EventUnlocked         = "unlocked"
	EventParamsChanged    = "params_changed"
	EventTransferred      = "transferred"
	EventReviewExtended   = "review_extended"
	EventUploadExtended   = "upload_extended"
	EventAnnounced        = "announced"
)

// Event is a notification of a committed state change.
type Event struct {
	Type       string           `json:"type"`
	Height     uint64           `json:"height"`
	TxHash     string           `json:"tx_hash,omitempty"`
	ProposalID *uint64          `json:"proposal_id,omitempty"`
	Account    crypto.AccountID `json:"account"`
	Fields     map[string]any   `json:"fields,omitempty"`
}

// ProposalEvent builds an event scoped to one proposal.
func ProposalEvent(typ string, proposalID uint64, account crypto.AccountID, fields map[string]any) Event {
	id := proposalID
	return Event{Type: typ, ProposalID: &id, Account: account, Fields: fields}
}

// AccountEvent builds an event that concerns an account only.
func AccountEvent(typ string, account crypto.AccountID, fields map[string]any) Event {
	return Event{Type: typ, Account: account, Fields: fields}
}

// HasProposal reports whether the event is scoped to id.
func (e Event) HasProposal(id uint64) bool {
	return e.ProposalID != nil && *e.ProposalID == id
}
