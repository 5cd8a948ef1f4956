package rpc

import (
	"encoding/json"

	"github.com/LeJamon/goPredictd/internal/storage/eventdb"
)

// EventsMethod queries the event index
type EventsMethod struct{}

func (m *EventsMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	if ctx.Services == nil || ctx.Services.Events == nil {
		return nil, RpcErrorNotEnabled("Event index is not configured.")
	}

	var request struct {
		ProposalID *uint64 `json:"proposal_id,omitempty"`
		Account    string  `json:"account,omitempty"`
		Type       string  `json:"type,omitempty"`
		FromHeight uint64  `json:"from_height,omitempty"`
		Limit      int     `json:"limit,omitempty"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Limit < 0 {
		return nil, RpcErrorInvalidParams("Invalid parameter: limit")
	}

	filter := eventdb.Filter{
		ProposalID: request.ProposalID,
		Type:       request.Type,
		FromHeight: request.FromHeight,
		Limit:      request.Limit,
	}
	if request.Account != "" {
		account, rpcErr := parseAccount(request.Account)
		if rpcErr != nil {
			return nil, rpcErr
		}
		filter.Account = &account
	}

	records, err := ctx.Services.Events.Query(ctx.Context, filter)
	if err != nil {
		return nil, RpcErrorInternal("Failed to query events: " + err.Error())
	}
	if records == nil {
		records = []eventdb.Record{}
	}
	return map[string]interface{}{
		"events": records,
		"count":  len(records),
	}, nil
}
