package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/tx"
)

// SubmitMethod handles the submit RPC method. The transaction is applied to
// the open block; the engine result is returned whether or not it applied.
type SubmitMethod struct{}

func (m *SubmitMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		TxJSON json.RawMessage `json:"tx_json"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if len(request.TxJSON) == 0 {
		return nil, RpcErrorInvalidParams("Missing required parameter: tx_json")
	}

	c, rpcErr := chain(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	transaction, err := tx.FromJSON(request.TxJSON)
	if err != nil {
		if errors.Is(err, tx.ErrUnknownTransactionType) {
			return nil, RpcErrorTxMalformed("Unknown transaction type: " + err.Error())
		}
		return nil, RpcErrorInvalidParams("Invalid tx_json: " + err.Error())
	}

	res, err := c.Submit(transaction)
	if err != nil {
		return nil, RpcErrorInternal("Failed to submit transaction: " + err.Error())
	}

	events := res.Events
	if events == nil {
		events = []tx.Event{}
	}
	return map[string]interface{}{
		"engine_result":         res.Result.String(),
		"engine_result_message": res.Result.Message(),
		"applied":               res.Applied,
		"hash":                  hex.EncodeToString(res.Hash[:]),
		"events":                events,
	}, nil
}
