package rpc

import (
	"encoding/json"

	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
)

// BalanceMethod handles the balance RPC method
type BalanceMethod struct{}

func (m *BalanceMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		Account  string `json:"account"`
		Currency uint32 `json:"currency"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := parseAccount(request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Currency == 0 {
		return nil, RpcErrorInvalidParams("Missing required parameter: currency")
	}

	var response map[string]interface{}
	rpcErr = viewState(ctx, func(view sle.LedgerView, _ uint64, _ int64) *RpcError {
		ledger := tokens.NewStateLedger(view)
		exists, err := ledger.AssetExists(request.Currency)
		if err != nil {
			return RpcErrorInternal(err.Error())
		}
		if !exists {
			return RpcErrorEntryNotFound("Currency %d not found.", request.Currency)
		}
		free, err := ledger.Balance(request.Currency, account)
		if err != nil {
			return RpcErrorInternal(err.Error())
		}
		reserved, err := ledger.ReservedBalance(request.Currency, account)
		if err != nil {
			return RpcErrorInternal(err.Error())
		}
		response = map[string]interface{}{
			"account":  account.String(),
			"currency": request.Currency,
			"free":     free,
			"reserved": reserved,
		}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return response, nil
}

// StakeMethod handles the stake RPC method
type StakeMethod struct{}

func (m *StakeMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		Account string `json:"account"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := parseAccount(request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var response map[string]interface{}
	rpcErr = viewState(ctx, func(view sle.LedgerView, _ uint64, _ int64) *RpcError {
		st, err := sle.ReadStake(view, account)
		if err != nil {
			return RpcErrorInternal(err.Error())
		}
		response = map[string]interface{}{
			"account": account.String(),
			"staked":  st.Staked,
			"locked":  st.Locked,
			"usable":  st.Usable(),
			"active":  st.Active,
		}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return response, nil
}
