package rpc

import (
	"encoding/json"

	"github.com/LeJamon/goPredictd/internal/core/tx/market"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
)

type proposalParam struct {
	ProposalID *uint64 `json:"proposal_id"`
}

func (p proposalParam) id() (uint64, *RpcError) {
	if p.ProposalID == nil {
		return 0, RpcErrorInvalidParams("Missing required parameter: proposal_id")
	}
	return *p.ProposalID, nil
}

// ProposalMethod handles the proposal RPC method
type ProposalMethod struct{}

func (m *ProposalMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request proposalParam
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	id, rpcErr := request.id()
	if rpcErr != nil {
		return nil, rpcErr
	}

	var response map[string]interface{}
	rpcErr = viewState(ctx, func(view sle.LedgerView, _ uint64, _ int64) *RpcError {
		p, err := sle.ReadProposal(view, id)
		if err != nil {
			return stateError(err, "Proposal", id)
		}
		pool, err := sle.ReadPool(view, id)
		if err != nil {
			return stateError(err, "Pool", id)
		}
		tally, err := sle.ReadTally(view, id)
		if err != nil {
			return RpcErrorInternal(err.Error())
		}
		response = map[string]interface{}{
			"proposal": p,
			"pool":     poolJSON(pool),
			"tally":    tally,
			"fee_rate": feeRate(p.FeeRate),
		}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return response, nil
}

// PoolMethod handles the pool RPC method
type PoolMethod struct{}

func (m *PoolMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request proposalParam
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	id, rpcErr := request.id()
	if rpcErr != nil {
		return nil, rpcErr
	}

	var response map[string]interface{}
	rpcErr = viewState(ctx, func(view sle.LedgerView, _ uint64, _ int64) *RpcError {
		pool, err := sle.ReadPool(view, id)
		if err != nil {
			return stateError(err, "Pool", id)
		}
		response = map[string]interface{}{"pool": poolJSON(pool)}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return response, nil
}

func poolJSON(p *sle.Pool) map[string]interface{} {
	out := map[string]interface{}{
		"proposal_id":     p.ProposalID,
		"total_market":    p.TotalMarket,
		"total_optional":  p.TotalOptional,
		"total_liquidity": p.TotalLiquidity,
		"fee":             p.Fee,
		"reward":          p.Reward,
		"frozen":          p.Frozen,
		"prices":          prices(p.TotalOptional),
	}
	if p.Frozen {
		out["final"] = map[string]interface{}{
			"market":    p.FinallyMarket,
			"optional":  p.FinallyOptional,
			"liquidity": p.FinallyLiquidity,
			"fee":       p.FinallyFee,
			"prices":    prices(p.FinallyOptional),
		}
	}
	return out
}

// QuoteBuyMethod prices a buy against the current pool without applying it
type QuoteBuyMethod struct{}

func (m *QuoteBuyMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		proposalParam
		Outcome uint32 `json:"outcome"`
		Amount  uint64 `json:"amount"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	id, rpcErr := request.id()
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Outcome == 0 {
		return nil, RpcErrorInvalidParams("Missing required parameter: outcome")
	}
	if request.Amount == 0 {
		return nil, RpcErrorInvalidParams("Missing required parameter: amount")
	}

	var response map[string]interface{}
	rpcErr = viewState(ctx, func(view sle.LedgerView, _ uint64, _ int64) *RpcError {
		if _, err := sle.ReadProposal(view, id); err != nil {
			return stateError(err, "Proposal", id)
		}
		q, err := market.QuoteBuy(view, id, request.Outcome, request.Amount)
		if err != nil {
			return RpcErrorInvalidParams(err.Error())
		}
		response = map[string]interface{}{
			"quote":  q,
			"prices": prices(q.Optional),
		}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return response, nil
}
