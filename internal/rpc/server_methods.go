package rpc

import (
	"encoding/json"

	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
)

// ServerInfoMethod handles the server_info RPC method
type ServerInfoMethod struct{}

func (m *ServerInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	c, rpcErr := chain(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	info := map[string]interface{}{}
	rpcErr = viewState(ctx, func(_ sle.LedgerView, height uint64, now int64) *RpcError {
		info["current_height"] = height
		info["current_time"] = now
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}

	if last, ok := c.LastHeader(); ok {
		info["closed_block"] = map[string]interface{}{
			"height":      last.Height,
			"close_time":  last.CloseTime,
			"hash":        last.HashHex(),
			"tx_count":    last.TxCount,
			"event_count": last.EventCount,
		}
	}
	info["events_enabled"] = ctx.Services.Events != nil

	return map[string]interface{}{
		"info": info,
	}, nil
}

// ParamsMethod handles the params RPC method. Rates are rendered as fractions.
type ParamsMethod struct{}

func (m *ParamsMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var response map[string]interface{}
	rpcErr := viewState(ctx, func(view sle.LedgerView, _ uint64, _ int64) *RpcError {
		p, err := sle.ReadParams(view)
		if err != nil {
			return RpcErrorInternal("Failed to read params: " + err.Error())
		}
		admins := make([]string, len(p.Admins))
		for i, a := range p.Admins {
			admins[i] = a.String()
		}
		response = map[string]interface{}{
			"params": map[string]interface{}{
				"min_interval":        p.MinInterval,
				"expiration_timeout":  p.ExpirationTimeout,
				"review_cycle":        p.ReviewCycle,
				"upload_cycle":        p.UploadCycle,
				"publicity_period":    p.PublicityPeriod,
				"min_stake":           p.MinStake,
				"min_review":          p.MinReview,
				"min_report":          p.MinReport,
				"lock_ratio":          p.LockRatio,
				"withdrawal_fee_rate": feeRate(p.WithdrawalFeeRate),
				"max_fee_rate":        feeRate(p.MaxFeeRate),
				"stake_currency":      p.StakeCurrency,
				"admins":              admins,
			},
		}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return response, nil
}
