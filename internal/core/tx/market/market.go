// Package market implements the per-proposal constant-product pool: seeding,
// liquidity, trading both outcomes and redemption after the proposal ends.
//
// Settlement currency and pool-held outcome tokens sit on the market module
// account. For every live pool, the module's balance of outcome i equals the
// pool's TotalOptional[i].
package market

import (
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

func init() {
	tx.RegisterErrorResult(ErrNoRealSolution, tx.TecNO_REAL_SOLUTION)

	tx.Register(tx.TypeAddLiquidity, func() tx.Transaction {
		return &AddLiquidity{BaseTx: *tx.NewBaseTx(tx.TypeAddLiquidity, crypto.AccountID{})}
	})
	tx.Register(tx.TypeRemoveLiquidity, func() tx.Transaction {
		return &RemoveLiquidity{BaseTx: *tx.NewBaseTx(tx.TypeRemoveLiquidity, crypto.AccountID{})}
	})
	tx.Register(tx.TypeBuy, func() tx.Transaction {
		return &Buy{BaseTx: *tx.NewBaseTx(tx.TypeBuy, crypto.AccountID{})}
	})
	tx.Register(tx.TypeSell, func() tx.Transaction {
		return &Sell{BaseTx: *tx.NewBaseTx(tx.TypeSell, crypto.AccountID{})}
	})
	tx.Register(tx.TypeRetrieval, func() tx.Transaction {
		return &Retrieval{BaseTx: *tx.NewBaseTx(tx.TypeRetrieval, crypto.AccountID{})}
	})
	tx.Register(tx.TypeSetResult, func() tx.Transaction {
		return &SetResult{BaseTx: *tx.NewBaseTx(tx.TypeSetResult, crypto.AccountID{})}
	})
	tx.Register(tx.TypeSetResultWhenEnd, func() tx.Transaction {
		return &SetResultWhenEnd{BaseTx: *tx.NewBaseTx(tx.TypeSetResultWhenEnd, crypto.AccountID{})}
	})
}

// load reads a proposal and its pool, requiring the proposal to be in status want.
func load(view sle.LedgerView, id uint64, want sle.Status) (*sle.Proposal, *sle.Pool, tx.Result) {
	p, err := sle.ReadProposal(view, id)
	if err != nil {
		return nil, nil, tx.ResultFromError(err)
	}
	if p.Status != want {
		return nil, nil, tx.TecPROPOSAL_STATUS
	}
	pool, err := sle.ReadPool(view, id)
	if err != nil {
		return nil, nil, tx.ResultFromError(err)
	}
	return p, pool, tx.TesSUCCESS
}

// Seed opens the pool of a new proposal with seed units of settlement
// currency from the owner: the owner gets seed liquidity tokens and the
// module holds seed of each outcome.
func Seed(ctx *tx.ApplyContext, p *sle.Proposal, seed uint64) error {
	if _, err := ctx.Tokens.Donate(p.Currency, p.Owner, tokens.ModuleMarket, seed); err != nil {
		return fmt.Errorf("seed donate: %w", err)
	}
	module := tokens.ModuleMarket.Account()
	for _, outcome := range p.Outcomes {
		if _, err := ctx.Tokens.Mint(outcome, module, seed); err != nil {
			return fmt.Errorf("seed mint outcome %d: %w", outcome, err)
		}
	}
	if _, err := ctx.Tokens.Mint(p.Liquidity, p.Owner, seed); err != nil {
		return fmt.Errorf("seed mint liquidity: %w", err)
	}

	pool := &sle.Pool{
		ProposalID:     p.ID,
		TotalMarket:    seed,
		TotalOptional:  [2]uint64{seed, seed},
		TotalLiquidity: seed,
	}
	if err := sle.Create(ctx.View, keylet.Pool(p.ID), pool); err != nil {
		return err
	}
	return sle.Put(ctx.View, keylet.AccountInfo(p.ID, p.Owner), &sle.AccountInfo{Deposited: seed})
}

// FreezeFinal snapshots the pool's final balances. Calling it again is a no-op.
func FreezeFinal(view sle.LedgerView, proposalID uint64) error {
	pool, err := sle.ReadPool(view, proposalID)
	if err != nil {
		return err
	}
	if !pool.Freeze() {
		return nil
	}
	return sle.WritePool(view, pool)
}

// Transition moves a proposal to status to and emits status_changed.
// Entering End freezes the pool first.
func Transition(ctx *tx.ApplyContext, p *sle.Proposal, to sle.Status) error {
	if to == sle.StatusEnd {
		if err := FreezeFinal(ctx.View, p.ID); err != nil {
			return fmt.Errorf("freeze pool %d: %w", p.ID, err)
		}
	}
	from := p.Status
	p.Status = to
	if err := sle.WriteProposal(ctx.View, p); err != nil {
		return err
	}
	ctx.Emit(tx.ProposalEvent(tx.EventStatusChanged, p.ID, ctx.AccountID, map[string]any{
		"from": from.String(),
		"to":   to.String(),
	}))
	return nil
}

// Announce records the winning outcome, freezes the pool and moves the
// proposal to ResultAnnouncement.
func Announce(ctx *tx.ApplyContext, p *sle.Proposal, result uint32) error {
	if _, ok := p.OutcomeIndex(result); !ok {
		return fmt.Errorf("announce %d on proposal %d: not an outcome", result, p.ID)
	}
	p.Result = result
	if err := FreezeFinal(ctx.View, p.ID); err != nil {
		return err
	}
	if err := Transition(ctx, p, sle.StatusResultAnnouncement); err != nil {
		return err
	}
	ctx.Emit(tx.ProposalEvent(tx.EventAnnounced, p.ID, ctx.AccountID, map[string]any{
		"result": result,
	}))
	return nil
}

// Lifecycle exposes Transition and Announce to the proposal sweep.
type Lifecycle struct{}

func (Lifecycle) Transition(ctx *tx.ApplyContext, p *sle.Proposal, to sle.Status) error {
	return Transition(ctx, p, to)
}

func (Lifecycle) Announce(ctx *tx.ApplyContext, p *sle.Proposal, result uint32) error {
	return Announce(ctx, p, result)
}

// QuoteBuy prices a buy without writing anything.
func QuoteBuy(view sle.LedgerView, proposalID uint64, outcome uint32, amt uint64) (BuyQuote, error) {
	p, err := sle.ReadProposal(view, proposalID)
	if err != nil {
		return BuyQuote{}, err
	}
	idx, ok := p.OutcomeIndex(outcome)
	if !ok {
		return BuyQuote{}, fmt.Errorf("currency %d is not an outcome of proposal %d", outcome, proposalID)
	}
	pool, err := sle.ReadPool(view, proposalID)
	if err != nil {
		return BuyQuote{}, err
	}
	return quoteBuy(pool.TotalOptional, idx, amt, p.FeeRate)
}

// QuoteSell prices a sell without writing anything.
func QuoteSell(view sle.LedgerView, proposalID uint64, outcome uint32, amt uint64) (SellQuote, error) {
	p, err := sle.ReadProposal(view, proposalID)
	if err != nil {
		return SellQuote{}, err
	}
	idx, ok := p.OutcomeIndex(outcome)
	if !ok {
		return SellQuote{}, fmt.Errorf("currency %d is not an outcome of proposal %d", outcome, proposalID)
	}
	pool, err := sle.ReadPool(view, proposalID)
	if err != nil {
		return SellQuote{}, err
	}
	return quoteSell(pool.TotalOptional, idx, amt, p.FeeRate)
}
