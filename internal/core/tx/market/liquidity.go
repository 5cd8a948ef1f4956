package market

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// creatorFeeDivisor gives the proposal owner a tenth of the final fee pot.
const creatorFeeDivisor = 10

// AddLiquidity deposits settlement currency into a formal proposal's pool.
type AddLiquidity struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Amount     uint64 `json:"Amount"`
}

// NewAddLiquidity creates a new AddLiquidity transaction
func NewAddLiquidity(account crypto.AccountID, proposalID uint64, amt uint64) *AddLiquidity {
	return &AddLiquidity{
		BaseTx:     *tx.NewBaseTx(tx.TypeAddLiquidity, account),
		ProposalID: proposalID,
		Amount:     amt,
	}
}

// TxType returns the transaction type
func (a *AddLiquidity) TxType() tx.Type {
	return tx.TypeAddLiquidity
}

// Validate validates the AddLiquidity transaction
func (a *AddLiquidity) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if a.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the AddLiquidity transaction to state.
func (a *AddLiquidity) Apply(ctx *tx.ApplyContext) tx.Result {
	p, pool, r := load(ctx.View, a.ProposalID, sle.StatusFormalPrediction)
	if !r.IsSuccess() {
		return r
	}

	var err error
	if pool.TotalMarket, err = amount.Add(pool.TotalMarket, a.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	for i := range pool.TotalOptional {
		if pool.TotalOptional[i], err = amount.Add(pool.TotalOptional[i], a.Amount); err != nil {
			return tx.ResultFromError(err)
		}
	}
	if pool.TotalLiquidity, err = amount.Add(pool.TotalLiquidity, a.Amount); err != nil {
		return tx.ResultFromError(err)
	}

	if _, err := ctx.Tokens.Donate(p.Currency, ctx.AccountID, tokens.ModuleMarket, a.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	module := tokens.ModuleMarket.Account()
	for _, outcome := range p.Outcomes {
		if _, err := ctx.Tokens.Mint(outcome, module, a.Amount); err != nil {
			return tx.ResultFromError(err)
		}
	}
	if _, err := ctx.Tokens.Mint(p.Liquidity, ctx.AccountID, a.Amount); err != nil {
		return tx.ResultFromError(err)
	}

	infoKey := keylet.AccountInfo(p.ID, ctx.AccountID)
	info, _, err := sle.Find[sle.AccountInfo](ctx.View, infoKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if info == nil {
		info = &sle.AccountInfo{}
	}
	if info.Deposited, err = amount.Add(info.Deposited, a.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.Put(ctx.View, infoKey, info); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.WritePool(ctx.View, pool); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventLiquidityAdded, p.ID, ctx.AccountID, map[string]any{
		"amount": a.Amount,
	}))
	return tx.TesSUCCESS
}

// RemoveLiquidity redeems liquidity tokens of an ended proposal against the
// pool's final balances.
type RemoveLiquidity struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Amount     uint64 `json:"Amount"`
}

// NewRemoveLiquidity creates a new RemoveLiquidity transaction
func NewRemoveLiquidity(account crypto.AccountID, proposalID uint64, lp uint64) *RemoveLiquidity {
	return &RemoveLiquidity{
		BaseTx:     *tx.NewBaseTx(tx.TypeRemoveLiquidity, account),
		ProposalID: proposalID,
		Amount:     lp,
	}
}

// TxType returns the transaction type
func (rl *RemoveLiquidity) TxType() tx.Type {
	return tx.TypeRemoveLiquidity
}

// Validate validates the RemoveLiquidity transaction
func (rl *RemoveLiquidity) Validate() error {
	if err := rl.BaseTx.Validate(); err != nil {
		return err
	}
	if rl.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the RemoveLiquidity transaction to state.
func (rl *RemoveLiquidity) Apply(ctx *tx.ApplyContext) tx.Result {
	p, pool, r := load(ctx.View, rl.ProposalID, sle.StatusEnd)
	if !r.IsSuccess() {
		return r
	}
	if pool.Freeze() {
		if err := sle.WritePool(ctx.View, pool); err != nil {
			return tx.ResultFromError(err)
		}
	}
	if pool.FinallyLiquidity == 0 {
		return tx.TecNO_LIQUIDITY
	}

	lp := rl.Amount
	held, err := ctx.Tokens.Balance(p.Liquidity, ctx.AccountID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if held < lp {
		return tx.TecINSUFFICIENT_FUNDS
	}

	var shares [2]uint64
	for i := range shares {
		if shares[i], err = amount.MulDiv(pool.FinallyOptional[i], lp, pool.FinallyLiquidity); err != nil {
			return tx.ResultFromError(err)
		}
	}
	creator := pool.FinallyFee / creatorFeeDivisor
	feeShare, err := amount.MulDiv(pool.FinallyFee-creator, lp, pool.FinallyLiquidity)
	if err != nil {
		return tx.ResultFromError(err)
	}

	// The owner's creator fee is paid on their first withdrawal only.
	var creatorPaid uint64
	if ctx.AccountID == p.Owner && creator > 0 {
		feeKey := keylet.CreatorFee(p.ID, p.Owner)
		paid, err := ctx.View.Exists(feeKey)
		if err != nil {
			return tx.ResultFromError(err)
		}
		if !paid {
			creatorPaid = creator
			if err := sle.Create(ctx.View, feeKey, &sle.CreatorFee{Amount: creator}); err != nil {
				return tx.ResultFromError(err)
			}
		}
	}

	if _, err := ctx.Tokens.Burn(p.Liquidity, ctx.AccountID, lp); err != nil {
		return tx.ResultFromError(err)
	}

	m := amount.Min(shares[0], shares[1])
	module := tokens.ModuleMarket.Account()
	for _, outcome := range p.Outcomes {
		if _, err := ctx.Tokens.Burn(outcome, module, m); err != nil {
			return tx.ResultFromError(err)
		}
	}

	payout, err := amount.Add(m, feeShare)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if payout, err = amount.Add(payout, creatorPaid); err != nil {
		return tx.ResultFromError(err)
	}
	if _, err := ctx.Tokens.Appropriation(p.Currency, tokens.ModuleMarket, ctx.AccountID, payout); err != nil {
		return tx.ResultFromError(err)
	}

	// The larger side's excess is handed out as outcome tokens.
	var excess uint64
	var excessOutcome uint32
	for i, share := range shares {
		if share > m {
			excess, excessOutcome = share-m, p.Outcomes[i]
		}
	}
	if excess > 0 {
		if _, err := ctx.Tokens.Appropriation(excessOutcome, tokens.ModuleMarket, ctx.AccountID, excess); err != nil {
			return tx.ResultFromError(err)
		}
	}

	for i := range pool.TotalOptional {
		pool.TotalOptional[i] = amount.SubClamp(pool.TotalOptional[i], shares[i])
	}
	pool.TotalLiquidity = amount.SubClamp(pool.TotalLiquidity, lp)
	pool.TotalMarket = amount.SubClamp(pool.TotalMarket, m)
	pool.Fee = amount.SubClamp(pool.Fee, feeShare+creatorPaid)
	if err := sle.WritePool(ctx.View, pool); err != nil {
		return tx.ResultFromError(err)
	}

	infoKey := keylet.AccountInfo(p.ID, ctx.AccountID)
	info, ok, err := sle.Find[sle.AccountInfo](ctx.View, infoKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if ok {
		info.Deposited = amount.SubClamp(info.Deposited, lp)
		if info.Deposited == 0 {
			err = sle.Delete(ctx.View, infoKey)
		} else {
			err = sle.Put(ctx.View, infoKey, info)
		}
		if err != nil {
			return tx.ResultFromError(err)
		}
	}

	ctx.Emit(tx.ProposalEvent(tx.EventLiquidityRemoved, p.ID, ctx.AccountID, map[string]any{
		"liquidity":      lp,
		"settlement":     payout,
		"fee_share":      feeShare,
		"creator_fee":    creatorPaid,
		"excess":         excess,
		"excess_outcome": excessOutcome,
	}))
	return tx.TesSUCCESS
}
