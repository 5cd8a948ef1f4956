package oracle

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// Report disputes an announced result by bonding stake currency. Once the
// bonds reach min_report the report succeeds and slashing may begin.
type Report struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
	Amount     uint64 `json:"Amount"`
}

// NewReport creates a new Report transaction
func NewReport(account crypto.AccountID, proposalID, amt uint64) *Report {
	return &Report{BaseTx: *tx.NewBaseTx(tx.TypeReport, account), ProposalID: proposalID, Amount: amt}
}

// TxType returns the transaction type
func (r *Report) TxType() tx.Type {
	return tx.TypeReport
}

// Validate validates the Report transaction
func (r *Report) Validate() error {
	if err := r.BaseTx.Validate(); err != nil {
		return err
	}
	if r.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the Report transaction to state.
func (r *Report) Apply(ctx *tx.ApplyContext) tx.Result {
	if _, res := proposalIn(ctx.View, r.ProposalID, sle.StatusResultAnnouncement); !res.IsSuccess() {
		return res
	}
	bondKey := keylet.ReportBond(r.ProposalID, ctx.AccountID)
	bonded, err := ctx.View.Exists(bondKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if bonded {
		return tx.TecDUPLICATE
	}

	t, err := sle.ReadTally(ctx.View, r.ProposalID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if err := addWeight(&t.ReportTotal, r.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	if _, err := ctx.Tokens.Reserve(ctx.Params.StakeCurrency, ctx.AccountID, r.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	if t.ReportTotal >= ctx.Params.MinReport {
		t.SetTo(sle.FlagReportSucceeded, true)
	}

	if err := sle.Create(ctx.View, bondKey, &sle.ReportBond{Amount: r.Amount}); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeTally(ctx.View, r.ProposalID, t); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventReported, r.ProposalID, ctx.AccountID, map[string]any{
		"amount":    r.Amount,
		"total":     t.ReportTotal,
		"succeeded": t.Has(sle.FlagReportSucceeded),
	}))
	return tx.TesSUCCESS
}

// Slash takes lock_ratio percent of a node's upload weight once a report
// has succeeded. Only nodes that uploaded the recorded result are slashed.
type Slash struct {
	tx.BaseTx

	ProposalID uint64           `json:"ProposalID"`
	Target     crypto.AccountID `json:"Target"`
}

// NewSlash creates a new Slash transaction
func NewSlash(account crypto.AccountID, proposalID uint64, target crypto.AccountID) *Slash {
	return &Slash{BaseTx: *tx.NewBaseTx(tx.TypeSlash, account), ProposalID: proposalID, Target: target}
}

// TxType returns the transaction type
func (s *Slash) TxType() tx.Type {
	return tx.TypeSlash
}

// Validate validates the Slash transaction
func (s *Slash) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Target.IsZero() {
		return errors.New("temMALFORMED: Target is required")
	}
	return nil
}

// Apply applies the Slash transaction to state.
func (s *Slash) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}
	p, res := proposalIn(ctx.View, s.ProposalID, sle.StatusEnd)
	if !res.IsSuccess() {
		return res
	}
	t, err := sle.ReadTally(ctx.View, s.ProposalID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if !t.Has(sle.FlagReportSucceeded) {
		return tx.TecREPORT_NOT_SUCCEEDED
	}
	if t.Has(sle.FlagSlashFinished) {
		return tx.TecSLASH_FINISHED
	}
	slashKey := keylet.Slash(s.ProposalID, s.Target)
	slashed, err := ctx.View.Exists(slashKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if slashed {
		return tx.TecDUPLICATE
	}
	vote, err := sle.Get[sle.ResultVote](ctx.View, keylet.ResultVote(s.ProposalID, s.Target))
	if err != nil {
		return tx.ResultFromError(err)
	}
	if vote.Currency != p.Result {
		return tx.TecNO_TARGET
	}

	due, err := amount.Percent(vote.Weight, ctx.Params.LockRatio)
	if err != nil {
		return tx.ResultFromError(err)
	}
	cur := ctx.Params.StakeCurrency
	taken, err := ctx.Tokens.Unreserve(cur, s.Target, due)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if _, err := ctx.Tokens.Donate(cur, s.Target, tokens.ModuleOracle, taken); err != nil {
		return tx.ResultFromError(err)
	}

	// The slashed stake replaces the lock.
	lockKey := keylet.Lock(s.ProposalID, s.Target)
	lock, ok, err := sle.Find[sle.Lock](ctx.View, lockKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	st, err := sle.ReadStake(ctx.View, s.Target)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if ok {
		st.Locked = amount.SubClamp(st.Locked, lock.Amount)
		if err := sle.Delete(ctx.View, lockKey); err != nil {
			return tx.ResultFromError(err)
		}
	}
	if err := rebalance(ctx, s.Target, st, amount.SubClamp(st.Staked, taken)); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeStake(ctx.View, s.Target, st); err != nil {
		return tx.ResultFromError(err)
	}

	if err := addWeight(&t.SlashTotal, taken); err != nil {
		return tx.ResultFromError(err)
	}
	if err := addWeight(&t.ReportPool, taken); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.Create(ctx.View, slashKey, &sle.Slash{Amount: taken}); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeTally(ctx.View, s.ProposalID, t); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventSlashed, s.ProposalID, ctx.AccountID, map[string]any{
		"target":      s.Target.String(),
		"amount":      taken,
		"slash_total": t.SlashTotal,
	}))
	return tx.TesSUCCESS
}

// SlashFinish closes a dispute on an ended proposal. The slashed total must
// match lock_ratio percent of the weight behind the recorded result; the
// result is then flipped to the other outcome.
type SlashFinish struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
}

// NewSlashFinish creates a new SlashFinish transaction
func NewSlashFinish(account crypto.AccountID, proposalID uint64) *SlashFinish {
	return &SlashFinish{BaseTx: *tx.NewBaseTx(tx.TypeSlashFinish, account), ProposalID: proposalID}
}

// TxType returns the transaction type
func (s *SlashFinish) TxType() tx.Type {
	return tx.TypeSlashFinish
}

// Apply applies the SlashFinish transaction to state.
func (s *SlashFinish) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}
	// Slashing only happens in End, so finishing does too.
	p, res := proposalIn(ctx.View, s.ProposalID, sle.StatusEnd)
	if !res.IsSuccess() {
		return res
	}
	t, err := sle.ReadTally(ctx.View, s.ProposalID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if !t.Has(sle.FlagReportSucceeded) {
		return tx.TecREPORT_NOT_SUCCEEDED
	}
	if t.Has(sle.FlagSlashFinished) {
		return tx.TecSLASH_FINISHED
	}
	idx, ok := p.OutcomeIndex(p.Result)
	if !ok {
		return tx.TecNO_RESULT
	}
	expected, err := amount.Percent(t.Results[idx], ctx.Params.LockRatio)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if t.SlashTotal != expected {
		return tx.TecSLASH_MISMATCH
	}

	previous := p.Result
	p.Result = p.Outcomes[1-idx]
	t.SetTo(sle.FlagSlashFinished, true)
	if err := writeTally(ctx.View, s.ProposalID, t); err != nil {
		return tx.ResultFromError(err)
	}
	if err := sle.WriteProposal(ctx.View, p); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventSlashFinished, s.ProposalID, ctx.AccountID, map[string]any{
		"previous": previous,
		"result":   p.Result,
		"slashed":  t.SlashTotal,
	}))
	return tx.TesSUCCESS
}

// TakeOut returns a reporter's bond after the proposal ends, plus a pro-rata
// share of the slashed stake when the dispute was upheld. While an upheld
// dispute is still being slashed the bond is released on its own and the
// record is kept, so the share can be claimed by a second TakeOut once
// slashing has finished.
type TakeOut struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
}

// NewTakeOut creates a new TakeOut transaction
func NewTakeOut(account crypto.AccountID, proposalID uint64) *TakeOut {
	return &TakeOut{BaseTx: *tx.NewBaseTx(tx.TypeTakeOut, account), ProposalID: proposalID}
}

// TxType returns the transaction type
func (o *TakeOut) TxType() tx.Type {
	return tx.TypeTakeOut
}

// Apply applies the TakeOut transaction to state.
func (o *TakeOut) Apply(ctx *tx.ApplyContext) tx.Result {
	if _, res := proposalIn(ctx.View, o.ProposalID, sle.StatusEnd); !res.IsSuccess() {
		return res
	}
	bondKey := keylet.ReportBond(o.ProposalID, ctx.AccountID)
	bond, err := sle.Get[sle.ReportBond](ctx.View, bondKey)
	if err != nil {
		return tx.ResultFromError(err)
	}
	t, err := sle.ReadTally(ctx.View, o.ProposalID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	pending := t.Has(sle.FlagReportSucceeded) && !t.Has(sle.FlagSlashFinished)
	if pending && bond.Released {
		return tx.TecSLASH_NOT_FINISHED
	}

	cur := ctx.Params.StakeCurrency
	var released uint64
	if !bond.Released {
		if released, err = ctx.Tokens.Unreserve(cur, ctx.AccountID, bond.Amount); err != nil {
			return tx.ResultFromError(err)
		}
	}

	var reward uint64
	if pending {
		bond.Released = true
		if err := sle.Put(ctx.View, bondKey, bond); err != nil {
			return tx.ResultFromError(err)
		}
	} else {
		if t.Has(sle.FlagReportSucceeded) {
			share, err := amount.MulDiv(t.ReportPool, bond.Amount, t.ReportTotal)
			if err != nil {
				return tx.ResultFromError(err)
			}
			if share > 0 {
				if reward, err = ctx.Tokens.Appropriation(cur, tokens.ModuleOracle, ctx.AccountID, share); err != nil {
					return tx.ResultFromError(err)
				}
			}
		}
		if err := sle.Delete(ctx.View, bondKey); err != nil {
			return tx.ResultFromError(err)
		}
	}

	ctx.Emit(tx.ProposalEvent(tx.EventTakenOut, o.ProposalID, ctx.AccountID, map[string]any{
		"bond":    released,
		"reward":  reward,
		"pending": pending,
	}))
	return tx.TesSUCCESS
}

// Unlock releases the stake a node locked when uploading, once the
// proposal has ended and the node is not owed a slash.
type Unlock struct {
	tx.BaseTx

	ProposalID uint64 `json:"ProposalID"`
}

// NewUnlock creates a new Unlock transaction
func NewUnlock(account crypto.AccountID, proposalID uint64) *Unlock {
	return &Unlock{BaseTx: *tx.NewBaseTx(tx.TypeUnlock, account), ProposalID: proposalID}
}

// TxType returns the transaction type
func (u *Unlock) TxType() tx.Type {
	return tx.TypeUnlock
}

// Apply applies the Unlock transaction to state.
func (u *Unlock) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := proposalIn(ctx.View, u.ProposalID, sle.StatusEnd)
	if !res.IsSuccess() {
		return res
	}
	slashed, err := ctx.View.Exists(keylet.Slash(u.ProposalID, ctx.AccountID))
	if err != nil {
		return tx.ResultFromError(err)
	}
	if slashed {
		return tx.TecSLASHED
	}
	lockKey := keylet.Lock(u.ProposalID, ctx.AccountID)
	lock, err := sle.Get[sle.Lock](ctx.View, lockKey)
	if err != nil {
		return tx.ResultFromError(err)
	}

	t, err := sle.ReadTally(ctx.View, u.ProposalID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	if t.Has(sle.FlagReportSucceeded) && !t.Has(sle.FlagSlashFinished) {
		vote, err := sle.Get[sle.ResultVote](ctx.View, keylet.ResultVote(u.ProposalID, ctx.AccountID))
		if err != nil {
			return tx.ResultFromError(err)
		}
		// Still slashable.
		if vote.Currency == p.Result {
			return tx.TecSLASHED
		}
	}

	st, err := sle.ReadStake(ctx.View, ctx.AccountID)
	if err != nil {
		return tx.ResultFromError(err)
	}
	st.Locked = amount.SubClamp(st.Locked, lock.Amount)
	if err := sle.Delete(ctx.View, lockKey); err != nil {
		return tx.ResultFromError(err)
	}
	if err := writeStake(ctx.View, ctx.AccountID, st); err != nil {
		return tx.ResultFromError(err)
	}

	ctx.Emit(tx.ProposalEvent(tx.EventUnlocked, u.ProposalID, ctx.AccountID, map[string]any{
		"amount": lock.Amount,
		"locked": st.Locked,
	}))
	return tx.TesSUCCESS
}
