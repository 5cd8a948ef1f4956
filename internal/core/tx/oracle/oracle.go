// Package oracle implements the staking, voting and dispute side of the
// market: nodes stake to gain vote weight, review new proposals, upload
// results, and reporters can dispute an announced result.
package oracle

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// ErrDuplicateSequence is returned when a stake snapshot sequence is reused.
var ErrDuplicateSequence = errors.New("duplicate snapshot sequence")

func init() {
	tx.RegisterErrorResult(ErrDuplicateSequence, tx.TecDUPLICATE_SEQUENCE)

	tx.Register(tx.TypeStake, func() tx.Transaction {
		return &Stake{BaseTx: *tx.NewBaseTx(tx.TypeStake, crypto.AccountID{})}
	})
	tx.Register(tx.TypeUnstake, func() tx.Transaction {
		return &Unstake{BaseTx: *tx.NewBaseTx(tx.TypeUnstake, crypto.AccountID{})}
	})
	tx.Register(tx.TypeReview, func() tx.Transaction {
		return &Review{BaseTx: *tx.NewBaseTx(tx.TypeReview, crypto.AccountID{})}
	})
	tx.Register(tx.TypeUploadResult, func() tx.Transaction {
		return &UploadResult{BaseTx: *tx.NewBaseTx(tx.TypeUploadResult, crypto.AccountID{})}
	})
	tx.Register(tx.TypeReport, func() tx.Transaction {
		return &Report{BaseTx: *tx.NewBaseTx(tx.TypeReport, crypto.AccountID{})}
	})
	tx.Register(tx.TypeSlash, func() tx.Transaction {
		return &Slash{BaseTx: *tx.NewBaseTx(tx.TypeSlash, crypto.AccountID{})}
	})
	tx.Register(tx.TypeSlashFinish, func() tx.Transaction {
		return &SlashFinish{BaseTx: *tx.NewBaseTx(tx.TypeSlashFinish, crypto.AccountID{})}
	})
	tx.Register(tx.TypeTakeOut, func() tx.Transaction {
		return &TakeOut{BaseTx: *tx.NewBaseTx(tx.TypeTakeOut, crypto.AccountID{})}
	})
	tx.Register(tx.TypeUnlock, func() tx.Transaction {
		return &Unlock{BaseTx: *tx.NewBaseTx(tx.TypeUnlock, crypto.AccountID{})}
	})
}

// Snapshots returns an account's stake history, oldest first.
func Snapshots(view sle.LedgerView, id crypto.AccountID) ([]sle.Snapshot, error) {
	st, err := sle.ReadStake(view, id)
	if err != nil {
		return nil, err
	}
	out := make([]sle.Snapshot, 0, st.NextSequence)
	for seq := uint64(0); seq < st.NextSequence; seq++ {
		snap, err := sle.Get[sle.Snapshot](view, keylet.Snapshot(id, seq))
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, nil
}

// rebalance appends a snapshot with the new staked balance and refreshes
// the active flag. The caller writes st.
func rebalance(ctx *tx.ApplyContext, who crypto.AccountID, st *sle.StakeAccount, balance uint64) error {
	seq := st.NextSequence
	snap := &sle.Snapshot{Height: ctx.Height, Balance: balance}
	if err := sle.Create(ctx.View, keylet.Snapshot(who, seq), snap); err != nil {
		if errors.Is(err, sle.ErrEntryExists) {
			return fmt.Errorf("snapshot %d of %s: %w", seq, who, ErrDuplicateSequence)
		}
		return err
	}
	st.NextSequence++
	st.Staked = balance
	st.Active = balance > 0 && balance >= ctx.Params.MinStake
	return nil
}

func writeStake(view sle.LedgerView, who crypto.AccountID, st *sle.StakeAccount) error {
	return sle.Put(view, keylet.Stake(who), st)
}

func writeTally(view sle.LedgerView, proposalID uint64, t *sle.Tally) error {
	return sle.Put(view, keylet.Tally(proposalID), t)
}

// proposalIn loads a proposal that must be in status want.
func proposalIn(view sle.LedgerView, id uint64, want sle.Status) (*sle.Proposal, tx.Result) {
	p, err := sle.ReadProposal(view, id)
	if err != nil {
		return nil, tx.ResultFromError(err)
	}
	if p.Status != want {
		return nil, tx.TecPROPOSAL_STATUS
	}
	return p, tx.TesSUCCESS
}

// activeNode loads the stake of who, which must be an active node.
func activeNode(view sle.LedgerView, who crypto.AccountID) (*sle.StakeAccount, tx.Result) {
	st, err := sle.ReadStake(view, who)
	if err != nil {
		return nil, tx.ResultFromError(err)
	}
	if !st.Active {
		return nil, tx.TecNOT_ORACLE_NODE
	}
	return st, tx.TesSUCCESS
}

// addWeight adds w to *total with overflow checking.
func addWeight(total *uint64, w uint64) error {
	sum, err := amount.Add(*total, w)
	if err != nil {
		return err
	}
	*total = sum
	return nil
}
