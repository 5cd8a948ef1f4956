package keylet

import (
	"testing"

	"github.com/LeJamon/goPredictd/internal/core/ledger/entry"
	"github.com/stretchr/testify/require"
)

func TestKeyletsAreDistinct(t *testing.T) {
	acct := [20]byte{1, 2, 3}

	keys := []Keylet{
		Account(acct),
		Asset(1),
		Balance(1, acct),
		TokenRegistry(),
		Proposal(1),
		Registry(),
		UsedCurrency(1),
		Pool(1),
		AccountInfo(1, acct),
		CreatorFee(1, acct),
		Stake(acct),
		Snapshot(acct, 1),
		Lock(1, acct),
		ReviewVote(1, acct),
		ResultVote(1, acct),
		Tally(1),
		ReportBond(1, acct),
		Slash(1, acct),
		Params(),
		BlockHeader(),
	}

	seen := make(map[[32]byte]entry.Type)
	for _, k := range keys {
		prev, dup := seen[k.Key]
		require.False(t, dup, "%s collides with %s", k.Type, prev)
		seen[k.Key] = k.Type
	}
}

func TestKeyletsAreDeterministic(t *testing.T) {
	acct := [20]byte{9}
	require.Equal(t, Lock(7, acct), Lock(7, acct))
	require.NotEqual(t, Lock(7, acct).Key, Lock(8, acct).Key)
	require.NotEqual(t, Snapshot(acct, 0).Key, Snapshot(acct, 1).Key)
	require.Equal(t, entry.TypeTally, Tally(3).Type)
}
