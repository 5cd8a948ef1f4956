package eventdb

import (
	"context"
	"testing"
	"time"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return db
}

func TestPublishAndQuery(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	alice := crypto.ModuleAccount("alice")
	bob := crypto.ModuleAccount("bob")

	require.NoError(t, db.Publish(ctx, 5, []tx.Event{
		tx.ProposalEvent(tx.EventNewProposal, 0, alice, map[string]any{"title": "rain"}),
		tx.AccountEvent(tx.EventStaked, bob, map[string]any{"amount": 1000}),
	}))
	require.NoError(t, db.Publish(ctx, 6, []tx.Event{
		tx.ProposalEvent(tx.EventBought, 0, bob, map[string]any{"output": 45000}),
	}))
	require.NoError(t, db.Publish(ctx, 7, nil))

	t.Run("All", func(t *testing.T) {
		recs, err := db.Query(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		require.Equal(t, tx.EventNewProposal, recs[0].Type)
		require.Equal(t, uint64(5), recs[0].Height)
		require.Equal(t, "rain", recs[0].Fields["title"])
		require.Equal(t, int64(1_700_000_000), recs[0].CreatedAt)
		require.NotEmpty(t, recs[0].ID)
		require.Nil(t, recs[1].ProposalID)
	})

	t.Run("ByProposal", func(t *testing.T) {
		id := uint64(0)
		recs, err := db.Query(ctx, Filter{ProposalID: &id})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		require.True(t, recs[1].HasProposal(0))
		// json numbers come back as float64
		require.Equal(t, float64(45000), recs[1].Fields["output"])
	})

	t.Run("ByAccountAndType", func(t *testing.T) {
		recs, err := db.Query(ctx, Filter{Account: &bob, Type: tx.EventStaked})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		require.Equal(t, bob, recs[0].Account)
	})

	t.Run("FromHeightAndLimit", func(t *testing.T) {
		recs, err := db.Query(ctx, Filter{FromHeight: 6})
		require.NoError(t, err)
		require.Len(t, recs, 1)

		recs, err = db.Query(ctx, Filter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, recs, 1)
	})
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "", nil)
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	require.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))
	lite := &DB{driver: DriverSQLite}
	require.Equal(t, "a = ?", lite.rebind("a = ?"))
}
