package leveldb

import (
	"context"
	"testing"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/LeJamon/goPredictd/internal/storage/database/dbtest"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	m := NewMemoryManager()
	defer m.Close()

	db, err := m.OpenDB("state")
	require.NoError(t, err)
	dbtest.Run(t, db)
}

func TestFileBackend(t *testing.T) {
	m := NewManager(t.TempDir(), 0)
	defer m.Close()

	db, err := m.OpenDB("state")
	require.NoError(t, err)
	dbtest.Run(t, db)
}

func TestManager(t *testing.T) {
	m := NewMemoryManager()

	t.Run("CloseUnknown", func(t *testing.T) {
		require.ErrorIs(t, m.CloseDB("nope"), database.ErrDBNotOpen)
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db, err := m.OpenDB("closing")
		require.NoError(t, err)
		require.NoError(t, m.CloseDB("closing"))
		_, err = db.Read(context.Background(), []byte("k"))
		require.ErrorIs(t, err, database.ErrDBClosed)
	})

	require.NoError(t, m.Close())
}
