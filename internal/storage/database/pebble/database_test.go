package pebble

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/LeJamon/goPredictd/internal/storage/database/dbtest"
	"github.com/stretchr/testify/require"
)

func TestPebbleBackend(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, 1<<20)
	defer m.Close()

	db, err := m.OpenDB("state")
	require.NoError(t, err)
	dbtest.Run(t, db)

	_, err = os.Stat(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
}

func TestPebbleManager(t *testing.T) {
	m := NewManager(t.TempDir(), 0)

	first, err := m.OpenDB("shared")
	require.NoError(t, err)
	second, err := m.OpenDB("shared")
	require.NoError(t, err)
	require.Same(t, first, second)

	require.NoError(t, m.CloseDB("shared"))
	_, err = first.Read(context.Background(), []byte("k"))
	require.ErrorIs(t, err, database.ErrDBClosed)

	require.ErrorIs(t, m.CloseDB("shared"), database.ErrDBNotOpen)
	require.NoError(t, m.Close())
}
