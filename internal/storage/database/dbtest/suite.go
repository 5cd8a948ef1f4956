// Package dbtest holds the behavior every database backend must share.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/stretchr/testify/require"
)

// Run exercises db through the database.DB interface.
func Run(t *testing.T, db database.DB) {
	ctx := context.Background()

	t.Run("ReadWriteDelete", func(t *testing.T) {
		key := []byte("lifecycle-test")
		require.NoError(t, db.Write(ctx, key, []byte("v1")))

		got, err := db.Read(ctx, key)
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Write(ctx, key, []byte("v2")))
		got, err = db.Read(ctx, key)
		require.NoError(t, err)
		require.Equal(t, []byte("v2"), got)

		require.NoError(t, db.Delete(ctx, key))
		_, err = db.Read(ctx, key)
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := db.Read(ctx, []byte("never-written"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("batch-gone"), []byte("x")))
		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("batch-1"), Value: []byte("one")},
			{Type: database.BatchPut, Key: []byte("batch-2"), Value: []byte("two")},
			{Type: database.BatchDelete, Key: []byte("batch-gone")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		got, err := db.Read(ctx, []byte("batch-2"))
		require.NoError(t, err)
		require.Equal(t, []byte("two"), got)
		_, err = db.Read(ctx, []byte("batch-gone"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("BatchRejectsUnknownOp", func(t *testing.T) {
		err := db.Batch(ctx, []database.BatchOperation{{Type: database.BatchOpType(9), Key: []byte("k")}})
		require.Error(t, err)
	})

	t.Run("IteratorRange", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, db.Write(ctx, []byte(fmt.Sprintf("iter-%d", i)), []byte{byte(i)}))
		}
		it, err := db.Iterator(ctx, []byte("iter-1"), []byte("iter-4"))
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Error())
		require.Equal(t, []string{"iter-1", "iter-2", "iter-3"}, keys)
	})
}
