// Package leveldb is the goleveldb database backend. NewMemoryManager backs
// it with goleveldb's in-memory storage for tests and standalone runs.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// DB wraps a goleveldb handle.
type DB struct {
	db *leveldb.DB
}

func NewDB(db *leveldb.DB) *DB {
	return &DB{db: db}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return database.ErrKeyNotFound
	case errors.Is(err, leveldb.ErrClosed):
		return database.ErrDBClosed
	default:
		return err
	}
}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	if err != nil {
		return nil, mapErr(err)
	}
	return val, nil
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	return mapErr(l.db.Put(key, value, &opt.WriteOptions{Sync: true}))
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	return mapErr(l.db.Delete(key, &opt.WriteOptions{Sync: true}))
}

func (l *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			batch.Put(op.Key, op.Value)
		case database.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}
	return mapErr(l.db.Write(batch, &opt.WriteOptions{Sync: true}))
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	it := l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &Iterator{iter: it}, nil
}

// Iterator copies keys and values out of goleveldb's reused buffers.
type Iterator struct {
	iter  iterator.Iterator
	key   []byte
	value []byte
}

func (it *Iterator) Next() bool {
	if !it.iter.Next() {
		return false
	}
	it.key = append([]byte(nil), it.iter.Key()...)
	it.value = append([]byte(nil), it.iter.Value()...)
	return true
}

func (it *Iterator) Key() []byte {
	return it.key
}

func (it *Iterator) Value() []byte {
	return it.value
}

func (it *Iterator) Error() error {
	return mapErr(it.iter.Error())
}

func (it *Iterator) Close() error {
	it.iter.Release()
	return nil
}
