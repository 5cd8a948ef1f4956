// Package pebble is the default persistent database backend.
package pebble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/cockroachdb/pebble"
)

type DB struct {
	mu sync.RWMutex
	db *pebble.DB
}

func NewDB(db *pebble.DB) *DB {
	return &DB{db: db}
}

func (p *DB) handle() (*pebble.DB, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return nil, database.ErrDBClosed
	}
	return p.db, nil
}

func (p *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	db, err := p.handle()
	if err != nil {
		return nil, err
	}

	val, closer, err := db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, database.ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	// The slice is only valid until closer.Close
	return append([]byte(nil), val...), nil
}

func (p *DB) Write(ctx context.Context, key, value []byte) error {
	db, err := p.handle()
	if err != nil {
		return err
	}
	return db.Set(key, value, pebble.Sync)
}

func (p *DB) Delete(ctx context.Context, key []byte) error {
	db, err := p.handle()
	if err != nil {
		return err
	}
	return db.Delete(key, pebble.Sync)
}

func (p *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	db, err := p.handle()
	if err != nil {
		return err
	}

	batch := db.NewBatch()
	defer batch.Close()

	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			if err := batch.Set(op.Key, op.Value, nil); err != nil {
				return err
			}
		case database.BatchDelete:
			if err := batch.Delete(op.Key, nil); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}

	return batch.Commit(pebble.Sync)
}

// detach forgets the handle so later calls fail with ErrDBClosed.
func (p *DB) detach() {
	p.mu.Lock()
	p.db = nil
	p.mu.Unlock()
}

type Iterator struct {
	iter    *pebble.Iterator
	started bool
	key     []byte
	value   []byte
}

func (p *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	db, err := p.handle()
	if err != nil {
		return nil, err
	}

	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, err
	}
	return &Iterator{iter: iter}, nil
}

func (it *Iterator) Next() bool {
	if !it.started {
		it.started = true
		it.iter.First()
	} else {
		it.iter.Next()
	}

	if !it.iter.Valid() {
		return false
	}
	it.key = append(it.key[:0], it.iter.Key()...)
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
	return it.iter.Error()
}

func (it *Iterator) Close() error {
	return it.iter.Close()
}
