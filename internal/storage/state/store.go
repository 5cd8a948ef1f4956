// Package state persists ledger entries in a database.DB. It implements
// sle.LedgerView so transaction tables can sit directly on top of it.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/storage/compression"
	"github.com/LeJamon/goPredictd/internal/storage/database"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheEntries bounds the read cache when Options leaves it unset.
const DefaultCacheEntries = 4096

// Options tunes a Store.
type Options struct {
	// Compression names a registered compressor, "none" or "lz4".
	Compression string
	// CacheEntries is the number of decoded entries kept in memory.
	CacheEntries int
}

// cached is one cache slot. A nil data marks a key known to be absent.
type cached struct {
	data []byte
}

// Store is a LedgerView over a database with a read-through lru cache.
type Store struct {
	mu    sync.Mutex
	db    database.DB
	comp  compression.Compressor
	cache *lru.Cache[[32]byte, cached]

	hits, misses uint64
}

var _ sle.LedgerView = (*Store)(nil)

// NewStore wraps db.
func NewStore(db database.DB, opts Options) (*Store, error) {
	if opts.Compression == "" {
		opts.Compression = "none"
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = DefaultCacheEntries
	}
	comp, err := compression.Get(opts.Compression)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[[32]byte, cached](opts.CacheEntries)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, comp: comp, cache: cache}, nil
}

func (s *Store) Read(k keylet.Keylet) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(k.Key)
}

func (s *Store) read(key [32]byte) ([]byte, error) {
	if c, ok := s.cache.Get(key); ok {
		s.hits++
		return c.data, nil
	}
	s.misses++

	raw, err := s.db.Read(context.Background(), key[:])
	if errors.Is(err, database.ErrKeyNotFound) {
		s.cache.Add(key, cached{})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %x: %w", key[:8], err)
	}
	data, err := compression.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %x: %w", key[:8], err)
	}
	s.cache.Add(key, cached{data: data})
	return data, nil
}

func (s *Store) Exists(k keylet.Keylet) (bool, error) {
	data, err := s.Read(k)
	return data != nil, err
}

func (s *Store) Insert(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if cur != nil {
		return fmt.Errorf("%s: %w", k.Type, sle.ErrEntryExists)
	}
	return s.put(k.Key, data)
}

func (s *Store) Update(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if cur == nil {
		return fmt.Errorf("%s: %w", k.Type, sle.ErrEntryNotFound)
	}
	return s.put(k.Key, data)
}

func (s *Store) Erase(k keylet.Keylet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if cur == nil {
		return fmt.Errorf("%s: %w", k.Type, sle.ErrEntryNotFound)
	}
	if err := s.db.Delete(context.Background(), k.Key[:]); err != nil {
		return err
	}
	s.cache.Add(k.Key, cached{})
	return nil
}

func (s *Store) put(key [32]byte, data []byte) error {
	framed, err := compression.Encode(s.comp, data)
	if err != nil {
		return err
	}
	if err := s.db.Write(context.Background(), key[:], framed); err != nil {
		return err
	}
	s.cache.Add(key, cached{data: append([]byte(nil), data...)})
	return nil
}

// Commit writes a block's changes in one batch. The cache is only touched
// once the batch has landed.
func (s *Store) Commit(ctx context.Context, changes []tx.Change) error {
	if len(changes) == 0 {
		return nil
	}
	ops := make([]database.BatchOperation, 0, len(changes))
	for _, c := range changes {
		key := c.Keylet.Key
		switch c.Action {
		case tx.ActionInsert, tx.ActionModify:
			framed, err := compression.Encode(s.comp, c.Data)
			if err != nil {
				return err
			}
			ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: key[:], Value: framed})
		case tx.ActionErase:
			ops = append(ops, database.BatchOperation{Type: database.BatchDelete, Key: key[:]})
		default:
			return fmt.Errorf("commit %x: unexpected action %s", key[:8], c.Action)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	for _, c := range changes {
		if c.Action == tx.ActionErase {
			s.cache.Add(c.Keylet.Key, cached{})
		} else {
			s.cache.Add(c.Keylet.Key, cached{data: c.Data})
		}
	}
	return nil
}

// CacheStats reports read cache hits and misses since the store opened.
func (s *Store) CacheStats() (hits, misses uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses
}
