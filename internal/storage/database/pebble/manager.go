package pebble

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/cockroachdb/pebble"
)

type Manager struct {
	dbs       map[string]*DB
	path      string
	cacheSize int64
	mu        sync.Mutex
}

var _ database.Manager = (*Manager)(nil)

// NewManager opens databases as <path>/<name>.db. cacheSize is the block
// cache in bytes; zero keeps pebble's default.
func NewManager(path string, cacheSize int64) *Manager {
	return &Manager{
		dbs:       make(map[string]*DB),
		path:      path,
		cacheSize: cacheSize,
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return db, nil
	}

	opts := &pebble.Options{}
	if m.cacheSize > 0 {
		cache := pebble.NewCache(m.cacheSize)
		defer cache.Unref()
		opts.Cache = cache
	}

	raw, err := pebble.Open(filepath.Join(m.path, name+".db"), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}

	db := NewDB(raw)
	m.dbs[name] = db
	return db, nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return fmt.Errorf("%s: %w", name, database.ErrDBNotOpen)
	}
	delete(m.dbs, name)
	return m.closeOne(db)
}

func (m *Manager) closeOne(db *DB) error {
	raw, err := db.handle()
	if err != nil {
		return nil
	}
	db.detach()
	return raw.Close()
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.dbs {
		if err := m.closeOne(db); err != nil {
			lastErr = fmt.Errorf("failed to close database %s: %w", name, err)
		}
		delete(m.dbs, name)
	}
	return lastErr
}
