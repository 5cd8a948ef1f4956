package leveldb

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// Manager opens goleveldb databases by name.
type Manager struct {
	mu        sync.Mutex
	dbs       map[string]*leveldb.DB
	path      string
	cacheSize int
	memory    bool
}

var _ database.Manager = (*Manager)(nil)

// NewManager opens databases as directories under path.
func NewManager(path string, cacheSize int) *Manager {
	return &Manager{dbs: make(map[string]*leveldb.DB), path: path, cacheSize: cacheSize}
}

// NewMemoryManager keeps every database in memory. Contents are lost on Close.
func NewMemoryManager() *Manager {
	return &Manager{dbs: make(map[string]*leveldb.DB), memory: true}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.dbs[name]; ok {
		return NewDB(db), nil
	}

	var (
		db  *leveldb.DB
		err error
	)
	if m.memory {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		o := &opt.Options{}
		if m.cacheSize > 0 {
			o.BlockCacheCapacity = m.cacheSize
		}
		db, err = leveldb.OpenFile(filepath.Join(m.path, name+".ldb"), o)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}
	m.dbs[name] = db
	return NewDB(db), nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.dbs[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, database.ErrDBNotOpen)
	}
	delete(m.dbs, name)
	return db.Close()
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close database %s: %w", name, err)
		}
		delete(m.dbs, name)
	}
	return lastErr
}
