package state

import (
	"fmt"

	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/LeJamon/goPredictd/internal/storage/database/leveldb"
	"github.com/LeJamon/goPredictd/internal/storage/database/pebble"
)

// NewManager returns the database manager for a configured backend.
// cacheBytes sizes the backend's own block cache.
func NewManager(backend database.Backend, path string, cacheBytes int64) (database.Manager, error) {
	switch backend {
	case database.BackendPebble, "":
		return pebble.NewManager(path, cacheBytes), nil
	case database.BackendLevelDB:
		return leveldb.NewManager(path, int(cacheBytes)), nil
	case database.BackendMemory:
		return leveldb.NewMemoryManager(), nil
	default:
		return nil, fmt.Errorf("%q: %w", backend, database.ErrUnknownBackend)
	}
}
