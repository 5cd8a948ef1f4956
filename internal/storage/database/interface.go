// Package database is the key/value layer under the state store. Backends
// live in subpackages: pebble (default), leveldb, and an in-memory leveldb.
package database

import (
	"context"
)

// DB defines the basic operations any database implementation must support
type DB interface {
	// Basic operations
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch applies every operation atomically
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iterator walks keys in [start, end). A nil bound is open.
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// Iterator allows traversing over database entries
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// Manager opens named databases under one root and closes them together.
type Manager interface {
	OpenDB(name string) (DB, error)
	CloseDB(name string) error
	Close() error
}

// BatchOperation represents a single operation in a batch
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)

func (t BatchOpType) String() string {
	switch t {
	case BatchPut:
		return "put"
	case BatchDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Backend names a database implementation selectable from config.
type Backend string

const (
	BackendPebble  Backend = "pebble"
	BackendLevelDB Backend = "leveldb"
	BackendMemory  Backend = "memory"
)
