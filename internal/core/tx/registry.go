package tx

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Factory returns a zero transaction of one type.
type Factory func() Transaction

var (
	registryMu sync.RWMutex
	factories  = make(map[Type]Factory)
)

// Register makes a transaction type available to FromJSON. Feature packages
// call it from init.
func Register(t Type, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := factories[t]; dup {
		panic(fmt.Sprintf("tx: type %s registered twice", t))
	}
	factories[t] = f
}

// NewFromType creates a new transaction of the given type
func NewFromType(txType Type) (Transaction, error) {
	registryMu.RLock()
	f, ok := factories[txType]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", txType, ErrUnknownTransactionType)
	}
	return f(), nil
}

// RegisteredTypes lists every registered type.
func RegisteredTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Type, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	return out
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%q: %w", raw.TransactionType, ErrUnknownTransactionType)
	}

	tx, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
