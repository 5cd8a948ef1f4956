package tx

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
)

// Action represents the type of modification to a state entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

func (a Action) String() string {
	switch a {
	case ActionCache:
		return "cache"
	case ActionInsert:
		return "insert"
	case ActionModify:
		return "modify"
	case ActionErase:
		return "erase"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// TrackedEntry represents a state entry being tracked for changes
type TrackedEntry struct {
	Keylet   keylet.Keylet
	Action   Action
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state (state before deletion for erases)
}

// Change is one committed modification, as handed to persistence.
type Change struct {
	Keylet keylet.Keylet
	Action Action
	Data   []byte
}

// ApplyStateTable wraps a LedgerView and tracks every modification so the
// whole set can be committed to the base at once or dropped. Tables nest:
// a transaction's table commits into the block's table, which is flushed
// to storage when the block closes.
type ApplyStateTable struct {
	base  sle.LedgerView
	items map[[32]byte]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base sle.LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

// Read reads a state entry, tracking it as cached
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return nil, nil
		}
		return entry.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	// Only track entries that exist in the base
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Keylet:   k,
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}

	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if entry, exists := t.items[k.Key]; exists {
		return entry.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action != ActionErase {
			return fmt.Errorf("%s: %w", k.Type, sle.ErrEntryExists)
		}
		// Re-inserting a deleted entry becomes a modify
		entry.Action = ActionModify
		entry.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", k.Type, sle.ErrEntryExists)
	}

	t.items[k.Key] = &TrackedEntry{
		Keylet:  k,
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return fmt.Errorf("%s (deleted): %w", k.Type, sle.ErrEntryNotFound)
		}
		if entry.Action == ActionCache {
			entry.Action = ActionModify
		}
		// For insert, keep it as insert with new data
		entry.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return fmt.Errorf("%s: %w", k.Type, sle.ErrEntryNotFound)
	}

	t.items[k.Key] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return fmt.Errorf("%s (already deleted): %w", k.Type, sle.ErrEntryNotFound)
		}
		if entry.Action == ActionInsert {
			// Inserting then deleting = no change
			delete(t.items, k.Key)
			return nil
		}
		entry.Action = ActionErase
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return fmt.Errorf("%s: %w", k.Type, sle.ErrEntryNotFound)
	}

	t.items[k.Key] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}
	return nil
}

// IsErased returns true if the entry at the given key has been erased.
func (t *ApplyStateTable) IsErased(k keylet.Keylet) bool {
	if entry, exists := t.items[k.Key]; exists {
		return entry.Action == ActionErase
	}
	return false
}

// Changes returns the effective modifications ordered by key. Cached reads
// and modifies that restored the original bytes are left out.
func (t *ApplyStateTable) Changes() []Change {
	out := make([]Change, 0, len(t.items))
	for _, entry := range t.items {
		switch entry.Action {
		case ActionCache:
			continue
		case ActionModify:
			if bytes.Equal(entry.Original, entry.Current) {
				continue
			}
			out = append(out, Change{Keylet: entry.Keylet, Action: ActionModify, Data: entry.Current})
		case ActionInsert:
			out = append(out, Change{Keylet: entry.Keylet, Action: ActionInsert, Data: entry.Current})
		case ActionErase:
			out = append(out, Change{Keylet: entry.Keylet, Action: ActionErase})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Keylet.Key[:], out[j].Keylet.Key[:]) < 0
	})
	return out
}

// Apply commits all changes to the base view and resets the table.
func (t *ApplyStateTable) Apply() error {
	for _, c := range t.Changes() {
		var err error
		switch c.Action {
		case ActionInsert:
			err = t.base.Insert(c.Keylet, c.Data)
		case ActionModify:
			err = t.base.Update(c.Keylet, c.Data)
		case ActionErase:
			err = t.base.Erase(c.Keylet)
		}
		if err != nil {
			return fmt.Errorf("commit %s %s: %w", c.Action, c.Keylet.Type, err)
		}
	}
	t.Discard()
	return nil
}

// Discard drops every tracked change.
func (t *ApplyStateTable) Discard() {
	t.items = make(map[[32]byte]*TrackedEntry)
}

// Len returns the number of tracked entries, cached reads included.
func (t *ApplyStateTable) Len() int {
	return len(t.items)
}
