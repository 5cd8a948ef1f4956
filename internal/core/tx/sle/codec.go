package sle

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/ugorji/go/codec"
)

var (
	// ErrEntryNotFound is returned by Get when the keylet has no entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrEntryExists is returned when inserting over a live entry.
	ErrEntryExists = errors.New("entry already exists")
)

// Entries are stored as canonical msgpack so equal records always serialize
// to equal bytes.
var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.Canonical = true
	h.WriteExt = true
	return h
}()

// Serialize encodes a state record.
func Serialize(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(v); err != nil {
		return nil, fmt.Errorf("serialize %T: %w", v, err)
	}
	return out, nil
}

// Parse decodes a state record produced by Serialize.
func Parse(data []byte, v any) error {
	if err := codec.NewDecoderBytes(data, msgpackHandle).Decode(v); err != nil {
		return fmt.Errorf("parse %T: %w", v, err)
	}
	return nil
}

// Find reads and decodes the entry at k. The boolean is false when absent.
func Find[T any](view LedgerView, k keylet.Keylet) (*T, bool, error) {
	data, err := view.Read(k)
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}
	v := new(T)
	if err := Parse(data, v); err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Get is Find with absence reported as ErrEntryNotFound.
func Get[T any](view LedgerView, k keylet.Keylet) (*T, error) {
	v, ok, err := Find[T](view, k)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", k.Type, ErrEntryNotFound)
	}
	return v, nil
}

// Put inserts or updates the entry at k.
func Put(view LedgerView, k keylet.Keylet, v any) error {
	data, err := Serialize(v)
	if err != nil {
		return err
	}
	exists, err := view.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return view.Update(k, data)
	}
	return view.Insert(k, data)
}

// Create inserts the entry at k and fails if one is already there.
func Create(view LedgerView, k keylet.Keylet, v any) error {
	data, err := Serialize(v)
	if err != nil {
		return err
	}
	return view.Insert(k, data)
}

// Delete erases the entry at k if it exists.
func Delete(view LedgerView, k keylet.Keylet) error {
	exists, err := view.Exists(k)
	if err != nil || !exists {
		return err
	}
	return view.Erase(k)
}
