package tokens

import (
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// StateLedger implements Ledger on top of a state view, so token movements
// roll back together with the rest of a failed transaction.
type StateLedger struct {
	view sle.LedgerView
}

func NewStateLedger(view sle.LedgerView) *StateLedger {
	return &StateLedger{view: view}
}

var _ Ledger = (*StateLedger)(nil)

func (l *StateLedger) NewAsset(name, symbol string, decimals uint8) (uint32, error) {
	reg, ok, err := sle.Find[sle.TokenRegistry](l.view, keylet.TokenRegistry())
	if err != nil {
		return 0, err
	}
	if !ok {
		reg = &sle.TokenRegistry{NextCurrency: 1}
	}
	id := reg.NextCurrency
	if id == 0 {
		return 0, amount.ErrOverflow
	}
	reg.NextCurrency++

	asset := &sle.Asset{ID: id, Name: name, Symbol: symbol, Decimals: decimals}
	if err := sle.Create(l.view, keylet.Asset(id), asset); err != nil {
		return 0, err
	}
	if err := sle.Put(l.view, keylet.TokenRegistry(), reg); err != nil {
		return 0, err
	}
	return id, nil
}

func (l *StateLedger) AssetExists(currency uint32) (bool, error) {
	if currency == 0 {
		return false, nil
	}
	return l.view.Exists(keylet.Asset(currency))
}

func (l *StateLedger) asset(currency uint32) (*sle.Asset, error) {
	a, ok, err := sle.Find[sle.Asset](l.view, keylet.Asset(currency))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("currency %d: %w", currency, ErrUnknownAsset)
	}
	return a, nil
}

func (l *StateLedger) balance(currency uint32, who crypto.AccountID) (*sle.Balance, error) {
	b, ok, err := sle.Find[sle.Balance](l.view, keylet.Balance(currency, who))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &sle.Balance{}, nil
	}
	return b, nil
}

func (l *StateLedger) putBalance(currency uint32, who crypto.AccountID, b *sle.Balance) error {
	k := keylet.Balance(currency, who)
	if b.Free == 0 && b.Reserved == 0 {
		return sle.Delete(l.view, k)
	}
	return sle.Put(l.view, k, b)
}

func (l *StateLedger) Mint(currency uint32, who crypto.AccountID, amt uint64) (uint64, error) {
	if amt == 0 {
		return 0, nil
	}
	a, err := l.asset(currency)
	if err != nil {
		return 0, err
	}
	b, err := l.balance(currency, who)
	if err != nil {
		return 0, err
	}
	if a.Supply, err = amount.Add(a.Supply, amt); err != nil {
		return 0, err
	}
	if b.Free, err = amount.Add(b.Free, amt); err != nil {
		return 0, err
	}
	if err := sle.Put(l.view, keylet.Asset(currency), a); err != nil {
		return 0, err
	}
	return amt, l.putBalance(currency, who, b)
}

func (l *StateLedger) Burn(currency uint32, who crypto.AccountID, amt uint64) (uint64, error) {
	a, err := l.asset(currency)
	if err != nil {
		return 0, err
	}
	b, err := l.balance(currency, who)
	if err != nil {
		return 0, err
	}
	actual := amount.Min(amt, b.Free)
	if actual == 0 {
		return 0, nil
	}
	b.Free -= actual
	a.Supply = amount.SubClamp(a.Supply, actual)
	if err := sle.Put(l.view, keylet.Asset(currency), a); err != nil {
		return 0, err
	}
	return actual, l.putBalance(currency, who, b)
}

func (l *StateLedger) Transfer(currency uint32, from, to crypto.AccountID, amt uint64) (uint64, error) {
	if _, err := l.asset(currency); err != nil {
		return 0, err
	}
	src, err := l.balance(currency, from)
	if err != nil {
		return 0, err
	}
	if src.Free < amt {
		return 0, fmt.Errorf("transfer %d of currency %d: %w", amt, currency, ErrInsufficientBalance)
	}
	if amt == 0 || from == to {
		return amt, nil
	}
	src.Free -= amt
	if err := l.putBalance(currency, from, src); err != nil {
		return 0, err
	}

	dst, err := l.balance(currency, to)
	if err != nil {
		return 0, err
	}
	if dst.Free, err = amount.Add(dst.Free, amt); err != nil {
		return 0, err
	}
	return amt, l.putBalance(currency, to, dst)
}

func (l *StateLedger) Reserve(currency uint32, who crypto.AccountID, amt uint64) (uint64, error) {
	if _, err := l.asset(currency); err != nil {
		return 0, err
	}
	b, err := l.balance(currency, who)
	if err != nil {
		return 0, err
	}
	if b.Free < amt {
		return 0, fmt.Errorf("reserve %d of currency %d: %w", amt, currency, ErrInsufficientBalance)
	}
	b.Free -= amt
	if b.Reserved, err = amount.Add(b.Reserved, amt); err != nil {
		return 0, err
	}
	return amt, l.putBalance(currency, who, b)
}

func (l *StateLedger) Unreserve(currency uint32, who crypto.AccountID, amt uint64) (uint64, error) {
	b, err := l.balance(currency, who)
	if err != nil {
		return 0, err
	}
	actual := amount.Min(amt, b.Reserved)
	b.Reserved -= actual
	if b.Free, err = amount.Add(b.Free, actual); err != nil {
		return 0, err
	}
	return actual, l.putBalance(currency, who, b)
}

func (l *StateLedger) SlashReserved(currency uint32, who crypto.AccountID, amt uint64) (uint64, error) {
	a, err := l.asset(currency)
	if err != nil {
		return 0, err
	}
	b, err := l.balance(currency, who)
	if err != nil {
		return 0, err
	}
	actual := amount.Min(amt, b.Reserved)
	b.Reserved -= actual
	a.Supply = amount.SubClamp(a.Supply, actual)
	if err := sle.Put(l.view, keylet.Asset(currency), a); err != nil {
		return 0, err
	}
	return actual, l.putBalance(currency, who, b)
}

func (l *StateLedger) Balance(currency uint32, who crypto.AccountID) (uint64, error) {
	b, err := l.balance(currency, who)
	if err != nil {
		return 0, err
	}
	return b.Free, nil
}

func (l *StateLedger) ReservedBalance(currency uint32, who crypto.AccountID) (uint64, error) {
	b, err := l.balance(currency, who)
	if err != nil {
		return 0, err
	}
	return b.Reserved, nil
}

func (l *StateLedger) Donate(currency uint32, from crypto.AccountID, module Module, amt uint64) (uint64, error) {
	return l.Transfer(currency, from, module.Account(), amt)
}

func (l *StateLedger) Appropriation(currency uint32, module Module, to crypto.AccountID, amt uint64) (uint64, error) {
	return l.Transfer(currency, module.Account(), to, amt)
}
