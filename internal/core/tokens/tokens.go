// Package tokens is the fungible token ledger: per-currency balances with a
// reserved (escrowed) portion, minting, burning and transfers. Pooled custody
// goes through module accounts with Donate and Appropriation.
package tokens

import (
	"errors"

	"github.com/LeJamon/goPredictd/internal/crypto"
)

var (
	// ErrInsufficientBalance is returned when a debit exceeds the free balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrUnknownAsset is returned for a currency id that was never allocated.
	ErrUnknownAsset = errors.New("unknown asset")
)

// Module names a custody account owned by protocol logic.
type Module string

const (
	ModuleMarket Module = "market"
	ModuleOracle Module = "oracle"
)

// Account returns the module's derived account id.
func (m Module) Account() crypto.AccountID {
	return crypto.ModuleAccount(string(m))
}

// Ledger is the token ledger used by the market and oracle components.
// Amount-returning operations report the amount actually moved.
type Ledger interface {
	NewAsset(name, symbol string, decimals uint8) (uint32, error)
	AssetExists(currency uint32) (bool, error)

	Mint(currency uint32, who crypto.AccountID, amount uint64) (uint64, error)
	// Burn destroys up to amount of the free balance.
	Burn(currency uint32, who crypto.AccountID, amount uint64) (uint64, error)
	Transfer(currency uint32, from, to crypto.AccountID, amount uint64) (uint64, error)

	Reserve(currency uint32, who crypto.AccountID, amount uint64) (uint64, error)
	// Unreserve releases up to amount of the reserved balance.
	Unreserve(currency uint32, who crypto.AccountID, amount uint64) (uint64, error)
	// SlashReserved destroys up to amount of the reserved balance.
	SlashReserved(currency uint32, who crypto.AccountID, amount uint64) (uint64, error)

	Balance(currency uint32, who crypto.AccountID) (uint64, error)
	ReservedBalance(currency uint32, who crypto.AccountID) (uint64, error)

	// Donate moves funds from a user into module custody.
	Donate(currency uint32, from crypto.AccountID, module Module, amount uint64) (uint64, error)
	// Appropriation pays funds out of module custody.
	Appropriation(currency uint32, module Module, to crypto.AccountID, amount uint64) (uint64, error)
}
