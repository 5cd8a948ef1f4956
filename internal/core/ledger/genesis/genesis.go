// Package genesis writes the height-zero state: protocol parameters, the
// native assets and the initial balances.
package genesis

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/ledger/header"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// ErrAlreadyInitialized is returned when the state already has a header.
var ErrAlreadyInitialized = errors.New("state already initialized")

// Asset is a token created at genesis. Ids are handed out in order from 1.
type Asset struct {
	Name     string `mapstructure:"name"`
	Symbol   string `mapstructure:"symbol"`
	Decimals uint8  `mapstructure:"decimals"`
}

// Balance funds an account with a genesis asset.
type Balance struct {
	Account  crypto.AccountID
	Currency uint32
	Amount   uint64
}

// Config describes the genesis state.
type Config struct {
	Time     int64
	Params   sle.Params
	Assets   []Asset
	Balances []Balance
}

// DefaultParams are the parameters of a fresh standalone chain. Durations
// are seconds.
func DefaultParams() sle.Params {
	return sle.Params{
		MinInterval:       3600,
		ExpirationTimeout: 7 * 24 * 3600,
		ReviewCycle:       3600,
		UploadCycle:       3600,
		PublicityPeriod:   24 * 3600,
		MinStake:          1000,
		MinReview:         1000,
		MinReport:         1000,
		LockRatio:         50,
		WithdrawalFeeRate: 100,
		MaxFeeRate:        1000,
		StakeCurrency:     1,
	}
}

// DefaultConfig returns a genesis with one native asset and no balances.
func DefaultConfig() Config {
	return Config{
		Params: DefaultParams(),
		Assets: []Asset{{Name: "Predict", Symbol: "PRD", Decimals: 8}},
	}
}

// Apply writes cfg into view and returns the sealed height-zero header.
func Apply(view sle.LedgerView, cfg Config) (*header.BlockHeader, error) {
	existing, err := header.Read(view)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyInitialized
	}

	params := cfg.Params
	if err := sle.WriteParams(view, &params); err != nil {
		return nil, fmt.Errorf("write params: %w", err)
	}

	ledger := tokens.NewStateLedger(view)
	for _, a := range cfg.Assets {
		if _, err := ledger.NewAsset(a.Name, a.Symbol, a.Decimals); err != nil {
			return nil, fmt.Errorf("create asset %s: %w", a.Symbol, err)
		}
	}
	for _, b := range cfg.Balances {
		if _, err := ledger.Mint(b.Currency, b.Account, b.Amount); err != nil {
			return nil, fmt.Errorf("fund %s with %d of %d: %w", b.Account, b.Amount, b.Currency, err)
		}
	}

	h := &header.BlockHeader{Height: 0, CloseTime: cfg.Time}
	h.Seal()
	if err := header.Write(view, h); err != nil {
		return nil, err
	}
	return h, nil
}
