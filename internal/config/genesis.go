package config

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ledger/genesis"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/crypto"
)

// GenesisConfig represents the [genesis] section
type GenesisConfig struct {
	// Time is the genesis close time in unix seconds. Zero uses the
	// clock at first start.
	Time     int64            `toml:"time" mapstructure:"time"`
	Params   sle.Params       `toml:"params" mapstructure:"params"`
	Admins   []string         `toml:"admins" mapstructure:"admins"`
	Assets   []genesis.Asset  `toml:"assets" mapstructure:"assets"`
	Accounts []GenesisAccount `toml:"accounts" mapstructure:"accounts"`
}

// GenesisAccount is one [[genesis.accounts]] entry
type GenesisAccount struct {
	Account  string `toml:"account" mapstructure:"account"`
	Currency uint32 `toml:"currency" mapstructure:"currency"`
	Amount   uint64 `toml:"amount" mapstructure:"amount"`
}

// Validate performs validation on the genesis configuration
func (g *GenesisConfig) Validate() error {
	_, err := g.ToGenesis()
	return err
}

// ToGenesis converts the section into the ledger's genesis description.
func (g *GenesisConfig) ToGenesis() (genesis.Config, error) {
	p := g.Params
	if p.LockRatio > amount.PercentDenominator {
		return genesis.Config{}, fmt.Errorf("params.lock_ratio must be at most 100, got %d", p.LockRatio)
	}
	if p.WithdrawalFeeRate > amount.FeeDenominator || p.MaxFeeRate > amount.FeeDenominator {
		return genesis.Config{}, fmt.Errorf("params fee rates must be at most %d", amount.FeeDenominator)
	}
	for name, d := range map[string]int64{
		"min_interval":       p.MinInterval,
		"expiration_timeout": p.ExpirationTimeout,
		"review_cycle":       p.ReviewCycle,
		"upload_cycle":       p.UploadCycle,
		"publicity_period":   p.PublicityPeriod,
	} {
		if d < 0 {
			return genesis.Config{}, fmt.Errorf("params.%s must not be negative", name)
		}
	}
	if len(g.Assets) == 0 {
		return genesis.Config{}, errors.New("at least one asset is required")
	}
	if p.StakeCurrency == 0 || int(p.StakeCurrency) > len(g.Assets) {
		return genesis.Config{}, fmt.Errorf("params.stake_currency %d is not a genesis asset", p.StakeCurrency)
	}

	p.Admins = nil
	for _, a := range g.Admins {
		id, err := crypto.ParseAccountID(a)
		if err != nil {
			return genesis.Config{}, fmt.Errorf("admin %q: %w", a, err)
		}
		p.Admins = append(p.Admins, id)
	}

	cfg := genesis.Config{
		Time:   g.Time,
		Params: p,
		Assets: append([]genesis.Asset(nil), g.Assets...),
	}
	for _, acc := range g.Accounts {
		id, err := crypto.ParseAccountID(acc.Account)
		if err != nil {
			return genesis.Config{}, fmt.Errorf("account %q: %w", acc.Account, err)
		}
		if acc.Currency == 0 || int(acc.Currency) > len(g.Assets) {
			return genesis.Config{}, fmt.Errorf("account %s: currency %d is not a genesis asset", acc.Account, acc.Currency)
		}
		cfg.Balances = append(cfg.Balances, genesis.Balance{
			Account:  id,
			Currency: acc.Currency,
			Amount:   acc.Amount,
		})
	}
	return cfg, nil
}
