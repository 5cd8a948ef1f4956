package config

import (
	"github.com/spf13/viper"

	"github.com/LeJamon/goPredictd/internal/core/ledger/genesis"
)

// setDefaults sets the values of a standalone single-node chain
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.ip", "127.0.0.1")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.ws_path", "/ws")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.send_queue_limit", 256)

	// Node defaults
	v.SetDefault("node.block_interval", "5s")
	v.SetDefault("node.data_dir", "/var/lib/predictd")
	v.SetDefault("node.standalone", false)

	// Database defaults
	v.SetDefault("database.backend", "pebble")
	v.SetDefault("database.path", "")
	v.SetDefault("database.cache_size", 64)
	v.SetDefault("database.cache_entries", 16384)
	v.SetDefault("database.compression", "lz4")

	v.SetDefault("eventdb.driver", "sqlite")
	v.SetDefault("eventdb.dsn", "file:/var/lib/predictd/events.db")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Genesis defaults
	p := genesis.DefaultParams()
	v.SetDefault("genesis.time", 0)
	v.SetDefault("genesis.params.min_interval", p.MinInterval)
	v.SetDefault("genesis.params.expiration_timeout", p.ExpirationTimeout)
	v.SetDefault("genesis.params.review_cycle", p.ReviewCycle)
	v.SetDefault("genesis.params.upload_cycle", p.UploadCycle)
	v.SetDefault("genesis.params.publicity_period", p.PublicityPeriod)
	v.SetDefault("genesis.params.min_stake", p.MinStake)
	v.SetDefault("genesis.params.min_review", p.MinReview)
	v.SetDefault("genesis.params.min_report", p.MinReport)
	v.SetDefault("genesis.params.lock_ratio", p.LockRatio)
	v.SetDefault("genesis.params.withdrawal_fee_rate", p.WithdrawalFeeRate)
	v.SetDefault("genesis.params.max_fee_rate", p.MaxFeeRate)
	v.SetDefault("genesis.params.stake_currency", p.StakeCurrency)

	assets := make([]map[string]any, 0, len(genesis.DefaultConfig().Assets))
	for _, a := range genesis.DefaultConfig().Assets {
		assets = append(assets, map[string]any{
			"name":     a.Name,
			"symbol":   a.Symbol,
			"decimals": a.Decimals,
		})
	}
	v.SetDefault("genesis.assets", assets)
}
