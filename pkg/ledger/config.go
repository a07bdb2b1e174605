package ledger

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Config contains configuration for the local ledger host
type Config struct {
	// ChainID is reported by the status endpoint and stamped into every block header
	ChainID string `mapstructure:"chain_id"`

	// Backend is the cosmos-db backend holding the state, memdb or goleveldb
	Backend string `mapstructure:"backend"`

	// DataDir is the directory of the goleveldb database
	DataDir string `mapstructure:"data_dir"`

	// GenesisFile seeds balances and module state on first start
	GenesisFile string `mapstructure:"genesis_file"`

	// BlockInterval defines how often a block is committed
	BlockInterval time.Duration `mapstructure:"block_interval"`

	// AddressPrefix is the bech32 account prefix
	AddressPrefix string `mapstructure:"address_prefix"`

	// EventBuffer is the per-subscriber event channel size
	EventBuffer int `mapstructure:"event_buffer"`

	Tax TaxConfig `mapstructure:"tax"`
}

// TaxConfig contains the transfer tax applied to payouts
type TaxConfig struct {
	// Rate is a decimal fraction, e.g. "0.01" for one percent
	Rate string `mapstructure:"rate"`

	// Caps maps a denom to the maximum tax taken from a single transfer
	Caps map[string]string `mapstructure:"caps"`

	// ExemptDenoms are never taxed
	ExemptDenoms []string `mapstructure:"exempt_denoms"`
}

// DefaultConfig returns default configuration for a development ledger
func DefaultConfig() Config {
	return Config{
		ChainID:       "coinflip-local",
		Backend:       string(dbm.MemDBBackend),
		DataDir:       "data",
		GenesisFile:   "genesis.json",
		BlockInterval: 5 * time.Second,
		AddressPrefix: "b52",
		EventBuffer:   256,
		Tax: TaxConfig{
			Rate: "0",
			Caps: map[string]string{},
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.ChainID == "" {
		return fmt.Errorf("chain_id must not be empty")
	}
	switch dbm.BackendType(c.Backend) {
	case dbm.MemDBBackend:
	case dbm.GoLevelDBBackend:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unsupported db backend %q", c.Backend)
	}
	if c.BlockInterval <= 0 {
		return fmt.Errorf("block_interval must be positive")
	}
	if c.AddressPrefix == "" {
		return fmt.Errorf("address_prefix must not be empty")
	}
	_, err := c.Tax.table()
	return err
}

func (c TaxConfig) table() (*TaxTable, error) {
	rate := math.LegacyZeroDec()
	if c.Rate != "" {
		var err error
		rate, err = math.LegacyNewDecFromStr(c.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid tax rate %q: %w", c.Rate, err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("tax rate must not be negative")
		}
	}

	caps := make(map[string]math.Int, len(c.Caps))
	for denom, s := range c.Caps {
		if err := sdk.ValidateDenom(denom); err != nil {
			return nil, fmt.Errorf("tax cap: %w", err)
		}
		v, ok := math.NewIntFromString(s)
		if !ok || v.IsNegative() {
			return nil, fmt.Errorf("invalid tax cap %q for %s", s, denom)
		}
		caps[denom] = v
	}

	exempt := make(map[string]struct{}, len(c.ExemptDenoms))
	for _, denom := range c.ExemptDenoms {
		exempt[denom] = struct{}{}
	}

	return &TaxTable{rate: rate, caps: caps, exempt: exempt}, nil
}
