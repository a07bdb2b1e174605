package bridge

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config defines configuration for the deposit bridge
type Config struct {
	// Enabled determines if deposits are credited
	Enabled bool `mapstructure:"enabled"`

	// EthereumRPCURL is the JSON-RPC endpoint of the source chain
	EthereumRPCURL string `mapstructure:"ethereum_rpc_url"`

	// DepositContractAddress is the bridge contract emitting Deposited events
	DepositContractAddress string `mapstructure:"deposit_contract_address"`

	// Denom is the ledger denomination credited for bridged amounts
	Denom string `mapstructure:"denom"`

	PollingInterval time.Duration `mapstructure:"polling_interval"`

	// StartingBlock is the block the deposit contract was deployed in
	StartingBlock uint64 `mapstructure:"starting_block"`

	// Confirmations is how far behind the head deposits are read
	Confirmations uint64 `mapstructure:"confirmations"`

	// MaxBlockRange bounds a single eth_getLogs call
	MaxBlockRange uint64 `mapstructure:"max_block_range"`
}

// DefaultConfig returns the bridge configuration for USDC deposits on Base
func DefaultConfig() Config {
	return Config{
		Enabled:                false,
		EthereumRPCURL:         "https://base.llamarpc.com",
		DepositContractAddress: "0xcc391c8f1aFd6DB5D8b0e064BA81b1383b14FE5B",
		Denom:                  "uusdc",
		PollingInterval:        15 * time.Second,
		StartingBlock:          36469223,
		Confirmations:          5,
		MaxBlockRange:          999,
	}
}

func (c Config) Validate() error {
	if c.EthereumRPCURL == "" {
		return fmt.Errorf("bridge ethereum_rpc_url must not be empty")
	}
	if !common.IsHexAddress(c.DepositContractAddress) {
		return fmt.Errorf("invalid bridge deposit_contract_address %q", c.DepositContractAddress)
	}
	if c.Denom == "" {
		return fmt.Errorf("bridge denom must not be empty")
	}
	if c.PollingInterval <= 0 {
		return fmt.Errorf("bridge polling_interval must be positive")
	}
	if c.MaxBlockRange == 0 {
		return fmt.Errorf("bridge max_block_range must be positive")
	}
	return nil
}
