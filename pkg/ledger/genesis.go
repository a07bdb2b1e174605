package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// Balance is an initial account balance.
type Balance struct {
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

// Genesis seeds a fresh ledger.
type Genesis struct {
	ChainID     string          `json:"chain_id"`
	GenesisTime time.Time       `json:"genesis_time"`
	Balances    []Balance       `json:"balances"`
	Coinflip    json.RawMessage `json:"coinflip"`
}

// DefaultGenesis returns a genesis with the given owner acting as owner and
// treasury and no balances.
func DefaultGenesis(chainID, owner string) (*Genesis, error) {
	gs := types.DefaultGenesis()
	gs.Params.Owner = owner
	gs.Params.Treasury = owner

	bz, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return nil, err
	}
	return &Genesis{
		ChainID:     chainID,
		GenesisTime: time.Now().UTC().Truncate(time.Second),
		Balances:    []Balance{},
		Coinflip:    bz,
	}, nil
}

// Validate checks balances and the module genesis.
func (g Genesis) Validate() error {
	if g.ChainID == "" {
		return fmt.Errorf("genesis chain_id must not be empty")
	}
	for _, b := range g.Balances {
		if b.Address == "" {
			return fmt.Errorf("genesis balance with empty address")
		}
		if !b.Coins.IsValid() {
			return fmt.Errorf("invalid genesis coins for %s: %s", b.Address, b.Coins)
		}
	}

	var gs types.GenesisState
	if err := json.Unmarshal(g.Coinflip, &gs); err != nil {
		return fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	return gs.Validate()
}

// LoadGenesis reads a genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	var g Genesis
	if err := json.Unmarshal(bz, &g); err != nil {
		return nil, fmt.Errorf("failed to parse genesis file %s: %w", path, err)
	}
	return &g, nil
}

// Save writes the genesis file.
func (g Genesis) Save(path string) error {
	bz, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o644)
}
