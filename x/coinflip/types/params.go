package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// MaxTreasuryTaxPercent caps the fee taken from resolved bets.
	MaxTreasuryTaxPercent = 10

	DefaultTreasuryTaxPercent             = 1
	DefaultMaxBetsByAddr                  = 10
	DefaultMinBlocksUntilLiquidation      = 100
	DefaultMaxBlocksUntilLiquidation      = 500
	DefaultBlocksForResponderLiquidation  = 20
	DefaultBetResponderLiquidationPercent = 90
	DefaultBetLiquidatorPercent           = 7
	DefaultTreasuryLiquidationPercent     = 3
	DefaultHistoricalBetsMaxStorageSize   = 1000
	DefaultHistoricalBetsClearBatchSize   = 100
	DefaultBetDenom                       = "uusdc"
)

// CoinLimit is the minimum stake accepted for a denom.
type CoinLimit struct {
	Denom     string   `json:"denom"`
	MinAmount math.Int `json:"min_amount"`
}

// Params holds the economic configuration of the module. Owner and Treasury are
// bech32 account addresses.
type Params struct {
	Owner                          string      `json:"owner"`
	Treasury                       string      `json:"treasury"`
	TreasuryTaxPercent             uint32      `json:"treasury_tax_percent"`
	MaxBetsByAddr                  uint64      `json:"max_bets_by_addr"`
	MinBetAmounts                  []CoinLimit `json:"min_bet_amounts"`
	MinBlocksUntilLiquidation      uint64      `json:"min_blocks_until_liquidation"`
	MaxBlocksUntilLiquidation      uint64      `json:"max_blocks_until_liquidation"`
	BlocksForResponderLiquidation  uint64      `json:"blocks_for_responder_liquidation"`
	BetResponderLiquidationPercent uint32      `json:"bet_responder_liquidation_percent"`
	BetLiquidatorPercent           uint32      `json:"bet_liquidator_percent"`
	TreasuryLiquidationPercent     uint32      `json:"treasury_liquidation_percent"`
	HistoricalBetsMaxStorageSize   uint64      `json:"historical_bets_max_storage_size"`
	HistoricalBetsClearBatchSize   uint64      `json:"historical_bets_clear_batch_size"`
}

// DefaultParams returns default economic parameters. Owner and Treasury are left
// empty and must be provided at genesis.
func DefaultParams() Params {
	return Params{
		TreasuryTaxPercent: DefaultTreasuryTaxPercent,
		MaxBetsByAddr:      DefaultMaxBetsByAddr,
		MinBetAmounts: []CoinLimit{
			{Denom: DefaultBetDenom, MinAmount: math.NewInt(1_000_000)},
		},
		MinBlocksUntilLiquidation:      DefaultMinBlocksUntilLiquidation,
		MaxBlocksUntilLiquidation:      DefaultMaxBlocksUntilLiquidation,
		BlocksForResponderLiquidation:  DefaultBlocksForResponderLiquidation,
		BetResponderLiquidationPercent: DefaultBetResponderLiquidationPercent,
		BetLiquidatorPercent:           DefaultBetLiquidatorPercent,
		TreasuryLiquidationPercent:     DefaultTreasuryLiquidationPercent,
		HistoricalBetsMaxStorageSize:   DefaultHistoricalBetsMaxStorageSize,
		HistoricalBetsClearBatchSize:   DefaultHistoricalBetsClearBatchSize,
	}
}

// Validate validates the set of params.
func (p Params) Validate() error {
	if p.Owner == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "owner must be set")
	}
	if p.Treasury == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "treasury must be set")
	}

	if len(p.MinBetAmounts) == 0 {
		return errorsmod.Wrap(ErrInvalidConfig, "min_bet_amounts must be a non-empty list")
	}
	seen := make(map[string]struct{}, len(p.MinBetAmounts))
	for _, limit := range p.MinBetAmounts {
		if err := sdk.ValidateDenom(limit.Denom); err != nil {
			return errorsmod.Wrapf(ErrInvalidConfig, "min_bet_amounts: %s", err)
		}
		if _, dup := seen[limit.Denom]; dup {
			return errorsmod.Wrapf(ErrInvalidConfig, "min_bet_amounts: duplicate denom %s", limit.Denom)
		}
		seen[limit.Denom] = struct{}{}
		if limit.MinAmount.IsNil() || !limit.MinAmount.IsPositive() || limit.MinAmount.GT(MaxAmount) {
			return errorsmod.Wrapf(ErrInvalidConfig, "min_bet_amounts: invalid min amount for %s", limit.Denom)
		}
	}

	if p.TreasuryTaxPercent > MaxTreasuryTaxPercent {
		return errorsmod.Wrap(ErrInvalidConfig, "treasury_tax_percent must not exceed 10")
	}

	liquidationPercent := uint64(p.BetResponderLiquidationPercent) +
		uint64(p.BetLiquidatorPercent) +
		uint64(p.TreasuryLiquidationPercent)
	if liquidationPercent != 100 {
		return errorsmod.Wrap(ErrInvalidConfig, "liquidation percent must be equal to 100")
	}

	if p.MinBlocksUntilLiquidation > p.MaxBlocksUntilLiquidation {
		return errorsmod.Wrap(ErrInvalidConfig, "min_blocks_until_liquidation must be less than max_blocks_until_liquidation")
	}

	if p.HistoricalBetsMaxStorageSize == 0 {
		return errorsmod.Wrap(ErrInvalidConfig, "historical_bets_max_storage_size must be positive")
	}
	if p.HistoricalBetsClearBatchSize == 0 || p.HistoricalBetsClearBatchSize > p.HistoricalBetsMaxStorageSize {
		return errorsmod.Wrap(ErrInvalidConfig, "historical_bets_clear_batch_size must be between 1 and historical_bets_max_storage_size")
	}

	return nil
}

// MinBetAmount returns the minimum stake for denom.
func (p Params) MinBetAmount(denom string) (math.Int, bool) {
	for _, limit := range p.MinBetAmounts {
		if limit.Denom == denom {
			return limit.MinAmount, true
		}
	}
	return math.Int{}, false
}

// ValidatePlaceBetInputs checks a proposal against the configured bounds.
// addrBetsCount is the number of pending bets the creator already holds.
func (p Params) ValidatePlaceBetInputs(blocksUntilLiquidation uint64, addrBetsCount uint64, asset Asset) error {
	if blocksUntilLiquidation < p.MinBlocksUntilLiquidation {
		return errorsmod.Wrapf(ErrInvalidDuration, "blocks_until_liquidation must be higher than min allowed value %d", p.MinBlocksUntilLiquidation)
	}
	if blocksUntilLiquidation > p.MaxBlocksUntilLiquidation {
		return errorsmod.Wrapf(ErrInvalidDuration, "blocks_until_liquidation must be less than max allowed value %d", p.MaxBlocksUntilLiquidation)
	}

	if addrBetsCount >= p.MaxBetsByAddr {
		return errorsmod.Wrapf(ErrBetLimitReached, "limit %d", p.MaxBetsByAddr)
	}

	minAmount, ok := p.MinBetAmount(asset.Denom)
	if !ok {
		return errorsmod.Wrap(ErrUnsupportedDenom, asset.Denom)
	}
	if asset.Amount.LT(minAmount) {
		return errorsmod.Wrapf(ErrAmountBelowMinimum, "%s < %s%s", asset, minAmount, asset.Denom)
	}

	return nil
}

// ResolveSplit returns the winner and treasury percentages of a resolved pot.
func (p Params) ResolveSplit() []uint32 {
	return []uint32{100 - p.TreasuryTaxPercent, p.TreasuryTaxPercent}
}

// LiquidationSplit returns the responder, liquidator and treasury percentages of
// a liquidated pot.
func (p Params) LiquidationSplit() []uint32 {
	return []uint32{p.BetResponderLiquidationPercent, p.BetLiquidatorPercent, p.TreasuryLiquidationPercent}
}

// ConfigUpdate carries the fields an owner wants to replace. Nil fields are kept.
type ConfigUpdate struct {
	Owner                          *string     `json:"owner,omitempty"`
	Treasury                       *string     `json:"treasury,omitempty"`
	TreasuryTaxPercent             *uint32     `json:"treasury_tax_percent,omitempty"`
	MaxBetsByAddr                  *uint64     `json:"max_bets_by_addr,omitempty"`
	MinBetAmounts                  []CoinLimit `json:"min_bet_amounts,omitempty"`
	MinBlocksUntilLiquidation      *uint64     `json:"min_blocks_until_liquidation,omitempty"`
	MaxBlocksUntilLiquidation      *uint64     `json:"max_blocks_until_liquidation,omitempty"`
	BlocksForResponderLiquidation  *uint64     `json:"blocks_for_responder_liquidation,omitempty"`
	BetResponderLiquidationPercent *uint32     `json:"bet_responder_liquidation_percent,omitempty"`
	BetLiquidatorPercent           *uint32     `json:"bet_liquidator_percent,omitempty"`
	TreasuryLiquidationPercent     *uint32     `json:"treasury_liquidation_percent,omitempty"`
	HistoricalBetsMaxStorageSize   *uint64     `json:"historical_bets_max_storage_size,omitempty"`
	HistoricalBetsClearBatchSize   *uint64     `json:"historical_bets_clear_batch_size,omitempty"`
}

// Apply returns a copy of p with the non-nil fields of u replaced. The result
// is not validated.
func (u ConfigUpdate) Apply(p Params) Params {
	if u.Owner != nil {
		p.Owner = *u.Owner
	}
	if u.Treasury != nil {
		p.Treasury = *u.Treasury
	}
	if u.TreasuryTaxPercent != nil {
		p.TreasuryTaxPercent = *u.TreasuryTaxPercent
	}
	if u.MaxBetsByAddr != nil {
		p.MaxBetsByAddr = *u.MaxBetsByAddr
	}
	if u.MinBetAmounts != nil {
		p.MinBetAmounts = append([]CoinLimit(nil), u.MinBetAmounts...)
	}
	if u.MinBlocksUntilLiquidation != nil {
		p.MinBlocksUntilLiquidation = *u.MinBlocksUntilLiquidation
	}
	if u.MaxBlocksUntilLiquidation != nil {
		p.MaxBlocksUntilLiquidation = *u.MaxBlocksUntilLiquidation
	}
	if u.BlocksForResponderLiquidation != nil {
		p.BlocksForResponderLiquidation = *u.BlocksForResponderLiquidation
	}
	if u.BetResponderLiquidationPercent != nil {
		p.BetResponderLiquidationPercent = *u.BetResponderLiquidationPercent
	}
	if u.BetLiquidatorPercent != nil {
		p.BetLiquidatorPercent = *u.BetLiquidatorPercent
	}
	if u.TreasuryLiquidationPercent != nil {
		p.TreasuryLiquidationPercent = *u.TreasuryLiquidationPercent
	}
	if u.HistoricalBetsMaxStorageSize != nil {
		p.HistoricalBetsMaxStorageSize = *u.HistoricalBetsMaxStorageSize
	}
	if u.HistoricalBetsClearBatchSize != nil {
		p.HistoricalBetsClearBatchSize = *u.HistoricalBetsClearBatchSize
	}
	return p
}
