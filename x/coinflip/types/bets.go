package types

import (
	"math/bits"
	"time"

	errorsmod "cosmossdk.io/errors"
)

// PendingBet is a proposal waiting for a responder.
type PendingBet struct {
	Owner                  string    `json:"owner"`
	BetId                  string    `json:"bet_id"`
	Commitment             string    `json:"commitment"`
	BlocksUntilLiquidation uint64    `json:"blocks_until_liquidation"`
	Asset                  Asset     `json:"asset"`
	CreatedAt              time.Time `json:"created_at"`
}

// OngoingBet is an accepted bet holding both stakes until it is resolved or
// liquidated.
type OngoingBet struct {
	BetId                  string    `json:"bet_id"`
	Commitment             string    `json:"commitment"`
	Creator                string    `json:"creator"`
	Responder              string    `json:"responder"`
	ResponderSide          FlipSide  `json:"responder_side"`
	Asset                  Asset     `json:"asset"`
	StartBlock             uint64    `json:"start_block"`
	BlocksUntilLiquidation uint64    `json:"blocks_until_liquidation"`
	LiquidationBlock       uint64    `json:"liquidation_block"`
	ResponderGapBlock      uint64    `json:"responder_liquidation_gap_block"`
	CreatedAt              time.Time `json:"created_at"`
}

// HistoricalBet is the audit record of a completed bet. Asset is the pot before
// the split.
type HistoricalBet struct {
	BetId         string      `json:"bet_id"`
	Owner         string      `json:"owner"`
	Responder     string      `json:"responder"`
	Winner        string      `json:"winner"`
	Liquidator    string      `json:"liquidator,omitempty"`
	ResponderSide FlipSide    `json:"responder_side"`
	Asset         Asset       `json:"asset"`
	Outcome       GameOutcome `json:"outcome"`
	CreatedAt     time.Time   `json:"created_at"`
	CompletedAt   time.Time   `json:"completed_at"`
}

// NewOngoingBet combines a pending bet with the responder's matching stake.
// The liquidation thresholds are computed from height with checked additions.
func NewOngoingBet(pending PendingBet, responder string, side FlipSide, stake Asset, height, gracePeriod uint64) (OngoingBet, error) {
	pot, err := pending.Asset.CheckedAdd(stake)
	if err != nil {
		return OngoingBet{}, err
	}

	liquidationBlock, carry := bits.Add64(height, pending.BlocksUntilLiquidation, 0)
	if carry != 0 {
		return OngoingBet{}, errorsmod.Wrap(ErrArithmetic, "liquidation block overflows")
	}
	gapBlock, carry := bits.Add64(liquidationBlock, gracePeriod, 0)
	if carry != 0 {
		return OngoingBet{}, errorsmod.Wrap(ErrArithmetic, "responder liquidation gap block overflows")
	}

	return OngoingBet{
		BetId:                  pending.BetId,
		Commitment:             pending.Commitment,
		Creator:                pending.Owner,
		Responder:              responder,
		ResponderSide:          side,
		Asset:                  pot,
		StartBlock:             height,
		BlocksUntilLiquidation: pending.BlocksUntilLiquidation,
		LiquidationBlock:       liquidationBlock,
		ResponderGapBlock:      gapBlock,
		CreatedAt:              pending.CreatedAt,
	}, nil
}

// IsLiquidatableBy reports whether caller may liquidate the bet at height.
// The creator never can, the responder can once the liquidation block has
// passed and anyone else once the responder gap block has passed.
func (b OngoingBet) IsLiquidatableBy(caller string, height uint64) bool {
	switch {
	case caller == b.Creator:
		return false
	case caller == b.Responder:
		return height > b.LiquidationBlock
	default:
		return height > b.ResponderGapBlock
	}
}

// Involves reports whether addr is the creator or the responder.
func (b OngoingBet) Involves(addr string) bool {
	return b.Creator == addr || b.Responder == addr
}

// Involves reports whether addr took part in the bet in any role.
func (h HistoricalBet) Involves(addr string) bool {
	return h.Owner == addr || h.Responder == addr || (h.Liquidator != "" && h.Liquidator == addr)
}
