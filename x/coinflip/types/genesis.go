package types

import (
	"fmt"
)

// GenesisState defines the coinflip module's genesis state.
type GenesisState struct {
	Params         Params          `json:"params"`
	PendingBets    []PendingBet    `json:"pending_bets"`
	OngoingBets    []OngoingBet    `json:"ongoing_bets"`
	HistoricalBets []HistoricalBet `json:"historical_bets"`
}

// DefaultGenesis returns the default genesis state. Owner and treasury are
// empty, so it does not validate until they are filled in.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:         DefaultParams(),
		PendingBets:    []PendingBet{},
		OngoingBets:    []OngoingBet{},
		HistoricalBets: []HistoricalBet{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	pending := make(map[string]struct{}, len(gs.PendingBets))
	for _, bet := range gs.PendingBets {
		if bet.Owner == "" || bet.BetId == "" {
			return fmt.Errorf("pending bet with empty owner or id")
		}
		key := bet.Owner + "/" + bet.BetId
		if _, dup := pending[key]; dup {
			return fmt.Errorf("duplicate pending bet %s", key)
		}
		pending[key] = struct{}{}
		if err := bet.Asset.Validate(); err != nil {
			return fmt.Errorf("pending bet %s: %w", bet.BetId, err)
		}
	}

	ongoing := make(map[string]struct{}, len(gs.OngoingBets))
	for _, bet := range gs.OngoingBets {
		if bet.BetId == "" {
			return fmt.Errorf("ongoing bet with empty id")
		}
		if _, dup := ongoing[bet.BetId]; dup {
			return fmt.Errorf("duplicate ongoing bet %s", bet.BetId)
		}
		ongoing[bet.BetId] = struct{}{}
		if bet.Creator == bet.Responder {
			return fmt.Errorf("ongoing bet %s: creator is the responder", bet.BetId)
		}
		if err := bet.Asset.Validate(); err != nil {
			return fmt.Errorf("ongoing bet %s: %w", bet.BetId, err)
		}
		if bet.LiquidationBlock != bet.StartBlock+bet.BlocksUntilLiquidation || bet.ResponderGapBlock < bet.LiquidationBlock {
			return fmt.Errorf("ongoing bet %s: inconsistent liquidation blocks", bet.BetId)
		}
	}

	// History may exceed the max storage size after the owner lowered it; the
	// next appends shrink it one batch at a time.
	for _, h := range gs.HistoricalBets {
		if err := h.Asset.Validate(); err != nil {
			return fmt.Errorf("historical bet %s: %w", h.BetId, err)
		}
	}

	return nil
}
