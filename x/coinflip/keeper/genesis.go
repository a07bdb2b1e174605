package keeper

import (
	"context"

	"cosmossdk.io/collections"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
// The pending counter is recomputed from the imported pending bets.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return err
	}

	for _, bet := range genState.PendingBets {
		_, owner, err := k.canonicalAddress(bet.Owner)
		if err != nil {
			return err
		}
		bet.Owner = owner
		if err := k.PendingBets.Set(ctx, collections.Join(owner, bet.BetId), bet); err != nil {
			return err
		}
	}
	if err := k.PendingBetsCount.Set(ctx, uint64(len(genState.PendingBets))); err != nil {
		return err
	}

	for _, bet := range genState.OngoingBets {
		if err := k.canonicalizeAll(&bet.Creator, &bet.Responder); err != nil {
			return err
		}
		if err := k.OngoingBets.Set(ctx, bet.BetId, bet); err != nil {
			return err
		}
	}

	// History is imported oldest first.
	for i, bet := range genState.HistoricalBets {
		if err := k.canonicalizeAll(&bet.Owner, &bet.Responder, &bet.Winner); err != nil {
			return err
		}
		if bet.Liquidator != "" {
			if err := k.canonicalizeAll(&bet.Liquidator); err != nil {
				return err
			}
		}
		if err := k.HistoricalBets.Set(ctx, uint64(i), bet); err != nil {
			return err
		}
	}
	if err := k.HistoricalBetsSeq.Set(ctx, uint64(len(genState.HistoricalBets))); err != nil {
		return err
	}
	return k.HistoricalBetsHead.Set(ctx, 0)
}

// canonicalizeAll rewrites each address in place to its canonical form.
func (k Keeper) canonicalizeAll(addrs ...*string) error {
	for _, addr := range addrs {
		_, canonical, err := k.canonicalAddress(*addr)
		if err != nil {
			return err
		}
		*addr = canonical
	}
	return nil
}

// ExportGenesis returns the module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	var err error

	genesis := types.DefaultGenesis()
	genesis.Params, err = k.Params.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = k.PendingBets.Walk(ctx, nil, func(_ collections.Pair[string, string], bet types.PendingBet) (bool, error) {
		genesis.PendingBets = append(genesis.PendingBets, bet)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	err = k.OngoingBets.Walk(ctx, nil, func(_ string, bet types.OngoingBet) (bool, error) {
		genesis.OngoingBets = append(genesis.OngoingBets, bet)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	err = k.HistoricalBets.Walk(ctx, nil, func(_ uint64, bet types.HistoricalBet) (bool, error) {
		genesis.HistoricalBets = append(genesis.HistoricalBets, bet)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return genesis, nil
}
