package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// countPendingByOwner returns the number of pending bets held by owner.
func (k Keeper) countPendingByOwner(ctx context.Context, owner string) (uint64, error) {
	var n uint64
	rng := collections.NewPrefixedPairRange[string, string](owner)
	err := k.PendingBets.Walk(ctx, rng, func(_ collections.Pair[string, string], _ types.PendingBet) (bool, error) {
		n++
		return false, nil
	})
	return n, err
}

// pendingBetsOf returns the pending bets of owner in bet id order.
func (k Keeper) pendingBetsOf(ctx context.Context, owner string) ([]types.PendingBet, error) {
	bets := []types.PendingBet{}
	rng := collections.NewPrefixedPairRange[string, string](owner)
	err := k.PendingBets.Walk(ctx, rng, func(_ collections.Pair[string, string], bet types.PendingBet) (bool, error) {
		bets = append(bets, bet)
		return false, nil
	})
	return bets, err
}

// adjustPendingCount adds delta (+1 or -1) to the global pending counter.
func (k Keeper) adjustPendingCount(ctx context.Context, delta int) error {
	count, err := k.PendingBetsCount.Get(ctx)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}

	switch {
	case delta > 0:
		if count == ^uint64(0) {
			return errorsmod.Wrap(types.ErrArithmetic, "pending bets count overflows")
		}
		count++
	case delta < 0:
		if count == 0 {
			return errorsmod.Wrap(types.ErrArithmetic, "pending bets count underflows")
		}
		count--
	}

	return k.PendingBetsCount.Set(ctx, count)
}

// GetPendingBetsCount returns the number of pending bets across all owners.
func (k Keeper) GetPendingBetsCount(ctx context.Context) (uint64, error) {
	count, err := k.PendingBetsCount.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	}
	return count, err
}
