package keeper

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// historyBounds returns the insertion indexes [head, next) of retained records.
func (k Keeper) historyBounds(ctx context.Context) (head, next uint64, err error) {
	next, err = k.HistoricalBetsSeq.Peek(ctx)
	if err != nil {
		return 0, 0, err
	}
	head, err = k.HistoricalBetsHead.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return 0, next, nil
	}
	return head, next, err
}

// HistoryLen returns the number of retained completed bets.
func (k Keeper) HistoryLen(ctx context.Context) (uint64, error) {
	head, next, err := k.historyBounds(ctx)
	if err != nil {
		return 0, err
	}
	return next - head, nil
}

// appendHistory records a completed bet. When the log already holds the
// configured maximum, the clear_batch_size oldest records are evicted first.
func (k Keeper) appendHistory(ctx context.Context, params types.Params, bet types.HistoricalBet) error {
	head, next, err := k.historyBounds(ctx)
	if err != nil {
		return err
	}

	if next-head >= params.HistoricalBetsMaxStorageSize {
		batch := params.HistoricalBetsClearBatchSize
		if batch > next-head {
			batch = next - head
		}
		for i := head; i < head+batch; i++ {
			if err := k.HistoricalBets.Remove(ctx, i); err != nil {
				return err
			}
		}
		head += batch
		if err := k.HistoricalBetsHead.Set(ctx, head); err != nil {
			return err
		}

		k.Logger(ctx).Info("evicted historical bets", "count", batch, "head", head)
		sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeHistoryEvicted,
				sdk.NewAttribute(types.AttributeKeyEvicted, strconv.FormatUint(batch, 10)),
			),
		)
	}

	idx, err := k.HistoricalBetsSeq.Next(ctx)
	if err != nil {
		return err
	}
	return k.HistoricalBets.Set(ctx, idx, bet)
}

// walkHistory visits retained records from the newest to the oldest.
func (k Keeper) walkHistory(ctx context.Context, fn func(bet types.HistoricalBet) (stop bool)) error {
	rng := new(collections.Range[uint64]).Descending()
	return k.HistoricalBets.Walk(ctx, rng, func(_ uint64, bet types.HistoricalBet) (bool, error) {
		return fn(bet), nil
	})
}
