package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (k msgServer) ProposeBet(ctx context.Context, msg *types.MsgProposeBet) (*types.MsgProposeBetResponse, error) {
	creatorAddr, creator, err := k.canonicalAddress(msg.Creator)
	if err != nil {
		return nil, err
	}

	commitment, err := normalizeHash("commitment", msg.Commitment)
	if err != nil {
		return nil, err
	}

	stake, err := types.AssetFromCoins(msg.Funds)
	if err != nil {
		return nil, err
	}

	var betId string
	err = k.atomically(ctx, func(ctx sdk.Context) error {
		params, err := k.Params.Get(ctx)
		if err != nil {
			return errorsmod.Wrap(err, "failed to load params")
		}

		count, err := k.countPendingByOwner(ctx, creator)
		if err != nil {
			return err
		}
		if err := params.ValidatePlaceBetInputs(msg.BlocksUntilLiquidation, count, stake); err != nil {
			return err
		}

		betId = types.BetIdentifier(ctx.BlockHeight(), ctx.BlockTime(), commitment)
		key := collections.Join(creator, betId)
		exists, err := k.PendingBets.Has(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return errorsmod.Wrapf(types.ErrBetAlreadyExists, "bet %s", betId)
		}

		bet := types.PendingBet{
			Owner:                  creator,
			BetId:                  betId,
			Commitment:             commitment,
			BlocksUntilLiquidation: msg.BlocksUntilLiquidation,
			Asset:                  stake,
			CreatedAt:              ctx.BlockTime(),
		}
		if err := k.PendingBets.Set(ctx, key, bet); err != nil {
			return errorsmod.Wrap(err, "failed to store pending bet")
		}
		if err := k.adjustPendingCount(ctx, 1); err != nil {
			return err
		}
		if err := k.escrow(ctx, creatorAddr, stake); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(pendingBetEvent(types.EventTypeBetProposed, bet))
		k.Logger(ctx).Info("bet proposed", "bet_id", betId, "owner", creator, "asset", stake.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgProposeBetResponse{BetId: betId}, nil
}

// findPendingBet loads a pending bet, mapping a missing record to notFound.
func (k Keeper) findPendingBet(ctx context.Context, owner, betId string, notFound error) (types.PendingBet, error) {
	bet, err := k.PendingBets.Get(ctx, collections.Join(owner, betId))
	if errors.Is(err, collections.ErrNotFound) {
		return types.PendingBet{}, errorsmod.Wrapf(notFound, "bet %s", betId)
	}
	return bet, err
}

// findOngoingBet loads an ongoing bet, mapping a missing record to notFound.
func (k Keeper) findOngoingBet(ctx context.Context, betId string, notFound error) (types.OngoingBet, error) {
	bet, err := k.OngoingBets.Get(ctx, betId)
	if errors.Is(err, collections.ErrNotFound) {
		return types.OngoingBet{}, errorsmod.Wrapf(notFound, "bet %s", betId)
	}
	return bet, err
}
