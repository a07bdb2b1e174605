package keeper

import (
	"context"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (k msgServer) AcceptBet(ctx context.Context, msg *types.MsgAcceptBet) (*types.MsgAcceptBetResponse, error) {
	responderAddr, responder, err := k.canonicalAddress(msg.Responder)
	if err != nil {
		return nil, err
	}
	_, owner, err := k.canonicalAddress(msg.BetOwner)
	if err != nil {
		return nil, err
	}
	if responder == owner {
		return nil, types.ErrSelfPlay
	}

	betId, err := normalizeHash("bet_id", msg.BetId)
	if err != nil {
		return nil, err
	}

	var ongoing types.OngoingBet
	err = k.atomically(ctx, func(ctx sdk.Context) error {
		params, err := k.Params.Get(ctx)
		if err != nil {
			return errorsmod.Wrap(err, "failed to load params")
		}

		pending, err := k.findPendingBet(ctx, owner, betId, types.ErrBetCanceledOrAccepted)
		if err != nil {
			return err
		}

		stake, err := types.AssetFromCoins(msg.Funds)
		if err != nil {
			return err
		}
		if !stake.Equal(pending.Asset) {
			return errorsmod.Wrapf(types.ErrResponderAssetMismatch, "expected %s, got %s", pending.Asset, stake)
		}

		side, err := types.FlipSideFromUint(uint64(msg.Side))
		if err != nil {
			return err
		}

		ongoing, err = types.NewOngoingBet(pending, responder, side, stake, blockHeight(ctx), params.BlocksForResponderLiquidation)
		if err != nil {
			return err
		}

		exists, err := k.OngoingBets.Has(ctx, betId)
		if err != nil {
			return err
		}
		if exists {
			return errorsmod.Wrapf(types.ErrBetAlreadyExists, "ongoing bet %s", betId)
		}

		if err := k.PendingBets.Remove(ctx, collections.Join(owner, betId)); err != nil {
			return errorsmod.Wrap(err, "failed to remove pending bet")
		}
		if err := k.OngoingBets.Set(ctx, betId, ongoing); err != nil {
			return errorsmod.Wrap(err, "failed to store ongoing bet")
		}
		if err := k.adjustPendingCount(ctx, -1); err != nil {
			return err
		}
		if err := k.escrow(ctx, responderAddr, stake); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(ongoingBetEvent(types.EventTypeBetAccepted, ongoing))
		k.Logger(ctx).Info("bet accepted",
			"bet_id", betId,
			"owner", owner,
			"responder", responder,
			"liquidation_block", ongoing.LiquidationBlock,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgAcceptBetResponse{Bet: ongoing}, nil
}
