package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (k msgServer) LiquidateBet(ctx context.Context, msg *types.MsgLiquidateBet) (*types.MsgLiquidateBetResponse, error) {
	if err := requireNoFunds(msg.Funds); err != nil {
		return nil, err
	}

	liquidatorAddr, liquidator, err := k.canonicalAddress(msg.Liquidator)
	if err != nil {
		return nil, err
	}

	betId, err := normalizeHash("bet_id", msg.BetId)
	if err != nil {
		return nil, err
	}

	resp := &types.MsgLiquidateBetResponse{}
	err = k.atomically(ctx, func(ctx sdk.Context) error {
		params, err := k.Params.Get(ctx)
		if err != nil {
			return errorsmod.Wrap(err, "failed to load params")
		}

		bet, err := k.findOngoingBet(ctx, betId, types.ErrBetAlreadyResolved)
		if err != nil {
			return err
		}

		height := blockHeight(ctx)
		if liquidator == bet.Creator {
			return types.ErrCreatorLiquidation
		}
		if height <= bet.LiquidationBlock {
			return errorsmod.Wrapf(types.ErrNotLiquidatableYet, "height %d, liquidation block %d", height, bet.LiquidationBlock)
		}
		if liquidator != bet.Responder && height <= bet.ResponderGapBlock {
			return errorsmod.Wrapf(types.ErrResponderGapNotPassed, "height %d, responder gap block %d", height, bet.ResponderGapBlock)
		}

		responder, err := k.payeeOf(bet.Responder)
		if err != nil {
			return err
		}
		treasury, err := k.payeeOf(params.Treasury)
		if err != nil {
			return err
		}

		history := types.HistoricalBet{
			BetId:         betId,
			Owner:         bet.Creator,
			Responder:     bet.Responder,
			Winner:        bet.Responder,
			Liquidator:    liquidator,
			ResponderSide: bet.ResponderSide,
			Asset:         bet.Asset,
			Outcome:       types.OutcomeLiquidated,
			CreatedAt:     bet.CreatedAt,
			CompletedAt:   ctx.BlockTime(),
		}

		if err := k.OngoingBets.Remove(ctx, betId); err != nil {
			return errorsmod.Wrap(err, "failed to remove ongoing bet")
		}
		if err := k.appendHistory(ctx, params, history); err != nil {
			return errorsmod.Wrap(err, "failed to record history")
		}

		payees := []payee{responder, {addr: liquidatorAddr, address: liquidator}, treasury}
		transfers, err := k.settle(ctx, bet.Asset, payees, params.LiquidationSplit())
		if err != nil {
			return err
		}

		resp.Transfers = transfers
		resp.History = history

		ctx.EventManager().EmitEvent(historicalBetEvent(types.EventTypeBetLiquidated, history))
		k.Logger(ctx).Info("bet liquidated", "bet_id", betId, "liquidator", liquidator, "height", height)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
