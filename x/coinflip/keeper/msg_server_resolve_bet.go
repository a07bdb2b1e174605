package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (k msgServer) ResolveBet(ctx context.Context, msg *types.MsgResolveBet) (*types.MsgResolveBetResponse, error) {
	if err := requireNoFunds(msg.Funds); err != nil {
		return nil, err
	}

	_, caller, err := k.canonicalAddress(msg.Creator)
	if err != nil {
		return nil, err
	}

	betId, err := normalizeHash("bet_id", msg.BetId)
	if err != nil {
		return nil, err
	}

	resp := &types.MsgResolveBetResponse{}
	err = k.atomically(ctx, func(ctx sdk.Context) error {
		params, err := k.Params.Get(ctx)
		if err != nil {
			return errorsmod.Wrap(err, "failed to load params")
		}

		bet, err := k.findOngoingBet(ctx, betId, types.ErrBetAlreadyLiquidated)
		if err != nil {
			return err
		}
		if caller != bet.Creator {
			return types.ErrOnlyCreatorCanResolve
		}
		if types.CommitmentOf(msg.Passphrase) != bet.Commitment {
			return types.ErrCommitmentMismatch
		}

		winner := bet.Creator
		if types.ResolveOutcome(msg.Passphrase, bet.ResponderSide) == types.RoleResponder {
			winner = bet.Responder
		}

		winnerPayee, err := k.payeeOf(winner)
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
			Winner:        winner,
			ResponderSide: bet.ResponderSide,
			Asset:         bet.Asset,
			Outcome:       types.OutcomeResolved,
			CreatedAt:     bet.CreatedAt,
			CompletedAt:   ctx.BlockTime(),
		}

		if err := k.OngoingBets.Remove(ctx, betId); err != nil {
			return errorsmod.Wrap(err, "failed to remove ongoing bet")
		}
		if err := k.appendHistory(ctx, params, history); err != nil {
			return errorsmod.Wrap(err, "failed to record history")
		}

		transfers, err := k.settle(ctx, bet.Asset, []payee{winnerPayee, treasury}, params.ResolveSplit())
		if err != nil {
			return err
		}

		resp.Transfers = transfers
		resp.History = history

		ctx.EventManager().EmitEvent(historicalBetEvent(types.EventTypeBetResolved, history))
		k.Logger(ctx).Info("bet resolved", "bet_id", betId, "winner", winner, "pot", bet.Asset.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (k Keeper) payeeOf(address string) (payee, error) {
	addr, canonical, err := k.canonicalAddress(address)
	if err != nil {
		return payee{}, err
	}
	return payee{addr: addr, address: canonical}, nil
}
