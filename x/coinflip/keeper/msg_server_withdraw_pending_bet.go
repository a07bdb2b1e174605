package keeper

import (
	"context"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (k msgServer) WithdrawPendingBet(ctx context.Context, msg *types.MsgWithdrawPendingBet) (*types.MsgWithdrawPendingBetResponse, error) {
	if err := requireNoFunds(msg.Funds); err != nil {
		return nil, err
	}

	creatorAddr, creator, err := k.canonicalAddress(msg.Creator)
	if err != nil {
		return nil, err
	}

	betId, err := normalizeHash("bet_id", msg.BetId)
	if err != nil {
		return nil, err
	}

	resp := &types.MsgWithdrawPendingBetResponse{Transfers: []types.Transfer{}}
	err = k.atomically(ctx, func(ctx sdk.Context) error {
		bet, err := k.findPendingBet(ctx, creator, betId, types.ErrBetAlreadyAccepted)
		if err != nil {
			return err
		}

		if err := k.PendingBets.Remove(ctx, collections.Join(creator, betId)); err != nil {
			return errorsmod.Wrap(err, "failed to remove pending bet")
		}
		if err := k.adjustPendingCount(ctx, -1); err != nil {
			return err
		}

		transfer, err := k.payout(ctx, payee{addr: creatorAddr, address: creator}, bet.Asset)
		if err != nil {
			return err
		}
		if transfer != nil {
			resp.Transfers = append(resp.Transfers, *transfer)
		}

		ctx.EventManager().EmitEvent(pendingBetEvent(types.EventTypeBetWithdrawn, bet))
		k.Logger(ctx).Info("pending bet withdrawn", "bet_id", betId, "owner", creator)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
