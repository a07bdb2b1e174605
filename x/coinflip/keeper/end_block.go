package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// EmitLiquidationNotices emits a bet_liquidatable event for every ongoing bet
// whose responder or public liquidation window opens at the next height.
func (k Keeper) EmitLiquidationNotices(ctx context.Context) (int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := blockHeight(sdkCtx)

	var notices int
	err := k.OngoingBets.Walk(ctx, nil, func(_ string, bet types.OngoingBet) (bool, error) {
		var window string
		switch height {
		case bet.LiquidationBlock:
			window = types.WindowResponder
		case bet.ResponderGapBlock:
			window = types.WindowPublic
		default:
			return false, nil
		}

		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeBetLiquidatable,
			sdk.NewAttribute(types.AttributeKeyBetId, bet.BetId),
			sdk.NewAttribute(types.AttributeKeyOwner, bet.Creator),
			sdk.NewAttribute(types.AttributeKeyResponder, bet.Responder),
			sdk.NewAttribute(types.AttributeKeyWindow, window),
			sdk.NewAttribute(types.AttributeKeyLiquidationBlock, strconv.FormatUint(bet.LiquidationBlock, 10)),
			sdk.NewAttribute(types.AttributeKeyResponderGapBlock, strconv.FormatUint(bet.ResponderGapBlock, 10)),
		))
		notices++
		return false, nil
	})
	return notices, err
}
