package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func unixString(sec int64) string {
	return strconv.FormatInt(sec, 10)
}

func pendingBetEvent(eventType string, bet types.PendingBet) sdk.Event {
	return sdk.NewEvent(
		eventType,
		sdk.NewAttribute(types.AttributeKeyBetId, bet.BetId),
		sdk.NewAttribute(types.AttributeKeyOwner, bet.Owner),
		sdk.NewAttribute(types.AttributeKeyCommitment, bet.Commitment),
		sdk.NewAttribute(types.AttributeKeyBlocksUntilLiquidation, strconv.FormatUint(bet.BlocksUntilLiquidation, 10)),
		sdk.NewAttribute(types.AttributeKeyDenom, bet.Asset.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, bet.Asset.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyCreatedAt, unixString(bet.CreatedAt.Unix())),
	)
}

func ongoingBetEvent(eventType string, bet types.OngoingBet) sdk.Event {
	return sdk.NewEvent(
		eventType,
		sdk.NewAttribute(types.AttributeKeyBetId, bet.BetId),
		sdk.NewAttribute(types.AttributeKeyCommitment, bet.Commitment),
		sdk.NewAttribute(types.AttributeKeyOwner, bet.Creator),
		sdk.NewAttribute(types.AttributeKeyResponder, bet.Responder),
		sdk.NewAttribute(types.AttributeKeyResponderSide, bet.ResponderSide.String()),
		sdk.NewAttribute(types.AttributeKeyDenom, bet.Asset.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, bet.Asset.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyStartBlock, strconv.FormatUint(bet.StartBlock, 10)),
		sdk.NewAttribute(types.AttributeKeyBlocksUntilLiquidation, strconv.FormatUint(bet.BlocksUntilLiquidation, 10)),
		sdk.NewAttribute(types.AttributeKeyLiquidationBlock, strconv.FormatUint(bet.LiquidationBlock, 10)),
		sdk.NewAttribute(types.AttributeKeyResponderGapBlock, strconv.FormatUint(bet.ResponderGapBlock, 10)),
		sdk.NewAttribute(types.AttributeKeyCreatedAt, unixString(bet.CreatedAt.Unix())),
	)
}

func historicalBetEvent(eventType string, bet types.HistoricalBet) sdk.Event {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyBetId, bet.BetId),
		sdk.NewAttribute(types.AttributeKeyOwner, bet.Owner),
		sdk.NewAttribute(types.AttributeKeyResponder, bet.Responder),
		sdk.NewAttribute(types.AttributeKeyWinner, bet.Winner),
	}
	if bet.Liquidator != "" {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyLiquidator, bet.Liquidator))
	}
	attrs = append(attrs,
		sdk.NewAttribute(types.AttributeKeyResponderSide, bet.ResponderSide.String()),
		sdk.NewAttribute(types.AttributeKeyDenom, bet.Asset.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, bet.Asset.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyOutcome, bet.Outcome.String()),
		sdk.NewAttribute(types.AttributeKeyCreatedAt, unixString(bet.CreatedAt.Unix())),
		sdk.NewAttribute(types.AttributeKeyCompletedAt, unixString(bet.CompletedAt.Unix())),
	)
	return sdk.NewEvent(eventType, attrs...)
}
