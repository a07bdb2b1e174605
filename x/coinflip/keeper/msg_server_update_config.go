package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (k msgServer) UpdateConfig(ctx context.Context, msg *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	_, authority, err := k.canonicalAddress(msg.Authority)
	if err != nil {
		return nil, err
	}

	resp := &types.MsgUpdateConfigResponse{}
	err = k.atomically(ctx, func(ctx sdk.Context) error {
		params, err := k.Params.Get(ctx)
		if err != nil {
			return errorsmod.Wrap(err, "failed to load params")
		}
		if authority != params.Owner {
			return errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the owner", authority)
		}

		if err := k.SetParams(ctx, msg.Update.Apply(params)); err != nil {
			return err
		}

		updated, err := k.Params.Get(ctx)
		if err != nil {
			return err
		}
		resp.Params = updated

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeConfigUpdated,
			sdk.NewAttribute(types.AttributeKeyAction, "update_config"),
			sdk.NewAttribute(types.AttributeKeySender, authority),
		))
		k.Logger(ctx).Info("config updated", "owner", updated.Owner, "treasury", updated.Treasury)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
