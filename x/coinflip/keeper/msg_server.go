package keeper

import (
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
// for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// normalizeHash lower-cases a hex digest supplied by a caller and checks that it
// is a SHA-256 digest.
func normalizeHash(field, value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if len(v) != 64 {
		return "", errorsmod.Wrapf(types.ErrInvalidRequest, "%s must be a 64 character hex digest", field)
	}
	if _, err := hex.DecodeString(v); err != nil {
		return "", errorsmod.Wrapf(types.ErrInvalidRequest, "%s must be a 64 character hex digest", field)
	}
	return v, nil
}

func requireNoFunds(funds sdk.Coins) error {
	if !funds.Empty() {
		return errorsmod.Wrapf(types.ErrFundsNotAllowed, "got %s", funds)
	}
	return nil
}

func blockHeight(ctx sdk.Context) uint64 {
	if h := ctx.BlockHeight(); h > 0 {
		return uint64(h)
	}
	return 0
}
