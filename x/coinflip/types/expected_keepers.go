package types

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the expected interface for the Bank module.
type BankKeeper interface {
	SpendableCoins(context.Context, sdk.AccAddress) sdk.Coins
	SendCoinsFromAccountToModule(context.Context, sdk.AccAddress, string, sdk.Coins) error
	SendCoinsFromModuleToAccount(context.Context, string, sdk.AccAddress, sdk.Coins) error
	SendCoinsFromModuleToModule(context.Context, string, string, sdk.Coins) error
}

// TaxKeeper looks up the transfer tax applied by the host to outgoing transfers.
// A zero rate means the denom is not taxed.
type TaxKeeper interface {
	TaxFor(ctx context.Context, denom string) (rate math.LegacyDec, taxCap math.Int, err error)
}
