package ledger

import (
	"context"
	"fmt"

	"cosmossdk.io/core/address"
	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// MinterName is the module account that mints genesis balances and bridged
// deposits before they are sent to their recipient.
const MinterName = "minter"

// authorityName owns the auth and bank modules. No message ever uses it.
const authorityName = "gov"

// module account permissions
var maccPerms = map[string][]string{
	authtypes.FeeCollectorName: nil,
	types.ModuleName:           nil,
	MinterName:                 {authtypes.Minter},
}

// blockedAddrs lists the module accounts that may not receive payouts. The
// coinflip escrow only receives through SendCoinsFromAccountToModule.
func blockedAddrs() map[string]bool {
	blocked := make(map[string]bool)
	for _, name := range []string{authtypes.FeeCollectorName, MinterName} {
		blocked[authtypes.NewModuleAddress(name).String()] = true
	}
	return blocked
}

func makeCodec() codec.Codec {
	registry := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	return codec.NewProtoCodec(registry)
}

// newBankKeepers builds the x/auth account keeper and the x/bank keeper over
// their own stores.
func newBankKeepers(
	authStore, bankStore corestore.KVStoreService,
	ac address.Codec,
	prefix string,
	logger log.Logger,
) (authkeeper.AccountKeeper, bankkeeper.BaseKeeper, error) {
	authority, err := ac.BytesToString(authtypes.NewModuleAddress(authorityName))
	if err != nil {
		return authkeeper.AccountKeeper{}, bankkeeper.BaseKeeper{}, err
	}

	cdc := makeCodec()
	accounts := authkeeper.NewAccountKeeper(
		cdc,
		authStore,
		authtypes.ProtoBaseAccount,
		maccPerms,
		ac,
		prefix,
		authority,
	)
	bank := bankkeeper.NewBaseKeeper(
		cdc,
		bankStore,
		accounts,
		blockedAddrs(),
		authority,
		logger,
	)
	return accounts, bank, nil
}

// initBank stores the default auth and bank params and creates every module
// account, so that balances imported at genesis land on module accounts
// instead of plain ones.
func (l *Ledger) initBank(ctx context.Context) error {
	if err := l.Accounts.Params.Set(ctx, authtypes.DefaultParams()); err != nil {
		return err
	}
	if err := l.Bank.SetParams(ctx, banktypes.DefaultParams()); err != nil {
		return err
	}
	for name := range maccPerms {
		if acc := l.Accounts.GetModuleAccount(ctx, name); acc == nil {
			return fmt.Errorf("failed to create module account %s", name)
		}
	}
	return nil
}

// mint creates amt through the minter account and hands it to addr.
func (l *Ledger) mint(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if err := l.Bank.MintCoins(ctx, MinterName, amt); err != nil {
		return err
	}
	return l.Bank.SendCoins(ctx, l.Accounts.GetModuleAddress(MinterName), addr, amt)
}
