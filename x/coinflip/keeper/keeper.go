package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

type Keeper struct {
	storeService corestore.KVStoreService
	addressCodec address.Codec

	Schema collections.Schema
	Params collections.Item[types.Params]
	// PendingBets stores proposals keyed by (owner, bet id)
	PendingBets collections.Map[collections.Pair[string, string], types.PendingBet]
	// PendingBetsCount tracks the number of pending bets across all owners
	PendingBetsCount collections.Item[uint64]
	// OngoingBets stores accepted bets keyed by bet id
	OngoingBets collections.Map[string, types.OngoingBet]
	// HistoricalBets stores completed bets keyed by insertion index
	HistoricalBets collections.Map[uint64, types.HistoricalBet]
	// HistoricalBetsSeq is the insertion index of the next completed bet
	HistoricalBetsSeq collections.Sequence
	// HistoricalBetsHead is the insertion index of the oldest retained completed bet
	HistoricalBetsHead collections.Item[uint64]

	bankKeeper types.BankKeeper
	taxKeeper  types.TaxKeeper
}

func NewKeeper(
	storeService corestore.KVStoreService,
	addressCodec address.Codec,

	bankKeeper types.BankKeeper,
	taxKeeper types.TaxKeeper,
) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	k := &Keeper{
		storeService: storeService,
		addressCodec: addressCodec,

		bankKeeper: bankKeeper,
		taxKeeper:  taxKeeper,

		Params:             collections.NewItem(sb, types.ParamsKey, "params", types.JSONValue[types.Params]()),
		PendingBets:        collections.NewMap(sb, types.PendingBetsKey, "pending_bets", collections.PairKeyCodec(collections.StringKey, collections.StringKey), types.JSONValue[types.PendingBet]()),
		PendingBetsCount:   collections.NewItem(sb, types.PendingBetsCountKey, "pending_bets_count", collections.Uint64Value),
		OngoingBets:        collections.NewMap(sb, types.OngoingBetsKey, "ongoing_bets", collections.StringKey, types.JSONValue[types.OngoingBet]()),
		HistoricalBets:     collections.NewMap(sb, types.HistoricalBetsKey, "historical_bets", collections.Uint64Key, types.JSONValue[types.HistoricalBet]()),
		HistoricalBetsSeq:  collections.NewSequence(sb, types.HistoricalBetsSeqKey, "historical_bets_seq"),
		HistoricalBetsHead: collections.NewItem(sb, types.HistoricalBetsHeadKey, "historical_bets_head", collections.Uint64Value),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// AddressCodec returns the codec used to canonicalize account addresses.
func (k Keeper) AddressCodec() address.Codec {
	return k.addressCodec
}

// canonicalAddress decodes addr and re-encodes it, so that stored addresses and
// comparisons always use the canonical bech32 form.
func (k Keeper) canonicalAddress(addr string) (sdk.AccAddress, string, error) {
	bz, err := k.addressCodec.StringToBytes(addr)
	if err != nil {
		return nil, "", errorsmod.Wrapf(types.ErrInvalidAddress, "%s: %s", addr, err)
	}
	canonical, err := k.addressCodec.BytesToString(bz)
	if err != nil {
		return nil, "", errorsmod.Wrapf(types.ErrInvalidAddress, "%s: %s", addr, err)
	}
	return bz, canonical, nil
}

// GetParams returns the current configuration.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	return k.Params.Get(ctx)
}

// SetParams validates and stores p. Owner and treasury must be valid addresses.
func (k Keeper) SetParams(ctx context.Context, p types.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var err error
	if _, p.Owner, err = k.canonicalAddress(p.Owner); err != nil {
		return errorsmod.Wrap(types.ErrInvalidConfig, err.Error())
	}
	if _, p.Treasury, err = k.canonicalAddress(p.Treasury); err != nil {
		return errorsmod.Wrap(types.ErrInvalidConfig, err.Error())
	}

	return k.Params.Set(ctx, p)
}

// atomically runs fn against a branch of the store. Writes and events reach
// the parent context only when fn succeeds.
func (k Keeper) atomically(ctx context.Context, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}
