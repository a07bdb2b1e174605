package keeper_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/core/address"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/block52/coinflipchain/x/coinflip/keeper"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

const testDenom = "uusdc"

var genesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	ctx          sdk.Context
	keeper       keeper.Keeper
	ms           types.MsgServer
	qs           types.QueryServer
	bank         *mockBankKeeper
	tax          *mockTaxKeeper
	addressCodec address.Codec

	owner      string
	treasury   string
	creator    string
	responder  string
	liquidator string
}

func initFixture(t *testing.T) *fixture {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	addressCodec := addresscodec.NewBech32Codec("b52")
	bank := newMockBankKeeper()
	tax := &mockTaxKeeper{rates: map[string]math.LegacyDec{}, caps: map[string]math.Int{}}

	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), addressCodec, bank, tax)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockHeight(1).
		WithBlockTime(genesisTime)

	f := &fixture{
		ctx:          ctx,
		keeper:       *k,
		ms:           keeper.NewMsgServerImpl(*k),
		qs:           keeper.NewQueryServerImpl(*k),
		bank:         bank,
		tax:          tax,
		addressCodec: addressCodec,
	}
	f.owner = f.addr(t, "owner")
	f.treasury = f.addr(t, "treasury")
	f.creator = f.addr(t, "creator")
	f.responder = f.addr(t, "responder")
	f.liquidator = f.addr(t, "liquidator")

	require.NoError(t, k.SetParams(ctx, f.params()))

	for _, a := range []string{f.creator, f.responder, f.liquidator} {
		f.fund(t, a, 100_000_000)
	}

	return f
}

// params mirrors a deployment with a 1% fee and a 90/7/3 liquidation split.
func (f *fixture) params() types.Params {
	p := types.DefaultParams()
	p.Owner = f.owner
	p.Treasury = f.treasury
	p.TreasuryTaxPercent = 1
	p.MinBetAmounts = []types.CoinLimit{{Denom: testDenom, MinAmount: math.NewInt(1_000_000)}}
	p.MinBlocksUntilLiquidation = 100
	p.MaxBlocksUntilLiquidation = 500
	p.BlocksForResponderLiquidation = 20
	p.BetResponderLiquidationPercent = 90
	p.BetLiquidatorPercent = 7
	p.TreasuryLiquidationPercent = 3
	return p
}

func (f *fixture) addr(t *testing.T, name string) string {
	t.Helper()
	bz := make([]byte, 20)
	copy(bz, name)
	s, err := f.addressCodec.BytesToString(bz)
	require.NoError(t, err)
	return s
}

func (f *fixture) accAddr(t *testing.T, bech string) sdk.AccAddress {
	t.Helper()
	bz, err := f.addressCodec.StringToBytes(bech)
	require.NoError(t, err)
	return bz
}

func (f *fixture) fund(t *testing.T, bech string, amount int64) {
	t.Helper()
	f.bank.credit(accountKey(f.accAddr(t, bech)), sdk.NewCoins(sdk.NewInt64Coin(testDenom, amount)))
}

func (f *fixture) balance(t *testing.T, bech string) math.Int {
	t.Helper()
	return f.bank.balances[accountKey(f.accAddr(t, bech))].AmountOf(testDenom)
}

func (f *fixture) setHeight(height int64) {
	f.ctx = f.ctx.
		WithBlockHeight(height).
		WithBlockTime(genesisTime.Add(time.Duration(height) * 5 * time.Second))
}

func (f *fixture) propose(t *testing.T, creator, secret string, duration uint64, amount int64) string {
	t.Helper()
	resp, err := f.ms.ProposeBet(f.ctx, types.NewMsgProposeBet(
		creator, types.CommitmentOf(secret), duration, sdk.NewCoins(sdk.NewInt64Coin(testDenom, amount)),
	))
	require.NoError(t, err)
	return resp.BetId
}

func (f *fixture) accept(t *testing.T, responder, owner, betId string, side types.FlipSide, amount int64) types.OngoingBet {
	t.Helper()
	resp, err := f.ms.AcceptBet(f.ctx, types.NewMsgAcceptBet(
		responder, owner, betId, side, sdk.NewCoins(sdk.NewInt64Coin(testDenom, amount)),
	))
	require.NoError(t, err)
	return resp.Bet
}

func coins(amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewInt64Coin(testDenom, amount))
}

func accountKey(addr sdk.AccAddress) string {
	return "account:" + string(addr)
}

func moduleKey(name string) string {
	return "module:" + name
}

// mockBankKeeper keeps balances in memory and rejects overdrafts.
type mockBankKeeper struct {
	balances map[string]sdk.Coins
}

func newMockBankKeeper() *mockBankKeeper {
	return &mockBankKeeper{balances: map[string]sdk.Coins{}}
}

func (m *mockBankKeeper) credit(key string, amt sdk.Coins) {
	m.balances[key] = m.balances[key].Add(amt...)
}

func (m *mockBankKeeper) move(from, to string, amt sdk.Coins) error {
	remaining, negative := m.balances[from].SafeSub(amt...)
	if negative {
		return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s is smaller than %s", m.balances[from], amt)
	}
	m.balances[from] = remaining
	m.credit(to, amt)
	return nil
}

func (m *mockBankKeeper) SpendableCoins(_ context.Context, addr sdk.AccAddress) sdk.Coins {
	return m.balances[accountKey(addr)]
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, from sdk.AccAddress, module string, amt sdk.Coins) error {
	return m.move(accountKey(from), moduleKey(module), amt)
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, module string, to sdk.AccAddress, amt sdk.Coins) error {
	return m.move(moduleKey(module), accountKey(to), amt)
}

func (m *mockBankKeeper) SendCoinsFromModuleToModule(_ context.Context, from, to string, amt sdk.Coins) error {
	return m.move(moduleKey(from), moduleKey(to), amt)
}

func (m *mockBankKeeper) module(name string) math.Int {
	return m.balances[moduleKey(name)].AmountOf(testDenom)
}

type mockTaxKeeper struct {
	rates map[string]math.LegacyDec
	caps  map[string]math.Int
}

func (m *mockTaxKeeper) TaxFor(_ context.Context, denom string) (math.LegacyDec, math.Int, error) {
	rate, ok := m.rates[denom]
	if !ok {
		return math.LegacyZeroDec(), math.ZeroInt(), nil
	}
	return rate, m.caps[denom], nil
}

func TestSetParamsCanonicalizesAddresses(t *testing.T) {
	f := initFixture(t)

	p := f.params()
	p.Owner = "not-an-address"
	require.ErrorIs(t, f.keeper.SetParams(f.ctx, p), types.ErrInvalidConfig)

	p = f.params()
	p.HistoricalBetsClearBatchSize = 0
	require.ErrorIs(t, f.keeper.SetParams(f.ctx, p), types.ErrInvalidConfig)

	stored, err := f.keeper.GetParams(f.ctx)
	require.NoError(t, err)
	require.Equal(t, f.owner, stored.Owner)
}
