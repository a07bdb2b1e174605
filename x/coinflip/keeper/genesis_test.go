package keeper_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func TestGenesisRoundTrip(t *testing.T) {
	f := initFixture(t)

	f.setHeight(10)
	pending := f.propose(t, f.creator, "0_pending", 200, 1_000_000)
	ongoing := f.propose(t, f.creator, "0_ongoing", 200, 1_000_000)
	f.accept(t, f.responder, f.creator, ongoing, types.Heads, 1_000_000)
	f.completeBet(t, 20, 1)

	exported, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.PendingBets, 1)
	require.Equal(t, pending, exported.PendingBets[0].BetId)
	require.Len(t, exported.OngoingBets, 1)
	require.Equal(t, ongoing, exported.OngoingBets[0].BetId)
	require.Len(t, exported.HistoricalBets, 1)

	g := initFixture(t)
	require.NoError(t, g.keeper.InitGenesis(g.ctx, *exported))

	count, err := g.keeper.GetPendingBetsCount(g.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)

	reexported, err := g.keeper.ExportGenesis(g.ctx)
	require.NoError(t, err)
	require.Equal(t, exported.Params, reexported.Params)
	require.Equal(t, exported.PendingBets[0].BetId, reexported.PendingBets[0].BetId)
	require.Equal(t, exported.OngoingBets[0].LiquidationBlock, reexported.OngoingBets[0].LiquidationBlock)
	require.Equal(t, exported.HistoricalBets[0].BetId, reexported.HistoricalBets[0].BetId)

	n, err := g.keeper.HistoryLen(g.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
}

func TestGenesisExportAfterShrinkingHistory(t *testing.T) {
	f := initFixture(t)
	for i := 0; i < 5; i++ {
		f.completeBet(t, int64(10+i), i)
	}

	maxSize, batch := uint64(3), uint64(1)
	_, err := f.ms.UpdateConfig(f.ctx, &types.MsgUpdateConfig{
		Authority: f.owner,
		Update:    types.ConfigUpdate{HistoricalBetsMaxStorageSize: &maxSize, HistoricalBetsClearBatchSize: &batch},
	})
	require.NoError(t, err)
	f.completeBet(t, 20, 5)

	exported, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)
	require.Len(t, exported.HistoricalBets, 5)
	require.NoError(t, exported.Validate())

	g := initFixture(t)
	require.NoError(t, g.keeper.InitGenesis(g.ctx, *exported))
	n, err := g.keeper.HistoryLen(g.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)

	// the imported history keeps shrinking one batch per append
	g.completeBet(t, 30, 6)
	n, err = g.keeper.HistoryLen(g.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)
}

func TestInitGenesisCanonicalizesAddresses(t *testing.T) {
	f := initFixture(t)
	f.setHeight(10)
	betId := f.propose(t, f.creator, "1_upper", 200, 1_000_000)
	f.accept(t, f.responder, f.creator, betId, types.Heads, 1_000_000)
	f.completeBet(t, 11, 1)

	exported, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)
	exported.OngoingBets[0].Creator = strings.ToUpper(f.creator)
	exported.OngoingBets[0].Responder = strings.ToUpper(f.responder)
	exported.HistoricalBets[0].Owner = strings.ToUpper(f.creator)
	exported.HistoricalBets[0].Winner = strings.ToUpper(f.creator)

	g := initFixture(t)
	require.NoError(t, g.keeper.InitGenesis(g.ctx, *exported))

	reexported, err := g.keeper.ExportGenesis(g.ctx)
	require.NoError(t, err)
	require.Equal(t, f.creator, reexported.OngoingBets[0].Creator)
	require.Equal(t, f.responder, reexported.OngoingBets[0].Responder)
	require.Equal(t, f.creator, reexported.HistoricalBets[0].Owner)
	require.Equal(t, f.creator, reexported.HistoricalBets[0].Winner)

	// the creator can still resolve the imported bet
	g.bank.credit(moduleKey(types.ModuleName), coins(2_000_000))
	g.setHeight(12)
	resp, err := g.ms.ResolveBet(g.ctx, types.NewMsgResolveBet(f.creator, betId, "1_upper"))
	require.NoError(t, err)
	require.Equal(t, f.creator, resp.History.Winner)

	exported.OngoingBets[0].Creator = "not-an-address"
	h := initFixture(t)
	require.ErrorIs(t, h.keeper.InitGenesis(h.ctx, *exported), types.ErrInvalidAddress)
}
