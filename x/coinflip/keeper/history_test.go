package keeper_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// completeBet runs a bet from proposal to resolution at height and returns its id.
func (f *fixture) completeBet(t *testing.T, height int64, n int) string {
	t.Helper()
	secret := fmt.Sprintf("0_bet%d", n)

	f.setHeight(height)
	betId := f.propose(t, f.creator, secret, 100, 1_000_000)
	f.accept(t, f.responder, f.creator, betId, types.Tails, 1_000_000)
	_, err := f.ms.ResolveBet(f.ctx, types.NewMsgResolveBet(f.creator, betId, secret))
	require.NoError(t, err)
	return betId
}

func TestHistoryEvictsOldestBatch(t *testing.T) {
	f := initFixture(t)
	p := f.params()
	p.HistoricalBetsMaxStorageSize = 3
	p.HistoricalBetsClearBatchSize = 2
	require.NoError(t, f.keeper.SetParams(f.ctx, p))

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, f.completeBet(t, int64(10+i), i))
	}
	n, err := f.keeper.HistoryLen(f.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	ids = append(ids, f.completeBet(t, 20, 3))
	n, err = f.keeper.HistoryLen(f.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)

	resp, err := f.qs.HistoricalBets(f.ctx, &types.QueryHistoricalBetsRequest{Address: f.creator})
	require.NoError(t, err)
	require.Len(t, resp.History, 2)
	require.Equal(t, ids[3], resp.History[0].BetId)
	require.Equal(t, ids[2], resp.History[1].BetId)

	ids = append(ids, f.completeBet(t, 21, 4))
	n, err = f.keeper.HistoryLen(f.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	// full again: the next append evicts exactly two
	f.completeBet(t, 22, 5)
	n, err = f.keeper.HistoryLen(f.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)

	resp, err = f.qs.HistoricalBets(f.ctx, &types.QueryHistoricalBetsRequest{Address: f.responder})
	require.NoError(t, err)
	require.Len(t, resp.History, 2)
	require.Equal(t, ids[4], resp.History[1].BetId)
}

func TestHistoryBatchEqualToMax(t *testing.T) {
	f := initFixture(t)
	p := f.params()
	p.HistoricalBetsMaxStorageSize = 2
	p.HistoricalBetsClearBatchSize = 2
	require.NoError(t, f.keeper.SetParams(f.ctx, p))

	f.completeBet(t, 10, 0)
	f.completeBet(t, 11, 1)
	last := f.completeBet(t, 12, 2)

	n, err := f.keeper.HistoryLen(f.ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)

	resp, err := f.qs.HistoricalBets(f.ctx, &types.QueryHistoricalBetsRequest{Address: f.creator})
	require.NoError(t, err)
	require.Len(t, resp.History, 1)
	require.Equal(t, last, resp.History[0].BetId)
}
