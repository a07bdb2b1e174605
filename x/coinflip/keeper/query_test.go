package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func TestQueryNilRequests(t *testing.T) {
	f := initFixture(t)

	_, err := f.qs.Config(f.ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = f.qs.PendingBets(f.ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = f.qs.HistoricalBets(f.ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = f.qs.PendingBetsByAddr(f.ctx, &types.QueryPendingBetsByAddrRequest{Address: "bogus"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = f.qs.OngoingBet(f.ctx, &types.QueryOngoingBetRequest{BetId: types.CommitmentOf("x")})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestQueryPendingBets(t *testing.T) {
	f := initFixture(t)
	other := f.addr(t, "other")
	f.fund(t, other, 100_000_000)

	f.setHeight(10)
	small := f.propose(t, f.creator, "0_small", 100, 1_000_000)
	f.setHeight(11)
	large := f.propose(t, f.responder, "0_large", 300, 5_000_000)
	f.setHeight(12)
	mid := f.propose(t, other, "0_mid", 200, 3_000_000)

	ids := func(bets []types.PendingBet) []string {
		out := make([]string, 0, len(bets))
		for _, b := range bets {
			out = append(out, b.BetId)
		}
		return out
	}

	from := math.NewInt(2_000_000)
	to := math.NewInt(4_000_000)
	minBlocks := uint64(150)

	testCases := []struct {
		name   string
		filter types.PendingBetsFilter
		want   []string
	}{
		{
			name:   "newest first by default",
			filter: types.PendingBetsFilter{},
			want:   []string{mid, large, small},
		},
		{
			name:   "oldest first",
			filter: types.PendingBetsFilter{SortBy: types.PendingBetsSort{Field: types.SortByCreation, Asc: true}},
			want:   []string{small, large, mid},
		},
		{
			name:   "cheapest first",
			filter: types.PendingBetsFilter{SortBy: types.PendingBetsSort{Field: types.SortByPrice, Asc: true}},
			want:   []string{small, mid, large},
		},
		{
			name:   "priciest first",
			filter: types.PendingBetsFilter{SortBy: types.PendingBetsSort{Field: types.SortByPrice}},
			want:   []string{large, mid, small},
		},
		{
			name:   "exclude address",
			filter: types.PendingBetsFilter{ExcludeAddress: f.responder},
			want:   []string{mid, small},
		},
		{
			name:   "amount range",
			filter: types.PendingBetsFilter{Assets: []types.AssetFilter{{Denom: testDenom, BetSizeFrom: &from, BetSizeTo: &to}}},
			want:   []string{mid},
		},
		{
			name:   "liquidation range",
			filter: types.PendingBetsFilter{Liquidation: &types.LiquidationFilter{BlocksUntilLiquidationFrom: &minBlocks}},
			want:   []string{mid, large},
		},
		{
			name:   "skip and limit",
			filter: types.PendingBetsFilter{Skip: 1, Limit: 1},
			want:   []string{large},
		},
		{
			name:   "skip past the end",
			filter: types.PendingBetsFilter{Skip: 10},
			want:   []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := f.qs.PendingBets(f.ctx, &types.QueryPendingBetsRequest{Filter: tc.filter})
			require.NoError(t, err)
			require.Equal(t, tc.want, ids(resp.Bets))
		})
	}

	count, err := f.qs.PendingBetsCount(f.ctx, &types.QueryPendingBetsCountRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(3), count.Count)
}

func TestQueryPendingBetsDefaultLimit(t *testing.T) {
	f := initFixture(t)
	p := f.params()
	p.MaxBetsByAddr = 20
	require.NoError(t, f.keeper.SetParams(f.ctx, p))

	for i := 0; i < types.DefaultQueryLimit+2; i++ {
		f.propose(t, f.creator, string(rune('a'+i))+"_x", 100, 1_000_000)
	}

	resp, err := f.qs.PendingBets(f.ctx, &types.QueryPendingBetsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Bets, types.DefaultQueryLimit)
}

func TestQueryOngoingAndLiquidatable(t *testing.T) {
	f := initFixture(t)
	other := f.addr(t, "other")
	f.fund(t, other, 100_000_000)

	f.setHeight(10)
	first := f.propose(t, f.creator, "0_first", 100, 1_000_000)
	second := f.propose(t, other, "0_second", 300, 1_000_000)
	f.accept(t, f.responder, f.creator, first, types.Heads, 1_000_000)
	f.accept(t, f.responder, other, second, types.Heads, 1_000_000)

	mine, err := f.qs.OngoingBetsByAddr(f.ctx, &types.QueryOngoingBetsByAddrRequest{Address: f.creator})
	require.NoError(t, err)
	require.Len(t, mine.Bets, 1)
	require.Equal(t, first, mine.Bets[0].BetId)

	theirs, err := f.qs.OngoingBetsByAddr(f.ctx, &types.QueryOngoingBetsByAddrRequest{Address: f.responder})
	require.NoError(t, err)
	require.Len(t, theirs.Bets, 2)

	// first: liquidation 110, gap 130; second: liquidation 310, gap 330
	f.setHeight(130)
	resp, err := f.qs.PublicLiquidatable(f.ctx, &types.QueryPublicLiquidatableRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Bets)

	f.setHeight(131)
	resp, err = f.qs.PublicLiquidatable(f.ctx, &types.QueryPublicLiquidatableRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Bets, 1)
	require.Equal(t, first, resp.Bets[0].BetId)

	resp, err = f.qs.PublicLiquidatable(f.ctx, &types.QueryPublicLiquidatableRequest{ExcludeAddress: f.creator})
	require.NoError(t, err)
	require.Empty(t, resp.Bets)

	f.setHeight(331)
	resp, err = f.qs.PublicLiquidatable(f.ctx, &types.QueryPublicLiquidatableRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Bets, 2)

	resp, err = f.qs.PublicLiquidatable(f.ctx, &types.QueryPublicLiquidatableRequest{Skip: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, resp.Bets, 1)
}
