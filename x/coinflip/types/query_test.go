package types

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestPageLimit(t *testing.T) {
	require.Equal(t, DefaultQueryLimit, PageLimit(0))
	require.Equal(t, 5, PageLimit(5))
	require.Equal(t, MaxQueryLimit, PageLimit(MaxQueryLimit))
	require.Equal(t, MaxQueryLimit, PageLimit(MaxQueryLimit+1))
}

func TestPendingBetsFilterMatches(t *testing.T) {
	bet := PendingBet{
		Owner:                  "b52owner",
		BetId:                  "id",
		BlocksUntilLiquidation: 200,
		Asset:                  NewAsset("uusdc", math.NewInt(5_000)),
	}
	from := math.NewInt(1_000)
	to := math.NewInt(4_999)
	low := uint64(150)
	high := uint64(199)

	tests := []struct {
		name   string
		filter PendingBetsFilter
		want   bool
	}{
		{name: "empty filter", filter: PendingBetsFilter{}, want: true},
		{name: "denom listed without bounds", filter: PendingBetsFilter{Assets: []AssetFilter{{Denom: "uusdc"}}}, want: true},
		{name: "other denom only", filter: PendingBetsFilter{Assets: []AssetFilter{{Denom: "uatom"}}}, want: false},
		{name: "above lower bound", filter: PendingBetsFilter{Assets: []AssetFilter{{Denom: "uusdc", BetSizeFrom: &from}}}, want: true},
		{name: "above upper bound", filter: PendingBetsFilter{Assets: []AssetFilter{{Denom: "uusdc", BetSizeTo: &to}}}, want: false},
		{name: "duration above lower bound", filter: PendingBetsFilter{Liquidation: &LiquidationFilter{BlocksUntilLiquidationFrom: &low}}, want: true},
		{name: "duration above upper bound", filter: PendingBetsFilter{Liquidation: &LiquidationFilter{BlocksUntilLiquidationTo: &high}}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.filter.Matches(bet))
		})
	}
}

func TestPendingBetsSortLess(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	older := PendingBet{Asset: NewAsset("uusdc", math.NewInt(10)), CreatedAt: now}
	newer := PendingBet{Asset: NewAsset("uusdc", math.NewInt(5)), CreatedAt: now.Add(time.Second)}

	require.True(t, PendingBetsSort{Field: SortByCreation, Asc: true}.Less(older, newer))
	require.True(t, PendingBetsSort{Field: SortByCreation}.Less(newer, older))
	require.True(t, PendingBetsSort{Field: SortByPrice, Asc: true}.Less(newer, older))
	require.True(t, PendingBetsSort{Field: SortByPrice}.Less(older, newer))

	require.NoError(t, PendingBetsFilter{SortBy: PendingBetsSort{Field: SortByPrice}}.Validate())
	require.Error(t, PendingBetsFilter{SortBy: PendingBetsSort{Field: "owner"}}.Validate())
}
