package keeper

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// HistoricalBets lists the retained completed bets of an address, newest first.
func (q queryServer) HistoricalBets(ctx context.Context, req *types.QueryHistoricalBetsRequest) (*types.QueryHistoricalBetsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	addr, err := q.queryAddress(req.Address)
	if err != nil {
		return nil, err
	}

	limit := types.PageLimit(req.Limit)
	skip := int(req.Skip)

	history := []types.HistoricalBet{}
	err = q.k.walkHistory(ctx, func(bet types.HistoricalBet) bool {
		if !bet.Involves(addr) {
			return false
		}
		if skip > 0 {
			skip--
			return false
		}
		history = append(history, bet)
		return len(history) >= limit
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryHistoricalBetsResponse{History: history}, nil
}
