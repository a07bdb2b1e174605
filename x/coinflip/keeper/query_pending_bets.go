package keeper

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cosmossdk.io/collections"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (q queryServer) PendingBetsByAddr(ctx context.Context, req *types.QueryPendingBetsByAddrRequest) (*types.QueryPendingBetsByAddrResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	owner, err := q.queryAddress(req.Address)
	if err != nil {
		return nil, err
	}

	bets, err := q.k.pendingBetsOf(ctx, owner)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryPendingBetsByAddrResponse{Bets: bets}, nil
}

func (q queryServer) PendingBet(ctx context.Context, req *types.QueryPendingBetRequest) (*types.QueryPendingBetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	owner, err := q.queryAddress(req.Address)
	if err != nil {
		return nil, err
	}

	bet, err := q.k.PendingBets.Get(ctx, collections.Join(owner, strings.ToLower(req.BetId)))
	if errors.Is(err, collections.ErrNotFound) {
		return nil, status.Error(codes.NotFound, "pending bet not found")
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryPendingBetResponse{Bet: bet}, nil
}

func (q queryServer) PendingBets(ctx context.Context, req *types.QueryPendingBetsRequest) (*types.QueryPendingBetsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	filter := req.Filter
	if err := filter.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var exclude string
	if filter.ExcludeAddress != "" {
		var err error
		if exclude, err = q.queryAddress(filter.ExcludeAddress); err != nil {
			return nil, err
		}
	}

	bets := []types.PendingBet{}
	err := q.k.PendingBets.Walk(ctx, nil, func(_ collections.Pair[string, string], bet types.PendingBet) (bool, error) {
		if bet.Owner != exclude && filter.Matches(bet) {
			bets = append(bets, bet)
		}
		return false, nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	sort.SliceStable(bets, func(i, j int) bool {
		return filter.SortBy.Less(bets[i], bets[j])
	})

	start, end := page(len(bets), filter.Skip, filter.Limit)
	return &types.QueryPendingBetsResponse{Bets: bets[start:end]}, nil
}
