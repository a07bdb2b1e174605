package keeper

import (
	"context"
	"errors"
	"strings"

	"cosmossdk.io/collections"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

func (q queryServer) OngoingBet(ctx context.Context, req *types.QueryOngoingBetRequest) (*types.QueryOngoingBetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	if req.BetId == "" {
		return nil, status.Error(codes.InvalidArgument, "bet ID cannot be empty")
	}

	bet, err := q.k.OngoingBets.Get(ctx, strings.ToLower(req.BetId))
	if errors.Is(err, collections.ErrNotFound) {
		return nil, status.Error(codes.NotFound, "ongoing bet not found")
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryOngoingBetResponse{Bet: bet}, nil
}

func (q queryServer) OngoingBetsByAddr(ctx context.Context, req *types.QueryOngoingBetsByAddrRequest) (*types.QueryOngoingBetsByAddrResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	addr, err := q.queryAddress(req.Address)
	if err != nil {
		return nil, err
	}

	bets := []types.OngoingBet{}
	err = q.k.OngoingBets.Walk(ctx, nil, func(_ string, bet types.OngoingBet) (bool, error) {
		if bet.Involves(addr) {
			bets = append(bets, bet)
		}
		return false, nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryOngoingBetsByAddrResponse{Bets: bets}, nil
}

// PublicLiquidatable lists bets that any caller may liquidate at the current
// height, that is bets whose responder gap block has passed.
func (q queryServer) PublicLiquidatable(ctx context.Context, req *types.QueryPublicLiquidatableRequest) (*types.QueryPublicLiquidatableResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	var exclude string
	if req.ExcludeAddress != "" {
		var err error
		if exclude, err = q.queryAddress(req.ExcludeAddress); err != nil {
			return nil, err
		}
	}

	height := blockHeight(sdk.UnwrapSDKContext(ctx))
	limit := types.PageLimit(req.Limit)
	skip := int(req.Skip)

	bets := []types.OngoingBet{}
	err := q.k.OngoingBets.Walk(ctx, nil, func(_ string, bet types.OngoingBet) (bool, error) {
		if bet.ResponderGapBlock >= height || bet.Creator == exclude {
			return false, nil
		}
		if skip > 0 {
			skip--
			return false, nil
		}
		bets = append(bets, bet)
		return len(bets) >= limit, nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryPublicLiquidatableResponse{Bets: bets}, nil
}
