package keeper

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

var _ types.QueryServer = queryServer{}

// NewQueryServerImpl returns an implementation of the QueryServer interface
// for the provided Keeper.
func NewQueryServerImpl(k Keeper) types.QueryServer {
	return queryServer{k}
}

type queryServer struct {
	k Keeper
}

func (q queryServer) Config(ctx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	params, err := q.k.Params.Get(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &types.QueryConfigResponse{Params: params}, nil
}

func (q queryServer) PendingBetsCount(ctx context.Context, req *types.QueryPendingBetsCountRequest) (*types.QueryPendingBetsCountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	count, err := q.k.GetPendingBetsCount(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryPendingBetsCountResponse{Count: count}, nil
}

// queryAddress canonicalizes an address given to a query.
func (q queryServer) queryAddress(addr string) (string, error) {
	if addr == "" {
		return "", status.Error(codes.InvalidArgument, "address cannot be empty")
	}
	_, canonical, err := q.k.canonicalAddress(addr)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	return canonical, nil
}

// page applies skip and limit to n items, returning the [start, end) window.
func page(n int, skip uint32, limit uint32) (int, int) {
	start := int(skip)
	if start > n {
		start = n
	}
	end := start + types.PageLimit(limit)
	if end > n {
		end = n
	}
	return start, end
}
