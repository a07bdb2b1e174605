package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	"github.com/block52/coinflipchain/pkg/indexer"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

// query runs fn against the ledger and writes its result.
func (s *Server) query(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, qs types.QueryServer) (any, error)) {
	var resp any
	err := s.ledger.Query(r.Context(), func(ctx context.Context, qs types.QueryServer) error {
		var err error
		resp, err = fn(ctx, qs)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Status())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.Config(ctx, &types.QueryConfigRequest{})
	})
}

func (s *Server) handlePendingBetsCount(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PendingBetsCount(ctx, &types.QueryPendingBetsCountRequest{})
	})
}

func (s *Server) handlePendingBet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PendingBet(ctx, &types.QueryPendingBetRequest{Address: vars["address"], BetId: vars["bet_id"]})
	})
}

func (s *Server) handlePendingBets(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePendingBetsFilter(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PendingBets(ctx, &types.QueryPendingBetsRequest{Filter: filter})
	})
}

func (s *Server) handleOngoingBet(w http.ResponseWriter, r *http.Request) {
	betId := mux.Vars(r)["bet_id"]
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.OngoingBet(ctx, &types.QueryOngoingBetRequest{BetId: betId})
	})
}

func (s *Server) handlePublicLiquidatable(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePage(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	exclude := r.URL.Query().Get("exclude_address")
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PublicLiquidatable(ctx, &types.QueryPublicLiquidatableRequest{Skip: skip, Limit: limit, ExcludeAddress: exclude})
	})
}

func (s *Server) handlePendingBetsByAddr(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PendingBetsByAddr(ctx, &types.QueryPendingBetsByAddrRequest{Address: addr})
	})
}

func (s *Server) handleOngoingBetsByAddr(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.OngoingBetsByAddr(ctx, &types.QueryOngoingBetsByAddrRequest{Address: addr})
	})
}

func (s *Server) handleHistoricalBets(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePage(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	addr := mux.Vars(r)["address"]
	s.query(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.HistoricalBets(ctx, &types.QueryHistoricalBetsRequest{Address: addr, Skip: skip, Limit: limit})
	})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Code: http.StatusNotFound, Category: types.CategoryStateConflict, Message: "archive is disabled"})
		return
	}
	skip, limit, err := parsePage(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if limit == 0 || limit > 100 {
		limit = 100
	}
	records, err := s.archive.ByAddress(r.Context(), mux.Vars(r)["address"], int(limit), int(skip))
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []indexer.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// BalancesResponse lists the coins held by an address.
type BalancesResponse struct {
	Address  string    `json:"address"`
	Balances sdk.Coins `json:"balances"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	coins, err := s.ledger.Balances(r.Context(), addr)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, BalancesResponse{Address: addr, Balances: coins})
}

func parseUint32(values url.Values, key string) (uint32, error) {
	v := values.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return uint32(n), nil
}

func parseUint64(values url.Values, key string) (*uint64, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &n, nil
}

func parsePage(values url.Values) (skip, limit uint32, err error) {
	if skip, err = parseUint32(values, "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = parseUint32(values, "limit"); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

// parseAmount parses an optional bound of an asset filter.
func parseAmount(s string) (*math.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := math.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &v, nil
}

// parsePendingBetsFilter reads skip, limit, exclude_address, asset (repeatable,
// denom[:from[:to]]), liquidation_from, liquidation_to, sort and order.
func parsePendingBetsFilter(values url.Values) (types.PendingBetsFilter, error) {
	var (
		f   types.PendingBetsFilter
		err error
	)
	if f.Skip, f.Limit, err = parsePage(values); err != nil {
		return f, err
	}
	f.ExcludeAddress = values.Get("exclude_address")

	for _, spec := range values["asset"] {
		parts := strings.Split(spec, ":")
		if len(parts) > 3 || parts[0] == "" {
			return f, fmt.Errorf("asset must look like denom[:from[:to]], got %q", spec)
		}
		af := types.AssetFilter{Denom: parts[0]}
		if len(parts) > 1 {
			if af.BetSizeFrom, err = parseAmount(parts[1]); err != nil {
				return f, err
			}
		}
		if len(parts) > 2 {
			if af.BetSizeTo, err = parseAmount(parts[2]); err != nil {
				return f, err
			}
		}
		f.Assets = append(f.Assets, af)
	}

	from, err := parseUint64(values, "liquidation_from")
	if err != nil {
		return f, err
	}
	to, err := parseUint64(values, "liquidation_to")
	if err != nil {
		return f, err
	}
	if from != nil || to != nil {
		f.Liquidation = &types.LiquidationFilter{BlocksUntilLiquidationFrom: from, BlocksUntilLiquidationTo: to}
	}

	f.SortBy.Field = types.SortField(values.Get("sort"))
	switch values.Get("order") {
	case "", "desc":
	case "asc":
		f.SortBy.Asc = true
	default:
		return f, fmt.Errorf("order must be asc or desc")
	}

	return f, f.Validate()
}
