package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
)

const (
	// DefaultQueryLimit is the page size used when a list query sets no limit.
	DefaultQueryLimit = 10
	// MaxQueryLimit caps the page size of list queries.
	MaxQueryLimit = 100
)

// PageLimit clamps a requested page size to (0, MaxQueryLimit].
func PageLimit(limit uint32) int {
	if limit == 0 {
		return DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return int(limit)
}

// SortField selects the ordering of pending bet listings.
type SortField string

const (
	SortByCreation SortField = "creation"
	SortByPrice    SortField = "price"
)

// PendingBetsSort orders pending bet listings by creation time or stake size.
type PendingBetsSort struct {
	Field SortField `json:"field"`
	Asc   bool      `json:"asc"`
}

// AssetFilter bounds the stake of listed bets for one denom. Nil bounds are open.
type AssetFilter struct {
	Denom       string    `json:"denom"`
	BetSizeFrom *math.Int `json:"bet_size_from,omitempty"`
	BetSizeTo   *math.Int `json:"bet_size_to,omitempty"`
}

// LiquidationFilter bounds the requested duration of listed bets.
type LiquidationFilter struct {
	BlocksUntilLiquidationFrom *uint64 `json:"blocks_until_liquidation_from,omitempty"`
	BlocksUntilLiquidationTo   *uint64 `json:"blocks_until_liquidation_to,omitempty"`
}

// PendingBetsFilter selects pending bets across all owners. When Assets is
// non-empty only bets in one of the listed denoms match.
type PendingBetsFilter struct {
	Skip           uint32             `json:"skip"`
	Limit          uint32             `json:"limit,omitempty"`
	ExcludeAddress string             `json:"exclude_address,omitempty"`
	Assets         []AssetFilter      `json:"assets,omitempty"`
	Liquidation    *LiquidationFilter `json:"liquidation,omitempty"`
	SortBy         PendingBetsSort    `json:"sort_by"`
}

// Validate rejects unknown sort fields.
func (f PendingBetsFilter) Validate() error {
	switch f.SortBy.Field {
	case "", SortByCreation, SortByPrice:
		return nil
	default:
		return fmt.Errorf("unknown sort field %q", f.SortBy.Field)
	}
}

// Matches reports whether bet passes the asset and liquidation bounds. The
// excluded address is compared by the caller.
func (f PendingBetsFilter) Matches(bet PendingBet) bool {
	if len(f.Assets) > 0 {
		found := false
		for _, af := range f.Assets {
			if af.Denom != bet.Asset.Denom {
				continue
			}
			found = true
			if af.BetSizeFrom != nil && bet.Asset.Amount.LT(*af.BetSizeFrom) {
				return false
			}
			if af.BetSizeTo != nil && bet.Asset.Amount.GT(*af.BetSizeTo) {
				return false
			}
		}
		if !found {
			return false
		}
	}

	if l := f.Liquidation; l != nil {
		if l.BlocksUntilLiquidationFrom != nil && bet.BlocksUntilLiquidation < *l.BlocksUntilLiquidationFrom {
			return false
		}
		if l.BlocksUntilLiquidationTo != nil && bet.BlocksUntilLiquidation > *l.BlocksUntilLiquidationTo {
			return false
		}
	}

	return true
}

// Less orders a before b according to the sort settings.
func (s PendingBetsSort) Less(a, b PendingBet) bool {
	if s.Field == SortByPrice {
		if s.Asc {
			return a.Asset.Amount.LT(b.Asset.Amount)
		}
		return a.Asset.Amount.GT(b.Asset.Amount)
	}
	if s.Asc {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Params Params `json:"params"`
}

type QueryPendingBetsByAddrRequest struct {
	Address string `json:"address"`
}

type QueryPendingBetsByAddrResponse struct {
	Bets []PendingBet `json:"bets"`
}

type QueryPendingBetRequest struct {
	Address string `json:"address"`
	BetId   string `json:"bet_id"`
}

type QueryPendingBetResponse struct {
	Bet PendingBet `json:"bet"`
}

type QueryPendingBetsRequest struct {
	Filter PendingBetsFilter `json:"filter"`
}

type QueryPendingBetsResponse struct {
	Bets []PendingBet `json:"bets"`
}

type QueryPendingBetsCountRequest struct{}

type QueryPendingBetsCountResponse struct {
	Count uint64 `json:"count"`
}

type QueryOngoingBetRequest struct {
	BetId string `json:"bet_id"`
}

type QueryOngoingBetResponse struct {
	Bet OngoingBet `json:"bet"`
}

type QueryOngoingBetsByAddrRequest struct {
	Address string `json:"address"`
}

type QueryOngoingBetsByAddrResponse struct {
	Bets []OngoingBet `json:"bets"`
}

type QueryPublicLiquidatableRequest struct {
	Skip           uint32 `json:"skip"`
	Limit          uint32 `json:"limit,omitempty"`
	ExcludeAddress string `json:"exclude_address,omitempty"`
}

type QueryPublicLiquidatableResponse struct {
	Bets []OngoingBet `json:"bets"`
}

type QueryHistoricalBetsRequest struct {
	Address string `json:"address"`
	Skip    uint32 `json:"skip"`
	Limit   uint32 `json:"limit,omitempty"`
}

type QueryHistoricalBetsResponse struct {
	History []HistoricalBet `json:"history"`
}

// QueryServer is the read-only surface of the module.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	PendingBetsByAddr(context.Context, *QueryPendingBetsByAddrRequest) (*QueryPendingBetsByAddrResponse, error)
	PendingBet(context.Context, *QueryPendingBetRequest) (*QueryPendingBetResponse, error)
	PendingBets(context.Context, *QueryPendingBetsRequest) (*QueryPendingBetsResponse, error)
	PendingBetsCount(context.Context, *QueryPendingBetsCountRequest) (*QueryPendingBetsCountResponse, error)
	OngoingBet(context.Context, *QueryOngoingBetRequest) (*QueryOngoingBetResponse, error)
	OngoingBetsByAddr(context.Context, *QueryOngoingBetsByAddrRequest) (*QueryOngoingBetsByAddrResponse, error)
	PublicLiquidatable(context.Context, *QueryPublicLiquidatableRequest) (*QueryPublicLiquidatableResponse, error)
	HistoricalBets(context.Context, *QueryHistoricalBetsRequest) (*QueryHistoricalBetsResponse, error)
}
