package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name
	ModuleName = "coinflip"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// FeeCollectorName is the module account receiving transfer tax.
	// Kept in sync with the auth module's fee collector name.
	FeeCollectorName = "fee_collector"
)

var (
	// ParamsKey is the prefix to retrieve the module configuration
	ParamsKey = collections.NewPrefix(0)

	// PendingBetsKey is the prefix for pending bets, keyed by (owner, bet id)
	PendingBetsKey = collections.NewPrefix(1)

	// PendingBetsCountKey is the prefix for the global pending bet counter
	PendingBetsCountKey = collections.NewPrefix(2)

	// OngoingBetsKey is the prefix for accepted bets, keyed by bet id
	OngoingBetsKey = collections.NewPrefix(3)

	// HistoricalBetsKey is the prefix for completed bets, keyed by insertion sequence
	HistoricalBetsKey = collections.NewPrefix(4)

	// HistoricalBetsSeqKey is the prefix for the historical bets insertion sequence
	HistoricalBetsSeqKey = collections.NewPrefix(5)

	// HistoricalBetsHeadKey is the prefix for the index of the oldest retained historical bet
	HistoricalBetsHeadKey = collections.NewPrefix(6)
)
