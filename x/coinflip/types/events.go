package types

// Event types emitted by the coinflip module.
const (
	EventTypeBetProposed     = "bet_proposed"
	EventTypeBetAccepted     = "bet_accepted"
	EventTypeBetResolved     = "bet_resolved"
	EventTypeBetLiquidated   = "bet_liquidated"
	EventTypeBetWithdrawn    = "bet_withdrawn"
	EventTypeBetLiquidatable = "bet_liquidatable"
	EventTypeConfigUpdated   = "config_updated"
	EventTypeHistoryEvicted  = "history_evicted"
)

// Event attribute keys.
const (
	AttributeKeyAction                 = "action"
	AttributeKeySender                 = "sender"
	AttributeKeyBetId                  = "bet_id"
	AttributeKeyCommitment             = "commitment"
	AttributeKeyOwner                  = "owner"
	AttributeKeyResponder              = "responder"
	AttributeKeyWinner                 = "winner"
	AttributeKeyLiquidator             = "liquidator"
	AttributeKeyResponderSide          = "responder_side"
	AttributeKeyDenom                  = "denom"
	AttributeKeyAmount                 = "amount"
	AttributeKeyOutcome                = "outcome"
	AttributeKeyCreatedAt              = "created_at"
	AttributeKeyCompletedAt            = "completed_at"
	AttributeKeyStartBlock             = "started_at_block"
	AttributeKeyBlocksUntilLiquidation = "blocks_until_liquidation"
	AttributeKeyLiquidationBlock       = "liquidation_block"
	AttributeKeyResponderGapBlock      = "responder_liquidation_blocks_gap"
	AttributeKeyWindow                 = "window"
	AttributeKeyEvicted                = "evicted"
)

// Liquidation windows reported by bet_liquidatable events.
const (
	WindowResponder = "responder"
	WindowPublic    = "public"
)
