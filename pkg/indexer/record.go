package indexer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

// Record is an archived completed bet.
type Record struct {
	BetId         string    `json:"bet_id"`
	Owner         string    `json:"owner"`
	Responder     string    `json:"responder"`
	Winner        string    `json:"winner"`
	Liquidator    string    `json:"liquidator,omitempty"`
	ResponderSide string    `json:"responder_side"`
	Denom         string    `json:"denom"`
	Amount        string    `json:"amount"`
	Outcome       string    `json:"outcome"`
	Height        int64     `json:"height"`
	CreatedAt     time.Time `json:"created_at"`
	CompletedAt   time.Time `json:"completed_at"`
}

// RecordFromEvent builds a Record from a bet_resolved or bet_liquidated
// event. It reports false for any other event.
func RecordFromEvent(height int64, e ledger.Event) (Record, bool, error) {
	if e.Type != types.EventTypeBetResolved && e.Type != types.EventTypeBetLiquidated {
		return Record{}, false, nil
	}

	a := e.Attributes
	r := Record{
		BetId:         a[types.AttributeKeyBetId],
		Owner:         a[types.AttributeKeyOwner],
		Responder:     a[types.AttributeKeyResponder],
		Winner:        a[types.AttributeKeyWinner],
		Liquidator:    a[types.AttributeKeyLiquidator],
		ResponderSide: a[types.AttributeKeyResponderSide],
		Denom:         a[types.AttributeKeyDenom],
		Amount:        a[types.AttributeKeyAmount],
		Outcome:       a[types.AttributeKeyOutcome],
		Height:        height,
	}
	if r.BetId == "" || r.Owner == "" || r.Winner == "" {
		return Record{}, true, fmt.Errorf("%s event is missing bet_id, owner or winner", e.Type)
	}

	var err error
	if r.CreatedAt, err = unixAttr(a, types.AttributeKeyCreatedAt); err != nil {
		return Record{}, true, err
	}
	if r.CompletedAt, err = unixAttr(a, types.AttributeKeyCompletedAt); err != nil {
		return Record{}, true, err
	}
	return r, true, nil
}

func unixAttr(attrs map[string]string, key string) (time.Time, error) {
	sec, err := strconv.ParseInt(attrs[key], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s attribute %q", key, attrs[key])
	}
	return time.Unix(sec, 0).UTC(), nil
}
