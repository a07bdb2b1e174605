package ledger

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// Event is a flattened module event.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Block is the batch of events of one committed height: delivered messages,
// credited deposits and the end blocker, in that order.
type Block struct {
	Height int64     `json:"height"`
	Time   time.Time `json:"time"`
	Events []Event   `json:"events"`
}

// bankEvents are the x/bank bookkeeping events. Subscribers follow bets and
// deposits; balances are queried directly.
var bankEvents = map[string]bool{
	banktypes.EventTypeTransfer:     true,
	banktypes.EventTypeCoinSpent:    true,
	banktypes.EventTypeCoinReceived: true,
	banktypes.EventTypeCoinMint:     true,
	banktypes.EventTypeCoinBurn:     true,
	sdk.EventTypeMessage:            true,
}

func convertEvents(events sdk.Events) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if bankEvents[e.Type] {
			continue
		}
		attrs := make(map[string]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Key] = a.Value
		}
		out = append(out, Event{Type: e.Type, Attributes: attrs})
	}
	return out
}

// Subscribe returns a channel receiving every committed block that carries
// events, and a function that cancels the subscription. Delivery is at most
// once: a subscriber whose buffer is full misses the block instead of
// stalling block production.
func (l *Ledger) Subscribe() (<-chan Block, func()) {
	l.subsMu.Lock()
	defer l.subsMu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan Block, l.cfg.EventBuffer)
	l.subs[id] = ch

	return ch, func() {
		l.subsMu.Lock()
		defer l.subsMu.Unlock()
		if ch, ok := l.subs[id]; ok {
			close(ch)
			delete(l.subs, id)
		}
	}
}

func (l *Ledger) publish(b Block) {
	if len(b.Events) == 0 {
		return
	}

	l.subsMu.Lock()
	defer l.subsMu.Unlock()

	for id, ch := range l.subs {
		select {
		case ch <- b:
		default:
			l.logger.Warn("dropping events for slow subscriber", "subscriber", id, "height", b.Height)
		}
	}
}
