package wsserver

import (
	"fmt"
	"strings"
)

// Message type constants for WebSocket protocol
const (
	// Client -> Server message types
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypePing        = "ping"

	// Server -> Client event types
	EventState        = "state"        // Current bets of the topic on subscribe
	EventSubscribed   = "subscribed"   // Acknowledgment of a subscription
	EventUnsubscribed = "unsubscribed" // Acknowledgment of an unsubscription
	EventError        = "error"        // Error message
	EventPong         = "pong"         // Response to ping
)

// Topic kinds a client can follow
const (
	TopicBet     = "bet"
	TopicAddress = "address"
)

// ClientMessage from client
type ClientMessage struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// Topic is a parsed subscription target: "bet:<bet id>" or "address:<bech32>".
type Topic struct {
	Kind string
	ID   string
}

func (t Topic) String() string {
	return t.Kind + ":" + t.ID
}

// ParseTopic parses "bet:<id>" or "address:<addr>". Bet ids are lower-cased.
func ParseTopic(s string) (Topic, error) {
	kind, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || id == "" {
		return Topic{}, fmt.Errorf("topic must look like bet:<id> or address:<addr>, got %q", s)
	}
	switch kind {
	case TopicBet:
		return Topic{Kind: TopicBet, ID: strings.ToLower(id)}, nil
	case TopicAddress:
		return Topic{Kind: TopicAddress, ID: id}, nil
	default:
		return Topic{}, fmt.Errorf("unknown topic kind %q", kind)
	}
}
