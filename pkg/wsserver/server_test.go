package wsserver_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/pkg/wsserver"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

func TestParseTopic(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
		err  bool
	}{
		{in: "bet:ABCDEF", want: "bet:abcdef"},
		{in: " address:b52xyz ", want: "address:b52xyz"},
		{in: "bet:", err: true},
		{in: "game:1", err: true},
		{in: "nothing", err: true},
	} {
		topic, err := wsserver.ParseTopic(tc.in)
		if tc.err {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, topic.String())
	}
}

func newLedger(t *testing.T) (*ledger.Ledger, string) {
	t.Helper()
	cfg := ledger.DefaultConfig()
	l, err := ledger.New(cfg, log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	bz := make([]byte, 20)
	copy(bz, "owner")
	owner, err := l.AddressCodec().BytesToString(bz)
	require.NoError(t, err)
	copy(bz, "creator")
	creator, err := l.AddressCodec().BytesToString(bz)
	require.NoError(t, err)

	g, err := ledger.DefaultGenesis(cfg.ChainID, owner)
	require.NoError(t, err)
	g.Balances = []ledger.Balance{{Address: creator, Coins: sdk.NewCoins(sdk.NewInt64Coin("uusdc", 10_000_000))}}
	require.NoError(t, l.InitChain(g))
	_, err = l.Commit(time.Now())
	require.NoError(t, err)
	return l, creator
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) wsserver.BetUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var update wsserver.BetUpdate
	require.NoError(t, conn.ReadJSON(&update))
	return update
}

func startHub(t *testing.T, l *ledger.Ledger) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := wsserver.NewHub(wsserver.DefaultConfig(), l)
	go hub.Run(ctx)

	router := mux.NewRouter()
	hub.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestHubStreamsAddressEvents(t *testing.T) {
	l, creator := newLedger(t)
	srv := startHub(t, l)

	conn := dial(t, srv, "/ws/address/"+creator)
	require.Equal(t, wsserver.EventSubscribed, read(t, conn).Event)
	state := read(t, conn)
	require.Equal(t, wsserver.EventState, state.Event)
	require.Contains(t, string(state.Data), `"pending":[]`)

	resp, err := l.Deliver(context.Background(), types.NewMsgProposeBet(
		creator, types.CommitmentOf("0_ws"), 200, sdk.NewCoins(sdk.NewInt64Coin("uusdc", 1_000_000)),
	))
	require.NoError(t, err)
	_, err = l.Commit(time.Now())
	require.NoError(t, err)

	update := read(t, conn)
	require.Equal(t, types.EventTypeBetProposed, update.Event)
	require.Equal(t, "address:"+creator, update.Topic)
	require.Equal(t, resp.(*types.MsgProposeBetResponse).BetId, update.Attributes[types.AttributeKeyBetId])
}

func TestHubClientProtocol(t *testing.T) {
	l, _ := newLedger(t)
	srv := startHub(t, l)
	conn := dial(t, srv, "/ws")

	require.NoError(t, conn.WriteJSON(wsserver.ClientMessage{Type: wsserver.MsgTypePing}))
	require.Equal(t, wsserver.EventPong, read(t, conn).Event)

	require.NoError(t, conn.WriteJSON(wsserver.ClientMessage{Type: wsserver.MsgTypeSubscribe, Topic: "game:1"}))
	bad := read(t, conn)
	require.Equal(t, wsserver.EventError, bad.Event)
	require.Contains(t, bad.Error, "unknown topic kind")

	betId := types.CommitmentOf("missing")
	require.NoError(t, conn.WriteJSON(wsserver.ClientMessage{Type: wsserver.MsgTypeSubscribe, Topic: "bet:" + betId}))
	require.Equal(t, wsserver.EventSubscribed, read(t, conn).Event)
	state := read(t, conn)
	require.Equal(t, wsserver.EventState, state.Event)
	require.Equal(t, "null", string(state.Data))

	require.NoError(t, conn.WriteJSON(wsserver.ClientMessage{Type: wsserver.MsgTypeUnsubscribe, Topic: "bet:" + betId}))
	require.Equal(t, wsserver.EventUnsubscribed, read(t, conn).Event)
}
