package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/block52/coinflipchain/pkg/api"
	"github.com/block52/coinflipchain/pkg/indexer"
	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

type account struct {
	key  *secp256k1.PrivKey
	addr string
}

type fixture struct {
	ledger    *ledger.Ledger
	srv       *httptest.Server
	owner     account
	creator   account
	responder account
}

func newAccount(t *testing.T, l *ledger.Ledger, seed string) account {
	t.Helper()
	key := secp256k1.GenPrivKeyFromSecret([]byte(seed))
	addr, err := l.AddressCodec().BytesToString(key.PubKey().Address())
	require.NoError(t, err)
	return account{key: key, addr: addr}
}

func initFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := ledger.DefaultConfig()
	l, err := ledger.New(cfg, log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	f := &fixture{ledger: l}
	f.owner = newAccount(t, l, "owner")
	f.creator = newAccount(t, l, "creator")
	f.responder = newAccount(t, l, "responder")

	g, err := ledger.DefaultGenesis(cfg.ChainID, f.owner.addr)
	require.NoError(t, err)
	g.Balances = []ledger.Balance{
		{Address: f.creator.addr, Coins: sdk.NewCoins(sdk.NewInt64Coin("uusdc", 10_000_000))},
		{Address: f.responder.addr, Coins: sdk.NewCoins(sdk.NewInt64Coin("uusdc", 10_000_000))},
	}
	require.NoError(t, l.InitChain(g))
	_, err = l.Commit(time.Now())
	require.NoError(t, err)

	f.srv = httptest.NewServer(api.NewServer(api.DefaultConfig(), l).Handler())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) post(t *testing.T, path string, signer *secp256k1.PrivKey, msg any) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	if signer != nil {
		require.NoError(t, api.SignRequest(req, signer, body, time.Now()))
	}
	return f.do(t, req)
}

func (f *fixture) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+path, nil)
	require.NoError(t, err)
	return f.do(t, req)
}

func (f *fixture) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	bz, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, bz
}

func (f *fixture) propose(t *testing.T, secret string) string {
	t.Helper()
	code, bz := f.post(t, "/tx/propose", f.creator.key, types.NewMsgProposeBet(
		f.creator.addr, types.CommitmentOf(secret), 200, sdk.NewCoins(sdk.NewInt64Coin("uusdc", 1_000_000)),
	))
	require.Equal(t, http.StatusOK, code, string(bz))
	var resp types.MsgProposeBetResponse
	require.NoError(t, json.Unmarshal(bz, &resp))
	return resp.BetId
}

func decodeError(t *testing.T, bz []byte) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(bz, &resp))
	return resp
}

func TestProposeAndQuery(t *testing.T) {
	f := initFixture(t)
	betId := f.propose(t, "0_api")

	code, bz := f.get(t, "/bets/pending/"+f.creator.addr+"/"+betId)
	require.Equal(t, http.StatusOK, code, string(bz))
	var pending types.QueryPendingBetResponse
	require.NoError(t, json.Unmarshal(bz, &pending))
	require.Equal(t, types.CommitmentOf("0_api"), pending.Bet.Commitment)

	code, bz = f.get(t, "/bets/pending?asset=uusdc:1000000&sort=price&order=asc")
	require.Equal(t, http.StatusOK, code, string(bz))
	var list types.QueryPendingBetsResponse
	require.NoError(t, json.Unmarshal(bz, &list))
	require.Len(t, list.Bets, 1)

	code, bz = f.get(t, "/bets/pending?exclude_address="+f.creator.addr)
	require.Equal(t, http.StatusOK, code, string(bz))
	require.NoError(t, json.Unmarshal(bz, &list))
	require.Empty(t, list.Bets)

	code, bz = f.get(t, "/bank/balances/"+f.creator.addr)
	require.Equal(t, http.StatusOK, code)
	var balances api.BalancesResponse
	require.NoError(t, json.Unmarshal(bz, &balances))
	require.Equal(t, int64(9_000_000), balances.Balances.AmountOf("uusdc").Int64())

	code, bz = f.get(t, "/status")
	require.Equal(t, http.StatusOK, code)
	var status ledger.Status
	require.NoError(t, json.Unmarshal(bz, &status))
	require.Equal(t, int64(2), status.Height)
}

func TestFullRoundOverHTTP(t *testing.T) {
	f := initFixture(t)
	betId := f.propose(t, "1_round")

	code, bz := f.post(t, "/tx/accept", f.responder.key, types.NewMsgAcceptBet(
		f.responder.addr, f.creator.addr, betId, types.Tails, sdk.NewCoins(sdk.NewInt64Coin("uusdc", 1_000_000)),
	))
	require.Equal(t, http.StatusOK, code, string(bz))

	code, bz = f.get(t, "/accounts/"+f.responder.addr+"/ongoing")
	require.Equal(t, http.StatusOK, code)
	var ongoing types.QueryOngoingBetsByAddrResponse
	require.NoError(t, json.Unmarshal(bz, &ongoing))
	require.Len(t, ongoing.Bets, 1)

	code, bz = f.post(t, "/tx/resolve", f.creator.key, types.NewMsgResolveBet(f.creator.addr, betId, "1_round"))
	require.Equal(t, http.StatusOK, code, string(bz))
	var resolved types.MsgResolveBetResponse
	require.NoError(t, json.Unmarshal(bz, &resolved))
	require.Equal(t, f.responder.addr, resolved.History.Winner)

	code, bz = f.get(t, "/accounts/"+f.creator.addr+"/history?limit=5")
	require.Equal(t, http.StatusOK, code)
	var history types.QueryHistoricalBetsResponse
	require.NoError(t, json.Unmarshal(bz, &history))
	require.Len(t, history.History, 1)
	require.Equal(t, betId, history.History[0].BetId)
}

func TestSignedRequests(t *testing.T) {
	f := initFixture(t)
	msg := types.NewMsgProposeBet(
		f.creator.addr, types.CommitmentOf("0_sig"), 200, sdk.NewCoins(sdk.NewInt64Coin("uusdc", 1_000_000)),
	)

	code, bz := f.post(t, "/tx/propose", nil, msg)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, types.CategoryAuthorization, decodeError(t, bz).Category)

	code, bz = f.post(t, "/tx/propose", f.responder.key, msg)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, types.CategoryAuthorization, decodeError(t, bz).Category)

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/tx/propose", bytes.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, api.SignRequest(req, f.creator.key, body, time.Now().Add(-time.Hour)))
	code, _ = f.do(t, req)
	require.Equal(t, http.StatusUnauthorized, code, "stale timestamp")

	req, err = http.NewRequest(http.MethodPost, f.srv.URL+"/tx/propose", bytes.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, api.SignRequest(req, f.creator.key, body, time.Now()))
	replay := req.Clone(context.Background())
	code, _ = f.do(t, req)
	require.Equal(t, http.StatusOK, code)

	replay.Body = io.NopCloser(bytes.NewReader(body))
	code, bz = f.do(t, replay)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Contains(t, decodeError(t, bz).Message, "already submitted")
}

func TestErrorCategories(t *testing.T) {
	f := initFixture(t)
	betId := f.propose(t, "0_errors")
	stake := sdk.NewCoins(sdk.NewInt64Coin("uusdc", 1_000_000))

	code, bz := f.post(t, "/tx/accept", f.creator.key, types.NewMsgAcceptBet(f.creator.addr, f.creator.addr, betId, types.Heads, stake))
	require.Equal(t, http.StatusForbidden, code)
	resp := decodeError(t, bz)
	require.Equal(t, types.CategoryAuthorization, resp.Category)
	require.Equal(t, types.ModuleName, resp.Codespace)

	code, bz = f.post(t, "/tx/accept", f.responder.key, types.NewMsgAcceptBet(f.responder.addr, f.creator.addr, types.CommitmentOf("missing"), types.Heads, stake))
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, types.CategoryStateConflict, decodeError(t, bz).Category)

	code, bz = f.post(t, "/tx/propose", f.creator.key, types.NewMsgProposeBet(f.creator.addr, types.CommitmentOf("0_short"), 1, stake))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, types.CategoryValidation, decodeError(t, bz).Category)

	code, bz = f.post(t, "/tx/liquidate", f.responder.key, types.NewMsgLiquidateBet(f.responder.addr, betId))
	require.Equal(t, http.StatusConflict, code, string(bz))

	code, _ = f.get(t, "/bets/ongoing/"+types.CommitmentOf("missing"))
	require.Equal(t, http.StatusNotFound, code)

	code, _ = f.get(t, "/accounts/not-an-address/pending")
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = f.get(t, "/bets/pending?order=sideways")
	require.Equal(t, http.StatusBadRequest, code)
}

type stubArchive struct {
	address       string
	limit, offset int
}

func (s *stubArchive) ByAddress(_ context.Context, address string, limit, offset int) ([]indexer.Record, error) {
	s.address, s.limit, s.offset = address, limit, offset
	return []indexer.Record{{BetId: "archived", Owner: address, Outcome: "resolved"}}, nil
}

func TestArchiveRoute(t *testing.T) {
	f := initFixture(t)

	code, _ := f.get(t, "/accounts/"+f.creator.addr+"/archive")
	require.Equal(t, http.StatusNotFound, code)

	archive := &stubArchive{}
	srv := httptest.NewServer(api.NewServer(api.DefaultConfig(), f.ledger).WithArchive(archive).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/accounts/" + f.creator.addr + "/archive?skip=5&limit=500")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []indexer.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	require.Equal(t, "archived", records[0].BetId)
	require.Equal(t, f.creator.addr, archive.address)
	require.Equal(t, 100, archive.limit)
	require.Equal(t, 5, archive.offset)
}
