package indexer_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/block52/coinflipchain/pkg/indexer"
	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

func resolvedEvent(betID string) ledger.Event {
	return ledger.Event{
		Type: types.EventTypeBetResolved,
		Attributes: map[string]string{
			types.AttributeKeyBetId:         betID,
			types.AttributeKeyOwner:         "b52owner",
			types.AttributeKeyResponder:     "b52responder",
			types.AttributeKeyWinner:        "b52owner",
			types.AttributeKeyResponderSide: "tails",
			types.AttributeKeyDenom:         "uusdc",
			types.AttributeKeyAmount:        "1000000",
			types.AttributeKeyOutcome:       "resolved",
			types.AttributeKeyCreatedAt:     "1700000000",
			types.AttributeKeyCompletedAt:   "1700000060",
		},
	}
}

func TestRecordFromEvent(t *testing.T) {
	r, ok, err := indexer.RecordFromEvent(12, resolvedEvent("bet-1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "bet-1", r.BetId)
	require.Equal(t, int64(12), r.Height)
	require.Equal(t, "tails", r.ResponderSide)
	require.Empty(t, r.Liquidator)
	require.Equal(t, time.Unix(1700000060, 0).UTC(), r.CompletedAt)

	_, ok, err = indexer.RecordFromEvent(12, ledger.Event{Type: types.EventTypeBetProposed})
	require.NoError(t, err)
	require.False(t, ok)

	bad := resolvedEvent("bet-2")
	bad.Attributes[types.AttributeKeyCreatedAt] = "yesterday"
	_, ok, err = indexer.RecordFromEvent(12, bad)
	require.True(t, ok)
	require.ErrorContains(t, err, "created_at")

	bad = resolvedEvent("")
	_, _, err = indexer.RecordFromEvent(12, bad)
	require.Error(t, err)
}

type memArchive struct {
	mu      sync.Mutex
	records []indexer.Record
	fail    error
}

func (m *memArchive) Insert(_ context.Context, r indexer.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memArchive) snapshot() []indexer.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]indexer.Record(nil), m.records...)
}

type chanSource struct {
	ch chan ledger.Block
}

func (s chanSource) Subscribe() (<-chan ledger.Block, func()) {
	return s.ch, func() {}
}

func TestIndexerArchivesCompletedBets(t *testing.T) {
	src := chanSource{ch: make(chan ledger.Block, 4)}
	archive := &memArchive{}
	ix := indexer.New(archive, src, log.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ix.Run(ctx) }()

	malformed := resolvedEvent("bet-bad")
	delete(malformed.Attributes, types.AttributeKeyCompletedAt)
	src.ch <- ledger.Block{Height: 5, Events: []ledger.Event{
		{Type: types.EventTypeBetAccepted},
		resolvedEvent("bet-1"),
		malformed,
	}}
	src.ch <- ledger.Block{Height: 6, Events: []ledger.Event{resolvedEvent("bet-2")}}

	require.Eventually(t, func() bool { return len(archive.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	got := archive.snapshot()
	require.Equal(t, "bet-1", got[0].BetId)
	require.Equal(t, int64(6), got[1].Height)

	close(src.ch)
	require.ErrorIs(t, <-done, indexer.ErrSubscriptionClosed)
}

func TestIndexerStopsOnArchiveError(t *testing.T) {
	src := chanSource{ch: make(chan ledger.Block, 1)}
	boom := errors.New("disk full")
	ix := indexer.New(&memArchive{fail: boom}, src, log.NewNopLogger())

	src.ch <- ledger.Block{Height: 3, Events: []ledger.Event{resolvedEvent("bet-1")}}
	require.ErrorIs(t, ix.Run(context.Background()), boom)
}

// TestStorePostgres runs against a live database when COINFLIP_TEST_POSTGRES_DSN is set.
func TestStorePostgres(t *testing.T) {
	dsn := os.Getenv("COINFLIP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("COINFLIP_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := indexer.NewStore(ctx, indexer.Config{Enabled: true, DSN: dsn})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.RunMigrations(ctx))
	require.NoError(t, store.RunMigrations(ctx))

	betID := "bet-" + time.Now().Format("150405.000000000")
	r, _, err := indexer.RecordFromEvent(9, resolvedEvent(betID))
	require.NoError(t, err)
	r.Owner = "b52owner-" + betID
	require.NoError(t, store.Insert(ctx, r))
	require.NoError(t, store.Insert(ctx, r))

	got, err := store.ByAddress(ctx, r.Owner, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, betID, got[0].BetId)
	require.Equal(t, "1000000", got[0].Amount)
}
