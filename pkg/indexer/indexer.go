package indexer

import (
	"context"
	"errors"

	"cosmossdk.io/log"

	"github.com/block52/coinflipchain/pkg/ledger"
)

// Archive is where completed bets are written.
type Archive interface {
	Insert(ctx context.Context, r Record) error
}

// Source publishes ledger blocks.
type Source interface {
	Subscribe() (<-chan ledger.Block, func())
}

// ErrSubscriptionClosed is returned by Run when the ledger stops publishing.
var ErrSubscriptionClosed = errors.New("indexer: ledger subscription closed")

// Indexer copies resolved and liquidated bets into an Archive.
type Indexer struct {
	archive Archive
	source  Source
	logger  log.Logger
}

func New(archive Archive, source Source, logger log.Logger) *Indexer {
	return &Indexer{
		archive: archive,
		source:  source,
		logger:  logger.With("module", "indexer"),
	}
}

// Run consumes ledger blocks until ctx is done.
func (ix *Indexer) Run(ctx context.Context) error {
	blocks, cancel := ix.source.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-blocks:
			if !ok {
				return ErrSubscriptionClosed
			}
			if err := ix.index(ctx, b); err != nil {
				return err
			}
		}
	}
}

func (ix *Indexer) index(ctx context.Context, b ledger.Block) error {
	for _, e := range b.Events {
		r, ok, err := RecordFromEvent(b.Height, e)
		if !ok {
			continue
		}
		if err != nil {
			ix.logger.Error("skipping malformed event", "height", b.Height, "type", e.Type, "err", err)
			continue
		}
		if err := ix.archive.Insert(ctx, r); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		ix.logger.Debug("archived bet", "bet_id", r.BetId, "outcome", r.Outcome, "height", b.Height)
	}
	return nil
}
