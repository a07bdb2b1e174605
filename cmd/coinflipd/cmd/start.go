package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/block52/coinflipchain/pkg/api"
	"github.com/block52/coinflipchain/pkg/bridge"
	"github.com/block52/coinflipchain/pkg/indexer"
	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/pkg/wsserver"
)

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the ledger with its API, WebSocket, indexer and bridge services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadNodeConfig(homeDir(cmd))
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runNode(ctx, cfg, logger)
		},
	}
}

func runNode(ctx context.Context, cfg NodeConfig, logger log.Logger) error {
	l, err := openLedger(cfg.Ledger, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Close(); err != nil {
			logger.Error("failed to close ledger", "err", err)
		}
	}()

	apiServer := api.NewServer(cfg.API, l)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Indexer.Enabled {
		store, err := indexer.NewStore(ctx, cfg.Indexer)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.RunMigrations(ctx); err != nil {
			return err
		}
		apiServer.WithArchive(store)
		ix := indexer.New(store, l, logger)
		g.Go(func() error { return ix.Run(ctx) })
	}

	if cfg.Bridge.Enabled {
		client, err := bridge.Dial(ctx, cfg.Bridge)
		if err != nil {
			return err
		}
		defer client.Close()
		svc, err := bridge.NewService(cfg.Bridge, client, l, logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return svc.Run(ctx) })
	}

	g.Go(func() error { return l.Run(ctx) })
	g.Go(func() error { return apiServer.Run(ctx) })
	g.Go(func() error { return wsserver.NewManager(cfg.WebSocket, l).Run(ctx) })

	status := l.Status()
	logger.Info("node started", "chain_id", status.ChainID, "height", status.Height)

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("node stopped")
	return err
}

// openLedger opens the ledger and seeds it from the genesis file when no
// block has been committed yet.
func openLedger(cfg ledger.Config, logger log.Logger) (*ledger.Ledger, error) {
	l, err := ledger.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if l.Initialized() {
		return l, nil
	}

	g, err := ledger.LoadGenesis(cfg.GenesisFile)
	if err == nil {
		err = l.InitChain(g)
	}
	if err == nil {
		_, err = l.Commit(time.Now())
	}
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	logger.Info("initialized ledger from genesis", "file", cfg.GenesisFile, "accounts", len(g.Balances))
	return l, nil
}
