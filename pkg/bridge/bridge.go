// Package bridge credits ledger accounts with deposits made to the bridge
// contract on an EVM chain.
package bridge

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/block52/coinflipchain/pkg/ledger"
)

// Chain is the subset of an Ethereum JSON-RPC client the bridge reads from.
type Chain interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// Ledger receives credited deposits and stores the scan cursor.
type Ledger interface {
	CreditDeposit(ctx context.Context, d ledger.Deposit) (bool, error)
	DepositCursor(ctx context.Context) (uint64, error)
	SetDepositCursor(ctx context.Context, block uint64) error
}

// Service polls the deposit contract and credits each deposit exactly once.
type Service struct {
	cfg      Config
	chain    Chain
	ledger   Ledger
	contract common.Address
	logger   log.Logger
}

// Dial connects to the configured RPC endpoint.
func Dial(ctx context.Context, cfg Config) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, cfg.EthereumRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum client: %w", err)
	}
	return client, nil
}

func NewService(cfg Config, chain Chain, l Ledger, logger log.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		cfg:      cfg,
		chain:    chain,
		ledger:   l,
		contract: common.HexToAddress(cfg.DepositContractAddress),
		logger:   logger.With("module", "bridge"),
	}, nil
}

// Run syncs every polling interval until ctx is done. RPC failures are logged
// and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.PollingInterval)
	defer ticker.Stop()

	s.logger.Info("bridge started", "contract", s.contract.Hex(), "interval", s.cfg.PollingInterval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("deposit sync failed", "err", err)
			}
		}
	}
}

// Sync scans the confirmed blocks after the cursor and returns the number of
// deposits credited.
func (s *Service) Sync(ctx context.Context) (int, error) {
	head, err := s.chain.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	if head < s.cfg.Confirmations {
		return 0, nil
	}
	latest := head - s.cfg.Confirmations

	cursor, err := s.ledger.DepositCursor(ctx)
	if err != nil {
		return 0, err
	}
	start := cursor + 1
	if cursor == 0 && s.cfg.StartingBlock > 0 {
		start = s.cfg.StartingBlock
	}

	credited := 0
	for start <= latest {
		end := min(start+s.cfg.MaxBlockRange-1, latest)

		n, err := s.scan(ctx, start, end)
		credited += n
		if err != nil {
			return credited, err
		}
		if err := s.ledger.SetDepositCursor(ctx, end); err != nil {
			return credited, err
		}
		start = end + 1
	}
	return credited, nil
}

func (s *Service) scan(ctx context.Context, from, to uint64) (int, error) {
	logs, err := s.chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{s.contract},
		Topics:    [][]common.Hash{{DepositedTopic()}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to filter logs (blocks %d-%d): %w", from, to, err)
	}

	credited := 0
	for _, vLog := range logs {
		if vLog.Removed {
			continue
		}
		tx, _, err := s.chain.TransactionByHash(ctx, vLog.TxHash)
		if err != nil {
			return credited, fmt.Errorf("failed to get transaction %s: %w", vLog.TxHash.Hex(), err)
		}

		d, err := parseDeposit(s.cfg.Denom, tx.Data(), vLog)
		if err != nil {
			s.logger.Error("skipping unreadable deposit", "tx", vLog.TxHash.Hex(), "err", err)
			continue
		}
		ok, err := s.ledger.CreditDeposit(ctx, d)
		if err != nil {
			s.logger.Error("skipping rejected deposit", "id", d.Id, "recipient", d.Recipient, "err", err)
			continue
		}
		if ok {
			credited++
		}
	}
	return credited, nil
}
