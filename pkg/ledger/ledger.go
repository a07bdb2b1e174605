package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/block52/coinflipchain/x/coinflip/keeper"
	coinflip "github.com/block52/coinflipchain/x/coinflip/module"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

const HostStoreKey = "host"

var (
	BlockTimeKey     = collections.NewPrefix(0)
	DepositsKey      = collections.NewPrefix(1)
	DepositCursorKey = collections.NewPrefix(2)
)

// Status describes the block currently being built.
type Status struct {
	ChainID        string    `json:"chain_id"`
	Height         int64     `json:"height"`
	Time           time.Time `json:"time"`
	LastCommitHash string    `json:"last_commit_hash"`
}

// Ledger hosts the coinflip module on a single-node multistore. Messages are
// executed one at a time against the block being built; Commit closes the
// block, runs the module end blocker and advances the clock.
type Ledger struct {
	mu sync.Mutex

	cfg          Config
	logger       log.Logger
	db           dbm.DB
	cms          storetypes.CommitMultiStore
	addressCodec address.Codec

	Keeper   *keeper.Keeper
	Accounts authkeeper.AccountKeeper
	Bank     bankkeeper.BaseKeeper
	Tax      *TaxTable

	module      coinflip.AppModule
	msgServer   types.MsgServer
	queryServer types.QueryServer
	blockTimes  collections.Item[int64]

	deposits      collections.KeySet[string]
	depositCursor collections.Item[uint64]

	height    int64
	blockTime time.Time
	// events delivered in the block being built, published on Commit
	events []Event

	subsMu  sync.Mutex
	subs    map[int]chan Block
	nextSub int
}

// Option customizes a Ledger built by New.
type Option func(*options)

type options struct {
	taxKeeper types.TaxKeeper
}

// WithTaxKeeper makes the coinflip keeper look up transfer tax in tk instead
// of the configured tax table.
func WithTaxKeeper(tk types.TaxKeeper) Option {
	return func(o *options) { o.taxKeeper = tk }
}

// New opens the configured database and loads the latest committed state.
// A ledger with no committed state must be seeded with InitChain.
func New(cfg Config, logger log.Logger, opts ...Option) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, types.StoreKey, HostStoreKey)
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	}

	tax, err := NewTaxTable(cfg.Tax)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	o := options{taxKeeper: tax}
	for _, opt := range opts {
		opt(&o)
	}

	addressCodec := addresscodec.NewBech32Codec(cfg.AddressPrefix)
	accounts, bank, err := newBankKeepers(
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		addressCodec,
		cfg.AddressPrefix,
		logger,
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	k := keeper.NewKeeper(runtime.NewKVStoreService(keys[types.StoreKey]), addressCodec, bank, o.taxKeeper)
	am := coinflip.NewAppModule(k)

	sb := collections.NewSchemaBuilder(runtime.NewKVStoreService(keys[HostStoreKey]))
	blockTimes := collections.NewItem(sb, BlockTimeKey, "block_time", collections.Int64Value)
	deposits := collections.NewKeySet(sb, DepositsKey, "deposits", collections.StringKey)
	depositCursor := collections.NewItem(sb, DepositCursorKey, "deposit_cursor", collections.Uint64Value)
	if _, err := sb.Build(); err != nil {
		_ = db.Close()
		return nil, err
	}

	l := &Ledger{
		cfg:           cfg,
		logger:        logger.With("module", "ledger"),
		db:            db,
		cms:           cms,
		addressCodec:  addressCodec,
		Keeper:        k,
		Accounts:      accounts,
		Bank:          bank,
		Tax:           tax,
		module:        am,
		msgServer:     am.MsgServer(),
		queryServer:   am.QueryServer(),
		blockTimes:    blockTimes,
		deposits:      deposits,
		depositCursor: depositCursor,
		height:        cms.LastCommitID().Version + 1,
		subs:          map[int]chan Block{},
	}

	if l.Initialized() {
		last, err := blockTimes.Get(l.context())
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to load last block time: %w", err)
		}
		l.blockTime = nextBlockTime(time.Unix(0, last).UTC(), time.Now().UTC())
		l.logger.Info("loaded ledger state", "height", l.height, "time", l.blockTime)
	}

	return l, nil
}

func openDB(cfg Config) (dbm.DB, error) {
	if dbm.BackendType(cfg.Backend) == dbm.MemDBBackend {
		return dbm.NewMemDB(), nil
	}
	db, err := dbm.NewDB("ledger", dbm.BackendType(cfg.Backend), cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database in %s: %w", cfg.Backend, cfg.DataDir, err)
	}
	return db, nil
}

// Initialized reports whether any block has been committed.
func (l *Ledger) Initialized() bool {
	return l.cms.LastCommitID().Version > 0
}

// AddressCodec returns the bech32 codec used for every account address.
func (l *Ledger) AddressCodec() address.Codec {
	return l.addressCodec
}

// InitChain seeds balances and module state from g into the first block.
func (l *Ledger) InitChain(g *Genesis) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Initialized() {
		return fmt.Errorf("ledger already initialized at height %d", l.height-1)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	if g.ChainID != l.cfg.ChainID {
		return fmt.Errorf("genesis chain_id %q does not match configured %q", g.ChainID, l.cfg.ChainID)
	}

	l.blockTime = g.GenesisTime.UTC()
	ctx := l.context()
	if err := l.initBank(ctx); err != nil {
		return err
	}
	for _, b := range g.Balances {
		addr, err := l.addressCodec.StringToBytes(b.Address)
		if err != nil {
			return fmt.Errorf("invalid genesis address %s: %w", b.Address, err)
		}
		if err := l.mint(ctx, addr, b.Coins); err != nil {
			return fmt.Errorf("failed to fund %s: %w", b.Address, err)
		}
	}
	if err := l.initModule(ctx, g.Coinflip); err != nil {
		return err
	}

	l.logger.Info("initialized ledger", "chain_id", g.ChainID, "accounts", len(g.Balances), "time", l.blockTime)
	return nil
}

func (l *Ledger) initModule(ctx sdk.Context, bz json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	l.module.InitGenesis(ctx, nil, bz)
	return nil
}

// Export returns the committed and pending state as a genesis document.
func (l *Ledger) Export() (*Genesis, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := l.queryContext(context.Background())
	byAddr := map[string]sdk.Coins{}
	var (
		order []string
		err   error
	)
	l.Bank.IterateAllBalances(ctx, func(a sdk.AccAddress, coin sdk.Coin) bool {
		var addr string
		if addr, err = l.addressCodec.BytesToString(a); err != nil {
			return true
		}
		if _, ok := byAddr[addr]; !ok {
			order = append(order, addr)
		}
		byAddr[addr] = byAddr[addr].Add(coin)
		return false
	})
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(order))
	for _, addr := range order {
		balances = append(balances, Balance{Address: addr, Coins: byAddr[addr]})
	}

	return &Genesis{
		ChainID:     l.cfg.ChainID,
		GenesisTime: l.blockTime,
		Balances:    balances,
		Coinflip:    l.module.ExportGenesis(ctx, nil),
	}, nil
}

// Deliver executes one message against the current block. A failed message
// leaves no trace in state. Events of accepted messages are published when
// the block is committed.
func (l *Ledger) Deliver(ctx context.Context, msg any) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sdkCtx := l.context().WithContext(ctx)

	var (
		resp any
		err  error
	)
	switch m := msg.(type) {
	case *types.MsgProposeBet:
		resp, err = l.msgServer.ProposeBet(sdkCtx, m)
	case *types.MsgAcceptBet:
		resp, err = l.msgServer.AcceptBet(sdkCtx, m)
	case *types.MsgResolveBet:
		resp, err = l.msgServer.ResolveBet(sdkCtx, m)
	case *types.MsgLiquidateBet:
		resp, err = l.msgServer.LiquidateBet(sdkCtx, m)
	case *types.MsgWithdrawPendingBet:
		resp, err = l.msgServer.WithdrawPendingBet(sdkCtx, m)
	case *types.MsgUpdateConfig:
		resp, err = l.msgServer.UpdateConfig(sdkCtx, m)
	default:
		return nil, fmt.Errorf("unsupported message %T", msg)
	}
	if err != nil {
		l.logger.Debug("message rejected", "msg", fmt.Sprintf("%T", msg), "error", err)
		return nil, err
	}

	l.events = append(l.events, convertEvents(sdkCtx.EventManager().Events())...)
	return resp, nil
}

// Query runs fn against a read-only branch of the current block.
func (l *Ledger) Query(ctx context.Context, fn func(ctx context.Context, qs types.QueryServer) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return fn(l.queryContext(ctx), l.queryServer)
}

// Balances returns every balance held by a bech32 address.
func (l *Ledger) Balances(ctx context.Context, bech string) (sdk.Coins, error) {
	addr, err := l.addressCodec.StringToBytes(bech)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", bech, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.Bank.GetAllBalances(l.queryContext(ctx), addr), nil
}

// Fund mints coins to a bech32 address in the current block.
func (l *Ledger) Fund(ctx context.Context, bech string, amt sdk.Coins) error {
	addr, err := l.addressCodec.StringToBytes(bech)
	if err != nil {
		return fmt.Errorf("invalid address %s: %w", bech, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sdkCtx, write := l.context().WithContext(ctx).CacheContext()
	if err := l.mint(sdkCtx, addr, amt); err != nil {
		return err
	}
	write()
	return nil
}

// Status returns the height and time of the block being built.
func (l *Ledger) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Status{
		ChainID:        l.cfg.ChainID,
		Height:         l.height,
		Time:           l.blockTime,
		LastCommitHash: hex.EncodeToString(l.cms.LastCommitID().Hash),
	}
}

// Commit closes the current block and opens the next one at now, or just
// after the previous block time when the wall clock went backwards.
func (l *Ledger) Commit(now time.Time) (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := l.context()
	if err := l.module.EndBlock(ctx); err != nil {
		return Status{}, fmt.Errorf("end block %d: %w", l.height, err)
	}
	if err := l.blockTimes.Set(ctx, l.blockTime.UnixNano()); err != nil {
		return Status{}, err
	}

	commitID := l.cms.Commit()
	l.publish(Block{
		Height: l.height,
		Time:   l.blockTime,
		Events: append(l.events, convertEvents(ctx.EventManager().Events())...),
	})
	l.events = nil
	l.logger.Debug("committed block", "height", l.height, "hash", hex.EncodeToString(commitID.Hash))

	l.height = commitID.Version + 1
	l.blockTime = nextBlockTime(l.blockTime, now.UTC())

	return Status{
		ChainID:        l.cfg.ChainID,
		Height:         l.height,
		Time:           l.blockTime,
		LastCommitHash: hex.EncodeToString(commitID.Hash),
	}, nil
}

// Run commits a block every configured interval until ctx is done.
func (l *Ledger) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.BlockInterval)
	defer ticker.Stop()

	l.logger.Info("producing blocks", "interval", l.cfg.BlockInterval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := l.Commit(now); err != nil {
				return err
			}
		}
	}
}

// Close releases the database.
func (l *Ledger) Close() error {
	l.subsMu.Lock()
	for id, ch := range l.subs {
		close(ch)
		delete(l.subs, id)
	}
	l.subsMu.Unlock()

	return l.db.Close()
}

func (l *Ledger) context() sdk.Context {
	header := cmtproto.Header{
		ChainID: l.cfg.ChainID,
		Height:  l.height,
		Time:    l.blockTime,
	}
	return sdk.NewContext(l.cms, header, false, l.logger).WithEventManager(sdk.NewEventManager())
}

func (l *Ledger) queryContext(ctx context.Context) sdk.Context {
	return l.context().WithMultiStore(l.cms.CacheMultiStore()).WithContext(ctx)
}

func nextBlockTime(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}
