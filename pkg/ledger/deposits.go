package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Events emitted for bridged deposits.
const (
	EventTypeDepositCredited = "deposit_credited"

	AttributeKeyDepositId   = "deposit_id"
	AttributeKeyRecipient   = "recipient"
	AttributeKeyCoins       = "coins"
	AttributeKeySourceBlock = "source_block"
)

// Deposit credits coins locked on an external chain to a ledger account.
type Deposit struct {
	// Id is unique per source event, e.g. "<tx hash>:<log index>"
	Id          string
	Recipient   string
	Coins       sdk.Coins
	SourceBlock uint64
}

// CreditDeposit mints d.Coins to d.Recipient once per deposit id. It reports
// false when the deposit was credited before. The deposit_credited event is
// published with the block.
func (l *Ledger) CreditDeposit(ctx context.Context, d Deposit) (bool, error) {
	if d.Id == "" {
		return false, fmt.Errorf("deposit id must not be empty")
	}
	if !d.Coins.IsValid() || d.Coins.IsZero() {
		return false, fmt.Errorf("invalid deposit coins %s", d.Coins)
	}
	addr, err := l.addressCodec.StringToBytes(d.Recipient)
	if err != nil {
		return false, fmt.Errorf("invalid deposit recipient %s: %w", d.Recipient, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sdkCtx := l.context().WithContext(ctx)
	seen, err := l.deposits.Has(sdkCtx, d.Id)
	if err != nil || seen {
		return false, err
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := l.mint(cacheCtx, addr, d.Coins); err != nil {
		return false, err
	}
	if err := l.deposits.Set(cacheCtx, d.Id); err != nil {
		return false, err
	}
	write()

	l.events = append(l.events, convertEvents(sdk.Events{sdk.NewEvent(EventTypeDepositCredited,
		sdk.NewAttribute(AttributeKeyDepositId, d.Id),
		sdk.NewAttribute(AttributeKeyRecipient, d.Recipient),
		sdk.NewAttribute(AttributeKeyCoins, d.Coins.String()),
		sdk.NewAttribute(AttributeKeySourceBlock, strconv.FormatUint(d.SourceBlock, 10)),
	)})...)
	l.logger.Info("credited deposit", "id", d.Id, "recipient", d.Recipient, "coins", d.Coins)
	return true, nil
}

// DepositCursor returns the last external block whose deposits were all
// credited, or zero.
func (l *Ledger) DepositCursor(ctx context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cursor, err := l.depositCursor.Get(l.context().WithContext(ctx))
	if errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	}
	return cursor, err
}

func (l *Ledger) SetDepositCursor(ctx context.Context, block uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.depositCursor.Set(l.context().WithContext(ctx), block)
}
