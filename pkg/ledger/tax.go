package ledger

import (
	"context"

	"cosmossdk.io/math"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

var _ types.TaxKeeper = (*TaxTable)(nil)

// TaxTable is a static transfer tax: one rate for every denom, an optional
// per-denom cap and a set of exempt denoms.
type TaxTable struct {
	rate   math.LegacyDec
	caps   map[string]math.Int
	exempt map[string]struct{}
}

// NewTaxTable builds a TaxTable from configuration.
func NewTaxTable(cfg TaxConfig) (*TaxTable, error) {
	return cfg.table()
}

// TaxFor returns the rate and cap for denom. A nil cap means uncapped.
func (t *TaxTable) TaxFor(_ context.Context, denom string) (math.LegacyDec, math.Int, error) {
	if _, ok := t.exempt[denom]; ok {
		return math.LegacyZeroDec(), math.ZeroInt(), nil
	}
	return t.rate, t.caps[denom], nil
}
