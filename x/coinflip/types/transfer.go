package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Transfer is a payout instruction produced by a settlement. Amount is what the
// recipient receives; Tax is what the host withheld from the gross share.
type Transfer struct {
	Recipient string   `json:"recipient"`
	Amount    sdk.Coin `json:"amount"`
	Tax       sdk.Coin `json:"tax"`
}

// Gross returns the share before tax.
func (t Transfer) Gross() sdk.Coin {
	if t.Tax.Amount.IsNil() {
		return t.Amount
	}
	return t.Amount.Add(t.Tax)
}
