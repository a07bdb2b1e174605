package types

import (
	"fmt"
	"math/big"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MaxAmount is the largest amount an Asset can hold (2^128 - 1).
var MaxAmount = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

var hundred = math.NewInt(100)

// Asset is a denom-tagged unsigned amount.
type Asset struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// NewAsset returns an Asset for the given denom and amount.
func NewAsset(denom string, amount math.Int) Asset {
	return Asset{Denom: denom, Amount: amount}
}

// AssetFromCoins converts the funds attached to a call into an Asset.
// Exactly one positive coin must be provided.
func AssetFromCoins(coins sdk.Coins) (Asset, error) {
	if len(coins) != 1 {
		return Asset{}, ErrInvalidFunds
	}

	coin := coins[0]
	if err := sdk.ValidateDenom(coin.Denom); err != nil {
		return Asset{}, errorsmod.Wrap(ErrInvalidFunds, err.Error())
	}
	if coin.Amount.IsNil() || !coin.Amount.IsPositive() {
		return Asset{}, errorsmod.Wrap(ErrInvalidFunds, "amount must be positive")
	}
	if coin.Amount.GT(MaxAmount) {
		return Asset{}, errorsmod.Wrapf(ErrArithmetic, "amount %s exceeds max amount", coin.Amount)
	}

	return Asset{Denom: coin.Denom, Amount: coin.Amount}, nil
}

// Validate checks the denom and that the amount is within [0, MaxAmount].
func (a Asset) Validate() error {
	if err := sdk.ValidateDenom(a.Denom); err != nil {
		return err
	}
	if a.Amount.IsNil() || a.Amount.IsNegative() {
		return fmt.Errorf("negative or nil amount for %s", a.Denom)
	}
	if a.Amount.GT(MaxAmount) {
		return fmt.Errorf("amount %s exceeds max amount", a.Amount)
	}
	return nil
}

// Equal reports whether both denom and amount match.
func (a Asset) Equal(other Asset) bool {
	return a.Denom == other.Denom && a.Amount.Equal(other.Amount)
}

// IsZero reports whether the amount is zero.
func (a Asset) IsZero() bool {
	return a.Amount.IsNil() || a.Amount.IsZero()
}

// CheckedAdd returns a + other.
func (a Asset) CheckedAdd(other Asset) (Asset, error) {
	if a.Denom != other.Denom {
		return Asset{}, errorsmod.Wrapf(ErrArithmetic, "denom mismatch: %s != %s", a.Denom, other.Denom)
	}
	sum, err := a.Amount.SafeAdd(other.Amount)
	if err != nil || sum.GT(MaxAmount) {
		return Asset{}, errorsmod.Wrapf(ErrArithmetic, "%s + %s overflows", a.Amount, other.Amount)
	}
	return Asset{Denom: a.Denom, Amount: sum}, nil
}

// CheckedSub returns a - other.
func (a Asset) CheckedSub(other Asset) (Asset, error) {
	if a.Denom != other.Denom {
		return Asset{}, errorsmod.Wrapf(ErrArithmetic, "denom mismatch: %s != %s", a.Denom, other.Denom)
	}
	diff, err := a.Amount.SafeSub(other.Amount)
	if err != nil || diff.IsNegative() {
		return Asset{}, errorsmod.Wrapf(ErrArithmetic, "%s - %s underflows", a.Amount, other.Amount)
	}
	return Asset{Denom: a.Denom, Amount: diff}, nil
}

// TakePercent returns floor(amount / 100) * percent.
func (a Asset) TakePercent(percent uint32) (Asset, error) {
	base, err := a.Amount.SafeQuo(hundred)
	if err != nil {
		return Asset{}, errorsmod.Wrap(ErrArithmetic, err.Error())
	}
	amount, err := base.SafeMul(math.NewIntFromUint64(uint64(percent)))
	if err != nil || amount.GT(MaxAmount) {
		return Asset{}, errorsmod.Wrapf(ErrArithmetic, "%s * %d overflows", base, percent)
	}
	return Asset{Denom: a.Denom, Amount: amount}, nil
}

// Coin returns the asset as an sdk.Coin.
func (a Asset) Coin() sdk.Coin {
	return sdk.Coin{Denom: a.Denom, Amount: a.Amount}
}

func (a Asset) String() string {
	return a.Amount.String() + a.Denom
}
