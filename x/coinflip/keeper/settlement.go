package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// payee is a recipient of one share of a settled pot.
type payee struct {
	addr    sdk.AccAddress
	address string
}

// deductTax splits a gross share into the part delivered to the recipient and
// the tax withheld by the host: net = gross / (1 + rate), tax = min(gross - net, cap).
func (k Keeper) deductTax(ctx context.Context, gross types.Asset) (net, tax types.Asset, err error) {
	zero := types.NewAsset(gross.Denom, math.ZeroInt())

	rate, taxCap, err := k.taxKeeper.TaxFor(ctx, gross.Denom)
	if err != nil {
		return zero, zero, err
	}
	if rate.IsNil() || rate.IsZero() {
		return gross, zero, nil
	}
	if rate.IsNegative() {
		return zero, zero, errorsmod.Wrapf(types.ErrInvalidConfig, "negative tax rate %s for %s", rate, gross.Denom)
	}

	precision := math.NewIntFromBigInt(math.LegacyOneDec().BigInt())
	scaled, err := gross.Amount.SafeMul(precision)
	if err != nil {
		return zero, zero, errorsmod.Wrap(types.ErrArithmetic, err.Error())
	}
	divisor, err := precision.SafeAdd(math.NewIntFromBigInt(rate.BigInt()))
	if err != nil {
		return zero, zero, errorsmod.Wrap(types.ErrArithmetic, err.Error())
	}
	netAmount, err := scaled.SafeQuo(divisor)
	if err != nil {
		return zero, zero, errorsmod.Wrap(types.ErrArithmetic, err.Error())
	}

	taxAmount := gross.Amount.Sub(netAmount)
	if !taxCap.IsNil() && taxAmount.GT(taxCap) {
		taxAmount = taxCap
	}

	tax = types.NewAsset(gross.Denom, taxAmount)
	net, err = gross.CheckedSub(tax)
	if err != nil {
		return zero, zero, err
	}
	return net, tax, nil
}

// payout moves one share out of the module escrow. It returns nil when nothing
// reaches the recipient; any withheld tax still goes to the fee collector.
func (k Keeper) payout(ctx context.Context, to payee, share types.Asset) (*types.Transfer, error) {
	if share.IsZero() {
		return nil, nil
	}

	net, tax, err := k.deductTax(ctx, share)
	if err != nil {
		return nil, err
	}

	if !tax.IsZero() {
		if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, types.FeeCollectorName, sdk.NewCoins(tax.Coin())); err != nil {
			return nil, errorsmod.Wrap(err, "failed to pay transfer tax")
		}
	}
	if net.IsZero() {
		return nil, nil
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to.addr, sdk.NewCoins(net.Coin())); err != nil {
		return nil, errorsmod.Wrapf(err, "failed to pay %s", to.address)
	}

	return &types.Transfer{
		Recipient: to.address,
		Amount:    net.Coin(),
		Tax:       tax.Coin(),
	}, nil
}

// settle splits pot by percents and pays each share to the payee at the same
// position. The last payee receives the truncation remainder.
func (k Keeper) settle(ctx context.Context, pot types.Asset, payees []payee, percents []uint32) ([]types.Transfer, error) {
	if len(payees) != len(percents) {
		return nil, errorsmod.Wrapf(types.ErrInvalidConfig, "%d payees for %d shares", len(payees), len(percents))
	}

	shares, err := types.SplitPot(pot, percents...)
	if err != nil {
		return nil, err
	}

	transfers := make([]types.Transfer, 0, len(shares))
	for i, share := range shares {
		transfer, err := k.payout(ctx, payees[i], share)
		if err != nil {
			return nil, err
		}
		if transfer != nil {
			transfers = append(transfers, *transfer)
		}
	}

	return transfers, nil
}

// escrow moves the stake attached to a call into the module account.
func (k Keeper) escrow(ctx context.Context, from sdk.AccAddress, stake types.Asset) error {
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, sdk.NewCoins(stake.Coin())); err != nil {
		return errorsmod.Wrap(err, "failed to escrow stake")
	}
	return nil
}
