package types

import (
	errorsmod "cosmossdk.io/errors"
)

// SplitPot divides pot into one share per percentage. Percentages must sum to
// 100. Every share but the last is floor(amount/100)*percent; the last share
// receives whatever remains, so the shares always add up to the pot.
func SplitPot(pot Asset, percents ...uint32) ([]Asset, error) {
	if len(percents) == 0 {
		return nil, errorsmod.Wrap(ErrInvalidConfig, "no split percentages")
	}

	var total uint64
	for _, p := range percents {
		total += uint64(p)
	}
	if total != 100 {
		return nil, errorsmod.Wrapf(ErrInvalidConfig, "split percentages sum to %d", total)
	}

	shares := make([]Asset, len(percents))
	remainder := pot
	for i, p := range percents[:len(percents)-1] {
		share, err := pot.TakePercent(p)
		if err != nil {
			return nil, err
		}
		remainder, err = remainder.CheckedSub(share)
		if err != nil {
			return nil, err
		}
		shares[i] = share
	}
	shares[len(shares)-1] = remainder

	return shares, nil
}
