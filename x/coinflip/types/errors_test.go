package types

import (
	"errors"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCategory
	}{
		{err: ErrInvalidFunds, want: CategoryValidation},
		{err: errorsmod.Wrap(ErrCommitmentMismatch, "bet"), want: CategoryValidation},
		{err: errorsmod.Wrapf(ErrArithmetic, "%d", 1), want: CategoryArithmetic},
		{err: ErrCreatorLiquidation, want: CategoryAuthorization},
		{err: errorsmod.Wrap(ErrBetAlreadyResolved, "bet"), want: CategoryStateConflict},
		{err: ErrResponderGapNotPassed, want: CategoryTiming},
		{err: errors.New("boom"), want: CategoryUnknown},
		{err: nil, want: ""},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, CategoryOf(tc.err), "%v", tc.err)
	}
}
