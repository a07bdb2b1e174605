package types

// DONTCOVER

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// x/coinflip module sentinel errors
//
// Codes are grouped by category so integrators can branch on the hundreds digit:
// 11xx validation, 12xx arithmetic, 13xx authorization, 14xx state conflict, 15xx timing.
var (
	ErrInvalidConfig          = errorsmod.Register(ModuleName, 1100, "validation error")
	ErrInvalidFunds           = errorsmod.Register(ModuleName, 1101, "provide only one coin for playing in transaction")
	ErrInvalidDuration        = errorsmod.Register(ModuleName, 1102, "blocks until liquidation out of allowed range")
	ErrBetLimitReached        = errorsmod.Register(ModuleName, 1103, "max bets by address limit was reached")
	ErrUnsupportedDenom       = errorsmod.Register(ModuleName, 1104, "coin limits for provided asset not found")
	ErrAmountBelowMinimum     = errorsmod.Register(ModuleName, 1105, "provided amount less than min limit for provided asset")
	ErrInvalidSide            = errorsmod.Register(ModuleName, 1106, "invalid flip side")
	ErrFundsNotAllowed        = errorsmod.Register(ModuleName, 1107, "execute this method without providing any funds")
	ErrResponderAssetMismatch = errorsmod.Register(ModuleName, 1108, "responder amount or denom mismatch")
	ErrInvalidAddress         = errorsmod.Register(ModuleName, 1109, "invalid address")
	ErrInvalidRequest         = errorsmod.Register(ModuleName, 1110, "invalid request")
	ErrCommitmentMismatch     = errorsmod.Register(ModuleName, 1111, "signatures mismatch")

	ErrArithmetic = errorsmod.Register(ModuleName, 1200, "arithmetic overflow")

	ErrUnauthorized          = errorsmod.Register(ModuleName, 1300, "unauthorized")
	ErrSelfPlay              = errorsmod.Register(ModuleName, 1301, "you are not allowed to play vs yourself")
	ErrOnlyCreatorCanResolve = errorsmod.Register(ModuleName, 1302, "only bet creator allowed to resolve bet")
	ErrCreatorLiquidation    = errorsmod.Register(ModuleName, 1303, "bet creator cannot liquidate himself")

	ErrBetAlreadyExists      = errorsmod.Register(ModuleName, 1400, "bet with same id already exists")
	ErrBetCanceledOrAccepted = errorsmod.Register(ModuleName, 1401, "this game was either canceled or accepted by another player")
	ErrBetAlreadyAccepted    = errorsmod.Register(ModuleName, 1402, "this game has already been accepted")
	ErrBetAlreadyLiquidated  = errorsmod.Register(ModuleName, 1403, "this game has already been liquidated")
	ErrBetAlreadyResolved    = errorsmod.Register(ModuleName, 1404, "this game has already been resolved")
	ErrBetNotFound           = errorsmod.Register(ModuleName, 1405, "bet not found")

	ErrNotLiquidatableYet    = errorsmod.Register(ModuleName, 1500, "bet is not liquidatable yet")
	ErrResponderGapNotPassed = errorsmod.Register(ModuleName, 1501, "responder liquidation gap is not passed yet")
)

// ErrorCategory is the stable class of a module error.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryArithmetic    ErrorCategory = "arithmetic"
	CategoryAuthorization ErrorCategory = "authorization"
	CategoryStateConflict ErrorCategory = "state_conflict"
	CategoryTiming        ErrorCategory = "timing"
	CategoryUnknown       ErrorCategory = "unknown"
)

var categories = []struct {
	category ErrorCategory
	errs     []error
}{
	{CategoryValidation, []error{
		ErrInvalidConfig, ErrInvalidFunds, ErrInvalidDuration, ErrBetLimitReached, ErrUnsupportedDenom,
		ErrAmountBelowMinimum, ErrInvalidSide, ErrFundsNotAllowed, ErrResponderAssetMismatch,
		ErrInvalidAddress, ErrInvalidRequest, ErrCommitmentMismatch,
	}},
	{CategoryArithmetic, []error{ErrArithmetic}},
	{CategoryAuthorization, []error{ErrUnauthorized, ErrSelfPlay, ErrOnlyCreatorCanResolve, ErrCreatorLiquidation}},
	{CategoryStateConflict, []error{
		ErrBetAlreadyExists, ErrBetCanceledOrAccepted, ErrBetAlreadyAccepted,
		ErrBetAlreadyLiquidated, ErrBetAlreadyResolved, ErrBetNotFound,
	}},
	{CategoryTiming, []error{ErrNotLiquidatableYet, ErrResponderGapNotPassed}},
}

// CategoryOf returns the category of a (possibly wrapped) module error.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	for _, c := range categories {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.category
			}
		}
	}
	return CategoryUnknown
}
