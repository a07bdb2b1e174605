package types

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// FlipSide is one face of the coin. Only Heads and Tails exist; the wire
// representation is the integer 0 or 1.
type FlipSide uint8

const (
	Heads FlipSide = 0
	Tails FlipSide = 1
)

// FlipSideFromUint converts a wire integer to a FlipSide.
func FlipSideFromUint(v uint64) (FlipSide, error) {
	switch v {
	case 0:
		return Heads, nil
	case 1:
		return Tails, nil
	default:
		return 0, errorsmod.Wrapf(ErrInvalidSide, "%d", v)
	}
}

// Uint returns the wire integer of the side.
func (s FlipSide) Uint() uint32 {
	return uint32(s)
}

func (s FlipSide) String() string {
	switch s {
	case Heads:
		return "heads"
	case Tails:
		return "tails"
	default:
		return fmt.Sprintf("FlipSide(%d)", uint8(s))
	}
}

func (s FlipSide) MarshalJSON() ([]byte, error) {
	if s != Heads && s != Tails {
		return nil, errorsmod.Wrapf(ErrInvalidSide, "%d", uint8(s))
	}
	return json.Marshal(s.String())
}

func (s *FlipSide) UnmarshalJSON(bz []byte) error {
	var name string
	if err := json.Unmarshal(bz, &name); err != nil {
		return err
	}
	switch name {
	case "heads":
		*s = Heads
	case "tails":
		*s = Tails
	default:
		return errorsmod.Wrapf(ErrInvalidSide, "%q", name)
	}
	return nil
}

// GameOutcome tags how a completed bet was settled.
type GameOutcome uint8

const (
	OutcomeResolved GameOutcome = iota + 1
	OutcomeLiquidated
)

func (o GameOutcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeLiquidated:
		return "liquidated"
	default:
		return fmt.Sprintf("GameOutcome(%d)", uint8(o))
	}
}

// ParseGameOutcome is the inverse of GameOutcome.String.
func ParseGameOutcome(s string) (GameOutcome, error) {
	switch s {
	case "resolved":
		return OutcomeResolved, nil
	case "liquidated":
		return OutcomeLiquidated, nil
	default:
		return 0, fmt.Errorf("unknown game outcome %q", s)
	}
}

func (o GameOutcome) MarshalJSON() ([]byte, error) {
	if o != OutcomeResolved && o != OutcomeLiquidated {
		return nil, fmt.Errorf("invalid game outcome %d", uint8(o))
	}
	return json.Marshal(o.String())
}

func (o *GameOutcome) UnmarshalJSON(bz []byte) error {
	var name string
	if err := json.Unmarshal(bz, &name); err != nil {
		return err
	}
	parsed, err := ParseGameOutcome(name)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Role identifies a party of an ongoing bet.
type Role uint8

const (
	RoleCreator Role = iota
	RoleResponder
)

func (r Role) String() string {
	if r == RoleCreator {
		return "creator"
	}
	return "responder"
}
