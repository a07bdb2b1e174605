package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlipSideFromUint(t *testing.T) {
	side, err := FlipSideFromUint(0)
	require.NoError(t, err)
	require.Equal(t, Heads, side)

	side, err = FlipSideFromUint(1)
	require.NoError(t, err)
	require.Equal(t, Tails, side)

	_, err = FlipSideFromUint(2)
	require.ErrorIs(t, err, ErrInvalidSide)
}

func TestFlipSideJSON(t *testing.T) {
	bz, err := json.Marshal(Tails)
	require.NoError(t, err)
	require.JSONEq(t, `"tails"`, string(bz))

	var side FlipSide
	require.NoError(t, json.Unmarshal([]byte(`"heads"`), &side))
	require.Equal(t, Heads, side)

	require.Error(t, json.Unmarshal([]byte(`"edge"`), &side))

	_, err = json.Marshal(FlipSide(7))
	require.Error(t, err)
}

func TestGameOutcomeJSON(t *testing.T) {
	bz, err := json.Marshal(OutcomeLiquidated)
	require.NoError(t, err)
	require.JSONEq(t, `"liquidated"`, string(bz))

	var outcome GameOutcome
	require.NoError(t, json.Unmarshal([]byte(`"resolved"`), &outcome))
	require.Equal(t, OutcomeResolved, outcome)

	_, err = ParseGameOutcome("cancelled")
	require.Error(t, err)
}
