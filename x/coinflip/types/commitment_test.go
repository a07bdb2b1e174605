package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCommitmentOf(t *testing.T) {
	require.Equal(t, "b554718c4730292e410ee00fe7df5f6820045e526afaaba84a3f3ba2d94fccc9", CommitmentOf("tefiluck"))
	require.Equal(t, "9fcdb450b2046adfadc5f663905899aed7a7270e9599f607522cc8aab14e9e78", CommitmentOf("1_secret"))

	c := CommitmentOf("anything")
	require.Len(t, c, 64)
	require.Equal(t, strings.ToLower(c), c)
}

func TestBetIdentifier(t *testing.T) {
	blockTime := time.Unix(1_700_000_000, 5)

	id := BetIdentifier(12, blockTime, "abc")
	require.Equal(t, "21af9c99251189a87748906b15cabb0422680cdfcb6c41bdffd2604cae4eb3d2", id)

	require.Equal(t, id, BetIdentifier(12, blockTime, "abc"))
	require.NotEqual(t, id, BetIdentifier(13, blockTime, "abc"))
	require.NotEqual(t, id, BetIdentifier(12, blockTime.Add(time.Nanosecond), "abc"))
	require.NotEqual(t, id, BetIdentifier(12, blockTime, "abd"))
}

func TestResolveOutcome(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		guessed FlipSide
		want    Role
	}{
		{name: "responder guessed heads", secret: "0_random", guessed: Heads, want: RoleResponder},
		{name: "responder guessed tails", secret: "1_random", guessed: Tails, want: RoleResponder},
		{name: "creator wins on tails", secret: "1_random", guessed: Heads, want: RoleCreator},
		{name: "creator wins on heads", secret: "0_random", guessed: Tails, want: RoleCreator},
		{name: "random part may contain delimiter", secret: "1_a_b_c", guessed: Heads, want: RoleCreator},
		{name: "empty random part", secret: "0_", guessed: Tails, want: RoleCreator},
		{name: "missing delimiter", secret: "0random", guessed: Tails, want: RoleResponder},
		{name: "side out of range", secret: "2_random", guessed: Tails, want: RoleResponder},
		{name: "side overflows uint8", secret: "256_random", guessed: Heads, want: RoleResponder},
		{name: "side not a number", secret: "heads_random", guessed: Tails, want: RoleResponder},
		{name: "negative side", secret: "-1_random", guessed: Tails, want: RoleResponder},
		{name: "empty side token", secret: "_random", guessed: Tails, want: RoleResponder},
		{name: "empty secret", secret: "", guessed: Heads, want: RoleResponder},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveOutcome(tc.secret, tc.guessed))
		})
	}
}

func TestEncodeSecret(t *testing.T) {
	secret := EncodeSecret(Tails, "abc")
	require.Equal(t, "1_abc", secret)
	require.Equal(t, RoleResponder, ResolveOutcome(secret, Tails))
	require.Equal(t, RoleCreator, ResolveOutcome(secret, Heads))
}
