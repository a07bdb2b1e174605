package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SideDelimiter separates the encoded side from the random part of a secret.
const SideDelimiter = "_"

// CommitmentOf returns the lower-case hex SHA-256 of secret. Creators compute it
// off-ledger and publish only the commitment when proposing a bet.
func CommitmentOf(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// BetIdentifier derives the public id of a bet from the block it was proposed in
// and the creator's commitment.
func BetIdentifier(height int64, blockTime time.Time, commitment string) string {
	ts := fmt.Sprintf("%d.%09d", blockTime.Unix(), blockTime.Nanosecond())
	return CommitmentOf(fmt.Sprintf("%d%s%s", height, ts, commitment))
}

// ResolveOutcome derives the winning role from a revealed secret of the form
// "<side>_<anything>". A secret that does not follow this form forfeits the bet
// to the responder. The caller must check the secret against the stored
// commitment first.
func ResolveOutcome(secret string, guessed FlipSide) Role {
	token, _, found := strings.Cut(secret, SideDelimiter)
	if !found {
		return RoleResponder
	}

	v, err := strconv.ParseUint(token, 10, 8)
	if err != nil {
		return RoleResponder
	}

	side, err := FlipSideFromUint(v)
	if err != nil {
		return RoleResponder
	}

	if side == guessed {
		return RoleResponder
	}
	return RoleCreator
}

// EncodeSecret builds a secret that reveals side, suitable for CommitmentOf.
func EncodeSecret(side FlipSide, random string) string {
	return strconv.FormatUint(uint64(side), 10) + SideDelimiter + random
}
