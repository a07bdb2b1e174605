package main

import (
	"fmt"
	"strings"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/go-bip39"
	"github.com/google/uuid"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

const (
	addressPrefix = "b52"
	coinType      = 118
)

// deriveKey derives the first secp256k1 account key of mnemonic.
func deriveKey(mnemonic string) (cryptotypes.PrivKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	algo := hd.Secp256k1
	path := hd.CreateHDPath(coinType, 0, 0).String()
	derivedPriv, err := algo.Derive()(mnemonic, keyring.DefaultBIP39Passphrase, path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return algo.Generate()(derivedPriv), nil
}

func newMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func addressOf(key cryptotypes.PrivKey) (string, error) {
	return addresscodec.NewBech32Codec(addressPrefix).BytesToString(key.PubKey().Address())
}

// newSecret returns a fresh secret revealing side.
func newSecret(side types.FlipSide) string {
	return types.EncodeSecret(side, uuid.NewString())
}

func parseSide(s string) (types.FlipSide, error) {
	switch strings.ToLower(s) {
	case "heads", "0":
		return types.Heads, nil
	case "tails", "1":
		return types.Tails, nil
	default:
		return 0, fmt.Errorf("side must be heads or tails, got %q", s)
	}
}
