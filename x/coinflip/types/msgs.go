package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgProposeBet stakes Funds behind a commitment to a hidden side.
type MsgProposeBet struct {
	Creator                string    `json:"creator"`
	Commitment             string    `json:"commitment"`
	BlocksUntilLiquidation uint64    `json:"blocks_until_liquidation"`
	Funds                  sdk.Coins `json:"funds"`
}

type MsgProposeBetResponse struct {
	BetId string `json:"bet_id"`
}

// MsgAcceptBet matches a pending bet of BetOwner with a guess.
type MsgAcceptBet struct {
	Responder string    `json:"responder"`
	BetOwner  string    `json:"bet_owner"`
	BetId     string    `json:"bet_id"`
	Side      uint32    `json:"side"`
	Funds     sdk.Coins `json:"funds"`
}

type MsgAcceptBetResponse struct {
	Bet OngoingBet `json:"bet"`
}

// MsgResolveBet reveals the secret behind the commitment of an ongoing bet.
type MsgResolveBet struct {
	Creator    string    `json:"creator"`
	BetId      string    `json:"bet_id"`
	Passphrase string    `json:"passphrase"`
	Funds      sdk.Coins `json:"funds,omitempty"`
}

type MsgResolveBetResponse struct {
	Transfers []Transfer    `json:"transfers"`
	History   HistoricalBet `json:"history"`
}

// MsgLiquidateBet settles an ongoing bet whose creator did not reveal in time.
type MsgLiquidateBet struct {
	Liquidator string    `json:"liquidator"`
	BetId      string    `json:"bet_id"`
	Funds      sdk.Coins `json:"funds,omitempty"`
}

type MsgLiquidateBetResponse struct {
	Transfers []Transfer    `json:"transfers"`
	History   HistoricalBet `json:"history"`
}

// MsgWithdrawPendingBet cancels a pending bet and returns the stake.
type MsgWithdrawPendingBet struct {
	Creator string    `json:"creator"`
	BetId   string    `json:"bet_id"`
	Funds   sdk.Coins `json:"funds,omitempty"`
}

type MsgWithdrawPendingBetResponse struct {
	Transfers []Transfer `json:"transfers"`
}

// MsgUpdateConfig replaces the fields set in Update. Only the current owner may
// send it.
type MsgUpdateConfig struct {
	Authority string       `json:"authority"`
	Update    ConfigUpdate `json:"update"`
}

type MsgUpdateConfigResponse struct {
	Params Params `json:"params"`
}

func NewMsgProposeBet(creator, commitment string, blocksUntilLiquidation uint64, funds sdk.Coins) *MsgProposeBet {
	return &MsgProposeBet{
		Creator:                creator,
		Commitment:             commitment,
		BlocksUntilLiquidation: blocksUntilLiquidation,
		Funds:                  funds,
	}
}

func NewMsgAcceptBet(responder, betOwner, betId string, side FlipSide, funds sdk.Coins) *MsgAcceptBet {
	return &MsgAcceptBet{
		Responder: responder,
		BetOwner:  betOwner,
		BetId:     betId,
		Side:      side.Uint(),
		Funds:     funds,
	}
}

func NewMsgResolveBet(creator, betId, passphrase string) *MsgResolveBet {
	return &MsgResolveBet{Creator: creator, BetId: betId, Passphrase: passphrase}
}

func NewMsgLiquidateBet(liquidator, betId string) *MsgLiquidateBet {
	return &MsgLiquidateBet{Liquidator: liquidator, BetId: betId}
}

func NewMsgWithdrawPendingBet(creator, betId string) *MsgWithdrawPendingBet {
	return &MsgWithdrawPendingBet{Creator: creator, BetId: betId}
}

// MsgServer is the lifecycle surface of the module.
type MsgServer interface {
	ProposeBet(context.Context, *MsgProposeBet) (*MsgProposeBetResponse, error)
	AcceptBet(context.Context, *MsgAcceptBet) (*MsgAcceptBetResponse, error)
	ResolveBet(context.Context, *MsgResolveBet) (*MsgResolveBetResponse, error)
	LiquidateBet(context.Context, *MsgLiquidateBet) (*MsgLiquidateBetResponse, error)
	WithdrawPendingBet(context.Context, *MsgWithdrawPendingBet) (*MsgWithdrawPendingBetResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
}
