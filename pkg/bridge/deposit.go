package bridge

import (
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/block52/coinflipchain/pkg/ledger"
)

// depositABI covers the deposit entry points of the bridge contract and the
// event they emit. Both methods take the ledger recipient as the second argument.
const depositABI = `[
	{"type":"function","name":"depositUnderlying","stateMutability":"nonpayable","inputs":[
		{"name":"amount","type":"uint256"},{"name":"receiver","type":"string"}],"outputs":[]},
	{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[
		{"name":"amount","type":"uint256"},{"name":"receiver","type":"string"},{"name":"token","type":"address"}],"outputs":[]},
	{"type":"event","name":"Deposited","anonymous":false,"inputs":[
		{"name":"account","type":"string","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"index","type":"uint256","indexed":false}]}
]`

var contractABI = mustParseABI(depositABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// DepositedTopic is the topic of the Deposited event.
func DepositedTopic() common.Hash {
	return contractABI.Events["Deposited"].ID
}

// parseDeposit builds a ledger deposit from a Deposited log and the call data
// of the transaction that emitted it.
func parseDeposit(denom string, txData []byte, vLog types.Log) (ledger.Deposit, error) {
	if len(txData) < 4 {
		return ledger.Deposit{}, fmt.Errorf("transaction data too short")
	}
	method, err := contractABI.MethodById(txData[:4])
	if err != nil {
		return ledger.Deposit{}, fmt.Errorf("unknown deposit method: %w", err)
	}
	args, err := method.Inputs.Unpack(txData[4:])
	if err != nil {
		return ledger.Deposit{}, fmt.Errorf("failed to decode %s call: %w", method.Name, err)
	}
	recipient, ok := args[1].(string)
	if !ok || recipient == "" {
		return ledger.Deposit{}, fmt.Errorf("empty recipient in %s call", method.Name)
	}

	values, err := contractABI.Unpack("Deposited", vLog.Data)
	if err != nil {
		return ledger.Deposit{}, fmt.Errorf("failed to decode Deposited event: %w", err)
	}
	amount, ok := values[0].(*big.Int)
	if !ok || amount.Sign() <= 0 {
		return ledger.Deposit{}, fmt.Errorf("invalid deposit amount %v", values[0])
	}

	return ledger.Deposit{
		Id:          fmt.Sprintf("%s:%d", vLog.TxHash.Hex(), vLog.Index),
		Recipient:   strings.TrimSpace(recipient),
		Coins:       sdk.NewCoins(sdk.NewCoin(denom, math.NewIntFromBigInt(amount))),
		SourceBlock: vLog.BlockNumber,
	}, nil
}
