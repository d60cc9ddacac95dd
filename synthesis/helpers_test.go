package synthesis

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/agentgrants/delegation-framework/delegation"
)

// Shared fixtures for synthesis tests.
var (
	testDelegator = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testDelegatee = common.HexToAddress("0x9999999999999999999999999999999999999999")
	testToken     = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testRouter    = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	spenderA      = common.HexToAddress("0x2222222222222222222222222222222222222222")
	spenderB      = common.HexToAddress("0x3333333333333333333333333333333333333333")

	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// callData builds selector-prefixed calldata from 32-byte argument words.
func callData(sel delegation.Selector, words ...[]byte) []byte {
	data := append([]byte{}, sel[:]...)
	for _, w := range words {
		data = append(data, common.LeftPadBytes(w, 32)...)
	}

	return data
}

func approveData(spender common.Address, amount *big.Int) []byte {
	return callData(selApprove, spender.Bytes(), amount.Bytes())
}

func transferData(recipient common.Address, amount *big.Int) []byte {
	return callData(selTransfer, recipient.Bytes(), amount.Bytes())
}

// evmCall builds a raw wire record on chain 42161 by default.
func evmCall(to common.Address, data []byte) EvmCall {
	return EvmCall{
		Type:    CallTypeEVM,
		To:      "0x" + common.Bytes2Hex(to.Bytes()),
		Data:    hexutil.Encode(data),
		ChainID: "42161",
	}
}

// normalized builds a zero-value NormalizedCall on chain 42161 with the
// selector derived from data.
func normalized(target common.Address, data []byte) NormalizedCall {
	return NormalizedCall{
		Target:   target,
		Data:     data,
		Value:    new(big.Int),
		ChainID:  42161,
		Selector: delegation.SelectorFromData(data),
	}
}
