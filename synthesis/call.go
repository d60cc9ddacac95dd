package synthesis

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/agentgrants/delegation-framework/delegation"
)

// CallTypeEVM is the wire type tag carried by planner-produced transaction
// records.
const CallTypeEVM = "EVM_TX"

// DecimalString is a decimal integer that arrives on the wire either quoted
// or as a bare JSON number.
type DecimalString string

// UnmarshalJSON accepts both "42161" and 42161.
func (d *DecimalString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DecimalString(s)

		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = DecimalString(n.String())

	return nil
}

// EvmCall is one raw transaction record as produced by the external planner.
// It is consumed as-is and never mutated.
type EvmCall struct {
	Type    string        `json:"type,omitempty"`
	To      string        `json:"to"`
	Data    string        `json:"data"`
	Value   DecimalString `json:"value,omitempty"`
	ChainID DecimalString `json:"chainId"`
}

// NormalizedCall is the canonical form of an EvmCall: parsed address and
// calldata bytes, parsed value, derived selector. Every NormalizedCall in a
// batch shares one chain id.
type NormalizedCall struct {
	Target   common.Address
	Data     []byte
	Value    *big.Int
	ChainID  uint64
	Selector delegation.Selector
}

// TargetHex returns the lowercase hex form of the target address.
func (c NormalizedCall) TargetHex() string {
	return "0x" + common.Bytes2Hex(c.Target.Bytes())
}

// DataHex returns the lowercase "0x"-prefixed hex form of the calldata.
func (c NormalizedCall) DataHex() string {
	return hexutil.Encode(c.Data)
}

type normalizedCallJSON struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	ChainID  uint64 `json:"chainId"`
	Selector string `json:"selector"`
}

// MarshalJSON renders the canonical wire form with lowercase hex fields.
func (c NormalizedCall) MarshalJSON() ([]byte, error) {
	value := "0"
	if c.Value != nil {
		value = c.Value.String()
	}

	return json.Marshal(normalizedCallJSON{
		To:       c.TargetHex(),
		Data:     c.DataHex(),
		Value:    value,
		ChainID:  c.ChainID,
		Selector: c.Selector.String(),
	})
}

// String renders a short form for logs.
func (c NormalizedCall) String() string {
	return fmt.Sprintf("%s %s (%d bytes, chain %d)", c.TargetHex(), c.Selector, len(c.Data), c.ChainID)
}
