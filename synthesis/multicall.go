package synthesis

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/agentgrants/delegation-framework/config"
	"github.com/agentgrants/delegation-framework/delegation"
)

// wrapperABIJSON describes the batch-call wrapper layouts this package can
// expand: a batch of opaque calldata blobs to the wrapper's own target, and a
// funded batch carrying an explicit target and value per entry.
const wrapperABIJSON = `[
	{"type":"function","name":"multicall","inputs":[
		{"name":"data","type":"bytes[]"}]},
	{"type":"function","name":"fundAndExecute","inputs":[
		{"name":"token","type":"address"},
		{"name":"amount","type":"uint256"},
		{"name":"calls","type":"tuple[]","components":[
			{"name":"target","type":"address"},
			{"name":"value","type":"uint256"},
			{"name":"data","type":"bytes"}]}]}
]`

var (
	wrapperABI abi.ABI

	selMulticall      delegation.Selector
	selFundAndExecute delegation.Selector

	// batchLikeSelectors are selectors recognized as batching constructs
	// whose layouts are not implemented. They always fail closed: treating
	// an unparsed batch primitive as a plain call would grant access to
	// whatever it wraps.
	batchLikeSelectors map[delegation.Selector]string
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(wrapperABIJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid wrapper ABI: %v", err))
	}
	wrapperABI = parsed

	selMulticall = delegation.SelectorFromData(wrapperABI.Methods["multicall"].ID)
	selFundAndExecute = delegation.SelectorFromData(wrapperABI.Methods["fundAndExecute"].ID)

	batchLikeSelectors = make(map[delegation.Selector]string)
	for _, sig := range []string{
		"multicall(uint256,bytes[])",
		"multicall(bytes32,bytes[])",
		"aggregate((address,bytes)[])",
		"tryAggregate(bool,(address,bytes)[])",
		"aggregate3((address,bool,bytes)[])",
		"executeBatch((address,uint256,bytes)[])",
	} {
		batchLikeSelectors[delegation.SelectorFromSignature(sig)] = sig
	}
}

// Expand returns the effective atomic sub-calls of one normalized call. A
// non-wrapper call expands to itself; recognized wrappers are decoded and
// replaced by their inner calls (recursively, since a wrapper may nest);
// batch-like selectors without an implemented layout fail with
// ErrUnsupportedMulticall.
func Expand(call NormalizedCall, pol config.Policy, diags *Diagnostics) ([]NormalizedCall, error) {
	switch {
	case call.Selector == selMulticall:
		return expandSameTargetBatch(call, pol, diags)
	case call.Selector == selFundAndExecute:
		return expandFundedBatch(call, pol, diags)
	default:
		if sig, ok := batchLikeSelectors[call.Selector]; ok {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedMulticall, call.Selector, sig)
		}

		return []NormalizedCall{call}, nil
	}
}

// ExpandAll expands every call of a batch in order.
func ExpandAll(calls []NormalizedCall, pol config.Policy, diags *Diagnostics) ([]NormalizedCall, error) {
	out := make([]NormalizedCall, 0, len(calls))
	for i, call := range calls {
		expanded, err := Expand(call, pol, diags)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		out = append(out, expanded...)
	}

	return out, nil
}

// expandSameTargetBatch unwraps multicall(bytes[]): each blob is a call to
// the wrapper's own target with zero value.
func expandSameTargetBatch(call NormalizedCall, pol config.Policy, diags *Diagnostics) ([]NormalizedCall, error) {
	args, err := wrapperABI.Methods["multicall"].Inputs.Unpack(call.Data[delegation.SelectorLength:])
	if err != nil {
		return nil, fmt.Errorf("%w: multicall(bytes[]): %v", ErrMulticallDecode, err)
	}
	blobs, ok := args[0].([][]byte)
	if !ok {
		return nil, fmt.Errorf("%w: multicall(bytes[]): unexpected argument shape", ErrMulticallDecode)
	}

	out := make([]NormalizedCall, 0, len(blobs))
	for _, blob := range blobs {
		inner, err := newInnerCall(call, call.Target, blob, new(big.Int), pol, diags)
		if err != nil {
			return nil, err
		}
		expanded, err := Expand(inner, pol, diags)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}

	return out, nil
}

// fundedCall mirrors the (address target, uint256 value, bytes data) tuple of
// the fundAndExecute layout.
type fundedCall struct {
	Target common.Address
	Value  *big.Int
	Data   []byte
}

// expandFundedBatch unwraps fundAndExecute(token, amount, calls): each entry
// supplies its own target and value.
func expandFundedBatch(call NormalizedCall, pol config.Policy, diags *Diagnostics) ([]NormalizedCall, error) {
	args, err := wrapperABI.Methods["fundAndExecute"].Inputs.Unpack(call.Data[delegation.SelectorLength:])
	if err != nil {
		return nil, fmt.Errorf("%w: fundAndExecute: %v", ErrMulticallDecode, err)
	}

	token, ok := args[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("%w: fundAndExecute: unexpected token argument", ErrMulticallDecode)
	}
	amount, ok := args[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: fundAndExecute: unexpected amount argument", ErrMulticallDecode)
	}
	entries := *abi.ConvertType(args[2], new([]fundedCall)).(*[]fundedCall)

	if amount.Sign() > 0 {
		diags.Warnf("batch funding of %s from token 0x%s is not separately granted",
			amount, common.Bytes2Hex(token.Bytes()))
	}

	out := make([]NormalizedCall, 0, len(entries))
	for _, entry := range entries {
		if !pol.TargetAllowed(entry.Target) {
			return nil, fmt.Errorf("%w: 0x%s", ErrTargetNotAllowlisted, common.Bytes2Hex(entry.Target.Bytes()))
		}
		inner, err := newInnerCall(call, entry.Target, entry.Data, entry.Value, pol, diags)
		if err != nil {
			return nil, err
		}
		expanded, err := Expand(inner, pol, diags)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}

	return out, nil
}

// newInnerCall builds a NormalizedCall for one unwrapped entry, inheriting
// the outer call's chain id and applying the same selector and value policy
// as the normalizer.
func newInnerCall(
	outer NormalizedCall, target common.Address, data []byte, value *big.Int,
	pol config.Policy, diags *Diagnostics,
) (NormalizedCall, error) {
	selector, err := SelectorOf(data, pol.AllowEmptyCalldata)
	if err != nil {
		return NormalizedCall{}, fmt.Errorf("%w: inner call: %v", ErrMulticallDecode, err)
	}
	if err := checkValue(value, pol, diags); err != nil {
		return NormalizedCall{}, err
	}

	return NormalizedCall{
		Target:   target,
		Data:     data,
		Value:    value,
		ChainID:  outer.ChainID,
		Selector: selector,
	}, nil
}
