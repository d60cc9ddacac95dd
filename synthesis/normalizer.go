package synthesis

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/agentgrants/delegation-framework/config"
)

// Normalize validates and canonicalizes a raw batch. The output preserves
// length and order, and every call carries the batch's single chain id. The
// batch fails as a whole on the first malformed record; there are no partial
// results.
func Normalize(calls []EvmCall, pol config.Policy, diags *Diagnostics) ([]NormalizedCall, error) {
	if len(calls) == 0 {
		return nil, ErrEmptyBatch
	}

	chainID, err := parseChainID(calls[0].ChainID)
	if err != nil {
		return nil, err
	}

	out := make([]NormalizedCall, 0, len(calls))
	for i, call := range calls {
		nc, err := normalizeOne(call, chainID, pol, diags)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		out = append(out, nc)
	}

	return out, nil
}

func normalizeOne(call EvmCall, chainID uint64, pol config.Policy, diags *Diagnostics) (NormalizedCall, error) {
	callChainID, err := parseChainID(call.ChainID)
	if err != nil {
		return NormalizedCall{}, err
	}
	if callChainID != chainID {
		return NormalizedCall{}, fmt.Errorf("%w: %d and %d", ErrMixedChainIDs, chainID, callChainID)
	}

	target, err := parseAddress(call.To)
	if err != nil {
		return NormalizedCall{}, err
	}
	if !pol.TargetAllowed(target) {
		return NormalizedCall{}, fmt.Errorf("%w: %s", ErrTargetNotAllowlisted, strings.ToLower(call.To))
	}

	data, err := parseHexData(call.Data)
	if err != nil {
		return NormalizedCall{}, err
	}

	value, err := parseValue(call.Value)
	if err != nil {
		return NormalizedCall{}, err
	}
	if err := checkValue(value, pol, diags); err != nil {
		return NormalizedCall{}, err
	}

	selector, err := SelectorOf(data, pol.AllowEmptyCalldata)
	if err != nil {
		return NormalizedCall{}, err
	}

	return NormalizedCall{
		Target:   target,
		Data:     data,
		Value:    value,
		ChainID:  chainID,
		Selector: selector,
	}, nil
}

// checkValue applies the non-zero value policy. A non-zero value always
// produces a warning because a function-call-scoped grant cannot enforce
// value transfers; whether it is also rejected is the caller's choice.
func checkValue(value *big.Int, pol config.Policy, diags *Diagnostics) error {
	if value.Sign() == 0 {
		return nil
	}
	diags.Warnf("transaction value transfers are not enforceable by this grant shape")
	if !pol.AllowNonZeroValue {
		return fmt.Errorf("%w: non-zero value %s", ErrPolicyViolation, value)
	}

	return nil
}

func parseChainID(raw DecimalString) (uint64, error) {
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChainID, string(raw))
	}

	return id, nil
}

func parseAddress(raw string) (common.Address, error) {
	if !strings.HasPrefix(raw, "0x") || len(raw) != 2+common.AddressLength*2 || !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}

	return common.HexToAddress(raw), nil
}

func parseHexData(raw string) ([]byte, error) {
	data, err := hexutil.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHexData, raw)
	}

	return data, nil
}

// parseValue parses the optional decimal value field. Absent means zero;
// negative or non-decimal values are rejected.
func parseValue(raw DecimalString) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}
	value, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidValue, string(raw))
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %q", ErrInvalidValue, string(raw))
	}

	return value, nil
}
