package synthesis

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/agentgrants/delegation-framework/delegation"
)

// Selectors with registered argument-shape decoders.
var (
	selApprove           = delegation.SelectorFromSignature("approve(address,uint256)")
	selIncreaseAllowance = delegation.SelectorFromSignature("increaseAllowance(address,uint256)")
	selTransfer          = delegation.SelectorFromSignature("transfer(address,uint256)")
	selExactInputSingle  = delegation.SelectorFromSignature(
		"exactInputSingle((address,address,uint24,address,uint256,uint256,uint256,uint160))")
)

// pinnedArgWords maps a selector to the argument word indexes worth pinning.
// These decoders know which words carry a counterparty or asset identity:
// approve/increaseAllowance pin the spender, transfer pins the recipient,
// exactInputSingle pins token-in, token-out and recipient. All listed
// arguments are head words of static types, so word index i sits at byte
// offset 4 + 32*i.
var pinnedArgWords = map[delegation.Selector][]int{
	selApprove:           {0},
	selIncreaseAllowance: {0},
	selTransfer:          {0},
	selExactInputSingle:  {0, 1, 3},
}

// spenderSelectors carry a distinct counterparty in their first argument
// word; the grouper keeps calls with different counterparties in separate
// buckets so their pins never dilute each other.
var spenderSelectors = map[delegation.Selector]struct{}{
	selApprove:           {},
	selIncreaseAllowance: {},
}

// argumentPins extracts the explicitly pinned argument words for a call with
// a registered decoder. Words truncated by short calldata are skipped.
func argumentPins(call NormalizedCall) []delegation.CalldataPin {
	idxs, ok := pinnedArgWords[call.Selector]
	if !ok {
		return nil
	}

	pins := make([]delegation.CalldataPin, 0, len(idxs))
	for _, idx := range idxs {
		off := delegation.SelectorLength + idx*delegation.WordLength
		word, ok := delegation.WordAt(call.Data, off)
		if !ok {
			continue
		}
		pins = append(pins, delegation.CalldataPin{ByteOffset: off, Word: word})
	}

	return pins
}

// spenderOf returns the counterparty address for spender-carrying selectors.
func spenderOf(call NormalizedCall) (common.Address, bool) {
	if _, ok := spenderSelectors[call.Selector]; !ok {
		return common.Address{}, false
	}
	word, ok := delegation.WordAt(call.Data, delegation.SelectorLength)
	if !ok {
		return common.Address{}, false
	}

	return delegation.AddressFromWord(word), true
}

// pinsForCall computes the full per-call pin set, keyed by byte offset:
// decoder-extracted argument pins plus blind-scan occurrences of the
// delegator's own address word. Only the delegator word is blind-scanned;
// pinning arbitrary coincidental byte patterns would make grants depend on
// unrelated argument content.
func pinsForCall(call NormalizedCall, delegator common.Address) map[int]delegation.Word {
	pins := make(map[int]delegation.Word)
	for _, p := range argumentPins(call) {
		pins[p.ByteOffset] = p.Word
	}
	if delegator != (common.Address{}) {
		word := delegation.AddressWord(delegator)
		for _, off := range FindWordOccurrences(call.Data, word) {
			pins[off] = word
		}
	}

	return pins
}
