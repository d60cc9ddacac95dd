package synthesis

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agentgrants/delegation-framework/chain"
	"github.com/agentgrants/delegation-framework/delegation"
)

// selectorDescriptions names the call shapes the framework recognizes, for
// audit and confirmation UIs.
var selectorDescriptions = map[delegation.Selector]string{
	selApprove:           "token approvals",
	selIncreaseAllowance: "token allowance increases",
	selTransfer:          "token transfers",
	selExactInputSingle:  "exact-input token swaps",
}

// Describe renders a short human-readable summary of one intent, e.g.
// "allow token approvals on 0xabc… (arbitrum-mainnet), calldata pinned at
// offset 4". Unknown selectors fall back to their hex form.
func Describe(intent delegation.Intent, chainID uint64) string {
	verbs := make([]string, 0, len(intent.Selectors))
	for _, sel := range intent.Selectors {
		verbs = append(verbs, describeSelector(sel))
	}

	targets := make([]string, 0, len(intent.Targets))
	for _, t := range intent.Targets {
		targets = append(targets, "0x"+common.Bytes2Hex(t.Bytes()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "allow %s on %s (%s)",
		strings.Join(verbs, ", "),
		strings.Join(targets, ", "),
		chain.Metadata{ChainID: chainID}.Name(),
	)
	if len(intent.AllowedCalldata) > 0 {
		offsets := make([]string, 0, len(intent.AllowedCalldata))
		for _, pin := range intent.AllowedCalldata {
			offsets = append(offsets, fmt.Sprintf("%d", pin.ByteOffset))
		}
		fmt.Fprintf(&b, ", calldata pinned at offset %s", strings.Join(offsets, ", "))
	}

	return b.String()
}

func describeSelector(sel delegation.Selector) string {
	if desc, ok := selectorDescriptions[sel]; ok {
		return desc
	}
	if sel.IsZero() {
		return "plain value transfers"
	}

	return fmt.Sprintf("calls to function %s", sel)
}
