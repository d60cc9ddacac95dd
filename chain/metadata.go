// Package chain resolves EVM chain ids against the chain-selectors registry.
// The synthesis pipeline works in plain numeric chain ids; this package
// supplies names and selectors for audit output.
package chain

import (
	"fmt"
	"strconv"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// Metadata provides registry-backed metadata about one EVM chain.
type Metadata struct {
	ChainID uint64
}

// Known reports whether the chain id appears in the selector registry.
func (m Metadata) Known() bool {
	_, err := m.details()

	return err == nil
}

// Selector returns the chain selector for the chain id.
func (m Metadata) Selector() (uint64, error) {
	details, err := m.details()
	if err != nil {
		return 0, err
	}

	return details.ChainSelector, nil
}

// Name returns the registry name of the chain, falling back to the decimal
// chain id when the chain is unknown or unnamed.
func (m Metadata) Name() string {
	details, err := m.details()
	if err != nil || details.ChainName == "" {
		return strconv.FormatUint(m.ChainID, 10)
	}

	return details.ChainName
}

// String returns "<name> (<chain id>)".
func (m Metadata) String() string {
	return fmt.Sprintf("%s (%d)", m.Name(), m.ChainID)
}

func (m Metadata) details() (chainsel.ChainDetails, error) {
	return chainsel.GetChainDetailsByChainIDAndFamily(
		strconv.FormatUint(m.ChainID, 10), chainsel.FamilyEVM,
	)
}
