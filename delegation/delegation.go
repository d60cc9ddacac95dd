package delegation

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrEnvironmentUnavailable indicates that no delegation infrastructure
	// is known for the requested chain.
	ErrEnvironmentUnavailable = errors.New("delegation environment unavailable")
)

// RootAuthority marks a delegation issued directly by the delegator rather
// than re-delegated from an earlier delegation.
var RootAuthority = common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

// Caveat narrows a delegation: the named enforcer contract is consulted with
// Terms on every redemption.
type Caveat struct {
	Enforcer common.Address `json:"enforcer"`
	Terms    hexutil.Bytes  `json:"terms"`
}

// UnsignedDelegation is a delegation awaiting the delegator's signature. The
// synthesis core treats it as opaque: it is constructed by an Environment and
// signed elsewhere.
type UnsignedDelegation struct {
	Delegate  common.Address `json:"delegate"`
	Delegator common.Address `json:"delegator"`
	Authority common.Hash    `json:"authority"`
	Caveats   []Caveat       `json:"caveats"`
	Salt      string         `json:"salt"`
}

// Environment constructs unsigned delegations from intents. Implementations
// resolve the chain's delegation contract infrastructure; construction fails
// with ErrEnvironmentUnavailable when a chain has none.
type Environment interface {
	// CreateDelegation builds one unsigned delegation granting delegatee the
	// authority described by intent, on behalf of delegator.
	CreateDelegation(chainID uint64, intent Intent, delegator, delegatee common.Address) (UnsignedDelegation, error)
}
