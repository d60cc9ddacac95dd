package delegation

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
)

// ContractSet is the delegation infrastructure deployed on one chain: the
// manager that redeems delegations plus the enforcer contracts backing each
// caveat kind.
type ContractSet struct {
	Version                 *semver.Version
	DelegationManager       common.Address
	AllowedTargetsEnforcer  common.Address
	AllowedMethodsEnforcer  common.Address
	AllowedCalldataEnforcer common.Address
}

// Registry maps chain ids to their deployed delegation contract sets. The
// registry is built once and read-only afterwards.
type Registry struct {
	contracts map[uint64]ContractSet
}

// NewRegistry builds a registry from the given per-chain contract sets.
func NewRegistry(contracts map[uint64]ContractSet) *Registry {
	m := make(map[uint64]ContractSet, len(contracts))
	for id, cs := range contracts {
		m[id] = cs
	}

	return &Registry{contracts: m}
}

// Resolve returns the contract set for chainID, or ErrEnvironmentUnavailable
// when the chain has no registered delegation infrastructure.
func (r *Registry) Resolve(chainID uint64) (ContractSet, error) {
	cs, ok := r.contracts[chainID]
	if !ok {
		return ContractSet{}, fmt.Errorf("chain %d: %w", chainID, ErrEnvironmentUnavailable)
	}

	return cs, nil
}

// ChainIDs returns the registered chain ids in ascending order.
func (r *Registry) ChainIDs() []uint64 {
	ids := make([]uint64, 0, len(r.contracts))
	for id := range r.contracts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// The v1.3.0 delegation contracts are deployed at the same deterministic
// addresses on every supported chain.
var defaultContractSet = ContractSet{
	Version:                 semver.MustParse("1.3.0"),
	DelegationManager:       common.HexToAddress("0xdb9B1e94B5b69Df7e401DDbedE43491141047dB3"),
	AllowedTargetsEnforcer:  common.HexToAddress("0x7F20f61b1f09b08D970938F6fa563634d65c4EeB"),
	AllowedMethodsEnforcer:  common.HexToAddress("0x2c21fD0Cb9DC8445CB3fb0DC7E25d60D0497cC26"),
	AllowedCalldataEnforcer: common.HexToAddress("0x99F2e9bF15ce5eC84685604836F71aB835DBBdED"),
}

// DefaultRegistry returns the registry of chains carrying the default
// delegation contract deployment.
func DefaultRegistry() *Registry {
	chains := []uint64{
		1,        // ethereum mainnet
		10,       // optimism
		137,      // polygon
		8453,     // base
		42161,    // arbitrum one
		11155111, // sepolia
	}
	m := make(map[uint64]ContractSet, len(chains))
	for _, id := range chains {
		m[id] = defaultContractSet
	}

	return NewRegistry(m)
}
