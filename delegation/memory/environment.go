// Package memory provides an in-memory delegation Environment backed by a
// static contract registry. It is suitable for tests and local tooling; the
// delegations it produces are structurally complete but unsigned.
package memory

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/agentgrants/delegation-framework/delegation"
)

// Environment builds unsigned delegations from a contract registry.
type Environment struct {
	registry *delegation.Registry

	// newSalt is swappable for deterministic tests.
	newSalt func() string
}

var _ delegation.Environment = (*Environment)(nil)

// EnvironmentOption configures an Environment.
type EnvironmentOption func(*Environment)

// WithSaltFunc overrides salt generation.
func WithSaltFunc(fn func() string) EnvironmentOption {
	return func(e *Environment) {
		e.newSalt = fn
	}
}

// NewEnvironment returns an Environment resolving delegation contracts from
// registry. A nil registry falls back to the default deployment.
func NewEnvironment(registry *delegation.Registry, opts ...EnvironmentOption) *Environment {
	if registry == nil {
		registry = delegation.DefaultRegistry()
	}
	e := &Environment{
		registry: registry,
		newSalt:  randomSalt,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateDelegation builds one root-authority unsigned delegation carrying an
// allowed-targets caveat, an allowed-methods caveat, and one allowed-calldata
// caveat per pin.
func (e *Environment) CreateDelegation(
	chainID uint64, intent delegation.Intent, delegator, delegatee common.Address,
) (delegation.UnsignedDelegation, error) {
	cs, err := e.registry.Resolve(chainID)
	if err != nil {
		return delegation.UnsignedDelegation{}, err
	}
	if len(intent.Targets) == 0 || len(intent.Selectors) == 0 {
		return delegation.UnsignedDelegation{}, fmt.Errorf("intent must carry at least one target and one selector")
	}

	caveats := []delegation.Caveat{
		{Enforcer: cs.AllowedTargetsEnforcer, Terms: targetsTerms(intent.Targets)},
		{Enforcer: cs.AllowedMethodsEnforcer, Terms: methodsTerms(intent.Selectors)},
	}
	for _, pin := range intent.AllowedCalldata {
		caveats = append(caveats, delegation.Caveat{
			Enforcer: cs.AllowedCalldataEnforcer,
			Terms:    calldataTerms(pin),
		})
	}

	return delegation.UnsignedDelegation{
		Delegate:  delegatee,
		Delegator: delegator,
		Authority: delegation.RootAuthority,
		Caveats:   caveats,
		Salt:      e.newSalt(),
	}, nil
}

// targetsTerms packs the allowed target addresses as 20-byte slots.
func targetsTerms(targets []common.Address) []byte {
	terms := make([]byte, 0, len(targets)*common.AddressLength)
	for _, t := range targets {
		terms = append(terms, t.Bytes()...)
	}

	return terms
}

// methodsTerms packs the allowed selectors as 4-byte slots.
func methodsTerms(selectors []delegation.Selector) []byte {
	terms := make([]byte, 0, len(selectors)*delegation.SelectorLength)
	for _, s := range selectors {
		terms = append(terms, s[:]...)
	}

	return terms
}

// calldataTerms packs one pin as a 32-byte big-endian offset followed by the
// pinned word.
func calldataTerms(pin delegation.CalldataPin) []byte {
	terms := make([]byte, delegation.WordLength*2)
	binary.BigEndian.PutUint64(terms[delegation.WordLength-8:delegation.WordLength], uint64(pin.ByteOffset))
	copy(terms[delegation.WordLength:], pin.Word[:])

	return terms
}

func randomSalt() string {
	id := uuid.New()

	return "0x" + common.Bytes2Hex(id[:])
}
