// Package synthesis turns a batch of opaque EVM transaction records into the
// minimal set of delegation intents authorizing exactly that batch.
//
// The pipeline is pure and deterministic: normalization, multicall expansion,
// calldata scanning and capability grouping hold no shared state and perform
// no I/O; the only external collaborator is the delegation.Environment that
// turns each intent into an unsigned delegation. Any error aborts the whole
// batch — there is no partial-success mode.
package synthesis

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agentgrants/delegation-framework/chain"
	"github.com/agentgrants/delegation-framework/config"
	"github.com/agentgrants/delegation-framework/delegation"
	"github.com/agentgrants/delegation-framework/pkg/logger"
)

// Result is the batch-level synthesis output.
type Result struct {
	ChainID                uint64                          `json:"chainId"`
	NormalizedTransactions []NormalizedCall                `json:"normalizedTransactions"`
	DelegationIntents      []delegation.Intent             `json:"delegationIntents"`
	Delegations            []delegation.UnsignedDelegation `json:"delegations"`
	Descriptions           []string                        `json:"descriptions"`
	Warnings               []string                        `json:"warnings"`
}

// Synthesizer runs the full pipeline against one delegation environment.
// It is stateless and safe for concurrent use across independent batches.
type Synthesizer struct {
	lggr logger.Logger
	env  delegation.Environment
}

// New returns a Synthesizer constructing delegations through env.
func New(lggr logger.Logger, env delegation.Environment) *Synthesizer {
	return &Synthesizer{
		lggr: logger.Named(lggr, "Synthesizer"),
		env:  env,
	}
}

// Synthesize transforms a raw batch into normalized calls, delegation
// intents and unsigned delegations granting delegatee authority to act for
// delegator.
func (s *Synthesizer) Synthesize(
	calls []EvmCall, delegator, delegatee common.Address, pol config.Policy,
) (*Result, error) {
	if err := pol.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPolicyViolation, err)
	}

	diags := NewDiagnostics()

	normalized, err := Normalize(calls, pol, diags)
	if err != nil {
		return nil, err
	}
	chainID := normalized[0].ChainID
	if !(chain.Metadata{ChainID: chainID}).Known() {
		diags.Warnf("chain id %d is not in the chain selector registry", chainID)
	}
	s.lggr.Debugw("normalized batch", "chainID", chainID, "transactions", len(normalized))

	expanded, err := ExpandAll(normalized, pol, diags)
	if err != nil {
		return nil, err
	}
	s.lggr.Debugw("expanded batch", "calls", len(expanded))

	intents := Group(expanded, delegator, pol, diags)
	s.lggr.Debugw("grouped batch", "intents", len(intents))

	delegations := make([]delegation.UnsignedDelegation, 0, len(intents))
	descriptions := make([]string, 0, len(intents))
	for _, intent := range intents {
		ud, err := s.env.CreateDelegation(chainID, intent, delegator, delegatee)
		if err != nil {
			return nil, fmt.Errorf("create delegation: %w", err)
		}
		delegations = append(delegations, ud)
		descriptions = append(descriptions, Describe(intent, chainID))
	}

	warnings := diags.Warnings()
	for _, w := range warnings {
		s.lggr.Warnw("synthesis warning", "warning", w)
	}

	return &Result{
		ChainID:                chainID,
		NormalizedTransactions: expanded,
		DelegationIntents:      intents,
		Delegations:            delegations,
		Descriptions:           descriptions,
		Warnings:               warnings,
	}, nil
}

// Plan runs the pure stages only (normalize, expand, group), without
// constructing delegations. Useful for previewing the grants a batch would
// require.
func Plan(
	calls []EvmCall, delegator common.Address, pol config.Policy,
) ([]NormalizedCall, []delegation.Intent, []string, error) {
	if err := pol.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrPolicyViolation, err)
	}

	diags := NewDiagnostics()
	normalized, err := Normalize(calls, pol, diags)
	if err != nil {
		return nil, nil, nil, err
	}
	expanded, err := ExpandAll(normalized, pol, diags)
	if err != nil {
		return nil, nil, nil, err
	}
	intents := Group(expanded, delegator, pol, diags)

	return expanded, intents, diags.Warnings(), nil
}
