package synthesis

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agentgrants/delegation-framework/config"
	"github.com/agentgrants/delegation-framework/delegation"
)

// groupKey buckets calls that may safely share one grant: same target, same
// selector, and for spender-carrying selectors the same counterparty. A
// comparable struct key keeps distinct components distinct without the
// string-concatenation pitfalls.
type groupKey struct {
	target     common.Address
	selector   delegation.Selector
	spender    common.Address
	hasSpender bool
}

type group struct {
	calls []NormalizedCall
	pins  []map[int]delegation.Word
}

// Group produces the minimal intent set covering every expanded call.
//
// When any call in the batch carries a pin, each (target, selector[, spender])
// bucket becomes its own single-target single-selector intent whose pins are
// the intersection of the bucket's per-call pin sets: a pin survives only if
// every call in the bucket matches it, so a pin can never exclude a call that
// belongs to its own grant. When no call carries any pin, the buckets are
// consolidated per the policy's fallback mode instead.
//
// Output ordering is deterministic by (target, selector, first pin offset) so
// identical batches always synthesize byte-identical intent lists.
func Group(calls []NormalizedCall, delegator common.Address, pol config.Policy, diags *Diagnostics) []delegation.Intent {
	groups := make(map[groupKey]*group)
	var order []groupKey
	anyPins := false

	for _, call := range calls {
		key := groupKey{target: call.Target, selector: call.Selector}
		if spender, ok := spenderOf(call); ok {
			key.spender = spender
			key.hasSpender = true
		}

		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		pins := pinsForCall(call, delegator)
		if len(pins) > 0 {
			anyPins = true
		}
		g.calls = append(g.calls, call)
		g.pins = append(g.pins, pins)
	}

	var intents []delegation.Intent
	if anyPins {
		intents = make([]delegation.Intent, 0, len(order))
		for _, key := range order {
			intents = append(intents, delegation.Intent{
				Targets:         []common.Address{key.target},
				Selectors:       []delegation.Selector{key.selector},
				AllowedCalldata: intersectPins(groups[key].pins),
			})
		}
	} else {
		intents = consolidate(order, pol.Consolidation, diags)
	}

	for i := range intents {
		intents[i].Normalize()
	}
	delegation.SortIntents(intents)

	return intents
}

// intersectPins keeps only the (offset, word) pairs present in every per-call
// pin set.
func intersectPins(sets []map[int]delegation.Word) []delegation.CalldataPin {
	if len(sets) == 0 {
		return nil
	}

	var pins []delegation.CalldataPin
	for off, word := range sets[0] {
		shared := true
		for _, other := range sets[1:] {
			if w, ok := other[off]; !ok || w != word {
				shared = false
				break
			}
		}
		if shared {
			pins = append(pins, delegation.CalldataPin{ByteOffset: off, Word: word})
		}
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i].ByteOffset < pins[j].ByteOffset })

	return pins
}

// consolidate applies the coarse fallback grouping for pinless batches.
func consolidate(order []groupKey, mode config.ConsolidationMode, diags *Diagnostics) []delegation.Intent {
	if len(order) == 0 {
		return nil
	}
	diags.Warnf("no calldata pins found; consolidating grants (%s)", mode)

	if mode == config.ConsolidationAuto {
		if uniformSelectorSets(order) {
			mode = config.ConsolidationSingle
		} else {
			mode = config.ConsolidationPerTarget
		}
	}

	switch mode {
	case config.ConsolidationSingle:
		intent := delegation.Intent{}
		seenTargets := make(map[common.Address]struct{})
		seenSelectors := make(map[delegation.Selector]struct{})
		for _, key := range order {
			if _, ok := seenTargets[key.target]; !ok {
				seenTargets[key.target] = struct{}{}
				intent.Targets = append(intent.Targets, key.target)
			}
			if _, ok := seenSelectors[key.selector]; !ok {
				seenSelectors[key.selector] = struct{}{}
				intent.Selectors = append(intent.Selectors, key.selector)
			}
		}

		return []delegation.Intent{intent}

	default: // config.ConsolidationPerTarget
		byTarget := make(map[common.Address]*delegation.Intent)
		var intents []*delegation.Intent
		for _, key := range order {
			in, ok := byTarget[key.target]
			if !ok {
				in = &delegation.Intent{Targets: []common.Address{key.target}}
				byTarget[key.target] = in
				intents = append(intents, in)
			}
			if !containsSelector(in.Selectors, key.selector) {
				in.Selectors = append(in.Selectors, key.selector)
			}
		}

		out := make([]delegation.Intent, 0, len(intents))
		for _, in := range intents {
			out = append(out, *in)
		}

		return out
	}
}

// uniformSelectorSets reports whether every target exposes the identical
// selector set.
func uniformSelectorSets(order []groupKey) bool {
	perTarget := make(map[common.Address]map[delegation.Selector]struct{})
	for _, key := range order {
		set, ok := perTarget[key.target]
		if !ok {
			set = make(map[delegation.Selector]struct{})
			perTarget[key.target] = set
		}
		set[key.selector] = struct{}{}
	}

	var ref map[delegation.Selector]struct{}
	for _, set := range perTarget {
		if ref == nil {
			ref = set
			continue
		}
		if len(set) != len(ref) {
			return false
		}
		for sel := range set {
			if _, ok := ref[sel]; !ok {
				return false
			}
		}
	}

	return true
}

func containsSelector(selectors []delegation.Selector, sel delegation.Selector) bool {
	for _, s := range selectors {
		if s == sel {
			return true
		}
	}

	return false
}
