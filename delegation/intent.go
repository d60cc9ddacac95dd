package delegation

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Intent is one permission grant to be turned into a delegation: the holder
// may call any listed selector on any listed target, and when AllowedCalldata
// is non-empty, only with calldata matching every pin.
//
// A pinned intent always covers exactly one (target, selector) pair so that a
// pin computed for one call shape can never leak onto an unrelated one.
type Intent struct {
	Targets         []common.Address
	Selectors       []Selector
	AllowedCalldata []CalldataPin
}

// Covers reports whether the intent authorizes a call to target with the
// given selector and calldata: target and selector must be listed and every
// pin must match.
func (in Intent) Covers(target common.Address, selector Selector, data []byte) bool {
	if !in.hasTarget(target) || !in.hasSelector(selector) {
		return false
	}
	for _, pin := range in.AllowedCalldata {
		if !pin.Matches(data) {
			return false
		}
	}

	return true
}

func (in Intent) hasTarget(target common.Address) bool {
	for _, t := range in.Targets {
		if t == target {
			return true
		}
	}

	return false
}

func (in Intent) hasSelector(selector Selector) bool {
	for _, s := range in.Selectors {
		if s == selector {
			return true
		}
	}

	return false
}

// FirstPinOffset returns the lowest pinned byte offset, or -1 for an unpinned
// intent. Part of the deterministic output ordering.
func (in Intent) FirstPinOffset() int {
	if len(in.AllowedCalldata) == 0 {
		return -1
	}
	first := in.AllowedCalldata[0].ByteOffset
	for _, pin := range in.AllowedCalldata[1:] {
		if pin.ByteOffset < first {
			first = pin.ByteOffset
		}
	}

	return first
}

// Normalize sorts the intent's targets, selectors and pins in place into
// their canonical order.
func (in *Intent) Normalize() {
	sort.Slice(in.Targets, func(i, j int) bool {
		return bytes.Compare(in.Targets[i][:], in.Targets[j][:]) < 0
	})
	sort.Slice(in.Selectors, func(i, j int) bool {
		return bytes.Compare(in.Selectors[i][:], in.Selectors[j][:]) < 0
	})
	sort.Slice(in.AllowedCalldata, func(i, j int) bool {
		return in.AllowedCalldata[i].ByteOffset < in.AllowedCalldata[j].ByteOffset
	})
}

// SortIntents orders intents deterministically by (first target, first
// selector, first pin offset). Each intent must already be normalized.
func SortIntents(intents []Intent) {
	sort.Slice(intents, func(i, j int) bool {
		a, b := intents[i], intents[j]
		if c := bytes.Compare(a.Targets[0][:], b.Targets[0][:]); c != 0 {
			return c < 0
		}
		if c := bytes.Compare(a.Selectors[0][:], b.Selectors[0][:]); c != 0 {
			return c < 0
		}

		return a.FirstPinOffset() < b.FirstPinOffset()
	})
}

type intentJSON struct {
	Targets         []string      `json:"targets"`
	Selectors       []string      `json:"selectors"`
	AllowedCalldata []CalldataPin `json:"allowedCalldata"`
}

// MarshalJSON renders the intent in the wire form consumed by the external
// signer: lowercase hex addresses and selectors, pins as startIndex/value.
func (in Intent) MarshalJSON() ([]byte, error) {
	out := intentJSON{
		Targets:         make([]string, 0, len(in.Targets)),
		Selectors:       make([]string, 0, len(in.Selectors)),
		AllowedCalldata: in.AllowedCalldata,
	}
	if out.AllowedCalldata == nil {
		out.AllowedCalldata = []CalldataPin{}
	}
	for _, t := range in.Targets {
		out.Targets = append(out.Targets, "0x"+common.Bytes2Hex(t.Bytes()))
	}
	for _, s := range in.Selectors {
		out.Selectors = append(out.Selectors, s.String())
	}

	return json.Marshal(out)
}
