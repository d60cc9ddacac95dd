package synthesis

import (
	"bytes"
	"fmt"

	"github.com/agentgrants/delegation-framework/delegation"
)

// SelectorOf returns the 4-byte function selector at the front of calldata.
//
// Empty calldata is the plain value-transfer sentinel and maps to the zero
// selector only when allowEmpty is set; otherwise it fails with
// ErrEmptyCalldataRejected. Non-empty calldata shorter than a selector fails
// with ErrCalldataTooShort.
func SelectorOf(data []byte, allowEmpty bool) (delegation.Selector, error) {
	if len(data) == 0 {
		if allowEmpty {
			return delegation.Selector{}, nil
		}

		return delegation.Selector{}, ErrEmptyCalldataRejected
	}
	if len(data) < delegation.SelectorLength {
		return delegation.Selector{}, fmt.Errorf("%w: %d bytes", ErrCalldataTooShort, len(data))
	}

	return delegation.SelectorFromData(data), nil
}

// FindWordOccurrences scans the argument region of calldata (everything past
// the selector) for byte-aligned positions where the next 32 bytes equal
// word, at every byte offset. It returns the matching absolute byte offsets
// in ascending order.
func FindWordOccurrences(data []byte, word delegation.Word) []int {
	var offsets []int
	for off := delegation.SelectorLength; off+delegation.WordLength <= len(data); off++ {
		if bytes.Equal(data[off:off+delegation.WordLength], word[:]) {
			offsets = append(offsets, off)
		}
	}

	return offsets
}
