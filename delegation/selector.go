package delegation

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SelectorLength is the number of bytes identifying the called function at
// the front of ABI-encoded calldata.
const SelectorLength = 4

// WordLength is the width of one ABI word. Every scalar argument in EVM
// calldata occupies exactly one word.
const WordLength = 32

// Selector is a 4-byte function selector. The zero value identifies a plain
// value transfer (empty calldata).
type Selector [SelectorLength]byte

// SelectorFromSignature derives the selector for a canonical function
// signature, e.g. "approve(address,uint256)".
func SelectorFromSignature(sig string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(sig))[:SelectorLength])

	return s
}

// SelectorFromData returns the selector at the front of calldata. The caller
// is responsible for length checks; data shorter than 4 bytes yields the zero
// selector.
func SelectorFromData(data []byte) Selector {
	var s Selector
	if len(data) >= SelectorLength {
		copy(s[:], data[:SelectorLength])
	}

	return s
}

// ParseSelector parses a "0x"-prefixed 8-hex-digit selector string.
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	raw := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(raw) != SelectorLength*2 {
		return sel, fmt.Errorf("selector must be %d hex characters, got %q", SelectorLength*2, s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return sel, fmt.Errorf("invalid selector %q: %w", s, err)
	}
	copy(sel[:], b)

	return sel, nil
}

// IsZero reports whether the selector is the empty-calldata sentinel.
func (s Selector) IsZero() bool {
	return s == Selector{}
}

// String returns the lowercase "0x"-prefixed hex form of the selector.
func (s Selector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// Word is one 32-byte ABI word.
type Word [WordLength]byte

// AddressWord encodes an address as an ABI word: the 20 address bytes
// left-padded with zeros to 32 bytes, as the ABI encoder lays out a scalar
// address argument.
func AddressWord(addr common.Address) Word {
	var w Word
	copy(w[WordLength-common.AddressLength:], addr.Bytes())

	return w
}

// WordAt reads the ABI word starting at byte offset off. It returns false
// when fewer than 32 bytes remain.
func WordAt(data []byte, off int) (Word, bool) {
	var w Word
	if off < 0 || off+WordLength > len(data) {
		return w, false
	}
	copy(w[:], data[off:off+WordLength])

	return w, true
}

// AddressFromWord recovers an address from the low-order 20 bytes of a word.
func AddressFromWord(w Word) common.Address {
	return common.BytesToAddress(w[WordLength-common.AddressLength:])
}

// String returns the lowercase "0x"-prefixed hex form of the word.
func (w Word) String() string {
	return "0x" + hex.EncodeToString(w[:])
}
