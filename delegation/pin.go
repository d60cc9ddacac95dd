package delegation

import "encoding/json"

// CalldataPin asserts that a call's data contains exactly Word at ByteOffset.
// Offsets are absolute indexes into the full calldata, so the first argument
// word of a standard call sits at offset 4, just past the selector.
type CalldataPin struct {
	ByteOffset int
	Word       Word
}

// Matches reports whether data carries the pinned word at the pinned offset.
func (p CalldataPin) Matches(data []byte) bool {
	w, ok := WordAt(data, p.ByteOffset)

	return ok && w == p.Word
}

type calldataPinJSON struct {
	StartIndex int    `json:"startIndex"`
	Value      string `json:"value"`
}

// MarshalJSON renders the pin in the wire form consumed by the external
// signer: {"startIndex": <int>, "value": "0x<64 hex>"}.
func (p CalldataPin) MarshalJSON() ([]byte, error) {
	return json.Marshal(calldataPinJSON{
		StartIndex: p.ByteOffset,
		Value:      p.Word.String(),
	})
}
