package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgrants/delegation-framework/delegation"
)

func TestSelectorOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       []byte
		allowEmpty bool
		want       delegation.Selector
		wantErr    error
	}{
		{
			name: "plain call",
			data: []byte{0x09, 0x5e, 0xa7, 0xb3, 0xff},
			want: delegation.Selector{0x09, 0x5e, 0xa7, 0xb3},
		},
		{
			name: "exactly four bytes",
			data: []byte{0x09, 0x5e, 0xa7, 0xb3},
			want: delegation.Selector{0x09, 0x5e, 0xa7, 0xb3},
		},
		{
			name:    "empty rejected by default",
			data:    nil,
			wantErr: ErrEmptyCalldataRejected,
		},
		{
			name:       "empty allowed maps to zero selector",
			data:       nil,
			allowEmpty: true,
			want:       delegation.Selector{},
		},
		{
			name:    "short non-empty data",
			data:    []byte{0x09, 0x5e},
			wantErr: ErrCalldataTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SelectorOf(tt.data, tt.allowEmpty)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindWordOccurrences(t *testing.T) {
	t.Parallel()

	word := delegation.AddressWord(testDelegator)

	t.Run("word-aligned occurrences", func(t *testing.T) {
		t.Parallel()

		// Arguments: delegator word, unrelated word, delegator word again.
		data := callData(selApprove, testDelegator.Bytes(), spenderA.Bytes(), testDelegator.Bytes())
		assert.Equal(t, []int{4, 68}, FindWordOccurrences(data, word))
	})

	t.Run("unaligned occurrence", func(t *testing.T) {
		t.Parallel()

		// Word planted mid-argument, off the 32-byte grid.
		data := make([]byte, 4+50)
		for i := range data {
			data[i] = 0xee
		}
		copy(data[10:], word[:])
		assert.Equal(t, []int{10}, FindWordOccurrences(data, word))
	})

	t.Run("selector region is skipped", func(t *testing.T) {
		t.Parallel()

		// The word's bytes start inside the selector; the scan must not
		// report offsets below 4.
		data := make([]byte, 36)
		copy(data[0:], word[:])
		assert.Empty(t, FindWordOccurrences(data, word))
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		data := callData(selApprove, spenderA.Bytes())
		assert.Empty(t, FindWordOccurrences(data, word))
	})

	t.Run("data shorter than one word", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, FindWordOccurrences(make([]byte, 20), word))
	})
}
