package chain_test

import (
	"testing"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgrants/delegation-framework/chain"
)

func TestMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		chainID    uint64
		wantKnown  bool
		wantName   string
		wantString string
	}{
		{
			name:       "ethereum mainnet",
			chainID:    1,
			wantKnown:  true,
			wantName:   chainsel.ETHEREUM_MAINNET.Name,
			wantString: chainsel.ETHEREUM_MAINNET.Name + " (1)",
		},
		{
			name:       "unknown chain falls back to decimal id",
			chainID:    999999999999,
			wantKnown:  false,
			wantName:   "999999999999",
			wantString: "999999999999 (999999999999)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md := chain.Metadata{ChainID: tt.chainID}
			assert.Equal(t, tt.wantKnown, md.Known())
			assert.Equal(t, tt.wantName, md.Name())
			assert.Equal(t, tt.wantString, md.String())
		})
	}
}

func TestMetadataSelector(t *testing.T) {
	t.Parallel()

	selector, err := chain.Metadata{ChainID: 1}.Selector()
	require.NoError(t, err)
	assert.Equal(t, chainsel.ETHEREUM_MAINNET.Selector, selector)

	_, err = chain.Metadata{ChainID: 999999999999}.Selector()
	require.Error(t, err)
}
