package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	pol := Default()
	assert.False(t, pol.AllowNonZeroValue)
	assert.False(t, pol.AllowEmptyCalldata)
	assert.Equal(t, ConsolidationAuto, pol.Consolidation)
	assert.Empty(t, pol.AllowedTargets)
	require.NoError(t, pol.Validate())
}

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    ConsolidationMode
		wantErr string
	}{
		{name: "single", mode: ConsolidationSingle},
		{name: "perTarget", mode: ConsolidationPerTarget},
		{name: "auto", mode: ConsolidationAuto},
		{name: "empty", mode: "", wantErr: "consolidation mode is required"},
		{name: "unknown", mode: "coarse", wantErr: `unknown consolidation mode "coarse"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Policy{Consolidation: tt.mode}.Validate()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTargetAllowed(t *testing.T) {
	t.Parallel()

	allowed := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	other := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	open := Policy{}
	assert.True(t, open.TargetAllowed(allowed))
	assert.True(t, open.TargetAllowed(other))

	restricted := Policy{AllowedTargets: []common.Address{allowed}}
	assert.True(t, restricted.TargetAllowed(allowed))
	assert.False(t, restricted.TargetAllowed(other))
}

func TestLoad(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "policy.yml")
	fileCfg := map[string]any{
		"allow_non_zero_value": true,
		"consolidation":        "perTarget",
		"allowed_targets": []string{
			"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		},
	}
	b, err := yaml.Marshal(fileCfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, b, 0o600))

	pol, err := Load(filePath)
	require.NoError(t, err)

	assert.True(t, pol.AllowNonZeroValue)
	assert.False(t, pol.AllowEmptyCalldata)
	assert.Equal(t, ConsolidationPerTarget, pol.Consolidation)
	require.Len(t, pol.AllowedTargets, 1)
	assert.Equal(t, common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), pol.AllowedTargets[0])
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	pol, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, ConsolidationAuto, pol.Consolidation)
	assert.False(t, pol.AllowNonZeroValue)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DELEGATION_ALLOW_EMPTY_CALLDATA", "true")
	t.Setenv("DELEGATION_CONSOLIDATION", "single")

	pol, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.True(t, pol.AllowEmptyCalldata)
	assert.Equal(t, ConsolidationSingle, pol.Consolidation)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad address", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "policy.yml")
		require.NoError(t, os.WriteFile(filePath, []byte("allowed_targets:\n  - nonsense\n"), 0o600))

		_, err := Load(filePath)
		require.ErrorContains(t, err, `"nonsense" is not a hex address`)
	})

	t.Run("bad consolidation mode", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "policy.yml")
		require.NoError(t, os.WriteFile(filePath, []byte("consolidation: coarse\n"), 0o600))

		_, err := Load(filePath)
		require.ErrorContains(t, err, "unknown consolidation mode")
	})
}
