// Package config holds the synthesis policy knobs. Policy is always passed
// explicitly to the pipeline; the file/env loader exists for callers that
// keep their policy in configuration rather than code.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// ConsolidationMode selects how unpinned grants are consolidated when no call
// in the batch produced a calldata pin.
type ConsolidationMode string

const (
	// ConsolidationSingle collapses all (target, selector) pairs into one
	// intent.
	ConsolidationSingle ConsolidationMode = "single"
	// ConsolidationPerTarget produces one intent per target.
	ConsolidationPerTarget ConsolidationMode = "perTarget"
	// ConsolidationAuto collapses to a single intent only when every target
	// exposes an identical selector set, otherwise falls back to per-target.
	ConsolidationAuto ConsolidationMode = "auto"
)

// Policy carries the caller-supplied constraints applied during synthesis.
type Policy struct {
	// AllowNonZeroValue permits calls carrying a native-token value. A
	// function-call-scoped grant cannot enforce value transfers, so they are
	// rejected unless the caller opts in.
	AllowNonZeroValue bool `mapstructure:"allow_non_zero_value" yaml:"allow_non_zero_value"`

	// AllowEmptyCalldata permits calls with no calldata (plain value
	// transfers), mapped to the zero selector.
	AllowEmptyCalldata bool `mapstructure:"allow_empty_calldata" yaml:"allow_empty_calldata"`

	// Consolidation selects the fallback grouping for batches without pins.
	Consolidation ConsolidationMode `mapstructure:"consolidation" yaml:"consolidation"`

	// AllowedTargets restricts the addresses a grant may cover. Empty means
	// no restriction.
	AllowedTargets []common.Address `mapstructure:"-" yaml:"-"`
}

// Default returns the policy used when the caller supplies none: value
// transfers and empty calldata rejected, auto consolidation, no allowlist.
func Default() Policy {
	return Policy{
		AllowNonZeroValue:  false,
		AllowEmptyCalldata: false,
		Consolidation:      ConsolidationAuto,
	}
}

// Validate checks the policy for unknown consolidation modes.
func (p Policy) Validate() error {
	switch p.Consolidation {
	case ConsolidationSingle, ConsolidationPerTarget, ConsolidationAuto:
		return nil
	case "":
		return errors.New("consolidation mode is required")
	default:
		return fmt.Errorf("unknown consolidation mode %q", p.Consolidation)
	}
}

// TargetAllowed reports whether the allowlist admits target. An empty
// allowlist admits every target.
func (p Policy) TargetAllowed(target common.Address) bool {
	if len(p.AllowedTargets) == 0 {
		return true
	}
	for _, t := range p.AllowedTargets {
		if t == target {
			return true
		}
	}

	return false
}

// filePolicy is the on-disk shape of a policy file. Addresses are hex
// strings; Load parses them into the Policy allowlist.
type filePolicy struct {
	AllowNonZeroValue  bool     `mapstructure:"allow_non_zero_value"`
	AllowEmptyCalldata bool     `mapstructure:"allow_empty_calldata"`
	Consolidation      string   `mapstructure:"consolidation"`
	AllowedTargets     []string `mapstructure:"allowed_targets"`
}

// envBindings maps config keys to the environment variables that can
// override them.
var envBindings = map[string]string{
	"allow_non_zero_value": "DELEGATION_ALLOW_NON_ZERO_VALUE",
	"allow_empty_calldata": "DELEGATION_ALLOW_EMPTY_CALLDATA",
	"consolidation":        "DELEGATION_CONSOLIDATION",
}

// Load reads a policy from the YAML file at filePath with DELEGATION_*
// environment overrides. A missing file yields the defaults plus any
// environment overrides.
func Load(filePath string) (Policy, error) {
	v := viper.New()
	v.SetConfigFile(filePath)

	v.SetDefault("consolidation", string(ConsolidationAuto))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Policy{}, err
		}
	}

	// If the config file exists, we continue to read it, otherwise we fall
	// back to defaults and environment variables.
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return Policy{}, err
		}
	}

	fileCfg := filePolicy{}
	if err := v.Unmarshal(&fileCfg); err != nil {
		return Policy{}, err
	}

	pol := Policy{
		AllowNonZeroValue:  fileCfg.AllowNonZeroValue,
		AllowEmptyCalldata: fileCfg.AllowEmptyCalldata,
		Consolidation:      ConsolidationMode(fileCfg.Consolidation),
	}
	for _, raw := range fileCfg.AllowedTargets {
		if !common.IsHexAddress(raw) {
			return Policy{}, fmt.Errorf("allowed_targets: %q is not a hex address", raw)
		}
		pol.AllowedTargets = append(pol.AllowedTargets, common.HexToAddress(raw))
	}
	if err := pol.Validate(); err != nil {
		return Policy{}, err
	}

	return pol, nil
}
