package synthesis

import "errors"

// Synthesis errors. None of these are retryable by this package; the whole
// batch fails because a partially-authorized batch is a security hazard.
var (
	// Input shape errors.
	ErrEmptyBatch            = errors.New("empty transaction batch")
	ErrInvalidAddress        = errors.New("invalid target address")
	ErrInvalidHexData        = errors.New("invalid calldata hex")
	ErrInvalidValue          = errors.New("invalid value")
	ErrInvalidChainID        = errors.New("invalid chain id")
	ErrMixedChainIDs         = errors.New("batch mixes chain ids")
	ErrCalldataTooShort      = errors.New("calldata shorter than a selector")
	ErrEmptyCalldataRejected = errors.New("empty calldata rejected by policy")

	// Expansion errors. A recognized wrapper that fails to decode, or a
	// batch-like selector with no implemented layout, always fails closed:
	// passing it through as a plain call would under-constrain the grant.
	ErrMulticallDecode      = errors.New("malformed multicall arguments")
	ErrUnsupportedMulticall = errors.New("unsupported batch-like call")

	// Policy errors.
	ErrPolicyViolation      = errors.New("policy violation")
	ErrTargetNotAllowlisted = errors.New("target not allowlisted")
)
