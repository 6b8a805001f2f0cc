package contracts

import "errors"

// Error taxonomy of a ranking pass.
// Per-instrument errors are recorded as skips; only provider failures reach the caller.
// ErrNoData marks an identifier the upstream does not know, which is reported as missing.
var (
	ErrInsufficientHistory = errors.New("insufficient price history")
	ErrWindowLookup        = errors.New("window price lookup failed")
	ErrProviderFailure     = errors.New("price provider failure")
	ErrNoData              = errors.New("no price data")
	ErrEmptyInput          = errors.New("no instrument identifiers supplied")
)
