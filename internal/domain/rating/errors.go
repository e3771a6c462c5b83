package rating

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrSideSize is the fatal precondition violation of a side that does not
	// hold exactly SideSize participants. No deltas may be produced after it.
	ErrSideSize      = errors.New("side must have exactly 5 participants")
	ErrInvalidParams = errors.New("invalid rating parameters")
)
