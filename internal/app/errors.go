package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrBatchTooLarge  = errors.New("batch exceeds max batch size")
	ErrBackpressure   = errors.New("rating queue is full")
	ErrMissingMatchID = errors.New("settlement requires a match id")
	ErrAlreadySettled = errors.New("match already settled")
)
