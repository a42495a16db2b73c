package repository

import "errors"

// Sentinel kinds for event log errors.
var (
	// ErrFetchFailed wraps storage failures surfaced to the inference
	// caller. The engine itself never performs the fetch.
	ErrFetchFailed = errors.New("event fetch failed")
)
