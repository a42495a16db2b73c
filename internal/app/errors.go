package app

import "errors"

// Sentinel kinds for orchestrator errors.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrSessionNotFound = errors.New("session not found")
)
