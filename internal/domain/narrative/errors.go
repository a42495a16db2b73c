package narrative

import "errors"

// Sentinel kinds for narrative errors.
var (
	// ErrGraphConstruction marks a malformed script. Fatal at startup; the
	// process must refuse to run with a broken graph.
	ErrGraphConstruction = errors.New("graph construction failed")

	// ErrInvalidChoiceIndex is returned when a caller selects a choice the
	// current node does not offer. Recoverable: re-present the same node.
	ErrInvalidChoiceIndex = errors.New("invalid choice index")

	// ErrSessionTerminal is returned when a caller tries to advance a
	// finished session. Recoverable: route to the verdict flow instead.
	ErrSessionTerminal = errors.New("session already terminal")
)
