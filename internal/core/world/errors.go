package world

import "errors"

// World-specific errors
var (
	// ErrStaleEntity reports that a deferred command's target entity no longer
	// existed when the command executed.
	ErrStaleEntity = errors.New("deferred command target entity not found")
	// ErrStaleMarker reports that a deferred command expected a marker
	// component that was already gone when the command executed.
	ErrStaleMarker = errors.New("deferred command marker component not found")
	// ErrDeadParent reports a child spawn against a despawned parent.
	ErrDeadParent = errors.New("parent entity not alive")
	// ErrInvalidConfig reports a config validation failure.
	ErrInvalidConfig = errors.New("invalid world configuration")
)
