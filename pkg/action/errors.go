package action

import "errors"

var (
	// ErrRollbackNotSupported indicates that an action doesn't support rollback.
	ErrRollbackNotSupported = errors.New("rollback not supported for this action")

	// ErrActionNotFound indicates that a requested action doesn't exist in the registry.
	ErrActionNotFound = errors.New("action not found in registry")

	// ErrMissingHost indicates that an action was executed without an engine.
	ErrMissingHost = errors.New("missing action host")
)
