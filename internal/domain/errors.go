package domain

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")

	// ErrCaseLocked rejects evidence appends and metadata edits on a case that
	// has been frozen for legal proceedings. Never retried.
	ErrCaseLocked = errors.New("case locked")

	// ErrChainConflict signals that a concurrent insert changed the expected
	// chain predecessor between read and write. Callers retry the whole append
	// once with a freshly read predecessor, then give up.
	ErrChainConflict = errors.New("chain conflict")
)
