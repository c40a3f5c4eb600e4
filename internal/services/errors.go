package services

import "errors"

// Domain failures. Everything else coming out of the service is a
// *BackendError wrapping the storage error verbatim.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEmptyDescription   = errors.New("description is required")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNonPositiveBalance = errors.New("no balance to earn interest on")
)

type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return "failed to " + e.Op + ": " + e.Err.Error() }
func (e *BackendError) Unwrap() error { return e.Err }

func backendErr(op string, err error) error { return &BackendError{Op: op, Err: err} }
