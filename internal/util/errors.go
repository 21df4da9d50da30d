// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrNoParticipants      = errors.New("a bill needs at least one participant")
	ErrInvalidAmount       = errors.New("amount must be positive with at most two fractional digits")
	ErrIntegrityViolation  = errors.New("bill amount does not reconcile with its ledger entries")
	ErrIncomparableType    = errors.New("balance is not comparable to this type")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrAccountNotFound     = errors.New("account not found")
	ErrBillNotFound        = errors.New("bill not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrSelfRepayment       = errors.New("cannot record a repayment to yourself")
)

// IsError reports whether err matches the target sentinel.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// AsError finds the first error in err's chain that matches target.
func AsError(err error, target any) bool {
	return errors.As(err, target)
}
