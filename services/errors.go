package services

import (
	"errors"
	"fmt"

	"github.com/camden-git/gallerysysbackend/repository"
)

// ErrNotFound is the absent-result sentinel for role and album lookups.
// It aliases the repository sentinel so errors.Is works across both layers.
var ErrNotFound = repository.ErrNotFound

// ValidationReason identifies which guard check rejected a role mutation.
type ValidationReason string

const (
	ReasonLastAdminRemoval  ValidationReason = "last-admin-removal"
	ReasonSelfLockout       ValidationReason = "self-lockout"
	ReasonCrossGalleryScope ValidationReason = "cross-gallery-scope"
	ReasonEscalationDenied  ValidationReason = "escalation-denied"
)

// ValidationError is returned verbatim to the caller when a guard check
// rejects a save or delete. It reflects a business-rule conflict, never a
// transient fault, so callers must not retry.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Reason, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NamingError indicates an owner-role name could not be shortened to fit the
// length budget.
type NamingError struct {
	Username string
	AlbumID  uint
	Length   int
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("owner role name for user %q on album %d cannot be shortened to %d characters", e.Username, e.AlbumID, e.Length)
}

// PersistenceError wraps an opaque storage failure. The core surfaces it
// immediately without retrying or rolling back already-applied changes.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// wrapPersistence wraps err as a PersistenceError unless it already belongs to
// the core taxonomy.
func wrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || IsValidationError(err) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
