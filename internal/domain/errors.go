package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates a permission predicate failed.
	ErrForbidden = errors.New("permission denied")

	// ErrIllegalOperation indicates a mutation would violate a structural
	// invariant (self-parenting, duplicate membership, non-member removal).
	ErrIllegalOperation = errors.New("illegal operation")

	// ErrNotBacked indicates an operation requires a committed storage
	// object that does not exist yet.
	ErrNotBacked = errors.New("file not backed by storage")

	// ErrConflict indicates a uniqueness violation (duplicate tag, editor
	// already present).
	ErrConflict = errors.New("already exists")

	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates authentication failure.
	ErrUnauthorized = errors.New("unauthorized")
)

// StorageError wraps a failed object-storage adapter call. It aborts the
// enclosing operation and surfaces as a server-side failure; it is never
// recovered into a client-visible rejection.
type StorageError struct {
	Op     string // "put", "delete", "sign"
	Bucket string
	Key    string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) StatusCode() int { return http.StatusInternalServerError }

// ConflictError carries details about the existing resource so callers can
// return it alongside a 409.
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
