// Package apperr defines the typed error taxonomy shared by the ingest and
// read paths. Handlers map these onto HTTP status codes; nothing here is
// fatal to the process.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflictIgnored marks a duplicate-row condition that was converted into
// a successful no-op. It never reaches a caller as a failure.
var ErrConflictIgnored = errors.New("duplicate row ignored")

// AuthError reports a missing or mismatched credential.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e == nil || strings.TrimSpace(e.Reason) == "" {
		return "unauthorized"
	}
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

// FieldViolation names one invalid field in a request payload.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports a payload that failed semantic validation,
// carrying every violation found so the caller can fix the request in one
// round trip.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a violation and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
	return e
}

// HasViolations reports whether any field failed.
func (e *ValidationError) HasViolations() bool {
	return e != nil && len(e.Violations) > 0
}

// NotFoundError reports an unknown entity, typically a company lookup miss.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// StorageError reports a backing-store failure other than a uniqueness
// violation. Entity names the table or record kind being written or read.
type StorageError struct {
	Entity string
	Err    error
}

func (e *StorageError) Error() string {
	if e == nil {
		return "storage failure"
	}
	return fmt.Sprintf("storage failure on %s: %v", e.Entity, e.Err)
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError reports a request body that could not be decoded at all.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "malformed request body"
	}
	return fmt.Sprintf("malformed request body: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsStorage reports whether err is a StorageError and returns it.
func IsStorage(err error) (*StorageError, bool) {
	var target *StorageError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsParse reports whether err is a ParseError.
func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}
