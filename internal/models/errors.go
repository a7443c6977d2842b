package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrClone ErrorType = iota
	ErrCheckout
	ErrCopy
	ErrDownload
	ErrExtract
	ErrVerify
	ErrHook
	ErrMethod
	ErrInvalidConfig
	ErrWorkspace
	ErrStaging
)

// ErrInvalidMethod is returned when a clone method is not one of the known
// methods or not a candidate for the repository.
var ErrInvalidMethod = errors.New("invalid clone method")

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrClone:
		return "Clone"
	case ErrCheckout:
		return "Checkout"
	case ErrCopy:
		return "Copy"
	case ErrDownload:
		return "Download"
	case ErrExtract:
		return "Extract"
	case ErrVerify:
		return "Verify"
	case ErrHook:
		return "Hook"
	case ErrMethod:
		return "InvalidMethod"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrWorkspace:
		return "Workspace"
	case ErrStaging:
		return "Staging"
	default:
		return "Unknown"
	}
}

// BootstrapError represents an error while preparing the workspace
type BootstrapError struct {
	Type       ErrorType
	Repository string
	Err        error
}

// Error implements the error interface
func (e *BootstrapError) Error() string {
	if e.Repository != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Repository, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// NewError wraps err into a BootstrapError for the given repository
func NewError(t ErrorType, repo string, err error) *BootstrapError {
	return &BootstrapError{Type: t, Repository: repo, Err: err}
}

// IsType reports whether err is a BootstrapError of type t
func IsType(err error, t ErrorType) bool {
	var be *BootstrapError
	if errors.As(err, &be) {
		return be.Type == t
	}
	return false
}
