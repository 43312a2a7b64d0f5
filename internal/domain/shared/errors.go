package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError for callers that need to branch on it
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindStore
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"-"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so sentinel comparisons work on
// errors created with a different message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports a missing or malformed caller-supplied value
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message, Kind: KindValidation}
}

// NewValidationErrorf is NewValidationError with formatting
func NewValidationErrorf(format string, args ...any) *DomainError {
	return NewValidationError(fmt.Sprintf(format, args...))
}

// NewNotFoundError reports an absent or soft-deleted record
func NewNotFoundError(resource string, id any) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
		Kind:    KindNotFound,
	}
}

// NewConflictError reports a uniqueness conflict that could not be resolved
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindConflict}
}

// NewStoreError wraps a data store failure
func NewStoreError(op string, err error) *DomainError {
	return &DomainError{
		Code:    CodeStore,
		Message: op + " failed",
		Kind:    KindStore,
		Err:     err,
	}
}

// Error codes
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeStore                  = "STORE_ERROR"
	CodeDocumentNumberConflict = "DOCUMENT_NUMBER_CONFLICT"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeIdempotencyInFlight    = "IDEMPOTENCY_IN_FLIGHT"
	CodeMailNotConfigured      = "MAIL_NOT_CONFIGURED"
	CodeMailDeliveryFailed     = "MAIL_DELIVERY_FAILED"
)

// Common domain errors
var (
	ErrNotFound               = &DomainError{Code: CodeNotFound, Message: "Resource not found", Kind: KindNotFound}
	ErrInvalidInput           = &DomainError{Code: "INVALID_INPUT", Message: "Invalid input provided", Kind: KindValidation}
	ErrDocumentNumberConflict = &DomainError{Code: CodeDocumentNumberConflict, Message: "Document number could not be allocated", Kind: KindConflict}
	ErrMailNotConfigured      = NewDomainError(CodeMailNotConfigured, "Mail transport is not configured")
)

// KindOf returns the kind of the first DomainError in err's chain
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsStore reports whether err is a data store failure
func IsStore(err error) bool { return KindOf(err) == KindStore }
