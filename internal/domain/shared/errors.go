package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the ledger core
const (
	CodeValidation          = "VALIDATION"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNotEditable         = "NOT_EDITABLE"
	CodeNotDeletable        = "NOT_DELETABLE"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConflict, "Resource was modified by another process")
	ErrNotEditable         = NewDomainError(CodeNotEditable, "Only draft documents can be edited")
	ErrNotDeletable        = NewDomainError(CodeNotDeletable, "Only draft documents can be deleted")
)

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewInvalidTransitionError creates an invalid transition error describing the edge
func NewInvalidTransitionError(from, to string) *DomainError {
	return NewDomainError(CodeInvalidTransition, "Cannot transition from "+from+" to "+to)
}

// NewUpstreamError wraps a collaborator failure so analytics can degrade a
// section instead of failing the whole response.
func NewUpstreamError(source string) *DomainError {
	return NewDomainError(CodeUpstreamUnavailable, "Upstream source unavailable: "+source)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
