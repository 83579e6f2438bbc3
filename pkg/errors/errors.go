package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrLoanNotFound = errors.New("loan not found")
)

// ValidationError carries one or more client-facing validation messages.
// It always maps to a 400 response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError creates a validation error from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// AsValidation unwraps err to a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound  = "LOAN_NOT_FOUND"
	ErrCodeDatabaseError = "DATABASE_ERROR"
	ErrCodeRenderError   = "RENDER_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapRenderError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeRenderError,
		"report rendering failed",
		err,
	)
}

// ErrPaymentExceedsRemaining builds the overpayment rejection message,
// stating both the attempted and the remaining amount.
func ErrPaymentExceedsRemaining(attempted, remaining string) *ValidationError {
	return NewValidationError(
		fmt.Sprintf("Payment amount (%s) exceeds remaining amount (%s)", attempted, remaining),
	)
}
