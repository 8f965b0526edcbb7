package errors

import (
	"errors"
	"fmt"
)

// Domain errors for the loan ledger back office
var (
	ErrAccountNotFound      = errors.New("Account not found")
	ErrAccountDoesNotExist  = errors.New("Account does not exist")
	ErrAdminNotFound        = errors.New("Admin not found")
	ErrLoanNotFound         = errors.New("Loan not found")
	ErrNoLoansFound         = errors.New("No loans found for the given user.")
	ErrAccountAlreadyExists = errors.New("Account already exist")
	ErrAdminAlreadyExists   = errors.New("Admin already exist")
	ErrActiveLoanExists     = errors.New("User already has an active loan")
	ErrAccountHasHistory    = errors.New("Account has loan or transaction history")
	ErrInvalidAmount        = errors.New("Transaction amount must be positive")
	ErrInsufficientFunds    = errors.New("Insufficient funds for this withdrawal")
	ErrInvalidLoanStatus    = errors.New("Invalid loan status")
	ErrInvalidTxnType       = errors.New("Invalid transaction type")
	ErrInvalidTenure        = errors.New("Loan tenure must be at least one month")
	ErrInvalidID            = errors.New("id is required")
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrInvalidToken         = errors.New("Invalid or expired token")
	ErrForbidden            = errors.New("Insufficient permissions")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// TransactionError wraps a store failure that happened inside a unit of work.
type TransactionError struct {
	Operation string
	Cause     error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction error during '%s': %v", e.Operation, e.Cause)
}

func (e *TransactionError) Unwrap() error {
	return e.Cause
}

func NewTransactionError(operation string, cause error) error {
	return &TransactionError{
		Operation: operation,
		Cause:     cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrAccountDoesNotExist) ||
		errors.Is(err, ErrAdminNotFound) ||
		errors.Is(err, ErrLoanNotFound) ||
		errors.Is(err, ErrNoLoansFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrAccountAlreadyExists) ||
		errors.Is(err, ErrAdminAlreadyExists) ||
		errors.Is(err, ErrActiveLoanExists) ||
		errors.Is(err, ErrAccountHasHistory)
}

func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidLoanStatus) ||
		errors.Is(err, ErrInvalidTxnType) ||
		errors.Is(err, ErrInvalidTenure) ||
		errors.Is(err, ErrInvalidID) ||
		IsValidationError(err)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidToken)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// Is and As are re-exported so callers importing this package under the
// name errors keep access to the standard helpers.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
