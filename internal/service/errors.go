package service

import (
	"errors"
	"fmt"

	"agritrack-api/pkg/validator"
)

// ValidationError is a client mistake in the request shape or in the
// business rules it has to satisfy. Handlers answer it with 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an unknown id. Handlers answer it with 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")

	ErrEmailExists       = &ValidationError{Message: "User already exists with this email"}
	ErrNameExists        = &ValidationError{Message: "User already exists with this name"}
	ErrDuplicateProduct  = &ValidationError{Message: "Product with this name already exists"}
	ErrInsufficientStock = &ValidationError{Message: "Insufficient stock for dispatch"}

	ErrUserNotFound        = &NotFoundError{Resource: "User"}
	ErrProductNotFound     = &NotFoundError{Resource: "Product"}
	ErrTransactionNotFound = &NotFoundError{Resource: "Transaction"}
	ErrReportNotFound      = &NotFoundError{Resource: "Report"}
)

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// validateRequest runs the struct tags and reports the first failure.
func validateRequest(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Message: errs[0].Message()}
	}
	return nil
}
