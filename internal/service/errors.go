package service

import (
	"errors"
	"fmt"
)

// Business-rule rejections. Both leave no state behind and are always
// recoverable by the caller resubmitting corrected input.
var (
	ErrSameAccount       = errors.New("source and target accounts must differ")
	ErrInsufficientFunds = errors.New("source balance must exceed transfer amount")
)

// ValidationError is a field-level rejection at the service boundary.
// No partial write ever accompanies one.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
