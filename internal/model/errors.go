package model

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of structural inconsistency.
type ErrorCode string

const (
	ErrUnknownEntity       ErrorCode = "UNKNOWN_ENTITY"
	ErrMissingMetadata     ErrorCode = "MISSING_METADATA"
	ErrNoSuperclass        ErrorCode = "NO_SUPERCLASS"
	ErrDuplicateProperty   ErrorCode = "DUPLICATE_PROPERTY"
	ErrUnmatchedAccessor   ErrorCode = "UNMATCHED_ACCESSOR"
	ErrCategoryClass       ErrorCode = "CATEGORY_CLASS"
	ErrUnexpectedAttribute ErrorCode = "UNEXPECTED_ATTRIBUTE"
	ErrEnumKindMismatch    ErrorCode = "ENUM_KIND_MISMATCH"
	ErrDuplicateValue      ErrorCode = "DUPLICATE_VALUE"
	ErrUnknownType         ErrorCode = "UNKNOWN_TYPE"
	ErrStatementMismatch   ErrorCode = "STATEMENT_MISMATCH"
)

// Error is a structural inconsistency. Any Error aborts a generation run.
type Error struct {
	Code    ErrorCode
	Subject string
	Message string
	cause   error
}

func Errorf(code ErrorCode, subject, format string, args ...any) *Error {
	return &Error{Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause to a new Error.
func Wrap(code ErrorCode, subject string, cause error) *Error {
	return &Error{Code: code, Subject: subject, Message: cause.Error(), cause: cause}
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Subject, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Code returns the ErrorCode of err, or "" when err is not an *Error.
func Code(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
