package builder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes builder and persistence failure semantics.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// OrInternal returns the code itself, or CodeInternal when the code is
// empty (an untyped cause).
func (c ErrorCode) OrInternal() ErrorCode {
	if c == "" {
		return CodeInternal
	}
	return c
}

// Error is the canonical typed error for editing commands and course persistence.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a typed error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with builder error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// NotFoundError reports a command aimed at an entity that is not in the tree.
func NotFoundError(op, entityKind string, id fmt.Stringer) error {
	return NewError(CodeNotFound, op, fmt.Sprintf("%s %s not found", entityKind, id), nil)
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var bErr *Error
	if !errors.As(err, &bErr) {
		return false
	}
	return bErr.Code == code
}

// CodeOf extracts the error code when available.
func CodeOf(err error) ErrorCode {
	var bErr *Error
	if !errors.As(err, &bErr) {
		return ""
	}
	return bErr.Code
}
