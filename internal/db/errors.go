package db

import (
	"errors"
	"fmt"
)

// ErrorCode categorises schema/store violations.
type ErrorCode string

const (
	// ErrCodeNullInput indicates a nil element or empty required argument.
	ErrCodeNullInput ErrorCode = "NULL_INPUT"

	// ErrCodeForeignStore indicates an element bound to a different store.
	ErrCodeForeignStore ErrorCode = "FOREIGN_STORE"

	// ErrCodeAlreadyRegistered indicates an element whose ID is already assigned.
	ErrCodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"

	// ErrCodeDuplicateIdentity indicates the same object inserted twice.
	ErrCodeDuplicateIdentity ErrorCode = "DUPLICATE_IDENTITY"

	// ErrCodeUnknownID indicates InvalidID or an ID absent from the index.
	ErrCodeUnknownID ErrorCode = "UNKNOWN_ID"

	// ErrCodeTypeMismatch indicates the wrong concrete variant for a slot.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeImmutableFieldChange indicates a write-once field being rewritten.
	ErrCodeImmutableFieldChange ErrorCode = "IMMUTABLE_FIELD_CHANGE"

	// ErrCodeRangeViolation indicates a value or index outside its permitted range.
	ErrCodeRangeViolation ErrorCode = "RANGE_VIOLATION"

	// ErrCodeNameSyntaxViolation indicates a name or string failing the identifier grammar.
	ErrCodeNameSyntaxViolation ErrorCode = "NAME_SYNTAX_VIOLATION"

	// ErrCodeStateInvariantViolation indicates internal state corruption.
	ErrCodeStateInvariantViolation ErrorCode = "STATE_INVARIANT_VIOLATION"

	// ErrCodeDuplicateName indicates a name already used in the same scope.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrNullInput               = &Error{Code: ErrCodeNullInput}
	ErrForeignStore            = &Error{Code: ErrCodeForeignStore}
	ErrAlreadyRegistered       = &Error{Code: ErrCodeAlreadyRegistered}
	ErrDuplicateIdentity       = &Error{Code: ErrCodeDuplicateIdentity}
	ErrUnknownID               = &Error{Code: ErrCodeUnknownID}
	ErrTypeMismatch            = &Error{Code: ErrCodeTypeMismatch}
	ErrImmutableFieldChange    = &Error{Code: ErrCodeImmutableFieldChange}
	ErrRangeViolation          = &Error{Code: ErrCodeRangeViolation}
	ErrNameSyntaxViolation     = &Error{Code: ErrCodeNameSyntaxViolation}
	ErrStateInvariantViolation = &Error{Code: ErrCodeStateInvariantViolation}
	ErrDuplicateName           = &Error{Code: ErrCodeDuplicateName}
)

// Error is the single error type reported by the schema and value layers.
//
// An operation that returns an *Error has had no side effect.
type Error struct {
	// Code identifies the violation category.
	Code ErrorCode

	// Op names the rejected operation, e.g. "Index.Add".
	Op string

	// ID is the element involved, if known.
	ID ID

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.ID != InvalidID:
		return fmt.Sprintf("%s: %s: %s (id=%d)", e.Code, e.Op, e.Message, e.ID)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Errorf builds an *Error for op with a formatted message.
func Errorf(code ErrorCode, op string, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// errorfID is Errorf with the element ID attached.
func errorfID(code ErrorCode, op string, id ID, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, ID: id, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
