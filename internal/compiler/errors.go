package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vocabdb/internal/db"
)

// Compile error codes (E200-E299)
const (
	ErrCUE              = "E200" // CUE syntax or evaluation error
	ErrMissingField     = "E201" // required field absent
	ErrNameSyntax       = "E202" // invalid element, argument or approved name
	ErrDuplicateName    = "E203" // name already in use
	ErrTypeMismatch     = "E204" // wrong type, kind or argument for a slot
	ErrRangeViolation   = "E205" // bad range, argument count or approval
	ErrImmutableField   = "E206" // write-once field set twice
	ErrStoreViolation   = "E207" // any other store rejection
	ErrNotWellFormed    = "E208" // registered element fails IsWellFormed
	ErrEmptyVocabulary  = "E209" // nothing to compile
	ErrUnsupportedField = "E210" // field not allowed for the argument type
)

// CompileError represents a compilation error with source position.
// Err, when set, is the store error that rejected the definition.
type CompileError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CompileError) Unwrap() error { return e.Err }

func newCompileError(code, field string, pos token.Pos, format string, args ...any) *CompileError {
	return &CompileError{Code: code, Field: field, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// wrapStoreError reports a store rejection against the definition at pos.
func wrapStoreError(field string, pos token.Pos, err error) *CompileError {
	return &CompileError{Code: storeCode(err), Field: field, Message: err.Error(), Pos: pos, Err: err}
}

func storeCode(err error) string {
	switch db.CodeOf(err) {
	case db.ErrCodeNameSyntaxViolation, db.ErrCodeNullInput:
		return ErrNameSyntax
	case db.ErrCodeDuplicateName:
		return ErrDuplicateName
	case db.ErrCodeTypeMismatch, db.ErrCodeUnknownID:
		return ErrTypeMismatch
	case db.ErrCodeRangeViolation:
		return ErrRangeViolation
	case db.ErrCodeImmutableFieldChange:
		return ErrImmutableField
	}
	return ErrStoreViolation
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}
	ce := &CompileError{Code: ErrCUE, Field: field, Message: err.Error()}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return ce
	}
	first := errs[0]
	ce.Message = first.Error()
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
