package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cuelang.org/go/cue"

	"github.com/roach88/vocabdb/internal/db"
)

// ValidationError represents a vocabulary validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate compiles v into a scratch store and returns every problem
// found (does not fail-fast). A definition that fails is skipped so later
// definitions are still checked.
func Validate(v cue.Value, opts ...db.Option) []ValidationError {
	opts = append([]db.Option{db.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	d, err := db.New(opts...)
	if err != nil {
		return []ValidationError{{Field: "store", Message: err.Error(), Code: ErrStoreViolation}}
	}

	vocab, errs := compile(d, v, false)
	out := make([]ValidationError, 0, len(errs))
	for _, err := range errs {
		out = append(out, toValidationError(err))
	}
	for _, ve := range vocab.Elements() {
		if !ve.IsWellFormed(true) {
			out = append(out, ValidationError{
				Field:   ve.Name(),
				Message: "element is not well formed",
				Code:    ErrNotWellFormed,
			})
		}
	}
	return out
}

func toValidationError(err error) ValidationError {
	out := ValidationError{Message: err.Error(), Code: ErrStoreViolation}
	var ce *CompileError
	if errors.As(err, &ce) {
		out.Field = ce.Field
		out.Message = ce.Message
		out.Code = ce.Code
		if ce.Pos.IsValid() {
			out.Line = ce.Pos.Line()
		}
	}
	return out
}
