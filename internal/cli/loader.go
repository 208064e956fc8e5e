package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vocabdb/internal/compiler"
)

// Error code constants shared by all commands. Compiler errors keep their
// own E2xx codes.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeLoadFailed    = "E004" // CUE load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeStoreFailed   = "E006" // Store could not be created
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeJournalFailed = "E008" // Journal open or query failed
	ErrCodeCorrupted     = "E009" // Journal hash chain broken
)

// LoadError represents an error that occurred while loading a vocabulary.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadResult is a loaded, not yet compiled, vocabulary.
type LoadResult struct {
	Value     cue.Value
	FileCount int
}

// LoadVocabulary reads the vocabulary at path: either a single .cue file or
// a directory holding one CUE package.
func LoadVocabulary(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("vocabulary not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing vocabulary: %v", err)}
	}

	if !info.IsDir() {
		v, err := compiler.LoadFile(path)
		if err != nil {
			return nil, convertCompileError(err)
		}
		return &LoadResult{Value: v, FileCount: 1}, nil
	}

	files, err := compiler.FindCUEFiles(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
	}
	v, err := compiler.Load(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return &LoadResult{Value: v, FileCount: len(files)}, nil
}

// convertCompileError converts a loader failure to a LoadError with
// position info.
func convertCompileError(err error) *LoadError {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return &LoadError{Code: ErrCodeLoadFailed, Message: ce.Message, Pos: ce.Pos}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
}

// errorCode returns the code reported for err: the compiler's own code,
// the loader's, or ErrCodeGeneric.
func errorCode(err error) string {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}

// errorMessage returns err's message without the code prefix.
func errorMessage(err error) string {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Message
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le.Message
	}
	return err.Error()
}

// errorPos returns the source position carried by err, if any.
func errorPos(err error) token.Pos {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Pos
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le.Pos
	}
	return token.NoPos
}
