package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vocabdb/internal/compiler"
	"github.com/roach88/vocabdb/internal/db"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check <vocabulary>",
		Aliases: []string{"validate"},
		Short:   "Check a vocabulary without keeping the result",
		Long: `Check a CUE vocabulary for errors.

Every definition is compiled into a scratch store, so names, kinds,
ranges and approved sets are checked exactly as compile would. Unlike
compile, check reports every problem instead of stopping at the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadVocabulary(path)
	if err != nil {
		// A vocabulary that does not parse is reported like any other
		// validation error; a missing path is a command error.
		if code := errorCode(err); code == ErrCodeLoadFailed {
			line := 0
			if pos := errorPos(err); pos.IsValid() {
				line = pos.Line()
			}
			return outputValidationErrors(formatter, []compiler.ValidationError{{
				Field:   "cue",
				Message: errorMessage(err),
				Code:    compiler.ErrCUE,
				Line:    line,
			}})
		}
		return formatter.fail(ExitCommandError, errorCode(err), errorMessage(err), nil)
	}
	formatter.VerboseLog("Loaded %d CUE file(s) from %s", loaded.FileCount, path)

	errs := compiler.Validate(loaded.Value,
		db.WithTicksPerSecond(opts.tps()),
		db.WithLogger(opts.newLogger(formatter.GetErrWriter())))
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputCheckSuccess(formatter)
}

func outputCheckSuccess(formatter *OutputFormatter) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ Vocabulary valid")
	return nil
}

// outputValidationErrors outputs every validation error. Validation
// failures exit with ExitFailure.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.JSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
