package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/vocabdb/internal/compiler"
	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/journal"
	"github.com/roach88/vocabdb/internal/schema"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output  string // debug string dump path
	Journal string // SQLite journal path
}

// ElementSummary describes one compiled vocabulary element.
type ElementSummary struct {
	ID       db.ID  `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind,omitempty"` // matrices only
	Args     int    `json:"args"`
	DBString string `json:"db_string"`
}

// CompilationResult holds the compiled vocabulary.
type CompilationResult struct {
	StoreID    string           `json:"store_id"`
	Predicates []ElementSummary `json:"predicates"`
	Matrices   []ElementSummary `json:"matrices"`
	Elements   int              `json:"elements"` // registry size, arguments included
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <vocabulary>",
		Short: "Compile a CUE vocabulary into a fresh store",
		Long: `Compile a CUE vocabulary (a .cue file or a package directory) into a
fresh store and print the registered elements.

With --journal every registry mutation is appended to a SQLite journal,
which the journal command can inspect later.

Examples:
  vocabdb compile ./vocab
  vocabdb compile ./vocab/session.cue --format json
  vocabdb compile ./vocab --journal ./vocab.db -o vocab.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write element debug strings to this file")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "append registry mutations to this SQLite journal")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadVocabulary(path)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d CUE file(s) from %s", loaded.FileCount, path)

	dbOpts := []db.Option{
		db.WithLogger(opts.newLogger(formatter.GetErrWriter())),
		db.WithTicksPerSecond(opts.tps()),
	}
	if opts.Journal != "" {
		j, err := journal.Open(opts.Journal, journal.WithLogger(opts.newLogger(formatter.GetErrWriter())))
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeJournalFailed, fmt.Sprintf("opening journal: %v", err), nil)
		}
		defer j.Close()
		dbOpts = append(dbOpts, db.WithJournal(j))
	}

	d, err := db.New(dbOpts...)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
	}
	vocab, err := compiler.CompileVocabulary(d, loaded.Value)
	if err != nil {
		return outputCompileError(formatter, err)
	}

	result := buildCompilationResult(d, vocab)
	for _, p := range result.Predicates {
		formatter.VerboseLog("Compiled predicate: %s", p.Name)
	}
	for _, m := range result.Matrices {
		formatter.VerboseLog("Compiled matrix: %s", m.Name)
	}

	if opts.Output != "" {
		if err := writeDBStrings(result, opts.Output); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, opts)
}

func buildCompilationResult(d *db.DB, vocab *compiler.Vocabulary) *CompilationResult {
	result := &CompilationResult{
		StoreID:    d.InstanceID().String(),
		Predicates: make([]ElementSummary, 0, len(vocab.Predicates)),
		Matrices:   make([]ElementSummary, 0, len(vocab.Matrices)),
		Elements:   d.Index().Len(),
	}
	for _, p := range vocab.Predicates {
		result.Predicates = append(result.Predicates, summarize(p, ""))
	}
	for _, m := range vocab.Matrices {
		result.Matrices = append(result.Matrices, summarize(m, m.Kind().String()))
	}
	return result
}

func summarize(ve schema.VocabElement, kind string) ElementSummary {
	return ElementSummary{
		ID:       ve.ID(),
		Name:     ve.Name(),
		Kind:     kind,
		Args:     ve.NumFormalArgs(),
		DBString: ve.DBString(),
	}
}

// writeDBStrings writes one debug string per line, predicates first.
func writeDBStrings(result *CompilationResult, filename string) error {
	var b strings.Builder
	for _, s := range result.Predicates {
		b.WriteString(s.DBString)
		b.WriteByte('\n')
	}
	for _, s := range result.Matrices {
		b.WriteString(s.DBString)
		b.WriteByte('\n')
	}
	return os.WriteFile(filename, []byte(b.String()), 0o644)
}

func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, opts *CompileOptions) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d predicate(s), %d matrix(es)\n\n", len(result.Predicates), len(result.Matrices))

	if len(result.Predicates) > 0 {
		fmt.Fprintln(w, "Predicates:")
		for _, p := range result.Predicates {
			fmt.Fprintf(w, "  %s (id %d): %d arg(s)\n", p.Name, p.ID, p.Args)
		}
		fmt.Fprintln(w)
	}
	if len(result.Matrices) > 0 {
		fmt.Fprintln(w, "Matrices:")
		for _, m := range result.Matrices {
			fmt.Fprintf(w, "  %s (id %d): %s, %d arg(s)\n", m.Name, m.ID, m.Kind, m.Args)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Registered %d element(s) in store %s\n", result.Elements, result.StoreID)
	if opts.Journal != "" {
		fmt.Fprintf(w, "Journaled to %s\n", opts.Journal)
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "Wrote debug strings to %s\n", opts.Output)
	}
	return nil
}

// outputCompileError outputs a load or compile failure. Both are command
// errors (exit code 2).
func outputCompileError(formatter *OutputFormatter, err error) error {
	code, message := errorCode(err), errorMessage(err)
	if !formatter.JSON() {
		fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
		fmt.Fprintln(formatter.Writer)
		if pos := errorPos(err); pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", pos.Filename(), pos.Line(), pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, message)
		return WrapExitError(ExitCommandError, "compilation failed", err)
	}
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, "compilation failed", err)
}
