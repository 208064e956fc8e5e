package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	compilerVocabDir = filepath.Join("..", "compiler", "testdata", "vocab")
	sessionVocab     = filepath.Join("..", "harness", "testdata", "vocab", "session.cue")
	badKindVocab     = filepath.Join("..", "harness", "testdata", "invalid", "bad_kind.cue")
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// response decodes a JSON CLIResponse whose data decodes into data.
func response(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), out)
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return CLIResponse{Status: raw.Status, Data: data, Error: raw.Error}
}

// writeScenario writes a scenario file bound to the session vocabulary.
func writeScenario(t *testing.T, dir, file, name, equals string) string {
	t.Helper()
	vocab, err := filepath.Abs(sessionVocab)
	require.NoError(t, err)
	src := fmt.Sprintf(`name: %s
vocabulary: %q
steps:
  - bind: { as: t1, arg: tag.<val>, value: red }
assertions:
  - { type: value, ref: t1, equals: %s }
`, name, vocab, equals)
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// compileJournal compiles the compiler test vocabulary into a journal
// under dir and returns the journal path.
func compileJournal(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "vocab.db")
	_, err := execute(t, "compile", compilerVocabDir, "--journal", path)
	require.NoError(t, err)
	return path
}
