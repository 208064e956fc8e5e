package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileDirectory(t *testing.T) {
	out, err := execute(t, "compile", compilerVocabDir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 2 predicate(s), 3 matrix(es)")
	assert.Contains(t, out, "hit (id 1): 3 arg(s)")
	assert.Contains(t, out, "obs (id ")
	assert.Contains(t, out, "MATRIX, 5 arg(s)")
	assert.Contains(t, out, "Registered 16 element(s) in store ")
	assert.NotContains(t, out, "Journaled")
}

func TestCompileSingleFileJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "compile", sessionVocab)
	require.NoError(t, err)

	var result CompilationResult
	resp := response(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, result.Predicates, 2)
	require.Len(t, result.Matrices, 2)
	assert.Equal(t, 15, result.Elements)
	assert.NotEmpty(t, result.StoreID)

	assert.Equal(t, "hit", result.Predicates[0].Name)
	assert.Empty(t, result.Predicates[0].Kind)
	assert.Equal(t, "obs", result.Matrices[0].Name)
	assert.Equal(t, "MATRIX", result.Matrices[0].Kind)
	assert.Equal(t, 7, result.Matrices[0].Args)
	assert.Equal(t, "NOMINAL", result.Matrices[1].Kind)
	assert.Contains(t, result.Matrices[1].DBString, "(type: NOMINAL)")
}

func TestCompileOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	out, err := execute(t, "compile", compilerVocabDir, "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote debug strings to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "((PredicateVocabElement: 1 hit)"), lines[0])
	assert.Contains(t, lines[4], "obs")
}

func TestCompileTicksPerSecond(t *testing.T) {
	var result CompilationResult
	out, err := execute(t, "--format", "json", "--tps", "1000", "compile", compilerVocabDir)
	require.NoError(t, err)
	response(t, out, &result)

	var obs ElementSummary
	for _, m := range result.Matrices {
		if m.Name == "obs" {
			obs = m
		}
	}
	assert.Contains(t, obs.DBString, "(1000,00:00:00:060)")
}

func TestCompileNotFound(t *testing.T) {
	out, err := execute(t, "compile", "/nonexistent/vocab")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, "E005: vocabulary not found")
}

func TestCompileEmptyDirectory(t *testing.T) {
	out, err := execute(t, "compile", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E003")
}

func TestCompileInvalidVocabulary(t *testing.T) {
	out, err := execute(t, "compile", badKindVocab)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "bad_kind.cue:1:")
	assert.Contains(t, out, "E204")
}

func TestCompileInvalidVocabularyJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "compile", badKindVocab)
	require.Error(t, err)

	resp := response(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E204", resp.Error.Code)
}

func TestCompileSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte("predicate: {\n"), 0o644))

	out, err := execute(t, "compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E004")
}

func TestCompileJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.db")
	out, err := execute(t, "compile", compilerVocabDir, "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Journaled to "+path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
