package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "vocabdb", cmd.Use)
	assert.Contains(t, cmd.Long, "CUE")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"compile", "check", "test", "journal"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	sub, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)
	assert.Equal(t, "check", sub.Name())
}

func TestJournalSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"stores", "verify", "history", "snapshot"} {
		sub, _, err := cmd.Find([]string{"journal", name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	tps := cmd.PersistentFlags().Lookup("tps")
	require.NotNil(t, tps)
	assert.Equal(t, "60", tps.DefValue)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	output := compileCmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	require.NotNil(t, compileCmd.Flags().Lookup("journal"))
}

func TestRootInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "check", compilerVocabDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRootInvalidTPS(t *testing.T) {
	_, err := execute(t, "--tps", "0", "check", compilerVocabDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tps")
}
