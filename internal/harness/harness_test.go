package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/journal"
	"github.com/roach88/vocabdb/internal/testutil"
)

func parse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src), "testdata/scenarios")
	require.NoError(t, err)
	return s
}

func TestRun_Narrow(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/narrow.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 13)
	assert.Contains(t, result.Trace[5].Detail, "cannot use string")
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/narrow.yaml")
	require.NoError(t, err)

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, Snapshot(s.Name, r1), Snapshot(s.Name, r2))
}

func TestRun_VocabularyDirectory(t *testing.T) {
	s := parse(t, `
name: dir
description: vocabulary loaded from a package directory
vocabulary: ../vocab
steps:
  - bind: { as: t1, arg: tag.<val>, value: red }
  - place: { ref: t1, cell: 42 }
assertions:
  - { type: value, ref: t1, equals: red }
  - { type: db_string, ref: t1, contains: "(itsCellID 42)" }
  - { type: element_count, count: 16 }
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_StepFailures(t *testing.T) {
	s := parse(t, `
name: failures
description: unmet expectations are reported and execution continues
vocabulary: ../vocab/session.cue
steps:
  - bind: { as: c1, arg: obs.<count>, value: 500 }
    expect: { error: RANGE_VIOLATION }
  - bind: { as: c2, arg: obs.<nope>, value: 1 }
  - remove: { element: tag }
    expect: { error: UNKNOWN_ID }
  - bind: { as: c1, arg: obs.<count>, value: 5 }
  - place: { ref: c1, cell: 3 }
  - place: { ref: c1, cell: 4 }
    expect: { error: RANGE_VIOLATION }
  - copy: { ref: ghost, as: g }
assertions:
  - { type: value, ref: c1, equals: "100" }
  - { type: outcome_count, outcome: ok, count: 2 }
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	// 500 clamps to 100 instead of failing.
	require.Len(t, result.Trace, 7)
	assert.Equal(t, OutcomeOK, result.Trace[0].Outcome)
	assert.Equal(t, "UNKNOWN_ID", result.Trace[1].Outcome)
	assert.Equal(t, OutcomeOK, result.Trace[2].Outcome)
	assert.Equal(t, OutcomeError, result.Trace[3].Outcome)
	assert.Equal(t, OutcomeOK, result.Trace[4].Outcome)
	assert.Equal(t, "IMMUTABLE_FIELD_CHANGE", result.Trace[5].Outcome)
	assert.Equal(t, OutcomeError, result.Trace[6].Outcome)

	require.Len(t, result.Errors, 7)
	assert.Contains(t, result.Errors[0], "expected RANGE_VIOLATION, got success")
	assert.Contains(t, result.Errors[1], "unexpected error")
	assert.Contains(t, result.Errors[2], "expected UNKNOWN_ID, got success")
	assert.Contains(t, result.Errors[3], "already in use")
	assert.Contains(t, result.Errors[4], "expected RANGE_VIOLATION, got IMMUTABLE_FIELD_CHANGE")
	assert.Contains(t, result.Errors[5], `unknown value "ghost"`)
	assert.Contains(t, result.Errors[6], "assertions[1]")
}

func TestRun_EditRollsBackOnFailure(t *testing.T) {
	s := parse(t, `
name: atomic_edit
description: a failing edit commits none of its changes
vocabulary: ../vocab/session.cue
steps:
  - edit:
      element: obs
      rename: observations
      args:
        - { arg: <note>, delete: true }
        - { arg: <count>, approve: [a] }
    expect: { error: TYPE_MISMATCH }
  - edit:
      element: obs
      args:
        - { arg: <score>, min: 0.5 }
        - { arg: <onset>, max: 120 }
        - { arg: <quote>, sub_range: true, approve: [yes, no] }
        - { arg: <event>, approve: [miss], unapprove: [hit] }
        - { arg: <mood>, rename: <feeling>, hidden: true }
assertions:
  - type: args
    element: obs
    args: [<count>, <score>, <feeling>, <quote>, <note>, <onset>, <event>]
  - { type: db_string, element: obs, contains: "(QuoteStringFormalArg 10 <quote> true (no, yes))" }
  - { type: element_count, count: 15 }
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_VocabularyErrors(t *testing.T) {
	s := &Scenario{
		Name:       "broken",
		Vocabulary: filepath.Join("testdata", "invalid", "bad_kind.cue"),
		Steps:      []Step{{Remove: &RemoveStep{Element: "obs"}}},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile vocabulary")

	s.Vocabulary = filepath.Join("testdata", "invalid", "missing.cue")
	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load vocabulary")
}

func TestRun_Journal(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), journal.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)
	defer j.Close()

	s, err := LoadScenario("testdata/scenarios/narrow.yaml")
	require.NoError(t, err)
	result, err := Run(s, db.WithJournal(j))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	n, err := j.Verify(t.Context())
	require.NoError(t, err)
	assert.Positive(t, n)
}
