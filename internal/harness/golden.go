package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/vocabdb/internal/db"
)

// Snapshot renders the trace and the named values of a result in a stable
// text form: one "seq action target outcome" line per step, then one
// "ref dbstring" line per value.
func Snapshot(name string, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	buf.WriteString("trace:\n")
	for _, ev := range result.Trace {
		fmt.Fprintf(&buf, "  %d %s %s %s\n", ev.Seq, ev.Action, ev.Target, ev.Outcome)
	}
	buf.WriteString("values:\n")
	for _, v := range result.Values {
		fmt.Fprintf(&buf, "  %s %s\n", v.Ref, v.DBString)
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...db.Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against its golden
// file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}
