package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a vocabulary, a sequence of
// store operations, and assertions over the resulting store.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Vocabulary is a CUE file or package directory compiled into the
	// store before the first step. Relative paths are resolved against the
	// scenario file's directory.
	Vocabulary string `yaml:"vocabulary"`

	// TicksPerSecond sets the store's time-stamp resolution.
	// Default: db.DefaultTicksPerSecond
	TicksPerSecond int64 `yaml:"ticks_per_second,omitempty"`

	// Steps run in order. A step that fails without an expect clause fails
	// the scenario but does not stop it.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final store and trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one store operation. Exactly one of the operation fields is set.
type Step struct {
	Bind   *BindStep   `yaml:"bind,omitempty"`
	Copy   *CopyStep   `yaml:"copy,omitempty"`
	Place  *PlaceStep  `yaml:"place,omitempty"`
	Edit   *EditStep   `yaml:"edit,omitempty"`
	Remove *RemoveStep `yaml:"remove,omitempty"`

	// Expect, when set, requires the step to fail with the given code.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// BindStep creates a data value bound to a formal argument and registers it.
type BindStep struct {
	// As names the value for later steps and assertions.
	As string `yaml:"as"`

	// Arg is the bound argument as element.<arg>, e.g. "obs.<count>".
	Arg string `yaml:"arg"`

	// Value is the initial value. Omitted leaves the value unset. Integers
	// are ticks for time stamps; strings name predicates for predicate
	// arguments.
	Value any `yaml:"value,omitempty"`
}

// CopyStep copies a named value. The copy is not registered.
type CopyStep struct {
	Ref string `yaml:"ref"`
	As  string `yaml:"as"`
}

// PlaceStep places a named value in a cell. Cell 0 takes the next cell
// from the scenario's cell sequence.
type PlaceStep struct {
	Ref  string `yaml:"ref"`
	Cell int64  `yaml:"cell,omitempty"`
}

// EditStep edits a registered vocabulary element through a copy and
// commits it with one ReplaceVocabElement.
type EditStep struct {
	Element string    `yaml:"element"`
	Rename  string    `yaml:"rename,omitempty"`
	Args    []ArgEdit `yaml:"args,omitempty"`
}

// ArgEdit changes one formal argument of an edited element. Deletions are
// applied after every other edit of the step.
type ArgEdit struct {
	Arg       string   `yaml:"arg"`
	Rename    string   `yaml:"rename,omitempty"`
	Hidden    *bool    `yaml:"hidden,omitempty"`
	SubRange  *bool    `yaml:"sub_range,omitempty"`
	Min       any      `yaml:"min,omitempty"`
	Max       any      `yaml:"max,omitempty"`
	Approve   []string `yaml:"approve,omitempty"`
	Unapprove []string `yaml:"unapprove,omitempty"`
	Delete    bool     `yaml:"delete,omitempty"`
}

// RemoveStep removes a vocabulary element and its arguments.
type RemoveStep struct {
	Element string `yaml:"element"`
}

// ExpectClause specifies an expected failure.
type ExpectClause struct {
	// Error is the expected store error code, e.g. "RANGE_VIOLATION".
	Error string `yaml:"error"`
}

// Assertion validates the final store or the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "value": Ref's display form equals Equals
	// - "unset": Ref holds no value
	// - "db_string": the debug form of Ref or Element equals Equals
	//   and/or contains Contains
	// - "element_count": the index holds Count elements
	// - "args": Element's argument names are Args, in order
	// - "outcome_count": Count steps ended with Outcome
	Type string `yaml:"type"`

	Ref      string   `yaml:"ref,omitempty"`
	Element  string   `yaml:"element,omitempty"`
	Equals   *string  `yaml:"equals,omitempty"`
	Contains string   `yaml:"contains,omitempty"`
	Args     []string `yaml:"args,omitempty"`
	Outcome  string   `yaml:"outcome,omitempty"`
	Count    int      `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertValue        = "value"
	AssertUnset        = "unset"
	AssertDBString     = "db_string"
	AssertElementCount = "element_count"
	AssertArgs         = "args"
	AssertOutcomeCount = "outcome_count"
)

// LoadScenario reads and parses a scenario YAML file. The vocabulary path
// is resolved against the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving the vocabulary path
// against baseDir.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Vocabulary != "" && !filepath.IsAbs(scenario.Vocabulary) && baseDir != "" {
		scenario.Vocabulary = filepath.Join(baseDir, scenario.Vocabulary)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Vocabulary == "" {
		return fmt.Errorf("vocabulary is required")
	}
	if _, err := os.Stat(s.Vocabulary); err != nil {
		return fmt.Errorf("vocabulary not found: %s", s.Vocabulary)
	}
	if s.TicksPerSecond < 0 {
		return fmt.Errorf("ticks_per_second must be positive")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	set := 0
	for _, present := range []bool{st.Bind != nil, st.Copy != nil, st.Place != nil, st.Edit != nil, st.Remove != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of bind, copy, place, edit, remove is required", index)
	}
	if st.Expect != nil && st.Expect.Error == "" {
		return fmt.Errorf("steps[%d].expect: error is required", index)
	}

	switch {
	case st.Bind != nil:
		if st.Bind.As == "" || st.Bind.Arg == "" {
			return fmt.Errorf("steps[%d].bind: as and arg are required", index)
		}
	case st.Copy != nil:
		if st.Copy.Ref == "" || st.Copy.As == "" {
			return fmt.Errorf("steps[%d].copy: ref and as are required", index)
		}
	case st.Place != nil:
		if st.Place.Ref == "" {
			return fmt.Errorf("steps[%d].place: ref is required", index)
		}
	case st.Edit != nil:
		if st.Edit.Element == "" {
			return fmt.Errorf("steps[%d].edit: element is required", index)
		}
		for j, ae := range st.Edit.Args {
			if ae.Arg == "" {
				return fmt.Errorf("steps[%d].edit.args[%d]: arg is required", index, j)
			}
		}
	case st.Remove != nil:
		if st.Remove.Element == "" {
			return fmt.Errorf("steps[%d].remove: element is required", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertValue:
		if a.Ref == "" || a.Equals == nil {
			return fmt.Errorf("assertions[%d]: ref and equals are required for value", index)
		}
	case AssertUnset:
		if a.Ref == "" {
			return fmt.Errorf("assertions[%d]: ref is required for unset", index)
		}
	case AssertDBString:
		if (a.Ref == "") == (a.Element == "") {
			return fmt.Errorf("assertions[%d]: exactly one of ref and element is required for db_string", index)
		}
		if a.Equals == nil && a.Contains == "" {
			return fmt.Errorf("assertions[%d]: equals or contains is required for db_string", index)
		}
	case AssertElementCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for element_count", index)
		}
	case AssertArgs:
		if a.Element == "" {
			return fmt.Errorf("assertions[%d]: element is required for args", index)
		}
	case AssertOutcomeCount:
		if a.Outcome == "" {
			return fmt.Errorf("assertions[%d]: outcome is required for outcome_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for outcome_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
