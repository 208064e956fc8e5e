package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/value"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s: %s\n", ev.Seq, ev.Action, ev.Target, ev.Outcome)
	}
	return buf.String()
}

// AssertionContext is the final state assertions are evaluated against.
type AssertionContext struct {
	DB   *db.DB
	Refs map[string]value.DataValue
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. All assertions are evaluated; an empty slice means success.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result.Trace, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertValue:
		return assertValue(trace, a, actx)
	case AssertUnset:
		return assertUnset(trace, a, actx)
	case AssertDBString:
		return assertDBString(trace, a, actx)
	case AssertElementCount:
		return assertElementCount(trace, a, actx)
	case AssertArgs:
		return assertArgs(trace, a, actx)
	case AssertOutcomeCount:
		return assertOutcomeCount(trace, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func lookupRef(trace []TraceEvent, typ, ref string, actx *AssertionContext) (value.DataValue, error) {
	dv, ok := actx.Refs[ref]
	if !ok {
		return nil, &AssertionError{
			Type:     typ,
			Expected: fmt.Sprintf("value %s", ref),
			Actual:   "no such value",
			Trace:    trace,
		}
	}
	return dv, nil
}

// assertValue compares a value's display form.
func assertValue(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	dv, err := lookupRef(trace, a.Type, a.Ref, actx)
	if err != nil {
		return err
	}
	if !dv.IsSet() {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %q", a.Ref, *a.Equals),
			Actual:   "unset",
			Trace:    trace,
		}
	}
	if got := dv.String(); got != *a.Equals {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %q", a.Ref, *a.Equals),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertUnset(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	dv, err := lookupRef(trace, a.Type, a.Ref, actx)
	if err != nil {
		return err
	}
	if dv.IsSet() {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s unset", a.Ref),
			Actual:   fmt.Sprintf("%q", dv.String()),
			Trace:    trace,
		}
	}
	return nil
}

// assertDBString checks the debug form of a named value or a registered
// vocabulary element.
func assertDBString(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	var got, subject string
	if a.Ref != "" {
		dv, err := lookupRef(trace, a.Type, a.Ref, actx)
		if err != nil {
			return err
		}
		got, subject = dv.DBString(), a.Ref
	} else {
		ve, err := actx.DB.VocabElementByName(a.Element)
		if err != nil {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("vocabulary element %s", a.Element),
				Actual:   err.Error(),
				Trace:    trace,
			}
		}
		got, subject = ve.DBString(), a.Element
	}

	if a.Equals != nil && got != *a.Equals {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %s", subject, *a.Equals),
			Actual:   got,
			Trace:    trace,
		}
	}
	if a.Contains != "" && !strings.Contains(got, a.Contains) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s containing %s", subject, a.Contains),
			Actual:   got,
			Trace:    trace,
		}
	}
	return nil
}

func assertElementCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	if n := actx.DB.Index().Len(); n != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d registered elements", a.Count),
			Actual:   fmt.Sprintf("%d registered elements", n),
			Trace:    trace,
		}
	}
	return nil
}

// assertArgs compares an element's argument names, in order.
func assertArgs(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	e, err := actx.DB.VocabElementByName(a.Element)
	if err != nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("vocabulary element %s", a.Element),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}
	var names []string
	for _, m := range e.Members() {
		if n, ok := m.(interface{ Name() string }); ok {
			names = append(names, n.Name())
		}
	}
	if !slices.Equal(names, a.Args) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s(%s)", a.Element, strings.Join(a.Args, ", ")),
			Actual:   fmt.Sprintf("%s(%s)", a.Element, strings.Join(names, ", ")),
			Trace:    trace,
		}
	}
	return nil
}

// assertOutcomeCount counts steps that ended with the given outcome.
func assertOutcomeCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Outcome == a.Outcome {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d steps with outcome %s", a.Count, a.Outcome),
			Actual:   fmt.Sprintf("%d steps", count),
			Trace:    trace,
		}
	}
	return nil
}
