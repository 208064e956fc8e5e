package harness

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/vocabdb/internal/compiler"
	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
	"github.com/roach88/vocabdb/internal/testutil"
	"github.com/roach88/vocabdb/internal/value"
)

// Harness executes one scenario against a fresh store.
type Harness struct {
	d      *db.DB
	refs   map[string]value.DataValue
	order  []string
	steps  *testutil.Sequence
	cells  *testutil.Sequence
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh store with a Propagator attached, so
// schema edits reach every bound value. opts are applied after the
// harness defaults (discarded logs, the scenario's ticks per second).
//
// Execution flow:
// 1. Create a fresh store
// 2. Compile the scenario vocabulary into it
// 3. Execute steps, checking expect clauses
// 4. Evaluate assertions
//
// The returned error is reserved for failures outside the scenario's
// control, such as an unreadable vocabulary.
func Run(scenario *Scenario, opts ...db.Option) (*Result, error) {
	tps := scenario.TicksPerSecond
	if tps == 0 {
		tps = db.DefaultTicksPerSecond
	}
	base := []db.Option{db.WithLogger(testutil.DiscardLogger()), db.WithTicksPerSecond(tps)}
	d, err := db.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	value.NewPropagator(d)

	v, err := loadVocabulary(scenario.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	if _, err := compiler.CompileVocabulary(d, v); err != nil {
		return nil, fmt.Errorf("failed to compile vocabulary: %w", err)
	}

	h := &Harness{
		d:      d,
		refs:   make(map[string]value.DataValue),
		steps:  testutil.NewSequence(0),
		cells:  testutil.NewSequence(0),
		logger: d.Logger().With("scenario", scenario.Name),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}

	actx := &AssertionContext{DB: d, Refs: h.refs}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	for _, name := range h.order {
		result.Values = append(result.Values, ValueSnapshot{Ref: name, DBString: h.refs[name].DBString()})
	}
	return result, nil
}

func loadVocabulary(path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, err
	}
	if info.IsDir() {
		return compiler.Load(path)
	}
	return compiler.LoadFile(path)
}

// executeStep runs one step, records it in the trace and checks its
// expect clause.
func (h *Harness) executeStep(i int, step Step, result *Result) {
	action, target, err := h.dispatch(step)

	ev := TraceEvent{Seq: h.steps.Next(), Action: action, Target: target, Outcome: OutcomeOK}
	if err != nil {
		ev.Outcome = OutcomeError
		if code := db.CodeOf(err); code != "" {
			ev.Outcome = string(code)
		}
		ev.Detail = err.Error()
	}
	result.AddTrace(ev)

	h.logger.Debug("step executed",
		"step", i,
		"action", action,
		"target", target,
		"outcome", ev.Outcome,
	)

	switch {
	case step.Expect == nil && err != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s %s: unexpected error: %v", i, action, target, err))
	case step.Expect != nil && err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s %s: expected %s, got success", i, action, target, step.Expect.Error))
	case step.Expect != nil && ev.Outcome != step.Expect.Error:
		result.AddError(fmt.Sprintf("steps[%d] %s %s: expected %s, got %s: %v", i, action, target, step.Expect.Error, ev.Outcome, err))
	}
}

func (h *Harness) dispatch(step Step) (action, target string, err error) {
	switch {
	case step.Bind != nil:
		return "bind", step.Bind.As, h.bind(step.Bind)
	case step.Copy != nil:
		return "copy", step.Copy.As, h.copyValue(step.Copy)
	case step.Place != nil:
		return "place", step.Place.Ref, h.place(step.Place)
	case step.Edit != nil:
		return "edit", step.Edit.Element, h.edit(step.Edit)
	default:
		return "remove", step.Remove.Element, h.remove(step.Remove)
	}
}

func (h *Harness) checkName(as string) error {
	if _, taken := h.refs[as]; taken {
		return fmt.Errorf("value name %q already in use", as)
	}
	return nil
}

func (h *Harness) name(as string, dv value.DataValue) {
	h.refs[as] = dv
	h.order = append(h.order, as)
}

func (h *Harness) ref(name string) (value.DataValue, error) {
	dv, ok := h.refs[name]
	if !ok {
		return nil, fmt.Errorf("unknown value %q", name)
	}
	return dv, nil
}

func (h *Harness) bind(b *BindStep) error {
	if err := h.checkName(b.As); err != nil {
		return err
	}
	farg, err := h.resolveArg(b.Arg)
	if err != nil {
		return err
	}

	var dv value.DataValue
	switch x := b.Value.(type) {
	case nil:
		dv, err = value.NewFor(h.d, farg.ID())
	case string:
		if farg.Type() == schema.FargPredicate {
			id, perr := h.predicateID(x)
			if perr != nil {
				return perr
			}
			dv, err = value.NewWithValue(h.d, farg.ID(), value.Predicate{PredID: id})
		} else {
			dv, err = value.NewWithValue(h.d, farg.ID(), x)
		}
	default:
		dv, err = value.NewWithValue(h.d, farg.ID(), x)
	}
	if err != nil {
		return err
	}
	if _, err := h.d.Index().Add(dv); err != nil {
		return err
	}
	h.name(b.As, dv)
	return nil
}

func (h *Harness) copyValue(c *CopyStep) error {
	if err := h.checkName(c.As); err != nil {
		return err
	}
	src, err := h.ref(c.Ref)
	if err != nil {
		return err
	}
	dv, err := value.Copy(src)
	if err != nil {
		return err
	}
	h.name(c.As, dv)
	return nil
}

func (h *Harness) place(p *PlaceStep) error {
	dv, err := h.ref(p.Ref)
	if err != nil {
		return err
	}
	cell := db.ID(p.Cell)
	if cell == db.InvalidID {
		cell = db.ID(h.cells.Next())
	}
	if err := dv.SetCellID(cell); err != nil {
		return err
	}
	if dv.ID() == db.InvalidID {
		return nil
	}
	if reg, err := h.d.Index().Get(dv.ID()); err != nil || reg != db.Element(dv) {
		return nil
	}
	return h.d.Index().Replace(dv)
}

func (h *Harness) remove(r *RemoveStep) error {
	ve, err := h.d.VocabElementByName(r.Element)
	if err != nil {
		return err
	}
	return h.d.RemoveVocabElement(ve.ID())
}

// resolveArg finds the registered formal argument named by ref, written
// element.<arg>.
func (h *Harness) resolveArg(ref string) (schema.FormalArg, error) {
	i := strings.LastIndex(ref, ".<")
	if i <= 0 {
		return nil, fmt.Errorf("argument reference %q is not element.<arg>", ref)
	}
	ve, err := h.vocabElement(ref[:i])
	if err != nil {
		return nil, err
	}
	a, ok := ve.FormalArgByName(ref[i+1:])
	if !ok {
		return nil, db.Errorf(db.ErrCodeUnknownID, "harness", "%s has no argument %s", ve.Name(), ref[i+1:])
	}
	return a, nil
}

func (h *Harness) vocabElement(name string) (schema.VocabElement, error) {
	e, err := h.d.VocabElementByName(name)
	if err != nil {
		return nil, err
	}
	ve, ok := e.(schema.VocabElement)
	if !ok {
		return nil, db.Errorf(db.ErrCodeTypeMismatch, "harness", "%s is not a vocabulary element", name)
	}
	return ve, nil
}

func (h *Harness) predicateID(name string) (db.ID, error) {
	ve, err := h.d.VocabElementByName(name)
	if err != nil {
		return db.InvalidID, err
	}
	if _, ok := ve.(*schema.PredicateVocabElement); !ok {
		return db.InvalidID, db.Errorf(db.ErrCodeTypeMismatch, "harness", "%s is not a predicate", name)
	}
	return ve.ID(), nil
}
