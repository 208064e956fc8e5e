package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// Vocabulary is the set of elements registered by one compilation.
type Vocabulary struct {
	Predicates []*schema.PredicateVocabElement
	Matrices   []*schema.MatrixVocabElement
}

// Elements returns the predicates followed by the matrices, in
// registration order.
func (v *Vocabulary) Elements() []schema.VocabElement {
	out := make([]schema.VocabElement, 0, len(v.Predicates)+len(v.Matrices))
	for _, p := range v.Predicates {
		out = append(out, p)
	}
	for _, m := range v.Matrices {
		out = append(out, m)
	}
	return out
}

// CompileVocabulary registers every predicate and matrix defined in v
// with d. It stops at the first error; elements registered before the
// failure stay registered.
func CompileVocabulary(d *db.DB, v cue.Value) (*Vocabulary, error) {
	vocab, errs := compile(d, v, true)
	if len(errs) > 0 {
		return vocab, errs[0]
	}
	return vocab, nil
}

// compiler carries state across the predicate and matrix passes.
type compiler struct {
	d        *db.DB
	failFast bool
	errs     []error
	vocab    *Vocabulary

	// deferred PREDICATE approvals inside predicates, applied once every
	// predicate is registered.
	deferred map[string][]predApproval
}

type predApproval struct {
	field string
	arg   string
	names []string
	pos   token.Pos
}

func compile(d *db.DB, v cue.Value, failFast bool) (*Vocabulary, []error) {
	c := &compiler{
		d:        d,
		failFast: failFast,
		vocab:    &Vocabulary{},
		deferred: make(map[string][]predApproval),
	}
	if d == nil {
		return c.vocab, []error{newCompileError(ErrStoreViolation, "store", v.Pos(), "store is nil")}
	}
	if err := v.Err(); err != nil {
		return c.vocab, []error{formatCUEError("cue", err)}
	}

	if !c.eachField(v, "predicate", c.compilePredicate) {
		return c.vocab, c.errs
	}
	if !c.applyDeferred() {
		return c.vocab, c.errs
	}
	c.eachField(v, "matrix", c.compileMatrix)

	if len(c.vocab.Predicates) == 0 && len(c.vocab.Matrices) == 0 && len(c.errs) == 0 {
		c.errs = append(c.errs, newCompileError(ErrEmptyVocabulary, "vocabulary", v.Pos(), "no predicates or matrices found"))
	}
	return c.vocab, c.errs
}

// fail records err and reports whether compilation should continue.
func (c *compiler) fail(err error) bool {
	c.errs = append(c.errs, err)
	return !c.failFast
}

// eachField calls fn for every field of the struct at section. It returns
// false when compilation must stop.
func (c *compiler) eachField(v cue.Value, section string, fn func(name string, v cue.Value) error) bool {
	sv := v.LookupPath(cue.ParsePath(section))
	if !sv.Exists() {
		return true
	}
	iter, err := sv.Fields()
	if err != nil {
		return c.fail(formatCUEError(section, err))
	}
	for iter.Next() {
		if err := fn(iter.Label(), iter.Value()); err != nil {
			if !c.fail(err) {
				return false
			}
		}
	}
	return true
}

func (c *compiler) compilePredicate(name string, v cue.Value) error {
	field := "predicate." + name
	p, err := schema.NewPredicateVocabElement(c.d, name)
	if err != nil {
		return wrapStoreError(field, v.Pos(), err)
	}

	args, deferred, err := c.compileArgs(field, v, true)
	if err != nil {
		return err
	}
	for i, a := range args {
		if err := p.AppendFormalArg(a); err != nil {
			return wrapStoreError(fmt.Sprintf("%s.args[%d]", field, i), v.Pos(), err)
		}
	}
	if err := c.applyFlags(field, v, p); err != nil {
		return err
	}
	if _, err := c.d.AddVocabElement(p); err != nil {
		return wrapStoreError(field, v.Pos(), err)
	}
	if len(deferred) > 0 {
		c.deferred[p.Name()] = deferred
	}
	c.vocab.Predicates = append(c.vocab.Predicates, p)
	return nil
}

// applyDeferred resolves PREDICATE approvals declared inside predicates
// and commits each edited predicate with one ReplaceVocabElement.
func (c *compiler) applyDeferred() bool {
	for i, p := range c.vocab.Predicates {
		approvals, ok := c.deferred[p.Name()]
		if !ok {
			continue
		}
		edit := p.CloneVE().(*schema.PredicateVocabElement)
		err := func() error {
			for _, pa := range approvals {
				a, _ := edit.FormalArgByName(pa.arg)
				if err := c.approvePredicates(pa.field, pa.pos, a.(*schema.PredFormalArg), pa.names); err != nil {
					return err
				}
			}
			if err := c.d.ReplaceVocabElement(edit); err != nil {
				return wrapStoreError("predicate."+p.Name(), approvals[0].pos, err)
			}
			return nil
		}()
		if err != nil {
			if !c.fail(err) {
				return false
			}
			continue
		}
		c.vocab.Predicates[i] = edit
	}
	return true
}

func (c *compiler) compileMatrix(name string, v cue.Value) error {
	field := "matrix." + name
	kv := v.LookupPath(cue.ParsePath("kind"))
	if !kv.Exists() {
		return newCompileError(ErrMissingField, field+".kind", v.Pos(), "kind is required")
	}
	ks, err := kv.String()
	if err != nil {
		return formatCUEError(field+".kind", err)
	}
	kind, err := schema.ParseMatrixKind(ks)
	if err != nil {
		return wrapStoreError(field+".kind", kv.Pos(), err)
	}

	m, err := schema.NewMatrixVocabElement(c.d, name)
	if err != nil {
		return wrapStoreError(field, v.Pos(), err)
	}
	if err := m.SetKind(kind); err != nil {
		return wrapStoreError(field+".kind", kv.Pos(), err)
	}

	args, _, err := c.compileArgs(field, v, false)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		if kind == schema.KindMatrix {
			return newCompileError(ErrMissingField, field+".args", v.Pos(), "MATRIX kind requires at least one argument")
		}
		a, err := schema.NewFormalArg(c.d, "<val>", kind.ArgType())
		if err != nil {
			return wrapStoreError(field, v.Pos(), err)
		}
		args = append(args, a)
	}
	for i, a := range args {
		if err := m.AppendFormalArg(a); err != nil {
			return wrapStoreError(fmt.Sprintf("%s.args[%d]", field, i), v.Pos(), err)
		}
	}
	if err := c.applyFlags(field, v, m); err != nil {
		return err
	}
	if _, err := c.d.AddVocabElement(m); err != nil {
		return wrapStoreError(field, v.Pos(), err)
	}
	c.vocab.Matrices = append(c.vocab.Matrices, m)
	return nil
}

// applyFlags sets varLen and system. system goes last: it freezes the name.
func (c *compiler) applyFlags(field string, v cue.Value, ve schema.VocabElement) error {
	varLen, ok, err := optionalBool(v, "varLen")
	if err != nil {
		return formatCUEError(field+".varLen", err)
	}
	if ok {
		if err := ve.SetVarLen(varLen); err != nil {
			return wrapStoreError(field+".varLen", v.Pos(), err)
		}
	}
	system, ok, err := optionalBool(v, "system")
	if err != nil {
		return formatCUEError(field+".system", err)
	}
	if ok && system {
		if err := ve.SetSystem(); err != nil {
			return wrapStoreError(field+".system", v.Pos(), err)
		}
	}
	return nil
}

func optionalBool(v cue.Value, name string) (bool, bool, error) {
	bv := v.LookupPath(cue.ParsePath(name))
	if !bv.Exists() {
		return false, false, nil
	}
	b, err := bv.Bool()
	return b, err == nil, err
}
