package compiler

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// compileArgs builds the formal arguments listed under args. With
// deferPreds set, PREDICATE approvals are returned for later resolution
// instead of being resolved now.
func (c *compiler) compileArgs(field string, v cue.Value, deferPreds bool) ([]schema.FormalArg, []predApproval, error) {
	lv := v.LookupPath(cue.ParsePath("args"))
	if !lv.Exists() {
		return nil, nil, nil
	}
	iter, err := lv.List()
	if err != nil {
		return nil, nil, formatCUEError(field+".args", err)
	}

	var args []schema.FormalArg
	var deferred []predApproval
	for i := 0; iter.Next(); i++ {
		af := fmt.Sprintf("%s.args[%d]", field, i)
		a, pa, err := c.compileArg(af, iter.Value(), deferPreds)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, a)
		if pa != nil {
			deferred = append(deferred, *pa)
		}
	}
	return args, deferred, nil
}

func (c *compiler) compileArg(field string, v cue.Value, deferPreds bool) (schema.FormalArg, *predApproval, error) {
	nv := v.LookupPath(cue.ParsePath("name"))
	if !nv.Exists() {
		return nil, nil, newCompileError(ErrMissingField, field+".name", v.Pos(), "name is required")
	}
	name, err := nv.String()
	if err != nil {
		return nil, nil, formatCUEError(field+".name", err)
	}

	ft := schema.FargUntyped
	if tv := v.LookupPath(cue.ParsePath("type")); tv.Exists() {
		s, err := tv.String()
		if err != nil {
			return nil, nil, formatCUEError(field+".type", err)
		}
		if ft, err = schema.ParseFargType(s); err != nil {
			return nil, nil, wrapStoreError(field+".type", tv.Pos(), err)
		}
	}

	a, err := schema.NewFormalArg(c.d, name, ft)
	if err != nil {
		return nil, nil, wrapStoreError(field, v.Pos(), err)
	}

	hidden, ok, err := optionalBool(v, "hidden")
	if err != nil {
		return nil, nil, formatCUEError(field+".hidden", err)
	}
	if ok {
		a.SetHidden(hidden)
	}

	if err := c.applyRange(field, v, a); err != nil {
		return nil, nil, err
	}
	pa, err := c.applyApproved(field, v, a, deferPreds)
	if err != nil {
		return nil, nil, err
	}
	return a, pa, nil
}

// applyRange applies min and max to the numeric argument kinds. A missing
// bound keeps the argument's default.
func (c *compiler) applyRange(field string, v cue.Value, a schema.FormalArg) error {
	minV := v.LookupPath(cue.ParsePath("min"))
	maxV := v.LookupPath(cue.ParsePath("max"))
	if !minV.Exists() && !maxV.Exists() {
		return nil
	}

	var err error
	switch fa := a.(type) {
	case *schema.IntFormalArg:
		lo, hi := fa.Min(), fa.Max()
		if lo, err = int64Or(minV, lo); err != nil {
			return formatCUEError(field+".min", err)
		}
		if hi, err = int64Or(maxV, hi); err != nil {
			return formatCUEError(field+".max", err)
		}
		err = fa.SetRange(lo, hi)
	case *schema.FloatFormalArg:
		lo, hi := fa.Min(), fa.Max()
		if lo, err = float64Or(minV, lo); err != nil {
			return formatCUEError(field+".min", err)
		}
		if hi, err = float64Or(maxV, hi); err != nil {
			return formatCUEError(field+".max", err)
		}
		err = fa.SetRange(lo, hi)
	case *schema.TimeStampFormalArg:
		lo, hi := fa.Min().Ticks, fa.Max().Ticks
		if lo, err = int64Or(minV, lo); err != nil {
			return formatCUEError(field+".min", err)
		}
		if hi, err = int64Or(maxV, hi); err != nil {
			return formatCUEError(field+".max", err)
		}
		tps := c.d.TicksPerSecond()
		err = fa.SetRange(schema.TimeStamp{TPS: tps, Ticks: lo}, schema.TimeStamp{TPS: tps, Ticks: hi})
	default:
		return newCompileError(ErrUnsupportedField, field, v.Pos(), "min and max are not allowed for %s arguments", a.Type())
	}
	if err != nil {
		return wrapStoreError(field, v.Pos(), err)
	}
	return nil
}

func int64Or(v cue.Value, def int64) (int64, error) {
	if !v.Exists() {
		return def, nil
	}
	return v.Int64()
}

func float64Or(v cue.Value, def float64) (float64, error) {
	if !v.Exists() {
		return def, nil
	}
	f, err := v.Float64()
	if err == nil && math.IsNaN(f) {
		return 0, fmt.Errorf("NaN bound")
	}
	return f, err
}

// applyApproved turns on the sub-range of an approved-set argument and
// fills it.
func (c *compiler) applyApproved(field string, v cue.Value, a schema.FormalArg, deferPreds bool) (*predApproval, error) {
	subRange, _, err := optionalBool(v, "subRange")
	if err != nil {
		return nil, formatCUEError(field+".subRange", err)
	}
	av := v.LookupPath(cue.ParsePath("approved"))
	if !subRange && !av.Exists() {
		return nil, nil
	}

	var names []string
	if av.Exists() {
		iter, err := av.List()
		if err != nil {
			return nil, formatCUEError(field+".approved", err)
		}
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(field+".approved", err)
			}
			names = append(names, s)
		}
	}

	switch fa := a.(type) {
	case *schema.NominalFormalArg:
		fa.SetSubRange(true)
		for _, s := range names {
			if err := fa.AddApproved(s); err != nil {
				return nil, wrapStoreError(field+".approved", av.Pos(), err)
			}
		}
	case *schema.QuoteStringFormalArg:
		fa.SetSubRange(true)
		for _, s := range names {
			if err := fa.AddApproved(s); err != nil {
				return nil, wrapStoreError(field+".approved", av.Pos(), err)
			}
		}
	case *schema.PredFormalArg:
		fa.SetSubRange(true)
		if deferPreds {
			if len(names) == 0 {
				return nil, nil
			}
			return &predApproval{field: field + ".approved", arg: fa.Name(), names: names, pos: av.Pos()}, nil
		}
		if err := c.approvePredicates(field+".approved", av.Pos(), fa, names); err != nil {
			return nil, err
		}
	default:
		return nil, newCompileError(ErrUnsupportedField, field, v.Pos(), "subRange and approved are not allowed for %s arguments", a.Type())
	}
	return nil, nil
}

// approvePredicates resolves predicate names and approves their IDs.
func (c *compiler) approvePredicates(field string, pos token.Pos, a *schema.PredFormalArg, names []string) error {
	for _, name := range names {
		ve, err := c.d.VocabElementByName(name)
		if err != nil {
			return wrapStoreError(field, pos, err)
		}
		if _, ok := ve.(*schema.PredicateVocabElement); !ok {
			return wrapStoreError(field, pos,
				db.Errorf(db.ErrCodeTypeMismatch, "compiler", "%s is not a predicate", name))
		}
		if err := a.AddApproved(ve.ID()); err != nil {
			return wrapStoreError(field, pos, err)
		}
	}
	return nil
}
