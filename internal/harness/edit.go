package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

const editOp = "harness.edit"

// edit applies e to a copy of the named element and commits the copy.
// Nothing is committed when any edit fails.
func (h *Harness) edit(e *EditStep) error {
	ve, err := h.vocabElement(e.Element)
	if err != nil {
		return err
	}
	clone := ve.CloneVE()
	if e.Rename != "" {
		if err := clone.SetName(e.Rename); err != nil {
			return err
		}
	}

	var deletes []string
	for _, ae := range e.Args {
		a, ok := clone.FormalArgByName(ae.Arg)
		if !ok {
			return db.Errorf(db.ErrCodeUnknownID, editOp, "%s has no argument %s", clone.Name(), ae.Arg)
		}
		if ae.Delete {
			deletes = append(deletes, a.Name())
			continue
		}
		if err := h.editArg(a, ae); err != nil {
			return err
		}
	}

	// Delete from the back so earlier indices stay valid.
	var idx []int
	for i, a := range clone.FormalArgs() {
		if slices.Contains(deletes, a.Name()) {
			idx = append(idx, i)
		}
	}
	for _, i := range slices.Backward(idx) {
		if err := clone.DeleteFormalArg(i); err != nil {
			return err
		}
	}

	return h.d.ReplaceVocabElement(clone)
}

func (h *Harness) editArg(a schema.FormalArg, ae ArgEdit) error {
	if ae.Rename != "" {
		if err := a.SetName(ae.Rename); err != nil {
			return err
		}
	}
	if ae.Hidden != nil {
		a.SetHidden(*ae.Hidden)
	}
	if ae.SubRange != nil {
		sr, ok := a.(interface{ SetSubRange(bool) })
		if !ok {
			return db.Errorf(db.ErrCodeTypeMismatch, editOp, "%s argument %s has no sub-range", a.Type(), a.Name())
		}
		sr.SetSubRange(*ae.SubRange)
	}
	if ae.Min != nil || ae.Max != nil {
		if err := h.editRange(a, ae.Min, ae.Max); err != nil {
			return err
		}
	}
	if len(ae.Approve) > 0 || len(ae.Unapprove) > 0 {
		if err := h.editApproved(a, ae.Approve, ae.Unapprove); err != nil {
			return err
		}
	}
	return nil
}

// editRange sets new bounds; a nil bound keeps the current one. Time
// stamp bounds are ticks at the store's resolution.
func (h *Harness) editRange(a schema.FormalArg, minV, maxV any) error {
	switch fa := a.(type) {
	case *schema.IntFormalArg:
		lo, hi := fa.Min(), fa.Max()
		if err := intBound(minV, &lo); err != nil {
			return err
		}
		if err := intBound(maxV, &hi); err != nil {
			return err
		}
		return fa.SetRange(lo, hi)
	case *schema.FloatFormalArg:
		lo, hi := fa.Min(), fa.Max()
		if err := floatBound(minV, &lo); err != nil {
			return err
		}
		if err := floatBound(maxV, &hi); err != nil {
			return err
		}
		return fa.SetRange(lo, hi)
	case *schema.TimeStampFormalArg:
		lo, hi := fa.Min().Ticks, fa.Max().Ticks
		if err := intBound(minV, &lo); err != nil {
			return err
		}
		if err := intBound(maxV, &hi); err != nil {
			return err
		}
		tps := h.d.TicksPerSecond()
		return fa.SetRange(schema.TimeStamp{TPS: tps, Ticks: lo}, schema.TimeStamp{TPS: tps, Ticks: hi})
	}
	return db.Errorf(db.ErrCodeTypeMismatch, editOp, "%s argument %s has no range", a.Type(), a.Name())
}

func intBound(x any, dst *int64) error {
	switch n := x.(type) {
	case nil:
	case int:
		*dst = int64(n)
	case int64:
		*dst = n
	case uint64:
		if n > math.MaxInt64 {
			return db.Errorf(db.ErrCodeRangeViolation, editOp, "bound %d overflows int64", n)
		}
		*dst = int64(n)
	default:
		return db.Errorf(db.ErrCodeTypeMismatch, editOp, "bound %v is %T, not an integer", x, x)
	}
	return nil
}

func floatBound(x any, dst *float64) error {
	switch n := x.(type) {
	case nil:
	case float64:
		*dst = n
	case int:
		*dst = float64(n)
	case int64:
		*dst = float64(n)
	default:
		return db.Errorf(db.ErrCodeTypeMismatch, editOp, "bound %v is %T, not a number", x, x)
	}
	return nil
}

type stringApprovals interface {
	AddApproved(s string) error
	DeleteApproved(s string) error
}

// editApproved adds then removes approved entries. Entries of predicate
// arguments are predicate names.
func (h *Harness) editApproved(a schema.FormalArg, add, del []string) error {
	if pa, ok := a.(*schema.PredFormalArg); ok {
		for _, name := range add {
			id, err := h.predicateID(name)
			if err != nil {
				return err
			}
			if err := pa.AddApproved(id); err != nil {
				return err
			}
		}
		for _, name := range del {
			id, err := h.predicateID(name)
			if err != nil {
				return err
			}
			if err := pa.DeleteApproved(id); err != nil {
				return err
			}
		}
		return nil
	}

	sa, ok := a.(stringApprovals)
	if !ok {
		return db.Errorf(db.ErrCodeTypeMismatch, editOp, "%s argument %s has no approved set", a.Type(), a.Name())
	}
	for _, s := range add {
		if err := sa.AddApproved(s); err != nil {
			return fmt.Errorf("approve %q: %w", s, err)
		}
	}
	for _, s := range del {
		if err := sa.DeleteApproved(s); err != nil {
			return fmt.Errorf("unapprove %q: %w", s, err)
		}
	}
	return nil
}
