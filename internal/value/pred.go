package value

import (
	"strings"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// Predicate is the value of a predicate data value: a reference to a
// predicate vocabulary element plus optional argument values, one per
// formal argument of the predicate, in order.
type Predicate struct {
	PredID db.ID
	Args   []DataValue
}

func (p Predicate) clone() Predicate {
	c := Predicate{PredID: p.PredID}
	if p.Args != nil {
		c.Args = make([]DataValue, len(p.Args))
		for i, a := range p.Args {
			c.Args[i] = a.CloneValue()
		}
	}
	return c
}

// render returns name(arg, ...) using the store's current name for the
// predicate.
func (p Predicate) render(d *db.DB) string {
	name := "<" + p.PredID.String() + ">"
	if ve, err := d.VocabElement(p.PredID); err == nil {
		name = ve.Name()
	}
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// PredDataValue holds a Predicate. Detached values start unset.
type PredDataValue struct {
	dvBase
	val Predicate
	set bool
}

func NewPredDataValue(d *db.DB) (*PredDataValue, error) {
	b, err := detached("NewPredDataValue", d, schema.FargPredicate)
	if err != nil {
		return nil, err
	}
	return &PredDataValue{dvBase: b}, nil
}

func NewPredDataValueFor(d *db.DB, fargID db.ID) (*PredDataValue, error) {
	b, _, err := bind("NewPredDataValueFor", d, fargID, schema.FargPredicate)
	if err != nil {
		return nil, err
	}
	return &PredDataValue{dvBase: b}, nil
}

func NewPredDataValueWithValue(d *db.DB, fargID db.ID, p Predicate) (*PredDataValue, error) {
	v, err := NewPredDataValueFor(d, fargID)
	if err != nil {
		return nil, err
	}
	if err := v.SetItsValue(p); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *PredDataValue) ItsValue() (Predicate, bool) { return v.val.clone(), v.set }

// SetItsValue stores a copy of p. p must reference a registered predicate
// and, when it carries arguments, supply one value per formal argument
// bound to that argument. A predicate outside the sub-range unsets the
// value.
func (v *PredDataValue) SetItsValue(p Predicate) error {
	const op = "PredDataValue.SetItsValue"
	if p.PredID == db.InvalidID {
		return db.Errorf(db.ErrCodeNullInput, op, "predicate id is invalid")
	}
	ve, err := v.DB().VocabElement(p.PredID)
	if err != nil {
		return err
	}
	pve, ok := ve.(*schema.PredicateVocabElement)
	if !ok {
		return db.Errorf(db.ErrCodeTypeMismatch, op, "vocab element %d is not a predicate", p.PredID)
	}
	if len(p.Args) != 0 && len(p.Args) != pve.NumFormalArgs() {
		return db.Errorf(db.ErrCodeRangeViolation, op, "predicate %s takes %d arguments, got %d",
			pve.Name(), pve.NumFormalArgs(), len(p.Args))
	}
	for i, a := range p.Args {
		if isNil(a) {
			return db.Errorf(db.ErrCodeNullInput, op, "argument %d is nil", i)
		}
		farg, _ := pve.FormalArg(i)
		if a.FargID() != farg.ID() {
			return db.Errorf(db.ErrCodeTypeMismatch, op, "argument %d is bound to %d, want %s (%d)", i, a.FargID(), farg.Name(), farg.ID())
		}
	}

	if !permitted(v.sync(), p.PredID) {
		v.Clear()
		return nil
	}
	v.val, v.set = p.clone(), true
	return nil
}

// CoerceToRange returns id and true when id is permitted, or db.InvalidID
// and false when the bound argument is sub-ranged and does not approve id.
func (v *PredDataValue) CoerceToRange(id db.ID) (db.ID, bool) {
	if !permitted(v.arg(), id) {
		return db.InvalidID, false
	}
	return id, true
}

func (v *PredDataValue) IsSet() bool { return v.set }

func (v *PredDataValue) Value() any {
	if !v.set {
		return nil
	}
	return v.val.clone()
}

func (v *PredDataValue) Clear() { v.val, v.set = Predicate{}, false }

func (v *PredDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	if err := v.rebind("PredDataValue.UpdateForFargChange", farg, schema.FargPredicate); err != nil {
		return err
	}
	if v.set && !permitted(farg, v.val.PredID) {
		v.Clear()
	}
	return nil
}

func (v *PredDataValue) String() string {
	if !v.set {
		return ""
	}
	return v.val.render(v.DB())
}

func (v *PredDataValue) DBString() string {
	s := nullValue
	if v.set {
		s = v.val.render(v.DB())
	}
	return v.dbString("PredDataValue", s)
}

func (v *PredDataValue) CloneValue() DataValue {
	c := *v
	c.val = v.val.clone()
	return &c
}
