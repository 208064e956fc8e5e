package schema

import (
	"fmt"

	"github.com/roach88/vocabdb/internal/db"
)

// PredFormalArg accepts references to registered predicate vocabulary
// elements. When sub-ranged, only predicates in the approved set are valid.
type PredFormalArg struct {
	fargBase
	approved subRangeSet[db.ID]
}

// NewPredFormalArg creates a predicate argument without a sub-range.
func NewPredFormalArg(d *db.DB, name string) (*PredFormalArg, error) {
	b, err := newFargBase("NewPredFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	return &PredFormalArg{fargBase: b}, nil
}

func (a *PredFormalArg) Type() FargType      { return FargPredicate }
func (a *PredFormalArg) SubRange() bool      { return a.approved.SubRange() }
func (a *PredFormalArg) SetSubRange(on bool) { a.approved.setSubRange(on) }

// checkPredID requires id to name a registered predicate vocabulary element.
func (a *PredFormalArg) checkPredID(op string, id db.ID) error {
	if id == db.InvalidID {
		return db.Errorf(db.ErrCodeNullInput, op, "predicate id is invalid")
	}
	ve, err := a.DB().VocabElement(id)
	if err != nil {
		return err
	}
	if _, ok := ve.(*PredicateVocabElement); !ok {
		return db.Errorf(db.ErrCodeTypeMismatch, op, "vocab element %d is not a predicate", id)
	}
	return nil
}

// AddApproved adds the predicate id to the approved set.
func (a *PredFormalArg) AddApproved(id db.ID) error {
	const op = "PredFormalArg.AddApproved"
	if err := a.checkPredID(op, id); err != nil {
		return err
	}
	return a.approved.add(op, id)
}

// DeleteApproved removes id from the approved set. The predicate need not
// still be registered.
func (a *PredFormalArg) DeleteApproved(id db.ID) error {
	const op = "PredFormalArg.DeleteApproved"
	if id == db.InvalidID {
		return db.Errorf(db.ErrCodeNullInput, op, "predicate id is invalid")
	}
	return a.approved.remove(op, id)
}

func (a *PredFormalArg) Approved(id db.ID) (bool, error) {
	const op = "PredFormalArg.Approved"
	if id == db.InvalidID {
		return false, db.Errorf(db.ErrCodeNullInput, op, "predicate id is invalid")
	}
	return a.approved.approved(op, id)
}

func (a *PredFormalArg) ApprovedList() ([]db.ID, error) {
	return a.approved.approvedList("PredFormalArg.ApprovedList")
}

func (a *PredFormalArg) ApprovedSetString() string {
	return a.approved.render(db.ID.String)
}

// IsValidValue accepts the db.ID of a registered predicate.
func (a *PredFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("PredFormalArg.IsValidValue")
	}
	id, ok := v.(db.ID)
	if !ok || a.checkPredID("PredFormalArg.IsValidValue", id) != nil {
		return false, nil
	}
	return a.approved.permits(id), nil
}

func (a *PredFormalArg) DBString() string {
	return fmt.Sprintf("(PredFormalArg %d %s %t %s)", a.ID(), a.name, a.SubRange(), a.ApprovedSetString())
}

func (a *PredFormalArg) CloneArg() FormalArg {
	return &PredFormalArg{fargBase: a.cloneBase(), approved: a.approved.clone()}
}
