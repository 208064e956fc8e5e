package schema

import (
	"slices"
	"strings"

	"github.com/roach88/vocabdb/internal/db"
)

// VocabElement is a named schema definition owning an ordered list of
// formal arguments. Argument names are unique within the list.
type VocabElement interface {
	db.VocabEntry

	SetName(name string) error

	// System reports whether the element is protected from renaming.
	System() bool
	SetSystem() error

	VarLen() bool
	SetVarLen(varLen bool) error

	AppendFormalArg(arg FormalArg) error
	InsertFormalArg(arg FormalArg, i int) error
	ReplaceFormalArg(arg FormalArg, i int) error
	DeleteFormalArg(i int) error
	FormalArg(i int) (FormalArg, error)
	FormalArgByName(name string) (FormalArg, bool)
	FormalArgs() []FormalArg
	NumFormalArgs() int

	// IsWellFormed reports whether the element is usable. With systemCheck
	// the element must also be registered consistently with its store.
	IsWellFormed(systemCheck bool) bool

	// CloneVE returns an independent copy, arguments included, carrying
	// the same IDs. Edit the copy and commit it with DB.ReplaceVocabElement.
	CloneVE() VocabElement
}

// veBase holds the state shared by every vocabulary element kind.
type veBase struct {
	db.Base
	name   string
	system bool
	varLen bool
	args   []FormalArg
}

func newVEBase(op string, d *db.DB, name string) (veBase, error) {
	if d == nil {
		return veBase{}, db.Errorf(db.ErrCodeNullInput, op, "store is nil")
	}
	name, err := checkVEName(op, name)
	if err != nil {
		return veBase{}, err
	}
	return veBase{Base: db.NewBase(d), name: name}, nil
}

func checkVEName(op, name string) (string, error) {
	if name == "" {
		return "", db.Errorf(db.ErrCodeNullInput, op, "name is empty")
	}
	name = db.NormalizeName(name)
	if !db.IsValidVEName(name) {
		return "", db.Errorf(db.ErrCodeNameSyntaxViolation, op, "invalid vocab element name %q", name)
	}
	return name, nil
}

func (v *veBase) Name() string { return v.name }

// SetName renames the element. System elements cannot be renamed, and a
// registered element (or a copy of one) cannot take a name another
// registered element already has.
func (v *veBase) SetName(name string) error {
	const op = "VocabElement.SetName"
	name, err := checkVEName(op, name)
	if err != nil {
		return err
	}
	if v.system {
		return db.Errorf(db.ErrCodeImmutableFieldChange, op, "cannot rename system element %s", v.name)
	}
	if v.ID() != db.InvalidID {
		if owner, taken := v.DB().VocabNameOwner(name, v.ID()); taken {
			return db.Errorf(db.ErrCodeDuplicateName, op, "vocab name %s already used by element %d", name, owner)
		}
	}
	v.name = name
	return nil
}

func (v *veBase) System() bool { return v.system }
func (v *veBase) VarLen() bool { return v.varLen }

func (v *veBase) NumFormalArgs() int { return len(v.args) }

// FormalArgs returns the argument list. The slice is a copy; the arguments
// are not.
func (v *veBase) FormalArgs() []FormalArg { return slices.Clone(v.args) }

func (v *veBase) FormalArg(i int) (FormalArg, error) {
	if i < 0 || i >= len(v.args) {
		return nil, db.Errorf(db.ErrCodeRangeViolation, "VocabElement.FormalArg", "index %d out of range [0, %d)", i, len(v.args))
	}
	return v.args[i], nil
}

func (v *veBase) FormalArgByName(name string) (FormalArg, bool) {
	name = db.NormalizeName(name)
	for _, a := range v.args {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Members implements db.VocabEntry.
func (v *veBase) Members() []db.Element {
	out := make([]db.Element, len(v.args))
	for i, a := range v.args {
		out[i] = a
	}
	return out
}

// BindMembers implements db.VocabEntry.
func (v *veBase) BindMembers() {
	for _, a := range v.args {
		a.setVocabElementID(v.ID())
	}
}

// String renders name(<a>, <b>).
func (v *veBase) String() string {
	names := make([]string, len(v.args))
	for i, a := range v.args {
		names[i] = a.Name()
	}
	return v.name + "(" + strings.Join(names, ", ") + ")"
}

func (v *veBase) argListDBString() string {
	return joinStrings(v.args, func(a FormalArg) string { return a.DBString() })
}

// checkArg validates a candidate for position skip (-1 when inserting).
func (v *veBase) checkArg(op string, a FormalArg, skip int) error {
	if isNilArg(a) {
		return db.Errorf(db.ErrCodeNullInput, op, "formal argument is nil")
	}
	if a.DB() != v.DB() {
		return db.Errorf(db.ErrCodeForeignStore, op, "formal argument belongs to another store")
	}
	for i, other := range v.args {
		if i == skip {
			continue
		}
		if other == a {
			return db.Errorf(db.ErrCodeDuplicateIdentity, op, "formal argument %s already in list", a.Name())
		}
		if other.Name() == a.Name() {
			return db.Errorf(db.ErrCodeDuplicateName, op, "formal argument name %s already in use", a.Name())
		}
	}
	return nil
}

func (v *veBase) checkIndex(op string, i, n int) error {
	if i < 0 || i >= n {
		return db.Errorf(db.ErrCodeRangeViolation, op, "index %d out of range [0, %d)", i, n)
	}
	return nil
}

func (v *veBase) insertArg(op string, a FormalArg, i int) error {
	if err := v.checkArg(op, a, -1); err != nil {
		return err
	}
	if err := v.checkIndex(op, i, len(v.args)+1); err != nil {
		return err
	}
	v.args = slices.Insert(v.args, i, a)
	a.setVocabElementID(v.ID())
	return nil
}

func (v *veBase) replaceArg(op string, a FormalArg, i int) error {
	if err := v.checkIndex(op, i, len(v.args)); err != nil {
		return err
	}
	if err := v.checkArg(op, a, i); err != nil {
		return err
	}
	if old := v.args[i]; old != a {
		old.setVocabElementID(db.InvalidID)
	}
	v.args[i] = a
	a.setVocabElementID(v.ID())
	return nil
}

func (v *veBase) deleteArg(op string, i int) error {
	if err := v.checkIndex(op, i, len(v.args)); err != nil {
		return err
	}
	v.args[i].setVocabElementID(db.InvalidID)
	v.args = slices.Delete(v.args, i, i+1)
	return nil
}

// registeredConsistently reports whether self is the element the store has
// registered under its ID and every argument is registered with a
// back-reference to it.
func (v *veBase) registeredConsistently(self VocabElement) bool {
	d := v.DB()
	stored, err := d.VocabElement(v.ID())
	if err != nil || stored != db.VocabEntry(self) {
		return false
	}
	for _, a := range v.args {
		if a.VocabElementID() != v.ID() {
			return false
		}
		got, err := d.Index().Get(a.ID())
		if err != nil || got != db.Element(a) {
			return false
		}
	}
	return true
}

func (v *veBase) cloneBase() veBase {
	c := veBase{
		Base:   v.CopyBase(),
		name:   v.name,
		system: v.system,
		varLen: v.varLen,
		args:   make([]FormalArg, len(v.args)),
	}
	for i, a := range v.args {
		c.args[i] = a.CloneArg()
	}
	return c
}
