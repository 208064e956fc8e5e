package schema

import (
	"fmt"
	"reflect"

	"github.com/roach88/vocabdb/internal/db"
)

// FormalArg is a typed argument slot of a vocabulary element.
type FormalArg interface {
	db.Element

	// Name returns the argument name, e.g. "<onset>".
	Name() string
	SetName(name string) error

	Hidden() bool
	SetHidden(hidden bool)

	// Type returns the concrete kind tag.
	Type() FargType

	// SubRange reports whether the argument restricts values beyond its type.
	SubRange() bool

	// IsValidValue reports whether v may be stored in a data value bound to
	// this argument. It fails only when v is nil; a value of the wrong Go
	// type is simply invalid.
	IsValidValue(v any) (bool, error)

	// VocabElementID returns the owning vocabulary element, or db.InvalidID
	// when the argument is not in an element's list. This is a lookup key,
	// not an ownership edge.
	VocabElementID() db.ID

	// CloneArg returns an independent copy carrying the same ID.
	CloneArg() FormalArg

	setVocabElementID(id db.ID)
}

// fargBase holds the fields shared by every formal argument kind.
type fargBase struct {
	db.Base
	name   string
	hidden bool
	veID   db.ID
}

func newFargBase(op string, d *db.DB, name string) (fargBase, error) {
	if d == nil {
		return fargBase{}, db.Errorf(db.ErrCodeNullInput, op, "store is nil")
	}
	name, err := checkFargName(op, name)
	if err != nil {
		return fargBase{}, err
	}
	return fargBase{Base: db.NewBase(d), name: name}, nil
}

func checkFargName(op, name string) (string, error) {
	if name == "" {
		return "", db.Errorf(db.ErrCodeNullInput, op, "name is empty")
	}
	name = db.NormalizeName(name)
	if !db.IsValidFargName(name) {
		return "", db.Errorf(db.ErrCodeNameSyntaxViolation, op, "invalid formal argument name %q", name)
	}
	return name, nil
}

func (f *fargBase) Name() string { return f.name }

// SetName renames the argument. Name clashes within an owning element are
// checked when the element's list is edited, not here.
func (f *fargBase) SetName(name string) error {
	name, err := checkFargName("FormalArg.SetName", name)
	if err != nil {
		return err
	}
	f.name = name
	return nil
}

func (f *fargBase) Hidden() bool               { return f.hidden }
func (f *fargBase) SetHidden(hidden bool)      { f.hidden = hidden }
func (f *fargBase) VocabElementID() db.ID      { return f.veID }
func (f *fargBase) setVocabElementID(id db.ID) { f.veID = id }

// String returns the argument name.
func (f *fargBase) String() string { return f.name }

func (f *fargBase) cloneBase() fargBase {
	return fargBase{Base: f.CopyBase(), name: f.name, hidden: f.hidden, veID: f.veID}
}

func nilValue(op string) error {
	return db.Errorf(db.ErrCodeNullInput, op, "candidate value is nil")
}

func isNilArg(a FormalArg) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// UnTypedFormalArg accepts a value of any kind.
type UnTypedFormalArg struct {
	fargBase
}

// NewUnTypedFormalArg creates an untyped argument called name.
func NewUnTypedFormalArg(d *db.DB, name string) (*UnTypedFormalArg, error) {
	b, err := newFargBase("NewUnTypedFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	return &UnTypedFormalArg{fargBase: b}, nil
}

func (a *UnTypedFormalArg) Type() FargType { return FargUntyped }
func (a *UnTypedFormalArg) SubRange() bool { return false }

// IsValidValue accepts any value of a supported kind.
func (a *UnTypedFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("UnTypedFormalArg.IsValidValue")
	}
	switch x := v.(type) {
	case float64:
		_, ok := asFloat64(x)
		return ok, nil
	case string:
		return db.IsValidTextString(x), nil
	case TimeStamp:
		return x.Valid(), nil
	case db.ID:
		return x != db.InvalidID, nil
	}
	_, ok := asInt64(v)
	return ok, nil
}

func (a *UnTypedFormalArg) DBString() string {
	return fmt.Sprintf("(UnTypedFormalArg %d %s %t)", a.ID(), a.name, a.hidden)
}

func (a *UnTypedFormalArg) CloneArg() FormalArg {
	return &UnTypedFormalArg{fargBase: a.cloneBase()}
}
