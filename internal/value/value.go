package value

import (
	"fmt"
	"reflect"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// nullValue renders an unset value in debug strings.
const nullValue = "<null>"

// DataValue is a typed value bound to a formal argument.
type DataValue interface {
	db.Element

	// FargID returns the bound formal argument, or db.InvalidID for a
	// detached value.
	FargID() db.ID

	// FargType returns the kind of the bound argument. It is FargUntyped
	// when bound to an untyped argument.
	FargType() schema.FargType

	// CellID returns the cell holding the value, or db.InvalidID.
	CellID() db.ID

	// SetCellID places the value in a cell. Placement is write-once.
	SetCellID(id db.ID) error

	SubRange() bool
	IsSet() bool

	// Value returns the current value as its Go type, or nil when unset.
	Value() any

	// Clear unsets the value.
	Clear()

	// UpdateForFargChange refreshes the cached type and sub-range flag from
	// farg, which must be the bound argument, and coerces the current value
	// into its constraints.
	UpdateForFargChange(farg schema.FormalArg) error

	// CloneValue returns an independent copy carrying the same IDs.
	CloneValue() DataValue
}

// Copy returns an independent copy of src.
func Copy(src DataValue) (DataValue, error) {
	if isNil(src) {
		return nil, db.Errorf(db.ErrCodeNullInput, "value.Copy", "source is nil")
	}
	return src.CloneValue(), nil
}

// dvBase holds the binding shared by every data value kind.
type dvBase struct {
	db.Base
	fargID   db.ID
	fargType schema.FargType
	cellID   db.ID
	subRange bool
}

func detached(op string, d *db.DB, kind schema.FargType) (dvBase, error) {
	if d == nil {
		return dvBase{}, db.Errorf(db.ErrCodeNullInput, op, "store is nil")
	}
	return dvBase{Base: db.NewBase(d), fargType: kind}, nil
}

// bind resolves fargID through the registry and checks it accepts values of
// kind. FargUndefined accepts any argument.
func bind(op string, d *db.DB, fargID db.ID, kind schema.FargType) (dvBase, schema.FormalArg, error) {
	if d == nil {
		return dvBase{}, nil, db.Errorf(db.ErrCodeNullInput, op, "store is nil")
	}
	if fargID == db.InvalidID {
		return dvBase{}, nil, db.Errorf(db.ErrCodeUnknownID, op, "formal argument id is invalid")
	}
	e, err := d.Index().Get(fargID)
	if err != nil {
		return dvBase{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	farg, ok := e.(schema.FormalArg)
	if !ok {
		return dvBase{}, nil, db.Errorf(db.ErrCodeTypeMismatch, op, "element %d is %s, not a formal argument", fargID, db.TypeName(e))
	}
	if err := checkKind(op, farg, kind); err != nil {
		return dvBase{}, nil, err
	}
	b := dvBase{
		Base:     db.NewBase(d),
		fargID:   fargID,
		fargType: farg.Type(),
		subRange: farg.SubRange(),
	}
	return b, farg, nil
}

func checkKind(op string, farg schema.FormalArg, kind schema.FargType) error {
	if kind == schema.FargUndefined || farg.Type() == kind || farg.Type() == schema.FargUntyped {
		return nil
	}
	return db.Errorf(db.ErrCodeTypeMismatch, op, "%s value cannot bind to %s argument %s", kind, farg.Type(), farg.Name())
}

// rebind validates farg as a replacement definition of the bound argument
// and refreshes the cached type and sub-range flag.
func (b *dvBase) rebind(op string, farg schema.FormalArg, kind schema.FargType) error {
	if isNilArg(farg) {
		return db.Errorf(db.ErrCodeNullInput, op, "formal argument is nil")
	}
	if b.fargID == db.InvalidID || farg.ID() != b.fargID {
		return db.Errorf(db.ErrCodeTypeMismatch, op, "value is bound to %d, not %d", b.fargID, farg.ID())
	}
	if err := checkKind(op, farg, kind); err != nil {
		return err
	}
	b.fargType = farg.Type()
	b.subRange = farg.SubRange()
	return nil
}

// arg re-resolves the bound argument through the registry. It returns nil
// for a detached value or when the argument is no longer registered.
// Ranges and approved sets are always read from the live argument.
func (b *dvBase) arg() schema.FormalArg {
	if b.fargID == db.InvalidID {
		return nil
	}
	e, err := b.DB().Index().Get(b.fargID)
	if err != nil {
		return nil
	}
	farg, _ := e.(schema.FormalArg)
	return farg
}

// sync mirrors the live argument's sub-range flag before a write.
func (b *dvBase) sync() schema.FormalArg {
	farg := b.arg()
	if farg != nil {
		b.subRange = farg.SubRange()
	}
	return farg
}

func (b *dvBase) FargID() db.ID             { return b.fargID }
func (b *dvBase) FargType() schema.FargType { return b.fargType }
func (b *dvBase) CellID() db.ID             { return b.cellID }
func (b *dvBase) SubRange() bool            { return b.subRange }

func (b *dvBase) SetCellID(id db.ID) error {
	const op = "DataValue.SetCellID"
	if id == db.InvalidID {
		return db.Errorf(db.ErrCodeNullInput, op, "cell id is invalid")
	}
	if b.cellID != db.InvalidID {
		return db.Errorf(db.ErrCodeImmutableFieldChange, op, "already placed in cell %d", b.cellID)
	}
	b.cellID = id
	return nil
}

func (b *dvBase) dbString(variant, value string) string {
	return fmt.Sprintf("(%s (id %d) (itsFargID %d) (itsFargType %s) (itsCellID %d) (itsValue %s) (subRange %t))",
		variant, b.ID(), b.fargID, b.fargType, b.cellID, value, b.subRange)
}

func isNil(v DataValue) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func isNilArg(a schema.FormalArg) bool {
	if a == nil {
		return true
	}
	rv := reflect.ValueOf(a)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
