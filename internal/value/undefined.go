package value

import (
	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// defaultPlaceholder is shown by a detached undefined value.
const defaultPlaceholder = "<val>"

// UndefinedDataValue fills an argument slot that has no value yet. It
// renders as the name of its argument and is never set.
type UndefinedDataValue struct {
	dvBase
	placeholder string
}

func NewUndefinedDataValue(d *db.DB) (*UndefinedDataValue, error) {
	b, err := detached("NewUndefinedDataValue", d, schema.FargUndefined)
	if err != nil {
		return nil, err
	}
	return &UndefinedDataValue{dvBase: b, placeholder: defaultPlaceholder}, nil
}

// NewUndefinedDataValueFor binds a placeholder to an argument of any kind.
func NewUndefinedDataValueFor(d *db.DB, fargID db.ID) (*UndefinedDataValue, error) {
	b, farg, err := bind("NewUndefinedDataValueFor", d, fargID, schema.FargUndefined)
	if err != nil {
		return nil, err
	}
	return &UndefinedDataValue{dvBase: b, placeholder: farg.Name()}, nil
}

func (v *UndefinedDataValue) Placeholder() string { return v.placeholder }

func (v *UndefinedDataValue) IsSet() bool { return false }
func (v *UndefinedDataValue) Value() any  { return nil }
func (v *UndefinedDataValue) Clear()      {}

func (v *UndefinedDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	if err := v.rebind("UndefinedDataValue.UpdateForFargChange", farg, schema.FargUndefined); err != nil {
		return err
	}
	v.placeholder = farg.Name()
	return nil
}

func (v *UndefinedDataValue) String() string { return v.placeholder }

func (v *UndefinedDataValue) DBString() string {
	return v.dbString("UndefinedDataValue", v.placeholder)
}

func (v *UndefinedDataValue) CloneValue() DataValue {
	c := *v
	return &c
}
