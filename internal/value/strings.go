package value

import (
	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// permitted reports whether farg, when it is a sub-ranged argument,
// approves x. Any other argument, including nil, permits everything.
func permitted(farg schema.FormalArg, x any) bool {
	if farg == nil || !farg.SubRange() {
		return true
	}
	ok, err := farg.IsValidValue(x)
	return err == nil && ok
}

// checkString normalises s and validates it against the kind's grammar.
func checkString(op, s string, valid func(string) bool) (string, error) {
	if s == "" {
		return "", db.Errorf(db.ErrCodeNullInput, op, "value is empty")
	}
	s = db.NormalizeName(s)
	if !valid(s) {
		return "", db.Errorf(db.ErrCodeNameSyntaxViolation, op, "invalid value %q", s)
	}
	return s, nil
}

// stringValue is the state shared by the approved-set string kinds.
type stringValue struct {
	dvBase
	val string
	set bool
}

// CoerceToRange returns s and true when s is permitted, or "" and false
// when the bound argument is sub-ranged and does not approve s.
func (v *stringValue) CoerceToRange(s string) (string, bool) {
	if !permitted(v.arg(), s) {
		return "", false
	}
	return s, true
}

// store sets an already validated s, or unsets the value if s is outside
// the sub-range.
func (v *stringValue) store(s string) {
	if permitted(v.sync(), s) {
		v.val, v.set = s, true
		return
	}
	v.Clear()
}

// ItsValue returns the value and whether it is set.
func (v *stringValue) ItsValue() (string, bool) { return v.val, v.set }

func (v *stringValue) IsSet() bool { return v.set }

func (v *stringValue) Value() any {
	if !v.set {
		return nil
	}
	return v.val
}

func (v *stringValue) Clear() { v.val, v.set = "", false }

// refresh unsets the value when farg no longer approves it.
func (v *stringValue) refresh(farg schema.FormalArg) {
	if v.set && !permitted(farg, v.val) {
		v.Clear()
	}
}

func (v *stringValue) clone() stringValue { return *v }

// NominalDataValue holds a nominal. Detached values start unset.
type NominalDataValue struct {
	stringValue
}

func NewNominalDataValue(d *db.DB) (*NominalDataValue, error) {
	b, err := detached("NewNominalDataValue", d, schema.FargNominal)
	if err != nil {
		return nil, err
	}
	return &NominalDataValue{stringValue{dvBase: b}}, nil
}

func NewNominalDataValueFor(d *db.DB, fargID db.ID) (*NominalDataValue, error) {
	b, _, err := bind("NewNominalDataValueFor", d, fargID, schema.FargNominal)
	if err != nil {
		return nil, err
	}
	return &NominalDataValue{stringValue{dvBase: b}}, nil
}

// NewNominalDataValueWithValue binds and sets s. An s outside the
// argument's approved set yields an unset value, not an error.
func NewNominalDataValueWithValue(d *db.DB, fargID db.ID, s string) (*NominalDataValue, error) {
	v, err := NewNominalDataValueFor(d, fargID)
	if err != nil {
		return nil, err
	}
	if err := v.SetItsValue(s); err != nil {
		return nil, err
	}
	return v, nil
}

// SetItsValue sets s. It fails if s is not a valid nominal; an s outside
// the sub-range unsets the value.
func (v *NominalDataValue) SetItsValue(s string) error {
	s, err := checkString("NominalDataValue.SetItsValue", s, db.IsValidNominal)
	if err != nil {
		return err
	}
	v.store(s)
	return nil
}

func (v *NominalDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	if err := v.rebind("NominalDataValue.UpdateForFargChange", farg, schema.FargNominal); err != nil {
		return err
	}
	v.refresh(farg)
	return nil
}

func (v *NominalDataValue) String() string { return v.val }

func (v *NominalDataValue) DBString() string {
	s := nullValue
	if v.set {
		s = v.val
	}
	return v.dbString("NominalDataValue", s)
}

func (v *NominalDataValue) CloneValue() DataValue {
	return &NominalDataValue{v.clone()}
}

// QuoteStringDataValue holds a quote string. The quote delimiter is never
// accepted, regardless of sub-range.
type QuoteStringDataValue struct {
	stringValue
}

func NewQuoteStringDataValue(d *db.DB) (*QuoteStringDataValue, error) {
	b, err := detached("NewQuoteStringDataValue", d, schema.FargQuoteString)
	if err != nil {
		return nil, err
	}
	return &QuoteStringDataValue{stringValue{dvBase: b}}, nil
}

func NewQuoteStringDataValueFor(d *db.DB, fargID db.ID) (*QuoteStringDataValue, error) {
	b, _, err := bind("NewQuoteStringDataValueFor", d, fargID, schema.FargQuoteString)
	if err != nil {
		return nil, err
	}
	return &QuoteStringDataValue{stringValue{dvBase: b}}, nil
}

func NewQuoteStringDataValueWithValue(d *db.DB, fargID db.ID, s string) (*QuoteStringDataValue, error) {
	v, err := NewQuoteStringDataValueFor(d, fargID)
	if err != nil {
		return nil, err
	}
	if err := v.SetItsValue(s); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *QuoteStringDataValue) SetItsValue(s string) error {
	s, err := checkString("QuoteStringDataValue.SetItsValue", s, db.IsValidQuoteString)
	if err != nil {
		return err
	}
	v.store(s)
	return nil
}

func (v *QuoteStringDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	if err := v.rebind("QuoteStringDataValue.UpdateForFargChange", farg, schema.FargQuoteString); err != nil {
		return err
	}
	v.refresh(farg)
	return nil
}

// String renders the value wrapped in quote delimiters.
func (v *QuoteStringDataValue) String() string {
	if !v.set {
		return ""
	}
	return `"` + v.val + `"`
}

func (v *QuoteStringDataValue) DBString() string {
	s := nullValue
	if v.set {
		s = `"` + v.val + `"`
	}
	return v.dbString("QuoteStringDataValue", s)
}

func (v *QuoteStringDataValue) CloneValue() DataValue {
	return &QuoteStringDataValue{v.clone()}
}

// TextStringDataValue holds free text. It is never sub-ranged and the
// empty string is a valid value.
type TextStringDataValue struct {
	dvBase
	val string
	set bool
}

func NewTextStringDataValue(d *db.DB) (*TextStringDataValue, error) {
	b, err := detached("NewTextStringDataValue", d, schema.FargText)
	if err != nil {
		return nil, err
	}
	return &TextStringDataValue{dvBase: b}, nil
}

func NewTextStringDataValueFor(d *db.DB, fargID db.ID) (*TextStringDataValue, error) {
	b, _, err := bind("NewTextStringDataValueFor", d, fargID, schema.FargText)
	if err != nil {
		return nil, err
	}
	return &TextStringDataValue{dvBase: b}, nil
}

func NewTextStringDataValueWithValue(d *db.DB, fargID db.ID, s string) (*TextStringDataValue, error) {
	v, err := NewTextStringDataValueFor(d, fargID)
	if err != nil {
		return nil, err
	}
	if err := v.SetItsValue(s); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *TextStringDataValue) ItsValue() (string, bool) { return v.val, v.set }

func (v *TextStringDataValue) SetItsValue(s string) error {
	if !db.IsValidTextString(s) {
		return db.Errorf(db.ErrCodeNameSyntaxViolation, "TextStringDataValue.SetItsValue", "invalid text %q", s)
	}
	v.val, v.set = s, true
	return nil
}

func (v *TextStringDataValue) IsSet() bool { return v.set }

func (v *TextStringDataValue) Value() any {
	if !v.set {
		return nil
	}
	return v.val
}

func (v *TextStringDataValue) Clear() { v.val, v.set = "", false }

func (v *TextStringDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	return v.rebind("TextStringDataValue.UpdateForFargChange", farg, schema.FargText)
}

func (v *TextStringDataValue) String() string { return v.val }

func (v *TextStringDataValue) DBString() string {
	s := nullValue
	if v.set {
		s = v.val
	}
	return v.dbString("TextStringDataValue", s)
}

func (v *TextStringDataValue) CloneValue() DataValue {
	c := *v
	return &c
}
