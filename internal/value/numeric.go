package value

import (
	"math"
	"strconv"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// IntDataValue holds an int64. Detached values default to 0.
type IntDataValue struct {
	dvBase
	val int64
	set bool
}

func NewIntDataValue(d *db.DB) (*IntDataValue, error) {
	b, err := detached("NewIntDataValue", d, schema.FargInteger)
	if err != nil {
		return nil, err
	}
	return &IntDataValue{dvBase: b, set: true}, nil
}

func NewIntDataValueFor(d *db.DB, fargID db.ID) (*IntDataValue, error) {
	b, _, err := bind("NewIntDataValueFor", d, fargID, schema.FargInteger)
	if err != nil {
		return nil, err
	}
	return &IntDataValue{dvBase: b}, nil
}

func NewIntDataValueWithValue(d *db.DB, fargID db.ID, n int64) (*IntDataValue, error) {
	v, err := NewIntDataValueFor(d, fargID)
	if err != nil {
		return nil, err
	}
	v.SetItsValue(n)
	return v, nil
}

// ItsValue returns the value and whether it is set.
func (v *IntDataValue) ItsValue() (int64, bool) { return v.val, v.set }

// SetItsValue stores n, clamped into the argument's range when sub-ranged.
func (v *IntDataValue) SetItsValue(n int64) {
	v.val = clampInt(v.sync(), n)
	v.set = true
}

// CoerceToRange clamps n into [min, max] of the bound argument when it is
// sub-ranged.
func (v *IntDataValue) CoerceToRange(n int64) int64 {
	return clampInt(v.arg(), n)
}

func clampInt(farg schema.FormalArg, n int64) int64 {
	a, ok := farg.(*schema.IntFormalArg)
	if !ok || !a.SubRange() {
		return n
	}
	return min(max(n, a.Min()), a.Max())
}

func (v *IntDataValue) IsSet() bool { return v.set }

func (v *IntDataValue) Value() any {
	if !v.set {
		return nil
	}
	return v.val
}

func (v *IntDataValue) Clear() { v.val, v.set = 0, false }

func (v *IntDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	if err := v.rebind("IntDataValue.UpdateForFargChange", farg, schema.FargInteger); err != nil {
		return err
	}
	if v.set {
		v.val = clampInt(farg, v.val)
	}
	return nil
}

func (v *IntDataValue) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatInt(v.val, 10)
}

func (v *IntDataValue) DBString() string {
	s := nullValue
	if v.set {
		s = strconv.FormatInt(v.val, 10)
	}
	return v.dbString("IntDataValue", s)
}

func (v *IntDataValue) CloneValue() DataValue {
	c := *v
	return &c
}

// FloatDataValue holds a float64. Detached values default to 0.0.
type FloatDataValue struct {
	dvBase
	val float64
	set bool
}

func NewFloatDataValue(d *db.DB) (*FloatDataValue, error) {
	b, err := detached("NewFloatDataValue", d, schema.FargFloat)
	if err != nil {
		return nil, err
	}
	return &FloatDataValue{dvBase: b, set: true}, nil
}

func NewFloatDataValueFor(d *db.DB, fargID db.ID) (*FloatDataValue, error) {
	b, _, err := bind("NewFloatDataValueFor", d, fargID, schema.FargFloat)
	if err != nil {
		return nil, err
	}
	return &FloatDataValue{dvBase: b}, nil
}

func NewFloatDataValueWithValue(d *db.DB, fargID db.ID, f float64) (*FloatDataValue, error) {
	v, err := NewFloatDataValueFor(d, fargID)
	if err != nil {
		return nil, err
	}
	if err := v.SetItsValue(f); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *FloatDataValue) ItsValue() (float64, bool) { return v.val, v.set }

// SetItsValue stores f, clamped when sub-ranged. NaN is rejected.
func (v *FloatDataValue) SetItsValue(f float64) error {
	if math.IsNaN(f) {
		return db.Errorf(db.ErrCodeRangeViolation, "FloatDataValue.SetItsValue", "value is NaN")
	}
	v.val = clampFloat(v.sync(), f)
	v.set = true
	return nil
}

func (v *FloatDataValue) CoerceToRange(f float64) float64 {
	return clampFloat(v.arg(), f)
}

func clampFloat(farg schema.FormalArg, f float64) float64 {
	a, ok := farg.(*schema.FloatFormalArg)
	if !ok || !a.SubRange() {
		return f
	}
	return min(max(f, a.Min()), a.Max())
}

func (v *FloatDataValue) IsSet() bool { return v.set }

func (v *FloatDataValue) Value() any {
	if !v.set {
		return nil
	}
	return v.val
}

func (v *FloatDataValue) Clear() { v.val, v.set = 0, false }

func (v *FloatDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	if err := v.rebind("FloatDataValue.UpdateForFargChange", farg, schema.FargFloat); err != nil {
		return err
	}
	if v.set {
		v.val = clampFloat(farg, v.val)
	}
	return nil
}

func (v *FloatDataValue) String() string {
	if !v.set {
		return ""
	}
	return schema.FormatFloat(v.val)
}

func (v *FloatDataValue) DBString() string {
	s := nullValue
	if v.set {
		s = schema.FormatFloat(v.val)
	}
	return v.dbString("FloatDataValue", s)
}

func (v *FloatDataValue) CloneValue() DataValue {
	c := *v
	return &c
}

// TimeStampDataValue holds a TimeStamp. Detached values default to zero
// ticks at the store's resolution.
type TimeStampDataValue struct {
	dvBase
	val schema.TimeStamp
	set bool
}

func NewTimeStampDataValue(d *db.DB) (*TimeStampDataValue, error) {
	b, err := detached("NewTimeStampDataValue", d, schema.FargTimeStamp)
	if err != nil {
		return nil, err
	}
	return &TimeStampDataValue{dvBase: b, val: schema.TimeStamp{TPS: d.TicksPerSecond()}, set: true}, nil
}

func NewTimeStampDataValueFor(d *db.DB, fargID db.ID) (*TimeStampDataValue, error) {
	b, _, err := bind("NewTimeStampDataValueFor", d, fargID, schema.FargTimeStamp)
	if err != nil {
		return nil, err
	}
	return &TimeStampDataValue{dvBase: b}, nil
}

func NewTimeStampDataValueWithValue(d *db.DB, fargID db.ID, ts schema.TimeStamp) (*TimeStampDataValue, error) {
	v, err := NewTimeStampDataValueFor(d, fargID)
	if err != nil {
		return nil, err
	}
	if err := v.SetItsValue(ts); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *TimeStampDataValue) ItsValue() (schema.TimeStamp, bool) { return v.val, v.set }

// SetItsValue stores ts, clamped when sub-ranged.
func (v *TimeStampDataValue) SetItsValue(ts schema.TimeStamp) error {
	if !ts.Valid() {
		return db.Errorf(db.ErrCodeRangeViolation, "TimeStampDataValue.SetItsValue", "invalid time stamp %s", ts)
	}
	v.val = clampTimeStamp(v.sync(), ts)
	v.set = true
	return nil
}

func (v *TimeStampDataValue) CoerceToRange(ts schema.TimeStamp) schema.TimeStamp {
	return clampTimeStamp(v.arg(), ts)
}

func clampTimeStamp(farg schema.FormalArg, ts schema.TimeStamp) schema.TimeStamp {
	a, ok := farg.(*schema.TimeStampFormalArg)
	if !ok || !a.SubRange() {
		return ts
	}
	switch {
	case ts.Compare(a.Min()) < 0:
		return a.Min()
	case ts.Compare(a.Max()) > 0:
		return a.Max()
	}
	return ts
}

func (v *TimeStampDataValue) IsSet() bool { return v.set }

func (v *TimeStampDataValue) Value() any {
	if !v.set {
		return nil
	}
	return v.val
}

func (v *TimeStampDataValue) Clear() { v.val, v.set = schema.TimeStamp{}, false }

func (v *TimeStampDataValue) UpdateForFargChange(farg schema.FormalArg) error {
	if err := v.rebind("TimeStampDataValue.UpdateForFargChange", farg, schema.FargTimeStamp); err != nil {
		return err
	}
	if v.set {
		v.val = clampTimeStamp(farg, v.val)
	}
	return nil
}

func (v *TimeStampDataValue) String() string {
	if !v.set {
		return ""
	}
	return v.val.String()
}

func (v *TimeStampDataValue) DBString() string {
	s := nullValue
	if v.set {
		s = v.val.String()
	}
	return v.dbString("TimeStampDataValue", s)
}

func (v *TimeStampDataValue) CloneValue() DataValue {
	c := *v
	return &c
}
