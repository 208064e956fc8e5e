package schema

import (
	"fmt"
	"math"

	"github.com/roach88/vocabdb/internal/db"
)

// IntFormalArg accepts int64 values within [Min, Max]. SubRange is true
// whenever the range is narrower than the full int64 range.
type IntFormalArg struct {
	fargBase
	min, max int64
}

// NewIntFormalArg creates an integer argument spanning the full int64 range.
func NewIntFormalArg(d *db.DB, name string) (*IntFormalArg, error) {
	b, err := newFargBase("NewIntFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	return &IntFormalArg{fargBase: b, min: math.MinInt64, max: math.MaxInt64}, nil
}

func (a *IntFormalArg) Type() FargType { return FargInteger }
func (a *IntFormalArg) Min() int64     { return a.min }
func (a *IntFormalArg) Max() int64     { return a.max }

func (a *IntFormalArg) SubRange() bool {
	return a.min != math.MinInt64 || a.max != math.MaxInt64
}

// SetRange restricts the argument to [min, max]. min must be below max.
func (a *IntFormalArg) SetRange(min, max int64) error {
	if min >= max {
		return db.Errorf(db.ErrCodeRangeViolation, "IntFormalArg.SetRange", "min %d must be below max %d", min, max)
	}
	a.min, a.max = min, max
	return nil
}

// SetSubRange(false) restores the full range. SetSubRange(true) is a no-op;
// use SetRange to narrow the range.
func (a *IntFormalArg) SetSubRange(on bool) {
	if !on {
		a.min, a.max = math.MinInt64, math.MaxInt64
	}
}

// Clamp returns v forced into [Min, Max].
func (a *IntFormalArg) Clamp(v int64) int64 {
	return min(max(v, a.min), a.max)
}

func (a *IntFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("IntFormalArg.IsValidValue")
	}
	n, ok := asInt64(v)
	if !ok {
		return false, nil
	}
	return n >= a.min && n <= a.max, nil
}

func (a *IntFormalArg) DBString() string {
	return fmt.Sprintf("(IntFormalArg %d %s %t %d %d)", a.ID(), a.name, a.SubRange(), a.min, a.max)
}

func (a *IntFormalArg) CloneArg() FormalArg {
	c := *a
	c.fargBase = a.cloneBase()
	return &c
}

// FloatFormalArg accepts float64 values within [Min, Max]. The default range
// is [-Inf, +Inf]; NaN is never valid.
type FloatFormalArg struct {
	fargBase
	min, max float64
}

// NewFloatFormalArg creates an unbounded float argument.
func NewFloatFormalArg(d *db.DB, name string) (*FloatFormalArg, error) {
	b, err := newFargBase("NewFloatFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	return &FloatFormalArg{fargBase: b, min: math.Inf(-1), max: math.Inf(1)}, nil
}

func (a *FloatFormalArg) Type() FargType { return FargFloat }
func (a *FloatFormalArg) Min() float64   { return a.min }
func (a *FloatFormalArg) Max() float64   { return a.max }

func (a *FloatFormalArg) SubRange() bool {
	return !math.IsInf(a.min, -1) || !math.IsInf(a.max, 1)
}

// SetRange restricts the argument to [min, max]. min must be below max and
// neither may be NaN.
func (a *FloatFormalArg) SetRange(min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) || min >= max {
		return db.Errorf(db.ErrCodeRangeViolation, "FloatFormalArg.SetRange",
			"min %s must be below max %s", FormatFloat(min), FormatFloat(max))
	}
	a.min, a.max = min, max
	return nil
}

func (a *FloatFormalArg) SetSubRange(on bool) {
	if !on {
		a.min, a.max = math.Inf(-1), math.Inf(1)
	}
}

func (a *FloatFormalArg) Clamp(v float64) float64 {
	return min(max(v, a.min), a.max)
}

func (a *FloatFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("FloatFormalArg.IsValidValue")
	}
	f, ok := asFloat64(v)
	if !ok {
		return false, nil
	}
	return f >= a.min && f <= a.max, nil
}

func (a *FloatFormalArg) DBString() string {
	return fmt.Sprintf("(FloatFormalArg %d %s %t %s %s)",
		a.ID(), a.name, a.SubRange(), FormatFloat(a.min), FormatFloat(a.max))
}

func (a *FloatFormalArg) CloneArg() FormalArg {
	c := *a
	c.fargBase = a.cloneBase()
	return &c
}

// TimeStampFormalArg accepts TimeStamp values within [Min, Max]. The
// default range starts at zero ticks and has no upper bound.
type TimeStampFormalArg struct {
	fargBase
	min, max TimeStamp
}

// NewTimeStampFormalArg creates an unbounded time-stamp argument at the
// store's resolution.
func NewTimeStampFormalArg(d *db.DB, name string) (*TimeStampFormalArg, error) {
	b, err := newFargBase("NewTimeStampFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	a := &TimeStampFormalArg{fargBase: b}
	a.SetSubRange(false)
	return a, nil
}

func (a *TimeStampFormalArg) Type() FargType { return FargTimeStamp }
func (a *TimeStampFormalArg) Min() TimeStamp { return a.min }
func (a *TimeStampFormalArg) Max() TimeStamp { return a.max }

func (a *TimeStampFormalArg) SubRange() bool {
	return a.min.Ticks != 0 || a.max.Ticks != math.MaxInt64
}

// SetRange restricts the argument to [min, max]; min must precede max.
func (a *TimeStampFormalArg) SetRange(min, max TimeStamp) error {
	const op = "TimeStampFormalArg.SetRange"
	if !min.Valid() || !max.Valid() {
		return db.Errorf(db.ErrCodeRangeViolation, op, "invalid time stamp bound")
	}
	if min.Compare(max) >= 0 {
		return db.Errorf(db.ErrCodeRangeViolation, op, "min %s must precede max %s", min, max)
	}
	a.min, a.max = min, max
	return nil
}

func (a *TimeStampFormalArg) SetSubRange(on bool) {
	if !on {
		tps := a.DB().TicksPerSecond()
		a.min = TimeStamp{TPS: tps, Ticks: 0}
		a.max = TimeStamp{TPS: tps, Ticks: math.MaxInt64}
	}
}

// Clamp returns v forced into [Min, Max].
func (a *TimeStampFormalArg) Clamp(v TimeStamp) TimeStamp {
	switch {
	case v.Compare(a.min) < 0:
		return a.min
	case v.Compare(a.max) > 0:
		return a.max
	}
	return v
}

func (a *TimeStampFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("TimeStampFormalArg.IsValidValue")
	}
	ts, ok := v.(TimeStamp)
	if !ok || !ts.Valid() {
		return false, nil
	}
	return ts.Compare(a.min) >= 0 && ts.Compare(a.max) <= 0, nil
}

func (a *TimeStampFormalArg) DBString() string {
	return fmt.Sprintf("(TimeStampFormalArg %d %s %t %s %s)", a.ID(), a.name, a.SubRange(), a.min, a.max)
}

func (a *TimeStampFormalArg) CloneArg() FormalArg {
	c := *a
	c.fargBase = a.cloneBase()
	return &c
}
