package value

import (
	"fmt"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// NewFor builds an unset value of the kind matching the argument fargID.
// An untyped argument yields an UndefinedDataValue.
func NewFor(d *db.DB, fargID db.ID) (DataValue, error) {
	farg, err := lookupFarg("value.NewFor", d, fargID)
	if err != nil {
		return nil, err
	}
	switch farg.Type() {
	case schema.FargInteger:
		return NewIntDataValueFor(d, fargID)
	case schema.FargFloat:
		return NewFloatDataValueFor(d, fargID)
	case schema.FargNominal:
		return NewNominalDataValueFor(d, fargID)
	case schema.FargQuoteString:
		return NewQuoteStringDataValueFor(d, fargID)
	case schema.FargText:
		return NewTextStringDataValueFor(d, fargID)
	case schema.FargTimeStamp:
		return NewTimeStampDataValueFor(d, fargID)
	case schema.FargPredicate:
		return NewPredDataValueFor(d, fargID)
	}
	return NewUndefinedDataValueFor(d, fargID)
}

// NewWithValue builds a value for the argument fargID from a plain Go value,
// as decoded from YAML or JSON. Integers stand for ticks on time-stamp
// arguments and for predicate IDs on predicate arguments. For an untyped
// argument the kind follows the Go type of x: int64 or int, float64,
// string (as text), TimeStamp, or Predicate.
func NewWithValue(d *db.DB, fargID db.ID, x any) (DataValue, error) {
	const op = "value.NewWithValue"
	if x == nil {
		return nil, db.Errorf(db.ErrCodeNullInput, op, "value is nil")
	}
	farg, err := lookupFarg(op, d, fargID)
	if err != nil {
		return nil, err
	}

	kind := farg.Type()
	if kind == schema.FargUntyped {
		kind = kindOf(x)
	}
	switch kind {
	case schema.FargInteger:
		if n, ok := toInt64(x); ok {
			return NewIntDataValueWithValue(d, fargID, n)
		}
	case schema.FargFloat:
		switch f := x.(type) {
		case float64:
			return NewFloatDataValueWithValue(d, fargID, f)
		default:
			if n, ok := toInt64(x); ok {
				return NewFloatDataValueWithValue(d, fargID, float64(n))
			}
		}
	case schema.FargNominal:
		if s, ok := x.(string); ok {
			return NewNominalDataValueWithValue(d, fargID, s)
		}
	case schema.FargQuoteString:
		if s, ok := x.(string); ok {
			return NewQuoteStringDataValueWithValue(d, fargID, s)
		}
	case schema.FargText:
		if s, ok := x.(string); ok {
			return NewTextStringDataValueWithValue(d, fargID, s)
		}
	case schema.FargTimeStamp:
		switch ts := x.(type) {
		case schema.TimeStamp:
			return NewTimeStampDataValueWithValue(d, fargID, ts)
		default:
			if n, ok := toInt64(x); ok {
				return NewTimeStampDataValueWithValue(d, fargID, schema.TimeStamp{TPS: d.TicksPerSecond(), Ticks: n})
			}
		}
	case schema.FargPredicate:
		switch p := x.(type) {
		case Predicate:
			return NewPredDataValueWithValue(d, fargID, p)
		case db.ID:
			return NewPredDataValueWithValue(d, fargID, Predicate{PredID: p})
		default:
			if n, ok := toInt64(x); ok {
				return NewPredDataValueWithValue(d, fargID, Predicate{PredID: db.ID(n)})
			}
		}
	}
	return nil, db.Errorf(db.ErrCodeTypeMismatch, op, "cannot use %T as %s value for %s", x, kind, farg.Name())
}

func lookupFarg(op string, d *db.DB, fargID db.ID) (schema.FormalArg, error) {
	if d == nil {
		return nil, db.Errorf(db.ErrCodeNullInput, op, "store is nil")
	}
	e, err := d.Index().Get(fargID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	farg, ok := e.(schema.FormalArg)
	if !ok {
		return nil, db.Errorf(db.ErrCodeTypeMismatch, op, "element %d is %s, not a formal argument", fargID, db.TypeName(e))
	}
	return farg, nil
}

func kindOf(x any) schema.FargType {
	switch x.(type) {
	case float64:
		return schema.FargFloat
	case string:
		return schema.FargText
	case schema.TimeStamp:
		return schema.FargTimeStamp
	case Predicate, db.ID:
		return schema.FargPredicate
	}
	if _, ok := toInt64(x); ok {
		return schema.FargInteger
	}
	return schema.FargUndefined
}

func toInt64(x any) (int64, bool) {
	switch n := x.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		if n <= 1<<63-1 {
			return int64(n), true
		}
	}
	return 0, false
}
