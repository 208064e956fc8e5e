package schema

import (
	"fmt"
	"math"

	"github.com/roach88/vocabdb/internal/db"
)

// FargType tags the concrete kind of a formal argument or data value.
type FargType int

const (
	FargUndefined FargType = iota
	FargFloat
	FargInteger
	FargNominal
	FargPredicate
	FargTimeStamp
	FargQuoteString
	FargText
	FargUntyped
)

var fargTypeNames = [...]string{
	FargUndefined:   "UNDEFINED",
	FargFloat:       "FLOAT",
	FargInteger:     "INTEGER",
	FargNominal:     "NOMINAL",
	FargPredicate:   "PREDICATE",
	FargTimeStamp:   "TIME_STAMP",
	FargQuoteString: "QUOTE_STRING",
	FargText:        "TEXT",
	FargUntyped:     "UNTYPED",
}

// String returns the tag as written in debug strings, e.g. "TIME_STAMP".
func (t FargType) String() string {
	if t < 0 || int(t) >= len(fargTypeNames) {
		return fmt.Sprintf("FargType(%d)", int(t))
	}
	return fargTypeNames[t]
}

// ParseFargType is the inverse of FargType.String.
func ParseFargType(s string) (FargType, error) {
	for i, name := range fargTypeNames {
		if name == s {
			return FargType(i), nil
		}
	}
	return FargUndefined, db.Errorf(db.ErrCodeTypeMismatch, "ParseFargType", "unknown formal argument type %q", s)
}

// asInt64 accepts the integer kinds a caller is likely to pass.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
