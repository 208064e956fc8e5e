package schema

import (
	"cmp"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/roach88/vocabdb/internal/db"
)

// FormatFloat renders f the way debug strings expect: at least one
// fractional digit ("1.0"), scientific notation outside [1e-3, 1e7)
// ("1.0E10"), and "Infinity"/"-Infinity"/"NaN" for the special values.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	if abs := math.Abs(f); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'E', -1, 64), "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(e)
}

// TimeStamp is a non-negative tick count at a given resolution.
type TimeStamp struct {
	TPS   int64 // ticks per second, > 0
	Ticks int64 // >= 0
}

// NewTimeStamp validates and builds a TimeStamp.
func NewTimeStamp(tps, ticks int64) (TimeStamp, error) {
	const op = "NewTimeStamp"
	if tps <= 0 {
		return TimeStamp{}, db.Errorf(db.ErrCodeRangeViolation, op, "ticks per second must be positive, got %d", tps)
	}
	if ticks < 0 {
		return TimeStamp{}, db.Errorf(db.ErrCodeRangeViolation, op, "ticks must be non-negative, got %d", ticks)
	}
	return TimeStamp{TPS: tps, Ticks: ticks}, nil
}

// Valid reports whether t could have been built by NewTimeStamp.
func (t TimeStamp) Valid() bool {
	return t.TPS > 0 && t.Ticks >= 0
}

// Compare orders time stamps by elapsed time regardless of resolution.
func (t TimeStamp) Compare(o TimeStamp) int {
	ah, al := bits.Mul64(uint64(t.Ticks), uint64(o.TPS))
	bh, bl := bits.Mul64(uint64(o.Ticks), uint64(t.TPS))
	if ah != bh {
		return cmp.Compare(ah, bh)
	}
	return cmp.Compare(al, bl)
}

// String renders (tps,HH:MM:SS:mmm).
func (t TimeStamp) String() string {
	if !t.Valid() {
		return fmt.Sprintf("(%d,invalid:%d)", t.TPS, t.Ticks)
	}
	secs := t.Ticks / t.TPS
	hi, lo := bits.Mul64(uint64(t.Ticks%t.TPS), 1000)
	millis, _ := bits.Div64(hi, lo, uint64(t.TPS))
	return fmt.Sprintf("(%d,%02d:%02d:%02d:%03d)", t.TPS, secs/3600, secs/60%60, secs%60, millis)
}

func joinStrings[T any](items []T, render func(T) string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = render(it)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
