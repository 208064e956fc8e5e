package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
	"github.com/roach88/vocabdb/internal/value"
)

func TestNewFor(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		farg schema.FormalArg
		want string
	}{
		{f.count, "IntDataValue"},
		{f.score, "FloatDataValue"},
		{f.mood, "NominalDataValue"},
		{f.quote, "QuoteStringDataValue"},
		{f.note, "TextStringDataValue"},
		{f.onset, "TimeStampDataValue"},
		{f.pred, "PredDataValue"},
		{f.any, "UndefinedDataValue"},
	}
	for _, tt := range tests {
		t.Run(tt.farg.Name(), func(t *testing.T) {
			v, err := value.NewFor(f.d, tt.farg.ID())
			require.NoError(t, err)
			assert.Equal(t, tt.want, db.TypeName(v))
			assert.Equal(t, tt.farg.ID(), v.FargID())
		})
	}

	_, err := value.NewFor(f.d, f.obs.ID())
	assert.ErrorIs(t, err, db.ErrTypeMismatch)
	_, err = value.NewFor(nil, f.count.ID())
	assert.ErrorIs(t, err, db.ErrNullInput)
}

func TestNewWithValue(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		farg schema.FormalArg
		in   any
		want any
	}{
		{"int", f.count, 7, int64(7)},
		{"int clamped", f.count, int64(700), int64(100)},
		{"float from int", f.score, 1, 1.0},
		{"nominal", f.mood, "sad", "sad"},
		{"quote", f.quote, "hello", "hello"},
		{"text", f.note, "", ""},
		{"ticks", f.onset, 120, schema.TimeStamp{TPS: 60, Ticks: 120}},
		{"pred id", f.pred, f.hit.ID(), value.Predicate{PredID: f.hit.ID()}},
		{"untyped int", f.any, 3, int64(3)},
		{"untyped float", f.any, 2.5, 2.5},
		{"untyped string", f.any, "words", "words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := value.NewWithValue(f.d, tt.farg.ID(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Value())
		})
	}

	untyped, err := value.NewWithValue(f.d, f.any.ID(), "words")
	require.NoError(t, err)
	assert.IsType(t, &value.TextStringDataValue{}, untyped)
	assert.Equal(t, schema.FargUntyped, untyped.FargType())

	_, err = value.NewWithValue(f.d, f.mood.ID(), 5)
	assert.ErrorIs(t, err, db.ErrTypeMismatch)
	_, err = value.NewWithValue(f.d, f.any.ID(), []string{"x"})
	assert.ErrorIs(t, err, db.ErrTypeMismatch)
	_, err = value.NewWithValue(f.d, f.count.ID(), nil)
	assert.ErrorIs(t, err, db.ErrNullInput)
	_, err = value.NewWithValue(f.d, f.quote.ID(), `a "b"`)
	assert.ErrorIs(t, err, db.ErrNameSyntaxViolation)
}
