package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
	"github.com/roach88/vocabdb/internal/value"
)

func TestDetachedDefaults(t *testing.T) {
	f := newFixture(t)
	d := f.d

	iv, err := value.NewIntDataValue(d)
	require.NoError(t, err)
	n, ok := iv.ItsValue()
	assert.True(t, ok)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, db.InvalidID, iv.FargID())
	assert.False(t, iv.SubRange())
	assert.Equal(t, "(IntDataValue (id 0) (itsFargID 0) (itsFargType INTEGER) (itsCellID 0) (itsValue 0) (subRange false))", iv.DBString())

	fv, err := value.NewFloatDataValue(d)
	require.NoError(t, err)
	assert.Equal(t, "(FloatDataValue (id 0) (itsFargID 0) (itsFargType FLOAT) (itsCellID 0) (itsValue 0.0) (subRange false))", fv.DBString())

	nv, err := value.NewNominalDataValue(d)
	require.NoError(t, err)
	assert.False(t, nv.IsSet())
	assert.Nil(t, nv.Value())
	assert.Equal(t, "(NominalDataValue (id 0) (itsFargID 0) (itsFargType NOMINAL) (itsCellID 0) (itsValue <null>) (subRange false))", nv.DBString())

	tv, err := value.NewTimeStampDataValue(d)
	require.NoError(t, err)
	assert.Equal(t, "(60,00:00:00:000)", tv.String())

	uv, err := value.NewUndefinedDataValue(d)
	require.NoError(t, err)
	assert.Equal(t, "<val>", uv.String())
	assert.Equal(t, "(UndefinedDataValue (id 0) (itsFargID 0) (itsFargType UNDEFINED) (itsCellID 0) (itsValue <val>) (subRange false))", uv.DBString())

	_, err = value.NewIntDataValue(nil)
	assert.ErrorIs(t, err, db.ErrNullInput)
}

func TestBind_Rejects(t *testing.T) {
	f := newFixture(t)

	_, err := value.NewIntDataValueFor(f.d, db.InvalidID)
	assert.ErrorIs(t, err, db.ErrUnknownID)
	_, err = value.NewIntDataValueFor(f.d, 9999)
	assert.ErrorIs(t, err, db.ErrUnknownID)

	// A vocabulary element is not a formal argument.
	_, err = value.NewIntDataValueFor(f.d, f.obs.ID())
	assert.ErrorIs(t, err, db.ErrTypeMismatch)

	// Wrong argument kind.
	_, err = value.NewIntDataValueFor(f.d, f.score.ID())
	assert.ErrorIs(t, err, db.ErrTypeMismatch)
	_, err = value.NewNominalDataValueFor(f.d, f.quote.ID())
	assert.ErrorIs(t, err, db.ErrTypeMismatch)

	// Untyped accepts every kind.
	iv, err := value.NewIntDataValueFor(f.d, f.any.ID())
	require.NoError(t, err)
	assert.Equal(t, schema.FargUntyped, iv.FargType())
	iv.SetItsValue(math.MaxInt64)
	n, _ := iv.ItsValue()
	assert.Equal(t, int64(math.MaxInt64), n)
}

func TestIntDataValue_Clamps(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewIntDataValueFor(f.d, f.count.ID())
	require.NoError(t, err)
	assert.True(t, v.SubRange())
	assert.False(t, v.IsSet())
	assert.Equal(t, schema.FargInteger, v.FargType())

	v.SetItsValue(250)
	n, ok := v.ItsValue()
	assert.True(t, ok)
	assert.Equal(t, int64(100), n)
	assert.Equal(t, int64(0), v.CoerceToRange(-5))

	w, err := value.NewIntDataValueWithValue(f.d, f.count.ID(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), w.Value())
	assert.Equal(t, "42", w.String())

	w.Clear()
	assert.Nil(t, w.Value())
	assert.Equal(t, "", w.String())
}

func TestFloatDataValue(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewFloatDataValueWithValue(f.d, f.score.ID(), 7.5)
	require.NoError(t, err)
	got, _ := v.ItsValue()
	assert.Equal(t, 1.0, got)
	assert.Equal(t, "1.0", v.String())

	assert.ErrorIs(t, v.SetItsValue(math.NaN()), db.ErrRangeViolation)
	got, _ = v.ItsValue()
	assert.Equal(t, 1.0, got)

	_, err = value.NewFloatDataValueWithValue(f.d, f.score.ID(), math.NaN())
	assert.ErrorIs(t, err, db.ErrRangeViolation)
}

func TestNominalDataValue_Lenient(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewNominalDataValueWithValue(f.d, f.mood.ID(), "happy")
	require.NoError(t, err)
	assert.True(t, v.SubRange())
	s, ok := v.ItsValue()
	assert.True(t, ok)
	assert.Equal(t, "happy", s)

	// Outside the approved set: unset, not an error.
	require.NoError(t, v.SetItsValue("furious"))
	assert.False(t, v.IsSet())

	w, err := value.NewNominalDataValueWithValue(f.d, f.mood.ID(), "furious")
	require.NoError(t, err)
	assert.False(t, w.IsSet())
	assert.Contains(t, w.DBString(), "(itsValue <null>)")

	c, ok := v.CoerceToRange("sad")
	assert.True(t, ok)
	assert.Equal(t, "sad", c)
	_, ok = v.CoerceToRange("meh")
	assert.False(t, ok)

	// Malformed input is still rejected.
	assert.ErrorIs(t, v.SetItsValue(" padded"), db.ErrNameSyntaxViolation)
	assert.ErrorIs(t, v.SetItsValue(""), db.ErrNullInput)
	_, err = value.NewNominalDataValueWithValue(f.d, f.mood.ID(), "a,b")
	assert.ErrorIs(t, err, db.ErrNameSyntaxViolation)

	free, err := value.NewNominalDataValueWithValue(f.d, f.free.ID(), "anything goes")
	require.NoError(t, err)
	assert.False(t, free.SubRange())
	assert.Equal(t, "anything goes", free.String())
	c, ok = free.CoerceToRange("whatever")
	assert.True(t, ok)
	assert.Equal(t, "whatever", c)
}

func TestBoundValue_ChecksLiveArgument(t *testing.T) {
	f := newFixture(t)

	count, err := value.NewIntDataValueFor(f.d, f.count.ID())
	require.NoError(t, err)
	score, err := value.NewFloatDataValueFor(f.d, f.score.ID())
	require.NoError(t, err)
	mood, err := value.NewNominalDataValueFor(f.d, f.mood.ID())
	require.NoError(t, err)
	event, err := value.NewPredDataValueFor(f.d, f.pred.ID())
	require.NoError(t, err)
	assert.False(t, event.SubRange())

	// In-place edits of the registered arguments.
	require.NoError(t, f.count.SetRange(0, 10))
	require.NoError(t, f.score.SetRange(0, 0.5))
	require.NoError(t, f.mood.DeleteApproved("happy"))
	f.pred.SetSubRange(true)

	count.SetItsValue(90)
	n, _ := count.ItsValue()
	assert.Equal(t, int64(10), n)
	assert.Equal(t, int64(10), count.CoerceToRange(11))

	require.NoError(t, score.SetItsValue(0.9))
	got, _ := score.ItsValue()
	assert.Equal(t, 0.5, got)

	require.NoError(t, mood.SetItsValue("happy"))
	assert.False(t, mood.IsSet())
	_, ok := mood.CoerceToRange("happy")
	assert.False(t, ok)
	fresh, err := value.NewNominalDataValueWithValue(f.d, f.mood.ID(), "happy")
	require.NoError(t, err)
	assert.False(t, fresh.IsSet())

	require.NoError(t, event.SetItsValue(value.Predicate{PredID: f.hit.ID()}))
	assert.False(t, event.IsSet())
	assert.True(t, event.SubRange())
	require.NoError(t, f.pred.AddApproved(f.hit.ID()))
	require.NoError(t, event.SetItsValue(value.Predicate{PredID: f.hit.ID()}))
	assert.Equal(t, "hit()", event.String())
}

func TestBoundValue_ChecksReplacedArgument(t *testing.T) {
	f := newFixture(t)

	// Neither value is registered, so no propagation reaches them.
	count, err := value.NewIntDataValueFor(f.d, f.count.ID())
	require.NoError(t, err)
	mood, err := value.NewNominalDataValueFor(f.d, f.mood.ID())
	require.NoError(t, err)

	edit := f.obs.CloneVE()
	a, ok := edit.FormalArgByName("<count>")
	require.True(t, ok)
	require.NoError(t, a.(*schema.IntFormalArg).SetRange(0, 50))
	a, ok = edit.FormalArgByName("<mood>")
	require.True(t, ok)
	require.NoError(t, a.(*schema.NominalFormalArg).DeleteApproved("sad"))
	require.NoError(t, f.d.ReplaceVocabElement(edit))

	count.SetItsValue(90)
	n, _ := count.ItsValue()
	assert.Equal(t, int64(50), n)

	require.NoError(t, mood.SetItsValue("sad"))
	assert.False(t, mood.IsSet())
	require.NoError(t, mood.SetItsValue("happy"))
	assert.Equal(t, "happy", mood.String())
}

func TestQuoteStringDataValue_RejectsDelimiter(t *testing.T) {
	f := newFixture(t)

	_, err := value.NewQuoteStringDataValueWithValue(f.d, f.quote.ID(), "invalid \" string")
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNameSyntaxViolation)

	v, err := value.NewQuoteStringDataValueWithValue(f.d, f.quote.ID(), "a fine (string), isn't it")
	require.NoError(t, err)
	assert.Equal(t, `"a fine (string), isn't it"`, v.String())
	assert.ErrorIs(t, v.SetItsValue(`say "no"`), db.ErrNameSyntaxViolation)
	s, _ := v.ItsValue()
	assert.Equal(t, "a fine (string), isn't it", s)

	// Also rejected when bound to an untyped argument.
	_, err = value.NewQuoteStringDataValueWithValue(f.d, f.any.ID(), "x\"y")
	assert.ErrorIs(t, err, db.ErrNameSyntaxViolation)
}

func TestTextStringDataValue(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewTextStringDataValueWithValue(f.d, f.note.ID(), "line one\nline \"two\"")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline \"two\"", v.String())
	require.NoError(t, v.SetItsValue(""))
	assert.True(t, v.IsSet())
	assert.ErrorIs(t, v.SetItsValue("bell\a"), db.ErrNameSyntaxViolation)
}

func TestTimeStampDataValue_Clamps(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewTimeStampDataValueWithValue(f.d, f.onset.ID(), schema.TimeStamp{TPS: 60, Ticks: 6000})
	require.NoError(t, err)
	ts, ok := v.ItsValue()
	assert.True(t, ok)
	assert.Equal(t, schema.TimeStamp{TPS: 60, Ticks: 600}, ts)

	require.NoError(t, v.SetItsValue(schema.TimeStamp{TPS: 1000, Ticks: 2500}))
	assert.Equal(t, "(1000,00:00:02:500)", v.String())

	assert.ErrorIs(t, v.SetItsValue(schema.TimeStamp{}), db.ErrRangeViolation)
}

func TestPredDataValue(t *testing.T) {
	f := newFixture(t)

	who, err := value.NewIntDataValueWithValue(f.d, f.hitWho.ID(), 3)
	require.NoError(t, err)
	how, err := value.NewNominalDataValueWithValue(f.d, f.hitMood.ID(), "hard")
	require.NoError(t, err)

	v, err := value.NewPredDataValueWithValue(f.d, f.pred.ID(), value.Predicate{
		PredID: f.hit.ID(),
		Args:   []value.DataValue{who, how},
	})
	require.NoError(t, err)
	assert.Equal(t, "hit(3, hard)", v.String())

	// Mutating an argument after the fact does not reach the stored copy.
	who.SetItsValue(4)
	assert.Equal(t, "hit(3, hard)", v.String())

	err = v.SetItsValue(value.Predicate{PredID: f.hit.ID(), Args: []value.DataValue{who}})
	assert.ErrorIs(t, err, db.ErrRangeViolation)
	err = v.SetItsValue(value.Predicate{PredID: f.hit.ID(), Args: []value.DataValue{how, who}})
	assert.ErrorIs(t, err, db.ErrTypeMismatch)
	err = v.SetItsValue(value.Predicate{PredID: f.obs.ID()})
	assert.ErrorIs(t, err, db.ErrTypeMismatch)
	err = v.SetItsValue(value.Predicate{})
	assert.ErrorIs(t, err, db.ErrNullInput)

	// Sub-ranged argument without hit approved: lenient unset.
	f.pred.SetSubRange(true)
	sub, err := value.NewPredDataValueWithValue(f.d, f.pred.ID(), value.Predicate{PredID: f.hit.ID()})
	require.NoError(t, err)
	assert.False(t, sub.IsSet())
	require.NoError(t, f.pred.AddApproved(f.hit.ID()))
	sub, err = value.NewPredDataValueWithValue(f.d, f.pred.ID(), value.Predicate{PredID: f.hit.ID()})
	require.NoError(t, err)
	assert.Equal(t, "hit()", sub.String())
}

func TestUndefinedDataValueFor(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewUndefinedDataValueFor(f.d, f.count.ID())
	require.NoError(t, err)
	assert.Equal(t, "<count>", v.String())
	assert.False(t, v.IsSet())
	assert.Equal(t, schema.FargInteger, v.FargType())
}

func TestSetCellID_WriteOnce(t *testing.T) {
	f := newFixture(t)
	v, err := value.NewIntDataValueFor(f.d, f.count.ID())
	require.NoError(t, err)

	assert.ErrorIs(t, v.SetCellID(db.InvalidID), db.ErrNullInput)
	require.NoError(t, v.SetCellID(77))
	assert.Equal(t, db.ID(77), v.CellID())
	assert.ErrorIs(t, v.SetCellID(78), db.ErrImmutableFieldChange)
	assert.Equal(t, db.ID(77), v.CellID())
}

func TestCopy_Independent(t *testing.T) {
	f := newFixture(t)

	_, err := value.Copy(nil)
	assert.ErrorIs(t, err, db.ErrNullInput)
	var nilValue *value.NominalDataValue
	_, err = value.Copy(nilValue)
	assert.ErrorIs(t, err, db.ErrNullInput)

	b, err := value.NewNominalDataValueWithValue(f.d, f.mood.ID(), "happy")
	require.NoError(t, err)
	require.NoError(t, b.SetCellID(12))
	_, err = f.d.Index().Add(b)
	require.NoError(t, err)

	cv, err := value.Copy(b)
	require.NoError(t, err)
	c := cv.(*value.NominalDataValue)

	assert.Equal(t, b.ID(), c.ID())
	assert.NotEqual(t, db.InvalidID, c.ID())
	assert.Equal(t, b.FargID(), c.FargID())
	assert.Equal(t, b.FargType(), c.FargType())
	assert.Equal(t, b.SubRange(), c.SubRange())
	assert.Equal(t, b.DBString(), c.DBString())

	require.NoError(t, c.SetItsValue("sad"))
	s, _ := b.ItsValue()
	assert.Equal(t, "happy", s)

	iv, err := value.NewIntDataValueWithValue(f.d, f.count.ID(), 5)
	require.NoError(t, err)
	ic, err := value.Copy(iv)
	require.NoError(t, err)
	ic.Clear()
	assert.True(t, iv.IsSet())
}

func TestDBString_Bound(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewNominalDataValueWithValue(f.d, f.mood.ID(), "sad")
	require.NoError(t, err)
	require.NoError(t, v.SetCellID(40))
	id, err := f.d.Index().Add(v)
	require.NoError(t, err)

	want := "(NominalDataValue (id " + id.String() + ") (itsFargID " + f.mood.ID().String() +
		") (itsFargType NOMINAL) (itsCellID 40) (itsValue sad) (subRange true))"
	assert.Equal(t, want, v.DBString())

	q, err := value.NewQuoteStringDataValueWithValue(f.d, f.quote.ID(), "hi there")
	require.NoError(t, err)
	assert.Contains(t, q.DBString(), `(itsValue "hi there")`)
	assert.Contains(t, q.DBString(), "(itsFargType QUOTE_STRING)")
}
