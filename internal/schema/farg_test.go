package schema_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

func TestNewFormalArg_NameChecks(t *testing.T) {
	d := newTestDB(t)

	_, err := schema.NewIntFormalArg(d, "")
	assert.ErrorIs(t, err, db.ErrNullInput)
	_, err = schema.NewIntFormalArg(nil, "<a>")
	assert.ErrorIs(t, err, db.ErrNullInput)

	for _, bad := range []string{"a", "<a,b>", " <a>", "<a> ", "<<a>>", "<a b>"} {
		_, err := schema.NewNominalFormalArg(d, bad)
		assert.ErrorIs(t, err, db.ErrNameSyntaxViolation, "%q", bad)
	}

	a := must[*schema.TextStringFormalArg](t)(schema.NewTextStringFormalArg(d, "<a>"))
	require.NoError(t, a.SetName("<renamed>"))
	assert.Equal(t, "<renamed>", a.Name())
	assert.ErrorIs(t, a.SetName("bad name"), db.ErrNameSyntaxViolation)
	assert.Equal(t, "<renamed>", a.Name())
	assert.Equal(t, "<renamed>", a.String())
}

func TestIntFormalArg(t *testing.T) {
	d := newTestDB(t)
	a := must[*schema.IntFormalArg](t)(schema.NewIntFormalArg(d, "<b>"))

	assert.False(t, a.SubRange())
	assert.Equal(t, int64(math.MinInt64), a.Min())
	assert.Equal(t, int64(math.MaxInt64), a.Max())

	ok, err := a.IsValidValue(int64(42))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, a.SetRange(-10, 10))
	assert.True(t, a.SubRange())

	for v, want := range map[any]bool{int64(10): true, int64(11): false, -10: true, 3.5: false, "7": false} {
		ok, err := a.IsValidValue(v)
		require.NoError(t, err)
		assert.Equal(t, want, ok, "%v", v)
	}
	assert.Equal(t, int64(10), a.Clamp(99))
	assert.Equal(t, int64(-10), a.Clamp(-99))

	_, err = a.IsValidValue(nil)
	assert.ErrorIs(t, err, db.ErrNullInput)

	assert.ErrorIs(t, a.SetRange(5, 5), db.ErrRangeViolation)
	assert.Equal(t, int64(-10), a.Min())

	a.SetSubRange(false)
	assert.False(t, a.SubRange())
	assert.Equal(t, int64(math.MaxInt64), a.Max())
}

func TestFloatFormalArg(t *testing.T) {
	d := newTestDB(t)
	a := must[*schema.FloatFormalArg](t)(schema.NewFloatFormalArg(d, "<f>"))

	assert.False(t, a.SubRange())
	ok, _ := a.IsValidValue(math.Inf(1))
	assert.True(t, ok)
	ok, _ = a.IsValidValue(math.NaN())
	assert.False(t, ok)

	require.NoError(t, a.SetRange(0, 1))
	assert.True(t, a.SubRange())
	ok, _ = a.IsValidValue(0.5)
	assert.True(t, ok)
	ok, _ = a.IsValidValue(1.5)
	assert.False(t, ok)
	ok, _ = a.IsValidValue(int64(1))
	assert.False(t, ok)
	assert.Equal(t, 1.0, a.Clamp(7))

	assert.ErrorIs(t, a.SetRange(math.NaN(), 1), db.ErrRangeViolation)
	assert.ErrorIs(t, a.SetRange(2, 1), db.ErrRangeViolation)
}

func TestTimeStampFormalArg(t *testing.T) {
	d := newTestDB(t)
	a := must[*schema.TimeStampFormalArg](t)(schema.NewTimeStampFormalArg(d, "<onset>"))

	assert.False(t, a.SubRange())
	assert.Equal(t, int64(60), a.Min().TPS)

	lo := schema.TimeStamp{TPS: 60, Ticks: 60}
	hi := schema.TimeStamp{TPS: 60, Ticks: 600}
	require.NoError(t, a.SetRange(lo, hi))
	assert.True(t, a.SubRange())

	ok, _ := a.IsValidValue(schema.TimeStamp{TPS: 1000, Ticks: 5000})
	assert.True(t, ok)
	ok, _ = a.IsValidValue(schema.TimeStamp{TPS: 60, Ticks: 0})
	assert.False(t, ok)
	ok, _ = a.IsValidValue(int64(100))
	assert.False(t, ok)
	assert.Equal(t, hi, a.Clamp(schema.TimeStamp{TPS: 60, Ticks: 6000}))

	assert.ErrorIs(t, a.SetRange(hi, lo), db.ErrRangeViolation)
	a.SetSubRange(false)
	assert.False(t, a.SubRange())
}

func TestUnTypedAndTextFormalArg(t *testing.T) {
	d := newTestDB(t)
	u := must[*schema.UnTypedFormalArg](t)(schema.NewUnTypedFormalArg(d, "<any>"))
	txt := must[*schema.TextStringFormalArg](t)(schema.NewTextStringFormalArg(d, "<txt>"))

	for _, v := range []any{int64(1), 2.5, "words", schema.TimeStamp{TPS: 60, Ticks: 1}, db.ID(3)} {
		ok, err := u.IsValidValue(v)
		require.NoError(t, err)
		assert.True(t, ok, "%v", v)
	}
	ok, _ := u.IsValidValue(struct{}{})
	assert.False(t, ok)

	ok, _ = txt.IsValidValue("multi\nline \"quoted\"")
	assert.True(t, ok)
	ok, _ = txt.IsValidValue(int64(1))
	assert.False(t, ok)
	_, err := txt.IsValidValue(nil)
	assert.ErrorIs(t, err, db.ErrNullInput)

	assert.False(t, u.SubRange())
	assert.Equal(t, schema.FargUntyped, u.Type())
	assert.Equal(t, schema.FargText, txt.Type())
}

func TestNominalFormalArg_ApprovedLifecycle(t *testing.T) {
	d := newTestDB(t)
	a := must[*schema.NominalFormalArg](t)(schema.NewNominalFormalArg(d, "<test>"))

	// Without a sub-range every set operation fails.
	assert.ErrorIs(t, a.AddApproved("alpha"), db.ErrRangeViolation)
	_, err := a.ApprovedList()
	assert.ErrorIs(t, err, db.ErrRangeViolation)
	assert.Equal(t, "()", a.ApprovedSetString())

	a.SetSubRange(true)
	assert.True(t, a.SubRange())
	list, err := a.ApprovedList()
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, s := range []string{"charlie", "bravo", "delta"} {
		require.NoError(t, a.AddApproved(s))
	}
	require.NoError(t, a.DeleteApproved("bravo"))
	require.NoError(t, a.AddApproved("alpha"))

	list, err = a.ApprovedList()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "charlie", "delta"}, list)
	assert.Equal(t, "(alpha, charlie, delta)", a.ApprovedSetString())

	ok, err := a.Approved("charlie")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = a.Approved("bravo")
	require.NoError(t, err)
	assert.False(t, ok)

	// Strictly additive, strictly present.
	assert.ErrorIs(t, a.AddApproved("alpha"), db.ErrDuplicateName)
	assert.ErrorIs(t, a.DeleteApproved("bravo"), db.ErrRangeViolation)
	assert.ErrorIs(t, a.AddApproved(""), db.ErrNullInput)
	assert.ErrorIs(t, a.AddApproved(" padded"), db.ErrNameSyntaxViolation)
	_, err = a.Approved("a,b")
	assert.ErrorIs(t, err, db.ErrNameSyntaxViolation)

	valid, err := a.IsValidValue("alpha")
	require.NoError(t, err)
	assert.True(t, valid)
	valid, _ = a.IsValidValue("zulu")
	assert.False(t, valid)

	require.NoError(t, a.DeleteApproved("alpha"))
	require.NoError(t, a.DeleteApproved("charlie"))
	assert.Equal(t, "(delta)", a.ApprovedSetString())
	require.NoError(t, a.DeleteApproved("delta"))
	assert.Equal(t, "()", a.ApprovedSetString())
	list, err = a.ApprovedList()
	require.NoError(t, err)
	assert.Nil(t, list)

	a.SetSubRange(false)
	assert.False(t, a.SubRange())
	assert.ErrorIs(t, a.AddApproved("alpha"), db.ErrRangeViolation)
	assert.ErrorIs(t, a.DeleteApproved("alpha"), db.ErrRangeViolation)
	_, err = a.Approved("alpha")
	assert.ErrorIs(t, err, db.ErrRangeViolation)
	valid, _ = a.IsValidValue("zulu")
	assert.True(t, valid)
}

func TestQuoteStringFormalArg(t *testing.T) {
	d := newTestDB(t)
	a := must[*schema.QuoteStringFormalArg](t)(schema.NewQuoteStringFormalArg(d, "<delta>"))

	ok, err := a.IsValidValue("a (free) form, string")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = a.IsValidValue("invalid \" string")
	assert.False(t, ok)

	a.SetSubRange(true)
	require.NoError(t, a.AddApproved("yes please"))
	assert.ErrorIs(t, a.AddApproved(`say "hi"`), db.ErrNameSyntaxViolation)
	ok, _ = a.IsValidValue("yes please")
	assert.True(t, ok)
	ok, _ = a.IsValidValue("no thanks")
	assert.False(t, ok)
	assert.Equal(t, "(yes please)", a.ApprovedSetString())
}

func TestPredFormalArg(t *testing.T) {
	d := newTestDB(t)
	pred := must[*schema.PredicateVocabElement](t)(schema.NewPredicateVocabElement(d, "hit"))
	require.NoError(t, pred.AppendFormalArg(must[*schema.UnTypedFormalArg](t)(schema.NewUnTypedFormalArg(d, "<who>"))))
	predID, err := d.AddVocabElement(pred)
	require.NoError(t, err)

	mat := must[*schema.MatrixVocabElement](t)(schema.NewMatrixVocabElement(d, "notes"))
	matID, err := d.AddVocabElement(mat)
	require.NoError(t, err)

	a := must[*schema.PredFormalArg](t)(schema.NewPredFormalArg(d, "<p>"))
	ok, err := a.IsValidValue(predID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = a.IsValidValue(matID)
	assert.False(t, ok)
	ok, _ = a.IsValidValue(db.ID(999))
	assert.False(t, ok)

	a.SetSubRange(true)
	assert.ErrorIs(t, a.AddApproved(matID), db.ErrTypeMismatch)
	assert.ErrorIs(t, a.AddApproved(db.ID(999)), db.ErrUnknownID)
	assert.ErrorIs(t, a.AddApproved(db.InvalidID), db.ErrNullInput)

	ok, _ = a.IsValidValue(predID)
	assert.False(t, ok, "not yet approved")
	require.NoError(t, a.AddApproved(predID))
	ok, _ = a.IsValidValue(predID)
	assert.True(t, ok)

	list, err := a.ApprovedList()
	require.NoError(t, err)
	assert.Equal(t, []db.ID{predID}, list)
	assert.Equal(t, "(1)", a.ApprovedSetString())
}

func TestCloneArg_Independent(t *testing.T) {
	d := newTestDB(t)
	a := must[*schema.NominalFormalArg](t)(schema.NewNominalFormalArg(d, "<n>"))
	a.SetSubRange(true)
	require.NoError(t, a.AddApproved("alpha"))

	c := a.CloneArg().(*schema.NominalFormalArg)
	require.NoError(t, c.AddApproved("bravo"))
	require.NoError(t, c.SetName("<m>"))

	assert.Equal(t, "(alpha)", a.ApprovedSetString())
	assert.Equal(t, "(alpha, bravo)", c.ApprovedSetString())
	assert.Equal(t, "<n>", a.Name())
	assert.Equal(t, a.ID(), c.ID())
	assert.Same(t, a.DB(), c.DB())

	i := must[*schema.IntFormalArg](t)(schema.NewIntFormalArg(d, "<i>"))
	require.NoError(t, i.SetRange(0, 5))
	ic := i.CloneArg().(*schema.IntFormalArg)
	ic.SetSubRange(false)
	assert.True(t, i.SubRange())
}
