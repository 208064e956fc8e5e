package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/schema"
	"github.com/roach88/vocabdb/internal/value"
)

func TestPropagator_ReplaceVocabElement(t *testing.T) {
	f := newFixture(t)
	value.NewPropagator(f.d)

	count, err := value.NewIntDataValueWithValue(f.d, f.count.ID(), 80)
	require.NoError(t, err)
	mood, err := value.NewNominalDataValueWithValue(f.d, f.mood.ID(), "sad")
	require.NoError(t, err)
	note, err := value.NewTextStringDataValueWithValue(f.d, f.note.ID(), "kept")
	require.NoError(t, err)
	for _, v := range []value.DataValue{count, mood, note} {
		_, err := f.d.Index().Add(v)
		require.NoError(t, err)
	}
	loose, err := value.NewIntDataValueWithValue(f.d, f.count.ID(), 80)
	require.NoError(t, err)

	edit := f.obs.CloneVE()
	a, ok := edit.FormalArgByName("<count>")
	require.True(t, ok)
	require.NoError(t, a.(*schema.IntFormalArg).SetRange(0, 50))
	a, ok = edit.FormalArgByName("<mood>")
	require.True(t, ok)
	require.NoError(t, a.(*schema.NominalFormalArg).DeleteApproved("sad"))
	require.NoError(t, edit.DeleteFormalArg(5)) // <note>

	require.NoError(t, f.d.ReplaceVocabElement(edit))

	n, ok := count.ItsValue()
	assert.True(t, ok)
	assert.Equal(t, int64(50), n)
	assert.False(t, mood.IsSet())
	assert.Equal(t, "kept", note.String())

	// An unregistered value is checked against the edited argument on its
	// next write.
	loose.SetItsValue(80)
	n, _ = loose.ItsValue()
	assert.Equal(t, int64(50), n)

	// The refreshed value is what the index holds.
	got, err := f.d.Index().Get(count.ID())
	require.NoError(t, err)
	assert.Contains(t, got.DBString(), "(itsValue 50)")
}

func TestPropagator_UpdateRejectsWrongArgument(t *testing.T) {
	f := newFixture(t)

	v, err := value.NewIntDataValueWithValue(f.d, f.count.ID(), 5)
	require.NoError(t, err)
	assert.Error(t, v.UpdateForFargChange(f.score))
	assert.Error(t, v.UpdateForFargChange(nil))

	w, err := value.NewUndefinedDataValueFor(f.d, f.count.ID())
	require.NoError(t, err)
	edit := f.obs.CloneVE()
	a, _ := edit.FormalArgByName("<count>")
	require.NoError(t, a.SetName("<total>"))
	require.NoError(t, w.UpdateForFargChange(a))
	assert.Equal(t, "<total>", w.String())
}
