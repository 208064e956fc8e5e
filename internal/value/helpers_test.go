package value_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// fixture is a store with one registered vocabulary element per argument
// shape the tests bind to.
type fixture struct {
	d       *db.DB
	obs     *schema.MatrixVocabElement
	hit     *schema.PredicateVocabElement
	count   *schema.IntFormalArg
	score   *schema.FloatFormalArg
	mood    *schema.NominalFormalArg
	free    *schema.NominalFormalArg
	quote   *schema.QuoteStringFormalArg
	note    *schema.TextStringFormalArg
	onset   *schema.TimeStampFormalArg
	pred    *schema.PredFormalArg
	any     *schema.UnTypedFormalArg
	hitWho  *schema.UnTypedFormalArg
	hitMood *schema.NominalFormalArg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := db.New(db.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	f := &fixture{d: d}

	f.hit, err = schema.NewPredicateVocabElement(d, "hit")
	require.NoError(t, err)
	f.hitWho, err = schema.NewUnTypedFormalArg(d, "<who>")
	require.NoError(t, err)
	f.hitMood, err = schema.NewNominalFormalArg(d, "<how>")
	require.NoError(t, err)
	require.NoError(t, f.hit.AppendFormalArg(f.hitWho))
	require.NoError(t, f.hit.AppendFormalArg(f.hitMood))
	_, err = d.AddVocabElement(f.hit)
	require.NoError(t, err)

	f.obs, err = schema.NewMatrixVocabElement(d, "obs")
	require.NoError(t, err)
	require.NoError(t, f.obs.SetKind(schema.KindMatrix))

	f.count, err = schema.NewIntFormalArg(d, "<count>")
	require.NoError(t, err)
	require.NoError(t, f.count.SetRange(0, 100))

	f.score, err = schema.NewFloatFormalArg(d, "<score>")
	require.NoError(t, err)
	require.NoError(t, f.score.SetRange(0, 1))

	f.mood, err = schema.NewNominalFormalArg(d, "<mood>")
	require.NoError(t, err)
	f.mood.SetSubRange(true)
	for _, s := range []string{"happy", "sad"} {
		require.NoError(t, f.mood.AddApproved(s))
	}

	f.free, err = schema.NewNominalFormalArg(d, "<free>")
	require.NoError(t, err)

	f.quote, err = schema.NewQuoteStringFormalArg(d, "<delta>")
	require.NoError(t, err)

	f.note, err = schema.NewTextStringFormalArg(d, "<note>")
	require.NoError(t, err)

	f.onset, err = schema.NewTimeStampFormalArg(d, "<onset>")
	require.NoError(t, err)
	require.NoError(t, f.onset.SetRange(schema.TimeStamp{TPS: 60, Ticks: 60}, schema.TimeStamp{TPS: 60, Ticks: 600}))

	f.pred, err = schema.NewPredFormalArg(d, "<event>")
	require.NoError(t, err)

	f.any, err = schema.NewUnTypedFormalArg(d, "<any>")
	require.NoError(t, err)

	for _, a := range []schema.FormalArg{f.count, f.score, f.mood, f.free, f.quote, f.note, f.onset, f.pred, f.any} {
		require.NoError(t, f.obs.AppendFormalArg(a))
	}
	_, err = d.AddVocabElement(f.obs)
	require.NoError(t, err)
	return f
}
