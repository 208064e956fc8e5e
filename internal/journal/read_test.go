package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

func TestRecords_Filter(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	d1, m := journaledStore(t, j)
	d2, _ := journaledStore(t, j)

	all, err := j.Records(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	one, err := j.Records(ctx, Filter{StoreID: d1.InstanceID().String()})
	require.NoError(t, err)
	assert.Len(t, one, 3)

	after, err := j.Records(ctx, Filter{AfterSeq: 4})
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, int64(5), after[0].Seq)

	limited, err := j.Records(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := j.Records(ctx, Filter{StoreID: "missing"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	stores, err := j.Stores(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, StoreSummary{StoreID: d1.InstanceID().String(), Entries: 3, Batches: 1, FirstSeq: 1, LastSeq: 3}, stores[0])
	assert.Equal(t, d2.InstanceID().String(), stores[1].StoreID)

	// Rename the matrix: one replace batch covering it and both arguments.
	edit := m.CloneVE()
	require.NoError(t, edit.SetName("observation"))
	require.NoError(t, d1.ReplaceVocabElement(edit))

	hist, err := j.History(ctx, d1.InstanceID().String(), m.ID())
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, db.OpAdd, hist[0].Op)
	assert.Equal(t, db.OpReplace, hist[1].Op)
	assert.Contains(t, hist[1].DBString, "(MatrixVocabElement: 1 observation)")

	_, err = j.History(ctx, "", db.InvalidID)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	journaledStore(t, j)
	journaledStore(t, j)

	n, err := j.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = j.db.Exec(`UPDATE entries SET db_string = '(forged)' WHERE seq = 4`)
	require.NoError(t, err)

	n, err = j.Verify(ctx)
	var ce *CorruptionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, int64(4), ce.Seq)
	assert.Equal(t, 3, n)
}

func TestVerify_BrokenLink(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	journaledStore(t, j)

	_, err := j.db.Exec(`DELETE FROM entries WHERE seq = 2`)
	require.NoError(t, err)

	_, err = j.Verify(ctx)
	var ce *CorruptionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, int64(3), ce.Seq)
}

func TestSnapshot(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	d, m := journaledStore(t, j)
	storeID := d.InstanceID().String()

	p, err := schema.NewPredicateVocabElement(d, "hit")
	require.NoError(t, err)
	_, err = d.AddVocabElement(p)
	require.NoError(t, err)
	require.NoError(t, d.RemoveVocabElement(m.ID()))

	final, err := j.Snapshot(ctx, storeID, 0)
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, p.DBString(), final[p.ID()].DBString)

	early, err := j.Snapshot(ctx, storeID, 3)
	require.NoError(t, err)
	assert.Len(t, early, 3)
	assert.Contains(t, early, m.ID())
}
