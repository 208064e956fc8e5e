package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/vocabdb/internal/db"
)

// Filter narrows a Records query. Zero fields do not filter.
type Filter struct {
	StoreID   string
	ElementID db.ID
	AfterSeq  int64
	Limit     int
}

// Records returns the records matching f in seq order.
// Returns an empty slice (not nil) if nothing matches.
func (j *Journal) Records(ctx context.Context, f Filter) ([]Record, error) {
	var where []string
	var args []any
	if f.StoreID != "" {
		where = append(where, "store_id = ?")
		args = append(args, f.StoreID)
	}
	if f.ElementID != db.InvalidID {
		where = append(where, "element_id = ?")
		args = append(args, int64(f.ElementID))
	}
	if f.AfterSeq > 0 {
		where = append(where, "seq > ?")
		args = append(args, f.AfterSeq)
	}

	q := `SELECT seq, batch, store_id, op, element_id, type, db_string, prev_hash, hash FROM entries`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY seq ASC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return j.query(ctx, q, args...)
}

// History returns every record for one element of one store.
func (j *Journal) History(ctx context.Context, storeID string, id db.ID) ([]Record, error) {
	if id == db.InvalidID {
		return nil, fmt.Errorf("history: invalid element id")
	}
	return j.Records(ctx, Filter{StoreID: storeID, ElementID: id})
}

// Batch returns the records written by one registry operation.
func (j *Journal) Batch(ctx context.Context, batch int64) ([]Record, error) {
	return j.query(ctx, `
		SELECT seq, batch, store_id, op, element_id, type, db_string, prev_hash, hash
		FROM entries
		WHERE batch = ?
		ORDER BY seq ASC
	`, batch)
}

// StoreSummary describes the records of one store instance.
type StoreSummary struct {
	StoreID  string
	Entries  int64
	Batches  int64
	FirstSeq int64
	LastSeq  int64
}

// Stores lists every store instance in the journal, ordered by first
// appearance.
func (j *Journal) Stores(ctx context.Context) ([]StoreSummary, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT store_id, COUNT(*), COUNT(DISTINCT batch), MIN(seq), MAX(seq)
		FROM entries
		GROUP BY store_id
		ORDER BY MIN(seq) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	out := []StoreSummary{}
	for rows.Next() {
		var s StoreSummary
		if err := rows.Scan(&s.StoreID, &s.Entries, &s.Batches, &s.FirstSeq, &s.LastSeq); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}
	return out, nil
}

// LastSeq returns the highest seq written, or 0 for an empty journal.
func (j *Journal) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := j.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM entries`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq, nil
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var r Record
	var op string
	var id int64
	err := rows.Scan(&r.Seq, &r.Batch, &r.StoreID, &op, &id, &r.Type, &r.DBString, &r.PrevHash, &r.Hash)
	if err != nil {
		return Record{}, fmt.Errorf("scan entry: %w", err)
	}
	r.Op = db.Op(op)
	r.ElementID = db.ID(id)
	return r, nil
}
