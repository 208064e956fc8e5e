package journal

import (
	"context"
	"fmt"

	"github.com/roach88/vocabdb/internal/db"
)

// Record is one journaled registry mutation.
type Record struct {
	Seq       int64
	Batch     int64
	StoreID   string
	Op        db.Op
	ElementID db.ID
	Type      string
	DBString  string
	PrevHash  string
	Hash      string
}

// Record implements db.Recorder. All entries are written in one
// transaction under a new batch number; on error nothing is written.
func (j *Journal) Record(entries ...db.Entry) error {
	_, err := j.Append(context.Background(), entries...)
	return err
}

// Append writes entries as one batch and returns the stored records.
func (j *Journal) Append(ctx context.Context, entries ...db.Entry) ([]Record, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("append: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq, batch int64
	var prev string
	err = tx.QueryRowContext(ctx, `
		SELECT
			COALESCE(MAX(seq), 0),
			COALESCE(MAX(batch), 0),
			COALESCE((SELECT hash FROM entries ORDER BY seq DESC LIMIT 1), '')
		FROM entries
	`).Scan(&seq, &batch, &prev)
	if err != nil {
		return nil, fmt.Errorf("append: read head: %w", err)
	}
	batch++

	records := make([]Record, len(entries))
	for i, e := range entries {
		seq++
		r := Record{
			Seq:       seq,
			Batch:     batch,
			StoreID:   e.StoreID,
			Op:        e.Op,
			ElementID: e.ElementID,
			Type:      e.Type,
			DBString:  e.DBString,
			PrevHash:  prev,
		}
		if r.Hash, err = RecordHash(r); err != nil {
			return nil, fmt.Errorf("append: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO entries
			(seq, batch, store_id, op, element_id, type, db_string, prev_hash, hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.Seq,
			r.Batch,
			r.StoreID,
			string(r.Op),
			int64(r.ElementID),
			r.Type,
			r.DBString,
			r.PrevHash,
			r.Hash,
		)
		if err != nil {
			return nil, fmt.Errorf("append: insert seq %d: %w", r.Seq, err)
		}
		records[i] = r
		prev = r.Hash
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("append: commit: %w", err)
	}
	j.logger.Debug("journal batch written", "batch", batch, "entries", len(records), "last_seq", seq)
	return records, nil
}
