package journal

import (
	"context"
	"fmt"

	"github.com/roach88/vocabdb/internal/db"
)

// CorruptionError reports the first record whose stored hash or chain link
// does not match its contents.
type CorruptionError struct {
	Seq    int64
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("journal corrupted at seq %d: %s", e.Seq, e.Reason)
}

// Verify recomputes the hash chain from the first record. It returns the
// number of records checked and a *CorruptionError at the first mismatch.
func (j *Journal) Verify(ctx context.Context) (int, error) {
	records, err := j.Records(ctx, Filter{})
	if err != nil {
		return 0, fmt.Errorf("verify: %w", err)
	}

	prev := ""
	for i, r := range records {
		if r.PrevHash != prev {
			return i, &CorruptionError{Seq: r.Seq, Reason: "chain link does not match previous record"}
		}
		want, err := RecordHash(r)
		if err != nil {
			return i, fmt.Errorf("verify: %w", err)
		}
		if want != r.Hash {
			return i, &CorruptionError{Seq: r.Seq, Reason: "hash does not match contents"}
		}
		prev = r.Hash
	}
	return len(records), nil
}

// Snapshot replays the records of one store up to and including atSeq
// (0 means all) and returns the last recorded state of every element
// still registered at that point, keyed by element ID.
func (j *Journal) Snapshot(ctx context.Context, storeID string, atSeq int64) (map[db.ID]Record, error) {
	records, err := j.Records(ctx, Filter{StoreID: storeID})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	live := make(map[db.ID]Record)
	for _, r := range records {
		if atSeq > 0 && r.Seq > atSeq {
			break
		}
		switch r.Op {
		case db.OpAdd, db.OpReplace:
			live[r.ElementID] = r
		case db.OpRemove:
			delete(live, r.ElementID)
		default:
			return nil, fmt.Errorf("snapshot: unknown op %q at seq %d", r.Op, r.Seq)
		}
	}
	return live, nil
}
