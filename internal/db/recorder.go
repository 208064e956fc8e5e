package db

// Op names a registry mutation in the journal.
type Op string

const (
	OpAdd     Op = "add"
	OpReplace Op = "replace"
	OpRemove  Op = "remove"
)

// Entry describes one registry mutation for a Recorder.
type Entry struct {
	StoreID   string // DB.InstanceID()
	Op        Op
	ElementID ID
	Type      string // bare concrete type name
	DBString  string // canonical debug form after the mutation (before it, for removes)
}

// Recorder receives registry mutations before they are committed.
//
// Record is called with every entry of one logical operation. Returning an
// error aborts the operation, so a Recorder must write all entries or none.
type Recorder interface {
	Record(entries ...Entry) error
}

func (d *DB) recordEntries(entries []Entry) error {
	if d.journal == nil || len(entries) == 0 {
		return nil
	}
	if err := d.journal.Record(entries...); err != nil {
		return &Error{
			Code:    ErrCodeStateInvariantViolation,
			Op:      "journal",
			Message: "record failed: " + err.Error(),
		}
	}
	return nil
}
