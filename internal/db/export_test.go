package db

// SetNextID forces the ID the next registration will receive. Used to
// simulate counter corruption.
func (idx *Index) SetNextID(id ID) { idx.next.reset(id) }

// ClearID drops e's registry ID without touching the index, so the same
// object can be offered to Add a second time.
func ClearID(e Element) { e.base().id = InvalidID }
