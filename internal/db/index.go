package db

import (
	"reflect"
	"slices"
)

// Index is the registry: the sole authority for element identity in a store.
//
// INVARIANTS:
//   - table keys equal the ID of the element stored under them
//   - refs is the inverse of table (element identity -> ID)
//   - next.Peek() is strictly greater than every ID ever issued
type Index struct {
	db    *DB
	next  idCounter
	table map[ID]Element
	refs  map[Element]ID
}

func newIndex(d *DB) *Index {
	return &Index{
		db:    d,
		table: make(map[ID]Element),
		refs:  make(map[Element]ID),
	}
}

// Add registers e, assigns it the next ID and returns that ID.
//
// Add fails if e is nil, belongs to another store, already has an ID, or is
// already stored. If the computed ID is already a key (only possible when the
// counter was corrupted) Add fails with ErrCodeStateInvariantViolation and
// leaves the table unchanged.
func (idx *Index) Add(e Element) (ID, error) {
	ids, err := idx.AddAll(e)
	if err != nil {
		return InvalidID, err
	}
	return ids[0], nil
}

// AddAll registers elems as one batch: either every element is assigned an
// ID, in argument order, or none is.
func (idx *Index) AddAll(elems ...Element) ([]ID, error) {
	const op = "Index.Add"
	if len(elems) == 0 {
		return nil, idx.reject(op, Errorf(ErrCodeNullInput, op, "no elements"))
	}
	ids, err := idx.apply(op, batch{adds: elems})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// batch is a set of index mutations applied atomically.
type batch struct {
	adds     []Element
	replaces []Element
	removes  []ID
}

// apply validates every mutation in b, journals them, then commits. Nothing
// is changed unless every check and the journal write succeed. It returns
// the IDs assigned to b.adds.
func (idx *Index) apply(op string, b batch) ([]ID, error) {
	seen := make(map[Element]bool, len(b.adds)+len(b.replaces))
	for _, e := range b.adds {
		if err := idx.checkAddable(op, e); err != nil {
			return nil, idx.reject(op, err)
		}
		if seen[e] {
			return nil, idx.reject(op, Errorf(ErrCodeDuplicateIdentity, op, "element appears twice in batch"))
		}
		seen[e] = true
	}
	for _, e := range b.replaces {
		if err := idx.checkReplaceable(op, e); err != nil {
			return nil, idx.reject(op, err)
		}
		if seen[e] {
			return nil, idx.reject(op, Errorf(ErrCodeDuplicateIdentity, op, "element appears twice in batch"))
		}
		seen[e] = true
	}
	removed := make(map[ID]bool, len(b.removes))
	for _, id := range b.removes {
		if err := idx.checkRemovable(op, id); err != nil {
			return nil, idx.reject(op, err)
		}
		removed[id] = true
	}
	for _, e := range b.replaces {
		if removed[e.ID()] {
			return nil, idx.reject(op, errorfID(ErrCodeStateInvariantViolation, op, e.ID(),
				"element both replaced and removed"))
		}
	}

	ids := make([]ID, len(b.adds))
	first := idx.next.Peek()
	for i := range b.adds {
		id := first + ID(i)
		if _, taken := idx.table[id]; taken {
			return nil, idx.reject(op, errorfID(ErrCodeStateInvariantViolation, op, id,
				"next id %d already in use", id))
		}
		ids[i] = id
	}

	// IDs are assigned before journaling so the recorded debug strings carry
	// them; a journal failure undoes the assignment.
	for i, e := range b.adds {
		e.base().id = ids[i]
	}
	if err := idx.journal(b); err != nil {
		for _, e := range b.adds {
			e.base().id = InvalidID
		}
		return nil, idx.reject(op, err)
	}

	for _, id := range b.removes {
		idx.commitRemove(id)
	}
	for _, e := range b.replaces {
		idx.commitReplace(e)
	}
	for i, e := range b.adds {
		idx.table[ids[i]] = e
		idx.refs[e] = ids[i]
		idx.next.Next()
		idx.db.logger.Debug("element registered", "id", ids[i], "type", TypeName(e))
	}
	idx.db.metrics.observe(op, nil)
	idx.db.metrics.setElements(len(idx.table))
	return ids, nil
}

func (idx *Index) journal(b batch) error {
	if idx.db.journal == nil {
		return nil
	}
	var entries []Entry
	add := func(op Op, e Element) {
		entries = append(entries, Entry{
			StoreID:   idx.db.instanceID.String(),
			Op:        op,
			ElementID: e.ID(),
			Type:      TypeName(e),
			DBString:  e.DBString(),
		})
	}
	for _, e := range b.adds {
		add(OpAdd, e)
	}
	for _, e := range b.replaces {
		add(OpReplace, e)
	}
	for _, id := range b.removes {
		add(OpRemove, idx.table[id])
	}
	return idx.db.recordEntries(entries)
}

func (idx *Index) checkAddable(op string, e Element) error {
	if isNil(e) {
		return Errorf(ErrCodeNullInput, op, "element is nil")
	}
	if e.DB() != idx.db {
		return Errorf(ErrCodeForeignStore, op, "element belongs to another store")
	}
	if e.ID() != InvalidID {
		return errorfID(ErrCodeAlreadyRegistered, op, e.ID(), "element already has an id")
	}
	if id, ok := idx.refs[e]; ok {
		return errorfID(ErrCodeDuplicateIdentity, op, id, "element already stored")
	}
	return nil
}

// Get returns the element registered under id.
func (idx *Index) Get(id ID) (Element, error) {
	const op = "Index.Get"
	if id == InvalidID {
		return nil, Errorf(ErrCodeUnknownID, op, "invalid id")
	}
	e, ok := idx.table[id]
	if !ok {
		return nil, errorfID(ErrCodeUnknownID, op, id, "id not in index")
	}
	return e, nil
}

// Contains reports whether id is registered. InvalidID is an error, not false.
func (idx *Index) Contains(id ID) (bool, error) {
	if id == InvalidID {
		return false, Errorf(ErrCodeUnknownID, "Index.Contains", "invalid id")
	}
	_, ok := idx.table[id]
	return ok, nil
}

// Replace stores e in place of the element registered under e.ID().
// The stored entry and e must have the same concrete type.
func (idx *Index) Replace(e Element) error {
	_, err := idx.apply("Index.Replace", batch{replaces: []Element{e}})
	return err
}

func (idx *Index) checkReplaceable(op string, e Element) error {
	if isNil(e) {
		return Errorf(ErrCodeNullInput, op, "element is nil")
	}
	id := e.ID()
	if id == InvalidID {
		return Errorf(ErrCodeUnknownID, op, "element has no id")
	}
	old, ok := idx.table[id]
	if !ok {
		return errorfID(ErrCodeUnknownID, op, id, "id not in index")
	}
	if e.DB() != idx.db {
		return errorfID(ErrCodeForeignStore, op, id, "element belongs to another store")
	}
	if reflect.TypeOf(old) != reflect.TypeOf(e) {
		return errorfID(ErrCodeTypeMismatch, op, id, "cannot replace %s with %s", TypeName(old), TypeName(e))
	}
	if other, ok := idx.refs[e]; ok && other != id {
		return errorfID(ErrCodeDuplicateIdentity, op, id, "element already stored under id %d", other)
	}
	return nil
}

func (idx *Index) commitReplace(e Element) {
	id := e.ID()
	delete(idx.refs, idx.table[id])
	idx.table[id] = e
	idx.refs[e] = id
	idx.db.logger.Debug("element replaced", "id", id, "type", TypeName(e))
}

// Remove deletes the entry for id. Dependents are not touched.
func (idx *Index) Remove(id ID) error {
	_, err := idx.apply("Index.Remove", batch{removes: []ID{id}})
	return err
}

func (idx *Index) checkRemovable(op string, id ID) error {
	if id == InvalidID {
		return Errorf(ErrCodeUnknownID, op, "invalid id")
	}
	if _, ok := idx.table[id]; !ok {
		return errorfID(ErrCodeUnknownID, op, id, "id not in index")
	}
	return nil
}

func (idx *Index) commitRemove(id ID) {
	delete(idx.refs, idx.table[id])
	delete(idx.table, id)
	idx.db.logger.Debug("element removed", "id", id)
}

// Len returns the number of registered elements.
func (idx *Index) Len() int {
	return len(idx.table)
}

// NextID returns the ID the next registration will receive.
func (idx *Index) NextID() ID {
	return idx.next.Peek()
}

// IDs returns every registered ID in ascending order.
func (idx *Index) IDs() []ID {
	ids := make([]ID, 0, len(idx.table))
	for id := range idx.table {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Elements returns every registered element in ID order.
func (idx *Index) Elements() []Element {
	ids := idx.IDs()
	out := make([]Element, len(ids))
	for i, id := range ids {
		out[i] = idx.table[id]
	}
	return out
}

func (idx *Index) reject(op string, err error) error {
	idx.db.metrics.observe(op, err)
	idx.db.logger.Debug("index operation rejected", "op", op, "error", err)
	return err
}

// TypeName returns the bare concrete type name of e, e.g. "IntFormalArg".
func TypeName(e Element) string {
	t := reflect.TypeOf(e)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

func isNil(e Element) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
