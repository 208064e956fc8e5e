package db

import (
	"slices"
)

// VocabEntry is a vocabulary element as seen by the store: a named element
// that owns member elements (its formal arguments).
type VocabEntry interface {
	Element

	// Name returns the element's name; unique within a store.
	Name() string

	// Members returns the owned elements in order.
	Members() []Element

	// BindMembers points every member's back-reference at the element's
	// current ID. Called by the store after registration.
	BindMembers()
}

// SchemaChange describes a committed edit of a registered vocabulary element.
type SchemaChange struct {
	Old      VocabEntry // nil for additions
	New      VocabEntry // nil for removals
	Added    []ID       // member IDs registered by the edit
	Retained []ID       // member IDs present before and after
	Removed  []ID       // member IDs dropped by the edit
}

// SchemaListener is notified after every committed vocabulary edit.
//
// Listeners run after the change is committed and cannot veto it. Errors
// are logged.
type SchemaListener interface {
	VocabElementChanged(change SchemaChange) error
}

// vocabList tracks registered vocabulary elements by ID.
//
// Names are never indexed: every lookup reads the current Name of the
// registered elements, so an element renamed in place is found under its
// new name only. snapshots hold the member IDs as of the last commit, so
// an element edited in place can still be diffed against what was
// registered.
type vocabList struct {
	byID      map[ID]VocabEntry
	snapshots map[ID]vocabSnapshot
}

type vocabSnapshot struct {
	members []ID
}

func newVocabList() *vocabList {
	return &vocabList{
		byID:      make(map[ID]VocabEntry),
		snapshots: make(map[ID]vocabSnapshot),
	}
}

func (l *vocabList) put(ve VocabEntry) {
	var snap vocabSnapshot
	for _, m := range ve.Members() {
		snap.members = append(snap.members, m.ID())
	}
	l.byID[ve.ID()] = ve
	l.snapshots[ve.ID()] = snap
}

func (l *vocabList) drop(id ID) {
	delete(l.byID, id)
	delete(l.snapshots, id)
}

// owner returns the lowest ID among registered elements currently called
// name, ignoring except.
func (l *vocabList) owner(name string, except ID) (ID, bool) {
	found := InvalidID
	for id, ve := range l.byID {
		if id == except || ve.Name() != name {
			continue
		}
		if found == InvalidID || id < found {
			found = id
		}
	}
	return found, found != InvalidID
}

// AddSchemaListener registers l for schema change notifications.
func (d *DB) AddSchemaListener(l SchemaListener) {
	d.listeners = append(d.listeners, l)
}

// AddVocabElement registers ve and all of its members in one batch and
// inserts ve into the vocabulary list.
func (d *DB) AddVocabElement(ve VocabEntry) (ID, error) {
	const op = "DB.AddVocabElement"
	if isNil(ve) {
		return InvalidID, Errorf(ErrCodeNullInput, op, "vocab element is nil")
	}
	if ve.DB() != d {
		return InvalidID, Errorf(ErrCodeForeignStore, op, "vocab element belongs to another store")
	}
	if _, taken := d.vocab.owner(ve.Name(), InvalidID); taken {
		return InvalidID, Errorf(ErrCodeDuplicateName, op, "vocab name %s already in use", ve.Name())
	}

	elems := append([]Element{ve}, ve.Members()...)
	ids, err := d.index.apply(op, batch{adds: elems})
	if err != nil {
		return InvalidID, err
	}
	d.vocab.put(ve)
	ve.BindMembers()

	d.logger.Debug("vocab element added", "id", ids[0], "name", ve.Name(), "members", len(ids)-1)
	d.notify(SchemaChange{New: ve, Added: ids[1:]})
	return ids[0], nil
}

// ReplaceVocabElement commits an edited copy of a registered vocabulary
// element. Members without an ID are registered, members carrying an ID
// must already belong to the element, and members absent from the new
// version are removed from the index.
func (d *DB) ReplaceVocabElement(ve VocabEntry) error {
	const op = "DB.ReplaceVocabElement"
	if isNil(ve) {
		return Errorf(ErrCodeNullInput, op, "vocab element is nil")
	}
	if ve.DB() != d {
		return Errorf(ErrCodeForeignStore, op, "vocab element belongs to another store")
	}
	old, ok := d.vocab.byID[ve.ID()]
	if !ok {
		return errorfID(ErrCodeUnknownID, op, ve.ID(), "not a registered vocab element")
	}
	if _, taken := d.vocab.owner(ve.Name(), ve.ID()); taken {
		return errorfID(ErrCodeDuplicateName, op, ve.ID(), "vocab name %s already in use", ve.Name())
	}

	snap := d.vocab.snapshots[ve.ID()]
	oldMembers := make(map[ID]bool, len(snap.members))
	for _, id := range snap.members {
		oldMembers[id] = true
	}

	var b batch
	var retained []ID
	kept := make(map[ID]bool)
	b.replaces = append(b.replaces, ve)
	for _, m := range ve.Members() {
		switch {
		case isNil(m):
			return Errorf(ErrCodeNullInput, op, "member is nil")
		case m.ID() == InvalidID:
			b.adds = append(b.adds, m)
		case oldMembers[m.ID()]:
			b.replaces = append(b.replaces, m)
			retained = append(retained, m.ID())
			kept[m.ID()] = true
		default:
			return errorfID(ErrCodeTypeMismatch, op, m.ID(), "member does not belong to vocab element %d", ve.ID())
		}
	}
	for _, id := range snap.members {
		if !kept[id] {
			b.removes = append(b.removes, id)
		}
	}

	added, err := d.index.apply(op, b)
	if err != nil {
		return err
	}
	d.vocab.drop(ve.ID())
	d.vocab.put(ve)
	ve.BindMembers()

	d.logger.Debug("vocab element replaced", "id", ve.ID(), "name", ve.Name(),
		"added", len(added), "removed", len(b.removes))
	d.notify(SchemaChange{Old: old, New: ve, Added: added, Retained: retained, Removed: b.removes})
	return nil
}

// RemoveVocabElement removes a vocabulary element and its members from the
// index and the vocabulary list.
func (d *DB) RemoveVocabElement(id ID) error {
	const op = "DB.RemoveVocabElement"
	ve, ok := d.vocab.byID[id]
	if !ok {
		return errorfID(ErrCodeUnknownID, op, id, "not a registered vocab element")
	}
	members := slices.Clone(d.vocab.snapshots[id].members)
	removes := append([]ID{id}, members...)
	if _, err := d.index.apply(op, batch{removes: removes}); err != nil {
		return err
	}
	d.vocab.drop(id)

	d.logger.Debug("vocab element removed", "id", id, "name", ve.Name())
	d.notify(SchemaChange{Old: ve, Removed: members})
	return nil
}

// VocabElement returns the registered vocabulary element with the given ID.
func (d *DB) VocabElement(id ID) (VocabEntry, error) {
	const op = "DB.VocabElement"
	if id == InvalidID {
		return nil, Errorf(ErrCodeUnknownID, op, "invalid id")
	}
	ve, ok := d.vocab.byID[id]
	if !ok {
		return nil, errorfID(ErrCodeUnknownID, op, id, "not a registered vocab element")
	}
	return ve, nil
}

// VocabElementByName returns the registered vocabulary element called name.
func (d *DB) VocabElementByName(name string) (VocabEntry, error) {
	id, ok := d.vocab.owner(NormalizeName(name), InvalidID)
	if !ok {
		return nil, Errorf(ErrCodeUnknownID, "DB.VocabElementByName", "no vocab element named %s", name)
	}
	return d.vocab.byID[id], nil
}

// VocabNameInUse reports whether a vocabulary element called name exists.
func (d *DB) VocabNameInUse(name string) bool {
	_, ok := d.vocab.owner(NormalizeName(name), InvalidID)
	return ok
}

// VocabNameOwner returns the ID of the registered vocabulary element called
// name, other than except. Pass InvalidID to consider every element.
func (d *DB) VocabNameOwner(name string, except ID) (ID, bool) {
	return d.vocab.owner(NormalizeName(name), except)
}

// InVocabList reports whether id names a registered vocabulary element.
func (d *DB) InVocabList(id ID) bool {
	_, ok := d.vocab.byID[id]
	return ok
}

// VocabElements returns every registered vocabulary element in ID order.
func (d *DB) VocabElements() []VocabEntry {
	ids := make([]ID, 0, len(d.vocab.byID))
	for id := range d.vocab.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]VocabEntry, len(ids))
	for i, id := range ids {
		out[i] = d.vocab.byID[id]
	}
	return out
}

func (d *DB) notify(change SchemaChange) {
	for _, l := range d.listeners {
		if err := l.VocabElementChanged(change); err != nil {
			d.logger.Warn("schema listener failed", "error", err)
		}
	}
}
