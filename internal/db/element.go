package db

// Element is the capability shared by every registrable schema and value
// object.
//
// The interface is sealed: the unexported base method is only provided by
// embedding Base, so the index can assign IDs without exposing a setter.
type Element interface {
	// ID returns InvalidID until the element is registered.
	ID() ID

	// DB returns the store the element was constructed against.
	DB() *DB

	// String returns the compact display form.
	String() string

	// DBString returns the canonical debug form.
	DBString() string

	base() *Base
}

// Base carries the identity fields of a registered element. Embed it by value.
type Base struct {
	id             ID
	db             *DB
	lastModifiedBy ID
}

// NewBase binds a fresh, unregistered identity to d.
func NewBase(d *DB) Base {
	return Base{db: d}
}

// ID returns the registry ID, or InvalidID before registration.
func (b *Base) ID() ID { return b.id }

// DB returns the owning store.
func (b *Base) DB() *DB { return b.db }

// LastModifiedBy returns the marker of the last editor, InvalidID if unset.
func (b *Base) LastModifiedBy() ID { return b.lastModifiedBy }

// SetLastModifiedBy records which editor last touched the element.
func (b *Base) SetLastModifiedBy(id ID) { b.lastModifiedBy = id }

func (b *Base) base() *Base { return b }

// CopyBase returns a copy of b carrying the same ID and store. Used by the
// copy constructors of embedding types.
func (b *Base) CopyBase() Base {
	return *b
}
