package db

import "strconv"

// ID identifies a registered element within one store.
type ID int64

// InvalidID is the ID of every element that has not been registered.
const InvalidID ID = 0

// String renders the ID as a plain decimal, as used in debug strings.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// idCounter issues registry IDs.
//
// The counter holds the last issued value, so the first Next() returns 1.
// Peek reports the value Next would return without consuming it; the index
// uses it to check for collisions before committing a registration. A DB
// is single-threaded, so the counter is a plain value.
type idCounter struct {
	last int64
}

// Next consumes and returns the next ID.
func (c *idCounter) Next() ID {
	c.last++
	return ID(c.last)
}

// Peek returns the ID the next call to Next will issue.
func (c *idCounter) Peek() ID {
	return ID(c.last + 1)
}

// reset makes Peek return next. Only reachable from tests.
func (c *idCounter) reset(next ID) {
	c.last = int64(next) - 1
}
