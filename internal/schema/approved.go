package schema

import (
	"cmp"
	"slices"

	"github.com/roach88/vocabdb/internal/db"
)

// approvedSet is the sorted, duplicate-free set of values a sub-ranged
// argument accepts.
//
// A nil *approvedSet means the argument is not sub-ranged; every method on
// the owning argument that touches the set fails in that state.
type approvedSet[T cmp.Ordered] struct {
	items []T
}

func (s *approvedSet[T]) contains(v T) bool {
	_, ok := slices.BinarySearch(s.items, v)
	return ok
}

func (s *approvedSet[T]) list() []T {
	if len(s.items) == 0 {
		return nil
	}
	return slices.Clone(s.items)
}

func (s *approvedSet[T]) clone() *approvedSet[T] {
	if s == nil {
		return nil
	}
	return &approvedSet[T]{items: slices.Clone(s.items)}
}

// subRangeSet carries the sub_range flag and its approved set for one
// argument. The set is allocated exactly when sub_range is on.
type subRangeSet[T cmp.Ordered] struct {
	set *approvedSet[T]
}

func (r *subRangeSet[T]) SubRange() bool { return r.set != nil }

func (r *subRangeSet[T]) setSubRange(on bool) {
	switch {
	case on && r.set == nil:
		r.set = &approvedSet[T]{}
	case !on:
		r.set = nil
	}
}

func (r *subRangeSet[T]) require(op string) error {
	if r.set == nil {
		return db.Errorf(db.ErrCodeRangeViolation, op, "argument is not sub-ranged")
	}
	return nil
}

func (r *subRangeSet[T]) add(op string, v T) error {
	if err := r.require(op); err != nil {
		return err
	}
	i, found := slices.BinarySearch(r.set.items, v)
	if found {
		return db.Errorf(db.ErrCodeDuplicateName, op, "%v is already approved", v)
	}
	r.set.items = slices.Insert(r.set.items, i, v)
	return nil
}

func (r *subRangeSet[T]) remove(op string, v T) error {
	if err := r.require(op); err != nil {
		return err
	}
	i, found := slices.BinarySearch(r.set.items, v)
	if !found {
		return db.Errorf(db.ErrCodeRangeViolation, op, "%v is not approved", v)
	}
	r.set.items = slices.Delete(r.set.items, i, i+1)
	return nil
}

func (r *subRangeSet[T]) approved(op string, v T) (bool, error) {
	if err := r.require(op); err != nil {
		return false, err
	}
	return r.set.contains(v), nil
}

func (r *subRangeSet[T]) approvedList(op string) ([]T, error) {
	if err := r.require(op); err != nil {
		return nil, err
	}
	return r.set.list(), nil
}

// permits reports whether v passes the sub-range restriction, which is
// vacuous when sub_range is off.
func (r *subRangeSet[T]) permits(v T) bool {
	return r.set == nil || r.set.contains(v)
}

func (r *subRangeSet[T]) render(f func(T) string) string {
	if r.set == nil {
		return "()"
	}
	return joinStrings(r.set.items, f)
}

func (r *subRangeSet[T]) clone() subRangeSet[T] {
	return subRangeSet[T]{set: r.set.clone()}
}
