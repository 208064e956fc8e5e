// Package value implements data values: typed values bound by ID to a
// formal argument and, once placed, to a cell.
//
// Each kind has three constructors. NewXxx builds a detached value with the
// kind's default. NewXxxFor binds to a registered formal argument of the
// matching kind (or an untyped argument) and starts unset. NewXxxWithValue
// binds and then sets a value.
//
// A bound value caches only the type tag and sub-range flag of its
// argument. Every write re-resolves the argument through the registry and
// checks the value against its current range or approved set. The value
// already stored is re-checked by UpdateForFargChange; Propagator does this
// for every registered value when a vocabulary element is replaced.
//
// Setting a value outside a sub-range is not an error. Numeric kinds clamp
// into the range; approved-set kinds become unset. Malformed input (a name
// that fails the identifier grammar, a quote string containing '"', NaN) is
// rejected.
package value
