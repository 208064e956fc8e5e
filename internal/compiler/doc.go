// Package compiler builds schema elements from vocabulary definitions
// written in CUE and registers them with a store.
//
// A vocabulary file declares predicates and matrices:
//
//	predicate: hit: {
//		args: [{name: "<who>"}, {name: "<how>", type: "NOMINAL"}]
//	}
//
//	matrix: count: {
//		kind: "INTEGER"
//		system: true
//		args: [{name: "<n>", type: "INTEGER", min: 0, max: 100}]
//	}
//
// Argument fields are name (required), type (a formal argument type name,
// default UNTYPED), hidden, min and max (INTEGER, FLOAT, and TIME_STAMP in
// ticks), subRange and approved (NOMINAL, QUOTE_STRING, and PREDICATE,
// where approved entries are predicate names). A matrix of a single-value
// kind without args gets one argument named <val> of the matching type.
//
// Predicates are registered before matrices, so any PREDICATE argument can
// approve any predicate in the file.
package compiler
