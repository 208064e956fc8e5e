// Package db provides the identity layer of vocabdb: the store handle, the
// ID-indexed registry and the vocabulary list.
//
// Every schema and value object embeds Base and is registered exactly once
// through an Index. Registration assigns a store-scoped ID that never changes
// afterwards. Other packages hold IDs, not pointers, and re-resolve through
// the Index on every access so that a Replace can never leave a stale
// reference behind.
//
// # Invariants
//
//   - An element's ID is InvalidID until it passes through Index.Add.
//   - The next ID is strictly greater than every ID ever issued; IDs are never reused.
//   - Every mutation either succeeds completely or returns an *Error and
//     leaves the index, vocabulary list and journal untouched.
//
// # Concurrency
//
// A DB is single-threaded. Callers that share one across goroutines must
// serialise access themselves.
package db
