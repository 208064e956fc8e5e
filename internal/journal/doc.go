// Package journal provides an append-only SQLite audit log of registry
// mutations.
//
// A Journal implements db.Recorder. Every logical registry operation (a
// vocabulary element registered with its formal arguments, a replace, a
// remove) arrives as one batch and is written in one transaction, so the
// log never holds half an operation.
//
// # Records
//
// Each record carries the store instance, the operation, the element ID and
// concrete type, and the element's canonical debug string. Records are
// ordered by seq, a logical clock local to the journal file. Queries always
// order by seq so reads are deterministic.
//
// # Hash chain
//
// Every record's hash covers its own fields and the hash of the record
// before it: SHA-256 over a domain prefix, a NUL separator and the record's
// canonical JSON (sorted keys, NFC strings, no HTML escaping). Verify walks
// the chain and reports the first record that does not match.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// The journal is an audit trail, not a load format: debug strings are not
// parsed back into elements.
package journal
