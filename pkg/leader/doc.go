// Package leader implements the server-side authoritative document:
// a txn.Document with a single entry point,
// ProcessTransaction, that begins, validates, and commits a transaction in
// one step, returning the (today identity) canonicalized transaction or a
// RollbackReason.
package leader
