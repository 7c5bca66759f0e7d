// Package txn implements the pending-transaction overlay and the
// transactional document that composes it with a committed document.Store:
// begin/finish, a newest-first layered reader, and transaction inversion
// for undo/redo.
package txn
