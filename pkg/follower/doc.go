// Package follower implements the client-side optimistic replica:
// a txn.Document plus undo/redo stacks. It is the one place
// high-level host intent (CreateOval, UpdateParent, DeleteObject, …)
// becomes low-level Transaction mutations, and the one place peer and
// server responses (ack, nack, a peer's already-committed transaction) are
// folded back into local state.
package follower
