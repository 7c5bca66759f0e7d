package follower

import (
	"errors"

	"github.com/google/uuid"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/txn"
	"github.com/cuemby/rcanvas/pkg/types"
)

// ErrNothingToUndo / ErrNothingToRedo are returned by Undo/Redo when the
// respective stack is empty.
var (
	ErrNothingToUndo = errors.New("follower: undo stack is empty")
	ErrNothingToRedo = errors.New("follower: redo stack is empty")
)

// Follower is the client-side optimistic replica: a
// transactional document plus undo/redo stacks. Every method that
// produces a transaction to emit returns it alongside the invalidation
// set the host should use to trigger targeted re-renders.
type Follower struct {
	doc  *txn.Document
	undo []types.Transaction
	redo []types.Transaction
}

// New wraps an existing base store as a client follower.
func New(base *document.Store) *Follower {
	return &Follower{doc: txn.NewDocument(base)}
}

// Reader exposes the unified pending-shadows-base reader every command
// conversion and materialization reads through.
func (f *Follower) Reader() document.Reader { return f.doc }

// UndoLen / RedoLen report the current stack depths, used by tests and by
// a host that wants to grey out undo/redo affordances.
func (f *Follower) UndoLen() int { return len(f.undo) }
func (f *Follower) RedoLen() int { return len(f.redo) }

// HandleCommand converts cmd into a transaction, computes and pushes its
// inverse onto the undo stack (clearing redo), begins it locally, and
// returns it for the host to emit to the server — the whole per-command
// pipeline minus the actual network send.
func (f *Follower) HandleCommand(cmd Command) (types.Transaction, []types.ObjectId, error) {
	tx, err := convertCommand(f.doc, cmd)
	if err != nil {
		return types.Transaction{}, nil, err
	}
	inv := txn.Invert(tx, f.doc)
	f.undo = append(f.undo, inv)
	f.redo = nil

	invalidated := InvalidationSet(tx, f.doc)
	f.doc.Begin(tx)
	return tx, invalidated, nil
}

// HandleAck commits a previously begun local transaction once the server
// has acknowledged it.
func (f *Follower) HandleAck(id types.TransactionId) ([]types.ObjectId, error) {
	tx, ok := f.doc.GetTx(id)
	if !ok {
		return nil, nil
	}
	invalidated := InvalidationSet(tx, f.doc)
	if err := f.doc.Finish(id, true); err != nil {
		return nil, err
	}
	return invalidated, nil
}

// HandleNack rolls back a previously begun local transaction the server
// rejected, and drops any undo/redo entries tagged with its id — a
// best-effort cleanup, since the inverse pushed onto the undo stack at
// HandleCommand time no longer corresponds to committed state.
func (f *Follower) HandleNack(id types.TransactionId, reason types.RollbackReason) ([]types.ObjectId, error) {
	tx, ok := f.doc.GetTx(id)
	if !ok {
		return nil, nil
	}
	invalidated := InvalidationSet(tx, f.doc)
	if err := f.doc.Finish(id, false); err != nil {
		return nil, err
	}
	f.undo = dropByID(f.undo, id)
	f.redo = dropByID(f.redo, id)
	return invalidated, nil
}

// HandleTransaction folds in a peer's already-committed edit: begin then
// immediately finish(commit=true), since the server has already validated
// it.
func (f *Follower) HandleTransaction(tx types.Transaction) []types.ObjectId {
	invalidated := InvalidationSet(tx, f.doc)
	f.doc.Begin(tx)
	// A peer's transaction always commits; the server would not have
	// broadcast it otherwise.
	_ = f.doc.Finish(tx.Id, true)
	return invalidated
}

// Undo pops the most recent local edit's inverse, applies it as a new
// local edit, and pushes its own inverse (computed against the
// pre-undo-apply reader) onto the redo stack. The applied transaction
// gets a fresh id: the edit it undoes may still be pending its own ack,
// and two in-flight transactions must never share an id.
func (f *Follower) Undo() (types.Transaction, []types.ObjectId, error) {
	if len(f.undo) == 0 {
		return types.Transaction{}, nil, ErrNothingToUndo
	}
	tx := f.undo[len(f.undo)-1]
	f.undo = f.undo[:len(f.undo)-1]
	tx.Id = uuid.New()

	inv := txn.Invert(tx, f.doc)
	f.redo = append(f.redo, inv)

	invalidated := InvalidationSet(tx, f.doc)
	f.doc.Begin(tx)
	return tx, invalidated, nil
}

// Redo is the mirror of Undo: pop the redo stack, apply, push the new
// inverse onto the undo stack.
func (f *Follower) Redo() (types.Transaction, []types.ObjectId, error) {
	if len(f.redo) == 0 {
		return types.Transaction{}, nil, ErrNothingToRedo
	}
	tx := f.redo[len(f.redo)-1]
	f.redo = f.redo[:len(f.redo)-1]
	tx.Id = uuid.New()

	inv := txn.Invert(tx, f.doc)
	f.undo = append(f.undo, inv)

	invalidated := InvalidationSet(tx, f.doc)
	f.doc.Begin(tx)
	return tx, invalidated, nil
}

func dropByID(stack []types.Transaction, id types.TransactionId) []types.Transaction {
	out := stack[:0]
	for _, tx := range stack {
		if tx.Id != id {
			out = append(out, tx)
		}
	}
	return out
}
