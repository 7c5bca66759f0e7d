package leader

import (
	"errors"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/metrics"
	"github.com/cuemby/rcanvas/pkg/txn"
	"github.com/cuemby/rcanvas/pkg/types"
)

// ErrRollback reports that a transaction was rejected. Reason carries the
// wire-level RollbackReason to send back to the originator in a
// TransactionNack.
type ErrRollback struct {
	Reason types.RollbackReason
}

func (e *ErrRollback) Error() string { return e.Reason.String() }

// maxParentDepth bounds the parent-chain walk ProcessTransaction performs
// to detect cycles before committing. A well-formed document's forest
// never needs anywhere near this many hops.
const maxParentDepth = 4096

// Leader is the server-side authoritative document: a txn.Document whose
// only write entry point is ProcessTransaction. It never leaves a
// transaction pending across calls (AutoTerminateWhenEmpty sessions) — a
// ManualCommitByAdmin session instead queues transactions outside the
// leader and calls ProcessTransaction once per admin commit.
type Leader struct {
	doc *txn.Document
}

// New wraps an existing base store as a server leader.
func New(base *document.Store) *Leader {
	return &Leader{doc: txn.NewDocument(base)}
}

// Reader exposes the committed base for snapshotting and materialization.
// A leader never has a transaction pending once ProcessTransaction
// returns, so the base alone is always the leader's complete state between
// calls.
func (l *Leader) Reader() document.Reader { return l.doc.Base() }

// Base returns the underlying committed store.
func (l *Leader) Base() *document.Store { return l.doc.Base() }

// ProcessTransaction begins tx, validates it against the resulting state,
// and commits or rolls back in one step. The returned transaction is the
// canonicalized form to broadcast/ack with; today that is always tx
// unchanged (the return type is reserved for future server-side
// rewriting, e.g. fractional-index renormalization).
func (l *Leader) ProcessTransaction(tx types.Transaction) (types.Transaction, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.TransactionProcessDuration)

	l.doc.Begin(tx)

	if reason, ok := l.findCycle(tx); ok {
		if err := l.doc.Finish(tx.Id, false); err != nil {
			return types.Transaction{}, err
		}
		return types.Transaction{}, &ErrRollback{Reason: reason}
	}

	if err := l.doc.Finish(tx.Id, true); err != nil {
		return types.Transaction{}, err
	}
	return tx, nil
}

// findCycle walks the Parent chain, bounded by maxParentDepth, for every
// object whose Parent property tx touches, reading against the
// already-begun (pending-shadowed) document so the check sees the
// post-transaction state. It reports the first cycle found, if any.
func (l *Leader) findCycle(tx types.Transaction) (types.RollbackReason, bool) {
	for _, m := range tx.Items {
		if m.Kind != types.MutationKindUpsertProp || m.PropKind != types.PropKindParent {
			continue
		}
		if hasCycle(l.doc, m.ObjectId) {
			return types.RollbackReasonCyclicParent, true
		}
	}
	return 0, false
}

func hasCycle(r document.Reader, start types.ObjectId) bool {
	cur := start
	for i := 0; i < maxParentDepth; i++ {
		if cur == r.DocumentID() {
			return false
		}
		parent, ok := document.GetReferenceProp(r, cur, types.PropKindParent)
		if !ok {
			return false
		}
		if parent == start {
			return true
		}
		cur = parent
	}
	return true
}

// AsRollback extracts the RollbackReason from err, if it is an ErrRollback.
func AsRollback(err error) (types.RollbackReason, bool) {
	var rb *ErrRollback
	if errors.As(err, &rb) {
		return rb.Reason, true
	}
	return 0, false
}
