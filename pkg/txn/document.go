package txn

import (
	"fmt"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

// ErrUnknownTransaction is returned by Finish when the given transaction
// id is not currently pending.
var ErrUnknownTransaction = fmt.Errorf("txn: unknown transaction id")

// Document composes a committed document.Store with a pending Manager and
// presents a single Reader whose resolution order is pending-first,
// base-second. Writes go through Begin/Finish: Begin
// pushes into the pending overlay so the caller observes the new state
// immediately; Finish removes it, applying to the base on commit.
type Document struct {
	base    *document.Store
	pending *Manager
}

// NewDocument wraps an existing base store with a fresh, empty pending
// overlay.
func NewDocument(base *document.Store) *Document {
	return &Document{base: base, pending: NewManager()}
}

func (d *Document) DocumentID() types.ObjectId { return d.base.DocumentID() }

func (d *Document) GetProp(id types.ObjectId, kind types.PropKind) (types.PropValue, bool) {
	if val, found := d.pending.getProp(id, kind); found {
		if val == nil {
			return types.PropValue{}, false
		}
		return *val, true
	}
	return d.base.GetProp(id, kind)
}

func (d *Document) GetObjectKind(id types.ObjectId) (types.ObjectKind, bool) {
	if kind, found := d.pending.getObjectKind(id); found {
		return kind, true
	}
	return d.base.GetObjectKind(id)
}

func (d *Document) IsDeleted(id types.ObjectId) bool {
	if deleted, found := d.pending.isDeleted(id); found {
		return deleted
	}
	return d.base.IsDeleted(id)
}

// IterObjects returns the union of objects known to the base store and
// referenced by any pending transaction.
func (d *Document) IterObjects() []types.ObjectId {
	seen := map[types.ObjectId]struct{}{}
	var out []types.ObjectId
	for _, id := range d.base.IterObjects() {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range d.pending.containingObjects() {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Base returns the underlying committed store, used by callers (pkg/leader,
// pkg/filestore) that need to serialize or inspect the base directly.
func (d *Document) Base() *document.Store { return d.base }

// Begin pushes tx onto the pending overlay. The caller observes its effect
// on every subsequent read immediately.
func (d *Document) Begin(tx types.Transaction) {
	d.pending.Push(tx)
}

// Finish removes tx from the pending overlay. When commit is true its
// mutations are applied to the base store. It returns ErrUnknownTransaction
// if tx.id is not currently pending.
func (d *Document) Finish(id types.TransactionId, commit bool) error {
	tx, ok := d.pending.Remove(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTransaction, id)
	}
	if commit {
		return d.base.Process(tx)
	}
	return nil
}

// GetTx returns a pending transaction by id, used to compute invalidation
// sets while it is still unresolved.
func (d *Document) GetTx(id types.TransactionId) (types.Transaction, bool) {
	return d.pending.Get(id)
}

// PendingLen reports how many transactions are currently pending.
func (d *Document) PendingLen() int { return d.pending.Len() }

// Invert produces the mutation sequence that, applied to the state before
// tx, yields a state equivalent to the post-tx state after re-applying the
// inverse. Every prior-value lookup reads r,
// which must reflect the state immediately before tx is applied.
func Invert(tx types.Transaction, r document.Reader) types.Transaction {
	inverted := make([]types.Mutation, 0, len(tx.Items))
	for _, m := range tx.Items {
		switch m.Kind {
		case types.MutationKindCreateObject:
			inverted = append(inverted, types.DeleteObjectMutation(m.ObjectId))

		case types.MutationKindDeleteObject:
			if kind, ok := r.GetObjectKind(m.ObjectId); ok {
				inverted = append(inverted, types.CreateObjectMutation(m.ObjectId, kind))
			}
			inverted = append(inverted, document.GetAllPropsOfObject(r, m.ObjectId)...)

		case types.MutationKindUpsertProp:
			if prior, ok := r.GetProp(m.ObjectId, m.PropKind); ok {
				v := prior
				inverted = append(inverted, types.UpsertPropMutation(m.ObjectId, m.PropKind, &v))
			} else {
				inverted = append(inverted, types.UpsertPropMutation(m.ObjectId, m.PropKind, nil))
			}
		}
	}
	// Reverse the collected items so the inverse undoes tx's effects in
	// the opposite order they were applied (e.g. a delete's property
	// restores must land before the object's own re-creation is read by
	// anything depending on it, and independently, undoing step N before
	// step N-1 mirrors how the original steps layered on one another).
	for i, j := 0, len(inverted)-1; i < j; i, j = i+1, j-1 {
		inverted[i], inverted[j] = inverted[j], inverted[i]
	}
	return types.Transaction{Id: tx.Id, Items: inverted}
}
