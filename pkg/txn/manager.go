package txn

import (
	"fmt"

	"github.com/cuemby/rcanvas/pkg/types"
)

// Manager is an ordered list of pending transactions, readable as an
// overlay that shadows a committed base. It is read newest-first, items
// newest-first within a transaction, so the most recent pending write
// always wins a lookup.
type Manager struct {
	order []types.TransactionId
	txs   map[types.TransactionId]types.Transaction
}

func NewManager() *Manager {
	return &Manager{txs: map[types.TransactionId]types.Transaction{}}
}

// Push appends tx to the pending list. A duplicate transaction id is a
// programmer error and panics rather than returning a recoverable error;
// ids are freshly generated at every producing site.
func (m *Manager) Push(tx types.Transaction) {
	if _, exists := m.txs[tx.Id]; exists {
		panic(fmt.Sprintf("txn: duplicate transaction id %s", tx.Id))
	}
	m.txs[tx.Id] = tx
	m.order = append(m.order, tx.Id)
}

// Remove drops tx from the pending list, preserving the order of the
// remainder, and reports whether it was present.
func (m *Manager) Remove(id types.TransactionId) (types.Transaction, bool) {
	tx, ok := m.txs[id]
	if !ok {
		return types.Transaction{}, false
	}
	delete(m.txs, id)
	for i, candidate := range m.order {
		if candidate == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return tx, true
}

// Get returns the pending transaction with the given id, if any.
func (m *Manager) Get(id types.TransactionId) (types.Transaction, bool) {
	tx, ok := m.txs[id]
	return tx, ok
}

// Len reports the number of pending transactions.
func (m *Manager) Len() int { return len(m.order) }

// getProp scans newest-first for an UpsertProp mutation matching
// (id, kind). found is true if the pending layer has an opinion at all —
// val is nil when the most recent matching mutation deletes the property.
func (m *Manager) getProp(id types.ObjectId, kind types.PropKind) (val *types.PropValue, found bool) {
	for i := len(m.order) - 1; i >= 0; i-- {
		tx := m.txs[m.order[i]]
		for j := len(tx.Items) - 1; j >= 0; j-- {
			item := tx.Items[j]
			if item.Kind == types.MutationKindUpsertProp && item.ObjectId == id && item.PropKind == kind {
				return item.Value, true
			}
		}
	}
	return nil, false
}

func (m *Manager) getObjectKind(id types.ObjectId) (types.ObjectKind, bool) {
	for i := len(m.order) - 1; i >= 0; i-- {
		tx := m.txs[m.order[i]]
		for j := len(tx.Items) - 1; j >= 0; j-- {
			item := tx.Items[j]
			if item.Kind == types.MutationKindCreateObject && item.ObjectId == id {
				return item.ObjectKind, true
			}
		}
	}
	return 0, false
}

// isDeleted reports whether any pending transaction deletes id. found is
// always the same as the returned bool here: the pending layer either has
// recorded a delete or it has no opinion, never an explicit "not deleted".
func (m *Manager) isDeleted(id types.ObjectId) (deleted bool, found bool) {
	for _, txID := range m.order {
		for _, item := range m.txs[txID].Items {
			if item.Kind == types.MutationKindDeleteObject && item.ObjectId == id {
				return true, true
			}
		}
	}
	return false, false
}

// containingObjects returns every object id referenced by a pending
// mutation, deduplicated.
func (m *Manager) containingObjects() []types.ObjectId {
	seen := map[types.ObjectId]struct{}{}
	var out []types.ObjectId
	for _, txID := range m.order {
		for _, item := range m.txs[txID].Items {
			if _, ok := seen[item.ObjectId]; !ok {
				seen[item.ObjectId] = struct{}{}
				out = append(out, item.ObjectId)
			}
		}
	}
	return out
}
