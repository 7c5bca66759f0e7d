package session

import (
	"errors"
	"fmt"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/leader"
	"github.com/cuemby/rcanvas/pkg/types"
)

// ErrInvalidRequest is returned by CommitPendingTransaction when the
// session is not in ManualCommitByAdmin mode, or its queue is empty.
var ErrInvalidRequest = errors.New("session: invalid request for session state")

// Committed is a transaction that has just been committed to a session's
// leader document: the originating connection (to ack) and the
// canonicalized transaction (to broadcast to everyone else).
type Committed struct {
	From types.ConnectionId
	Tx   types.Transaction
}

// RollbackError reports that a transaction was rejected by the leader: the
// originating connection (to nack) and the rejected transaction's id.
type RollbackError struct {
	From   types.ConnectionId
	TxID   types.TransactionId
	Reason types.RollbackReason
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("session: transaction %s rolled back: %s", e.TxID, e.Reason)
}

type queuedTx struct {
	From types.ConnectionId
	Tx   types.Transaction
}

// Session wraps a server leader, a connection roster, a behavior policy,
// and — in ManualCommitByAdmin mode — a pending-transaction queue.
type Session struct {
	FileID      types.FileId
	Behavior    types.SessionBehavior
	Leader      *leader.Leader
	connections []types.ConnectionId
	pending     []queuedTx
}

// New constructs a session wrapping doc for fileID under the given
// behavior policy.
func New(fileID types.FileId, doc *document.Store, behavior types.SessionBehavior) *Session {
	return &Session{FileID: fileID, Behavior: behavior, Leader: leader.New(doc)}
}

// AddConnection registers a connection as a member of this session.
func (s *Session) AddConnection(id types.ConnectionId) {
	s.connections = append(s.connections, id)
}

// RemoveConnection drops a connection from this session's roster.
func (s *Session) RemoveConnection(id types.ConnectionId) {
	for i, c := range s.connections {
		if c == id {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			return
		}
	}
}

// Connections returns the current roster, in join order.
func (s *Session) Connections() []types.ConnectionId {
	out := make([]types.ConnectionId, len(s.connections))
	copy(out, s.connections)
	return out
}

// Snapshot is the externally visible session state, sent on join and
// broadcast to peers after roster changes.
func (s *Session) Snapshot() types.SessionSnapshot {
	return types.SessionSnapshot{Connections: s.Connections()}
}

// ShouldTerminate reports whether this session is ready to be torn down:
// true iff it is in auto-terminate mode and has no connections left.
func (s *Session) ShouldTerminate() bool {
	return s.Behavior == types.AutoTerminateWhenEmpty && len(s.connections) == 0
}

// HasPendingTransactions reports whether a manual-commit session has
// transactions queued awaiting an admin commit.
func (s *Session) HasPendingTransactions() bool { return len(s.pending) > 0 }

// HandleTransaction dispatches a client's transaction by session
// behavior. AutoTerminateWhenEmpty sessions commit
// immediately and return the result to ack/broadcast or nack. Manual-
// commit sessions enqueue and return (nil, nil): no ack, no nack, no
// broadcast until an admin commits.
func (s *Session) HandleTransaction(from types.ConnectionId, tx types.Transaction) (*Committed, error) {
	switch s.Behavior {
	case types.AutoTerminateWhenEmpty:
		committed, err := s.Leader.ProcessTransaction(tx)
		if err != nil {
			reason, _ := leader.AsRollback(err)
			return nil, &RollbackError{From: from, TxID: tx.Id, Reason: reason}
		}
		return &Committed{From: from, Tx: committed}, nil

	case types.ManualCommitByAdmin:
		s.pending = append(s.pending, queuedTx{From: from, Tx: tx})
		return nil, nil

	default:
		return nil, fmt.Errorf("session: unknown behavior %d", s.Behavior)
	}
}

// CommitPendingTransaction pops the head of a manual-commit session's
// queue and attempts to process it. Success yields a Committed result to
// ack the originator and broadcast to everyone else; failure yields a
// RollbackError to nack the originator. An empty queue, or a session not
// in ManualCommitByAdmin mode, yields ErrInvalidRequest.
func (s *Session) CommitPendingTransaction() (*Committed, error) {
	if s.Behavior != types.ManualCommitByAdmin {
		return nil, ErrInvalidRequest
	}
	if len(s.pending) == 0 {
		return nil, ErrInvalidRequest
	}
	head := s.pending[0]
	s.pending = s.pending[1:]

	committed, err := s.Leader.ProcessTransaction(head.Tx)
	if err != nil {
		reason, _ := leader.AsRollback(err)
		return nil, &RollbackError{From: head.From, TxID: head.Tx.Id, Reason: reason}
	}
	return &Committed{From: head.From, Tx: committed}, nil
}
