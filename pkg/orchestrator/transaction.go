package orchestrator

import (
	"errors"

	"github.com/cuemby/rcanvas/pkg/events"
	"github.com/cuemby/rcanvas/pkg/metrics"
	"github.com/cuemby/rcanvas/pkg/session"
	"github.com/cuemby/rcanvas/pkg/types"
)

// handleIdentifiableCommand routes a client's command to its session. A
// command from a connection the orchestrator has no
// session record for is a structural/fatal error: it is disconnected and
// never reaches a session.
func (o *Orchestrator) handleIdentifiableCommand(from types.ConnectionId, cmd types.IdentifiableCommand) {
	sessionID, ok := o.connLocations[from]
	if !ok {
		o.logger().Warn().Uint16("connection_id", uint16(from)).Msg("command from a connection not in any session")
		o.handleDisconnect(from)
		return
	}

	switch cmd.SessionCommand.Kind {
	case types.SessionCommandKindLivePointer:
		o.handleLivePointer(sessionID, from, cmd.SessionCommand.LivePointer)
	case types.SessionCommandKindTransaction:
		o.handleTransaction(sessionID, from, cmd.CommandId, cmd.SessionCommand.Transaction)
	}
}

// handleLivePointer fans a pointer position out to the sender's peers: a
// pure fire-and-forget broadcast, no ack to the sender.
func (o *Orchestrator) handleLivePointer(sessionID types.SessionId, from types.ConnectionId, lp types.LivePointer) {
	o.broadcast(sessionID, types.SessionEvent{
		Kind:         types.SessionEventKindLivePointer,
		ConnectionId: from,
		X:            lp.X,
		Y:            lp.Y,
	}, &from)
}

// handleTransaction dispatches to the session by behavior, then
// ack-before-broadcast on success or nack-to-originator on rollback. The
// ack is always enqueued before the OthersTransaction broadcast within
// this single call.
func (o *Orchestrator) handleTransaction(sessionID types.SessionId, from types.ConnectionId, commandID types.CommandId, tx types.Transaction) {
	sess, ok := o.sessions[sessionID]
	if !ok {
		o.handleDisconnect(from)
		return
	}

	committed, err := sess.HandleTransaction(from, tx)
	outcome := outcomeLabel(committed, err)
	metrics.TransactionsTotal.WithLabelValues(outcome).Inc()
	if err != nil {
		var rb *session.RollbackError
		if errors.As(err, &rb) {
			o.sendByMyself(from, commandID, types.CommandResult{
				Kind: types.CommandResultKindEvent,
				Event: types.SessionEvent{
					Kind:           types.SessionEventKindTransactionNack,
					TransactionId:  rb.TxID,
					RollbackReason: rb.Reason,
				},
			})
			o.activity.Publish(&events.Event{Type: events.EventTransactionRejected, Message: rb.Error()})
		}
		return
	}
	if committed == nil {
		// Queued under a manual-commit session: no ack, no broadcast yet.
		o.activity.Publish(&events.Event{Type: events.EventTransactionQueued, Message: "transaction queued"})
		return
	}

	o.sendByMyself(from, commandID, types.CommandResult{
		Kind: types.CommandResultKindEvent,
		Event: types.SessionEvent{
			Kind:          types.SessionEventKindTransactionAck,
			TransactionId: committed.Tx.Id,
		},
	})
	o.broadcast(sessionID, types.SessionEvent{
		Kind:        types.SessionEventKindOthersTransaction,
		Transaction: committed.Tx,
	}, &from)
	o.activity.Publish(&events.Event{Type: events.EventTransactionCommit, Message: "transaction committed"})
}

func outcomeLabel(committed *session.Committed, err error) string {
	switch {
	case err != nil:
		return "rejected"
	case committed == nil:
		return "queued"
	default:
		return "committed"
	}
}
