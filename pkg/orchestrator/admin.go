package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuemby/rcanvas/pkg/events"
	"github.com/cuemby/rcanvas/pkg/session"
	"github.com/cuemby/rcanvas/pkg/types"
)

// adminReply carries whichever admin operation's result back to the
// caller; only the fields relevant to the issued command are populated.
type adminReply struct {
	desc      FileDescription
	sessionID types.SessionId
	err       error
}

type adminCommand struct {
	op     func(o *Orchestrator) adminReply
	replyC chan adminReply
}

func (c *adminCommand) apply(o *Orchestrator) {
	c.replyC <- c.op(o)
}

func (o *Orchestrator) runAdmin(ctx context.Context, op func(o *Orchestrator) adminReply) (adminReply, error) {
	reply := make(chan adminReply, 1)
	cmd := &adminCommand{op: op, replyC: reply}
	select {
	case o.cmdCh <- cmd:
	case <-ctx.Done():
		return adminReply{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return adminReply{}, ctx.Err()
	}
}

// GetSessionState answers an admin query about a file: its live session's
// behavior and pending-queue state if one is open, or a debug rendering of
// its persisted document otherwise.
func (o *Orchestrator) GetSessionState(ctx context.Context, fileID types.FileId) (FileDescription, error) {
	r, err := o.runAdmin(ctx, func(o *Orchestrator) adminReply {
		if sessionID, ok := o.fileSessions[fileID]; ok {
			sess := o.sessions[sessionID]
			return adminReply{desc: FileDescription{
				Kind:          FileDescriptionKindOnline,
				Debug:         fmt.Sprintf("session %d: %d connections, behavior=%v", sessionID, len(sess.Connections()), sess.Behavior),
				Behavior:      sess.Behavior,
				HasPendingTxs: sess.HasPendingTransactions(),
			}}
		}
		if !o.fileStore.Exists(fileID) {
			return adminReply{err: ErrFileNotFound}
		}
		doc, err := o.fileStore.Load(fileID)
		if err != nil {
			return adminReply{err: err}
		}
		return adminReply{desc: FileDescription{
			Kind:  FileDescriptionKindOffline,
			Debug: fmt.Sprintf("document %s: %d objects", doc.DocumentID(), len(doc.IterObjects())),
		}}
	})
	if err != nil {
		return FileDescription{}, err
	}
	return r.desc, r.err
}

// OpenManualCommitSession opens a ManualCommitByAdmin session for fileID.
// It refuses (ErrSessionExists) if a session for the file is already
// open.
func (o *Orchestrator) OpenManualCommitSession(ctx context.Context, fileID types.FileId) (types.SessionId, error) {
	r, err := o.runAdmin(ctx, func(o *Orchestrator) adminReply {
		if _, exists := o.fileSessions[fileID]; exists {
			return adminReply{err: ErrSessionExists}
		}
		doc, err := o.loadOrCreate(fileID)
		if err != nil {
			return adminReply{err: err}
		}
		sessionID := o.nextSessionID()
		o.sessions[sessionID] = session.New(fileID, doc, types.ManualCommitByAdmin)
		o.fileSessions[fileID] = sessionID
		o.recordSessionGauges()
		o.activity.Publish(&events.Event{Type: events.EventSessionOpened, FileID: fileID.String(), Message: "manual-commit session opened"})
		return adminReply{sessionID: sessionID}
	})
	if err != nil {
		return 0, err
	}
	return r.sessionID, r.err
}

// CloseManualCommitSession terminates the manual-commit session open on
// fileID, persisting its document.
func (o *Orchestrator) CloseManualCommitSession(ctx context.Context, fileID types.FileId) error {
	r, err := o.runAdmin(ctx, func(o *Orchestrator) adminReply {
		sessionID, ok := o.fileSessions[fileID]
		if !ok {
			return adminReply{err: ErrFileNotFound}
		}
		o.activity.Publish(&events.Event{Type: events.EventSessionClosed, FileID: fileID.String(), Message: "admin closed manual-commit session"})
		o.terminateSession(sessionID, "admin_closed")
		return adminReply{}
	})
	if err != nil {
		return err
	}
	return r.err
}

// CommitManually commits the head of fileID's manual-commit session
// queue, fanning the result into the regular ack/nack/broadcast paths.
func (o *Orchestrator) CommitManually(ctx context.Context, fileID types.FileId) error {
	r, err := o.runAdmin(ctx, func(o *Orchestrator) adminReply {
		sessionID, ok := o.fileSessions[fileID]
		if !ok {
			return adminReply{err: ErrFileNotFound}
		}
		sess, ok := o.sessions[sessionID]
		if !ok {
			return adminReply{err: ErrFileNotFound}
		}

		committed, cerr := sess.CommitPendingTransaction()
		if cerr != nil {
			var rb *session.RollbackError
			if errors.As(cerr, &rb) {
				o.sendBySystem(rb.From, types.SessionEvent{
					Kind:           types.SessionEventKindTransactionNack,
					TransactionId:  rb.TxID,
					RollbackReason: rb.Reason,
				})
				o.activity.Publish(&events.Event{Type: events.EventTransactionRejected, FileID: fileID.String(), Message: rb.Error()})
				return adminReply{}
			}
			return adminReply{err: cerr}
		}

		o.sendBySystem(committed.From, types.SessionEvent{
			Kind:          types.SessionEventKindTransactionAck,
			TransactionId: committed.Tx.Id,
		})
		o.broadcast(sessionID, types.SessionEvent{
			Kind:        types.SessionEventKindOthersTransaction,
			Transaction: committed.Tx,
		}, &committed.From)
		o.activity.Publish(&events.Event{Type: events.EventTransactionCommit, FileID: fileID.String(), Message: "transaction committed by admin"})
		return adminReply{}
	})
	if err != nil {
		return err
	}
	return r.err
}

// ErrSessionExists is returned by OpenManualCommitSession when a session
// for the file is already open; at most one session may exist per file at
// any time.
var ErrSessionExists = errors.New("orchestrator: a session for this file already exists")
