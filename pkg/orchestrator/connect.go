package orchestrator

import (
	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/events"
	"github.com/cuemby/rcanvas/pkg/metrics"
	"github.com/cuemby/rcanvas/pkg/session"
	"github.com/cuemby/rcanvas/pkg/types"
)

// handleConnect loads or creates the file's session, allocates a
// connection id, registers egress, and announces the new connection to
// itself and its new peers.
func (o *Orchestrator) handleConnect(fileID types.FileId, egress chan<- ConnectionEvent) {
	sessionID, ok := o.fileSessions[fileID]
	if !ok {
		doc, err := o.loadOrCreate(fileID)
		if err != nil {
			o.logger().Warn().Err(err).Str("file_id", fileID.String()).Msg("connect: failed to load file")
			egress <- ConnectionEvent{Kind: ConnectionEventKindDisconnected}
			return
		}
		sessionID = o.nextSessionID()
		o.sessions[sessionID] = session.New(fileID, doc, o.defaultBehavior)
		o.fileSessions[fileID] = sessionID
		o.activity.Publish(&events.Event{
			Type:    events.EventSessionOpened,
			FileID:  fileID.String(),
			Message: "session opened",
		})
	}

	sess := o.sessions[sessionID]
	connID := o.nextConnectionID()
	o.connLocations[connID] = sessionID
	o.connEgress[connID] = egress
	sess.AddConnection(connID)
	o.recordSessionGauges()

	snapshot := sess.Leader.Base().Encode()
	egress <- ConnectionEvent{Kind: ConnectionEventKindConnected, ConnectionId: connID}
	o.send(connID, types.IdentifiableEvent{
		Kind: types.IdentifiableEventKindBySystem,
		SystemEvent: types.SessionEvent{
			Kind:             types.SessionEventKindInit,
			SessionId:        sessionID,
			SessionSnapshot:  sess.Snapshot(),
			DocumentSnapshot: snapshot,
		},
	})

	o.broadcast(sessionID, types.SessionEvent{
		Kind:            types.SessionEventKindSessionStateChanged,
		SessionSnapshot: sess.Snapshot(),
	}, &connID)
}

// handleDisconnect removes a connection from its session, then either
// terminates the session (auto mode, roster now empty) or announces the
// shrunken roster to the survivors.
func (o *Orchestrator) handleDisconnect(from types.ConnectionId) {
	delete(o.connEgress, from)
	sessionID, ok := o.connLocations[from]
	if !ok {
		return
	}
	delete(o.connLocations, from)

	sess, ok := o.sessions[sessionID]
	if !ok {
		o.logger().Warn().Uint32("session_id", uint32(sessionID)).Msg("disconnect: session map missing an id connection_locations claimed")
		return
	}
	sess.RemoveConnection(from)
	o.recordSessionGauges()

	if sess.ShouldTerminate() {
		o.terminateSession(sessionID, "empty")
		return
	}
	o.broadcast(sessionID, types.SessionEvent{
		Kind:            types.SessionEventKindSessionStateChanged,
		SessionSnapshot: sess.Snapshot(),
	}, nil)
}

// terminateSession tears a session down. TerminatedBySystem is always
// emitted, to every remaining connection, immediately before the session
// is removed from the map and its document persisted.
func (o *Orchestrator) terminateSession(sessionID types.SessionId, reason string) {
	sess, ok := o.sessions[sessionID]
	if !ok {
		return
	}
	o.broadcast(sessionID, types.SessionEvent{Kind: types.SessionEventKindTerminatedBySystem}, nil)
	timer := metrics.NewTimer()
	if err := o.fileStore.Save(sess.FileID, sess.Leader.Base()); err != nil {
		o.logger().Warn().Err(err).Str("file_id", sess.FileID.String()).Msg("terminate: failed to persist document")
	} else {
		timer.ObserveDuration(metrics.FileSaveDuration)
		o.activity.Publish(&events.Event{Type: events.EventFileSaved, FileID: sess.FileID.String(), Message: "document persisted"})
	}
	delete(o.sessions, sessionID)
	delete(o.fileSessions, sess.FileID)
	o.recordSessionGauges()
	metrics.SessionTerminationsTotal.WithLabelValues(reason).Inc()
	o.activity.Publish(&events.Event{Type: events.EventSessionTerminated, FileID: sess.FileID.String(), Message: "session terminated"})
}

// loadOrCreate reads fileID's persisted document, or creates a fresh
// empty one if it has never been opened.
func (o *Orchestrator) loadOrCreate(fileID types.FileId) (*document.Store, error) {
	if o.fileStore.Exists(fileID) {
		return o.fileStore.Load(fileID)
	}
	return document.New(), nil
}
