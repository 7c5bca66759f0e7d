package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cuemby/rcanvas/pkg/metrics"
	"github.com/cuemby/rcanvas/pkg/orchestrator"
	"github.com/cuemby/rcanvas/pkg/types"
	"github.com/cuemby/rcanvas/pkg/wire"
)

// handleWebSocket upgrades one request to a socket, registers its egress
// channel with the orchestrator, and runs the read loop inline — the
// connection's goroutine lives for exactly as long as this handler does.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(r.PathValue("file_id"))
	if err != nil {
		http.Error(w, "invalid file_id", http.StatusBadRequest)
		return
	}

	// A connect is only valid for a file that exists: a persisted snapshot
	// or a session already open on it (an admin-opened manual session may
	// not have been saved yet). GetSessionState answers exactly that.
	ctx, cancel := timeoutCtx(r)
	defer cancel()
	if _, err := s.orch.GetSessionState(ctx, fileID); err != nil {
		if errors.Is(err, orchestrator.ErrFileNotFound) {
			http.Error(w, "no file with that id", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	egress := make(chan orchestrator.ConnectionEvent, egressChannelCapacity)
	s.orch.Connect(fileID, egress)

	first := <-egress
	if first.Kind == orchestrator.ConnectionEventKindDisconnected {
		_ = conn.Close()
		return
	}
	connID := first.ConnectionId

	done := make(chan struct{})
	go s.writePump(conn, egress, done)
	s.readPump(conn, connID)

	close(done)
	s.orch.Disconnect(connID)
	_ = conn.Close()
}

// readPump blocks decoding binary frames into IdentifiableCommands and
// submitting them, until the client closes the socket or sends a frame
// this server can't decode — at which point the connection is torn down
// rather than left to desync silently.
func (s *Server) readPump(conn *websocket.Conn, connID types.ConnectionId) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		cmd, err := wire.NewDecoder(data).DecodeIdentifiableCommand()
		if err != nil {
			s.logger().Warn().Err(err).Msg("failed to decode client command")
			return
		}
		metrics.CommandsTotal.WithLabelValues(commandKindLabel(cmd)).Inc()
		s.orch.Submit(connID, cmd)
	}
}

// writePump drains egress, encoding every IdentifiableEvent it carries
// and writing it as a single binary frame, until done is closed by the
// read loop exiting.
func (s *Server) writePump(conn *websocket.Conn, egress <-chan orchestrator.ConnectionEvent, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	// Closing the socket on exit makes the read loop fail and return, so
	// a writer that stops also leads to Orchestrator.Disconnect.
	defer conn.Close()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(deadline())
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev := <-egress:
			switch ev.Kind {
			case orchestrator.ConnectionEventKindDisconnected:
				return
			case orchestrator.ConnectionEventKindIdentifiable:
				enc := wire.NewEncoder()
				enc.EncodeIdentifiableEvent(ev.Event)
				_ = conn.SetWriteDeadline(deadline())
				if err := conn.WriteMessage(websocket.BinaryMessage, enc.Bytes()); err != nil {
					return
				}
			}
		}
	}
}

func deadline() time.Time { return time.Now().Add(writeWait) }

func commandKindLabel(cmd types.IdentifiableCommand) string {
	switch cmd.SessionCommand.Kind {
	case types.SessionCommandKindLivePointer:
		return "live_pointer"
	case types.SessionCommandKindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}
