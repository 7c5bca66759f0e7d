package transport

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/cuemby/rcanvas/pkg/filestore"
	"github.com/cuemby/rcanvas/pkg/log"
	"github.com/cuemby/rcanvas/pkg/orchestrator"
)

// egressChannelCapacity bounds the buffered channel each connection
// registers with the orchestrator, mirroring orchestrator.CommandChannelCapacity's
// bound-rather-than-unbounded posture for a single connection's backlog.
const egressChannelCapacity = 64

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Server owns the WebSocket and admin HTTP surfaces for one orchestrator.
type Server struct {
	orch      *orchestrator.Orchestrator
	fileStore *filestore.FileStore
	upgrader  websocket.Upgrader
}

// New constructs a Server. fileStore is used only by the admin surface
// (to answer offline document queries and list known files); the live
// WebSocket path talks to orch exclusively.
func New(orch *orchestrator.Orchestrator, fileStore *filestore.FileStore) *Server {
	return &Server{
		orch:      orch,
		fileStore: fileStore,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// No cross-origin restriction on the collaboration socket;
			// the reverse proxy in front of a deployment is the place to
			// add one, not this package.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the mux serving both the WebSocket and admin routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/{file_id}", s.handleWebSocket)
	mux.HandleFunc("POST /admin/documents", s.handleCreateDocument)
	mux.HandleFunc("GET /admin/documents", s.handleListDocuments)
	mux.HandleFunc("GET /admin/documents/{file_id}", s.handleGetDocument)
	mux.HandleFunc("POST /admin/documents/{file_id}/session", s.handleOpenSession)
	mux.HandleFunc("DELETE /admin/documents/{file_id}/session", s.handleCloseSession)
	mux.HandleFunc("POST /admin/documents/{file_id}/commit", s.handleCommit)
	return mux
}

func (s *Server) logger() *zerolog.Logger {
	l := log.WithComponent("transport")
	return &l
}
