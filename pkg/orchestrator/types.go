package orchestrator

import (
	"errors"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

// ErrFileNotFound is returned when an operation names a file id with no
// corresponding session and no persisted snapshot.
var ErrFileNotFound = errors.New("orchestrator: no file with that id")

// FileStore is the file-I/O collaborator the orchestrator stays agnostic
// of: it loads a document for a file id that has never been opened this
// run, and persists one on session termination.
// pkg/filestore provides the concrete on-disk implementation.
type FileStore interface {
	Exists(fileID types.FileId) bool
	Load(fileID types.FileId) (*document.Store, error)
	Save(fileID types.FileId, doc *document.Store) error
}

// ConnectionEventKind tags which field of ConnectionEvent is populated.
type ConnectionEventKind uint8

const (
	// ConnectionEventKindConnected is the first event a newly accepted
	// connection receives, carrying the ConnectionId the orchestrator
	// allocated for it.
	ConnectionEventKindConnected ConnectionEventKind = iota
	// ConnectionEventKindIdentifiable carries a wire-level
	// IdentifiableEvent (ByMyself or BySystem) to encode and send.
	ConnectionEventKindIdentifiable
	// ConnectionEventKindDisconnected tells the connection handler to
	// close the socket — sent when Connect could not establish a
	// session. A disconnect the orchestrator forces itself removes the
	// connection's egress channel without sending this event.
	ConnectionEventKindDisconnected
)

// ConnectionEvent is everything the orchestrator can push down a
// connection's egress channel: its own lifecycle notifications plus the
// wire-level events a connection handler forwards verbatim to the socket.
type ConnectionEvent struct {
	Kind         ConnectionEventKind
	ConnectionId types.ConnectionId
	Event        types.IdentifiableEvent
}

// FileDescriptionKind tags which field of FileDescription is populated.
type FileDescriptionKind uint8

const (
	FileDescriptionKindOnline FileDescriptionKind = iota
	FileDescriptionKindOffline
)

// FileDescription answers an admin GetSessionState query: either a live
// session's behavior and queue state, or a debug rendering of the
// persisted-but-not-open document.
type FileDescription struct {
	Kind          FileDescriptionKind
	Debug         string
	Behavior      types.SessionBehavior
	HasPendingTxs bool
}
