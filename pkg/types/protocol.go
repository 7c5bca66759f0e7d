package types

// This file defines the message shapes carried over the wire between a
// client and the server, as described in the wire protocol section of the
// design: an IdentifiableCommand flows client→server, an IdentifiableEvent
// flows server→client. pkg/wire encodes/decodes these deterministically;
// pkg/orchestrator and pkg/kernel are the two ends that produce/consume them.

// SessionCommandKind tags which field of SessionCommand is populated.
type SessionCommandKind uint8

const (
	SessionCommandKindLivePointer SessionCommandKind = iota
	SessionCommandKindTransaction
)

// SessionCommand is a command scoped to a single session: either an
// ephemeral live-pointer update or a document transaction.
type SessionCommand struct {
	Kind        SessionCommandKind
	LivePointer LivePointer
	Transaction Transaction
}

// LivePointer is a participant's live cursor position, broadcast to peers
// but never persisted.
type LivePointer struct {
	X, Y float32
}

// IdentifiableCommand is what a client sends: a session command tagged with
// the CommandId the client will use to match the eventual response.
type IdentifiableCommand struct {
	CommandId      CommandId
	SessionCommand SessionCommand
}

// SessionErrorKind tags which field of SessionError is populated.
type SessionErrorKind uint8

const (
	SessionErrorKindFatal SessionErrorKind = iota
)

// SessionError is returned from a session command that cannot be satisfied.
// FatalError always triggers a disconnect of the offending connection.
type SessionError struct {
	Kind   SessionErrorKind
	Reason string
}

func (e SessionError) Error() string { return e.Reason }

// SessionEventKind tags which field of SessionEvent is populated.
type SessionEventKind uint8

const (
	SessionEventKindInit SessionEventKind = iota
	SessionEventKindLivePointer
	SessionEventKindSessionStateChanged
	SessionEventKindTransactionAck
	SessionEventKindTransactionNack
	SessionEventKindOthersTransaction
	SessionEventKindTerminatedBySystem
)

// SessionEvent is a closed sum type of everything the server can push to a
// connection, either in answer to that connection's own command
// (IdentifiableEvent::ByMyself) or unprompted (IdentifiableEvent::BySystem).
type SessionEvent struct {
	Kind SessionEventKind

	// Init
	SessionId        SessionId
	SessionSnapshot  SessionSnapshot
	DocumentSnapshot []byte

	// LivePointer
	ConnectionId ConnectionId
	X, Y         float32

	// TransactionAck / TransactionNack / OthersTransaction
	TransactionId  TransactionId
	RollbackReason RollbackReason
	Transaction    Transaction
}

// CommandResultKind tags which field of CommandResult is populated.
type CommandResultKind uint8

const (
	CommandResultKindEvent CommandResultKind = iota
	CommandResultKindError
)

// CommandResult answers a specific command: either the SessionEvent it
// produced, or the SessionError that rejected it.
type CommandResult struct {
	Kind  CommandResultKind
	Event SessionEvent
	Error SessionError
}

// IdentifiableEventKind tags which field of IdentifiableEvent is populated.
type IdentifiableEventKind uint8

const (
	IdentifiableEventKindByMyself IdentifiableEventKind = iota
	IdentifiableEventKindBySystem
)

// IdentifiableEvent is what the server sends to a client: either the direct
// answer to one of the client's own commands (ByMyself, correlated by
// CommandId) or an event the system produced unprompted (BySystem, e.g. a
// peer's transaction or a live pointer).
type IdentifiableEvent struct {
	Kind          IdentifiableEventKind
	CommandId     CommandId
	CommandResult CommandResult
	SystemEvent   SessionEvent
}
