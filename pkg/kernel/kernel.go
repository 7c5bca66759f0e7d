package kernel

import (
	"fmt"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/follower"
	"github.com/cuemby/rcanvas/pkg/materialize"
	"github.com/cuemby/rcanvas/pkg/types"
	"github.com/cuemby/rcanvas/pkg/wire"
)

// LivePointerEvent is a peer's live cursor position, drained by
// ConsumeLivePointerEvents for the host to draw.
type LivePointerEvent struct {
	ConnectionId types.ConnectionId `json:"connectionId"`
	X            float32            `json:"x"`
	Y            float32            `json:"y"`
}

// Kernel is the host-facing client API: one per open document.
type Kernel struct {
	follower *follower.Follower

	sessionID types.SessionId
	session   types.SessionSnapshot

	commandIDSeq types.CommandId

	pendingCommands [][]byte
	invalidated     []types.ObjectId
	livePointers    []LivePointerEvent
}

// New constructs a Kernel from the wire-encoded Init event a server sends
// on join: session id, session snapshot, and the document snapshot the
// follower's base store is decoded from.
func New(initEvent []byte) (*Kernel, error) {
	ev, err := wire.NewDecoder(initEvent).DecodeIdentifiableEvent()
	if err != nil {
		return nil, fmt.Errorf("kernel: decode init event: %w", err)
	}
	se := ev.SystemEvent
	if ev.Kind == types.IdentifiableEventKindByMyself {
		se = ev.CommandResult.Event
	}
	if se.Kind != types.SessionEventKindInit {
		return nil, fmt.Errorf("kernel: expected Init event, got %d", se.Kind)
	}
	base, err := document.Decode(se.DocumentSnapshot)
	if err != nil {
		return nil, fmt.Errorf("kernel: decode snapshot: %w", err)
	}
	return &Kernel{
		follower:  follower.New(base),
		sessionID: se.SessionId,
		session:   se.SessionSnapshot,
	}, nil
}

func (k *Kernel) nextCommandID() types.CommandId {
	k.commandIDSeq++
	return k.commandIDSeq
}

func (k *Kernel) queueCommand(cmd types.SessionCommand) {
	enc := wire.NewEncoder()
	enc.EncodeIdentifiableCommand(types.IdentifiableCommand{
		CommandId:      k.nextCommandID(),
		SessionCommand: cmd,
	})
	k.pendingCommands = append(k.pendingCommands, enc.Bytes())
}

// PushDocumentCommand decodes a JSON command, applies it optimistically
// through the follower, and queues its wire bytes for the host to send.
func (k *Kernel) PushDocumentCommand(jsonCmd []byte) error {
	cmd, err := parseCommand(jsonCmd)
	if err != nil {
		return err
	}
	tx, invalidated, err := k.follower.HandleCommand(cmd)
	if err != nil {
		return err
	}
	k.invalidated = append(k.invalidated, invalidated...)
	k.queueCommand(types.SessionCommand{Kind: types.SessionCommandKindTransaction, Transaction: tx})
	return nil
}

// PushLivePointer queues a live-pointer update for the host to send.
// Unlike document commands it has no local effect and no ack to wait
// for, so it bypasses the follower entirely.
func (k *Kernel) PushLivePointer(x, y float32) {
	k.queueCommand(types.SessionCommand{
		Kind:        types.SessionCommandKindLivePointer,
		LivePointer: types.LivePointer{X: x, Y: y},
	})
}

// Undo/Redo pop the follower's undo/redo stack, queuing the resulting
// transaction for the host to send just like PushDocumentCommand.
func (k *Kernel) Undo() error { return k.applyStackOp(k.follower.Undo) }
func (k *Kernel) Redo() error { return k.applyStackOp(k.follower.Redo) }

func (k *Kernel) applyStackOp(op func() (types.Transaction, []types.ObjectId, error)) error {
	tx, invalidated, err := op()
	if err != nil {
		return err
	}
	k.invalidated = append(k.invalidated, invalidated...)
	k.queueCommand(types.SessionCommand{Kind: types.SessionCommandKindTransaction, Transaction: tx})
	return nil
}

// HandleEventFromServer decodes a raw wire frame received from the
// server and folds it into the follower, session, and pending queues.
func (k *Kernel) HandleEventFromServer(data []byte) error {
	ev, err := wire.NewDecoder(data).DecodeIdentifiableEvent()
	if err != nil {
		return fmt.Errorf("kernel: decode server event: %w", err)
	}

	switch ev.Kind {
	case types.IdentifiableEventKindByMyself:
		return k.handleOwnResult(ev.CommandResult)
	case types.IdentifiableEventKindBySystem:
		return k.handleSystemEvent(ev.SystemEvent)
	default:
		return nil
	}
}

func (k *Kernel) handleOwnResult(result types.CommandResult) error {
	if result.Kind != types.CommandResultKindEvent {
		return nil
	}
	return k.handleSystemEvent(result.Event)
}

func (k *Kernel) handleSystemEvent(ev types.SessionEvent) error {
	switch ev.Kind {
	case types.SessionEventKindInit:
		k.sessionID = ev.SessionId
		k.session = ev.SessionSnapshot
	case types.SessionEventKindSessionStateChanged:
		k.session = ev.SessionSnapshot
	case types.SessionEventKindLivePointer:
		k.livePointers = append(k.livePointers, LivePointerEvent{
			ConnectionId: ev.ConnectionId, X: ev.X, Y: ev.Y,
		})
	case types.SessionEventKindTransactionAck:
		invalidated, err := k.follower.HandleAck(ev.TransactionId)
		if err != nil {
			return err
		}
		k.invalidated = append(k.invalidated, invalidated...)
	case types.SessionEventKindTransactionNack:
		invalidated, err := k.follower.HandleNack(ev.TransactionId, ev.RollbackReason)
		if err != nil {
			return err
		}
		k.invalidated = append(k.invalidated, invalidated...)
	case types.SessionEventKindOthersTransaction:
		k.invalidated = append(k.invalidated, k.follower.HandleTransaction(ev.Transaction)...)
	case types.SessionEventKindTerminatedBySystem:
		// The host is expected to close its own socket on this event;
		// nothing left here to reconcile locally.
	}
	return nil
}

// ConsumePendingIdentifiableCommand pops the oldest queued outgoing wire
// frame, or reports false if none is queued.
func (k *Kernel) ConsumePendingIdentifiableCommand() ([]byte, bool) {
	if len(k.pendingCommands) == 0 {
		return nil, false
	}
	cmd := k.pendingCommands[0]
	k.pendingCommands = k.pendingCommands[1:]
	return cmd, true
}

// ConsumeInvalidatedObjectIDs drains and returns the set of object ids a
// host should re-render, deduplicated in first-seen order.
func (k *Kernel) ConsumeInvalidatedObjectIDs() []types.ObjectId {
	if len(k.invalidated) == 0 {
		return nil
	}
	seen := make(map[types.ObjectId]struct{}, len(k.invalidated))
	out := make([]types.ObjectId, 0, len(k.invalidated))
	for _, id := range k.invalidated {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	k.invalidated = nil
	return out
}

// ConsumeLivePointerEvents drains and returns every peer live-pointer
// update received since the last call.
func (k *Kernel) ConsumeLivePointerEvents() []LivePointerEvent {
	if len(k.livePointers) == 0 {
		return nil
	}
	out := k.livePointers
	k.livePointers = nil
	return out
}

// MaterializeDocument projects the document root.
func (k *Kernel) MaterializeDocument() materialize.DocumentView {
	return materialize.MaterializeDocument(k.follower.Reader())
}

// MaterializeObject projects a single object by id, for whichever
// concrete kind it is.
func (k *Kernel) MaterializeObject(id types.ObjectId) (any, bool) {
	return materialize.MaterializeObject(k.follower.Reader(), id)
}

// MaterializeSession returns the session snapshot last received from the
// server (the connection roster).
func (k *Kernel) MaterializeSession() types.SessionSnapshot { return k.session }
