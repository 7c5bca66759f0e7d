package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cuemby/rcanvas/pkg/events"
	"github.com/cuemby/rcanvas/pkg/log"
	"github.com/cuemby/rcanvas/pkg/metrics"
	"github.com/cuemby/rcanvas/pkg/session"
	"github.com/cuemby/rcanvas/pkg/types"
)

// CommandChannelCapacity is the bound on the orchestrator's inbound
// command channel.
const CommandChannelCapacity = 256

// Orchestrator is the single-writer server core: it owns
// every open session and the connection roster, and processes exactly one
// command at a time from cmdCh. Every exported method that reaches into
// session state does so only by sending onto cmdCh (or, for admin calls,
// by sending and blocking on a reply channel) — never by touching the
// maps below directly from another goroutine.
type Orchestrator struct {
	cmdCh     chan command
	fileStore FileStore

	connIDSeq     uint32
	connLocations map[types.ConnectionId]types.SessionId
	connEgress    map[types.ConnectionId]chan<- ConnectionEvent

	sessionIDSeq uint32
	sessions     map[types.SessionId]*session.Session
	fileSessions map[types.FileId]types.SessionId

	defaultBehavior types.SessionBehavior
	activity        *events.Broker
}

// New constructs an Orchestrator backed by the given file store. Call Run
// in its own goroutine to start processing commands.
func New(fileStore FileStore) *Orchestrator {
	return &Orchestrator{
		cmdCh:         make(chan command, CommandChannelCapacity),
		fileStore:     fileStore,
		connLocations: map[types.ConnectionId]types.SessionId{},
		connEgress:    map[types.ConnectionId]chan<- ConnectionEvent{},
		sessions:      map[types.SessionId]*session.Session{},
		fileSessions:  map[types.FileId]types.SessionId{},

		defaultBehavior: types.AutoTerminateWhenEmpty,
	}
}

// WithDefaultBehavior sets the behavior given to sessions created by a
// plain client connect (admin-opened sessions are always manual-commit).
// The server's config file chooses this; the default is auto-terminate.
func (o *Orchestrator) WithDefaultBehavior(b types.SessionBehavior) *Orchestrator {
	o.defaultBehavior = b
	return o
}

// WithActivityBroker attaches an activity-event broker that lifecycle and
// transaction events are published to, for an admin activity feed. Passing
// nil (the default if this is never called) disables the feed; Publish on
// a nil *events.Broker is itself a no-op, so no call site needs a presence
// check.
func (o *Orchestrator) WithActivityBroker(b *events.Broker) *Orchestrator {
	o.activity = b
	return o
}

// Run drains cmdCh until ctx is canceled. It is meant to be started once,
// as the sole goroutine that ever mutates Orchestrator's session state.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-o.cmdCh:
			cmd.apply(o)
		}
	}
}

func (o *Orchestrator) nextConnectionID() types.ConnectionId {
	o.connIDSeq++
	return types.ConnectionId(o.connIDSeq)
}

func (o *Orchestrator) nextSessionID() types.SessionId {
	o.sessionIDSeq++
	return types.SessionId(o.sessionIDSeq)
}

// sendByMyself delivers ev as the direct answer to connID's own command,
// correlated by commandID.
func (o *Orchestrator) sendByMyself(connID types.ConnectionId, commandID types.CommandId, result types.CommandResult) {
	o.send(connID, types.IdentifiableEvent{
		Kind:          types.IdentifiableEventKindByMyself,
		CommandId:     commandID,
		CommandResult: result,
	})
}

// sendBySystem delivers an unprompted event to connID.
func (o *Orchestrator) sendBySystem(connID types.ConnectionId, ev types.SessionEvent) {
	o.send(connID, types.IdentifiableEvent{
		Kind:        types.IdentifiableEventKindBySystem,
		SystemEvent: ev,
	})
}

// send pushes ev down connID's registered egress channel. A full channel
// blocks the orchestrator loop — a deliberate suspension point rather
// than a bug: backpressure is the point, and a
// connection slow enough to matter is expected to be disconnected by its
// own handler before it does real damage.
func (o *Orchestrator) send(connID types.ConnectionId, ev types.IdentifiableEvent) {
	ch, ok := o.connEgress[connID]
	if !ok {
		return
	}
	ch <- ConnectionEvent{Kind: ConnectionEventKindIdentifiable, Event: ev}
}

// broadcast delivers ev to every current connection of session, except
// exclude when it is non-nil.
func (o *Orchestrator) broadcast(sessionID types.SessionId, ev types.SessionEvent, exclude *types.ConnectionId) {
	sess, ok := o.sessions[sessionID]
	if !ok {
		return
	}
	for _, connID := range sess.Connections() {
		if exclude != nil && connID == *exclude {
			continue
		}
		o.sendBySystem(connID, ev)
	}
}

func (o *Orchestrator) logger() *zerolog.Logger {
	l := log.WithComponent("orchestrator")
	return &l
}

func (o *Orchestrator) recordSessionGauges() {
	metrics.SessionsActive.Set(float64(len(o.sessions)))
	metrics.ConnectionsActive.Set(float64(len(o.connLocations)))
}
