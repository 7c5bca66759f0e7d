/*
Package events provides an in-memory activity-event broker for the canvas
server's admin surface.

It is a simple buffered pub/sub broadcaster, independent of the per-session
WebSocket broadcast pkg/orchestrator already does for document collaboration:
where the orchestrator's broadcast delivers SessionEvents to the connections
inside one session, this broker delivers coarser lifecycle notifications
(session opened/closed/terminated, a transaction committed/queued/rejected,
a file saved) to anyone watching server-wide activity — an admin dashboard,
a log tailer, a debugging console.

# Architecture

	┌──────────────────── EVENT BROKER ─────────────────────────┐
	│                                                            │
	│  Publisher (pkg/orchestrator)                             │
	│       │ Publish(&Event{...})                              │
	│       ▼                                                   │
	│  ┌────────────────────────────────────────────┐          │
	│  │              Broker.eventCh                  │          │
	│  │  buffered channel, capacity 100              │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │ run() goroutine                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            broadcast(event)                  │          │
	│  │  fan out to every subscribed channel,        │          │
	│  │  dropping on a full subscriber buffer        │          │
	│  │  rather than blocking the broker             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│           ┌─────────┼─────────┐                           │
	│           ▼         ▼         ▼                           │
	│      Subscriber  Subscriber  Subscriber                   │
	│   (admin SSE handler, log tailer, ...)                    │
	└────────────────────────────────────────────────────────┘

# Event types

Session lifecycle: session.opened, session.closed, session.terminated.
Transaction outcomes: transaction.committed, transaction.queued,
transaction.rejected. Persistence: file.saved.

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			log.Printf("%s: %s", event.Type, event.Message)
		}
	}()

	broker.Publish(&events.Event{
		Type:    events.EventSessionOpened,
		FileID:  fileID.String(),
		Message: "session opened",
	})

# Nil-safety

A nil *Broker is a valid, inert broker: Publish on it is a no-op. This lets
pkg/orchestrator carry an optional *events.Broker field without a presence
check at every call site — a server run without an admin activity feed
configured simply never allocates one.

# Delivery guarantees

Publish is non-blocking per subscriber: a subscriber whose buffer is full
misses the event rather than stalling every other subscriber or the
publisher. This is activity-feed semantics, not an audit log — nothing here
is persisted, and a slow consumer is expected to miss bursts rather than
apply backpressure to the server.
*/
package events
