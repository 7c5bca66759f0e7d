/*
Package transport is the canvas server's outer surface: it terminates
WebSocket connections and exposes the admin HTTP API, translating both
into calls against pkg/orchestrator.

# WebSocket connection lifecycle

	GET /ws/{file_id}

A client opens one WebSocket per file. The handler registers a buffered
egress channel with the orchestrator (Orchestrator.Connect), spawns a
writer goroutine that encodes every ConnectionEvent with pkg/wire and
writes it as a binary frame, and reads binary frames itself, decoding
each into an IdentifiableCommand and forwarding it with Orchestrator.Submit.
Either the read loop exiting (client closed the socket) or the writer
observing a disconnect instruction tears the connection down via
Orchestrator.Disconnect — the adaptation documented in DESIGN.md replacing
a generational sender-drop detector with an explicit teardown call, the
idiomatic shape for Go's error-returning io calls rather than a
channel-closed signal.

# Admin HTTP API

	POST   /admin/documents
	GET    /admin/documents
	GET    /admin/documents/{file_id}
	POST   /admin/documents/{file_id}/session
	POST   /admin/documents/{file_id}/commit
	DELETE /admin/documents/{file_id}/session

These read and mutate session/document state through pkg/orchestrator's
admin methods, and are unauthenticated at this layer; a reverse proxy or
auth middleware sits in front of this package in deployment, the same
posture the health and metrics endpoints take.
*/
package transport
