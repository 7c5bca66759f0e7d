/*
Package kernel is the host-facing client API: the one surface a native
UI shell (desktop, mobile, a WASM host) links against to drive a canvas
document without knowing the wire protocol or the replication discipline
underneath it.

It wraps pkg/follower with a JSON-in/bytes-out boundary:

  - PushDocumentCommand takes a JSON-encoded command, applies it locally
    through the follower, and queues the wire-encoded IdentifiableCommand
    the host must send to the server.
  - HandleEventFromServer takes a raw wire frame received from the
    server, decodes it, and folds it into the follower and session state.
  - ConsumePendingIdentifiableCommand / ConsumeInvalidatedObjectIDs /
    ConsumeLivePointerEvents drain the three queues a host polls after
    each call above: outgoing bytes to send, object ids to re-render, and
    peer live-pointer positions to draw.
  - MaterializeDocument / MaterializeObject / MaterializeSession project
    the current reader state into the JSON view records a host renders
    from directly.

Kernel is not safe for concurrent use — a host is expected to drive it
from a single event-processing thread (its UI thread, or one actor),
which matches how pkg/orchestrator is itself single-writer on the server
side.
*/
package kernel
