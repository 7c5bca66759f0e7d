// Package orchestrator implements the single-writer server core: one
// goroutine owns every session's mutable state and
// processes commands from a bounded channel — connection lifecycle,
// client transactions, live pointers, and admin operations — so that no
// session data is ever touched outside this one loop.
//
// A connection handler (pkg/transport) is the only other party allowed to
// talk to an Orchestrator: it submits commands with Connect/Disconnect/
// Submit and receives ConnectionEvents on the channel it registered at
// Connect time. Admin HTTP handlers call the synchronous GetSessionState/
// OpenManualCommitSession/CloseManualCommitSession/CommitManually methods,
// which block on a reply channel the same way a Rust oneshot would.
package orchestrator
